package project

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now

// Timestamp returns the current time as an RFC3339 UTC string, the
// format used for every timestamp the engine persists.
func Timestamp() string {
	return timeNow().UTC().Format(time.RFC3339)
}

// FileStamp returns the current time formatted for collision-free file
// names (specification documents, feedback notes).
func FileStamp() string {
	return timeNow().UTC().Format("20060102-150405")
}

// DateStamp returns the current date, used in rendered documents.
func DateStamp() string {
	return timeNow().UTC().Format("2006-01-02")
}
