package project

import (
	"strings"

	"github.com/gosimple/slug"
)

const maxSlugLen = 50

// Normalize converts a project name into its filesystem identity.
// Example: "Churn Reduction (Q3)" → "churn-reduction-q3"
//
// Rules:
//   - Unicode folded to ASCII, lowercased, separators become hyphens
//   - Truncated to 50 characters (at a word boundary if possible)
//   - Input that normalizes to nothing returns "unnamed-project"
//
// Names differing only in case or spacing normalize to the same slug;
// the store treats that as a duplicate rather than silently suffixing,
// so callers get an explicit "already exists" failure.
func Normalize(name string) string {
	s := slug.Make(name)
	if s == "" {
		return "unnamed-project"
	}

	if len(s) <= maxSlugLen {
		return s
	}

	// Truncate at word boundary if possible.
	truncated := s[:maxSlugLen]
	if lastHyphen := strings.LastIndex(truncated, "-"); lastHyphen > maxSlugLen/2 {
		truncated = truncated[:lastHyphen]
	}

	return strings.TrimRight(truncated, "-")
}
