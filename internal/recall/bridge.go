package recall

import "log"

// Bridge forwards saved sessions into the recall index. It is an
// optional dependency: a nil *Bridge is a valid observer that does
// nothing, so the server can wire it without checking whether the
// index is enabled.
type Bridge struct {
	store *Store
}

// NewBridge creates a bridge that indexes every archived session.
// Returns nil if store is nil; a nil bridge stays safe to call.
func NewBridge(store *Store) *Bridge {
	if store == nil {
		return nil
	}
	return &Bridge{store: store}
}

// SessionSaved indexes an archived conversation. Best-effort: the
// markdown archive write has already succeeded and is the record of
// truth, so index failures are logged rather than propagated.
func (b *Bridge) SessionSaved(projectName, slug string, sessionNumber int, content, summary string) {
	if b == nil || b.store == nil {
		return
	}
	if err := b.store.IndexSession(projectName, slug, sessionNumber, content, summary); err != nil {
		log.Printf("WARNING: recall bridge: session %d for %q: %v", sessionNumber, projectName, err)
	}
}
