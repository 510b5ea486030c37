// Package engine is the Compass methodology engine: four gated phases
// (exploration, specification, execution, feedback) over file-backed
// projects. It is the single shared implementation behind every
// transport adapter; adapters parse input, call one engine operation,
// and render the result.
//
// Every operation takes the project NAME as given by the user and
// resolves it to a slug internally, so callers never handle paths. All
// state lives under one projects root passed at construction; nothing
// reads the process working directory.
//
// Failures are *Error values carrying a Kind from the taxonomy in
// errors.go. Precondition failures always carry the remedying next
// action.
package engine

import (
	"strings"

	"github.com/HendryAvila/compass/internal/archive"
	"github.com/HendryAvila/compass/internal/pattern"
	"github.com/HendryAvila/compass/internal/project"
)

// SessionObserver is notified after a conversation session has been
// archived. The recall index hangs off this; the engine itself never
// depends on it and a nil observer is valid.
type SessionObserver interface {
	SessionSaved(projectName, slug string, sessionNumber int, content, summary string)
}

// Engine coordinates all Compass operations over one projects root.
type Engine struct {
	root     string
	store    project.Store
	archive  *archive.Archive
	patterns *pattern.Registry
	observer SessionObserver
}

// New creates an engine rooted at root. The pattern registry is shared
// and read-only; observer may be nil.
func New(root string, patterns *pattern.Registry, observer SessionObserver) *Engine {
	return &Engine{
		root:     root,
		store:    project.NewFileStore(root),
		archive:  archive.New(root),
		patterns: patterns,
		observer: observer,
	}
}

// Root returns the projects root directory this engine operates on.
func (e *Engine) Root() string {
	return e.root
}

// Patterns returns the registry the engine renders specifications from.
func (e *Engine) Patterns() *pattern.Registry {
	return e.patterns
}

// loadProject resolves a user-supplied project name to its record.
func (e *Engine) loadProject(name string) (*project.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("project name is required")
	}
	p, err := e.store.Load(project.Normalize(name))
	if err != nil {
		return nil, wrap(err)
	}
	return p, nil
}
