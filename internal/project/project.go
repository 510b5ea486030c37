// Package project owns the persistent identity of a Compass project:
// the metadata record, the exploration task list, and the on-disk layout
// under the projects root.
//
// Design principles, shared with the rest of the engine:
//   - SRP: metadata, tasks, slug, and store live in separate files
//   - DIP: Store is an interface; the engine depends on the abstraction
//   - Phase values are written only by the phase package's transitions
package project

import (
	"errors"
	"fmt"
)

// --- Phase enum ---

// Phase is the methodology phase a project is currently in.
type Phase string

const (
	PhaseExploration   Phase = "exploration"
	PhaseSpecification Phase = "specification"
	PhaseExecution     Phase = "execution"
	PhaseFeedback      Phase = "feedback"
)

// PhaseOrder is the canonical forward progression of phases.
var PhaseOrder = []Phase{
	PhaseExploration,
	PhaseSpecification,
	PhaseExecution,
	PhaseFeedback,
}

// validPhases is the set of allowed phases.
var validPhases = map[Phase]bool{
	PhaseExploration:   true,
	PhaseSpecification: true,
	PhaseExecution:     true,
	PhaseFeedback:      true,
}

// ValidatePhase returns an error if the phase is not recognized.
func ValidatePhase(p Phase) error {
	if !validPhases[p] {
		return fmt.Errorf("invalid phase %q: must be one of: exploration, specification, execution, feedback", p)
	}
	return nil
}

// --- Sentinel errors ---

// ErrNotFound reports a lookup for a project that does not exist.
var ErrNotFound = errors.New("project not found")

// ErrExists reports an attempt to create a project whose slug is taken.
var ErrExists = errors.New("project already exists")

// --- Core data structure ---

// Project is the metadata record for one unit of work, persisted as
// project.json inside the project's directory. Timestamps are RFC3339 UTC
// strings; the empty string means "not yet".
type Project struct {
	Name                     string `json:"name"`
	Slug                     string `json:"slug"`
	Phase                    Phase  `json:"current_phase"`
	SessionCount             int    `json:"session_count"`
	CreatedAt                string `json:"created_at"`
	LastSessionAt            string `json:"last_session_at,omitempty"`
	ExplorationCompletedAt   string `json:"exploration_completed_at,omitempty"`
	SpecificationCompletedAt string `json:"specification_completed_at,omitempty"`
	ExecutionStartedAt       string `json:"execution_started_at,omitempty"`
	CompletionReason         string `json:"completion_reason,omitempty"`
	ReopenedFrom             Phase  `json:"reopened_from,omitempty"`
	ReopenReason             string `json:"reopen_reason,omitempty"`
}

// New creates a Project in the exploration phase with a normalized slug
// and a creation timestamp.
func New(name string) *Project {
	return &Project{
		Name:      name,
		Slug:      Normalize(name),
		Phase:     PhaseExploration,
		CreatedAt: Timestamp(),
	}
}
