// Package phase owns the methodology state machine: the forward
// transitions between exploration, specification, execution, and
// feedback, the gates guarding them, and explicit flywheel reopening.
// Transitions mutate the project record in memory only; persisting the
// outcome is the caller's job, so a failed write never leaves a
// half-applied transition on disk.
package phase

import (
	"errors"
	"fmt"

	"github.com/HendryAvila/compass/internal/project"
)

// ErrNoSpecification reports a transition that needs at least one
// specification document on disk and found none. Distinct from gate
// errors so callers can tell "wrong phase" from "nothing generated".
var ErrNoSpecification = errors.New("no specification content")

// GateError is a violated phase precondition. Condition names what is
// unmet; Remedy names the action that would satisfy it.
type GateError struct {
	Condition string
	Remedy    string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s; next: %s", e.Condition, e.Remedy)
}

// Index returns a phase's position in the forward progression, or -1.
func Index(ph project.Phase) int {
	for i, candidate := range project.PhaseOrder {
		if candidate == ph {
			return i
		}
	}
	return -1
}

// Require gates an operation on the project being in a specific phase.
func Require(p *project.Project, want project.Phase, remedy string) error {
	if p.Phase == want {
		return nil
	}
	return &GateError{
		Condition: fmt.Sprintf("project is in the %s phase, not %s", p.Phase, want),
		Remedy:    remedy,
	}
}

// CompleteExploration applies the exploration to specification
// transition. With tasks outstanding it requires an explicit reason,
// force-marks every task completed, and records the reason. It returns
// the texts of the tasks that were forced.
func CompleteExploration(p *project.Project, tasks []project.Task, reason string) ([]string, error) {
	if p.Phase != project.PhaseExploration {
		return nil, &GateError{
			Condition: fmt.Sprintf("project is in the %s phase, not exploration", p.Phase),
			Remedy:    "reopen exploration if more discovery is needed",
		}
	}

	var outstanding []string
	for _, t := range tasks {
		if !t.Completed {
			outstanding = append(outstanding, t.Text)
		}
	}
	if len(outstanding) > 0 && reason == "" {
		return nil, &GateError{
			Condition: fmt.Sprintf("%d exploration tasks remain incomplete", len(outstanding)),
			Remedy:    "finish the remaining tasks or supply a completion reason to force-complete them",
		}
	}
	if len(outstanding) > 0 {
		for i := range tasks {
			tasks[i].Completed = true
		}
		p.CompletionReason = reason
	}

	p.Phase = project.PhaseSpecification
	p.ExplorationCompletedAt = project.Timestamp()
	return outstanding, nil
}

// MarkSpecificationComplete stamps the specification as done. Generating
// documents never stamps this: multiple documents may be rendered before
// the caller is satisfied, so completion is its own explicit step.
func MarkSpecificationComplete(p *project.Project, documents int) error {
	if p.Phase != project.PhaseSpecification {
		if p.Phase == project.PhaseExploration {
			return &GateError{
				Condition: "exploration is not complete",
				Remedy:    "complete the exploration phase first",
			}
		}
		return &GateError{
			Condition: fmt.Sprintf("project is in the %s phase; the specification is already locked", p.Phase),
			Remedy:    "reopen specification to revise it",
		}
	}
	if p.SpecificationCompletedAt != "" {
		return &GateError{
			Condition: "specification is already marked complete",
			Remedy:    "start execution",
		}
	}
	if documents == 0 {
		return fmt.Errorf("%w: generate a specification document before marking the phase complete", ErrNoSpecification)
	}

	p.SpecificationCompletedAt = project.Timestamp()
	return nil
}

// StartExecution applies the specification to execution transition. The
// completion stamp is checked before the document count so the two
// failure modes stay distinguishable.
func StartExecution(p *project.Project, documents int) error {
	switch p.Phase {
	case project.PhaseExploration:
		return &GateError{
			Condition: "exploration and specification are not complete",
			Remedy:    "complete exploration, generate a specification, and mark it complete first",
		}
	case project.PhaseExecution, project.PhaseFeedback:
		return &GateError{
			Condition: fmt.Sprintf("execution already started; project is in the %s phase", p.Phase),
			Remedy:    "update execution tasks or record feedback",
		}
	}
	if p.SpecificationCompletedAt == "" {
		return &GateError{
			Condition: "specification is not marked complete",
			Remedy:    "mark the specification complete first",
		}
	}
	if documents == 0 {
		return fmt.Errorf("%w: no specification document exists for this project", ErrNoSpecification)
	}

	p.Phase = project.PhaseExecution
	p.ExecutionStartedAt = project.Timestamp()
	return nil
}

// EnterFeedback moves execution to feedback on the first feedback note.
// Already being in feedback is fine; earlier phases are gated.
func EnterFeedback(p *project.Project) error {
	switch p.Phase {
	case project.PhaseFeedback:
		return nil
	case project.PhaseExecution:
		p.Phase = project.PhaseFeedback
		return nil
	default:
		return &GateError{
			Condition: fmt.Sprintf("project is in the %s phase", p.Phase),
			Remedy:    "start execution before recording feedback",
		}
	}
}

// Reopen is the flywheel: an explicit decision to move the project back
// to an earlier phase. It records where the reopening came from and why,
// and clears the completion stamps the reopened work invalidates.
func Reopen(p *project.Project, target project.Phase, reason string) error {
	if err := project.ValidatePhase(target); err != nil {
		return err
	}
	current, goal := Index(p.Phase), Index(target)
	if goal >= current {
		return &GateError{
			Condition: fmt.Sprintf("target phase %q does not precede the current %q phase", target, p.Phase),
			Remedy:    "pick a phase earlier than the current one",
		}
	}

	p.ReopenedFrom = p.Phase
	p.ReopenReason = reason
	p.Phase = target

	if goal <= Index(project.PhaseExploration) {
		p.ExplorationCompletedAt = ""
		p.CompletionReason = ""
	}
	if goal <= Index(project.PhaseSpecification) {
		p.SpecificationCompletedAt = ""
	}
	if goal <= Index(project.PhaseExecution) {
		p.ExecutionStartedAt = ""
	}
	return nil
}
