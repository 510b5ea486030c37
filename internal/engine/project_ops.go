package engine

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/compass/internal/phase"
	"github.com/HendryAvila/compass/internal/project"
)

// InitResult is the outcome of creating a project.
type InitResult struct {
	Project *project.Project
	Tasks   []project.Task
}

// InitializeProject creates a project in the exploration phase and
// seeds the default exploration task list. Names that normalize to an
// existing slug fail with an already-exists error rather than being
// silently suffixed.
func (e *Engine) InitializeProject(name string) (*InitResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("project name is required")
	}

	p := project.New(name)
	if err := e.store.Create(p); err != nil {
		return nil, wrap(err)
	}

	tasks := project.DefaultExplorationTasks()
	if err := e.store.SaveTasks(p, tasks); err != nil {
		return nil, wrap(err)
	}

	return &InitResult{Project: p, Tasks: tasks}, nil
}

// ListProjects returns every project under the root, ordered by slug.
func (e *Engine) ListProjects() ([]*project.Project, error) {
	list, err := e.store.List()
	if err != nil {
		return nil, wrap(err)
	}
	return list, nil
}

// Status is a read-only snapshot of one project.
type Status struct {
	Project        *project.Project
	Tasks          []project.Task
	CompletedTasks int
	Documents      []string // specification document names, oldest first
	Recommendation string
}

// ProjectStatus reports a project's phase, task progress, generated
// documents, and the recommended next step.
func (e *Engine) ProjectStatus(name string) (*Status, error) {
	p, err := e.loadProject(name)
	if err != nil {
		return nil, err
	}

	tasks, err := e.store.LoadTasks(p.Slug)
	if err != nil {
		return nil, wrap(err)
	}

	docs, err := e.specDocuments(p.Slug)
	if err != nil {
		return nil, wrap(err)
	}

	return &Status{
		Project:        p,
		Tasks:          tasks,
		CompletedTasks: project.CompletedCount(tasks),
		Documents:      docs,
		Recommendation: recommendation(p, tasks, len(docs)),
	}, nil
}

// recommendation picks the single next step a caller should take.
func recommendation(p *project.Project, tasks []project.Task, documents int) string {
	switch p.Phase {
	case project.PhaseExploration:
		if idx := project.FirstIncomplete(tasks); idx >= 0 {
			return fmt.Sprintf("Continue exploration: %s", tasks[idx].Text)
		}
		return "All exploration tasks are complete. Complete the exploration phase to unlock specification."
	case project.PhaseSpecification:
		if documents == 0 {
			return "Generate a specification document from a pattern."
		}
		if p.SpecificationCompletedAt == "" {
			return "Review the generated specification and mark it complete."
		}
		return "Start execution to derive the implementation plan."
	case project.PhaseExecution:
		return "Work through the execution plan and save feedback as results come in."
	case project.PhaseFeedback:
		return "Record feedback and run gap analysis to decide whether a phase needs reopening."
	}
	return "Check the project record; its phase is not recognized."
}

// UpdateTask sets the completion state of one exploration task by its
// 1-based position. Only valid while the project is still exploring;
// later phases hold every task completed by invariant.
func (e *Engine) UpdateTask(name string, index int, completed bool) (project.Task, error) {
	p, err := e.loadProject(name)
	if err != nil {
		return project.Task{}, err
	}

	if err := phase.Require(p, project.PhaseExploration, "reopen exploration to change its task list"); err != nil {
		return project.Task{}, wrap(err)
	}

	tasks, err := e.store.LoadTasks(p.Slug)
	if err != nil {
		return project.Task{}, wrap(err)
	}
	if index < 1 || index > len(tasks) {
		return project.Task{}, invalid(fmt.Sprintf("task number %d is out of range; the list has %d tasks", index, len(tasks)))
	}

	tasks[index-1].Completed = completed
	if err := e.store.SaveTasks(p, tasks); err != nil {
		return project.Task{}, wrap(err)
	}
	return tasks[index-1], nil
}
