package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HendryAvila/compass/internal/phase"
	"github.com/HendryAvila/compass/internal/project"
)

// ExecutionPlan is the task list derived when execution starts.
type ExecutionPlan struct {
	Project *project.Project
	Tasks   []string
	Source  string // specification document the plan derives from
	Path    string // where the plan was written
}

// StartExecution moves the project into the execution phase and derives
// an implementation plan from the newest specification document. The
// transition requires the specification to be explicitly marked
// complete; documents sitting on disk are not enough on their own.
func (e *Engine) StartExecution(name string) (*ExecutionPlan, error) {
	p, err := e.loadProject(name)
	if err != nil {
		return nil, err
	}

	docs, err := e.specDocuments(p.Slug)
	if err != nil {
		return nil, wrap(err)
	}

	if err := phase.StartExecution(p, len(docs)); err != nil {
		return nil, wrap(err)
	}

	source := docs[len(docs)-1]
	content, err := os.ReadFile(filepath.Join(project.SpecificationDir(e.root, p.Slug), source))
	if err != nil {
		return nil, wrap(fmt.Errorf("reading specification %q: %w", source, err))
	}

	tasks := planFromDocument(string(content))
	if len(tasks) == 0 {
		tasks = defaultPlan()
	}

	path := filepath.Join(project.ExecutionDir(e.root, p.Slug), project.TasksFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, wrap(fmt.Errorf("creating execution directory: %w", err))
	}
	if err := os.WriteFile(path, []byte(formatExecutionPlan(p, source, tasks)), 0o644); err != nil {
		return nil, wrap(fmt.Errorf("writing execution plan: %w", err))
	}

	if err := e.store.Save(p); err != nil {
		return nil, wrap(err)
	}

	return &ExecutionPlan{Project: p, Tasks: tasks, Source: source, Path: path}, nil
}

// planFromDocument turns a specification's section headers into
// implementation tasks. Documents without sections yield nil and the
// caller falls back to the default plan.
func planFromDocument(content string) []string {
	var tasks []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "## ") {
			continue
		}
		section := strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))
		if section == "" {
			continue
		}
		tasks = append(tasks, "Implement: "+section)
	}
	if len(tasks) == 0 {
		return nil
	}
	return append(tasks, closingTasks()...)
}

// defaultPlan covers specifications the planner cannot read structure
// out of, such as hand-written documents without section headers.
func defaultPlan() []string {
	return append([]string{
		"Review the specification document",
		"Break the specification into implementation work items",
		"Implement the planned work",
	}, closingTasks()...)
}

func closingTasks() []string {
	return []string{
		"Verify the results against the acceptance criteria",
		"Capture feedback for the next iteration",
	}
}

// formatExecutionPlan renders the execution task list as markdown
// checkboxes, mirroring the exploration tasks.md format.
func formatExecutionPlan(p *project.Project, source string, tasks []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s - Execution Plan\n\n", p.Name)
	fmt.Fprintf(&sb, "**Started:** %s\n", p.ExecutionStartedAt)
	fmt.Fprintf(&sb, "**Source:** %s\n\n", source)

	sb.WriteString("## Tasks\n\n")
	for _, task := range tasks {
		fmt.Fprintf(&sb, "- [ ] %s\n", task)
	}

	return sb.String()
}

// FeedbackNote records where a feedback note landed and the phase the
// project is in afterwards.
type FeedbackNote struct {
	Path  string
	Phase project.Phase
}

// SaveFeedback appends a timestamped feedback note. The first note on
// an executing project moves it into the feedback phase; the phase then
// accepts notes indefinitely.
func (e *Engine) SaveFeedback(name, content string) (*FeedbackNote, error) {
	p, err := e.loadProject(name)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalid("feedback content is required")
	}

	if err := phase.EnterFeedback(p); err != nil {
		return nil, wrap(err)
	}

	dir := project.FeedbackDir(e.root, p.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrap(fmt.Errorf("creating feedback directory: %w", err))
	}

	note := fmt.Sprintf("# Feedback - %s\n\n**Date:** %s\n\n%s\n", p.Name, project.Timestamp(), content)
	path := uniquePath(filepath.Join(dir, "feedback-"+project.FileStamp()+".md"))
	if err := os.WriteFile(path, []byte(note), 0o644); err != nil {
		return nil, wrap(fmt.Errorf("writing feedback note: %w", err))
	}

	if err := e.store.Save(p); err != nil {
		return nil, wrap(err)
	}
	return &FeedbackNote{Path: path, Phase: p.Phase}, nil
}

// ReopenPhase is the flywheel: it moves the project back to an earlier
// phase so new findings can be worked in. The reason is recorded on the
// project, and reopening exploration turns it into a fresh task so the
// next session has something concrete to chase.
func (e *Engine) ReopenPhase(name string, target project.Phase, reason string) (*project.Project, error) {
	p, err := e.loadProject(name)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, invalid("a reopen reason is required")
	}
	if err := project.ValidatePhase(target); err != nil {
		return nil, invalid(err.Error())
	}

	if err := phase.Reopen(p, target, reason); err != nil {
		return nil, wrap(err)
	}

	if target == project.PhaseExploration {
		tasks, err := e.store.LoadTasks(p.Slug)
		if err != nil {
			return nil, wrap(err)
		}
		tasks = append(tasks, project.Task{Text: "Address: " + reason})
		if err := e.store.SaveTasks(p, tasks); err != nil {
			return nil, wrap(err)
		}
	}

	if err := e.store.Save(p); err != nil {
		return nil, wrap(err)
	}
	return p, nil
}
