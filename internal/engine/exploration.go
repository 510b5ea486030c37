package engine

import (
	"strings"

	"github.com/HendryAvila/compass/internal/archive"
	"github.com/HendryAvila/compass/internal/phase"
	"github.com/HendryAvila/compass/internal/project"
)

// StartExplorationSession opens a new discovery session: it reports the
// next session number, the accumulated context from prior sessions, and
// the task the session should focus on. Nothing is persisted until the
// session is saved.
func (e *Engine) StartExplorationSession(name, focusOverride string) (archive.StartInfo, error) {
	p, err := e.loadProject(name)
	if err != nil {
		return archive.StartInfo{}, err
	}

	if err := phase.Require(p, project.PhaseExploration, "reopen the exploration phase to run more discovery sessions"); err != nil {
		return archive.StartInfo{}, wrap(err)
	}

	tasks, err := e.store.LoadTasks(p.Slug)
	if err != nil {
		return archive.StartInfo{}, wrap(err)
	}

	info, err := e.archive.StartSession(p, tasks, focusOverride)
	if err != nil {
		return archive.StartInfo{}, wrap(err)
	}
	return info, nil
}

// SaveResult reports an archived session plus the task-completion state
// callers use to suggest what to do next.
type SaveResult struct {
	Session   archive.Session
	Completed int
	Total     int
}

// SaveExplorationSession archives conversation content as the next
// numbered session, increments the project's session count, and stamps
// the last-session time. Sessions are append-only; saving never
// renumbers or overwrites an earlier record.
func (e *Engine) SaveExplorationSession(name, content, summary string) (*SaveResult, error) {
	p, err := e.loadProject(name)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalid("session content is required")
	}

	sess, err := e.archive.SaveSession(p, content, summary)
	if err != nil {
		return nil, wrap(err)
	}

	p.SessionCount = sess.Number
	p.LastSessionAt = project.Timestamp()
	if err := e.store.Save(p); err != nil {
		return nil, wrap(err)
	}

	if e.observer != nil {
		e.observer.SessionSaved(p.Name, p.Slug, sess.Number, content, summary)
	}

	tasks, err := e.store.LoadTasks(p.Slug)
	if err != nil {
		return nil, wrap(err)
	}
	return &SaveResult{
		Session:   sess,
		Completed: project.CompletedCount(tasks),
		Total:     len(tasks),
	}, nil
}

// CompleteResult reports what completing exploration did.
type CompleteResult struct {
	Project      *project.Project
	Forced       []string // texts of tasks force-marked completed
	OverridePath string   // completion-override record, "" when nothing was forced
}

// CompleteExplorationPhase moves the project from exploration to
// specification. With tasks outstanding it requires an explicit reason;
// the outstanding tasks are then force-marked completed and the
// override is recorded alongside the session files.
func (e *Engine) CompleteExplorationPhase(name, reason string) (*CompleteResult, error) {
	p, err := e.loadProject(name)
	if err != nil {
		return nil, err
	}

	tasks, err := e.store.LoadTasks(p.Slug)
	if err != nil {
		return nil, wrap(err)
	}

	forced, err := phase.CompleteExploration(p, tasks, reason)
	if err != nil {
		return nil, wrap(err)
	}

	overridePath := ""
	if len(forced) > 0 {
		overridePath, err = e.archive.WriteCompletionOverride(p, reason, forced, len(tasks))
		if err != nil {
			return nil, wrap(err)
		}
	}

	if err := e.store.SaveTasks(p, tasks); err != nil {
		return nil, wrap(err)
	}
	if err := e.store.Save(p); err != nil {
		return nil, wrap(err)
	}

	return &CompleteResult{Project: p, Forced: forced, OverridePath: overridePath}, nil
}
