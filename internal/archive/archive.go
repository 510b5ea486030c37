// Package archive persists exploration conversations, one immutable
// markdown record per session, and reassembles prior-session context for
// the extractor and the gap analyzer.
package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/HendryAvila/compass/internal/project"
)

// NoPriorSessions is returned as prior context when a project has no
// stored sessions yet, so downstream consumers never see silent empties.
const NoPriorSessions = "No previous exploration sessions found."

// reviewFallbackTask is the focus when every exploration task is done.
const reviewFallbackTask = "Review and validate all exploration findings"

const (
	contentMarker = "## Conversation Content"
	recordFooter  = "*Generated by Compass MCP Server*"
)

// Session identifies one stored conversation record.
type Session struct {
	Number int
	Path   string
}

// StartInfo is everything a caller needs to run the next exploration
// session: its number, the accumulated prior context, and what to focus
// on.
type StartInfo struct {
	SessionNumber int
	PriorContext  string
	FocusTask     string
}

// Archive reads and writes conversation records under a projects root.
type Archive struct {
	root string
}

// New returns an Archive over the given projects root.
func New(root string) *Archive {
	return &Archive{root: root}
}

// StartSession prepares the next session without mutating anything: the
// number is projected from the session count, prior context is loaded,
// and the focus task is chosen. An explicit focus override wins over the
// task list.
func (a *Archive) StartSession(p *project.Project, tasks []project.Task, focusOverride string) (StartInfo, error) {
	context, err := a.LoadContext(p.Slug)
	if err != nil {
		return StartInfo{}, err
	}
	return StartInfo{
		SessionNumber: p.SessionCount + 1,
		PriorContext:  context,
		FocusTask:     focusTask(tasks, focusOverride),
	}, nil
}

// SaveSession writes the next session record and returns it. The record
// is immutable: session numbers are contiguous and a number is never
// reused. Updating the project's session count afterwards is the
// caller's job.
func (a *Archive) SaveSession(p *project.Project, content, summary string) (Session, error) {
	number := p.SessionCount + 1
	if summary == "" {
		summary = "No summary provided"
	}

	record := fmt.Sprintf(`# Exploration Session %d

**Date:** %s
**Project:** %s

## Session Summary
%s

%s

%s

---
%s
`, number, project.Timestamp(), p.Name, summary, contentMarker, content, recordFooter)

	path := filepath.Join(project.ExplorationDir(a.root, p.Slug), fmt.Sprintf("conversation-%d.md", number))
	if err := os.WriteFile(path, []byte(record), 0o644); err != nil {
		return Session{}, fmt.Errorf("writing session %d: %w", number, err)
	}
	return Session{Number: number, Path: path}, nil
}

// WriteCompletionOverride records a force-completion of the exploration
// phase next to the session files: the supplied reason plus the tasks
// that were marked done without being worked. It returns the record path.
func (a *Archive) WriteCompletionOverride(p *project.Project, reason string, forced []string, total int) (string, error) {
	var list strings.Builder
	for _, text := range forced {
		fmt.Fprintf(&list, "- %s\n", text)
	}

	record := fmt.Sprintf(`# Exploration Phase Completion

**Project:** %s
**Completed:** %s
**Tasks Force-Completed:** %d/%d
**Sessions Conducted:** %d

## Reason

%s

## Force-Completed Tasks

%s
---
%s
`, p.Name, project.Timestamp(), len(forced), total, p.SessionCount, reason, list.String(), recordFooter)

	path := filepath.Join(project.ExplorationDir(a.root, p.Slug), "completion-override.md")
	if err := os.WriteFile(path, []byte(record), 0o644); err != nil {
		return "", fmt.Errorf("writing completion override: %w", err)
	}
	return path, nil
}

// Sessions lists stored conversation records in session-number order.
// Files that do not look like conversation records are ignored.
func (a *Archive) Sessions(slug string) ([]Session, error) {
	dir := project.ExplorationDir(a.root, slug)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading exploration directory: %w", err)
	}

	var sessions []Session
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		number, ok := sessionNumber(entry.Name())
		if !ok {
			continue
		}
		sessions = append(sessions, Session{Number: number, Path: filepath.Join(dir, entry.Name())})
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Number < sessions[j].Number })
	return sessions, nil
}

// LoadContext joins all session contents in session-number order,
// stripped of record markup. Zero sessions yield the NoPriorSessions
// sentinel.
func (a *Archive) LoadContext(slug string) (string, error) {
	sessions, err := a.Sessions(slug)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, s := range sessions {
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return "", fmt.Errorf("reading session %d: %w", s.Number, err)
		}
		body := stripRecordMarkup(string(data))
		if body == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Session %d ---\n\n%s", s.Number, body))
	}

	if len(parts) == 0 {
		return NoPriorSessions, nil
	}
	return strings.Join(parts, "\n\n"), nil
}

// focusTask picks the session focus: the override when given, otherwise
// the first incomplete task, otherwise a final review pass.
func focusTask(tasks []project.Task, override string) string {
	if override != "" {
		return "Deep dive into: " + override
	}
	if i := project.FirstIncomplete(tasks); i >= 0 {
		return tasks[i].Text
	}
	return reviewFallbackTask
}

// sessionNumber parses N out of "conversation-N.md".
func sessionNumber(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "conversation-")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, ".md")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// stripRecordMarkup recovers the conversation body from a stored record.
// Unrecognized files pass through whole so hand-written notes still count
// as context.
func stripRecordMarkup(record string) string {
	body := record
	if _, after, found := strings.Cut(record, contentMarker); found {
		body = after
	}
	if before, _, found := strings.Cut(body, "---\n"+recordFooter); found {
		body = before
	}
	return strings.TrimSpace(body)
}
