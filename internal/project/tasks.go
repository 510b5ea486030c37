package project

import (
	"fmt"
	"strings"
)

// Task is one exploration checklist item. The list lives in tasks.md as
// markdown checkboxes so users can read and edit it by hand.
type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// DefaultExplorationTasks returns the checklist seeded at project
// initialization. Completing (or force-completing) all of them is what
// unlocks the specification phase.
func DefaultExplorationTasks() []Task {
	texts := []string{
		"Define the core problem or opportunity this project addresses",
		"Identify primary stakeholders and their specific needs",
		"Establish clear success criteria and measurement methods",
		"Document constraints, limitations, and assumptions",
		"Analyze the broader context and environment",
		"Research existing solutions and approaches",
		"Assess available resources and capabilities",
		"Identify dependencies and external factors",
		"Define project scope and boundaries clearly",
		"Evaluate primary risks and mitigation strategies",
	}
	tasks := make([]Task, len(texts))
	for i, t := range texts {
		tasks[i] = Task{Text: t}
	}
	return tasks
}

// CompletedCount returns how many tasks are checked off.
func CompletedCount(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// FirstIncomplete returns the index of the first unchecked task, or -1
// when every task is completed.
func FirstIncomplete(tasks []Task) int {
	for i, t := range tasks {
		if !t.Completed {
			return i
		}
	}
	return -1
}

// ParseTaskList extracts exploration tasks from tasks.md content.
// Only checkbox lines inside the "Phase 1: Exploration" section count;
// everything else (headers, status block, locked phase sections) is
// ignored, so hand edits elsewhere in the file are harmless.
func ParseTaskList(content string) []Task {
	var tasks []Task
	inExploration := false

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "## Phase 1: Exploration") {
			inExploration = true
			continue
		}
		if strings.Contains(line, "## Phase 2:") {
			inExploration = false
		}
		if !inExploration {
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- [x]"):
			tasks = append(tasks, Task{Text: strings.TrimSpace(trimmed[5:]), Completed: true})
		case strings.HasPrefix(trimmed, "- [ ]"):
			tasks = append(tasks, Task{Text: strings.TrimSpace(trimmed[5:])})
		}
	}

	return tasks
}

// FormatTaskList renders the full tasks.md content for a project.
// The file is regenerated on every save; it is the canonical task store.
func FormatTaskList(p *Project, tasks []Task) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s - Compass Project Tasks\n\n", p.Name)
	fmt.Fprintf(&sb, "**Current Phase:** %s\n", titleCase(string(p.Phase)))
	fmt.Fprintf(&sb, "**Created:** %s\n", p.CreatedAt)
	fmt.Fprintf(&sb, "**Sessions:** %d\n\n", p.SessionCount)

	sb.WriteString("## Phase 1: Exploration\n\n")
	for _, t := range tasks {
		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}
		fmt.Fprintf(&sb, "- %s %s\n", checkbox, t.Text)
	}

	sb.WriteString("\n## Phase 2: Specification\n")
	sb.WriteString(phaseSectionNote(p.Phase, PhaseSpecification))
	sb.WriteString("\n## Phase 3: Execution\n")
	sb.WriteString(phaseSectionNote(p.Phase, PhaseExecution))
	sb.WriteString("\n## Phase 4: Feedback\n")
	sb.WriteString(phaseSectionNote(p.Phase, PhaseFeedback))

	if idx := FirstIncomplete(tasks); idx >= 0 {
		fmt.Fprintf(&sb, "\nNext action: %s\n", tasks[idx].Text)
	} else {
		sb.WriteString("\nNext action: all exploration tasks complete\n")
	}

	return sb.String()
}

// phaseSectionNote marks later phase sections as locked or reached.
func phaseSectionNote(current, section Phase) string {
	ci, si := phasePosition(current), phasePosition(section)
	if ci >= si {
		return "(Reached)\n"
	}
	return "(Locked until prior phase completes)\n"
}

// phasePosition returns the index of p in PhaseOrder, or -1.
func phasePosition(p Phase) int {
	for i, candidate := range PhaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// titleCase uppercases the first letter of an ASCII word.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
