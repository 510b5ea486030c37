package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HendryAvila/compass/internal/pattern"
	"github.com/HendryAvila/compass/internal/project"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	reg, err := pattern.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return New(t.TempDir(), reg, nil)
}

func asEngineErr(t *testing.T, err error) *Error {
	t.Helper()
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v, want *engine.Error", err)
	}
	return e
}

// toSpecification drives a fresh project through exploration with two
// realistic Q&A sessions and a forced completion.
func toSpecification(t *testing.T, e *Engine, name string) {
	t.Helper()
	if _, err := e.SaveExplorationSession(name,
		"Assistant: What is the main problem you are seeing?\nUser: User churn spikes after the first week.",
		"Churn discovery"); err != nil {
		t.Fatalf("SaveExplorationSession 1: %v", err)
	}
	if _, err := e.SaveExplorationSession(name,
		"Assistant: What features do you need?\nUser: Mobile UX parity with the web app.",
		"Feature discovery"); err != nil {
		t.Fatalf("SaveExplorationSession 2: %v", err)
	}
	if _, err := e.CompleteExplorationPhase(name, "Time-boxed discovery finished"); err != nil {
		t.Fatalf("CompleteExplorationPhase: %v", err)
	}
}

// --- InitializeProject ---

func TestInitializeProject(t *testing.T) {
	e := newEngine(t)

	result, err := e.InitializeProject("Churn Reduction")
	if err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	if result.Project.Slug != "churn-reduction" {
		t.Errorf("Slug = %q, want churn-reduction", result.Project.Slug)
	}
	if result.Project.Phase != project.PhaseExploration {
		t.Errorf("Phase = %q, want exploration", result.Project.Phase)
	}
	if len(result.Tasks) != 10 {
		t.Errorf("seeded %d tasks, want 10", len(result.Tasks))
	}

	for _, path := range []string{
		project.MetadataPath(e.Root(), "churn-reduction"),
		project.TasksPath(e.Root(), "churn-reduction"),
		project.ExplorationDir(e.Root(), "churn-reduction"),
		project.SpecificationDir(e.Root(), "churn-reduction"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}
}

func TestInitializeProject_EmptyName(t *testing.T) {
	e := newEngine(t)

	_, err := e.InitializeProject("   ")
	if KindOf(err) != KindInvalidInput {
		t.Fatalf("KindOf = %q, want invalid_input (err: %v)", KindOf(err), err)
	}
}

func TestInitializeProject_NormalizedDuplicate(t *testing.T) {
	e := newEngine(t)

	if _, err := e.InitializeProject("Data Pipeline"); err != nil {
		t.Fatalf("first InitializeProject: %v", err)
	}

	// Differs only in case and spacing, so it normalizes to the same slug.
	_, err := e.InitializeProject("data   PIPELINE")
	if KindOf(err) != KindAlreadyExists {
		t.Fatalf("KindOf = %q, want already_exists (err: %v)", KindOf(err), err)
	}
}

func TestInitializeProject_DistinctNamesCoexist(t *testing.T) {
	e := newEngine(t)

	for _, name := range []string{"Alpha", "Beta"} {
		if _, err := e.InitializeProject(name); err != nil {
			t.Fatalf("InitializeProject(%s): %v", name, err)
		}
	}

	list, err := e.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListProjects = %d entries, want 2", len(list))
	}
}

// --- Exploration sessions ---

func TestSaveExplorationSession_ContiguousNumbering(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	for i := 1; i <= 3; i++ {
		result, err := e.SaveExplorationSession("Alpha", "session content", "")
		if err != nil {
			t.Fatalf("SaveExplorationSession %d: %v", i, err)
		}
		if result.Session.Number != i {
			t.Errorf("session %d: Number = %d", i, result.Session.Number)
		}
	}

	status, err := e.ProjectStatus("Alpha")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if status.Project.SessionCount != 3 {
		t.Errorf("SessionCount = %d, want 3", status.Project.SessionCount)
	}
	if status.Project.LastSessionAt == "" {
		t.Error("LastSessionAt not stamped")
	}

	for i := 1; i <= 3; i++ {
		path := filepath.Join(project.ExplorationDir(e.Root(), "alpha"), fmt.Sprintf("conversation-%d.md", i))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing session file %d: %v", i, err)
		}
	}
}

func TestSaveExplorationSession_EmptyContent(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	_, err := e.SaveExplorationSession("Alpha", "   ", "")
	if KindOf(err) != KindInvalidInput {
		t.Fatalf("KindOf = %q, want invalid_input (err: %v)", KindOf(err), err)
	}
}

func TestSaveExplorationSession_MissingProject(t *testing.T) {
	e := newEngine(t)

	_, err := e.SaveExplorationSession("Ghost", "content", "")
	if KindOf(err) != KindNotFound {
		t.Fatalf("KindOf = %q, want not_found (err: %v)", KindOf(err), err)
	}
}

type sessionRecorder struct {
	slugs   []string
	numbers []int
}

func (r *sessionRecorder) SessionSaved(projectName, slug string, sessionNumber int, content, summary string) {
	r.slugs = append(r.slugs, slug)
	r.numbers = append(r.numbers, sessionNumber)
}

func TestSaveExplorationSession_NotifiesObserver(t *testing.T) {
	reg, err := pattern.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	rec := &sessionRecorder{}
	e := New(t.TempDir(), reg, rec)

	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	if _, err := e.SaveExplorationSession("Alpha", "first", ""); err != nil {
		t.Fatalf("SaveExplorationSession: %v", err)
	}
	if _, err := e.SaveExplorationSession("Alpha", "second", ""); err != nil {
		t.Fatalf("SaveExplorationSession: %v", err)
	}

	if len(rec.numbers) != 2 || rec.numbers[0] != 1 || rec.numbers[1] != 2 {
		t.Errorf("observed numbers = %v, want [1 2]", rec.numbers)
	}
	if len(rec.slugs) != 2 || rec.slugs[0] != "alpha" {
		t.Errorf("observed slugs = %v, want [alpha alpha]", rec.slugs)
	}
}

func TestStartExplorationSession_FreshProject(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	info, err := e.StartExplorationSession("Alpha", "")
	if err != nil {
		t.Fatalf("StartExplorationSession: %v", err)
	}
	if info.SessionNumber != 1 {
		t.Errorf("SessionNumber = %d, want 1", info.SessionNumber)
	}
	if info.PriorContext != "No previous exploration sessions found." {
		t.Errorf("PriorContext = %q, want the no-sessions sentinel", info.PriorContext)
	}
	if info.FocusTask != "Define the core problem or opportunity this project addresses" {
		t.Errorf("FocusTask = %q, want the first default task", info.FocusTask)
	}
}

func TestStartExplorationSession_FocusOverride(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	info, err := e.StartExplorationSession("Alpha", "checkout funnel")
	if err != nil {
		t.Fatalf("StartExplorationSession: %v", err)
	}
	if info.FocusTask != "Deep dive into: checkout funnel" {
		t.Errorf("FocusTask = %q", info.FocusTask)
	}
}

func TestStartExplorationSession_BlockedAfterExploration(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	toSpecification(t, e, "Alpha")

	_, err := e.StartExplorationSession("Alpha", "")
	engErr := asEngineErr(t, err)
	if engErr.Kind != KindPreconditionFailed {
		t.Errorf("Kind = %q, want precondition_failed", engErr.Kind)
	}
	if !strings.Contains(engErr.Message, "specification phase") {
		t.Errorf("Message = %q, want the current phase named", engErr.Message)
	}
	if !strings.Contains(engErr.Next, "reopen") {
		t.Errorf("Next = %q, want a reopen hint", engErr.Next)
	}
}

// --- CompleteExplorationPhase ---

func TestCompleteExploration_BlockedWithoutReason(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	_, err := e.CompleteExplorationPhase("Alpha", "")
	engErr := asEngineErr(t, err)
	if engErr.Kind != KindPreconditionFailed {
		t.Errorf("Kind = %q, want precondition_failed", engErr.Kind)
	}
	if !strings.Contains(engErr.Message, "remain incomplete") {
		t.Errorf("Message = %q, want outstanding task count", engErr.Message)
	}
	if !strings.Contains(engErr.Next, "completion reason") {
		t.Errorf("Next = %q, want the force-completion remedy", engErr.Next)
	}

	status, err := e.ProjectStatus("Alpha")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if status.Project.Phase != project.PhaseExploration {
		t.Errorf("Phase = %q after blocked completion, want exploration", status.Project.Phase)
	}
}

func TestCompleteExploration_ForcesEveryTask(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	// Partially worked task list; the rest gets forced.
	for i := 1; i <= 4; i++ {
		if _, err := e.UpdateTask("Alpha", i, true); err != nil {
			t.Fatalf("UpdateTask %d: %v", i, err)
		}
	}

	result, err := e.CompleteExplorationPhase("Alpha", "Enough signal to specify")
	if err != nil {
		t.Fatalf("CompleteExplorationPhase: %v", err)
	}
	if len(result.Forced) != 6 {
		t.Errorf("Forced = %d tasks, want 6", len(result.Forced))
	}
	if result.OverridePath == "" {
		t.Fatal("OverridePath empty, want a completion-override record")
	}

	data, err := os.ReadFile(result.OverridePath)
	if err != nil {
		t.Fatalf("reading override record: %v", err)
	}
	if !strings.Contains(string(data), "Enough signal to specify") {
		t.Error("override record missing the reason")
	}

	status, err := e.ProjectStatus("Alpha")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if status.Project.Phase != project.PhaseSpecification {
		t.Errorf("Phase = %q, want specification", status.Project.Phase)
	}
	if status.Project.ExplorationCompletedAt == "" {
		t.Error("ExplorationCompletedAt not stamped")
	}
	if status.Project.CompletionReason != "Enough signal to specify" {
		t.Errorf("CompletionReason = %q", status.Project.CompletionReason)
	}
	if status.CompletedTasks != len(status.Tasks) {
		t.Errorf("completed %d of %d tasks, want all", status.CompletedTasks, len(status.Tasks))
	}
}

func TestCompleteExploration_AllTasksDoneNeedsNoReason(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	for i := 1; i <= 10; i++ {
		if _, err := e.UpdateTask("Alpha", i, true); err != nil {
			t.Fatalf("UpdateTask %d: %v", i, err)
		}
	}

	result, err := e.CompleteExplorationPhase("Alpha", "")
	if err != nil {
		t.Fatalf("CompleteExplorationPhase: %v", err)
	}
	if len(result.Forced) != 0 {
		t.Errorf("Forced = %v, want none", result.Forced)
	}
	if result.OverridePath != "" {
		t.Errorf("OverridePath = %q, want none when nothing was forced", result.OverridePath)
	}
}

// --- GenerateSpecification ---

func TestGenerateSpecification_BlockedDuringExploration(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	// Freshly initialized, no sessions: still a phase failure, and the
	// message names the unmet condition.
	_, err := e.GenerateSpecification("Alpha", "software-product-requirements")
	engErr := asEngineErr(t, err)
	if engErr.Kind != KindPreconditionFailed {
		t.Errorf("Kind = %q, want precondition_failed", engErr.Kind)
	}
	if !strings.Contains(engErr.Message, "exploration phase not completed") {
		t.Errorf("Message = %q, want %q named", engErr.Message, "exploration phase not completed")
	}
	if engErr.Next == "" {
		t.Error("Next empty, want the remediating step")
	}
}

func TestGenerateSpecification_UnknownPattern(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	toSpecification(t, e, "Alpha")

	_, err := e.GenerateSpecification("Alpha", "galactic-expansion")
	engErr := asEngineErr(t, err)
	if engErr.Kind != KindNotFound {
		t.Errorf("Kind = %q, want not_found", engErr.Kind)
	}
	if !strings.Contains(engErr.Message, "available patterns") {
		t.Errorf("Message = %q, want the available pattern names listed", engErr.Message)
	}
}

func TestGenerateSpecification_DocumentsAccumulate(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	toSpecification(t, e, "Alpha")

	first, err := e.GenerateSpecification("Alpha", "software-product-requirements")
	if err != nil {
		t.Fatalf("first GenerateSpecification: %v", err)
	}
	second, err := e.GenerateSpecification("Alpha", "software-product-requirements")
	if err != nil {
		t.Fatalf("second GenerateSpecification: %v", err)
	}
	if first.Path == second.Path {
		t.Errorf("both documents landed at %q, want distinct paths", first.Path)
	}

	status, err := e.ProjectStatus("Alpha")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if len(status.Documents) != 2 {
		t.Errorf("Documents = %v, want 2 entries", status.Documents)
	}
}

func TestGenerateSpecification_ReportsUnmatchedPlaceholders(t *testing.T) {
	reg, err := pattern.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	dir := t.TempDir()
	custom := `name: incident-review
domain: operations
description: Post-incident review document
variables: [PROJECT_NAME, NICHE_METRIC]
sections: [Summary]
template: |
  # {{PROJECT_NAME}} Incident Review

  ## Summary

  {{NICHE_METRIC}}
`
	if err := os.WriteFile(filepath.Join(dir, "incident-review.yaml"), []byte(custom), 0o644); err != nil {
		t.Fatalf("writing custom pattern: %v", err)
	}
	if err := reg.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	e := New(t.TempDir(), reg, nil)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	toSpecification(t, e, "Alpha")

	result, err := e.GenerateSpecification("Alpha", "incident-review")
	if err != nil {
		t.Fatalf("GenerateSpecification: %v", err)
	}
	if len(result.Unmatched) != 1 || result.Unmatched[0] != "NICHE_METRIC" {
		t.Errorf("Unmatched = %v, want [NICHE_METRIC]", result.Unmatched)
	}
	if !strings.Contains(result.Document, "{{NICHE_METRIC}}") {
		t.Error("unmatched placeholder should stay verbatim in the document")
	}
}

// --- MarkSpecificationComplete / StartExecution ---

func TestMarkSpecificationComplete_RequiresDocument(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	toSpecification(t, e, "Alpha")

	_, err := e.MarkSpecificationComplete("Alpha")
	engErr := asEngineErr(t, err)
	if engErr.Kind != KindPreconditionFailed {
		t.Errorf("Kind = %q, want precondition_failed", engErr.Kind)
	}
	if !strings.Contains(engErr.Message, "no specification content") {
		t.Errorf("Message = %q, want the no-content condition named", engErr.Message)
	}

	if _, err := e.GenerateSpecification("Alpha", "project-planning"); err != nil {
		t.Fatalf("GenerateSpecification: %v", err)
	}
	p, err := e.MarkSpecificationComplete("Alpha")
	if err != nil {
		t.Fatalf("MarkSpecificationComplete: %v", err)
	}
	if p.SpecificationCompletedAt == "" {
		t.Error("SpecificationCompletedAt not stamped")
	}
	if p.Phase != project.PhaseSpecification {
		t.Errorf("Phase = %q, want specification (marking does not advance)", p.Phase)
	}
}

func TestStartExecution_RequiresCompletionStamp(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	toSpecification(t, e, "Alpha")

	// A document on disk is not enough; the explicit completion stamp
	// is what unlocks execution.
	if _, err := e.GenerateSpecification("Alpha", "software-product-requirements"); err != nil {
		t.Fatalf("GenerateSpecification: %v", err)
	}
	_, err := e.StartExecution("Alpha")
	engErr := asEngineErr(t, err)
	if engErr.Kind != KindPreconditionFailed {
		t.Errorf("Kind = %q, want precondition_failed", engErr.Kind)
	}
	if !strings.Contains(engErr.Message, "not marked complete") {
		t.Errorf("Message = %q, want the missing stamp named", engErr.Message)
	}
	if !strings.Contains(engErr.Next, "mark the specification complete") {
		t.Errorf("Next = %q, want the marking step named", engErr.Next)
	}

	if _, err := e.MarkSpecificationComplete("Alpha"); err != nil {
		t.Fatalf("MarkSpecificationComplete: %v", err)
	}
	plan, err := e.StartExecution("Alpha")
	if err != nil {
		t.Fatalf("StartExecution: %v", err)
	}
	if plan.Project.Phase != project.PhaseExecution {
		t.Errorf("Phase = %q, want execution", plan.Project.Phase)
	}
	if plan.Project.ExecutionStartedAt == "" {
		t.Error("ExecutionStartedAt not stamped")
	}
	if !strings.HasPrefix(plan.Source, "software-product-requirements-") {
		t.Errorf("Source = %q, want the generated document", plan.Source)
	}

	data, err := os.ReadFile(plan.Path)
	if err != nil {
		t.Fatalf("reading execution plan: %v", err)
	}
	content := string(data)
	checks := []string{
		"# Alpha - Execution Plan",
		"**Source:** software-product-requirements-",
		"- [ ] Implement: Overview",
		"- [ ] Implement: User Stories",
		"- [ ] Capture feedback for the next iteration",
	}
	for _, check := range checks {
		if !strings.Contains(content, check) {
			t.Errorf("execution plan missing: %q", check)
		}
	}
}

func TestPlanFromDocument_NoSectionsFallsBack(t *testing.T) {
	if tasks := planFromDocument("just prose, no headers"); tasks != nil {
		t.Errorf("planFromDocument = %v, want nil", tasks)
	}
	plan := defaultPlan()
	if len(plan) == 0 || plan[0] != "Review the specification document" {
		t.Errorf("defaultPlan = %v", plan)
	}
}

// --- Feedback / flywheel ---

func startedExecution(t *testing.T, e *Engine, name string) {
	t.Helper()
	if _, err := e.InitializeProject(name); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	toSpecification(t, e, name)
	if _, err := e.GenerateSpecification(name, "software-product-requirements"); err != nil {
		t.Fatalf("GenerateSpecification: %v", err)
	}
	if _, err := e.MarkSpecificationComplete(name); err != nil {
		t.Fatalf("MarkSpecificationComplete: %v", err)
	}
	if _, err := e.StartExecution(name); err != nil {
		t.Fatalf("StartExecution: %v", err)
	}
}

func TestSaveFeedback_MovesExecutionToFeedback(t *testing.T) {
	e := newEngine(t)
	startedExecution(t, e, "Alpha")

	note, err := e.SaveFeedback("Alpha", "Churn dropped by a third after launch.")
	if err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}
	if note.Phase != project.PhaseFeedback {
		t.Errorf("Phase = %q, want feedback", note.Phase)
	}

	data, err := os.ReadFile(note.Path)
	if err != nil {
		t.Fatalf("reading note: %v", err)
	}
	if !strings.Contains(string(data), "Churn dropped by a third") {
		t.Error("note missing feedback content")
	}

	// Feedback accepts notes indefinitely.
	second, err := e.SaveFeedback("Alpha", "Follow-up survey results are in.")
	if err != nil {
		t.Fatalf("second SaveFeedback: %v", err)
	}
	if second.Phase != project.PhaseFeedback {
		t.Errorf("second Phase = %q, want feedback", second.Phase)
	}
	if second.Path == note.Path {
		t.Errorf("both notes landed at %q, want distinct files", note.Path)
	}
}

func TestSaveFeedback_BlockedBeforeExecution(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	toSpecification(t, e, "Alpha")

	_, err := e.SaveFeedback("Alpha", "too early")
	engErr := asEngineErr(t, err)
	if engErr.Kind != KindPreconditionFailed {
		t.Errorf("Kind = %q, want precondition_failed", engErr.Kind)
	}
}

func TestReopenPhase_BackToExploration(t *testing.T) {
	e := newEngine(t)
	startedExecution(t, e, "Alpha")

	p, err := e.ReopenPhase("Alpha", project.PhaseExploration, "Churn numbers contradict the spec assumptions")
	if err != nil {
		t.Fatalf("ReopenPhase: %v", err)
	}
	if p.Phase != project.PhaseExploration {
		t.Errorf("Phase = %q, want exploration", p.Phase)
	}
	if p.ReopenedFrom != project.PhaseExecution {
		t.Errorf("ReopenedFrom = %q, want execution", p.ReopenedFrom)
	}
	if p.ExplorationCompletedAt != "" || p.SpecificationCompletedAt != "" || p.ExecutionStartedAt != "" {
		t.Error("reopening exploration should clear the later phase stamps")
	}

	status, err := e.ProjectStatus("Alpha")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	last := status.Tasks[len(status.Tasks)-1]
	if last.Text != "Address: Churn numbers contradict the spec assumptions" {
		t.Errorf("appended task = %q", last.Text)
	}
	if last.Completed {
		t.Error("appended task should start incomplete")
	}
}

func TestReopenPhase_RejectsForwardAndInvalid(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	toSpecification(t, e, "Alpha")

	if _, err := e.ReopenPhase("Alpha", project.PhaseExecution, "skip ahead"); KindOf(err) != KindPreconditionFailed {
		t.Errorf("forward reopen: KindOf = %q, want precondition_failed", KindOf(err))
	}
	if _, err := e.ReopenPhase("Alpha", project.Phase("banana"), "nonsense"); KindOf(err) != KindInvalidInput {
		t.Errorf("invalid target: KindOf = %q, want invalid_input", KindOf(err))
	}
	if _, err := e.ReopenPhase("Alpha", project.PhaseExploration, "   "); KindOf(err) != KindInvalidInput {
		t.Errorf("blank reason: KindOf = %q, want invalid_input", KindOf(err))
	}
}

// --- UpdateTask ---

func TestUpdateTask(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	task, err := e.UpdateTask("Alpha", 1, true)
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !task.Completed {
		t.Error("task not marked completed")
	}

	status, err := e.ProjectStatus("Alpha")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if status.CompletedTasks != 1 {
		t.Errorf("CompletedTasks = %d, want 1", status.CompletedTasks)
	}

	if _, err := e.UpdateTask("Alpha", 99, true); KindOf(err) != KindInvalidInput {
		t.Errorf("out of range: KindOf = %q, want invalid_input", KindOf(err))
	}
}

func TestUpdateTask_BlockedAfterExploration(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	toSpecification(t, e, "Alpha")

	_, err := e.UpdateTask("Alpha", 1, false)
	if KindOf(err) != KindPreconditionFailed {
		t.Errorf("KindOf = %q, want precondition_failed", KindOf(err))
	}
}

// --- CheckGaps ---

func TestCheckGaps_FreshProjectFlagsEmptyExploration(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	report, err := e.CheckGaps("Alpha")
	if err != nil {
		t.Fatalf("CheckGaps: %v", err)
	}
	if len(report.Findings) != 1 || !strings.Contains(report.Findings[0], "incomplete") {
		t.Errorf("Findings = %v, want a single exploration-incomplete finding", report.Findings)
	}
}

func TestCheckGaps_NoSpecDuringExplorationIsClean(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	if _, err := e.SaveExplorationSession("Alpha", "We discussed the rollout in depth.", ""); err != nil {
		t.Fatalf("SaveExplorationSession: %v", err)
	}

	report, err := e.CheckGaps("Alpha")
	if err != nil {
		t.Fatalf("CheckGaps: %v", err)
	}
	if !report.Clean() {
		t.Errorf("Findings = %v, want none while still exploring", report.Findings)
	}
}

func TestCheckGaps_FindsGapsAgainstGeneratedSpec(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}
	toSpecification(t, e, "Alpha")
	if _, err := e.GenerateSpecification("Alpha", "software-product-requirements"); err != nil {
		t.Fatalf("GenerateSpecification: %v", err)
	}

	report, err := e.CheckGaps("Alpha")
	if err != nil {
		t.Fatalf("CheckGaps: %v", err)
	}
	if report.Clean() {
		t.Fatal("expected findings: the two short sessions cannot cover the rendered document")
	}
	if !strings.Contains(report.Recommendation, "reopen") {
		t.Errorf("Recommendation = %q, want a flywheel suggestion", report.Recommendation)
	}
}

func TestCheckGaps_DegradesOnReadFailure(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	// Break the specification directory so listing it fails.
	dir := project.SpecificationDir(e.Root(), "alpha")
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if err := os.WriteFile(dir, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	report, err := e.CheckGaps("Alpha")
	if err != nil {
		t.Fatalf("CheckGaps: %v", err)
	}
	if len(report.Findings) != 0 {
		t.Errorf("Findings = %v, want none on read failure", report.Findings)
	}
	if report.Recommendation != gapSkipped {
		t.Errorf("Recommendation = %q, want %q", report.Recommendation, gapSkipped)
	}
}

// --- ProjectStatus ---

func TestProjectStatus_Recommendations(t *testing.T) {
	e := newEngine(t)
	if _, err := e.InitializeProject("Alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	status, err := e.ProjectStatus("Alpha")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if !strings.HasPrefix(status.Recommendation, "Continue exploration:") {
		t.Errorf("exploration Recommendation = %q", status.Recommendation)
	}

	toSpecification(t, e, "Alpha")
	status, err = e.ProjectStatus("Alpha")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if !strings.Contains(status.Recommendation, "Generate a specification") {
		t.Errorf("specification Recommendation = %q", status.Recommendation)
	}

	if _, err := e.GenerateSpecification("Alpha", "project-planning"); err != nil {
		t.Fatalf("GenerateSpecification: %v", err)
	}
	status, err = e.ProjectStatus("Alpha")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if !strings.Contains(status.Recommendation, "mark it complete") {
		t.Errorf("unmarked Recommendation = %q", status.Recommendation)
	}
}

func TestProjectStatus_NotFound(t *testing.T) {
	e := newEngine(t)

	_, err := e.ProjectStatus("Ghost")
	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf = %q, want not_found", KindOf(err))
	}
}

// --- Full scenario ---

func TestScenario_AlphaProjectThroughSpecification(t *testing.T) {
	e := newEngine(t)

	if _, err := e.InitializeProject("alpha"); err != nil {
		t.Fatalf("InitializeProject: %v", err)
	}

	if _, err := e.SaveExplorationSession("alpha",
		"Assistant: What is the main problem you are seeing?\nUser: User churn spikes after the first week.",
		"Churn discovery"); err != nil {
		t.Fatalf("session 1: %v", err)
	}
	if _, err := e.SaveExplorationSession("alpha",
		"Assistant: What features do you need?\nUser: Mobile UX parity with the web app.",
		"Feature discovery"); err != nil {
		t.Fatalf("session 2: %v", err)
	}

	if _, err := e.CompleteExplorationPhase("alpha", "Two focused sessions covered the core questions"); err != nil {
		t.Fatalf("CompleteExplorationPhase: %v", err)
	}

	result, err := e.GenerateSpecification("alpha", "software-product-requirements")
	if err != nil {
		t.Fatalf("GenerateSpecification: %v", err)
	}

	checks := []string{
		"alpha",
		"## User Stories",
		"User churn spikes after the first week.",
		"Mobile UX parity with the web app.",
	}
	for _, check := range checks {
		if !strings.Contains(result.Document, check) {
			t.Errorf("document missing: %q", check)
		}
	}
	if result.Bundle.PainPoints != "User churn spikes after the first week." {
		t.Errorf("PainPoints = %q", result.Bundle.PainPoints)
	}
	if result.Bundle.CoreFeatures != "Mobile UX parity with the web app." {
		t.Errorf("CoreFeatures = %q", result.Bundle.CoreFeatures)
	}

	status, err := e.ProjectStatus("alpha")
	if err != nil {
		t.Fatalf("ProjectStatus: %v", err)
	}
	if status.Project.Phase != project.PhaseSpecification {
		t.Errorf("Phase = %q, want specification", status.Project.Phase)
	}
	if status.Project.SessionCount != 2 {
		t.Errorf("SessionCount = %d, want 2", status.Project.SessionCount)
	}
	if len(status.Documents) != 1 {
		t.Errorf("Documents = %v, want one entry", status.Documents)
	}
}
