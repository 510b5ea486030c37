// Package server wires all MCP components and creates the server
// instance.
//
// This is the composition root: it resolves configuration from the
// environment, creates concrete implementations, and injects them into
// the tools/prompts/resources that depend on them. No phase or
// extraction logic lives here — only wiring.
package server

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/HendryAvila/compass/internal/pattern"
	"github.com/HendryAvila/compass/internal/prompts"
	"github.com/HendryAvila/compass/internal/recall"
	"github.com/HendryAvila/compass/internal/resources"
	"github.com/HendryAvila/compass/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// Configuration comes from the environment:
//
//	COMPASS_PROJECTS_DIR  projects root (default ~/.compass/projects)
//	COMPASS_PATTERNS_DIR  extra pattern directory overlaying the built-ins
//	COMPASS_HOME          data directory for the recall index (default ~/.compass)
//	COMPASS_RECALL=off    disable the recall index
//
// The returned cleanup function closes the recall index's database
// connection and must be called on shutdown (typically via defer). It
// is always non-nil and safe to call even if recall init failed.
func New() (*server.MCPServer, func(), error) {
	root, err := projectsRoot()
	if err != nil {
		return nil, noop, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, noop, fmt.Errorf("creating projects root %s: %w", root, err)
	}

	registry, err := pattern.NewRegistry()
	if err != nil {
		return nil, noop, fmt.Errorf("loading built-in patterns: %w", err)
	}
	if dir := os.Getenv("COMPASS_PATTERNS_DIR"); dir != "" {
		if err := registry.LoadDir(dir); err != nil {
			return nil, noop, fmt.Errorf("loading patterns from %s: %w", dir, err)
		}
	}

	// --- Recall index (optional subsystem) ---
	//
	// Recall is independent: if it fails to initialize, every phase
	// operation still works. We log a warning, skip the compass_recall
	// tool, and run the engine without a session observer.

	cleanup := noop
	var recallStore *recall.Store
	if os.Getenv("COMPASS_RECALL") != "off" {
		cfg := recall.DefaultConfig()
		if home := os.Getenv("COMPASS_HOME"); home != "" {
			cfg.DataDir = home
		}
		recallStore, err = recall.New(cfg)
		if err != nil {
			log.Printf("WARNING: recall index disabled: %v", err)
			recallStore = nil
		} else {
			cleanup = func() {
				if err := recallStore.Close(); err != nil {
					log.Printf("WARNING: recall index close: %v", err)
				}
			}
		}
	}

	eng := engine.New(root, registry, recall.NewBridge(recallStore))

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"compass",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register phase tools ---

	initTool := tools.NewInitTool(eng)
	s.AddTool(initTool.Definition(), initTool.Handle)

	startSessionTool := tools.NewStartSessionTool(eng)
	s.AddTool(startSessionTool.Definition(), startSessionTool.Handle)

	saveSessionTool := tools.NewSaveSessionTool(eng)
	s.AddTool(saveSessionTool.Definition(), saveSessionTool.Handle)

	completeExplorationTool := tools.NewCompleteExplorationTool(eng)
	s.AddTool(completeExplorationTool.Definition(), completeExplorationTool.Handle)

	generateSpecTool := tools.NewGenerateSpecTool(eng)
	s.AddTool(generateSpecTool.Definition(), generateSpecTool.Handle)

	markSpecCompleteTool := tools.NewMarkSpecCompleteTool(eng)
	s.AddTool(markSpecCompleteTool.Definition(), markSpecCompleteTool.Handle)

	startExecutionTool := tools.NewStartExecutionTool(eng)
	s.AddTool(startExecutionTool.Definition(), startExecutionTool.Handle)

	feedbackTool := tools.NewFeedbackTool(eng)
	s.AddTool(feedbackTool.Definition(), feedbackTool.Handle)

	// --- Register project-management tools ---

	statusTool := tools.NewStatusTool(eng)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	listProjectsTool := tools.NewListProjectsTool(eng)
	s.AddTool(listProjectsTool.Definition(), listProjectsTool.Handle)

	updateTaskTool := tools.NewUpdateTaskTool(eng)
	s.AddTool(updateTaskTool.Definition(), updateTaskTool.Handle)

	// --- Register analysis tools ---

	gapAnalysisTool := tools.NewGapAnalysisTool(eng)
	s.AddTool(gapAnalysisTool.Definition(), gapAnalysisTool.Handle)

	reopenTool := tools.NewReopenTool(eng)
	s.AddTool(reopenTool.Definition(), reopenTool.Handle)

	if recallStore != nil {
		recallTool := tools.NewRecallTool(recallStore)
		s.AddTool(recallTool.Definition(), recallTool.Handle)
	}

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(eng)
	s.AddResource(resourceHandler.ProjectsResource(), resourceHandler.HandleProjects)
	s.AddResource(resourceHandler.PatternsResource(), resourceHandler.HandlePatterns)

	return s, cleanup, nil
}

// noop is the default cleanup when recall is disabled.
func noop() {}

// projectsRoot resolves the projects root directory from the
// environment, defaulting to ~/.compass/projects.
func projectsRoot() (string, error) {
	if dir := os.Getenv("COMPASS_PROJECTS_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".compass", "projects"), nil
}

// serverInstructions returns the system instructions that tell the AI
// how to drive the Compass methodology.
func serverInstructions() string {
	return `You have access to Compass, a methodology MCP server that walks
projects through four gated phases: Exploration → Specification →
Execution → Feedback. The phases are sequential — Compass refuses to
let you skip ahead, and every artifact is persisted as files on disk.

## WHEN TO ACTIVATE Compass

Proactively suggest Compass when the user:
- Describes a vague idea, problem, or goal and wants help shaping it
- Asks to plan a project, product, process change, or initiative
- Says things like "I want to build...", "we keep struggling with...",
  "help me think through..."

Suggest it with something like: "Let's run this through Compass — a few
structured exploration sessions first, then it generates a specification
from what we learn. Should I set up a project?"

You do NOT need Compass for quick questions, small fixes, or tasks with
an already-clear specification.

## CRITICAL: How Tools Work

Compass tools are STORAGE and GATING tools, not AI tools. The insight
extraction is keyword-based: it reads the conversation text you save
VERBATIM. That means:

1. TALK to the user — hold a real question-and-answer dialogue
2. SAVE the actual transcript with compass_save_session, formatted as
   'Assistant: ...' and 'User: ...' lines, not a paraphrase
3. The extraction captures the user's ANSWERS — the richer the saved
   dialogue, the better the generated specification

NEVER save placeholder text. The specification is only as good as the
archived conversations.

## The Four Phases

1. EXPLORATION — discovery sessions against a seeded task list
   - compass_init_project creates the project (phase = exploration)
   - compass_start_exploration opens a session: next number, prior
     context, and the task to focus on
   - compass_save_session archives the transcript (append-only,
     numbered 1..N with no gaps)
   - compass_update_task checks off exploration tasks as they are covered
   - compass_complete_exploration closes the phase; with open tasks it
     requires a reason and force-completes them, recording the override

2. SPECIFICATION — pattern-rendered documents
   - compass_generate_spec renders a pattern (software-product-
     requirements, business-process-analysis, or project-planning)
     against the insights extracted from ALL saved sessions
   - Generate as many documents as it takes; nothing is overwritten
   - compass_mark_spec_complete is the explicit sign-off that unlocks
     execution — generating a document alone is not enough

3. EXECUTION — derived implementation plan
   - compass_start_execution derives a task list from the newest
     specification document and stamps the phase

4. FEEDBACK — results and iteration
   - compass_save_feedback records outcomes; the first note moves the
     project into the feedback phase

## Gap Analysis and the Flywheel

compass_gap_analysis compares exploration against the newest
specification and reports unresolved topics. It is ADVISORY: present
the findings and let the user decide. If they want to act on a gap,
compass_reopen_phase moves the project back to exploration or
specification and records why — reopening exploration turns the reason
into a fresh task.

## Recall

compass_recall searches archived sessions across ALL projects. Use it
before starting exploration on a topic another project may have covered.

## Important Rules

- Follow the phase order; when a tool refuses, it names the unmet
  condition and the call that satisfies it — do that instead
- Save real transcripts, never summaries-only
- One project per initiative; check compass_list_projects before
  creating near-duplicates (names that normalize to the same slug
  collide)
- Use compass_status whenever you are unsure what the next step is`
}
