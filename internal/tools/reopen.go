package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/HendryAvila/compass/internal/project"
	"github.com/mark3labs/mcp-go/mcp"
)

// ReopenTool handles the compass_reopen_phase MCP tool — the flywheel
// iteration. Reopening is always an explicit caller decision; gap
// analysis only ever recommends it.
type ReopenTool struct {
	engine *engine.Engine
}

// NewReopenTool creates a ReopenTool.
func NewReopenTool(e *engine.Engine) *ReopenTool {
	return &ReopenTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *ReopenTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_reopen_phase",
		mcp.WithDescription(
			"Reopen an earlier phase (a flywheel iteration) so new findings "+
				"can be worked in. The target phase must precede the project's "+
				"current phase. The reason is recorded on the project, and "+
				"reopening exploration appends it as a fresh task so the next "+
				"session has something concrete to chase.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project"),
		),
		mcp.WithString("phase",
			mcp.Required(),
			mcp.Description("Phase to reopen"),
			mcp.Enum("exploration", "specification"),
		),
		mcp.WithString("reason",
			mcp.Required(),
			mcp.Description("Why the phase is being reopened, e.g. a gap analysis finding"),
		),
	)
}

// Handle processes the compass_reopen_phase tool call.
func (t *ReopenTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}
	phaseStr := req.GetString("phase", "")
	if phaseStr == "" {
		return mcp.NewToolResultError("'phase' is required"), nil
	}
	reason := req.GetString("reason", "")
	if reason == "" {
		return mcp.NewToolResultError("'reason' is required"), nil
	}

	p, err := t.engine.ReopenPhase(projectName, project.Phase(phaseStr), reason)
	if err != nil {
		return failure(err)
	}

	next := "Continue specification work: review the existing documents and " +
		"regenerate with `compass_generate_spec` once the gaps are addressed."
	if p.Phase == project.PhaseExploration {
		next = "Run `compass_start_exploration` — the reopen reason is now an " +
			"exploration task, so the next session focuses on it."
	}

	response := fmt.Sprintf(
		"# Phase Reopened\n\n"+
			"**Project:** %s\n"+
			"**Phase:** %s (reopened from %s)\n"+
			"**Reason:** %s\n\n"+
			"## Next Step\n\n%s",
		p.Name, p.Phase, p.ReopenedFrom, p.ReopenReason, next,
	)

	return mcp.NewToolResultText(response), nil
}
