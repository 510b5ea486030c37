package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// StartSessionTool handles the compass_start_exploration MCP tool.
// It reports the next session number, prior-session context, and the
// task the session should focus on. Nothing is persisted until the
// conversation is saved.
type StartSessionTool struct {
	engine *engine.Engine
}

// NewStartSessionTool creates a StartSessionTool.
func NewStartSessionTool(e *engine.Engine) *StartSessionTool {
	return &StartSessionTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *StartSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_start_exploration",
		mcp.WithDescription(
			"Start a new exploration session for a project. Returns the next "+
				"session number, the accumulated context from all prior sessions "+
				"(so the conversation can continue where it left off), and the "+
				"exploration task the session should focus on. Requires the "+
				"project to be in the exploration phase.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project to explore"),
		),
		mcp.WithString("focus",
			mcp.Description("Optional focus override. When omitted, the first incomplete exploration task is used."),
		),
	)
}

// Handle processes the compass_start_exploration tool call.
func (t *StartSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}
	focus := req.GetString("focus", "")

	info, err := t.engine.StartExplorationSession(projectName, focus)
	if err != nil {
		return failure(err)
	}

	response := fmt.Sprintf(
		"# Exploration Session %d\n\n"+
			"**Focus:** %s\n\n"+
			"## Prior Context\n\n%s\n\n"+
			"## Next Step\n\n"+
			"Talk through the focus topic with the user — ask open questions "+
			"and capture their answers. When the conversation winds down, save "+
			"the full transcript with `compass_save_session` so the insight "+
			"extraction has the raw dialogue to work from.",
		info.SessionNumber, info.FocusTask, info.PriorContext,
	)

	return mcp.NewToolResultText(response), nil
}
