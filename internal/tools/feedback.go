package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// FeedbackTool handles the compass_save_feedback MCP tool.
type FeedbackTool struct {
	engine *engine.Engine
}

// NewFeedbackTool creates a FeedbackTool.
func NewFeedbackTool(e *engine.Engine) *FeedbackTool {
	return &FeedbackTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *FeedbackTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_save_feedback",
		mcp.WithDescription(
			"Record a timestamped feedback note for an executing project. The "+
				"first note moves the project from execution into the feedback "+
				"phase; the phase then accepts notes indefinitely.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Feedback content: results, observations, things to change next iteration"),
		),
	)
}

// Handle processes the compass_save_feedback tool call.
func (t *FeedbackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}
	content := req.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	note, err := t.engine.SaveFeedback(projectName, content)
	if err != nil {
		return failure(err)
	}

	response := fmt.Sprintf(
		"# Feedback Saved\n\n"+
			"**File:** `%s`\n"+
			"**Phase:** %s\n\n"+
			"## Next Step\n\n"+
			"Run `compass_gap_analysis` to see whether the feedback exposes "+
			"unresolved topics — if it does, a flywheel iteration via "+
			"`compass_reopen_phase` feeds them back into exploration or "+
			"specification.",
		note.Path, note.Phase,
	)

	return mcp.NewToolResultText(response), nil
}
