package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// SaveSessionTool handles the compass_save_session MCP tool.
// It archives a conversation as the next numbered session record.
type SaveSessionTool struct {
	engine *engine.Engine
}

// NewSaveSessionTool creates a SaveSessionTool.
func NewSaveSessionTool(e *engine.Engine) *SaveSessionTool {
	return &SaveSessionTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *SaveSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_save_session",
		mcp.WithDescription(
			"Save an exploration conversation as the next numbered session "+
				"record. Pass the ACTUAL conversation transcript — questions and "+
				"answers — not a paraphrase: the insight extraction and gap "+
				"analysis read this text verbatim. Session records are immutable "+
				"and append-only.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project the session belongs to"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Full conversation content, e.g. 'Assistant: ...' / 'User: ...' lines"),
		),
		mcp.WithString("summary",
			mcp.Description("Optional one-paragraph session summary"),
		),
	)
}

// Handle processes the compass_save_session tool call.
func (t *SaveSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}
	content := req.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}
	summary := req.GetString("summary", "")

	result, err := t.engine.SaveExplorationSession(projectName, content, summary)
	if err != nil {
		return failure(err)
	}

	next := "Keep exploring: start another session with `compass_start_exploration`, " +
		"or mark finished tasks with `compass_update_task`."
	if result.Completed == result.Total {
		next = "Every exploration task is complete. Close the phase with " +
			"`compass_complete_exploration` to unlock specification."
	}

	response := fmt.Sprintf(
		"# Session %d Saved\n\n"+
			"**File:** `%s`\n"+
			"**Task progress:** %d/%d exploration tasks completed\n\n"+
			"## Next Step\n\n%s",
		result.Session.Number, result.Session.Path,
		result.Completed, result.Total, next,
	)

	return mcp.NewToolResultText(response), nil
}
