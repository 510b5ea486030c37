package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// MarkSpecCompleteTool handles the compass_mark_spec_complete MCP tool.
// Generating documents never completes the phase on its own — this
// explicit step does, so a caller can try several patterns first.
type MarkSpecCompleteTool struct {
	engine *engine.Engine
}

// NewMarkSpecCompleteTool creates a MarkSpecCompleteTool.
func NewMarkSpecCompleteTool(e *engine.Engine) *MarkSpecCompleteTool {
	return &MarkSpecCompleteTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *MarkSpecCompleteTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_mark_spec_complete",
		mcp.WithDescription(
			"Mark the specification phase complete, unlocking execution. "+
				"Requires the project to be in the specification phase with at "+
				"least one generated document. Call this only after the user has "+
				"reviewed and accepted a specification.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project"),
		),
	)
}

// Handle processes the compass_mark_spec_complete tool call.
func (t *MarkSpecCompleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}

	p, err := t.engine.MarkSpecificationComplete(projectName)
	if err != nil {
		return failure(err)
	}

	response := fmt.Sprintf(
		"# Specification Marked Complete\n\n"+
			"**Project:** %s\n"+
			"**Completed at:** %s\n\n"+
			"## Next Step\n\n"+
			"Start the execution phase with `compass_start_execution` — it "+
			"derives an implementation task list from the newest specification "+
			"document.",
		p.Name, p.SpecificationCompletedAt,
	)

	return mcp.NewToolResultText(response), nil
}
