package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatusTool handles the compass_status MCP tool.
type StatusTool struct {
	engine *engine.Engine
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(e *engine.Engine) *StatusTool {
	return &StatusTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_status",
		mcp.WithDescription(
			"Show a project's current phase, exploration task progress, "+
				"session count, generated specification documents, and the "+
				"recommended next step. Read-only.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project"),
		),
	)
}

// Handle processes the compass_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}

	status, err := t.engine.ProjectStatus(projectName)
	if err != nil {
		return failure(err)
	}
	p := status.Project

	var b strings.Builder
	fmt.Fprintf(&b, "# Project Status: %s\n\n", p.Name)
	fmt.Fprintf(&b, "**Phase:** %s\n", p.Phase)
	fmt.Fprintf(&b, "**Sessions:** %d\n", p.SessionCount)
	fmt.Fprintf(&b, "**Created:** %s\n", p.CreatedAt)
	if p.LastSessionAt != "" {
		fmt.Fprintf(&b, "**Last session:** %s\n", p.LastSessionAt)
	}
	if p.ExplorationCompletedAt != "" {
		fmt.Fprintf(&b, "**Exploration completed:** %s\n", p.ExplorationCompletedAt)
	}
	if p.SpecificationCompletedAt != "" {
		fmt.Fprintf(&b, "**Specification completed:** %s\n", p.SpecificationCompletedAt)
	}
	if p.ExecutionStartedAt != "" {
		fmt.Fprintf(&b, "**Execution started:** %s\n", p.ExecutionStartedAt)
	}
	if p.ReopenedFrom != "" {
		fmt.Fprintf(&b, "**Reopened from:** %s (%s)\n", p.ReopenedFrom, p.ReopenReason)
	}

	fmt.Fprintf(&b, "\n## Exploration Tasks (%d/%d)\n\n%s",
		status.CompletedTasks, len(status.Tasks), checklist(status.Tasks))

	if len(status.Documents) > 0 {
		b.WriteString("\n## Specification Documents\n\n")
		for _, doc := range status.Documents {
			fmt.Fprintf(&b, "- `%s`\n", doc)
		}
	}

	fmt.Fprintf(&b, "\n## Next Step\n\n%s", status.Recommendation)

	return mcp.NewToolResultText(b.String()), nil
}
