package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListProjectsTool handles the compass_list_projects MCP tool.
type ListProjectsTool struct {
	engine *engine.Engine
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(e *engine.Engine) *ListProjectsTool {
	return &ListProjectsTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_list_projects",
		mcp.WithDescription(
			"List every Compass project under the projects root with its "+
				"current phase and session count. Read-only.",
		),
	)
}

// Handle processes the compass_list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := t.engine.ListProjects()
	if err != nil {
		return failure(err)
	}

	if len(projects) == 0 {
		return mcp.NewToolResultText(
			"No projects found.\n\n## Next Step\n\n" +
				"Create one with `compass_init_project`.",
		), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Projects (%d)\n\n", len(projects))
	for _, p := range projects {
		fmt.Fprintf(&b, "- **%s** (`%s`) — phase: %s, sessions: %d\n",
			p.Name, p.Slug, p.Phase, p.SessionCount)
	}
	b.WriteString("\n## Next Step\n\nUse `compass_status` with a project name for the full picture.")

	return mcp.NewToolResultText(b.String()), nil
}
