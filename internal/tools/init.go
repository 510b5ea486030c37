package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/HendryAvila/compass/internal/project"
	"github.com/mark3labs/mcp-go/mcp"
)

// InitTool handles the compass_init_project MCP tool.
// It creates the project directory structure and seeds the default
// exploration task list.
type InitTool struct {
	engine *engine.Engine
}

// NewInitTool creates an InitTool backed by the given engine.
func NewInitTool(e *engine.Engine) *InitTool {
	return &InitTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *InitTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_init_project",
		mcp.WithDescription(
			"Initialize a new Compass project. Creates the project directory, "+
				"seeds the default exploration task list, and sets the phase to "+
				"exploration. This is always the first step of the methodology.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Project name. Normalized to a filesystem-safe slug; two names that normalize identically collide."),
		),
	)
}

// Handle processes the compass_init_project tool call.
func (t *InitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	result, err := t.engine.InitializeProject(name)
	if err != nil {
		return failure(err)
	}

	p := result.Project
	response := fmt.Sprintf(
		"# Project Initialized\n\n"+
			"**Project:** %s\n"+
			"**Slug:** `%s`\n"+
			"**Phase:** %s\n"+
			"**Location:** `%s`\n\n"+
			"## Exploration Tasks\n\n%s\n"+
			"## Next Step\n\n"+
			"The project starts in the **exploration** phase. Use "+
			"`compass_start_exploration` to open the first discovery session, "+
			"then talk through the problem with the user and save the "+
			"conversation with `compass_save_session`.",
		p.Name, p.Slug, p.Phase,
		project.Dir(t.engine.Root(), p.Slug),
		checklist(result.Tasks),
	)

	return mcp.NewToolResultText(response), nil
}
