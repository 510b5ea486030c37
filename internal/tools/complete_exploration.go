package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// CompleteExplorationTool handles the compass_complete_exploration MCP
// tool. It closes the exploration phase and moves the project to
// specification.
type CompleteExplorationTool struct {
	engine *engine.Engine
}

// NewCompleteExplorationTool creates a CompleteExplorationTool.
func NewCompleteExplorationTool(e *engine.Engine) *CompleteExplorationTool {
	return &CompleteExplorationTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *CompleteExplorationTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_complete_exploration",
		mcp.WithDescription(
			"Complete the exploration phase and move the project to "+
				"specification. Succeeds when every exploration task is done; "+
				"with tasks outstanding an explicit reason is required, the "+
				"remaining tasks are force-marked completed, and the override is "+
				"recorded next to the session files.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project to advance"),
		),
		mcp.WithString("reason",
			mcp.Description("Justification for completing with open tasks. Required when any task is still incomplete."),
		),
	)
}

// Handle processes the compass_complete_exploration tool call.
func (t *CompleteExplorationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}
	reason := req.GetString("reason", "")

	result, err := t.engine.CompleteExplorationPhase(projectName, reason)
	if err != nil {
		return failure(err)
	}

	forcedNote := "All exploration tasks were already completed."
	if len(result.Forced) > 0 {
		forcedNote = fmt.Sprintf(
			"%d task(s) were force-marked completed:\n\n- %s\n\nOverride recorded at `%s`.",
			len(result.Forced), strings.Join(result.Forced, "\n- "), result.OverridePath,
		)
	}

	response := fmt.Sprintf(
		"# Exploration Phase Completed\n\n"+
			"**Project:** %s\n"+
			"**Phase:** %s\n"+
			"**Completed at:** %s\n\n"+
			"%s\n\n"+
			"## Next Step\n\n"+
			"Generate a specification document with `compass_generate_spec`, "+
			"choosing the pattern that fits the project's domain. You can "+
			"generate several documents from different patterns before marking "+
			"the phase complete.",
		result.Project.Name, result.Project.Phase,
		result.Project.ExplorationCompletedAt, forcedNote,
	)

	return mcp.NewToolResultText(response), nil
}
