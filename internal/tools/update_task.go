package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// UpdateTaskTool handles the compass_update_task MCP tool.
type UpdateTaskTool struct {
	engine *engine.Engine
}

// NewUpdateTaskTool creates an UpdateTaskTool.
func NewUpdateTaskTool(e *engine.Engine) *UpdateTaskTool {
	return &UpdateTaskTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_update_task",
		mcp.WithDescription(
			"Mark one exploration task completed (or reopen it) by its "+
				"position in the task list shown by compass_status. Only valid "+
				"while the project is in the exploration phase.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project"),
		),
		mcp.WithNumber("task_number",
			mcp.Required(),
			mcp.Description("1-based position of the task in the exploration list"),
		),
		mcp.WithBoolean("completed",
			mcp.Description("New completion state (default: true)"),
		),
	)
}

// Handle processes the compass_update_task tool call.
func (t *UpdateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}
	number := intArg(req, "task_number", 0)
	if number < 1 {
		return mcp.NewToolResultError("'task_number' must be a positive integer"), nil
	}
	completed := boolArg(req, "completed", true)

	task, err := t.engine.UpdateTask(projectName, number, completed)
	if err != nil {
		return failure(err)
	}

	state := "completed"
	if !completed {
		state = "reopened"
	}

	response := fmt.Sprintf(
		"# Task Updated\n\n"+
			"Task %d %s: %s\n\n"+
			"## Next Step\n\n"+
			"Check remaining tasks with `compass_status`. When all are done, "+
			"close the phase with `compass_complete_exploration`.",
		number, state, task.Text,
	)

	return mcp.NewToolResultText(response), nil
}
