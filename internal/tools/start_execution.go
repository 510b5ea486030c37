package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// StartExecutionTool handles the compass_start_execution MCP tool.
type StartExecutionTool struct {
	engine *engine.Engine
}

// NewStartExecutionTool creates a StartExecutionTool.
func NewStartExecutionTool(e *engine.Engine) *StartExecutionTool {
	return &StartExecutionTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *StartExecutionTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_start_execution",
		mcp.WithDescription(
			"Start the execution phase. Requires the specification to have "+
				"been explicitly marked complete — documents on disk are not "+
				"enough on their own. Derives an implementation task list from "+
				"the newest specification document's sections and writes it to "+
				"the project's execution area.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project"),
		),
	)
}

// Handle processes the compass_start_execution tool call.
func (t *StartExecutionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}

	plan, err := t.engine.StartExecution(projectName)
	if err != nil {
		return failure(err)
	}

	taskList := ""
	for _, task := range plan.Tasks {
		taskList += fmt.Sprintf("- [ ] %s\n", task)
	}

	response := fmt.Sprintf(
		"# Execution Started\n\n"+
			"**Project:** %s\n"+
			"**Phase:** %s\n"+
			"**Derived from:** `%s`\n"+
			"**Plan:** `%s`\n\n"+
			"## Execution Tasks\n\n%s\n"+
			"## Next Step\n\n"+
			"Work through the tasks in order. As results come in, record them "+
			"with `compass_save_feedback` — the first feedback note moves the "+
			"project into the feedback phase.",
		plan.Project.Name, plan.Project.Phase, plan.Source, plan.Path, taskList,
	)

	return mcp.NewToolResultText(response), nil
}
