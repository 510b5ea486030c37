package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the compass-status MCP prompt.
// It instructs the AI to fetch and present a project's current state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("compass-status",
		mcp.WithPromptDescription(
			"Check the status of a Compass project: current phase, task "+
				"progress, generated documents, and what to do next.",
		),
		mcp.WithArgument("project_name",
			mcp.ArgumentDescription("Name of the project to report on"),
		),
	)
}

// Handle processes the compass-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	projectName := ""
	if args := req.Params.Arguments; args != nil {
		projectName = args["project_name"]
	}

	instruction := "Please check my Compass project status.\n\n"
	if projectName != "" {
		instruction = "Please run `compass_status` for project '" + projectName + "'.\n\n"
	} else {
		instruction += "Run `compass_list_projects` first, then `compass_status` " +
			"for the project I'm working on.\n\n"
	}
	instruction += "Then:\n" +
		"1. Show the current phase and task progress clearly\n" +
		"2. If a specification exists, run `compass_gap_analysis` and summarize the findings\n" +
		"3. Tell me exactly what I should do next"

	return &mcp.GetPromptResult{
		Description: "Compass Project Status",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(instruction),
			},
		},
	}, nil
}
