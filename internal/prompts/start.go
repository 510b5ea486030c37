// Package prompts implements MCP prompt handlers for Compass.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the compass-start MCP prompt.
// It guides the AI through initializing a project and opening the first
// exploration session.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("compass-start",
		mcp.WithPromptDescription(
			"Start a new Compass project. Initializes the project, seeds the "+
				"exploration task list, and opens the first discovery session.",
		),
		mcp.WithArgument("project_name",
			mcp.ArgumentDescription("Name of the project to create"),
		),
	)
}

// Handle processes the compass-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	projectName := "my-project"
	if args := req.Params.Arguments; args != nil {
		if name, ok := args["project_name"]; ok && name != "" {
			projectName = name
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Start Compass project: %s", projectName),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to start a new Compass project called '%s'.\n\n"+
						"Please:\n"+
						"1. Run `compass_init_project` with name='%s'\n"+
						"2. Run `compass_start_exploration` to open session 1\n"+
						"3. Interview me about the focus task — ask open questions "+
						"about the problem, who it affects, and what success looks like\n"+
						"4. When the conversation winds down, save the full transcript "+
						"with `compass_save_session`\n"+
						"5. Keep running sessions until the exploration tasks are covered, "+
						"then walk me through specification, execution, and feedback",
					projectName, projectName,
				)),
			},
		},
	}, nil
}
