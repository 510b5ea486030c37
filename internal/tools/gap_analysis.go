package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// GapAnalysisTool handles the compass_gap_analysis MCP tool.
// Gap analysis is advisory: findings inform the user's decision to
// reopen a phase but never block a transition.
type GapAnalysisTool struct {
	engine *engine.Engine
}

// NewGapAnalysisTool creates a GapAnalysisTool.
func NewGapAnalysisTool(e *engine.Engine) *GapAnalysisTool {
	return &GapAnalysisTool{engine: e}
}

// Definition returns the MCP tool definition for registration.
func (t *GapAnalysisTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_gap_analysis",
		mcp.WithDescription(
			"Compare a project's exploration record against its newest "+
				"specification document and report unresolved topics: "+
				"specification keywords the exploration never touched, overly "+
				"brief exploration, unanswered questions, and exploration "+
				"insights missing from the specification. Advisory only — "+
				"findings never block a phase transition.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project to analyze"),
		),
	)
}

// Handle processes the compass_gap_analysis tool call.
func (t *GapAnalysisTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}

	report, err := t.engine.CheckGaps(projectName)
	if err != nil {
		return failure(err)
	}

	var b strings.Builder
	b.WriteString("# Gap Analysis\n\n")

	if report.Clean() {
		b.WriteString("No gaps detected between exploration and specification.\n")
	} else {
		fmt.Fprintf(&b, "Found %d gap(s):\n\n", len(report.Findings))
		for _, finding := range report.Findings {
			fmt.Fprintf(&b, "- %s\n", finding)
		}
	}

	fmt.Fprintf(&b, "\n**Recommendation:** %s\n", report.Recommendation)

	b.WriteString("\n## Next Step\n\n")
	if report.Clean() {
		b.WriteString("Continue with the current phase — nothing needs reopening.")
	} else {
		b.WriteString("Discuss the findings with the user. If the gaps matter, " +
			"reopen the earlier phase with `compass_reopen_phase` (a flywheel " +
			"iteration); the decision is theirs — analysis never reverts phase " +
			"state on its own.")
	}

	return mcp.NewToolResultText(b.String()), nil
}
