package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/HendryAvila/compass/internal/insight"
	"github.com/mark3labs/mcp-go/mcp"
)

// GenerateSpecTool handles the compass_generate_spec MCP tool.
// It renders a named pattern against the insights extracted from the
// project's exploration record.
type GenerateSpecTool struct {
	engine *engine.Engine
}

// NewGenerateSpecTool creates a GenerateSpecTool.
func NewGenerateSpecTool(e *engine.Engine) *GenerateSpecTool {
	return &GenerateSpecTool{engine: e}
}

// Definition returns the MCP tool definition for registration. The
// pattern parameter enumerates whatever the registry loaded, so patterns
// dropped into the pattern directory show up without a code change.
func (t *GenerateSpecTool) Definition() mcp.Tool {
	names := t.engine.Patterns().Names()
	return mcp.NewTool("compass_generate_spec",
		mcp.WithDescription(
			"Generate a specification document from a named pattern. Extracts "+
				"the insight bundle (pain points, goals, constraints, features, "+
				"risks, stakeholders, success criteria, technical considerations, "+
				"current and target state) from the full exploration record and "+
				"substitutes it into the pattern's template. Each invocation "+
				"writes a new timestamped document; prior documents are never "+
				"overwritten. Requires the exploration phase to be completed.",
		),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Name of the project to specify"),
		),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Pattern to render: "+strings.Join(names, ", ")),
			mcp.Enum(names...),
		),
	)
}

// Handle processes the compass_generate_spec tool call.
func (t *GenerateSpecTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("'project_name' is required"), nil
	}
	patternName := req.GetString("pattern", "")
	if patternName == "" {
		return mcp.NewToolResultError("'pattern' is required"), nil
	}

	result, err := t.engine.GenerateSpecification(projectName, patternName)
	if err != nil {
		return failure(err)
	}

	warning := ""
	if len(result.Unmatched) > 0 {
		warning = fmt.Sprintf(
			"\n⚠️ Unfilled placeholders left verbatim in the document: %s\n",
			strings.Join(result.Unmatched, ", "),
		)
	}

	response := fmt.Sprintf(
		"# Specification Generated\n\n"+
			"**Pattern:** %s\n"+
			"**File:** `%s`\n%s\n"+
			"## Extracted Insights\n\n%s\n"+
			"## Document\n\n%s\n\n"+
			"---\n\n"+
			"## Next Step\n\n"+
			"Review the document with the user. Run `compass_gap_analysis` to "+
			"check it against the exploration record; generate again with "+
			"another pattern if a different cut helps. When the user is "+
			"satisfied, call `compass_mark_spec_complete` to unlock execution.",
		result.Pattern, result.Path, warning,
		bundleSummary(result.Bundle), result.Document,
	)

	return mcp.NewToolResultText(response), nil
}

// bundleSummary lists the insight fields that carried real signal.
// Fields still at the no-information default are grouped into one line.
func bundleSummary(b insight.Bundle) string {
	fields := []struct {
		label string
		value string
	}{
		{"Pain points", b.PainPoints},
		{"Core features", b.CoreFeatures},
		{"Constraints", b.Constraints},
		{"Goals", b.Goals},
		{"Risks", b.Risks},
		{"Stakeholders", b.Stakeholders},
		{"Success criteria", b.SuccessCriteria},
		{"Technical considerations", b.TechnicalConsiderations},
		{"Current state", b.CurrentState},
		{"Target state", b.TargetState},
	}

	var sb strings.Builder
	var missing []string
	for _, f := range fields {
		if insight.IsDefault(f.value) {
			missing = append(missing, f.label)
			continue
		}
		fmt.Fprintf(&sb, "- **%s:** %s\n", f.label, truncate(f.value, 200))
	}
	if len(missing) > 0 {
		fmt.Fprintf(&sb, "- _No signal found for: %s_\n", strings.Join(missing, ", "))
	}
	return sb.String()
}
