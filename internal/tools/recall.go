package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/compass/internal/project"
	"github.com/HendryAvila/compass/internal/recall"
	"github.com/mark3labs/mcp-go/mcp"
)

// RecallTool handles the compass_recall MCP tool. It searches the FTS
// index over archived exploration sessions across all projects. The
// tool is only registered when the recall subsystem initialized.
type RecallTool struct {
	store *recall.Store
}

// NewRecallTool creates a RecallTool.
func NewRecallTool(store *recall.Store) *RecallTool {
	return &RecallTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *RecallTool) Definition() mcp.Tool {
	return mcp.NewTool("compass_recall",
		mcp.WithDescription(
			"Full-text search over archived exploration sessions across all "+
				"projects. Use it to surface prior conversations about a topic "+
				"before starting a new exploration, or to check whether another "+
				"project already worked through a similar problem.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query — keywords or phrases"),
		),
		mcp.WithString("project",
			mcp.Description("Restrict results to one project by name"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 10)"),
		),
	)
}

// Handle processes the compass_recall tool call.
func (t *RecallTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	opts := recall.SearchOptions{Limit: intArg(req, "limit", 10)}
	if name := req.GetString("project", ""); name != "" {
		opts.Slug = project.Normalize(name)
	}

	results, err := t.store.Search(query, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recall search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No archived sessions match the query."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d session(s):\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s — session %d", i+1, r.Project, r.SessionNumber)
		if r.Summary != "" && r.Summary != "No summary provided" {
			fmt.Fprintf(&b, " (%s)", r.Summary)
		}
		fmt.Fprintf(&b, "\n    %s\n\n", truncate(r.Content, 300))
	}

	return mcp.NewToolResultText(b.String()), nil
}
