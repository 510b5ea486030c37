// Package tools implements the MCP tool adapters for the Compass
// methodology engine.
//
// Each tool lives in its own file: a struct holding its dependencies,
// Definition() returning the mcp.Tool schema, and Handle() parsing the
// request, calling exactly one engine operation, and rendering the
// outcome as markdown that ends with next-step guidance. No phase or
// extraction logic lives here — the engine owns all of it.
package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/HendryAvila/compass/internal/project"
	"github.com/mark3labs/mcp-go/mcp"
)

// failure renders an engine failure for the caller. Taxonomy errors are
// user errors — the text names the unmet condition and, when the engine
// knows it, the action that satisfies it. Storage failures and anything
// unrecognized propagate as system errors.
func failure(err error) (*mcp.CallToolResult, error) {
	var e *engine.Error
	if errors.As(err, &e) && e.Kind != engine.KindStorageFailure {
		msg := e.Message
		if e.Next != "" {
			msg = fmt.Sprintf("%s\n\n**Next step:** %s", e.Message, e.Next)
		}
		return mcp.NewToolResultError(msg), nil
	}
	return nil, err
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are
// float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// checklist renders exploration tasks as markdown checkboxes.
func checklist(tasks []project.Task) string {
	var b strings.Builder
	for _, task := range tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, task.Text)
	}
	return b.String()
}

// truncate shortens text for inline display, cutting on a rune boundary.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
