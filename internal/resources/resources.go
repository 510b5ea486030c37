// Package resources implements MCP resource handlers for Compass.
//
// Resources provide read-only data the host can pull for context. They
// use URI-based addressing (compass://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/compass/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler serves the Compass resource endpoints.
type Handler struct {
	engine *engine.Engine
}

// NewHandler creates a resource Handler backed by the given engine.
func NewHandler(e *engine.Engine) *Handler {
	return &Handler{engine: e}
}

// ProjectsResource returns the resource definition for the project list.
func (h *Handler) ProjectsResource() mcp.Resource {
	return mcp.NewResource(
		"compass://projects",
		"Compass Projects",
		mcp.WithResourceDescription("All projects under the Compass root with phase and session counts"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleProjects returns every project record as JSON.
func (h *Handler) HandleProjects(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	projects, err := h.engine.ListProjects()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling projects: %w", err)
	}
	return jsonResource(req.Params.URI, data), nil
}

// PatternsResource returns the resource definition for the pattern
// catalog.
func (h *Handler) PatternsResource() mcp.Resource {
	return mcp.NewResource(
		"compass://patterns",
		"Specification Patterns",
		mcp.WithResourceDescription("Available specification patterns with their domains, variables, and sections"),
		mcp.WithMIMEType("application/json"),
	)
}

// patternInfo is the catalog entry shape; the template body is omitted
// because hosts only need the pattern's surface to pick one.
type patternInfo struct {
	Name        string   `json:"name"`
	Domain      string   `json:"domain"`
	Description string   `json:"description,omitempty"`
	Variables   []string `json:"variables"`
	Sections    []string `json:"sections"`
}

// HandlePatterns returns the pattern catalog as JSON.
func (h *Handler) HandlePatterns(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var catalog []patternInfo
	for _, p := range h.engine.Patterns().All() {
		catalog = append(catalog, patternInfo{
			Name:        p.Name,
			Domain:      p.Domain,
			Description: p.Description,
			Variables:   p.Variables,
			Sections:    p.Sections,
		})
	}

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling patterns: %w", err)
	}
	return jsonResource(req.Params.URI, data), nil
}

func jsonResource(uri string, data []byte) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}
}

// errorResource returns a resource carrying an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
