// Package mcp provides a Model Context Protocol server for specforge.
// It exposes the registry, template store, and release runner as MCP tools
// that any MCP-capable agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specforge/specforge/internal/registry"
	"github.com/specforge/specforge/internal/templates"
)

// Deps holds the loaded state the tools operate on. Everything here is
// read-only; the release tool writes only to the directory the call names.
type Deps struct {
	Registry *registry.Registry
	Store    *templates.Store
}

// NewServer creates an MCP server with all specforge tools registered.
func NewServer(version string, deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "specforge",
		Version: version,
	}, nil)
	registerTools(server, deps)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for write tools (additive, not destructive).
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		IdempotentHint:  true,
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all specforge tools to the server.
func registerTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_agents",
		Description: "List the registered agent profiles: id, display name, command layout, and supported script flavors.",
		Annotations: readOnlyAnnotations(),
	}, handleListAgents(deps.Registry))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_flavors",
		Description: "List the registered script flavors: id, file extension, and line ending convention.",
		Annotations: readOnlyAnnotations(),
	}, handleListFlavors(deps.Registry))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_templates",
		Description: "List the template documents in the store, including overlays, sorted by kind and name.",
		Annotations: readOnlyAnnotations(),
	}, handleListTemplates(deps.Store))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview",
		Description: "Compose the file tree for one agent/flavor pair without packaging it. Returns rendered paths and sizes; pass a path to get one file's content.",
		Annotations: readOnlyAnnotations(),
	}, handlePreview(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "release",
		Description: "Run a packaging release: compose and zip every selected agent/flavor pair into the output directory and write the manifest. Reports per-pair results.",
		Annotations: writeAnnotations(),
	}, handleRelease(deps))
}
