// Package main provides the entry point for the specforge CLI.
package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	specforgemcp "github.com/specforge/specforge/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run specforge as a Model Context Protocol (MCP) server over stdio.

This exposes specforge operations as MCP tools that any MCP-capable agent
environment can use (Claude Code, Cursor, Windsurf, Gemini CLI, etc).

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "specforge": {
        "command": "specforge",
        "args": ["serve"]
      }
    }
  }

Available tools: list_agents, list_flavors, list_templates, preview, release`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			store, err := loadStore()
			if err != nil {
				return err
			}
			server := specforgemcp.NewServer(buildVersion(), specforgemcp.Deps{
				Registry: reg,
				Store:    store,
			})
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
