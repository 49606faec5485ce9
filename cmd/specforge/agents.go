// Package main provides the entry point for the specforge CLI.
package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/specforge/specforge/internal/output"
)

// newAgentsCmd creates the agents command.
func newAgentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List registered agent profiles",
		Long: `List the registered agent profiles.

Shows each agent's id, display name, command directory, and the script
flavors it supports. Overlay definitions from the config directory are
merged over the built-in registry.

Examples:
  specforge agents          # Human-readable table
  specforge agents --json   # JSON for scripting`,
		RunE: runAgents,
	}
}

// runAgents executes the agents command.
func runAgents(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	reg, err := loadRegistry()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("loading registry", err)
		printer.Error(sysErr)
		return sysErr
	}

	profiles := reg.Agents()

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"count":  len(profiles),
			"agents": profiles,
		})
	}

	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			p.CommandDir,
			strings.Join(p.Flavors, ", "),
		})
	}
	printer.Table([]string{"ID", "NAME", "COMMAND DIR", "FLAVORS"}, rows)
	return nil
}
