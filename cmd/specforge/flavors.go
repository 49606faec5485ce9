// Package main provides the entry point for the specforge CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/specforge/specforge/internal/output"
)

// newFlavorsCmd creates the flavors command.
func newFlavorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flavors",
		Short: "List registered script flavors",
		Long: `List the registered script flavors.

Shows each flavor's id, display name, file extension, and line ending
convention. Overlay definitions from the config directory are merged
over the built-in registry.

Examples:
  specforge flavors          # Human-readable table
  specforge flavors --json   # JSON for scripting`,
		RunE: runFlavors,
	}
}

// runFlavors executes the flavors command.
func runFlavors(cmd *cobra.Command, _ []string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	reg, err := loadRegistry()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("loading registry", err)
		printer.Error(sysErr)
		return sysErr
	}

	flavors := reg.Flavors()

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"count":   len(flavors),
			"flavors": flavors,
		})
	}

	rows := make([][]string, 0, len(flavors))
	for _, f := range flavors {
		rows = append(rows, []string{f.ID, f.Name, f.Extension, f.LineEnding})
	}
	printer.Table([]string{"ID", "NAME", "EXTENSION", "LINE ENDING"}, rows)
	return nil
}
