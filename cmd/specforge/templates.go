// Package main provides the entry point for the specforge CLI.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specforge/specforge/internal/compose"
	"github.com/specforge/specforge/internal/output"
	"github.com/specforge/specforge/internal/templates"
)

// newTemplatesCmd creates the templates command.
func newTemplatesCmd() *cobra.Command {
	var validateFlag bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List template documents",
		Long: `List the template documents in the store.

Shows each template's kind, name, flavor allow-list, and whether it is
built-in or comes from an overlay file. With --validate, every
agent/flavor pair is composed in memory and unresolved tokens or path
collisions are reported without writing anything.

Examples:
  specforge templates             # List the template set
  specforge templates --validate  # Dry-run compose every pair
  specforge templates --json      # JSON for scripting`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplates(cmd, args, validateFlag)
		},
	}
	cmd.Flags().BoolVar(&validateFlag, "validate", false, "Compose every agent/flavor pair in memory and report errors")
	return cmd
}

// runTemplates executes the templates command.
func runTemplates(cmd *cobra.Command, _ []string, validate bool) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	store, err := loadStore()
	if err != nil {
		userErr := output.NewUserError(err.Error())
		printer.Error(userErr)
		return userErr
	}

	if validate {
		return runTemplatesValidate(printer, store)
	}

	docs := store.Documents()

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"count":     len(docs),
			"templates": docs,
		})
	}

	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		flavors := strings.Join(d.Flavors, ", ")
		if flavors == "" {
			flavors = "all"
		}
		rows = append(rows, []string{d.Kind, d.Name, flavors, d.Source})
	}
	printer.Table([]string{"KIND", "NAME", "FLAVORS", "SOURCE"}, rows)
	return nil
}

// runTemplatesValidate dry-run composes every agent/flavor pair.
func runTemplatesValidate(printer *output.Printer, store *templates.Store) error {
	reg, err := loadRegistry()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("loading registry", err)
		printer.Error(sysErr)
		return sysErr
	}

	type issue struct {
		Pair  string `json:"pair"`
		Error string `json:"error"`
	}
	var issues []issue
	checked := 0

	for _, profile := range reg.Agents() {
		flavors, err := reg.FlavorsFor(&profile)
		if err != nil {
			sysErr := output.NewSystemErrorWithCause("resolving flavors", err)
			printer.Error(sysErr)
			return sysErr
		}
		for _, flavor := range flavors {
			pair := compose.Pair{Agent: profile, Flavor: flavor}
			checked++
			if _, err := compose.Render(store, pair, "v0.0.0"); err != nil {
				issues = append(issues, issue{Pair: pair.Key(), Error: err.Error()})
			}
		}
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(map[string]any{
			"checked": checked,
			"issues":  issues,
			"valid":   len(issues) == 0,
		}); err != nil {
			return err
		}
	} else if len(issues) == 0 {
		return printer.Success(map[string]any{
			"message": fmt.Sprintf("All %d pairs compose cleanly", checked),
		})
	} else {
		for _, is := range issues {
			printer.Print("%s: %s\n", is.Pair, is.Error)
		}
	}

	if len(issues) > 0 {
		return output.NewUserError(fmt.Sprintf("%d of %d pairs fail to compose", len(issues), checked))
	}
	return nil
}
