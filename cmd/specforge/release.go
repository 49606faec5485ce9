// Package main provides the entry point for the specforge CLI.
package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/specforge/specforge/internal/output"
	"github.com/specforge/specforge/internal/registry"
	"github.com/specforge/specforge/internal/release"
)

// releaseFlags holds the command-line flags for the release command.
type releaseFlags struct {
	outputDir string
	agents    []string
	flavors   []string
	jobs      int
}

// releaseStyleSet holds lipgloss styles for release output.
type releaseStyleSet struct {
	heading lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	dim     lipgloss.Style
	accent  lipgloss.Style
}

// releaseStyles returns a TTY-aware style set.
func releaseStyles(isTTY bool) releaseStyleSet {
	if !isTTY {
		return releaseStyleSet{}
	}
	return releaseStyleSet{
		heading: lipgloss.NewStyle().Bold(true),
		pass:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "10", Dark: "10"}),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "8", Dark: "7"}),
		accent:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "12", Dark: "12"}),
	}
}

// newReleaseCmd creates the release command.
func newReleaseCmd() *cobra.Command {
	flags := &releaseFlags{}

	cmd := &cobra.Command{
		Use:   "release VERSION",
		Short: "Compose and package kits for every agent/flavor pair",
		Long: `Compose and package the template kit for every agent/flavor pair.

Each pair is rendered and zipped independently on a bounded worker pool.
A pair whose templates fail to render is reported and skipped; the rest
of the release still ships. Packaging I/O errors abort the whole run.

The run commits a manifest listing exactly the artifacts that were
produced, plus a versioned checksums file. Re-running with the same inputs yields
byte-identical artifacts.

Exit codes: 0 full release, 1 bad arguments, 2 packaging failure,
3 partial release (some pairs failed composition).

Examples:
  specforge release v1.4.0                      # All agents, all flavors
  specforge release v1.4.0 --agent claude       # One agent
  specforge release v1.4.0 --flavor posix       # One flavor across agents
  specforge release v1.4.0 -o build --jobs 2    # Custom dir, two workers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelease(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.outputDir, "output", "o", "dist", "Directory for artifacts and manifest")
	cmd.Flags().StringArrayVar(&flags.agents, "agent", nil, "Restrict to this agent id (repeatable)")
	cmd.Flags().StringArrayVar(&flags.flavors, "flavor", nil, "Restrict to this flavor id (repeatable)")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "Max parallel packaging workers (0 = number of CPUs)")

	return cmd
}

// runRelease executes the release command.
func runRelease(cmd *cobra.Command, version string, flags *releaseFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))
	styles := releaseStyles(printer.IsTTYMode())

	if err := release.ValidateVersion(version); err != nil {
		userErr := output.NewUserError(err.Error())
		printer.Error(userErr)
		return userErr
	}

	reg, err := loadRegistry()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("loading registry", err)
		printer.Error(sysErr)
		return sysErr
	}
	store, err := loadStore()
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("loading templates", err)
		printer.Error(sysErr)
		return sysErr
	}

	runner := &release.Runner{Registry: reg, Store: store}
	res, err := runner.Run(cmd.Context(), release.Options{
		Version:   version,
		OutputDir: flags.outputDir,
		Agents:    flags.agents,
		Flavors:   flags.flavors,
		Jobs:      flags.jobs,
	})
	if err != nil {
		// Unknown filter ids are the caller's mistake; everything else at
		// this stage is packaging or manifest I/O.
		var exitErr *output.ExitError
		if errors.Is(err, registry.ErrUnknownAgent) || errors.Is(err, registry.ErrUnknownFlavor) {
			exitErr = output.NewUserError(err.Error())
		} else {
			exitErr = output.NewSystemErrorWithCause("release failed: "+err.Error(), err)
		}
		printer.Error(exitErr)
		return exitErr
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(res); err != nil {
			return err
		}
	} else {
		printReleaseReport(printer, styles, flags.outputDir, res)
	}

	if res.Failed > 0 {
		return output.NewPartialError(fmt.Sprintf("%d of %d pairs failed", res.Failed, res.Failed+res.Released))
	}
	return nil
}

// printReleaseReport outputs the per-pair results in human-readable form.
func printReleaseReport(printer *output.Printer, styles releaseStyleSet, dir string, res *release.Result) {
	printer.Println()
	printer.Print("%s %s\n", styles.heading.Render("Release"), styles.accent.Render(res.Version))
	printer.Println()

	for _, pr := range res.Pairs {
		pair := fmt.Sprintf("%s/%s", pr.Agent, pr.Flavor)
		if pr.Status == release.StatusReleased {
			printer.Print("  %s %-24s %s %s\n",
				styles.pass.Render("✓"), pair,
				pr.Artifact, styles.dim.Render(fmt.Sprintf("(%d files)", pr.Files)))
			continue
		}
		printer.Print("  %s %-24s %s\n",
			styles.fail.Render("✗"), pair, styles.fail.Render(pr.Error))
	}

	printer.Println()
	summary := fmt.Sprintf("%d released, %d failed", res.Released, res.Failed)
	if res.Failed > 0 {
		printer.Print("%s %s\n", styles.fail.Render(summary), styles.dim.Render("(partial release)"))
	} else {
		printer.Print("%s\n", styles.pass.Render(summary))
	}
	printer.Print("Manifest: %s\n", styles.dim.Render(res.ManifestPath))
	printer.Print("Verify with '%s'\n", styles.accent.Render("specforge verify "+res.Version+" --dir "+dir))
}
