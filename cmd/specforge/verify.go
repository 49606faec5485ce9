// Package main provides the entry point for the specforge CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specforge/specforge/internal/manifest"
	"github.com/specforge/specforge/internal/output"
	"github.com/specforge/specforge/internal/release"
)

// newVerifyCmd creates the verify command.
func newVerifyCmd() *cobra.Command {
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "verify VERSION",
		Short: "Check released artifacts against the manifest",
		Long: `Check the released artifacts for a version against its manifest.

Every artifact the manifest lists is re-hashed and compared: a missing
file, size mismatch, or sha256 mismatch fails verification. Files in
the directory that the manifest does not mention are ignored.

Examples:
  specforge verify v1.4.0              # Verify dist/
  specforge verify v1.4.0 --dir build  # Verify a custom directory`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args[0], dirFlag)
		},
	}

	cmd.Flags().StringVar(&dirFlag, "dir", "dist", "Directory holding the artifacts and manifest")
	return cmd
}

// runVerify executes the verify command.
func runVerify(cmd *cobra.Command, version, dir string) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	if err := release.ValidateVersion(version); err != nil {
		userErr := output.NewUserError(err.Error())
		printer.Error(userErr)
		return userErr
	}

	m, err := manifest.Read(manifest.Path(dir, version))
	if err != nil {
		userErr := output.NewUserError(err.Error())
		printer.Error(userErr)
		return userErr
	}

	issues, err := manifest.Verify(dir, m)
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("verifying artifacts", err)
		printer.Error(sysErr)
		return sysErr
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(map[string]any{
			"version":   m.Version,
			"artifacts": len(m.Artifacts),
			"issues":    issues,
			"valid":     len(issues) == 0,
		}); err != nil {
			return err
		}
	} else if len(issues) == 0 {
		return printer.Success(map[string]any{
			"message": fmt.Sprintf("All %d artifacts verified for %s", len(m.Artifacts), m.Version),
		})
	} else {
		for _, is := range issues {
			printer.Print("%s: %s\n", is.File, is.Reason)
		}
	}

	if len(issues) > 0 {
		return output.NewSystemError(fmt.Sprintf("%d of %d artifacts failed verification", len(issues), len(m.Artifacts)))
	}
	return nil
}
