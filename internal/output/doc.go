// Package output provides structured output handling for the specforge CLI.
//
// This package handles both human-readable and JSON output formats, so every
// command works equally well for human operators and for release automation
// that parses the structured protocol.
//
// # Printer
//
// The Printer is the primary interface for command output. It automatically
// handles format switching based on the --json flag and TTY detection:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout()))
//
//	printer.Success(map[string]any{"message": "release complete", "artifacts": 6})
//	printer.Error(err)
//	printer.Table(headers, rows)
//
// # JSON Mode
//
// When JSON mode is enabled (via --json flag), all output is structured:
//
//	// Success: {"message": "...", ...}
//	// Error: {"error": "message", "code": N}
//
// # Exit Codes
//
// The package defines standard exit codes and error types:
//
//	output.ExitSuccess     // 0: every requested pair released
//	output.ExitUserError   // 1: bad input (version, filters, templates)
//	output.ExitSystemError // 2: packaging or manifest I/O failure
//	output.ExitPartial     // 3: some pairs failed, siblings released
//
// Use the error constructors to create properly-coded errors:
//
//	output.NewUserError("unknown agent: foo")
//	output.NewSystemError("writing manifest failed")
//	output.NewPartialError("2 of 6 pairs failed")
//
// These errors carry exit codes that are used for both JSON error output
// and the process exit code.
package output
