package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/specforge/specforge/internal/output"
)

// runReleaseForVerify produces a small release to verify against.
func runReleaseForVerify(t *testing.T, dist string) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"release", "v1.0.0", "--agent", "claude", "-o", dist, "--json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("release failed: %v\nOutput: %s", err, buf.String())
	}
}

func TestVerifyCommand_Clean(t *testing.T) {
	isolateConfig(t)
	dist := t.TempDir()
	runReleaseForVerify(t, dist)

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"verify", "v1.0.0", "--dir", dist, "--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("verify failed: %v\nOutput: %s", err, buf.String())
	}

	var result struct {
		Artifacts int  `json:"artifacts"`
		Valid     bool `json:"valid"`
	}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, buf.String())
	}
	if !result.Valid || result.Artifacts == 0 {
		t.Errorf("artifacts = %d, valid = %v", result.Artifacts, result.Valid)
	}
}

func TestVerifyCommand_CorruptArtifact(t *testing.T) {
	isolateConfig(t)
	dist := t.TempDir()
	runReleaseForVerify(t, dist)

	// Flip a byte in one artifact.
	path := filepath.Join(dist, "specforge-kit-claude-posix-v1.0.0.zip")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	data[len(data)-1] ^= 0xff
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("corrupting artifact: %v", err)
	}

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"verify", "v1.0.0", "--dir", dist, "--json"})

	err = cmd.Execute()
	if err == nil {
		t.Fatal("expected error for corrupted artifact")
	}
	if code := output.GetExitCode(err); code != output.ExitSystemError {
		t.Errorf("exit code = %d, want %d", code, output.ExitSystemError)
	}

	var result struct {
		Valid  bool `json:"valid"`
		Issues []struct {
			File   string `json:"file"`
			Reason string `json:"reason"`
		} `json:"issues"`
	}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, buf.String())
	}
	if result.Valid || len(result.Issues) != 1 {
		t.Errorf("result = %+v", result)
	}
	if result.Issues[0].Reason != "sha256 mismatch" {
		t.Errorf("reason = %q, want sha256 mismatch", result.Issues[0].Reason)
	}
}

func TestVerifyCommand_MissingManifest(t *testing.T) {
	isolateConfig(t)

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"verify", "v9.9.9", "--dir", t.TempDir(), "--json"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
}
