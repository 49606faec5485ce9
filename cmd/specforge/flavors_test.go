package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestFlavorsCommand_JSON(t *testing.T) {
	isolateConfig(t)

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"flavors", "--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	var result struct {
		Count   int `json:"count"`
		Flavors []struct {
			ID         string `json:"id"`
			Extension  string `json:"extension"`
			LineEnding string `json:"line_ending"`
		} `json:"flavors"`
	}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, buf.String())
	}

	byID := make(map[string]string)
	for _, f := range result.Flavors {
		byID[f.ID] = f.Extension
	}
	if byID["posix"] != ".sh" {
		t.Errorf("posix extension = %q, want .sh", byID["posix"])
	}
	if byID["powershell"] != ".ps1" {
		t.Errorf("powershell extension = %q, want .ps1", byID["powershell"])
	}
}

func TestFlavorsCommand_Human(t *testing.T) {
	isolateConfig(t)

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"flavors"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	output := buf.String()
	for _, check := range []string{"EXTENSION", "LINE ENDING", "posix", "crlf"} {
		if !strings.Contains(output, check) {
			t.Errorf("human output missing %q\nOutput: %s", check, output)
		}
	}
}
