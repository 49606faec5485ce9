package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/specforge/specforge/internal/registry"
	"github.com/specforge/specforge/internal/templates"
)

// --- Test helpers ---

const testFlavorsYAML = `
flavors:
  - id: posix
    name: POSIX shell
    extension: .sh
    line_ending: lf
    invocation: "{{SCRIPT_DIR}}/{{NAME}}{{SCRIPT_EXT}}"
  - id: powershell
    name: PowerShell
    extension: .ps1
    line_ending: crlf
    invocation: "pwsh -File {{SCRIPT_DIR}}/{{NAME}}{{SCRIPT_EXT}}"
`

const testAgentsYAML = `
agents:
  - id: alpha
    name: Alpha
    prefix: "/"
    command_dir: .alpha/commands
    command_file: "{{NAME}}.md"
    script_dir: scripts/{{FLAVOR}}
    args: "$ARGUMENTS"
    flavors: [posix, powershell]
  - id: beta
    name: Beta
    prefix: "/"
    command_dir: .beta/prompts
    command_file: "{{NAME}}.prompt.md"
    script_dir: scripts/{{FLAVOR}}
    args: "$ARGUMENTS"
    flavors: [posix]
`

func makeTestDeps(t *testing.T) Deps {
	t.Helper()
	reg, err := registry.Parse([]byte(testAgentsYAML), []byte(testFlavorsYAML))
	if err != nil {
		t.Fatalf("registry.Parse() error = %v", err)
	}
	store, err := templates.NewStore([]templates.Document{
		{
			Name:    "specify",
			Kind:    templates.KindCommand,
			Path:    "{{COMMAND_DIR}}/{{COMMAND_FILE}}",
			Content: "Use {{PREFIX}}specify with {{ARGS}}.",
		},
		{
			Name:    "helper",
			Kind:    templates.KindScript,
			Flavors: []string{"posix"},
			Path:    "{{SCRIPT_DIR}}/{{NAME}}{{SCRIPT_EXT}}",
			Content: "#!/bin/sh\necho ok\n",
		},
	})
	if err != nil {
		t.Fatalf("templates.NewStore() error = %v", err)
	}
	return Deps{Registry: reg, Store: store}
}

// --- list_agents handler tests ---

func TestHandleListAgents(t *testing.T) {
	deps := makeTestDeps(t)
	handler := handleListAgents(deps.Registry)

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, ListAgentsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Agents) != 2 {
		t.Fatalf("len(Agents) = %d, want 2", len(out.Agents))
	}
	if out.Agents[0].ID != "alpha" || out.Agents[0].CommandDir != ".alpha/commands" {
		t.Errorf("Agents[0] = %+v", out.Agents[0])
	}
	if len(out.Agents[1].Flavors) != 1 || out.Agents[1].Flavors[0] != "posix" {
		t.Errorf("Agents[1].Flavors = %v, want [posix]", out.Agents[1].Flavors)
	}
}

// --- list_flavors handler tests ---

func TestHandleListFlavors(t *testing.T) {
	deps := makeTestDeps(t)
	handler := handleListFlavors(deps.Registry)

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, ListFlavorsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Flavors) != 2 {
		t.Fatalf("len(Flavors) = %d, want 2", len(out.Flavors))
	}
	if out.Flavors[1].Extension != ".ps1" || out.Flavors[1].LineEnding != "crlf" {
		t.Errorf("Flavors[1] = %+v", out.Flavors[1])
	}
}

// --- list_templates handler tests ---

func TestHandleListTemplates(t *testing.T) {
	deps := makeTestDeps(t)
	handler := handleListTemplates(deps.Store)

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, ListTemplatesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("Count = %d, want 2", out.Count)
	}
	// Sorted by (kind, name): command/specify before script/helper.
	if out.Templates[0].Kind != templates.KindCommand || out.Templates[0].Name != "specify" {
		t.Errorf("Templates[0] = %+v", out.Templates[0])
	}
}

// --- preview handler tests ---

func TestHandlePreview(t *testing.T) {
	deps := makeTestDeps(t)
	handler := handlePreview(deps)

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, PreviewInput{
		Agent:  "alpha",
		Flavor: "posix",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(out.Files))
	}
	if out.Files[0].Path != ".alpha/commands/specify.md" {
		t.Errorf("Files[0].Path = %q", out.Files[0].Path)
	}
	if out.Content != "" {
		t.Errorf("Content = %q, want empty without a path", out.Content)
	}
}

func TestHandlePreview_WithPath(t *testing.T) {
	deps := makeTestDeps(t)
	handler := handlePreview(deps)

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, PreviewInput{
		Agent:  "alpha",
		Flavor: "posix",
		Path:   ".alpha/commands/specify.md",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.Content, "/specify with $ARGUMENTS") {
		t.Errorf("Content = %q", out.Content)
	}
}

func TestHandlePreview_UnknownPath(t *testing.T) {
	deps := makeTestDeps(t)
	handler := handlePreview(deps)

	_, _, err := handler(context.Background(), &mcp.CallToolRequest{}, PreviewInput{
		Agent:  "alpha",
		Flavor: "posix",
		Path:   "nope.md",
	})
	if err == nil {
		t.Error("expected error for unknown path, got nil")
	}
}

func TestHandlePreview_UnsupportedFlavor(t *testing.T) {
	deps := makeTestDeps(t)
	handler := handlePreview(deps)

	// beta only supports posix.
	_, _, err := handler(context.Background(), &mcp.CallToolRequest{}, PreviewInput{
		Agent:  "beta",
		Flavor: "powershell",
	})
	if err == nil {
		t.Error("expected error for unsupported flavor, got nil")
	}
}

func TestHandlePreview_MissingArgs(t *testing.T) {
	deps := makeTestDeps(t)
	handler := handlePreview(deps)

	_, _, err := handler(context.Background(), &mcp.CallToolRequest{}, PreviewInput{Agent: "alpha"})
	if err == nil {
		t.Error("expected error for missing flavor, got nil")
	}
}

// --- release handler tests ---

func TestHandleRelease(t *testing.T) {
	deps := makeTestDeps(t)
	handler := handleRelease(deps)
	dir := t.TempDir()

	_, out, err := handler(context.Background(), &mcp.CallToolRequest{}, ReleaseInput{
		Version:   "v1.0.0",
		OutputDir: dir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// alpha×(posix,powershell) + beta×posix.
	if out.Released != 3 || out.Failed != 0 {
		t.Errorf("released = %d, failed = %d, want 3/0", out.Released, out.Failed)
	}
	if _, err := os.Stat(out.Manifest); err != nil {
		t.Errorf("manifest missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "specforge-kit-beta-posix-v1.0.0.zip")); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
}

func TestHandleRelease_MissingArgs(t *testing.T) {
	deps := makeTestDeps(t)
	handler := handleRelease(deps)

	_, _, err := handler(context.Background(), &mcp.CallToolRequest{}, ReleaseInput{Version: "v1.0.0"})
	if err == nil {
		t.Error("expected error for missing output_dir, got nil")
	}

	_, _, err = handler(context.Background(), &mcp.CallToolRequest{}, ReleaseInput{OutputDir: t.TempDir()})
	if err == nil {
		t.Error("expected error for missing version, got nil")
	}
}

// --- Server registration test ---

func TestNewServer_RegistersTools(t *testing.T) {
	deps := makeTestDeps(t)

	// Should not panic
	server := NewServer("test-version", deps)
	if server == nil {
		t.Fatal("NewServer returned nil")
	}
}
