package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	reg, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin() error = %v", err)
	}

	agents := reg.Agents()
	if len(agents) == 0 {
		t.Fatal("built-in registry has no agents")
	}
	if agents[0].ID != "claude" {
		t.Errorf("first agent = %q, want registration order preserved", agents[0].ID)
	}

	if len(reg.Flavors()) != 2 {
		t.Errorf("flavors = %d, want 2", len(reg.Flavors()))
	}
}

func TestAgentResolve(t *testing.T) {
	reg, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin() error = %v", err)
	}

	for _, want := range reg.Agents() {
		got, err := reg.Agent(want.ID)
		if err != nil {
			t.Errorf("Agent(%q) error = %v", want.ID, err)
			continue
		}
		if got.Name != want.Name || got.CommandDir != want.CommandDir {
			t.Errorf("Agent(%q) = %+v, want %+v", want.ID, got, want)
		}
	}

	_, err = reg.Agent("nonexistent")
	if !errors.Is(err, ErrUnknownAgent) {
		t.Errorf("Agent(nonexistent) error = %v, want ErrUnknownAgent", err)
	}
}

func TestFlavorResolve(t *testing.T) {
	reg, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin() error = %v", err)
	}

	posix, err := reg.Flavor("posix")
	if err != nil {
		t.Fatalf("Flavor(posix) error = %v", err)
	}
	if posix.Extension != ".sh" || posix.EOL() != "\n" {
		t.Errorf("posix flavor = %+v", posix)
	}

	ps, err := reg.Flavor("powershell")
	if err != nil {
		t.Fatalf("Flavor(powershell) error = %v", err)
	}
	if ps.Extension != ".ps1" || ps.EOL() != "\r\n" {
		t.Errorf("powershell flavor = %+v", ps)
	}

	_, err = reg.Flavor("fish")
	if !errors.Is(err, ErrUnknownFlavor) {
		t.Errorf("Flavor(fish) error = %v, want ErrUnknownFlavor", err)
	}
}

func TestFlavorsForSubset(t *testing.T) {
	reg, err := LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin() error = %v", err)
	}

	codex, err := reg.Agent("codex")
	if err != nil {
		t.Fatalf("Agent(codex) error = %v", err)
	}
	flavors, err := reg.FlavorsFor(codex)
	if err != nil {
		t.Fatalf("FlavorsFor(codex) error = %v", err)
	}
	if len(flavors) != 1 || flavors[0].ID != "posix" {
		t.Errorf("codex flavors = %+v, want posix only", flavors)
	}
}

func TestParseRejectsBadData(t *testing.T) {
	flavors := []byte(`
flavors:
  - id: posix
    name: POSIX shell
    extension: .sh
    line_ending: lf
    invocation: "{{SCRIPT_DIR}}/{{NAME}}{{SCRIPT_EXT}}"
`)

	tests := []struct {
		name    string
		agents  string
		wantSub string
	}{
		{
			name: "missing required field",
			agents: `
agents:
  - id: probe
    name: Probe
    command_file: "{{NAME}}.md"
    script_dir: scripts
    flavors: [posix]
`,
			wantSub: "command_dir",
		},
		{
			name: "bad id pattern",
			agents: `
agents:
  - id: "Not An ID"
    name: Probe
    command_dir: probe/commands
    command_file: "{{NAME}}.md"
    script_dir: scripts
    flavors: [posix]
`,
			wantSub: "invalid agents.yaml",
		},
		{
			name: "duplicate agent id",
			agents: `
agents:
  - id: probe
    name: Probe
    command_dir: probe/commands
    command_file: "{{NAME}}.md"
    script_dir: scripts
    flavors: [posix]
  - id: probe
    name: Probe Again
    command_dir: probe2/commands
    command_file: "{{NAME}}.md"
    script_dir: scripts
    flavors: [posix]
`,
			wantSub: "duplicate agent id",
		},
		{
			name: "unknown flavor reference",
			agents: `
agents:
  - id: probe
    name: Probe
    command_dir: probe/commands
    command_file: "{{NAME}}.md"
    script_dir: scripts
    flavors: [fish]
`,
			wantSub: "unknown flavor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.agents), flavors)
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	overlay := `
agents:
  - id: claude
    name: Claude Code (pinned)
    prefix: "/"
    command_dir: .claude/commands
    command_file: "{{NAME}}.md"
    script_dir: .specforge/scripts/{{FLAVOR}}
    args: "$ARGUMENTS"
    flavors: [posix]
  - id: newagent
    name: New Agent
    prefix: "/"
    command_dir: .newagent/commands
    command_file: "{{NAME}}.md"
    script_dir: scripts
    args: "$ARGUMENTS"
    flavors: [posix]
`
	if err := os.WriteFile(filepath.Join(dir, "agents.yaml"), []byte(overlay), 0o600); err != nil {
		t.Fatalf("writing overlay: %v", err)
	}

	reg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Replaced in place: claude keeps its position but takes the overlay data.
	agents := reg.Agents()
	if agents[0].ID != "claude" || agents[0].Name != "Claude Code (pinned)" {
		t.Errorf("first agent = %+v, want overlaid claude in place", agents[0])
	}

	// New ids append after the builtins.
	last := agents[len(agents)-1]
	if last.ID != "newagent" {
		t.Errorf("last agent = %q, want newagent appended", last.ID)
	}

	if _, err := reg.Agent("newagent"); err != nil {
		t.Errorf("Agent(newagent) error = %v", err)
	}
}

func TestSupportsFlavor(t *testing.T) {
	p := &AgentProfile{Flavors: []string{"posix"}}
	if !p.SupportsFlavor("posix") {
		t.Error("SupportsFlavor(posix) = false")
	}
	if p.SupportsFlavor("powershell") {
		t.Error("SupportsFlavor(powershell) = true")
	}
}
