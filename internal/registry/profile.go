package registry

// AgentProfile describes the structural conventions of one AI coding agent:
// where rendered command files land, how they are named, which namespace
// prefix its slash commands use, and which script flavors it ships with.
//
// Fields holding {{TOKEN}} patterns are rendered by the composer; nothing in
// this struct is interpreted as code.
type AgentProfile struct {
	// ID is the unique registry key (e.g. "claude", "copilot").
	ID string `yaml:"id" json:"id"`

	// Name is the human-readable agent name.
	Name string `yaml:"name" json:"name"`

	// Prefix is the command namespace prefix the agent expects
	// (e.g. "/" for slash commands).
	Prefix string `yaml:"prefix" json:"prefix"`

	// CommandDir is the directory rendered command files land in,
	// relative to the project root (e.g. ".claude/commands").
	CommandDir string `yaml:"command_dir" json:"command_dir"`

	// CommandFile is the file naming pattern for command documents
	// (e.g. "{{NAME}}.md" or "{{NAME}}.prompt.md").
	CommandFile string `yaml:"command_file" json:"command_file"`

	// ScriptDir is the directory pattern for helper scripts. It may
	// reference flavor tokens (e.g. ".specforge/scripts/{{FLAVOR}}").
	ScriptDir string `yaml:"script_dir" json:"script_dir"`

	// Args is the literal text the agent substitutes for user arguments
	// (e.g. "$ARGUMENTS"). Passed through to templates as {{ARGS}}.
	Args string `yaml:"args" json:"args"`

	// Flavors lists the script flavor ids this agent supports, in the
	// order they should be packaged.
	Flavors []string `yaml:"flavors" json:"flavors"`

	// Tokens holds additional agent-specific substitution values.
	Tokens map[string]string `yaml:"tokens,omitempty" json:"tokens,omitempty"`
}

// SupportsFlavor reports whether the profile lists the given flavor id.
func (p *AgentProfile) SupportsFlavor(flavorID string) bool {
	for _, id := range p.Flavors {
		if id == flavorID {
			return true
		}
	}
	return false
}
