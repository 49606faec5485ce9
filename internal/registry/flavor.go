package registry

// Line ending identifiers accepted in flavor definitions.
const (
	LineEndingLF   = "lf"
	LineEndingCRLF = "crlf"
)

// ScriptFlavor describes one target shell/OS convention for generated
// scripts: file extension, line endings, and how an agent command invokes
// a script of this flavor.
type ScriptFlavor struct {
	// ID is the unique registry key (e.g. "posix", "powershell").
	ID string `yaml:"id" json:"id"`

	// Name is the human-readable flavor name (e.g. "POSIX shell").
	Name string `yaml:"name" json:"name"`

	// Extension is the script file extension including the dot (".sh").
	Extension string `yaml:"extension" json:"extension"`

	// LineEnding is "lf" or "crlf"; applied to rendered script files.
	LineEnding string `yaml:"line_ending" json:"line_ending"`

	// Invocation is the token pattern for calling a script from a command
	// document (e.g. "{{SCRIPT_DIR}}/{{NAME}}{{SCRIPT_EXT}}").
	Invocation string `yaml:"invocation" json:"invocation"`
}

// EOL returns the concrete line terminator for the flavor.
func (f *ScriptFlavor) EOL() string {
	if f.LineEnding == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}
