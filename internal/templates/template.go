package templates

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document kinds. Scripts get flavor line endings and an executable mode;
// commands land in the agent's command directory; docs are copied as-is.
const (
	KindCommand = "command"
	KindScript  = "script"
	KindDoc     = "doc"
)

// TokenPattern matches a well-formed substitution token. Tokens are
// uppercase so agents whose own placeholder syntax uses braces (e.g.
// lowercase {{args}}) pass through composition untouched.
var TokenPattern = regexp.MustCompile(`\{\{[A-Z][A-Z0-9_]*\}\}`)

// openTokenPattern matches the start of what looks like a token; used to
// detect unterminated tokens at load time.
var openTokenPattern = regexp.MustCompile(`\{\{[A-Z][A-Z0-9_]*`)

// Document is one canonical template: frontmatter metadata plus content
// with embedded {{TOKEN}} placeholders. Immutable once loaded.
type Document struct {
	// Metadata from frontmatter
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Kind        string   `yaml:"kind"`
	Path        string   `yaml:"path"`              // target path pattern, token-bearing
	Flavors     []string `yaml:"flavors,omitempty"` // optional flavor allow-list
	Script      string   `yaml:"script,omitempty"`  // helper script a command invokes

	// Template content (after frontmatter)
	Content string `yaml:"-"`

	// Source location for display: "built-in" or an overlay path
	Source string `yaml:"-"`
}

// AppliesTo reports whether the document should be rendered for the given
// flavor. An empty allow-list means every flavor.
func (d *Document) AppliesTo(flavorID string) bool {
	if len(d.Flavors) == 0 {
		return true
	}
	for _, id := range d.Flavors {
		if id == flavorID {
			return true
		}
	}
	return false
}

// LoadError reports a malformed template. The file name points at the
// offending source so registry maintainers can fix it in place.
type LoadError struct {
	File   string
	Reason string
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("template %s: %s", e.File, e.Reason)
}

// parseDocument parses raw template content with YAML frontmatter.
func parseDocument(file, raw string) (*Document, error) {
	frontmatter, content := splitFrontmatter(raw)
	if frontmatter == "" {
		return nil, &LoadError{File: file, Reason: "missing frontmatter"}
	}

	var doc Document
	if err := yaml.Unmarshal([]byte(frontmatter), &doc); err != nil {
		return nil, &LoadError{File: file, Reason: fmt.Sprintf("invalid frontmatter: %v", err)}
	}
	doc.Content = strings.TrimLeft(content, "\n")

	if err := validateDocument(file, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// validateDocument enforces the load-time contract: required metadata,
// a known kind, and well-formed token syntax in both path and content.
func validateDocument(file string, doc *Document) error {
	if doc.Name == "" {
		return &LoadError{File: file, Reason: "missing name"}
	}
	if doc.Path == "" {
		return &LoadError{File: file, Reason: "missing path"}
	}
	switch doc.Kind {
	case KindCommand, KindScript, KindDoc:
	case "":
		return &LoadError{File: file, Reason: "missing kind"}
	default:
		return &LoadError{File: file, Reason: fmt.Sprintf("unknown kind %q", doc.Kind)}
	}
	if doc.Script != "" && doc.Kind != KindCommand {
		return &LoadError{File: file, Reason: "script association is only valid on commands"}
	}

	if tok, ok := malformedToken(doc.Path); ok {
		return &LoadError{File: file, Reason: fmt.Sprintf("unterminated token %q in path", tok)}
	}
	if tok, ok := malformedToken(doc.Content); ok {
		return &LoadError{File: file, Reason: fmt.Sprintf("unterminated token %q in content", tok)}
	}
	return nil
}

// malformedToken returns the first token-like opening that is not closed
// with "}}".
func malformedToken(s string) (string, bool) {
	for _, loc := range openTokenPattern.FindAllStringIndex(s, -1) {
		if !strings.HasPrefix(s[loc[1]:], "}}") {
			return s[loc[0]:loc[1]], true
		}
	}
	return "", false
}

// splitFrontmatter separates YAML frontmatter from content.
// Frontmatter is delimited by --- at the start and end.
func splitFrontmatter(raw string) (frontmatter, content string) {
	trimmed := strings.TrimLeft(raw, "\n")
	if !strings.HasPrefix(trimmed, "---") {
		return "", raw
	}

	rest := trimmed[3:] // skip opening ---
	before, after, ok := strings.Cut(rest, "\n---")
	if !ok {
		return "", raw
	}

	after = strings.TrimPrefix(after, "\n")
	return strings.TrimSpace(before), after
}
