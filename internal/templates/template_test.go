package templates

import (
	"errors"
	"strings"
	"testing"
)

func TestParseDocument(t *testing.T) {
	raw := `---
name: specify
description: Create a spec.
kind: command
path: "{{COMMAND_DIR}}/{{COMMAND_FILE}}"
script: create-new-feature
---
Use {{PREFIX}}specify with {{ARGS}}.
`
	doc, err := parseDocument("specify.tmpl", raw)
	if err != nil {
		t.Fatalf("parseDocument() error = %v", err)
	}
	if doc.Name != "specify" || doc.Kind != KindCommand {
		t.Errorf("doc = %+v", doc)
	}
	if doc.Script != "create-new-feature" {
		t.Errorf("script = %q", doc.Script)
	}
	if !strings.HasPrefix(doc.Content, "Use {{PREFIX}}specify") {
		t.Errorf("content = %q", doc.Content)
	}
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantSub string
	}{
		{
			name:    "no frontmatter",
			raw:     "just content",
			wantSub: "missing frontmatter",
		},
		{
			name: "missing name",
			raw: `---
kind: command
path: "x"
---
body`,
			wantSub: "missing name",
		},
		{
			name: "missing path",
			raw: `---
name: x
kind: command
---
body`,
			wantSub: "missing path",
		},
		{
			name: "unknown kind",
			raw: `---
name: x
kind: gizmo
path: "x"
---
body`,
			wantSub: "unknown kind",
		},
		{
			name: "script on non-command",
			raw: `---
name: x
kind: doc
path: "x"
script: helper
---
body`,
			wantSub: "only valid on commands",
		},
		{
			name: "unterminated token in content",
			raw: `---
name: x
kind: doc
path: "x"
---
Broken {{TOKEN here`,
			wantSub: "unterminated token",
		},
		{
			name: "unterminated token in path",
			raw: `---
name: x
kind: doc
path: "{{COMMAND_DIR/x.md"
---
body`,
			wantSub: "unterminated token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDocument("test.tmpl", tt.raw)
			if err == nil {
				t.Fatal("parseDocument() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantSub)
			}
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Errorf("error type = %T, want *LoadError", err)
			}
		})
	}
}

func TestLowercaseBracesPassValidation(t *testing.T) {
	raw := `---
name: gemini-style
kind: doc
path: "x.md"
---
Gemini substitutes {{args}} itself.`

	doc, err := parseDocument("g.tmpl", raw)
	if err != nil {
		t.Fatalf("parseDocument() error = %v", err)
	}
	if !strings.Contains(doc.Content, "{{args}}") {
		t.Errorf("content = %q", doc.Content)
	}
}

func TestAppliesTo(t *testing.T) {
	all := &Document{}
	if !all.AppliesTo("posix") || !all.AppliesTo("powershell") {
		t.Error("empty allow-list should apply to every flavor")
	}

	posixOnly := &Document{Flavors: []string{"posix"}}
	if !posixOnly.AppliesTo("posix") {
		t.Error("AppliesTo(posix) = false")
	}
	if posixOnly.AppliesTo("powershell") {
		t.Error("AppliesTo(powershell) = true")
	}
}
