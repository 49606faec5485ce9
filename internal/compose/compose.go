package compose

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/specforge/specforge/internal/registry"
	"github.com/specforge/specforge/internal/templates"
)

// File modes recorded in composed trees.
const (
	modeScript fs.FileMode = 0o755
	modeFile   fs.FileMode = 0o644
)

// Pair couples an agent profile with one of its script flavors. One pair
// yields one composed tree and one release artifact.
type Pair struct {
	Agent  registry.AgentProfile
	Flavor registry.ScriptFlavor
}

// Key returns the pair's stable identity, used for artifact naming and
// manifest ordering.
func (p Pair) Key() string {
	return p.Agent.ID + "/" + p.Flavor.ID
}

// Render materializes the template store for one pair. Rendering is pure:
// same store, pair, and version always yield the same tree. Any failure is
// returned as a *PairError and aborts only this pair.
func Render(store *templates.Store, pair Pair, version string) (*Tree, error) {
	base, err := baseTokens(pair, version)
	if err != nil {
		return nil, &PairError{AgentID: pair.Agent.ID, FlavorID: pair.Flavor.ID, Err: err}
	}

	tree := NewTree()
	for _, doc := range store.Documents() {
		if !doc.AppliesTo(pair.Flavor.ID) {
			continue
		}
		if err := renderDocument(tree, &doc, pair, base); err != nil {
			return nil, &PairError{
				AgentID:  pair.Agent.ID,
				FlavorID: pair.Flavor.ID,
				Document: doc.Name,
				Err:      err,
			}
		}
	}
	return tree, nil
}

// renderDocument renders one template document into the tree.
func renderDocument(tree *Tree, doc *templates.Document, pair Pair, base map[string]string) error {
	tokens := make(map[string]string, len(base)+3)
	for k, v := range base {
		tokens[k] = v
	}
	tokens["NAME"] = doc.Name

	if doc.Kind == templates.KindCommand {
		file, err := substitute(pair.Agent.CommandFile, tokens)
		if err != nil {
			return fmt.Errorf("command file pattern: %w", err)
		}
		tokens["COMMAND_FILE"] = file
	}
	if doc.Script != "" {
		tokens["SCRIPT"] = invocationFor(pair, base, doc.Script)
	}

	target, err := substitute(doc.Path, tokens)
	if err != nil {
		return fmt.Errorf("target path: %w", err)
	}
	target = path.Clean(target)
	if target == "." || strings.HasPrefix(target, "../") || path.IsAbs(target) {
		return fmt.Errorf("target path %q escapes the package root", target)
	}

	content, err := substitute(doc.Content, tokens)
	if err != nil {
		return err
	}

	mode := modeFile
	if doc.Kind == templates.KindScript {
		mode = modeScript
		content = applyLineEnding(content, pair.Flavor.EOL())
	}

	return tree.Add(File{Path: target, Data: []byte(content), Mode: mode})
}

// baseTokens builds the substitution map shared by every document of a
// pair. Profile-supplied tokens come first so the built-in vocabulary
// cannot be shadowed by registry data.
func baseTokens(pair Pair, version string) (map[string]string, error) {
	tokens := make(map[string]string, len(pair.Agent.Tokens)+9)
	for k, v := range pair.Agent.Tokens {
		tokens[k] = v
	}
	tokens["AGENT"] = pair.Agent.ID
	tokens["AGENT_NAME"] = pair.Agent.Name
	tokens["PREFIX"] = pair.Agent.Prefix
	tokens["ARGS"] = pair.Agent.Args
	tokens["FLAVOR"] = pair.Flavor.ID
	tokens["SCRIPT_EXT"] = pair.Flavor.Extension
	tokens["VERSION"] = version

	// SCRIPT_DIR and COMMAND_DIR are themselves patterns (they may
	// reference flavor tokens), so resolve them before documents render.
	scriptDir, err := substitute(pair.Agent.ScriptDir, tokens)
	if err != nil {
		return nil, fmt.Errorf("script dir pattern: %w", err)
	}
	tokens["SCRIPT_DIR"] = scriptDir

	commandDir, err := substitute(pair.Agent.CommandDir, tokens)
	if err != nil {
		return nil, fmt.Errorf("command dir pattern: %w", err)
	}
	tokens["COMMAND_DIR"] = commandDir

	return tokens, nil
}

// invocationFor renders the flavor's invocation pattern for a helper script.
func invocationFor(pair Pair, base map[string]string, script string) string {
	tokens := make(map[string]string, len(base)+1)
	for k, v := range base {
		tokens[k] = v
	}
	tokens["NAME"] = script
	// The invocation pattern is validated with the flavor registry; a
	// residual token here surfaces through the document's own check.
	return expand(pair.Flavor.Invocation, tokens)
}

// expand replaces every known {{TOKEN}} occurrence in a single left-to-right
// pass. Substituted values are inserted literally and never re-scanned, so
// the result depends only on the input and the token map, not on map
// iteration order. Unknown tokens are left in place for the caller.
func expand(s string, tokens map[string]string) string {
	return templates.TokenPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := tokens[match[2:len(match)-2]]; ok {
			return val
		}
		return match
	})
}

// substitute expands s and fails on residual uppercase tokens, including
// token syntax that a substituted value carried in. Token values are
// literals; they never expand further. Lowercase brace text passes through
// untouched.
func substitute(s string, tokens map[string]string) (string, error) {
	s = expand(s, tokens)
	if residual := templates.TokenPattern.FindString(s); residual != "" {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedToken, residual)
	}
	return s, nil
}

// applyLineEnding normalizes content to LF and then applies the flavor's
// terminator. Templates are authored with LF.
func applyLineEnding(content, eol string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if eol == "\n" {
		return content
	}
	return strings.ReplaceAll(content, "\n", eol)
}
