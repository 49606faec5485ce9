package compose

import (
	"fmt"
	"io/fs"
	"sort"
)

// File is one fully rendered file within a composed tree.
type File struct {
	// Path is the target path relative to the package root, always
	// forward-slash separated.
	Path string

	// Data is the rendered content, line endings already applied.
	Data []byte

	// Mode is the file mode recorded in the artifact (0755 for scripts,
	// 0644 otherwise).
	Mode fs.FileMode
}

// Tree is the materialization of the template set for one (agent, flavor)
// pair. Every path is fully resolved; no placeholder tokens remain.
type Tree struct {
	files map[string]File
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{files: make(map[string]File)}
}

// Add inserts a file, failing with ErrDuplicatePath if the path is taken.
func (t *Tree) Add(f File) error {
	if _, exists := t.files[f.Path]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, f.Path)
	}
	t.files[f.Path] = f
	return nil
}

// Files returns the tree contents sorted by path. Sorting here is what
// makes downstream packaging deterministic regardless of render order.
func (t *Tree) Files() []File {
	out := make([]File, 0, len(t.files))
	for _, f := range t.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Len returns the number of files in the tree.
func (t *Tree) Len() int {
	return len(t.files)
}
