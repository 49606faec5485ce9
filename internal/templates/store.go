package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed kit
var builtinFS embed.FS

// Store is the canonical template set for one invocation. Read-only after
// load; safe to share across composer workers.
type Store struct {
	docs []Document
}

// LoadBuiltin loads the embedded template kit.
func LoadBuiltin() (*Store, error) {
	var docs []Document
	err := fs.WalkDir(builtinFS, "kit", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}
		data, err := builtinFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading builtin template %s: %w", path, err)
		}
		doc, err := parseDocument(path, string(data))
		if err != nil {
			return err
		}
		doc.Source = "built-in"
		docs = append(docs, *doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewStore(docs)
}

// Load loads the embedded kit and applies overlays from dir, if set.
// An overlay document with the same name as a built-in replaces it; new
// names are appended. Resolution order mirrors the config overlay model:
// user templates win over builtins.
func Load(dir string) (*Store, error) {
	store, err := LoadBuiltin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return store, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("reading template overlay %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading template overlay %s: %w", path, err)
		}
		doc, err := parseDocument(path, string(data))
		if err != nil {
			return nil, err
		}
		doc.Source = path
		store.upsert(*doc)
	}

	return store, store.checkNames()
}

// NewStore builds a store from already-parsed documents, rejecting
// duplicate names. Used by Load and by callers assembling synthetic sets.
func NewStore(docs []Document) (*Store, error) {
	s := &Store{docs: docs}
	if err := s.checkNames(); err != nil {
		return nil, err
	}
	return s, nil
}

// docKey identifies a document within the set. The flavor allow-list is
// part of the identity: a posix and a powershell rendition of the same
// script legitimately share a name.
func docKey(d *Document) string {
	return d.Kind + "/" + d.Name + "@" + strings.Join(d.Flavors, ",")
}

// upsert replaces a document by key or appends it.
func (s *Store) upsert(doc Document) {
	key := docKey(&doc)
	for i := range s.docs {
		if docKey(&s.docs[i]) == key {
			s.docs[i] = doc
			return
		}
	}
	s.docs = append(s.docs, doc)
}

// checkNames rejects duplicate documents within the set.
func (s *Store) checkNames() error {
	seen := make(map[string]string, len(s.docs))
	for _, d := range s.docs {
		key := docKey(&d)
		if prev, dup := seen[key]; dup {
			return &LoadError{
				File:   d.Source,
				Reason: fmt.Sprintf("duplicate %s template %q (already defined in %s)", d.Kind, d.Name, prev),
			}
		}
		seen[key] = d.Source
	}
	return nil
}

// Documents returns the template set sorted by (kind, name) for stable
// listings. Rendering order does not matter; listing order should.
func (s *Store) Documents() []Document {
	out := make([]Document, len(s.docs))
	copy(out, s.docs)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of documents in the store.
func (s *Store) Len() int {
	return len(s.docs)
}
