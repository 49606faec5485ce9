// Package manifest records which artifacts were produced for a release
// version. The manifest is the authoritative record: no artifact counts as
// released unless it appears here. Writes are atomic (temp file + rename)
// and entries are sorted by (agent, flavor) so re-running a release for
// the same inputs produces a byte-identical, diffable manifest.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SchemaVersion identifies the manifest format.
const SchemaVersion = "specforge/manifest.v1"

// Artifact is one released package: identity (agent, flavor, version) plus
// the file it was serialized to and its digest.
type Artifact struct {
	Agent   string `json:"agent"`
	Flavor  string `json:"flavor"`
	Version string `json:"version"`
	File    string `json:"file"`
	Size    int64  `json:"size"`
	SHA256  string `json:"sha256"`
	Files   int    `json:"files"`
}

// Manifest is the ordered record of artifacts produced for one version.
type Manifest struct {
	Schema    string     `json:"schema"`
	Version   string     `json:"version"`
	Artifacts []Artifact `json:"artifacts"`
}

// New builds a manifest for a version, sorting artifacts by the stable
// (agent, flavor) key regardless of the order packaging finished in.
func New(version string, artifacts []Artifact) *Manifest {
	sorted := make([]Artifact, len(artifacts))
	copy(sorted, artifacts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Agent != sorted[j].Agent {
			return sorted[i].Agent < sorted[j].Agent
		}
		return sorted[i].Flavor < sorted[j].Flavor
	})
	return &Manifest{
		Schema:    SchemaVersion,
		Version:   version,
		Artifacts: sorted,
	}
}

// Path returns the manifest file path for a version under dir.
func Path(dir, version string) string {
	return filepath.Join(dir, "specforge-manifest-"+version+".json")
}

// ChecksumsPath returns the checksums file path for a version under dir.
// Versioned like the manifest, so releasing several versions into one
// output directory keeps every version's digest list.
func ChecksumsPath(dir, version string) string {
	return filepath.Join(dir, "specforge-checksums-"+version+".txt")
}

// Write commits the manifest and its checksums file to dir atomically.
// Overwrites previous files for the same version only.
func (m *Manifest) Write(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(Path(dir, m.Version), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := writeFileAtomic(ChecksumsPath(dir, m.Version), m.Checksums(), 0o644); err != nil {
		return fmt.Errorf("writing checksums: %w", err)
	}
	return nil
}

// Read loads a manifest from a file.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if m.Schema != SchemaVersion {
		return nil, fmt.Errorf("manifest %s: unsupported schema %q", path, m.Schema)
	}
	return &m, nil
}

// Checksums renders the artifact digests in the conventional
// "sha256  filename" format, one line per artifact, manifest order.
func (m *Manifest) Checksums() []byte {
	var b strings.Builder
	for _, a := range m.Artifacts {
		fmt.Fprintf(&b, "%s  %s\n", a.SHA256, a.File)
	}
	return []byte(b.String())
}

// writeFileAtomic writes data through a temp file in the same directory and
// renames it into place, so a failed write never corrupts a previous
// manifest. Rename is atomic on POSIX when source and target share a
// directory.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".specforge-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
