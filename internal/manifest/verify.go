package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/specforge/specforge/internal/archive"
)

// VerifyIssue is one discrepancy between the manifest and the artifacts
// on disk.
type VerifyIssue struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Verify re-hashes every artifact the manifest lists against the files in
// dir. A missing file, size mismatch, or digest mismatch each produce an
// issue; an empty result means the release on disk is exactly what the
// manifest committed.
func Verify(dir string, m *Manifest) ([]VerifyIssue, error) {
	var issues []VerifyIssue
	for _, a := range m.Artifacts {
		path := filepath.Join(dir, a.File)

		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				issues = append(issues, VerifyIssue{File: a.File, Reason: "missing"})
				continue
			}
			return nil, fmt.Errorf("stating %s: %w", path, err)
		}
		if info.Size() != a.Size {
			issues = append(issues, VerifyIssue{
				File:   a.File,
				Reason: fmt.Sprintf("size %d, manifest records %d", info.Size(), a.Size),
			})
			continue
		}

		digest, err := archive.HashFile(path)
		if err != nil {
			return nil, err
		}
		if digest != a.SHA256 {
			issues = append(issues, VerifyIssue{File: a.File, Reason: "sha256 mismatch"})
		}
	}
	return issues, nil
}
