// Package archive serializes composed trees into deterministic zip
// artifacts. Entry order, timestamps, and modes are fixed so that packaging
// the same tree for the same version twice yields byte-identical archives
// and reproducible checksums.
package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/specforge/specforge/internal/compose"
)

// epoch is the fixed modification time stamped on every archive entry.
// Zip cannot omit timestamps, so determinism requires pinning one.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// WriteTree writes the tree as a zip archive to w. Entries are emitted in
// the tree's sorted path order with fixed metadata.
func WriteTree(w io.Writer, tree *compose.Tree) error {
	zw := zip.NewWriter(w)

	for _, f := range tree.Files() {
		hdr := &zip.FileHeader{
			Name:     f.Path,
			Method:   zip.Deflate,
			Modified: epoch,
		}
		hdr.SetMode(f.Mode)

		entry, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("creating entry %s: %w", f.Path, err)
		}
		if _, err := entry.Write(f.Data); err != nil {
			return fmt.Errorf("writing entry %s: %w", f.Path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

// WriteFile packages the tree into a zip file at path, writing through a
// temporary .partial name and renaming only on success. A cancelled or
// failed run never leaves a final-named artifact behind. Returns the
// artifact's size and SHA-256 digest.
func WriteFile(path string, tree *compose.Tree) (size int64, digest string, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp := path + ".partial"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, "", fmt.Errorf("creating %s: %w", tmp, err)
	}

	// Hash while writing so verification never re-reads the artifact.
	h := sha256.New()
	writeErr := WriteTree(io.MultiWriter(f, h), tree)
	closeErr := f.Close()

	if writeErr != nil || closeErr != nil {
		_ = os.Remove(tmp)
		if writeErr != nil {
			return 0, "", writeErr
		}
		return 0, "", fmt.Errorf("closing %s: %w", tmp, closeErr)
	}

	info, err := os.Stat(tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return 0, "", fmt.Errorf("stating %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return 0, "", fmt.Errorf("renaming %s: %w", tmp, err)
	}

	return info.Size(), hex.EncodeToString(h.Sum(nil)), nil
}

// HashFile returns the SHA-256 digest of an existing file, for verifying
// released artifacts against the manifest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
