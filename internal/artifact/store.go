// Package artifact persists compiled shader outputs and a build manifest.
package artifact

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"weslbuild/internal/compiler"
)

// Current schema version - increment when the Manifest format changes.
const manifestSchemaVersion uint16 = 1

// ManifestName is the manifest file written next to the artifacts.
const ManifestName = "manifest.mp"

// ErrManifestSchema indicates a manifest written by an incompatible version.
var ErrManifestSchema = errors.New("unsupported manifest schema")

// Entry records one written artifact.
type Entry struct {
	Module string
	File   string // artifact file name relative to the store dir
	Size   uint32
	Digest [sha256.Size]byte
}

// Manifest records every artifact of one build.
type Manifest struct {
	Schema  uint16
	Entries []Entry
}

// Store writes artifacts under a single output directory using mangled
// module names, and records them for the manifest.
type Store struct {
	dir     string
	entries []Entry
}

// NewStore creates the output directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string { return s.dir }

// Write persists one artifact and records it in the manifest.
// Returns the written file path.
func (s *Store) Write(a *compiler.Artifact) (string, error) {
	name := a.Module.Mangle() + a.Target.Ext()
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, a.Data, 0o600); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}
	size, err := safecast.Conv[uint32](len(a.Data))
	if err != nil {
		return "", fmt.Errorf("artifact %s size overflow: %w", name, err)
	}
	s.entries = append(s.entries, Entry{
		Module: a.Module.String(),
		File:   name,
		Size:   size,
		Digest: sha256.Sum256(a.Data),
	})
	return path, nil
}

// Flush writes the msgpack manifest. Temp-file then rename, so an
// interrupted build never leaves a truncated manifest behind.
func (s *Store) Flush() error {
	manifest := Manifest{Schema: manifestSchemaVersion, Entries: s.entries}
	data, err := msgpack.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	f, err := os.CreateTemp(s.dir, "tmp-manifest-*")
	if err != nil {
		return fmt.Errorf("create manifest temp file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, ManifestName)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename manifest: %w", err)
	}
	return nil
}

// LoadManifest reads the build manifest from a store directory.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var manifest Manifest
	if err := msgpack.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if manifest.Schema != manifestSchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrManifestSchema, manifest.Schema, manifestSchemaVersion)
	}
	return &manifest, nil
}
