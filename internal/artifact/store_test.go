package artifact

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"weslbuild/internal/compiler"
	"weslbuild/internal/modpath"
)

func TestStoreWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	data := []byte{0x03, 0x02, 0x23, 0x07}
	path, err := store.Write(&compiler.Artifact{
		Module: modpath.New("fx", "bloom"),
		Target: compiler.TargetSPIRV,
		Data:   data,
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if want := filepath.Join(dir, "fx_bloom.spv"); path != want {
		t.Fatalf("Write path = %s, want %s", path, want)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("artifact bytes = %v, want %v", got, data)
	}
}

func TestStoreFlushAndLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	data := []byte("compiled blob")
	if _, err := store.Write(&compiler.Artifact{
		Module: modpath.New("sky"),
		Target: compiler.TargetMSL,
		Data:   data,
	}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	manifest, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(manifest.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(manifest.Entries))
	}
	entry := manifest.Entries[0]
	if entry.Module != "sky" {
		t.Fatalf("Module = %q", entry.Module)
	}
	if entry.File != "sky.metal" {
		t.Fatalf("File = %q", entry.File)
	}
	if entry.Size != uint32(len(data)) {
		t.Fatalf("Size = %d, want %d", entry.Size, len(data))
	}
	if entry.Digest != sha256.Sum256(data) {
		t.Fatal("Digest mismatch")
	}

	// flush leaves no temp files behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "sky.metal" && e.Name() != ManifestName {
			t.Fatalf("unexpected file in store dir: %s", e.Name())
		}
	}
}

func TestLoadManifestMissing(t *testing.T) {
	_, err := LoadManifest(t.TempDir())
	if err == nil {
		t.Fatal("LoadManifest on empty dir succeeded")
	}
}

func TestLoadManifestSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	data, err := msgpack.Marshal(&Manifest{Schema: manifestSchemaVersion + 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	_, err = LoadManifest(dir)
	if !errors.Is(err, ErrManifestSchema) {
		t.Fatalf("LoadManifest error = %v, want ErrManifestSchema", err)
	}
}
