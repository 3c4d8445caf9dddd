// Package manifest locates and parses the wesl.toml build manifest.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest discovered upward from the working directory.
const FileName = "wesl.toml"

// Config mirrors the wesl.toml structure.
type Config struct {
	Shaders    ShadersConfig    `toml:"shaders"`
	Extensions ExtensionsConfig `toml:"extensions"`
}

// ShadersConfig configures tree discovery and artifact output.
type ShadersConfig struct {
	// Root is the shader tree directory, relative to the manifest.
	Root string `toml:"root"`
	// Output is the artifact directory, relative to the manifest.
	Output string `toml:"output"`
	// Target selects the artifact format: spirv, msl, or glsl.
	Target string `toml:"target"`
}

// ExtensionsConfig toggles the builtin extensions.
type ExtensionsConfig struct {
	SizeLogger   bool   `toml:"size_logger"`
	Minify       bool   `toml:"minify"`
	EmbedGen     bool   `toml:"embed_gen"`
	EmbedPackage string `toml:"embed_package"`
}

// Manifest is a loaded wesl.toml plus its location.
type Manifest struct {
	Path   string // manifest file path
	Dir    string // directory containing the manifest
	Config Config
}

// Find walks upward from startDir looking for wesl.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest, applying defaults for unset fields.
// The bool result reports whether a manifest was found.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	applyDefaults(&cfg)
	m := &Manifest{
		Path:   path,
		Dir:    filepath.Dir(path),
		Config: cfg,
	}
	return m, true, nil
}

// RootDir returns the shader root resolved against the manifest directory.
func (m *Manifest) RootDir() string {
	return resolveAgainst(m.Dir, m.Config.Shaders.Root)
}

// OutputDir returns the artifact directory resolved against the manifest
// directory.
func (m *Manifest) OutputDir() string {
	return resolveAgainst(m.Dir, m.Config.Shaders.Output)
}

func resolveAgainst(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, filepath.FromSlash(path))
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Shaders.Root) == "" {
		cfg.Shaders.Root = "shaders"
	}
	if strings.TrimSpace(cfg.Shaders.Output) == "" {
		cfg.Shaders.Output = filepath.Join("target", "shaders")
	}
	if strings.TrimSpace(cfg.Shaders.Target) == "" {
		cfg.Shaders.Target = "spirv"
	}
	if cfg.Extensions.EmbedPackage == "" {
		cfg.Extensions.EmbedPackage = "shaders"
	}
}
