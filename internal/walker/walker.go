// Package walker discovers shader source files beneath a root directory and
// pairs each with its resolved module path.
package walker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"weslbuild/internal/modpath"
	"weslbuild/internal/source"
)

// Exts lists the recognized shader source extensions.
var Exts = []string{".wgsl", ".wesl"}

var (
	// ErrSymlinkCycle indicates a symlinked directory resolving back into an
	// already-visited directory. A cycle fails the whole walk; silently
	// skipping it would either hang the build or hide part of the tree.
	ErrSymlinkCycle = errors.New("symlink cycle")
	// ErrDuplicateModule indicates two files resolving to the same module
	// path, e.g. foo.wgsl next to foo.wesl.
	ErrDuplicateModule = errors.New("duplicate module path")
)

// WalkFunc receives each discovered unit. Returning an error stops the walk.
type WalkFunc func(unit source.Unit) error

// Walk traverses root depth-first and calls fn for every recognized shader
// file with the unit's Text unset. Entries within a directory are visited in
// name order, so two walks over an unchanged tree yield identical sequences.
// Directory read errors fail the walk: a partial shader set would be silently
// incomplete.
func Walk(root string, fn WalkFunc) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve shader root %q: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return fmt.Errorf("stat shader root %q: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("shader root %q is not a directory", root)
	}
	w := &walker{
		root:    absRoot,
		visited: make(map[string]string),
		seen:    make(map[string]string),
		fn:      fn,
	}
	canon, err := canonical(absRoot)
	if err != nil {
		return err
	}
	w.visited[canon] = absRoot
	return w.walkDir(absRoot)
}

// Collect runs Walk and returns the discovered units in walk order.
func Collect(root string) ([]source.Unit, error) {
	var units []source.Unit
	err := Walk(root, func(unit source.Unit) error {
		units = append(units, unit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return units, nil
}

type walker struct {
	root string
	// visited maps canonical directory paths to the path first seen under,
	// so a symlink pointing back into the tree is caught before recursing.
	visited map[string]string
	// seen maps rendered module paths to their source file for fail-fast
	// collision detection.
	seen map[string]string
	fn   WalkFunc
}

func (w *walker) walkDir(dir string) error {
	// os.ReadDir returns entries sorted by name, which fixes the traversal
	// order the pipeline depends on for reproducible logs.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read shader dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			target, statErr := os.Stat(path)
			if statErr != nil {
				return fmt.Errorf("stat %s: %w", path, statErr)
			}
			isDir = target.IsDir()
		}
		if isDir {
			canon, canonErr := canonical(path)
			if canonErr != nil {
				return canonErr
			}
			if prev, ok := w.visited[canon]; ok {
				return fmt.Errorf("%w: %s resolves to already-visited %s", ErrSymlinkCycle, path, prev)
			}
			w.visited[canon] = path
			if err := w.walkDir(path); err != nil {
				return err
			}
			continue
		}
		if !Recognized(entry.Name()) {
			continue
		}
		mod, resolveErr := modpath.Resolve(w.root, path)
		if resolveErr != nil {
			return resolveErr
		}
		if prev, ok := w.seen[mod.String()]; ok {
			return fmt.Errorf("%w %s: %s and %s", ErrDuplicateModule, mod, prev, path)
		}
		w.seen[mod.String()] = path
		if err := w.fn(source.Unit{Module: mod, File: path}); err != nil {
			return err
		}
	}
	return nil
}

// Recognized reports whether the file name carries a shader source extension.
func Recognized(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

func canonical(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("resolve symlinks for %s: %w", path, err)
	}
	return resolved, nil
}
