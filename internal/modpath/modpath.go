// Package modpath maps filesystem locations beneath a shader root onto
// hierarchical module paths used by the compiler to resolve imports.
package modpath

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrOutsideRoot indicates a file that does not live under the shader root.
	ErrOutsideRoot = errors.New("path outside shader root")
	// ErrEmptySegment indicates an empty namespace segment in a module path.
	ErrEmptySegment = errors.New("empty module path segment")
)

// Path is a module identifier derived from the directory structure under the
// shader root. Each directory contributes one segment; the final segment is
// the file stem. A root-level file has a single segment.
type Path struct {
	segments []string
}

// New builds a Path from explicit segments.
func New(segments ...string) Path {
	copied := make([]string, len(segments))
	copy(copied, segments)
	return Path{segments: copied}
}

// Resolve maps a file path beneath root to its module Path. The root prefix
// is stripped, each remaining directory becomes a segment, and the file
// extension is dropped from the final segment. Segment casing is preserved.
// Both arguments are expected to be cleaned by the caller; no `.`/`..`
// normalization happens here beyond computing the root-relative path.
func Resolve(root, file string) (Path, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return Path{}, fmt.Errorf("%w: %s not under %s", ErrOutsideRoot, file, root)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return Path{}, fmt.Errorf("%w: %s not under %s", ErrOutsideRoot, file, root)
	}
	segments := strings.Split(rel, "/")
	last := segments[len(segments)-1]
	segments[len(segments)-1] = strings.TrimSuffix(last, filepath.Ext(last))
	for _, seg := range segments {
		if seg == "" {
			return Path{}, fmt.Errorf("%w in %q", ErrEmptySegment, rel)
		}
	}
	return Path{segments: segments}, nil
}

// Segments returns a copy of the namespace segments.
func (p Path) Segments() []string {
	copied := make([]string, len(p.segments))
	copy(copied, p.segments)
	return copied
}

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segments) }

// IsZero reports whether the path has no segments.
func (p Path) IsZero() bool { return len(p.segments) == 0 }

// String renders the path with `::` separators, e.g. "sub::bar".
func (p Path) String() string {
	return strings.Join(p.segments, "::")
}

// Mangle renders a flat, filesystem-safe name for artifact files. Segment
// underscores are doubled so distinct paths never collide after mangling.
func (p Path) Mangle() string {
	escaped := make([]string, len(p.segments))
	for i, seg := range p.segments {
		escaped[i] = strings.ReplaceAll(seg, "_", "__")
	}
	return strings.Join(escaped, "_")
}

// Equal reports whether two paths have identical segments.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		if other.segments[i] != seg {
			return false
		}
	}
	return true
}
