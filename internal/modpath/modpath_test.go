package modpath

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	root := filepath.FromSlash("/proj/shaders")
	tests := []struct {
		name    string
		file    string
		want    []string
		wantErr error
	}{
		{
			name: "root level file",
			file: "/proj/shaders/foo.wgsl",
			want: []string{"foo"},
		},
		{
			name: "nested file",
			file: "/proj/shaders/sub/bar.wgsl",
			want: []string{"sub", "bar"},
		},
		{
			name: "deeply nested",
			file: "/proj/shaders/a/b/c/d.wesl",
			want: []string{"a", "b", "c", "d"},
		},
		{
			name: "casing preserved",
			file: "/proj/shaders/Fx/BloomPass.wgsl",
			want: []string{"Fx", "BloomPass"},
		},
		{
			name:    "outside root",
			file:    "/proj/other/foo.wgsl",
			wantErr: ErrOutsideRoot,
		},
		{
			name:    "root itself",
			file:    "/proj/shaders",
			wantErr: ErrOutsideRoot,
		},
		{
			name:    "extension only stem",
			file:    "/proj/shaders/sub/.wgsl",
			wantErr: ErrEmptySegment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(root, filepath.FromSlash(tt.file))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if !got.Equal(New(tt.want...)) {
				t.Fatalf("Resolve() = %v, want %v", got.Segments(), tt.want)
			}
		})
	}
}

func TestResolveRoundTrip(t *testing.T) {
	// Re-deriving a path from the returned segments must reproduce the
	// original directory structure.
	root := filepath.FromSlash("/proj/shaders")
	files := []string{
		"foo.wgsl",
		"sub/bar.wgsl",
		"a/b/c/deep.wesl",
	}
	for _, rel := range files {
		file := filepath.Join(root, filepath.FromSlash(rel))
		p, err := Resolve(root, file)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", rel, err)
		}
		segments := p.Segments()
		rebuilt := filepath.Join(append([]string{root}, segments...)...)
		wantDir := filepath.Dir(file)
		if filepath.Dir(rebuilt) != wantDir {
			t.Fatalf("round trip of %s: got dir %s, want %s", rel, filepath.Dir(rebuilt), wantDir)
		}
		stem := filepath.Base(file)
		stem = stem[:len(stem)-len(filepath.Ext(stem))]
		if segments[len(segments)-1] != stem {
			t.Fatalf("round trip of %s: got stem %s, want %s", rel, segments[len(segments)-1], stem)
		}
	}
}

func TestString(t *testing.T) {
	p := New("sub", "bar")
	if got := p.String(); got != "sub::bar" {
		t.Fatalf("String() = %q, want %q", got, "sub::bar")
	}
	if got := New("foo").String(); got != "foo" {
		t.Fatalf("String() = %q, want %q", got, "foo")
	}
}

func TestMangle(t *testing.T) {
	tests := []struct {
		segments []string
		want     string
	}{
		{[]string{"foo"}, "foo"},
		{[]string{"sub", "bar"}, "sub_bar"},
		{[]string{"a_b"}, "a__b"},
		{[]string{"a", "b", "c"}, "a_b_c"},
	}
	for _, tt := range tests {
		if got := New(tt.segments...).Mangle(); got != tt.want {
			t.Errorf("Mangle(%v) = %q, want %q", tt.segments, got, tt.want)
		}
	}
	// distinct paths must mangle to distinct names
	if New("a", "b").Mangle() == New("a_b").Mangle() {
		t.Fatal("mangle collision between [a b] and [a_b]")
	}
}

func TestEqual(t *testing.T) {
	if !New("a", "b").Equal(New("a", "b")) {
		t.Fatal("equal paths reported unequal")
	}
	if New("a", "b").Equal(New("a")) {
		t.Fatal("paths of different length reported equal")
	}
	if New("a", "b").Equal(New("a", "c")) {
		t.Fatal("different paths reported equal")
	}
}
