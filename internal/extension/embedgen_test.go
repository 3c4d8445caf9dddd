package extension

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weslbuild/internal/modpath"
)

func TestExportedIdent(t *testing.T) {
	tests := []struct {
		segments []string
		want     string
	}{
		{[]string{"foo"}, "Foo"},
		{[]string{"sub", "bar"}, "SubBar"},
		{[]string{"sub", "bar_baz"}, "SubBarBaz"},
		{[]string{"fx", "bloom-pass"}, "FxBloomPass"},
		{[]string{"2d", "circle"}, "Shader2dCircle"},
		{[]string{"__"}, "Shader"},
	}
	for _, tt := range tests {
		if got := exportedIdent(tt.segments); got != tt.want {
			t.Errorf("exportedIdent(%v) = %q, want %q", tt.segments, got, tt.want)
		}
	}
}

func TestEmbedGenWritesFile(t *testing.T) {
	out := t.TempDir()
	gen := NewEmbedGen("")
	bctx := &BuildContext{OutputDir: out}
	if err := gen.BeforeBuild(bctx); err != nil {
		t.Fatalf("BeforeBuild: %v", err)
	}

	record := func(mod modpath.Path, artifact string) {
		t.Helper()
		ctx := &ModuleContext{
			Build:        bctx,
			Module:       mod,
			ArtifactPath: filepath.Join(out, artifact),
		}
		if err := gen.AfterModule(ctx); err != nil {
			t.Fatalf("AfterModule %s: %v", mod, err)
		}
	}
	record(modpath.New("fx", "bloom"), "fx_bloom.spv")
	record(modpath.New("sky"), "sky.spv")

	// failed modules have no artifact and must be skipped
	if err := gen.AfterModule(&ModuleContext{Build: bctx, Module: modpath.New("broken")}); err != nil {
		t.Fatalf("AfterModule without artifact: %v", err)
	}

	if err := gen.AfterBuild(bctx); err != nil {
		t.Fatalf("AfterBuild: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "embed_gen.go"))
	if err != nil {
		t.Fatalf("read generated file: %v", err)
	}
	got := string(data)
	for _, want := range []string{
		"// Code generated by weslbuild. DO NOT EDIT.",
		"package shaders",
		`import _ "embed"`,
		"//go:embed fx_bloom.spv\nvar FxBloom []byte",
		"//go:embed sky.spv\nvar Sky []byte",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("generated file missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Broken") {
		t.Fatalf("failed module leaked into generated file:\n%s", got)
	}
	// declarations are sorted by identifier
	if strings.Index(got, "FxBloom") > strings.Index(got, "Sky") {
		t.Fatalf("declarations out of order:\n%s", got)
	}
}

func TestEmbedGenIdentCollision(t *testing.T) {
	gen := NewEmbedGen("gpu")
	bctx := &BuildContext{OutputDir: t.TempDir()}
	if err := gen.BeforeBuild(bctx); err != nil {
		t.Fatalf("BeforeBuild: %v", err)
	}
	first := &ModuleContext{Build: bctx, Module: modpath.New("fx", "bloom"), ArtifactPath: "fx_bloom.spv"}
	if err := gen.AfterModule(first); err != nil {
		t.Fatalf("AfterModule: %v", err)
	}
	// fx::bloom and fx_bloom collapse to the same identifier
	second := &ModuleContext{Build: bctx, Module: modpath.New("fx_bloom"), ArtifactPath: "fx__bloom.spv"}
	if err := gen.AfterModule(second); err == nil {
		t.Fatal("identifier collision not reported")
	}
}

func TestEmbedGenNoArtifacts(t *testing.T) {
	out := t.TempDir()
	gen := NewEmbedGen("shaders")
	bctx := &BuildContext{OutputDir: out}
	if err := gen.BeforeBuild(bctx); err != nil {
		t.Fatalf("BeforeBuild: %v", err)
	}
	if err := gen.AfterBuild(bctx); err != nil {
		t.Fatalf("AfterBuild: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "embed_gen.go")); !os.IsNotExist(err) {
		t.Fatal("embed file written for an empty build")
	}
}
