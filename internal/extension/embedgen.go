package extension

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// EmbedGen writes a Go source file next to the built artifacts with go:embed
// declarations for each of them, so an application can compile the output
// directory in as a package of ready-to-use shader blobs.
type EmbedGen struct {
	// Package is the package name of the generated file. Defaults to "shaders".
	Package string

	files map[string]string // exported identifier -> artifact file name
}

func NewEmbedGen(pkg string) *EmbedGen {
	if pkg == "" {
		pkg = "shaders"
	}
	return &EmbedGen{Package: pkg}
}

func (g *EmbedGen) Name() string { return "embed-gen" }

func (g *EmbedGen) BeforeBuild(*BuildContext) error {
	g.files = make(map[string]string)
	return nil
}

func (g *EmbedGen) AfterModule(ctx *ModuleContext) error {
	if ctx.ArtifactPath == "" {
		return nil
	}
	ident := exportedIdent(ctx.Module.Segments())
	if prev, ok := g.files[ident]; ok {
		return fmt.Errorf("modules %s and %s map to the same identifier %s",
			prev, filepath.Base(ctx.ArtifactPath), ident)
	}
	g.files[ident] = filepath.Base(ctx.ArtifactPath)
	return nil
}

func (g *EmbedGen) AfterBuild(ctx *BuildContext) error {
	if len(g.files) == 0 {
		return nil
	}
	idents := make([]string, 0, len(g.files))
	for ident := range g.files {
		idents = append(idents, ident)
	}
	sort.Strings(idents)

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by weslbuild. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", g.Package)
	fmt.Fprintf(&b, "import _ \"embed\"\n\n")
	for _, ident := range idents {
		fmt.Fprintf(&b, "//go:embed %s\nvar %s []byte\n\n", g.files[ident], ident)
	}

	out := filepath.Join(ctx.OutputDir, "embed_gen.go")
	if err := os.WriteFile(out, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

// exportedIdent turns module segments into an exported Go identifier:
// ["sub","bar_baz"] -> "SubBarBaz".
func exportedIdent(segments []string) string {
	var b strings.Builder
	for _, seg := range segments {
		upper := true
		for _, r := range seg {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				upper = true
				continue
			}
			if upper {
				b.WriteRune(unicode.ToUpper(r))
				upper = false
			} else {
				b.WriteRune(r)
			}
		}
	}
	ident := b.String()
	if ident == "" {
		return "Shader"
	}
	if unicode.IsDigit(rune(ident[0])) {
		ident = "Shader" + ident
	}
	return ident
}
