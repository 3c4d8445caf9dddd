package extension

import (
	"strings"
)

// Minifier strips comments and blank lines from shader source before
// compilation. Later extensions and the compiler observe the minified text.
// WGSL has no string literals, so comment stripping needs no quote handling.
type Minifier struct{}

func (Minifier) Name() string { return "wgsl-minifier" }

func (Minifier) BeforeModule(ctx *ModuleContext) error {
	ctx.Source = minify(ctx.Source)
	return nil
}

func minify(src string) string {
	stripped := stripComments(src)
	lines := strings.Split(stripped, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n") + "\n"
}

// stripComments removes // line comments and /* */ block comments. Block
// comments nest in WGSL, so a depth counter is required.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	depth := 0
	for i := 0; i < len(src); i++ {
		if depth > 0 {
			switch {
			case strings.HasPrefix(src[i:], "/*"):
				depth++
				i++
			case strings.HasPrefix(src[i:], "*/"):
				depth--
				i++
			case src[i] == '\n':
				// keep line structure so diagnostics still point near the
				// original location
				b.WriteByte('\n')
			}
			continue
		}
		switch {
		case strings.HasPrefix(src[i:], "//"):
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				b.WriteByte('\n')
			}
		case strings.HasPrefix(src[i:], "/*"):
			depth = 1
			i++
		default:
			b.WriteByte(src[i])
		}
	}
	return b.String()
}
