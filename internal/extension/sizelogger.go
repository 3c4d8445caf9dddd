package extension

import (
	"weslbuild/internal/diag"
	"weslbuild/internal/modpath"
)

// SizeLogger reports compiled artifact sizes through the build diagnostics:
// one entry per module and a total after the build.
type SizeLogger struct {
	total uint64
	count int
}

func NewSizeLogger() *SizeLogger { return &SizeLogger{} }

func (l *SizeLogger) Name() string { return "size-logger" }

func (l *SizeLogger) BeforeBuild(*BuildContext) error {
	l.total = 0
	l.count = 0
	return nil
}

func (l *SizeLogger) AfterModule(ctx *ModuleContext) error {
	if ctx.Artifact == nil {
		return nil
	}
	size := uint64(len(ctx.Artifact.Data))
	l.total += size
	l.count++
	diag.Infof(ctx.Diags, diag.ExtNote, ctx.Module, "artifact size: %d bytes", size)
	return nil
}

func (l *SizeLogger) AfterBuild(ctx *BuildContext) error {
	diag.Infof(ctx.Diags, diag.ExtNote, modpath.Path{}, "%d shaders compiled, %d bytes total", l.count, l.total)
	return nil
}
