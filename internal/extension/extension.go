// Package extension defines the pluggable hook pipeline that runs around
// shader compilation. Extensions opt into hook points by implementing the
// corresponding capability interface; hooks an extension does not implement
// are no-ops.
package extension

import (
	"fmt"

	"weslbuild/internal/compiler"
	"weslbuild/internal/diag"
	"weslbuild/internal/modpath"
)

// Extension is a pluggable unit of build behavior. The name is reported as
// the origin of errors and diagnostics the extension raises.
type Extension interface {
	Name() string
}

// BeforeBuildHook runs once before any module compiles.
type BeforeBuildHook interface {
	Extension
	BeforeBuild(ctx *BuildContext) error
}

// AfterBuildHook runs once after all modules, even when some failed.
type AfterBuildHook interface {
	Extension
	AfterBuild(ctx *BuildContext) error
}

// BeforeModuleHook runs before each module compiles.
type BeforeModuleHook interface {
	Extension
	BeforeModule(ctx *ModuleContext) error
}

// AfterModuleHook runs after each module's compile attempt.
type AfterModuleHook interface {
	Extension
	AfterModule(ctx *ModuleContext) error
}

// BuildContext is shared by the build-level hooks of one build invocation.
type BuildContext struct {
	// Root is the shader root directory.
	Root string
	// OutputDir is where compiled artifacts are written.
	OutputDir string
	// Modules lists every discovered module in walk order.
	Modules []modpath.Path
	// Diags receives extension diagnostics.
	Diags diag.Reporter
}

// ModuleContext carries one module's state through the hook pipeline. A fresh
// context is created per module and discarded once its outcome is final.
type ModuleContext struct {
	Build  *BuildContext
	Module modpath.Path
	File   string
	// Source is the text handed to the compiler. BeforeModule hooks may
	// rewrite it; later hooks and the compiler observe earlier rewrites.
	Source string
	// Artifact is the compiled output, available to AfterModule hooks.
	// Nil when compilation failed.
	Artifact *compiler.Artifact
	// ArtifactPath is the written artifact file, empty on failure.
	ArtifactPath string
	// CompileErr is the compiler failure visible to AfterModule hooks.
	CompileErr error
	// Diags receives per-module diagnostics. Appending here signals a
	// recoverable problem without stopping the build.
	Diags diag.Reporter
}

// AbortError is the signal a hook returns to stop the build before any
// further hooks or compilation run.
type AbortError struct {
	Extension string
	Reason    string
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("extension %s aborted the build: %s", e.Extension, e.Reason)
}

// Abort builds the abort signal. The pipeline fills in the extension name.
func Abort(reason string) error {
	return &AbortError{Reason: reason}
}

// PanicError is a recovered panic from an extension hook. Fatal to the build,
// never retried.
type PanicError struct {
	Extension string
	Hook      string
	Value     any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("extension %s panicked in %s: %v", e.Extension, e.Hook, e.Value)
}

// HookError wraps a non-abort error returned by an extension hook.
type HookError struct {
	Extension string
	Hook      string
	Err       error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("extension %s: %s: %v", e.Extension, e.Hook, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }
