// Package compiler defines the external shader compiler contract consumed by
// the build pipeline, plus the naga-backed implementation.
package compiler

import (
	"fmt"

	"weslbuild/internal/modpath"
	"weslbuild/internal/source"
)

// Target selects the artifact format emitted for each module.
type Target string

const (
	// TargetSPIRV emits SPIR-V binaries for Vulkan.
	TargetSPIRV Target = "spirv"
	// TargetMSL emits Metal Shading Language source.
	TargetMSL Target = "msl"
	// TargetGLSL emits OpenGL Shading Language source.
	TargetGLSL Target = "glsl"
)

// Ext returns the artifact file extension for the target.
func (t Target) Ext() string {
	switch t {
	case TargetSPIRV:
		return ".spv"
	case TargetMSL:
		return ".metal"
	case TargetGLSL:
		return ".glsl"
	}
	return ".bin"
}

// Artifact is the compiled output of one module.
type Artifact struct {
	Module modpath.Path
	Target Target
	Data   []byte
}

// Resolver provides sibling module sources so a compiler can resolve
// intra-tree imports. Implementations are supplied by the build pipeline
// from the walked tree.
type Resolver interface {
	Resolve(path modpath.Path) (text string, ok bool)
}

// Compiler compiles one module from its source text and module path. A
// compiler is invoked exactly once per module; the pipeline does not retry.
type Compiler interface {
	Compile(unit *source.Unit, res Resolver) (*Artifact, error)
}

// ModuleError carries the external compiler's diagnostic for one module. The
// underlying error is wrapped verbatim, never re-parsed.
type ModuleError struct {
	Module modpath.Path
	File   string
	Err    error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("compile %s (%s): %v", e.Module, e.File, e.Err)
}

func (e *ModuleError) Unwrap() error { return e.Err }
