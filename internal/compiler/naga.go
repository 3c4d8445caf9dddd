package compiler

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"

	"weslbuild/internal/source"
)

// Options configures the naga compiler adapter.
type Options struct {
	Target Target
	// Debug enables debug info in the emitted artifact (SPIR-V OpName etc.).
	Debug bool
	// Validate runs IR validation before code generation.
	Validate bool
}

// DefaultOptions compiles to SPIR-V with validation enabled.
func DefaultOptions() Options {
	return Options{Target: TargetSPIRV, Validate: true}
}

// Naga compiles WGSL/WESL modules with the github.com/gogpu/naga toolchain.
type Naga struct {
	opts Options
}

// NewNaga returns a Compiler backed by naga.
func NewNaga(opts Options) *Naga {
	if opts.Target == "" {
		opts.Target = TargetSPIRV
	}
	return &Naga{opts: opts}
}

// Compile parses, lowers, validates, and emits one module. The resolver is
// accepted per the collaborator contract; WGSL sources are self-contained, so
// naga compiles each unit standalone and does not consult it.
func (c *Naga) Compile(unit *source.Unit, _ Resolver) (*Artifact, error) {
	ast, err := naga.Parse(unit.Text)
	if err != nil {
		return nil, c.fail(unit, err)
	}
	module, err := naga.LowerWithSource(ast, unit.Text)
	if err != nil {
		return nil, c.fail(unit, err)
	}
	if c.opts.Validate {
		validationErrors, verr := naga.Validate(module)
		if verr != nil {
			return nil, c.fail(unit, verr)
		}
		if len(validationErrors) > 0 {
			return nil, c.fail(unit, fmt.Errorf("validation failed: %w", &validationErrors[0]))
		}
	}

	var data []byte
	switch c.opts.Target {
	case TargetSPIRV:
		data, err = naga.GenerateSPIRV(module, spirv.Options{
			Version: spirv.Version1_3,
			Debug:   c.opts.Debug,
		})
	case TargetMSL:
		var code string
		code, _, err = msl.Compile(module, msl.DefaultOptions())
		data = []byte(code)
	case TargetGLSL:
		var code string
		code, _, err = glsl.Compile(module, glsl.DefaultOptions())
		data = []byte(code)
	default:
		return nil, fmt.Errorf("unsupported target: %s", c.opts.Target)
	}
	if err != nil {
		return nil, c.fail(unit, err)
	}
	return &Artifact{Module: unit.Module, Target: c.opts.Target, Data: data}, nil
}

func (c *Naga) fail(unit *source.Unit, err error) *ModuleError {
	return &ModuleError{Module: unit.Module, File: unit.File, Err: err}
}
