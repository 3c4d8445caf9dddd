package extension

import (
	"errors"
)

// Pipeline invokes extensions in registration order. Extensions always run
// sequentially, so later hooks observe the side effects of earlier ones; the
// order is set by how the caller registers them.
type Pipeline struct {
	exts []Extension
}

// NewPipeline builds a pipeline over the given registration order.
func NewPipeline(exts ...Extension) *Pipeline {
	return &Pipeline{exts: exts}
}

// Extensions returns the registration order.
func (p *Pipeline) Extensions() []Extension {
	return p.exts
}

// BeforeBuild runs every BeforeBuildHook in registration order. The first
// abort, panic, or hook error stops the pipeline.
func (p *Pipeline) BeforeBuild(ctx *BuildContext) error {
	for _, ext := range p.exts {
		hook, ok := ext.(BeforeBuildHook)
		if !ok {
			continue
		}
		if err := call(ext, "BeforeBuild", func() error { return hook.BeforeBuild(ctx) }); err != nil {
			return err
		}
	}
	return nil
}

// AfterBuild runs every AfterBuildHook in registration order.
func (p *Pipeline) AfterBuild(ctx *BuildContext) error {
	for _, ext := range p.exts {
		hook, ok := ext.(AfterBuildHook)
		if !ok {
			continue
		}
		if err := call(ext, "AfterBuild", func() error { return hook.AfterBuild(ctx) }); err != nil {
			return err
		}
	}
	return nil
}

// BeforeModule runs every BeforeModuleHook in registration order.
func (p *Pipeline) BeforeModule(ctx *ModuleContext) error {
	for _, ext := range p.exts {
		hook, ok := ext.(BeforeModuleHook)
		if !ok {
			continue
		}
		if err := call(ext, "BeforeModule", func() error { return hook.BeforeModule(ctx) }); err != nil {
			return err
		}
	}
	return nil
}

// AfterModule runs every AfterModuleHook in registration order.
func (p *Pipeline) AfterModule(ctx *ModuleContext) error {
	for _, ext := range p.exts {
		hook, ok := ext.(AfterModuleHook)
		if !ok {
			continue
		}
		if err := call(ext, "AfterModule", func() error { return hook.AfterModule(ctx) }); err != nil {
			return err
		}
	}
	return nil
}

func call(ext Extension, hook string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Extension: ext.Name(), Hook: hook, Value: r}
		}
	}()
	callErr := fn()
	if callErr == nil {
		return nil
	}
	var abort *AbortError
	if errors.As(callErr, &abort) {
		if abort.Extension == "" {
			abort.Extension = ext.Name()
		}
		return abort
	}
	return &HookError{Extension: ext.Name(), Hook: hook, Err: callErr}
}
