package extension

import (
	"errors"
	"fmt"
	"testing"
)

// recordingExt implements every hook and appends a trace entry per call.
type recordingExt struct {
	name  string
	trace *[]string
	fail  map[string]error
}

func (e *recordingExt) Name() string { return e.name }

func (e *recordingExt) hook(name string) error {
	*e.trace = append(*e.trace, e.name+"."+name)
	if e.fail != nil {
		return e.fail[name]
	}
	return nil
}

func (e *recordingExt) BeforeBuild(*BuildContext) error   { return e.hook("BeforeBuild") }
func (e *recordingExt) AfterBuild(*BuildContext) error    { return e.hook("AfterBuild") }
func (e *recordingExt) BeforeModule(*ModuleContext) error { return e.hook("BeforeModule") }
func (e *recordingExt) AfterModule(*ModuleContext) error  { return e.hook("AfterModule") }

// buildOnlyExt implements only the build-level hooks.
type buildOnlyExt struct {
	name  string
	trace *[]string
}

func (e *buildOnlyExt) Name() string { return e.name }

func (e *buildOnlyExt) BeforeBuild(*BuildContext) error {
	*e.trace = append(*e.trace, e.name+".BeforeBuild")
	return nil
}

func (e *buildOnlyExt) AfterBuild(*BuildContext) error {
	*e.trace = append(*e.trace, e.name+".AfterBuild")
	return nil
}

func wantTrace(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("trace = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trace = %v, want %v", got, want)
		}
	}
}

func TestPipelineOrder(t *testing.T) {
	var trace []string
	first := &recordingExt{name: "first", trace: &trace}
	second := &recordingExt{name: "second", trace: &trace}
	p := NewPipeline(first, second)

	bctx := &BuildContext{}
	mctx := &ModuleContext{Build: bctx}
	if err := p.BeforeBuild(bctx); err != nil {
		t.Fatalf("BeforeBuild: %v", err)
	}
	if err := p.BeforeModule(mctx); err != nil {
		t.Fatalf("BeforeModule: %v", err)
	}
	if err := p.AfterModule(mctx); err != nil {
		t.Fatalf("AfterModule: %v", err)
	}
	if err := p.AfterBuild(bctx); err != nil {
		t.Fatalf("AfterBuild: %v", err)
	}
	wantTrace(t, trace,
		"first.BeforeBuild", "second.BeforeBuild",
		"first.BeforeModule", "second.BeforeModule",
		"first.AfterModule", "second.AfterModule",
		"first.AfterBuild", "second.AfterBuild",
	)
}

func TestPipelineReversedRegistration(t *testing.T) {
	var trace []string
	first := &recordingExt{name: "first", trace: &trace}
	second := &recordingExt{name: "second", trace: &trace}
	p := NewPipeline(second, first)

	if err := p.BeforeModule(&ModuleContext{}); err != nil {
		t.Fatalf("BeforeModule: %v", err)
	}
	wantTrace(t, trace, "second.BeforeModule", "first.BeforeModule")
}

func TestPipelineCapabilitySubset(t *testing.T) {
	var trace []string
	full := &recordingExt{name: "full", trace: &trace}
	partial := &buildOnlyExt{name: "partial", trace: &trace}
	p := NewPipeline(partial, full)

	if err := p.BeforeBuild(&BuildContext{}); err != nil {
		t.Fatalf("BeforeBuild: %v", err)
	}
	if err := p.BeforeModule(&ModuleContext{}); err != nil {
		t.Fatalf("BeforeModule: %v", err)
	}
	wantTrace(t, trace,
		"partial.BeforeBuild", "full.BeforeBuild",
		"full.BeforeModule",
	)
}

func TestPipelineAbort(t *testing.T) {
	var trace []string
	aborter := &recordingExt{
		name:  "aborter",
		trace: &trace,
		fail:  map[string]error{"BeforeBuild": Abort("nothing to do")},
	}
	after := &recordingExt{name: "after", trace: &trace}
	p := NewPipeline(aborter, after)

	err := p.BeforeBuild(&BuildContext{})
	var abort *AbortError
	if !errors.As(err, &abort) {
		t.Fatalf("BeforeBuild error = %v, want AbortError", err)
	}
	if abort.Extension != "aborter" {
		t.Fatalf("abort attributed to %q, want aborter", abort.Extension)
	}
	if abort.Reason != "nothing to do" {
		t.Fatalf("abort reason = %q", abort.Reason)
	}
	// the extension after the aborter must not run
	wantTrace(t, trace, "aborter.BeforeBuild")
}

func TestPipelineHookError(t *testing.T) {
	var trace []string
	cause := errors.New("disk full")
	failing := &recordingExt{
		name:  "failing",
		trace: &trace,
		fail:  map[string]error{"AfterModule": cause},
	}
	p := NewPipeline(failing)

	err := p.AfterModule(&ModuleContext{})
	var hookErr *HookError
	if !errors.As(err, &hookErr) {
		t.Fatalf("AfterModule error = %v, want HookError", err)
	}
	if hookErr.Extension != "failing" || hookErr.Hook != "AfterModule" {
		t.Fatalf("unexpected attribution: %+v", hookErr)
	}
	if !errors.Is(err, cause) {
		t.Fatal("HookError does not unwrap to the cause")
	}
}

type panickingExt struct{}

func (panickingExt) Name() string { return "panicker" }

func (panickingExt) BeforeModule(*ModuleContext) error {
	panic("index out of range")
}

func TestPipelinePanicRecovered(t *testing.T) {
	p := NewPipeline(panickingExt{})
	err := p.BeforeModule(&ModuleContext{})
	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("BeforeModule error = %v, want PanicError", err)
	}
	if panicErr.Extension != "panicker" || panicErr.Hook != "BeforeModule" {
		t.Fatalf("unexpected attribution: %+v", panicErr)
	}
	if fmt.Sprint(panicErr.Value) != "index out of range" {
		t.Fatalf("panic value = %v", panicErr.Value)
	}
}

type rewriteExt struct {
	name   string
	suffix string
}

func (e rewriteExt) Name() string { return e.name }

func (e rewriteExt) BeforeModule(ctx *ModuleContext) error {
	ctx.Source += e.suffix
	return nil
}

func TestPipelineSourceRewritesChain(t *testing.T) {
	p := NewPipeline(rewriteExt{name: "a", suffix: "-a"}, rewriteExt{name: "b", suffix: "-b"})
	ctx := &ModuleContext{Source: "base"}
	if err := p.BeforeModule(ctx); err != nil {
		t.Fatalf("BeforeModule: %v", err)
	}
	if ctx.Source != "base-a-b" {
		t.Fatalf("Source = %q, want rewrites applied in order", ctx.Source)
	}
}

func TestPipelineEmpty(t *testing.T) {
	p := NewPipeline()
	if err := p.BeforeBuild(&BuildContext{}); err != nil {
		t.Fatalf("BeforeBuild on empty pipeline: %v", err)
	}
	if len(p.Extensions()) != 0 {
		t.Fatalf("Extensions() = %v, want empty", p.Extensions())
	}
}
