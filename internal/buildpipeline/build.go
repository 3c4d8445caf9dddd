// Package buildpipeline orchestrates one full shader build: tree discovery,
// per-module compilation wrapped in the extension pipeline, artifact
// emission, and failure aggregation.
package buildpipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"weslbuild/internal/artifact"
	"weslbuild/internal/compiler"
	"weslbuild/internal/diag"
	"weslbuild/internal/extension"
	"weslbuild/internal/source"
	"weslbuild/internal/walker"
)

// DefaultMaxDiagnostics bounds the diagnostics bag when the request does not.
const DefaultMaxDiagnostics = 100

// Request configures one build invocation.
type Request struct {
	// Root is the directory holding the shader tree.
	Root string
	// OutputDir is where artifacts and the manifest are written.
	// Defaults to target/shaders.
	OutputDir string
	// Compiler is the external shader compiler. Defaults to naga with
	// default options.
	Compiler compiler.Compiler
	// Extensions run in the given registration order.
	Extensions     []extension.Extension
	MaxDiagnostics int
	Progress       ProgressSink
	// Files are display names for progress events, in walk order. Leave nil
	// to derive them from the walk.
	Files []string
}

// Build runs one full pass over the shader tree. The whole pass is
// synchronous and single-threaded: modules compile one at a time in walk
// order, and extensions run sequentially around each.
//
// A failing module does not stop the pass; every module is attempted and the
// returned *FailedError enumerates all failures. Walk errors, extension
// aborts, panics, and hook errors are fatal and stop the build immediately.
// The Report is returned even alongside an error, with whatever outcomes and
// diagnostics were collected.
func Build(req *Request) (*Report, error) {
	if req == nil {
		return nil, fmt.Errorf("missing build request")
	}
	if req.Root == "" {
		return nil, fmt.Errorf("missing shader root")
	}
	comp := req.Compiler
	if comp == nil {
		comp = compiler.NewNaga(compiler.DefaultOptions())
	}
	maxDiags := req.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = DefaultMaxDiagnostics
	}
	outDir := req.OutputDir
	if outDir == "" {
		outDir = filepath.Join("target", "shaders")
	}

	report := &Report{Root: req.Root, Diags: diag.NewBag(maxDiags)}
	reporter := diag.BagReporter{Bag: report.Diags}

	walkStart := time.Now()
	units, err := walker.Collect(req.Root)
	if err != nil {
		emitStage(req.Progress, req.Files, StageWalk, StatusError, err, time.Since(walkStart))
		return report, err
	}
	report.Timings.Set(StageWalk, time.Since(walkStart))

	files := req.Files
	if files == nil {
		files = displayFiles(req.Root, units)
	}
	emitStage(req.Progress, nil, StageWalk, StatusDone, nil, report.Timings.Duration(StageWalk))
	emitQueued(req.Progress, files)

	store, err := artifact.NewStore(outDir)
	if err != nil {
		return report, err
	}

	pipe := extension.NewPipeline(req.Extensions...)
	buildCtx := &extension.BuildContext{
		Root:      req.Root,
		OutputDir: outDir,
		Diags:     reporter,
	}
	for i := range units {
		buildCtx.Modules = append(buildCtx.Modules, units[i].Module)
	}

	if err := pipe.BeforeBuild(buildCtx); err != nil {
		emitStage(req.Progress, files, StageCompile, StatusError, err, 0)
		return report, err
	}

	resolver := newTreeResolver(units)
	compileStart := time.Now()
	var emitTotal time.Duration
	for i := range units {
		display := ""
		if i < len(files) {
			display = files[i]
		}
		outcome, emitDur, fatal := compileUnit(&units[i], comp, pipe, buildCtx, store, reporter, resolver, req.Progress, display)
		emitTotal += emitDur
		report.Outcomes = append(report.Outcomes, outcome)
		if fatal != nil {
			report.Timings.Set(StageCompile, time.Since(compileStart)-emitTotal)
			report.Timings.Set(StageEmit, emitTotal)
			return report, fatal
		}
	}
	report.Timings.Set(StageCompile, time.Since(compileStart)-emitTotal)
	report.Timings.Set(StageEmit, emitTotal)

	// AfterBuild still runs when modules failed; only aborts and hook errors
	// skip it.
	if err := pipe.AfterBuild(buildCtx); err != nil {
		return report, err
	}

	if err := store.Flush(); err != nil {
		return report, err
	}

	if failures := report.Failures(); len(failures) > 0 {
		return report, &FailedError{Total: len(report.Outcomes), Failures: failures}
	}
	return report, nil
}

// compileUnit is the per-module driver: BeforeModule hooks, exactly one
// compiler invocation, artifact write, AfterModule hooks. Compile failures
// are recorded in the outcome; any other error is fatal to the build.
func compileUnit(
	unit *source.Unit,
	comp compiler.Compiler,
	pipe *extension.Pipeline,
	buildCtx *extension.BuildContext,
	store *artifact.Store,
	reporter diag.Reporter,
	resolver compiler.Resolver,
	sink ProgressSink,
	display string,
) (Outcome, time.Duration, error) {
	outcome := Outcome{Unit: *unit}
	start := time.Now()
	emitFile(sink, display, StageCompile, StatusWorking, nil, 0)

	if err := unit.Load(); err != nil {
		// An unreadable source file means the module set cannot be trusted.
		emitFile(sink, display, StageCompile, StatusError, err, time.Since(start))
		return outcome, 0, err
	}
	outcome.Unit = *unit

	modCtx := &extension.ModuleContext{
		Build:  buildCtx,
		Module: unit.Module,
		File:   unit.File,
		Source: unit.Text,
		Diags:  reporter,
	}
	if err := pipe.BeforeModule(modCtx); err != nil {
		emitFile(sink, display, StageCompile, StatusError, err, time.Since(start))
		return outcome, 0, err
	}

	compiled := *unit
	compiled.Text = modCtx.Source
	art, err := comp.Compile(&compiled, resolver)

	var emitDur time.Duration
	if err != nil {
		outcome.Err = err
		modCtx.CompileErr = err
		diag.Errorf(reporter, diag.CompileFailed, unit.Module, "%v", err)
	} else {
		outcome.Artifact = art
		modCtx.Artifact = art
		emitStart := time.Now()
		emitFile(sink, display, StageEmit, StatusWorking, nil, 0)
		path, writeErr := store.Write(art)
		emitDur = time.Since(emitStart)
		if writeErr != nil {
			emitFile(sink, display, StageEmit, StatusError, writeErr, time.Since(start))
			return outcome, emitDur, writeErr
		}
		outcome.Path = path
		modCtx.ArtifactPath = path
	}

	if err := pipe.AfterModule(modCtx); err != nil {
		emitFile(sink, display, StageCompile, StatusError, err, time.Since(start))
		return outcome, emitDur, err
	}

	if outcome.Failed() {
		emitFile(sink, display, StageCompile, StatusError, outcome.Err, time.Since(start))
	} else {
		emitFile(sink, display, StageEmit, StatusDone, nil, time.Since(start))
	}
	return outcome, emitDur, nil
}

func displayFiles(root string, units []source.Unit) []string {
	files := make([]string, 0, len(units))
	for i := range units {
		files = append(files, DisplayName(root, units[i].File))
	}
	return files
}

// DisplayName renders a unit's file path relative to the shader root with
// forward slashes, for progress output.
func DisplayName(root, file string) string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return filepath.ToSlash(file)
	}
	rel, err := filepath.Rel(absRoot, file)
	if err != nil || rel == "." {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageCompile, Status: StatusQueued})
	}
}

func emitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}

func emitFile(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil || file == "" {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
