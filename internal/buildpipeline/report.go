package buildpipeline

import (
	"fmt"
	"strings"

	"weslbuild/internal/compiler"
	"weslbuild/internal/diag"
	"weslbuild/internal/source"
)

// Outcome is the result of one module's compile attempt.
type Outcome struct {
	Unit     source.Unit
	Artifact *compiler.Artifact
	// Path is the written artifact file, empty on failure.
	Path string
	// Err is a *compiler.ModuleError when the module failed to compile.
	Err error
}

// Failed reports whether the module failed to compile.
func (o Outcome) Failed() bool { return o.Err != nil }

// Report aggregates one Outcome per discovered module plus build diagnostics.
// It is append-only while the build runs and must be treated as immutable
// once Build returns it.
type Report struct {
	Root     string
	Outcomes []Outcome
	Diags    *diag.Bag
	Timings  Timings
}

// Failures returns the failing outcomes in walk order.
func (r *Report) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// FailedError enumerates every failing module of one build, so a single
// invocation reports all broken shaders at once.
type FailedError struct {
	// Total is the number of discovered modules.
	Total    int
	Failures []Outcome
}

func (e *FailedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "build failed: %d of %d modules did not compile", len(e.Failures), e.Total)
	for _, o := range e.Failures {
		fmt.Fprintf(&b, "\n  %s: %v", o.Unit.Module, o.Err)
	}
	return b.String()
}
