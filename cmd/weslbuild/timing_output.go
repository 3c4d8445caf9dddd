package main

import (
	"fmt"
	"io"
	"time"

	"weslbuild/internal/buildpipeline"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	if timings.Has(buildpipeline.StageWalk) {
		fmt.Fprintf(out, "walked %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageWalk)))
	}
	if timings.Has(buildpipeline.StageCompile) {
		fmt.Fprintf(out, "compiled %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageCompile)))
	}
	if timings.Has(buildpipeline.StageEmit) {
		fmt.Fprintf(out, "emitted %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageEmit)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
