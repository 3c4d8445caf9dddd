package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"weslbuild/internal/buildpipeline"
	"weslbuild/internal/ui"
)

type buildOutcome struct {
	report *buildpipeline.Report
	err    error
}

// runBuildWithUI runs the build in a goroutine while the terminal renders
// its progress events. The build itself stays single-threaded; the UI only
// consumes the event channel.
func runBuildWithUI(title string, files []string, req *buildpipeline.Request) (*buildpipeline.Report, error) {
	if req == nil {
		return nil, fmt.Errorf("missing build request")
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		report, err := buildpipeline.Build(&reqCopy)
		outcomeCh <- buildOutcome{report: report, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
