package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"weslbuild/internal/diag"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
	infoColor  = color.New(color.FgCyan)
)

// renderDiagnostics prints the bag in its deterministic sorted order. With
// quiet set, only warnings and errors are shown.
func renderDiagnostics(out io.Writer, bag *diag.Bag, quiet bool) {
	if out == nil || bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	for _, d := range bag.Items() {
		if quiet && d.Severity < diag.SevWarning {
			continue
		}
		label := severityLabel(d.Severity)
		where := d.Module.String()
		if where == "" {
			where = "build"
		}
		fmt.Fprintf(out, "%s [%s] %s: %s\n", label, d.Code, where, d.Message)
	}
}

func severityLabel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return errorColor.Sprint("error")
	case diag.SevWarning:
		return warnColor.Sprint("warning")
	default:
		return infoColor.Sprint("info")
	}
}
