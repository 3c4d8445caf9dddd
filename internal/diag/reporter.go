package diag

import (
	"fmt"

	"weslbuild/internal/modpath"
)

// Reporter is the minimal contract for receiving diagnostics from build
// components and extensions. Implementations: BagReporter (collects into a
// Bag), NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter discards every diagnostic.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// Errorf reports a SevError diagnostic attributed to module.
func Errorf(r Reporter, code Code, module modpath.Path, format string, args ...any) {
	report(r, SevError, code, module, format, args...)
}

// Warnf reports a SevWarning diagnostic attributed to module.
func Warnf(r Reporter, code Code, module modpath.Path, format string, args ...any) {
	report(r, SevWarning, code, module, format, args...)
}

// Infof reports a SevInfo diagnostic attributed to module.
func Infof(r Reporter, code Code, module modpath.Path, format string, args ...any) {
	report(r, SevInfo, code, module, format, args...)
}

func report(r Reporter, sev Severity, code Code, module modpath.Path, format string, args ...any) {
	if r == nil {
		return
	}
	r.Report(Diagnostic{
		Severity: sev,
		Code:     code,
		Module:   module,
		Message:  fmt.Sprintf(format, args...),
	})
}
