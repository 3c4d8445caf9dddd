package diag

import (
	"weslbuild/internal/modpath"
)

// Diagnostic is one problem reported during a build, attributed to the module
// it concerns. Module and File may be zero for build-level diagnostics.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Module   modpath.Path
	File     string
	Message  string
	// Origin names the component or extension that reported the diagnostic.
	Origin string
}
