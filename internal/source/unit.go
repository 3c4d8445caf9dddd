// Package source defines the unit of shader compilation.
package source

import (
	"fmt"
	"os"

	"weslbuild/internal/modpath"
)

// Unit is one shader source file paired with its resolved module path. The
// walker yields units with Text unset; the build pipeline reads the file
// right before compilation.
type Unit struct {
	Module modpath.Path
	File   string
	Text   string
}

// Load reads the unit's file contents into Text.
func (u *Unit) Load() error {
	data, err := os.ReadFile(u.File)
	if err != nil {
		return fmt.Errorf("read shader %s: %w", u.File, err)
	}
	u.Text = string(data)
	return nil
}
