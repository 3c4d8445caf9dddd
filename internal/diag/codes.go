package diag

import "fmt"

// Code identifies a diagnostic category. Codes are stable across releases so
// build logs can be filtered by them.
type Code uint16

const (
	UnknownCode Code = 0

	// Filesystem and module mapping
	FsReadDir      Code = 1000
	FsReadFile     Code = 1001
	FsSymlinkCycle Code = 1002

	PathOutsideRoot  Code = 1100
	PathEmptySegment Code = 1101
	PathDuplicate    Code = 1102

	// Compilation
	CompileFailed Code = 2000

	// Extensions
	ExtAborted  Code = 3000
	ExtPanicked Code = 3001
	ExtFailed   Code = 3002
	ExtNote     Code = 3100
)

func (c Code) String() string {
	return fmt.Sprintf("WB%04d", uint16(c))
}
