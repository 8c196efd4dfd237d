package reporting

import (
	"errors"
	"fmt"
)

// FilesystemError indicates a directory-creation or file-write failure
// during report generation. A directory-creation failure is fatal to the
// whole generate call; a file-write failure is fatal only for the affected
// suite's report.
type FilesystemError struct {
	Suite string // empty for failures not tied to one suite
	Path  string
	Err   error
}

func (e *FilesystemError) Error() string {
	if e.Suite == "" {
		return fmt.Sprintf("filesystem error at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("filesystem error writing report for suite %q at %s: %v", e.Suite, e.Path, e.Err)
}

// Unwrap implements the errors.Unwrap interface.
func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// IsFilesystemError checks if the error is or wraps a FilesystemError.
func IsFilesystemError(err error) bool {
	var fsErr *FilesystemError
	return err != nil && errors.As(err, &fsErr)
}
