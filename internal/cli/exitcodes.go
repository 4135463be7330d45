package cli

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/yaklabco/phpsniff/pkg/runner"
)

// Process exit codes. Usage, config, internal and I/O failures follow
// sysexits.h (EX_USAGE, EX_DATAERR, EX_SOFTWARE, EX_IOERR).
const (
	ExitSuccess       = 0
	ExitLintErrors    = 1 // error-severity findings or unprocessable files
	ExitLintWarnings  = 2 // warnings under --strict
	ExitInvalidUsage  = 64
	ExitConfigError   = 65
	ExitInternalError = 70
	ExitIOError       = 74
)

// ErrLintIssuesFound is returned when lint issues decide the exit code.
var ErrLintIssuesFound = errors.New("lint issues found")

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// withCode wraps err with an exit code. A nil err stays nil.
func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// usageError marks err as a command-line usage error.
func usageError(err error) error {
	return withCode(ExitInvalidUsage, err)
}

// ExitCode maps an error returned by a command to a process exit code.
// Errors without an explicit code are I/O errors when they wrap a file
// system failure and internal errors otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// Cobra reports unknown subcommands as plain errors.
	if strings.HasPrefix(err.Error(), "unknown command") {
		return ExitInvalidUsage
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return ExitIOError
	}
	return ExitInternalError
}

// ExitCodeFromResult maps lint findings to an exit code. Files that could
// not be processed count as errors.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	switch {
	case result.HasFailures():
		return ExitLintErrors
	case strict && result.HasWarnings():
		return ExitLintWarnings
	}
	return ExitSuccess
}
