package cli

import (
	"errors"
	"fmt"

	"github.com/proofrig/proofrig/internal/pipeline"
)

// Exit codes for CLI commands. A hard stage failure exits with the failing
// tool's own status instead, so CI sees exactly what the tool reported.
const (
	ExitSuccess      = 0 // successful build, including a tolerated violation
	ExitFailure      = 1 // build failure with no more specific tool status
	ExitCommandError = 2 // configuration or usage error, nothing was run
)

// ExitError carries a specific process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the process exit code from a command error.
//
// An InvocationError surfaces the external tool's own exit status; any
// other error defaults to ExitFailure unless wrapped in an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *pipeline.InvocationError
	if errors.As(err, &invErr) && invErr.Status > 0 {
		return invErr.Status
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
