package pipeline

import (
	"errors"
	"fmt"
	"os/exec"
)

// ViolationStatus is the analysis engine's reserved exit status meaning
// "ran to completion and found a property violation". Under the tolerant
// policy it is not a failure: a proof that finds a bug is a proof that
// worked.
const ViolationStatus = 10

// ExitPolicy selects how a non-zero exit status is classified.
type ExitPolicy int

const (
	// Strict treats any non-zero status as a hard failure. Used for
	// compile and instrumentation stages, where a non-zero status always
	// means the tool broke.
	Strict ExitPolicy = iota

	// TolerateViolation treats ViolationStatus as success so downstream
	// trace capture and reporting still run. Every other non-zero status
	// remains a hard failure. Used for analysis invocations only.
	TolerateViolation
)

// OutcomeClass is the tag of an invocation outcome.
type OutcomeClass int

const (
	// Success: the tool exited zero.
	Success OutcomeClass = iota

	// ViolationFound: the tool exited with ViolationStatus under the
	// tolerant policy. The log holds the counterexample details.
	ViolationFound

	// Failure: any other non-zero exit, or a failure to start the tool
	// at all.
	Failure
)

func (c OutcomeClass) String() string {
	switch c {
	case Success:
		return "success"
	case ViolationFound:
		return "violation"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("OutcomeClass(%d)", int(c))
	}
}

// Outcome is the classified result of one external invocation. Callers
// pattern-match on Class instead of re-deriving the reserved status.
type Outcome struct {
	Class OutcomeClass

	// Status is the tool's raw exit status (0 for Success, ViolationStatus
	// for ViolationFound, the failing status for Failure).
	Status int

	// LogPath names the log file holding the invocation's combined output.
	// Set for every attempt, successful or not.
	LogPath string
}

// InvocationError is the hard-failure error for a stage or analysis
// invocation. The log file named by LogPath is preserved for diagnosis;
// the process ultimately exits with the tool's status.
type InvocationError struct {
	Name    string // invocation name, e.g. "compile" or "check"
	Status  int
	LogPath string
	Err     error // underlying error when the tool could not be started
}

func (e *InvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: tool exited with status %d (log: %s)", e.Name, e.Status, e.LogPath)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// classify maps an exec error to an Outcome under the given policy.
func classify(policy ExitPolicy, logPath string, runErr error) Outcome {
	if runErr == nil {
		return Outcome{Class: Success, Status: 0, LogPath: logPath}
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		status := exitErr.ExitCode()
		if policy == TolerateViolation && status == ViolationStatus {
			return Outcome{Class: ViolationFound, Status: status, LogPath: logPath}
		}
		return Outcome{Class: Failure, Status: status, LogPath: logPath}
	}
	// The tool never ran (not found, permission, cancelled context).
	return Outcome{Class: Failure, Status: -1, LogPath: logPath}
}
