package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Runner executes external-tool invocations one at a time, teeing each
// invocation's combined stdout/stderr to a named log file and classifying
// the exit status per the invocation's policy.
//
// Every pipeline run gets a fresh run ID; it is stamped into each log
// header and into the dependency-cache rows written for the run, so a log
// line and the cache row that produced it always correlate.
type Runner struct {
	log   *slog.Logger
	runID string
}

// NewRunner creates a runner with a UUIDv7 run ID. UUIDv7 is time-ordered,
// so sorting run IDs sorts runs chronologically.
func NewRunner(log *slog.Logger) *Runner {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 generation only fails if the entropy source does; fall back
		// to v4 rather than aborting the build.
		id = uuid.New()
	}
	return &Runner{log: log, runID: id.String()}
}

// RunID returns the identifier stamped on every log and cache row this
// runner writes.
func (r *Runner) RunID() string {
	return r.runID
}

// Invocation describes one external-tool run.
type Invocation struct {
	// Name identifies the invocation in logs and errors ("compile",
	// "check", ...).
	Name string

	// Argv is the full command line; Argv[0] is the tool path.
	Argv []string

	// Dir is the working directory for the tool ("" for the current one).
	Dir string

	// LogPath names the file receiving the combined output. Parent
	// directories are created as needed. The file exists after every
	// attempt, successful or not.
	LogPath string

	// Policy selects the exit classification.
	Policy ExitPolicy
}

// Run executes the invocation to completion and classifies the result.
//
// The returned error is non-nil exactly when the outcome is Failure; a
// tolerated violation is a nil error with Class == ViolationFound. The log
// file is written in all cases so a failure is diagnosable without
// re-running.
func (r *Runner) Run(ctx context.Context, inv Invocation) (Outcome, error) {
	logFile, err := createLog(inv.LogPath)
	if err != nil {
		return Outcome{Class: Failure, Status: -1, LogPath: inv.LogPath}, err
	}
	defer logFile.Close()

	fmt.Fprintf(logFile, "# run %s\n# %s\n# started %s\n",
		r.runID, strings.Join(inv.Argv, " "), time.Now().UTC().Format(time.RFC3339))

	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	r.log.Debug("invoking tool", "name", inv.Name, "argv", strings.Join(inv.Argv, " "))
	runErr := cmd.Run()
	outcome := classify(inv.Policy, inv.LogPath, runErr)
	fmt.Fprintf(logFile, "# outcome %s status %d\n", outcome.Class, outcome.Status)

	switch outcome.Class {
	case ViolationFound:
		r.log.Info("violation found", "name", inv.Name, "status", outcome.Status, "log", inv.LogPath)
		return outcome, nil
	case Failure:
		r.log.Error("tool failed", "name", inv.Name, "status", outcome.Status, "log", inv.LogPath)
		invErr := &InvocationError{Name: inv.Name, Status: outcome.Status, LogPath: inv.LogPath}
		if _, ok := runErr.(*exec.ExitError); !ok {
			invErr.Err = runErr
		}
		return outcome, invErr
	default:
		return outcome, nil
	}
}

// Skip is the no-op variant for a stage that is configured off: it copies
// the input artifact to the output name unchanged and writes an explanatory
// line to the stage's log, preserving the one-log-per-artifact invariant
// without invoking any external tool.
func (r *Runner) Skip(name, in, out, logPath, reason string) error {
	logFile, err := createLog(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	if err := copyFile(in, out); err != nil {
		fmt.Fprintf(logFile, "# run %s\n# stage %s failed to copy: %v\n", r.runID, name, err)
		return fmt.Errorf("stage %s: copy %s to %s: %w", name, in, out, err)
	}
	fmt.Fprintf(logFile, "# run %s\n# stage %s skipped (%s); %s copied unchanged\n",
		r.runID, name, reason, filepath.Base(in))
	r.log.Debug("stage skipped", "name", name, "reason", reason)
	return nil
}

func createLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log %s: %w", path, err)
	}
	return f, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
