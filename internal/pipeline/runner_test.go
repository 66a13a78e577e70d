package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRunner() *Runner {
	return NewRunner(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunner_Run_Success(t *testing.T) {
	r := testRunner()
	logPath := filepath.Join(t.TempDir(), "logs", "ok.txt")

	outcome, err := r.Run(context.Background(), Invocation{
		Name:    "ok",
		Argv:    []string{"/bin/sh", "-c", "echo tool output"},
		LogPath: logPath,
		Policy:  Strict,
	})

	require.NoError(t, err)
	assert.Equal(t, Success, outcome.Class)
	assert.Equal(t, 0, outcome.Status)

	log := readFile(t, logPath)
	assert.Contains(t, log, "tool output")
	assert.Contains(t, log, "# run "+r.RunID())
	assert.Contains(t, log, "# outcome success status 0")
}

func TestRunner_Run_StrictFailure(t *testing.T) {
	r := testRunner()
	logPath := filepath.Join(t.TempDir(), "fail.txt")

	outcome, err := r.Run(context.Background(), Invocation{
		Name:    "broken",
		Argv:    []string{"/bin/sh", "-c", "echo diagnosis; exit 3"},
		LogPath: logPath,
		Policy:  Strict,
	})

	require.Error(t, err)
	assert.Equal(t, Failure, outcome.Class)
	assert.Equal(t, 3, outcome.Status)

	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, 3, invErr.Status)
	assert.Equal(t, logPath, invErr.LogPath)

	// The log survives the failure so it is diagnosable without re-running.
	assert.Contains(t, readFile(t, logPath), "diagnosis")
}

func TestRunner_Run_ViolationStatusStrict(t *testing.T) {
	// The reserved status is only special under the tolerant policy; a
	// transformation stage exiting 10 is still a hard failure.
	r := testRunner()
	logPath := filepath.Join(t.TempDir(), "strict10.txt")

	outcome, err := r.Run(context.Background(), Invocation{
		Name:    "instrument",
		Argv:    []string{"/bin/sh", "-c", "exit 10"},
		LogPath: logPath,
		Policy:  Strict,
	})

	require.Error(t, err)
	assert.Equal(t, Failure, outcome.Class)
	assert.Equal(t, ViolationStatus, outcome.Status)
}

func TestRunner_Run_ViolationTolerated(t *testing.T) {
	r := testRunner()
	logPath := filepath.Join(t.TempDir(), "violation.txt")

	outcome, err := r.Run(context.Background(), Invocation{
		Name:    "check",
		Argv:    []string{"/bin/sh", "-c", "echo VERIFICATION FAILED; exit 10"},
		LogPath: logPath,
		Policy:  TolerateViolation,
	})

	require.NoError(t, err, "a found violation is a successful analysis")
	assert.Equal(t, ViolationFound, outcome.Class)
	assert.Equal(t, ViolationStatus, outcome.Status)
	assert.Contains(t, readFile(t, logPath), "# outcome violation status 10")
}

func TestRunner_Run_TolerantOtherStatusStillFails(t *testing.T) {
	r := testRunner()
	logPath := filepath.Join(t.TempDir(), "tolerant7.txt")

	outcome, err := r.Run(context.Background(), Invocation{
		Name:    "check",
		Argv:    []string{"/bin/sh", "-c", "exit 7"},
		LogPath: logPath,
		Policy:  TolerateViolation,
	})

	require.Error(t, err)
	assert.Equal(t, Failure, outcome.Class)
	assert.Equal(t, 7, outcome.Status)
}

func TestRunner_Run_MissingTool(t *testing.T) {
	r := testRunner()
	logPath := filepath.Join(t.TempDir(), "missing.txt")

	outcome, err := r.Run(context.Background(), Invocation{
		Name:    "compile",
		Argv:    []string{"/nonexistent/goto-cc"},
		LogPath: logPath,
		Policy:  Strict,
	})

	require.Error(t, err)
	assert.Equal(t, Failure, outcome.Class)

	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Error(t, invErr.Unwrap(), "start failure must carry the underlying error")

	// Even a start failure leaves a log behind.
	assert.FileExists(t, logPath)
}

func TestRunner_Skip_CopiesArtifactAndExplains(t *testing.T) {
	r := testRunner()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.goto")
	out := filepath.Join(dir, "out.goto")
	logPath := filepath.Join(dir, "skip.txt")
	require.NoError(t, os.WriteFile(in, []byte("artifact bytes"), 0o644))

	require.NoError(t, r.Skip("simplify", in, out, logPath, "simplification disabled"))

	assert.Equal(t, "artifact bytes", readFile(t, out))
	log := readFile(t, logPath)
	assert.Contains(t, log, "skipped")
	assert.Contains(t, log, "simplification disabled")
}

func TestRunner_Skip_MissingInputFails(t *testing.T) {
	r := testRunner()
	dir := t.TempDir()

	err := r.Skip("simplify",
		filepath.Join(dir, "absent.goto"),
		filepath.Join(dir, "out.goto"),
		filepath.Join(dir, "skip.txt"),
		"disabled")

	require.Error(t, err)
	// Invariant: the log exists after every attempt.
	assert.FileExists(t, filepath.Join(dir, "skip.txt"))
}

func TestRunner_RunIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 8; i++ {
		id := testRunner().RunID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestOutcomeClass_String(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "violation", ViolationFound.String())
	assert.Equal(t, "failure", Failure.String())
}

func TestInvocationError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &InvocationError{Name: "compile", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "compile")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
