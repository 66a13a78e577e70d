package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofrig/proofrig/internal/pipeline"
)

func TestGetExitCode_Nil(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
}

func TestGetExitCode_PlainError(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
}

func TestGetExitCode_ExitError(t *testing.T) {
	err := WrapExitError(ExitCommandError, "bad config", errors.New("entry missing"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGetExitCode_WrappedExitError(t *testing.T) {
	inner := WrapExitError(ExitCommandError, "bad config", nil)
	err := fmt.Errorf("loading proof: %w", inner)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGetExitCode_InvocationStatusWins(t *testing.T) {
	// A failed tool invocation surfaces the tool's own exit status, even
	// when wrapped on the way up.
	inv := &pipeline.InvocationError{Name: "compile", Status: 6, LogPath: "x.txt"}
	err := fmt.Errorf("stage failed: %w", inv)
	assert.Equal(t, 6, GetExitCode(err))
}

func TestGetExitCode_InvocationWithoutStatus(t *testing.T) {
	// Status 0 means the tool never ran (spawn failure); there is no tool
	// status to mirror, so the generic failure code applies.
	inv := &pipeline.InvocationError{Name: "compile", Err: errors.New("no such file")}
	assert.Equal(t, ExitFailure, GetExitCode(inv))
}

func TestExitError_Message(t *testing.T) {
	err := WrapExitError(ExitFailure, "clean failed", errors.New("permission denied"))
	assert.Equal(t, "clean failed: permission denied", err.Error())
	require.ErrorContains(t, err, "permission denied")

	bare := &ExitError{Code: ExitFailure, Message: "clean failed"}
	assert.Equal(t, "clean failed", bare.Error())
}
