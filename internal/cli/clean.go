package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/proofrig/proofrig/internal/pipeline"
)

// NewCleanCommand creates the clean command: remove artifacts, logs, and
// the dependency cache, keeping the rendered report.
func NewCleanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [proof-dir]",
		Short: "Remove artifacts, logs, and the dependency cache",
		Long: `Remove the proof's numbered artifacts, invocation logs, and dependency
cache. The rendered report survives; use veryclean to remove it too.

A full clean before rebuilding is the documented mitigation when header
dependencies change without a visible source-file change.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := cleanWorkspace(rootOpts, proofDirArg(args))
			if err != nil {
				return err
			}
			if err := ws.Clean(); err != nil {
				return WrapExitError(ExitFailure, "clean failed", err)
			}
			return nil
		},
	}
}

// NewVeryCleanCommand creates the veryclean command: clean plus the
// rendered report and the log directory itself.
func NewVeryCleanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "veryclean [proof-dir]",
		Short:         "Clean, then also remove the rendered report and log directory",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := cleanWorkspace(rootOpts, proofDirArg(args))
			if err != nil {
				return err
			}
			if err := ws.VeryClean(); err != nil {
				return WrapExitError(ExitFailure, "veryclean failed", err)
			}
			return nil
		},
	}
}

// cleanWorkspace derives the workspace for a clean operation. The proof
// configuration is loaded only for the entry-point name; cleaning must not
// require the external tools to exist.
func cleanWorkspace(_ *RootOptions, dir string) (*pipeline.Workspace, error) {
	cfg, err := LoadProof(dir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid proof configuration", err)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "resolve proof directory", err)
	}
	return pipeline.NewWorkspace(root, cfg.Entry), nil
}
