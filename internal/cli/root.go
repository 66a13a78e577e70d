// Package cli wires the build targets to the pipeline: goto, cbmc,
// property, coverage, report, validate, clean, and veryclean. Each target's
// process exit code mirrors the last external tool it invoked, subject to
// the tolerated-violation remap in internal/pipeline.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Tools   string // path to an optional tools.yaml override file
}

// NewRootCommand creates the root command for the proofrig CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "proofrig",
		Short: "proofrig - proof-build orchestrator for goto programs",
		Long: `proofrig builds a verification-ready goto program from a C proof
harness through a fixed sequence of transformation stages, then drives the
analysis engine over it and collects traces, property lists, and coverage
into a report.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Tools, "tools", "", "path to tools.yaml (default: <proof-dir>/tools.yaml)")

	cmd.AddCommand(NewGotoCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewPropertyCommand(opts))
	cmd.AddCommand(NewCoverageCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCleanCommand(opts))
	cmd.AddCommand(NewVeryCleanCommand(opts))

	return cmd
}

// proofDirArg extracts the optional proof-directory argument, defaulting to
// the current directory.
func proofDirArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "."
}
