package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// The four analysis targets share one shape: build the final artifact,
// then run one or more analyses against it. A tolerated violation is a
// successful build whose result file documents the counterexample, so the
// process still exits zero.

// NewCheckCommand creates the cbmc command: the full check with trace.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return newAnalysisCommand(rootOpts, "cbmc",
		"Run the full check with trace capture",
		func(ctx context.Context, env *buildEnv) error {
			_, err := env.Driver.FullCheck(ctx)
			return err
		})
}

// NewPropertyCommand creates the property command: enumerate every checked
// property without executing the analysis.
func NewPropertyCommand(rootOpts *RootOptions) *cobra.Command {
	return newAnalysisCommand(rootOpts, "property",
		"Enumerate every checked property",
		func(ctx context.Context, env *buildEnv) error {
			_, err := env.Driver.Properties(ctx)
			return err
		})
}

// NewCoverageCommand creates the coverage command: location coverage
// measurement.
func NewCoverageCommand(rootOpts *RootOptions) *cobra.Command {
	return newAnalysisCommand(rootOpts, "coverage",
		"Measure location coverage",
		func(ctx context.Context, env *buildEnv) error {
			_, err := env.Driver.Coverage(ctx)
			return err
		})
}

// NewReportCommand creates the report command: all three analyses, then
// the external report renderer.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	return newAnalysisCommand(rootOpts, "report",
		"Run all three analyses and render the report",
		func(ctx context.Context, env *buildEnv) error {
			if err := env.Driver.RunAll(ctx); err != nil {
				return err
			}
			return env.Driver.Report(ctx)
		})
}

func newAnalysisCommand(rootOpts *RootOptions, use, short string, run func(context.Context, *buildEnv) error) *cobra.Command {
	return &cobra.Command{
		Use:           use + " [proof-dir]",
		Short:         short,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newBuildEnv(rootOpts, proofDirArg(args))
			if err != nil {
				return err
			}
			defer env.Close()
			if err := env.Pipeline.BuildGoto(cmd.Context()); err != nil {
				return err
			}
			return run(cmd.Context(), env)
		},
	}
}
