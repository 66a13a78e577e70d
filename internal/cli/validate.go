package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/proofrig/proofrig/internal/pipeline"
)

// NewValidateCommand creates the validate command: load and check the
// proof configuration, then print the effective stage plan and flag lists
// without running anything. This is the inspection surface for "which
// exact flags would each invocation get".
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "validate [proof-dir]",
		Short:         "Validate the proof configuration and show the effective plan",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newBuildEnv(rootOpts, proofDirArg(args))
			if err != nil {
				return err
			}
			defer env.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "entry: %s\n", env.Config.Entry)
			fmt.Fprintf(out, "final artifact: %s\n\n", env.Workspace.FinalArtifact())
			fmt.Fprintf(out, "engine flags:\n  %s\n", strings.Join(env.Config.EngineFlags(), " "))
			fmt.Fprintf(out, "coverage flags:\n  %s\n", strings.Join(env.Config.CoverageFlags(), " "))
			fmt.Fprintf(out, "defines:\n  %s\n\n", strings.Join(env.Config.DefineFlags(), " "))
			fmt.Fprintf(out, "stages:\n%s", pipeline.Describe(env.Pipeline.Plan()))
			return nil
		},
	}
}
