package cli

import (
	"github.com/spf13/cobra"
)

// NewGotoCommand creates the goto command: build the final artifact only.
func NewGotoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "goto [proof-dir]",
		Short: "Build the final goto program without running any analysis",
		Long: `Build the verification-ready goto program for the proof in the given
directory (default: current directory).

Stages whose declared inputs are unchanged since the last build are not
re-run. The final artifact is written to gotos/<entry>.goto.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newBuildEnv(rootOpts, proofDirArg(args))
			if err != nil {
				return err
			}
			defer env.Close()
			return env.Pipeline.BuildGoto(cmd.Context())
		},
	}
}
