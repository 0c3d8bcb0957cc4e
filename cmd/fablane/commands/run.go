package commands

import (
	"github.com/fablane/fablane/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [test-sets...]",
		Short: "Execute the pipeline, optionally restricted to the named test sets",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parallelism, err := cmd.Flags().GetInt("parallelism")
			if err != nil {
				return err
			}
			skipPublish, err := cmd.Flags().GetBool("skip-publish")
			if err != nil {
				return err
			}

			_, err = c.app.Run(cmd.Context(), ".", app.RunOptions{
				TestSets:    args,
				Parallelism: parallelism,
				SkipPublish: skipPublish,
			})
			return err
		},
	}

	cmd.Flags().IntP("parallelism", "p", 0, "Maximum concurrent jobs and matrix instances (0 = number of CPUs)")
	cmd.Flags().Bool("skip-publish", false, "Never run the publish block, regardless of the gate condition")

	return cmd
}
