package commands

import (
	"github.com/fablane/fablane/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newSmokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Run a single matrix entry end to end and exit 0 on success",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := c.app.Run(cmd.Context(), ".", app.RunOptions{
				Parallelism: 1,
				SkipPublish: true,
				SmokeTest:   true,
			})
			return err
		},
	}
}
