package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newMatrixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matrix [test-sets...]",
		Short: "Print the expanded test matrix as JSON without running anything",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.app.Matrix(cmd.Context(), ".", args)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
