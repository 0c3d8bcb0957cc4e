// Package commands implements the CLI commands for the fablane runner.
package commands

import (
	"context"
	"io"

	"github.com/fablane/fablane/internal/app"
	"github.com/fablane/fablane/internal/build"
	"github.com/fablane/fablane/internal/core/domain"
	"github.com/fablane/fablane/internal/engine/scheduler"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for fablane.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, cwd string, opts app.RunOptions) (*scheduler.Report, error)
	Matrix(ctx context.Context, cwd string, testSets []string) ([]domain.MatrixEntry, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "fablane",
		Short:         "A CI pipeline runner for chip-design test flows",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "fablane.yaml", "Path to pipeline file")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newMatrixCmd())
	rootCmd.AddCommand(c.newSmokeCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetConfigHook sets up a PersistentPreRun function that retrieves the
// config flag and calls the provided callback with the pipeline file path.
func (c *CLI) SetConfigHook(fn func(string)) {
	c.rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		fn(configPath)
		return nil
	}
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
