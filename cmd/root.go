package cmd

import (
	"context"

	"configs-cli/internal/logger"
	"configs-cli/internal/system"
	"github.com/spf13/cobra"
)

// debug toggles debug logging via the global `--debug` flag.
var debug bool

// newEnv builds the machine boundary the commands operate on.
var newEnv = system.NewReal

// newRootCmd assembles the `configs-cli` command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "configs-cli",
		Short:         "Idempotent dotfiles and development environment setup",
		SilenceUsage:  true,
		SilenceErrors: true,

		// Runs before any subcommand.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return printUsage(cmd)
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	root.AddCommand(newSetupCmd(), newSourceCmd(), newStatusCmd())
	root.SetHelpCommand(newHelpCmd())
	return root
}

// Execute parses the command line and runs the selected command.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}
