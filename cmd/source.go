package cmd

import (
	"fmt"
	"os"

	"configs-cli/internal/config"
	"configs-cli/internal/logger"
	"configs-cli/internal/shell"
	"github.com/spf13/cobra"
)

// newSourceCmd prints the commands that load the linked startup file into the
// running shell. It never fails: without a resolvable home directory it falls
// back to $HOME, then to "~".
func newSourceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "source",
		Short: "Print the commands that load the new configuration into this shell",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), shell.SourceCommands(sourceHome(), config.Default().Shell.RCFile))
		},
	}
}

// sourceHome picks the home directory shown in the source hint.
func sourceHome() string {
	env, err := newEnv()
	if err == nil && env.Home != "" {
		return env.Home
	}
	logger.Debug("[DEBUG] Could not resolve home directory: %v\n", err)

	// Fall back to the environment, then to the shell's own expansion.
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	return "~"
}
