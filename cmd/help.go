package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const usageText = `configs-cli - idempotent dotfiles and development environment setup

Usage:
  configs-cli <command> [flags]

Commands:
  setup    Install dependencies, Oh My Zsh and link the dotfiles
  source   Print the commands that load the new configuration
  status   Show the last recorded setup run
  help     Show this message

Setup flags:
  --system string     Target platform: ubuntu (debian), arch (archlinux), macos (mac) or windows [required]
  --repo string       Path of the configs repository (default $CONFIGS_REPO or ~/.configs)
  --repo-url string   Clone the repository from this URL when it is missing
  -c, --config file   YAML file overriding the built-in configuration

Global flags:
  --debug             Enable debug logging

Examples:
  configs-cli setup --system arch
  configs-cli setup --system macos --repo ~/src/configs --repo-url https://github.com/me/configs.git
  configs-cli source
`

// printUsage writes the static usage text to the command's output.
func printUsage(cmd *cobra.Command) error {
	_, err := fmt.Fprint(cmd.OutOrStdout(), usageText)
	return err
}

// newHelpCmd replaces cobra's generated help command with the static usage text.
// Arguments such as `help setup` are accepted and ignored.
func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "Show usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printUsage(cmd)
		},
	}
}
