package main

import (
	"os"

	"configs-cli/cmd"
	"configs-cli/internal/logger"
)

// main delegates to the cobra command tree. Any error is reported and turned
// into exit status 1.
//
// configs-cli converges a workstation onto a dotfiles repository:
//   - makes sure the repository is present, cloning it when a URL is given
//   - installs the base packages with the platform package manager
//   - installs Oh My Zsh with its themes and plugins
//   - replaces the managed config paths under $HOME with symlinks into the repository
//   - switches the login shell to zsh
//
// Every step checks before it mutates, so running it again is harmless.
func main() {
	if err := cmd.Execute(); err != nil {
		logger.Fatal(err)
		os.Exit(1)
	}
}
