package cmd

import (
	"os"
	"path/filepath"

	"configs-cli/internal/config"
	"configs-cli/internal/setup"
	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
)

// repoEnvVar overrides the default repository location.
const repoEnvVar = "CONFIGS_REPO"

// statePath returns the location of the state file.
var statePath = func() string {
	return filepath.Join(xdg.StateHome, "configs-cli", "state.json")
}

// defaultRepoDir is $CONFIGS_REPO, or ~/.configs.
func defaultRepoDir() string {
	if dir := os.Getenv(repoEnvVar); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".configs"
	}
	return filepath.Join(home, ".configs")
}

// newSetupCmd builds `setup`, which runs the whole convergence pipeline for one platform.
func newSetupCmd() *cobra.Command {
	var (
		system     string
		repoDir    string
		repoURL    string
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Install dependencies, the shell framework and link the dotfiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reject unknown platforms before touching the machine.
			platform, err := config.ParsePlatform(system)
			if err != nil {
				return err
			}

			env, err := newEnv()
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig(env.Fs, configFile)
			if err != nil {
				return err
			}

			_, err = setup.Run(cmd.Context(), env, setup.Options{
				Platform:  platform,
				RepoDir:   repoDir,
				RepoURL:   repoURL,
				Config:    cfg,
				StatePath: statePath(),
			})
			return err
		},
	}

	cmd.Flags().StringVar(&system, "system", "", "Target platform: ubuntu, arch, macos or windows")
	cmd.Flags().StringVar(&repoDir, "repo", defaultRepoDir(), "Path of the configs repository (env "+repoEnvVar+")")
	cmd.Flags().StringVar(&repoURL, "repo-url", "", "Clone the repository from this URL when it is missing")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML file overriding the built-in configuration")
	_ = cmd.MarkFlagRequired("system")
	return cmd
}
