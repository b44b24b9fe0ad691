// Package setup runs the full convergence pipeline behind `configs-cli setup`.
package setup

import (
	"context"
	"path/filepath"
	"time"

	"configs-cli/internal/config"
	"configs-cli/internal/installer"
	"configs-cli/internal/linker"
	"configs-cli/internal/logger"
	"configs-cli/internal/repo"
	"configs-cli/internal/shell"
	"configs-cli/internal/state"
	"configs-cli/internal/system"
)

// Options selects what a run converges.
type Options struct {
	Platform  config.Platform
	RepoDir   string
	RepoURL   string
	Config    config.Config
	StatePath string // empty disables state recording
}

// Run ensures the repository, installs dependencies and the shell framework,
// links the dotfiles and switches the login shell. The first failure aborts the
// run; every step is safe to repeat.
func Run(ctx context.Context, env *system.Env, opts Options) (*state.State, error) {
	cfg := opts.Config
	st := &state.State{System: string(opts.Platform), Links: make(map[string]string)}

	repoDir, err := repo.Ensure(ctx, env, opts.RepoDir, opts.RepoURL)
	if err != nil {
		return st, err
	}
	st.RepoDir = repoDir

	logger.Info("[INFO] Installing dependencies for %s...\n", opts.Platform)
	pkgs, err := installer.InstallDependencies(ctx, env, opts.Platform, cfg.Dependencies)
	if err != nil {
		return st, err
	}
	st.Packages = pkgs

	if opts.Platform.Unix() {
		if _, err := installer.InstallShellEnvironment(ctx, env, cfg.Shell); err != nil {
			return st, err
		}
	}

	// Link after the framework install so its generated startup file is replaced.
	res, err := linker.Converge(env, repoDir, cfg.Links)
	if err != nil {
		return st, err
	}
	st.Links = res.Links

	// PATH lines go into the repository copy, never through the symlink.
	if rc, ok := cfg.ShellRCLink(); ok {
		linker.EnsurePathLines(ctx, env, filepath.Join(repoDir, rc.Source), cfg.PathLines)
	}

	if opts.Platform.Unix() {
		changed, err := shell.Select(ctx, env, opts.Platform, cfg.Shell.Binary)
		if err != nil {
			return st, err
		}
		st.ShellChanged = changed
	}

	st.UpdatedAt = time.Now().UTC()
	if opts.StatePath != "" {
		state.SaveState(env.Fs, opts.StatePath, st)
	}

	logger.Info("[INFO] Setup complete. Run `configs-cli source` to load the new configuration.\n")
	return st, nil
}
