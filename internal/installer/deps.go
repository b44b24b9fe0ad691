package installer

import (
	"context"
	"fmt"
	"strings"

	"configs-cli/internal/config"
	"configs-cli/internal/logger"
	"configs-cli/internal/system"
	"go.trai.ch/zerr"
)

// ErrPackageManager is returned when a package-manager invocation fails.
var ErrPackageManager = zerr.New("package manager failed")

// InstallDependencies installs the platform's dependency set and returns the
// packages it asked the package manager to install.
//
// Only Arch filters the set down to what is missing; Ubuntu/Debian and macOS
// hand the full list to the package manager, Windows installs each package on
// its own. Any failing invocation aborts the whole install.
func InstallDependencies(ctx context.Context, env *system.Env, platform config.Platform, deps config.Dependencies) ([]string, error) {
	pkgs := deps.PackagesFor(platform)
	logger.Debug("[DEBUG] Dependency set for %s: %s\n", platform, strings.Join(pkgs, " "))

	switch platform {
	case config.Ubuntu:
		logger.Info("[INFO] Installing dependencies on Ubuntu/Debian...\n")
		reportPresent(env, deps, pkgs)
		if err := run(ctx, env, "sudo", "apt-get", "update"); err != nil {
			return nil, err
		}
		if err := run(ctx, env, "sudo", append([]string{"apt-get", "install", "-y"}, pkgs...)...); err != nil {
			return nil, err
		}
		return pkgs, nil

	case config.Arch:
		logger.Info("[INFO] Installing dependencies on Arch Linux...\n")
		return installArch(ctx, env, pkgs, deps.Arch.Gems)

	case config.MacOS:
		logger.Info("[INFO] Installing dependencies on macOS using Homebrew...\n")
		reportPresent(env, deps, pkgs)
		if err := run(ctx, env, "brew", "update"); err != nil {
			return nil, err
		}
		if err := run(ctx, env, "brew", append([]string{"install"}, pkgs...)...); err != nil {
			return nil, err
		}
		return pkgs, nil

	case config.Windows:
		logger.Info("[INFO] Installing dependencies on Windows...\n")
		for _, pkg := range pkgs {
			if err := run(ctx, env, "choco", "install", pkg, "-y"); err != nil {
				return nil, err
			}
		}
		return pkgs, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedPlatform, platform)
	}
}

// installArch queries the package database for every candidate, installs only
// the missing ones and then the user-local gems.
func installArch(ctx context.Context, env *system.Env, pkgs []string, gems []config.Gem) ([]string, error) {
	var missing []string
	for _, pkg := range pkgs {
		// pacman -Q exits non-zero for unknown packages; its output is only logged.
		out, err := env.Runner.Output(ctx, "pacman", "-Q", pkg)
		if err != nil {
			logger.Debug("[DEBUG] %s is not installed\n", pkg)
			missing = append(missing, pkg)
			continue
		}
		logger.Info("[INFO] %s is already installed (%s). Skipping.\n", pkg, strings.TrimSpace(string(out)))
	}

	if len(missing) > 0 {
		args := append([]string{"pacman", "-S", "--needed", "--noconfirm"}, missing...)
		if err := run(ctx, env, "sudo", args...); err != nil {
			return nil, err
		}
	} else {
		logger.Info("[INFO] All Arch packages are already installed\n")
	}

	for _, gem := range gems {
		// A gem whose command already resolves was installed earlier.
		if gem.Command != "" {
			if path, err := env.Runner.LookPath(gem.Command); err == nil {
				logger.Info("[INFO] %s is already installed at %s. Skipping.\n", gem.Name, path)
				continue
			}
		}
		logger.Info("[INFO] Installing %s gem...\n", gem.Name)
		if err := run(ctx, env, "gem", "install", gem.Name, "--user-install"); err != nil {
			return nil, err
		}
	}
	return missing, nil
}

// reportPresent logs which packages already resolve on the search path. It is
// informational only: those platforms still receive the full list.
func reportPresent(env *system.Env, deps config.Dependencies, pkgs []string) {
	for _, pkg := range pkgs {
		bin := deps.BinaryFor(pkg)
		if path, err := env.Runner.LookPath(bin); err == nil {
			logger.Debug("[DEBUG] %s already present at %s\n", pkg, path)
		}
	}
}

func run(ctx context.Context, env *system.Env, name string, args ...string) error {
	if err := env.Runner.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrPackageManager, name, strings.Join(args, " "), err)
	}
	return nil
}
