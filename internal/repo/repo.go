// Package repo makes sure the dotfiles repository is present on disk.
package repo

import (
	"context"
	"fmt"
	"path/filepath"

	"configs-cli/internal/fileutil"
	"configs-cli/internal/logger"
	"configs-cli/internal/system"
	"go.trai.ch/zerr"
)

var (
	// ErrRepoMissing is returned when the repository is absent and no URL was given.
	ErrRepoMissing = zerr.New("configs repository not found")

	// ErrClone is returned when cloning the repository fails.
	ErrClone = zerr.New("failed to clone configs repository")
)

// Ensure returns the absolute path of the repository at path, cloning it from
// url first if it does not exist.
func Ensure(ctx context.Context, env *system.Env, path, url string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve repository path")
	}

	if fileutil.IsDir(env.Fs, abs) {
		logger.Info("[INFO] Using configs repository at %s\n", abs)
		return abs, nil
	}

	if url == "" {
		return "", fmt.Errorf("%w at %s; pass --repo-url to clone it", ErrRepoMissing, abs)
	}

	if err := env.Fs.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(abs), err)
	}

	logger.Info("[INFO] Cloning %s into %s...\n", url, abs)
	if err := env.Runner.Run(ctx, "git", "clone", url, abs); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrClone, url, err)
	}
	return abs, nil
}
