// Package linker converges the home directory onto the dotfiles repository.
//
// Every managed destination ends up as a symlink to the absolute path of its
// repository source, whatever was there before: nothing, a stale link, a regular
// file or a whole directory tree.
package linker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"configs-cli/internal/config"
	"configs-cli/internal/fileutil"
	"configs-cli/internal/logger"
	"configs-cli/internal/system"
	"github.com/spf13/afero"
	"go.trai.ch/zerr"
)

var (
	// ErrRepoLayout is returned when the repository lacks a directory the link mapping needs.
	ErrRepoLayout = zerr.New("repository is missing an expected directory")

	// ErrNoSymlinks is returned when the filesystem cannot create symbolic links.
	ErrNoSymlinks = zerr.New("filesystem does not support symlinks")
)

// Result maps each destination that was linked to its absolute source.
type Result struct {
	Links   map[string]string
	Skipped []string
}

// Converge links every entry of links from repoDir into env.Home. The layout of
// the repository is validated before anything is touched.
func Converge(env *system.Env, repoDir string, links []config.Link) (Result, error) {
	res := Result{Links: make(map[string]string)}

	if _, ok := env.Fs.(afero.Symlinker); !ok {
		return res, ErrNoSymlinks
	}

	root, err := filepath.Abs(repoDir)
	if err != nil {
		return res, zerr.Wrap(err, "failed to resolve repository path")
	}

	if err := checkLayout(env.Fs, root, links); err != nil {
		return res, err
	}

	// Every destination is checked before the first one is replaced.
	if err := checkDestinations(env, root, links); err != nil {
		return res, err
	}

	for _, l := range links {
		src := filepath.Join(root, l.Source)
		dest := filepath.Join(env.Home, l.Dest)

		// Optional sources (picom) may legitimately be absent from a repository.
		if !fileutil.Exists(env.Fs, src) {
			if l.Optional {
				logger.Warn("[WARN] Skipping %s: %s does not exist\n", l.Name, src)
				res.Skipped = append(res.Skipped, l.Name)
				continue
			}
			logger.Warn("[WARN] %s does not exist; linking %s anyway\n", src, dest)
		}

		if err := Link(env.Fs, src, dest); err != nil {
			return res, fmt.Errorf("failed to link %s: %w", l.Name, err)
		}
		res.Links[dest] = src
		logger.Info("[INFO] Created symlink: %s -> %s\n", dest, src)
	}
	return res, nil
}

// Link replaces whatever is at dest with a symlink to src. Links are removed
// without following them; real directories are removed recursively.
func Link(base afero.Fs, src, dest string) error {
	fs, ok := base.(afero.Symlinker)
	if !ok {
		return ErrNoSymlinks
	}

	if err := base.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}

	// Lstat so an existing link is inspected itself, not whatever it points to.
	info, _, err := fs.LstatIfPossible(dest)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink != 0:
		logger.Debug("[DEBUG] Removing existing symlink %s\n", dest)
		if err := base.Remove(dest); err != nil {
			return err
		}
	case err == nil && info.IsDir():
		logger.Debug("[DEBUG] Removing existing directory %s\n", dest)
		if err := base.RemoveAll(dest); err != nil {
			return err
		}
	case err == nil:
		logger.Debug("[DEBUG] Removing existing file %s\n", dest)
		if err := base.Remove(dest); err != nil {
			return err
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	// dest is free now; point it at the absolute source.
	return fs.SymlinkIfPossible(src, dest)
}

// Target returns where the symlink at path points.
func Target(base afero.Fs, path string) (string, error) {
	fs, ok := base.(afero.LinkReader)
	if !ok {
		return "", ErrNoSymlinks
	}
	return fs.ReadlinkIfPossible(path)
}

// checkLayout verifies that every top-level directory the sources live in exists.
func checkLayout(fs afero.Fs, root string, links []config.Link) error {
	if !fileutil.IsDir(fs, root) {
		return fmt.Errorf("%w: %s", ErrRepoLayout, root)
	}

	dirs := make(map[string]bool)
	for _, l := range links {
		top := strings.SplitN(filepath.ToSlash(filepath.Clean(l.Source)), "/", 2)[0]
		if top != l.Source {
			dirs[top] = true
		}
	}

	names := make([]string, 0, len(dirs))
	for d := range dirs {
		names = append(names, d)
	}
	sort.Strings(names)

	for _, d := range names {
		path := filepath.Join(root, d)
		if !fileutil.IsDir(fs, path) {
			return fmt.Errorf("%w: %s does not exist. Please check your repository", ErrRepoLayout, path)
		}
	}
	return nil
}

// maxLinkHops bounds symlink resolution so a loop cannot hang the run.
const maxLinkHops = 255

// checkDestinations refuses destinations that, once their parent directories
// are resolved, land inside the repository itself. Replacing such a path would
// delete repository content and leave a link pointing at itself.
func checkDestinations(env *system.Env, root string, links []config.Link) error {
	realRoot, err := resolve(env.Fs, root)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve repository path")
	}

	for _, l := range links {
		dest := filepath.Join(env.Home, l.Dest)
		parent, err := resolve(env.Fs, filepath.Dir(dest))
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", dest, err)
		}
		resolved := filepath.Join(parent, filepath.Base(dest))
		if within(realRoot, resolved) {
			return fmt.Errorf("%w: %s resolves to %s inside the repository", ErrRepoLayout, dest, resolved)
		}
	}
	return nil
}

// resolve follows symlinks in every component of path. Components that do not
// exist yet are kept as written.
func resolve(fs afero.Fs, path string) (string, error) {
	lst, ok := fs.(afero.Lstater)
	if !ok {
		return filepath.Clean(path), nil
	}

	path = filepath.Clean(path)
	vol := filepath.VolumeName(path)
	pending := strings.Split(strings.TrimPrefix(path[len(vol):], string(filepath.Separator)), string(filepath.Separator))
	cur := vol + string(filepath.Separator)

	for hops := 0; len(pending) > 0; {
		name := pending[0]
		pending = pending[1:]
		if name == "" || name == "." {
			continue
		}
		next := filepath.Join(cur, name)

		info, _, err := lst.LstatIfPossible(next)
		if errors.Is(err, os.ErrNotExist) {
			// Nothing below a missing component can be a link.
			return filepath.Join(append([]string{next}, pending...)...), nil
		}
		if err != nil {
			return "", err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			cur = next
			continue
		}

		if hops++; hops > maxLinkHops {
			return "", fmt.Errorf("too many levels of symbolic links at %s", next)
		}
		target, err := Target(fs, next)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(cur, target)
		}

		// Restart from the link target with the remaining components appended.
		tvol := filepath.VolumeName(target)
		rest := strings.Split(strings.TrimPrefix(filepath.Clean(target)[len(tvol):], string(filepath.Separator)), string(filepath.Separator))
		pending = append(rest, pending...)
		cur = tvol + string(filepath.Separator)
	}
	return cur, nil
}

// within reports whether path is root or lies below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// EnsurePathLines appends the static PATH lines and, when enabled, the
// discovered Ruby gem bin directories to the shell startup file at rcSource.
// Discovery failures are logged and skipped.
func EnsurePathLines(ctx context.Context, env *system.Env, rcSource string, lines config.PathLines) {
	for _, line := range lines.Static {
		fileutil.EnsureLine(env.Fs, rcSource, line)
	}
	if !lines.RubyGems {
		return
	}

	for _, dir := range gemBinDirs(ctx, env) {
		fileutil.EnsureLine(env.Fs, rcSource, pathLine(dir))
	}
}

// gemBinDirs finds the gem bin directories: the one reported by the gem
// environment and, if it exists, the user-local install directory for the
// active Ruby version.
func gemBinDirs(ctx context.Context, env *system.Env) []string {
	var dirs []string

	out, err := env.Runner.Output(ctx, "gem", "environment", "gemdir")
	if gemDir := strings.TrimSpace(string(out)); err == nil && gemDir != "" {
		dir := filepath.Join(gemDir, "bin")
		logger.Info("[INFO] Adding Ruby gems bin directory to PATH (from gem environment): %s\n", dir)
		dirs = append(dirs, dir)
	} else {
		logger.Warn("[WARN] Skipping gem environment PATH update: %v\n", describe(err, "empty gemdir"))
	}

	out, err = env.Runner.Output(ctx, "ruby", "-e", "print RUBY_VERSION")
	version := strings.TrimSpace(string(out))
	if err != nil || version == "" {
		logger.Warn("[WARN] Skipping local gem PATH update: %v\n", describe(err, "empty ruby version"))
		return dirs
	}

	local := filepath.Join(env.Home, ".local", "share", "gem", "ruby", version, "bin")
	if fileutil.IsDir(env.Fs, local) {
		logger.Info("[INFO] Adding local Ruby gems bin directory to PATH: %s\n", local)
		dirs = append(dirs, local)
	} else {
		logger.Debug("[DEBUG] No local gem directory at %s\n", local)
	}
	return dirs
}

func pathLine(dir string) string {
	return fmt.Sprintf(`export PATH="%s:$PATH"`, dir)
}

func describe(err error, fallback string) any {
	if err != nil {
		return err
	}
	return fallback
}
