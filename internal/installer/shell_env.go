package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"configs-cli/internal/config"
	"configs-cli/internal/fileutil"
	"configs-cli/internal/logger"
	"configs-cli/internal/system"
	"github.com/spf13/afero"
	"go.trai.ch/zerr"
)

var (
	// ErrShellMissing is returned when the shell binary cannot be executed.
	ErrShellMissing = zerr.New("shell is not properly installed")

	// ErrDownload is returned when every installer URL failed.
	ErrDownload = zerr.New("failed to download shell framework installer")

	// ErrInstallerScript is returned when the downloaded installer exits with an error.
	ErrInstallerScript = zerr.New("shell framework installer failed")

	// ErrExtra is returned when a theme or plugin could not be cloned.
	ErrExtra = zerr.New("failed to install shell extra")
)

// ShellResult summarizes what InstallShellEnvironment did.
type ShellResult struct {
	Installed bool     // the framework installer ran
	Restored  bool     // the pre-install startup file was put back
	Extras    []string // extras cloned during this run
}

// InstallShellEnvironment installs the shell framework unless its marker
// directory already exists, then makes sure every configured extra is present.
func InstallShellEnvironment(ctx context.Context, env *system.Env, sh config.Shell) (ShellResult, error) {
	var res ShellResult

	marker := filepath.Join(env.Home, sh.MarkerDir)
	if fileutil.IsDir(env.Fs, marker) {
		logger.Info("[INFO] Oh My Zsh is already installed\n")
	} else {
		restored, err := installFramework(ctx, env, sh)
		if err != nil {
			return res, err
		}
		res.Installed = true
		res.Restored = restored
	}

	cloned, err := ensureExtras(ctx, env, sh)
	res.Extras = cloned
	return res, err
}

// installFramework runs the backup, download, install and reconcile sequence.
// It reports whether the original startup file was restored.
func installFramework(ctx context.Context, env *system.Env, sh config.Shell) (bool, error) {
	logger.Info("[INFO] Installing Oh My Zsh...\n")

	rcPath := filepath.Join(env.Home, sh.RCFile)
	backupPath := rcPath + sh.BackupSuffix
	if sh.BackupSuffix == "" {
		backupPath = rcPath + ".backup"
	}

	backupPath, hadBackup, err := backupStartupFile(env, rcPath, backupPath)
	if err != nil {
		return false, err
	}

	// The installer needs the shell itself; fail before downloading anything.
	version, err := env.Runner.Output(ctx, sh.Binary, "--version")
	if err != nil {
		return false, fmt.Errorf("%w: %s --version: %v", ErrShellMissing, sh.Binary, err)
	}
	logger.Info("[INFO] Found %s: %s\n", sh.Binary, strings.TrimSpace(string(version)))

	scriptName := sh.ScriptName
	if scriptName == "" {
		scriptName = "install_ohmyzsh.sh"
	}
	script := filepath.Join(env.TempDir, scriptName)
	if err := env.Fs.MkdirAll(env.TempDir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", env.TempDir, err)
	}
	// The script is removed whether or not the install succeeds.
	defer func() {
		if err := env.Fs.Remove(script); err != nil && fileutil.Exists(env.Fs, script) {
			logger.Warn("[WARN] Failed to remove installer %s: %v\n", script, err)
		}
	}()

	if err := fetchInstaller(ctx, env, sh.InstallerURL, script); err != nil {
		return false, err
	}

	if err := env.Fs.Chmod(script, 0o755); err != nil {
		return false, fmt.Errorf("failed to mark %s executable: %w", script, err)
	}

	// --unattended keeps the installer from switching shells or starting zsh;
	// the shell selector handles the login shell later.
	logger.Info("[INFO] Running Oh My Zsh installer...\n")
	if err := env.Runner.Run(ctx, script, "--unattended"); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInstallerScript, err)
	}

	return reconcileStartupFile(env, rcPath, backupPath, hadBackup)
}

// backupStartupFile copies the user's startup file aside and returns where the
// copy went. A startup file that is a symlink already points into the dotfiles
// repository, so there is nothing of the user's to keep. An existing backup is
// never overwritten: the copy goes to the first free "<backup>.N" instead.
func backupStartupFile(env *system.Env, rcPath, backupPath string) (string, bool, error) {
	info, err := lstat(env.Fs, rcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return backupPath, false, nil
		}
		return backupPath, false, fmt.Errorf("failed to inspect %s: %w", rcPath, err)
	}

	// Already managed by the dotfiles link.
	if info.Mode()&os.ModeSymlink != 0 {
		logger.Info("[INFO] %s is a symlink; no backup needed\n", rcPath)
		return backupPath, false, nil
	}

	// Earlier backups may be the only copy of the user's original file.
	dest := backupPath
	for n := 1; fileutil.Exists(env.Fs, dest); n++ {
		dest = fmt.Sprintf("%s.%d", backupPath, n)
	}

	if err := fileutil.CopyFile(env.Fs, rcPath, dest); err != nil {
		return backupPath, false, fmt.Errorf("failed to back up %s: %w", rcPath, err)
	}
	logger.Info("[INFO] Backed up %s to %s\n", rcPath, dest)
	return dest, true, nil
}

// lstat stats path without following a final symlink when fs supports it.
func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}

// fetchInstaller tries each URL in order and stops at the first success.
func fetchInstaller(ctx context.Context, env *system.Env, urls []string, dest string) error {
	var errs []error
	for i, url := range urls {
		if i == 0 {
			logger.Info("[INFO] Downloading Oh My Zsh installer...\n")
		} else {
			logger.Warn("[WARN] Failed to download from primary URL, trying backup %s...\n", url)
		}
		err := env.Downloader.Download(ctx, url, dest)
		if err == nil {
			return nil
		}
		logger.Debug("[DEBUG] Download of %s failed: %v\n", url, err)
		errs = append(errs, err)
	}
	return errors.Join(append([]error{ErrDownload}, errs...)...)
}

// reconcileStartupFile decides what to keep after the framework installer wrote
// its own startup file. The generated file is always dropped because the
// dotfiles link replaces it, except when it is byte-identical to the backup: then
// the backup is moved back so the user's file is untouched. The comparison
// always happens before anything is removed.
func reconcileStartupFile(env *system.Env, rcPath, backupPath string, hadBackup bool) (bool, error) {
	if !fileutil.Exists(env.Fs, rcPath) {
		if hadBackup {
			if err := env.Fs.Rename(backupPath, rcPath); err != nil {
				return false, fmt.Errorf("failed to restore %s: %w", rcPath, err)
			}
			logger.Info("[INFO] Restored %s from backup\n", rcPath)
			return true, nil
		}
		return false, nil
	}

	if hadBackup {
		same, err := fileutil.SameContent(env.Fs, rcPath, backupPath)
		if err != nil {
			return false, fmt.Errorf("failed to compare %s with backup: %w", rcPath, err)
		}
		if same {
			if err := env.Fs.Rename(backupPath, rcPath); err != nil {
				return false, fmt.Errorf("failed to restore %s: %w", rcPath, err)
			}
			logger.Info("[INFO] Installer left %s unchanged; restored backup\n", rcPath)
			return true, nil
		}
	}

	if err := env.Fs.Remove(rcPath); err != nil {
		return false, fmt.Errorf("failed to remove generated %s: %w", rcPath, err)
	}
	if hadBackup {
		logger.Info("[INFO] Removed generated %s; previous version kept at %s\n", rcPath, backupPath)
	} else {
		logger.Info("[INFO] Removed generated %s\n", rcPath)
	}
	return false, nil
}

// ensureExtras clones every configured theme/plugin whose directory is missing.
func ensureExtras(ctx context.Context, env *system.Env, sh config.Shell) ([]string, error) {
	custom := env.Var("ZSH_CUSTOM")
	if custom == "" {
		custom = filepath.Join(env.Home, sh.MarkerDir, "custom")
	}

	var cloned []string
	for _, extra := range sh.Extras {
		dest := filepath.Join(custom, extra.Kind, extra.Name)

		// An existing checkout is left alone, whatever revision it is at.
		if fileutil.IsDir(env.Fs, dest) {
			logger.Debug("[DEBUG] %s already present at %s\n", extra.Name, dest)
			continue
		}

		logger.Info("[INFO] Installing %s into %s...\n", extra.Name, dest)
		if err := env.Runner.Run(ctx, "git", "clone", "--depth=1", extra.URL, dest); err != nil {
			return cloned, fmt.Errorf("%w: %s: %v", ErrExtra, extra.Name, err)
		}
		cloned = append(cloned, extra.Name)
	}
	return cloned, nil
}
