// Package shell switches the user's login shell and prints how to load the new
// configuration into a running session.
package shell

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"configs-cli/internal/config"
	"configs-cli/internal/logger"
	"configs-cli/internal/system"
	"go.trai.ch/zerr"
)

// ErrChangeShell is returned when the shell-change command fails.
var ErrChangeShell = zerr.New("failed to change login shell")

// Select makes binary the login shell of env.Username. It reports whether the
// shell-change command was invoked; a binary that is not on the search path is
// only warned about.
func Select(ctx context.Context, env *system.Env, platform config.Platform, binary string) (bool, error) {
	desired, err := env.Runner.LookPath(binary)
	if err != nil {
		logger.Warn("[WARN] %s not found; please install it!\n", binary)
		return false, nil
	}

	// Compare exact paths; /bin/zsh and /usr/bin/zsh count as different.
	current := CurrentShell(ctx, env, platform)
	logger.Debug("[DEBUG] Current login shell %q, desired %q\n", current, desired)
	if current == desired {
		logger.Info("[INFO] Login shell is already %s\n", desired)
		return false, nil
	}

	logger.Info("[INFO] Changing login shell to %s...\n", desired)
	if err := env.Runner.Run(ctx, "chsh", "-s", desired); err != nil {
		return false, fmt.Errorf("%w: chsh -s %s: %v", ErrChangeShell, desired, err)
	}
	return true, nil
}

// CurrentShell reads the login shell from the user account record, falling back
// to $SHELL when the record cannot be queried.
func CurrentShell(ctx context.Context, env *system.Env, platform config.Platform) string {
	var (
		sh  string
		err error
	)
	if platform == config.MacOS {
		sh, err = fromDirectoryService(ctx, env)
	} else {
		sh, err = fromPasswd(ctx, env)
	}
	if err != nil || sh == "" {
		logger.Debug("[DEBUG] User record lookup failed (%v); using $SHELL\n", err)
		return env.Var("SHELL")
	}
	return sh
}

// fromDirectoryService parses "UserShell: /bin/zsh".
func fromDirectoryService(ctx context.Context, env *system.Env) (string, error) {
	out, err := env.Runner.Output(ctx, "dscl", ".", "-read", "/Users/"+env.Username, "UserShell")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(out), "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), "UserShell:"); ok {
			return strings.TrimSpace(v), nil
		}
	}
	return "", nil
}

// fromPasswd takes the 7th field of the passwd entry.
func fromPasswd(ctx context.Context, env *system.Env) (string, error) {
	out, err := env.Runner.Output(ctx, "getent", "passwd", env.Username)
	if err != nil {
		return "", err
	}
	fields := strings.Split(strings.TrimSpace(string(out)), ":")
	if len(fields) < 7 {
		return "", fmt.Errorf("malformed passwd entry %q", strings.TrimSpace(string(out)))
	}
	return fields[6], nil
}

// SourceCommands returns the commands that load the new shell configuration
// into the current session.
func SourceCommands(home, rcFile string) string {
	var b strings.Builder
	fmt.Fprintln(&b, "To load the new configuration into this shell, run:")
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "    source %s\n", filepath.Join(home, rcFile))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "If newly installed commands are not found, refresh the command cache with:")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "    rehash")
	return b.String()
}
