package system

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"configs-cli/internal/logger"
)

// ExecRunner runs commands with os/exec, logging each invocation at debug level.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args, attaching the process to the current terminal so
// package managers can prompt for passwords (sudo) and show progress.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	return cmd.Run()
}

// Output executes name with args and returns its standard output. Nothing
// reaches the terminal; standard error of a failed command is logged at debug level.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))

	// With Stderr unset, exec captures it into the returned *exec.ExitError.
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		logger.Debug("[DEBUG] %s: %s\n", name, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return out, err
}

// LookPath searches the executable search path.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
