// Package systemtest provides recording fakes of the system collaborators for tests.
package systemtest

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"configs-cli/internal/system"
	"github.com/spf13/afero"
)

// Call is one recorded command invocation.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner records every command and answers from canned tables keyed by command line.
type Runner struct {
	Calls    []Call
	Paths    map[string]string       // LookPath answers; absent means not found
	Outputs  map[string]string       // Output answers
	Failures map[string]error        // commands that fail
	Hooks    map[string]func() error // side effects run before a Run/Output returns
}

// NewRunner returns an empty recording Runner.
func NewRunner() *Runner {
	return &Runner{
		Paths:    make(map[string]string),
		Outputs:  make(map[string]string),
		Failures: make(map[string]error),
		Hooks:    make(map[string]func() error),
	}
}

func (r *Runner) record(name string, args []string) (string, error) {
	c := Call{Name: name, Args: append([]string(nil), args...)}
	r.Calls = append(r.Calls, c)
	line := c.String()
	if hook, ok := r.Hooks[line]; ok {
		if err := hook(); err != nil {
			return line, err
		}
	}
	if err, ok := r.Failures[line]; ok {
		return line, err
	}
	return line, nil
}

// Run implements system.Runner.
func (r *Runner) Run(_ context.Context, name string, args ...string) error {
	_, err := r.record(name, args)
	return err
}

// Output implements system.Runner. Commands without a canned answer fail the
// way a missing executable would.
func (r *Runner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	line, err := r.record(name, args)
	if err != nil {
		return nil, err
	}
	out, ok := r.Outputs[line]
	if !ok {
		return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return []byte(out), nil
}

// LookPath implements system.Runner.
func (r *Runner) LookPath(name string) (string, error) {
	if p, ok := r.Paths[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Commands returns every recorded call as a command line.
func (r *Runner) Commands() []string {
	out := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		out = append(out, c.String())
	}
	return out
}

// Count returns how many times the exact command line was invoked.
func (r *Runner) Count(line string) int {
	n := 0
	for _, c := range r.Calls {
		if c.String() == line {
			n++
		}
	}
	return n
}

// Downloader serves canned bodies keyed by URL into an afero filesystem.
type Downloader struct {
	Fs        afero.Fs
	Bodies    map[string]string
	Requested []string
}

// NewDownloader returns a Downloader writing into fs.
func NewDownloader(fs afero.Fs) *Downloader {
	return &Downloader{Fs: fs, Bodies: make(map[string]string)}
}

// Download implements system.Downloader; unknown URLs fail.
func (d *Downloader) Download(_ context.Context, url, dest string) error {
	d.Requested = append(d.Requested, url)
	body, ok := d.Bodies[url]
	if !ok {
		return fmt.Errorf("GET %s: HTTP status 404", url)
	}
	return afero.WriteFile(d.Fs, dest, []byte(body), 0o644)
}

// NewEnv assembles a system.Env over fs with fresh fakes for user "tester".
func NewEnv(fs afero.Fs, home string) (*system.Env, *Runner, *Downloader) {
	runner := NewRunner()
	downloader := NewDownloader(fs)
	vars := map[string]string{"HOME": home}
	env := &system.Env{
		Fs:         fs,
		Runner:     runner,
		Downloader: downloader,
		Home:       home,
		Username:   "tester",
		TempDir:    "/tmp",
		Getenv:     func(key string) string { return vars[key] },
	}
	return env, runner, downloader
}
