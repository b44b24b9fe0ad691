// Package system is the boundary between configs-cli and the machine it configures.
//
// Everything the installers touch outside the process (files, commands, network,
// the user record) goes through Env so tests can swap in an in-memory filesystem
// and recording fakes instead of mutating a real home directory.
package system

import (
	"context"
	"os"
	"os/user"

	"github.com/spf13/afero"
)

// Runner executes external commands.
//
//go:generate mockgen -source=system.go -destination=mocks/mock_system.go -package=mocks
type Runner interface {
	// Run executes the command with the terminal attached and waits for it.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes the command and returns its standard output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// LookPath searches the executable search path for name.
	LookPath(name string) (string, error)
}

// Downloader fetches a remote resource into a file.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// Env bundles the injected collaborators and the identity of the user being configured.
type Env struct {
	Fs         afero.Fs
	Runner     Runner
	Downloader Downloader
	Home       string
	Username   string
	TempDir    string
	Getenv     func(string) string
}

// NewReal returns an Env backed by the operating system.
func NewReal() (*Env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	username := os.Getenv("USER")
	if u, err := user.Current(); err == nil {
		username = u.Username
	}

	fs := afero.NewOsFs()
	return &Env{
		Fs:         fs,
		Runner:     NewExecRunner(),
		Downloader: NewHTTPDownloader(fs),
		Home:       home,
		Username:   username,
		TempDir:    os.TempDir(),
		Getenv:     os.Getenv,
	}, nil
}

// Var returns the value of an environment variable, tolerating a nil Getenv.
func (e *Env) Var(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}
