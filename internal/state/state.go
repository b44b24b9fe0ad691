// Package state records the outcome of the last successful setup run.
package state

import (
	"encoding/json"
	"path/filepath"
	"time"

	"configs-cli/internal/logger"
	"github.com/spf13/afero"
)

// State is the persisted summary of a setup run.
type State struct {
	System       string            `json:"system"`        // platform the run targeted
	RepoDir      string            `json:"repo_dir"`      // absolute repository path
	Links        map[string]string `json:"links"`         // destination -> source
	Packages     []string          `json:"packages"`      // packages handed to the package manager
	ShellChanged bool              `json:"shell_changed"` // chsh was invoked
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Empty reports whether no run has been recorded.
func (s *State) Empty() bool {
	return s.UpdatedAt.IsZero()
}

// LoadState reads the state file at path. A missing or unreadable file yields
// an empty State.
func LoadState(fs afero.Fs, path string) *State {
	st := &State{Links: make(map[string]string)}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		logger.Debug("[DEBUG] No state at %s: %v\n", path, err)
		return st
	}
	if err := json.Unmarshal(data, st); err != nil {
		logger.Warn("[WARN] Ignoring corrupt state file %s: %v\n", path, err)
		return &State{Links: make(map[string]string)}
	}
	if st.Links == nil {
		st.Links = make(map[string]string)
	}
	return st
}

// SaveState writes st to path as indented JSON. Errors are logged, not returned.
func SaveState(fs afero.Fs, path string, st *State) {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(data))

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Error("[ERROR] Failed to create state directory %s: %v\n", filepath.Dir(path), err)
		return
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
