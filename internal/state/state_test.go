package state

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statePath = "/home/tester/.local/state/configs-cli/state.json"

func TestLoadState_Missing(t *testing.T) {
	st := LoadState(afero.NewMemMapFs(), statePath)
	require.NotNil(t, st)
	assert.True(t, st.Empty())
	assert.NotNil(t, st.Links)
}

func TestLoadState_Corrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, statePath, []byte("{not json"), 0o644))

	st := LoadState(fs, statePath)
	assert.True(t, st.Empty())
	assert.NotNil(t, st.Links)
}

func TestSaveState_CreatesDirectoryAndRoundTrips(t *testing.T) {
	fs := afero.NewMemMapFs()
	when := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	SaveState(fs, statePath, &State{
		System:       "arch",
		RepoDir:      "/home/tester/.configs",
		Links:        map[string]string{"/home/tester/.zshrc": "/home/tester/.configs/dotfiles/zshrc"},
		Packages:     []string{"neovim"},
		ShellChanged: true,
		UpdatedAt:    when,
	})

	st := LoadState(fs, statePath)
	assert.False(t, st.Empty())
	assert.Equal(t, "arch", st.System)
	assert.Equal(t, "/home/tester/.configs/dotfiles/zshrc", st.Links["/home/tester/.zshrc"])
	assert.True(t, st.ShellChanged)
	assert.True(t, when.Equal(st.UpdatedAt))
}

func TestSaveState_WriteFailureIsNotFatal(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	assert.NotPanics(t, func() {
		SaveState(fs, statePath, &State{System: "macos"})
	})
}

func TestLoadState_NullLinks(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, statePath, []byte(`{"system":"ubuntu","links":null}`), 0o644))

	st := LoadState(fs, statePath)
	assert.Equal(t, "ubuntu", st.System)
	assert.NotNil(t, st.Links)
}
