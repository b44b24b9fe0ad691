package fileutil

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const localBin = `export PATH="$HOME/.local/bin:$PATH"`

func TestEnsureLine(t *testing.T) {
	t.Run("appends_missing_line", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/repo/zshrc", []byte("plugins=(git)"), 0o644))

		assert.True(t, EnsureLine(fs, "/repo/zshrc", localBin))

		data, err := afero.ReadFile(fs, "/repo/zshrc")
		require.NoError(t, err)
		assert.Equal(t, "plugins=(git)\n"+localBin+"\n", string(data))
	})

	t.Run("idempotent", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/repo/zshrc", []byte("# zshrc\n"), 0o644))

		assert.True(t, EnsureLine(fs, "/repo/zshrc", localBin))
		first, err := afero.ReadFile(fs, "/repo/zshrc")
		require.NoError(t, err)

		assert.False(t, EnsureLine(fs, "/repo/zshrc", localBin))
		second, err := afero.ReadFile(fs, "/repo/zshrc")
		require.NoError(t, err)

		assert.Equal(t, string(first), string(second))
		assert.Equal(t, 1, strings.Count(string(second), localBin))
	})

	t.Run("substring_of_longer_line_counts_as_present", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		existing := `export PATH="/opt/bin:$PATH" # export PATH="/opt`
		require.NoError(t, afero.WriteFile(fs, "/rc", []byte(existing), 0o644))

		assert.False(t, EnsureLine(fs, "/rc", `export PATH="/opt`))

		data, err := afero.ReadFile(fs, "/rc")
		require.NoError(t, err)
		assert.Equal(t, existing, string(data))
	})

	t.Run("missing_file_is_not_fatal", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		assert.False(t, EnsureLine(fs, "/does/not/exist", localBin))

		exists, err := afero.Exists(fs, "/does/not/exist")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestCopyFileAndSameContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/home/u/.zshrc", []byte("alias ll='ls -l'\n"), 0o600))

	require.NoError(t, CopyFile(fs, "/home/u/.zshrc", "/home/u/backup/.zshrc"))

	same, err := SameContent(fs, "/home/u/.zshrc", "/home/u/backup/.zshrc")
	require.NoError(t, err)
	assert.True(t, same)

	info, err := fs.Stat("/home/u/backup/.zshrc")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())

	require.NoError(t, afero.WriteFile(fs, "/home/u/.zshrc", []byte("changed\n"), 0o600))
	same, err = SameContent(fs, "/home/u/.zshrc", "/home/u/backup/.zshrc")
	require.NoError(t, err)
	assert.False(t, same)

	_, err = SameContent(fs, "/home/u/.zshrc", "/nope")
	assert.Error(t, err)
}

func TestExistsAndIsDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/u/.oh-my-zsh", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/home/u/.zshrc", nil, 0o644))

	assert.True(t, IsDir(fs, "/home/u/.oh-my-zsh"))
	assert.False(t, IsDir(fs, "/home/u/.zshrc"))
	assert.True(t, Exists(fs, "/home/u/.zshrc"))
	assert.False(t, Exists(fs, "/home/u/.bashrc"))
}
