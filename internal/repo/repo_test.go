package repo

import (
	"context"
	"errors"
	"testing"

	"configs-cli/internal/system/systemtest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsure_ExistingRepoIsUsed(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/tester/.configs", 0o755))
	env, runner, _ := systemtest.NewEnv(fs, "/home/tester")

	path, err := Ensure(context.Background(), env, "/home/tester/.configs", "https://example.invalid/configs.git")
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.configs", path)
	assert.Empty(t, runner.Calls)
}

func TestEnsure_MissingRepoIsCloned(t *testing.T) {
	env, runner, _ := systemtest.NewEnv(afero.NewMemMapFs(), "/home/tester")

	path, err := Ensure(context.Background(), env, "/home/tester/.configs", "https://example.invalid/configs.git")
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.configs", path)
	assert.Equal(t, []string{
		"git clone https://example.invalid/configs.git /home/tester/.configs",
	}, runner.Commands())
}

func TestEnsure_MissingRepoWithoutURL(t *testing.T) {
	env, runner, _ := systemtest.NewEnv(afero.NewMemMapFs(), "/home/tester")

	_, err := Ensure(context.Background(), env, "/home/tester/.configs", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRepoMissing))
	assert.Empty(t, runner.Calls)
}

func TestEnsure_CloneFailure(t *testing.T) {
	env, runner, _ := systemtest.NewEnv(afero.NewMemMapFs(), "/home/tester")
	runner.Failures["git clone https://example.invalid/configs.git /home/tester/.configs"] = errors.New("exit status 128")

	_, err := Ensure(context.Background(), env, "/home/tester/.configs", "https://example.invalid/configs.git")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClone))
}
