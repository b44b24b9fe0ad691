package system

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPDownloader_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/install.sh":
			_, _ = w.Write([]byte("#!/bin/sh\necho installed\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	d := NewHTTPDownloader(fs)

	t.Run("writes_body", func(t *testing.T) {
		require.NoError(t, d.Download(context.Background(), srv.URL+"/install.sh", "/tmp/install.sh"))

		data, err := afero.ReadFile(fs, "/tmp/install.sh")
		require.NoError(t, err)
		assert.Equal(t, "#!/bin/sh\necho installed\n", string(data))
	})

	t.Run("non_2xx_is_an_error", func(t *testing.T) {
		err := d.Download(context.Background(), srv.URL+"/missing", "/tmp/missing.sh")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")

		exists, _ := afero.Exists(fs, "/tmp/missing.sh")
		assert.False(t, exists)
	})
}

func TestEnv_Var(t *testing.T) {
	env := &Env{}
	assert.Empty(t, env.Var("HOME"))

	env.Getenv = func(key string) string { return "value-of-" + key }
	assert.Equal(t, "value-of-SHELL", env.Var("SHELL"))
}

func TestExecRunner_LookPath(t *testing.T) {
	r := NewExecRunner()
	_, err := r.LookPath("definitely-not-a-real-binary-name")
	assert.Error(t, err)
}
