package system

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"configs-cli/internal/logger"
	"github.com/spf13/afero"
)

// HTTPDownloader downloads over HTTP(S) into files on an afero filesystem.
type HTTPDownloader struct {
	fs     afero.Fs
	client *http.Client
}

// NewHTTPDownloader returns a Downloader writing into fs with the default HTTP client.
func NewHTTPDownloader(fs afero.Fs) *HTTPDownloader {
	return &HTTPDownloader{fs: fs, client: http.DefaultClient}
}

// Download fetches url and saves the body at dest. Non-2xx responses are errors
// and leave no file behind.
func (d *HTTPDownloader) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	logger.Debug("[DEBUG] Downloading %s to %s\n", url, dest)
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GET %s: HTTP status %d", url, resp.StatusCode)
	}

	out, err := d.fs.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", dest, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = d.fs.Remove(dest)
		return fmt.Errorf("failed to write response to file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}

	logger.Debug("[DEBUG] Downloaded %s\n", dest)
	return nil
}
