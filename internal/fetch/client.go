// Package fetch downloads ball-by-ball CSV datasets over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Client downloads dataset files to a local directory.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a downloader with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Download fetches url into destPath, creating parent directories as needed.
// The file is written atomically: a temp file in the same directory is renamed
// into place only after the full body has been read.
func (c *Client) Download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// handled below
	case http.StatusNotFound:
		return fmt.Errorf("fetch: %s not found (HTTP 404) — check the URL in your config", url)
	case http.StatusForbidden, http.StatusUnauthorized:
		return fmt.Errorf("fetch: access denied for %s (HTTP %d)", url, resp.StatusCode)
	case http.StatusTooManyRequests:
		return fmt.Errorf("fetch: rate limited by %s, wait a moment and retry", req.Host)
	default:
		return fmt.Errorf("fetch: HTTP %d for %s", resp.StatusCode, url)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("download %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), destPath)
}
