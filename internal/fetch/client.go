// Package fetch downloads published spreadsheet exports.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// Entry names a sheet to download.
type Entry struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// FileName returns the local file name of e. Names without an extension get
// ".html" when the URL asks for HTML output and ".tsv" otherwise.
func FileName(e Entry) string {
	if filepath.Ext(e.Name) != "" {
		return e.Name
	}
	if u, err := url.Parse(e.URL); err == nil && u.Query().Get("output") == "html" {
		return e.Name + ".html"
	}
	return e.Name + ".tsv"
}

// Client downloads files over HTTP, retrying transient failures.
type Client struct {
	httpClient *http.Client
	log        *slog.Logger

	// Backoff returns the wait before retry n. It defaults to the package
	// Backoff.
	Backoff func(attempt int) time.Duration
}

func NewClient(log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log:     log,
		Backoff: Backoff,
	}
}

// Download fetches rawURL and writes the body to w once it was read in full.
func (c *Client) Download(ctx context.Context, rawURL string, w io.Writer) error {
	var body []byte
	var lastErr error
	for attempt := range MaxRetries {
		body, lastErr = c.get(ctx, rawURL)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		c.log.Warn("retryable download error", "url", rawURL, "attempt", attempt, "error", lastErr)
		if attempt == MaxRetries-1 {
			break
		}
		select {
		case <-time.After(wait(lastErr, c.Backoff(attempt))):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if lastErr != nil {
		return lastErr
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write %s: %w", rawURL, err)
	}
	return nil
}

// DownloadTo saves e into dir and returns the file path.
func (c *Client) DownloadTo(ctx context.Context, e Entry, dir string) (string, error) {
	var buf bytes.Buffer
	if err := c.Download(ctx, e.URL, &buf); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	p := filepath.Join(dir, path.Base(FileName(e)))
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("save %s: %w", p, err)
	}
	c.log.Info("downloaded", "name", e.Name, "path", p, "bytes", buf.Len())
	return p, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if retryableStatus(resp.StatusCode) {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download %s: status %d: %s", rawURL, resp.StatusCode, string(respBody))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Message: fmt.Sprintf("read body: %s", err)}
	}
	return body, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
