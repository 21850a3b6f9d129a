// Package remote downloads stylesheets referenced by URL into a local cache
// so the indexer can treat them as ordinary files.
package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// MaxSize bounds the body of a fetched stylesheet
const MaxSize = 8 << 20

// Fetcher acquires a remote stylesheet and returns the local path of its copy
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch implements Fetcher
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// HTTPFetcher downloads over http(s) into Dir
type HTTPFetcher struct {
	Client *http.Client
	Dir    string
}

// NewHTTPFetcher returns a fetcher caching into dir with a bounded timeout.
// An empty dir means the user cache directory.
func NewHTTPFetcher(dir string, timeout time.Duration) (*HTTPFetcher, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("no cache directory for remote files: %w", err)
		}
		dir = filepath.Join(base, "cssvar")
	}
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}, Dir: dir}, nil
}

// CachePath is where the copy of rawURL is stored. The extension of the URL
// path is kept so the copy parses with the right dialect.
func (f *HTTPFetcher) CachePath(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	ext := ".css"
	if u, err := url.Parse(rawURL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = e
		}
	}
	return filepath.Join(f.Dir, hex.EncodeToString(sum[:16])+ext)
}

// Fetch implements Fetcher. The copy is rewritten only when the body changed,
// so an unchanged remote keeps its modification time.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "text/css,*/*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to fetch %s: %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", rawURL, err)
	}

	dest := f.CachePath(rawURL)
	if existing, err := os.ReadFile(dest); err == nil && string(existing) == string(body) { //nolint:gosec // G304: our own cache file
		return dest, nil
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil { //nolint:gosec // G306: cached public stylesheet
		return "", fmt.Errorf("failed to cache %s: %w", rawURL, err)
	}
	return dest, nil
}
