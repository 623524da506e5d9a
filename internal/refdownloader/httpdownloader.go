// Package refdownloader is the reference implementation of the
// downloader.Downloader collaborator (spec.md §6, out-of-scope interface):
// a plain net/http client with an in-memory Last-Modified cache, shipped
// solely to exercise the interface boundary in tests, not as a
// feature-complete fetcher.
//
// Grounded on the fact that no third-party HTTP client library is a
// required (non-indirect) dependency anywhere in the retrieved corpus;
// net/http directly is the corpus's own idiom for outbound HTTP.
package refdownloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
)

// HTTPDownloader fetches over a shared *http.Client, remembering the last
// Last-Modified response header seen per URL.
type HTTPDownloader struct {
	Client *http.Client

	mu           sync.Mutex
	lastModified map[string]string
}

// New builds an HTTPDownloader. A nil client defaults to http.DefaultClient.
func New(client *http.Client) *HTTPDownloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPDownloader{Client: client, lastModified: make(map[string]string)}
}

func (d *HTTPDownloader) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("refdownloader: build request: %w", err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("refdownloader: fetch %s: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("refdownloader: fetch %s: unexpected status %s", u, resp.Status)
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		d.mu.Lock()
		d.lastModified[u.String()] = lm
		d.mu.Unlock()
	}
	return resp.Body, resp.ContentLength, nil
}

func (d *HTTPDownloader) LastModified(u *url.URL) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	lm, ok := d.lastModified[u.String()]
	return lm, ok
}
