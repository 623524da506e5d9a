// Package downloader declares the HTTP-downloader collaborator contract
// (spec.md §6, out-of-scope interface) and the core-owned coordination the
// Engine/Processor wrap around it: rate limiting, per-host concurrency caps,
// and retry/backoff (spec.md §5 Timeouts).
//
// Grounded on indexer.FetchArena-style interface definitions in the
// teacher, generalized from "layer fetch" to "arbitrary screenshot/icon
// fetch".
package downloader

import (
	"context"
	"io"
	"net/url"
)

// Downloader is the injected HTTP fetch collaborator. A single process-wide
// instance is expected (spec.md §5 "process-wide singleton with an internal
// connection pool and a last-modified-time cache").
type Downloader interface {
	// Fetch retrieves u and returns a reader for its bytes plus the
	// reported content length (-1 if unknown).
	Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, int64, error)

	// LastModified returns a cached Last-Modified value for u, if known,
	// letting callers skip refetching unchanged remote assets.
	LastModified(u *url.URL) (string, bool)
}
