package downloader

import (
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

// Coordinator wraps an injected [Downloader] with the process-wide policy
// spec.md §5 requires: a bounded total time per download (default 90s), up
// to 4 retries under exponential backoff, a global rate cap, and a
// per-host connection/concurrency limit. It rejects any URL whose scheme is
// not https before fetching; redirects followed by the wrapped Downloader
// are not inspected.
//
// This is core-owned coordination, not the Downloader implementation itself
// (that remains an out-of-scope collaborator per SPEC_FULL.md §8).
type Coordinator struct {
	dl      Downloader
	global  *rate.Limiter
	timeout time.Duration
	retries int

	mu       sync.Mutex
	perHost  map[string]chan struct{}
	hostCap  int
}

// Option configures a [Coordinator].
type Option func(*Coordinator)

// WithGlobalRate sets the global token-bucket rate (requests/sec, burst).
func WithGlobalRate(rps float64, burst int) Option {
	return func(c *Coordinator) { c.global = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithPerHostCap sets the max concurrent in-flight requests per host.
func WithPerHostCap(n int) Option {
	return func(c *Coordinator) { c.hostCap = n }
}

// WithTimeout sets the bounded total time per download. Default 90s per
// spec.md §5.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

// WithRetries sets the retry count. Default 4 per spec.md §5.
func WithRetries(n int) Option {
	return func(c *Coordinator) { c.retries = n }
}

// New builds a Coordinator wrapping dl.
func New(dl Downloader, opts ...Option) *Coordinator {
	c := &Coordinator{
		dl:      dl,
		global:  rate.NewLimiter(rate.Inf, 1),
		timeout: 90 * time.Second,
		retries: 4,
		hostCap: 4,
		perHost: make(map[string]chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// acquireHost returns a release func for the per-host concurrency slot.
func (c *Coordinator) acquireHost(ctx context.Context, host string) (func(), error) {
	c.mu.Lock()
	ch, ok := c.perHost[host]
	if !ok {
		ch = make(chan struct{}, c.hostCap)
		for i := 0; i < c.hostCap; i++ {
			ch <- struct{}{}
		}
		c.perHost[host] = ch
	}
	c.mu.Unlock()

	select {
	case <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return func() { ch <- struct{}{} }, nil
}

// Fetch downloads u, applying the global rate limit, the per-host
// concurrency cap, a bounded total timeout, and exponential-backoff retries.
// It refuses an HTTPS->HTTP downgrade by construction: callers must pass an
// https:// URL or this returns an error immediately.
func (c *Coordinator) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, int64, error) {
	if u.Scheme != "https" {
		return nil, 0, &schemeError{u.String()}
	}
	if err := c.global.Wait(ctx); err != nil {
		return nil, 0, err
	}
	release, err := c.acquireHost(ctx, u.Host)
	if err != nil {
		return nil, 0, err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	op := func() (fetchResult, error) {
		rc, n, err := c.dl.Fetch(ctx, u)
		if err != nil {
			return fetchResult{}, err
		}
		return fetchResult{rc: rc, n: n}, nil
	}
	res, err := backoff.Retry(ctx, op,
		backoff.WithMaxTries(uint(c.retries+1)),
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
	)
	if err != nil {
		return nil, 0, err
	}
	return res.rc, res.n, nil
}

type fetchResult struct {
	rc io.ReadCloser
	n  int64
}

// LastModified delegates to the wrapped Downloader.
func (c *Coordinator) LastModified(u *url.URL) (string, bool) {
	return c.dl.LastModified(u)
}

type schemeError struct{ url string }

func (e *schemeError) Error() string {
	return "downloader: refusing non-HTTPS fetch of " + e.url
}
