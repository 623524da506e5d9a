package engine

import (
	"context"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/componentstore"
	"github.com/asgen-project/asgen/contentindex"
)

// commitJob is one serialized write request/response pair.
type commitJob struct {
	fn   func() error
	done chan error
}

// commitQueue is the single-writer bounded-queue facade spec.md §4.5
// requires ("a single writer thread via a bounded queue"): every write the
// Package Processor issues against the Content Index or Component Store
// passes through here, so only one write is ever in flight even though
// many processor goroutines call concurrently. Reads pass straight
// through to the underlying stores.
//
// Grounded on the teacher's Controller.run() idiom (one goroutine owning
// serialized work, described in processor/state.go's doc comment) applied
// at the Engine layer instead of the per-component layer: this is the
// concrete [processor.ContentStore]/[processor.ComponentValueStore]
// implementation the Engine injects for concurrent runs, while the bare
// *contentindex.Store/*componentstore.Store pair remains valid for
// single-threaded callers and tests.
type commitQueue struct {
	content *contentindex.Store
	values  *componentstore.Store

	jobs chan commitJob
	done chan struct{}
}

func newCommitQueue(content *contentindex.Store, values *componentstore.Store, depth int) *commitQueue {
	if depth < 1 {
		depth = 1
	}
	q := &commitQueue{
		content: content,
		values:  values,
		jobs:    make(chan commitJob, depth),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *commitQueue) run() {
	defer close(q.done)
	for job := range q.jobs {
		job.done <- job.fn()
	}
}

// Close waits for every queued write to finish and stops the writer
// goroutine. Callers must not submit after Close returns.
func (q *commitQueue) Close() {
	close(q.jobs)
	<-q.done
}

func (q *commitQueue) submit(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	select {
	case q.jobs <- commitJob{fn: fn, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Contains satisfies [processor.ContentStore]; reads bypass the queue.
func (q *commitQueue) Contains(ctx context.Context, pkid asgen.PackageID) (bool, error) {
	return q.content.Contains(ctx, pkid)
}

// Put satisfies [processor.ContentStore].
func (q *commitQueue) Put(ctx context.Context, pkid asgen.PackageID, fileList []string) error {
	return q.submit(ctx, func() error { return q.content.Put(ctx, pkid, fileList) })
}

// PackageValue satisfies [processor.ComponentValueStore]; reads bypass the
// queue.
func (q *commitQueue) PackageValue(ctx context.Context, pkid asgen.PackageID) ([]asgen.GCID, bool, error) {
	return q.values.PackageValue(ctx, pkid)
}

// SetPackageValue satisfies [processor.ComponentValueStore].
func (q *commitQueue) SetPackageValue(ctx context.Context, pkid asgen.PackageID, gcids []asgen.GCID) error {
	return q.submit(ctx, func() error { return q.values.SetPackageValue(ctx, pkid, gcids) })
}

// SetMetadata satisfies [processor.ComponentValueStore].
func (q *commitQueue) SetMetadata(ctx context.Context, gcid asgen.GCID, xml []byte) error {
	return q.submit(ctx, func() error { return q.values.SetMetadata(ctx, gcid, xml) })
}

// SetHints satisfies [processor.ComponentValueStore].
func (q *commitQueue) SetHints(ctx context.Context, gcid asgen.GCID, doc []byte) error {
	return q.submit(ctx, func() error { return q.values.SetHints(ctx, gcid, doc) })
}
