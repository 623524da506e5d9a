// Package engine implements the Engine (C5, spec.md §4.5): it drives the
// Package Processor (C3) across every configured suite with seeding,
// change detection, a concurrency-controlled worker pool, a single
// serializing commit writer, and end-of-run cleanup.
//
// Grounded on two teacher pieces composed together:
// indexer/layerscanner.layerScanner's concurrency-controlled errgroup +
// semaphore.Weighted fan-out (generalized from "one manifest's layers" to
// "one scope's packages"), and indexer/controller.Controller's single
// state-advancing driver per unit of work (already generalized once, into
// processor.Processor's per-component state machine; the Engine is simply
// the thing that calls Processor.Process concurrently and commits the
// results).
package engine

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/backend"
	"github.com/asgen-project/asgen/componentstore"
	"github.com/asgen-project/asgen/contentindex"
	"github.com/asgen-project/asgen/processor"
)

var (
	packagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "asgen",
			Subsystem: "engine",
			Name:      "packages_processed_total",
			Help:      "Total number of packages run through the processor, by suite and outcome.",
		},
		[]string{"suite", "outcome"},
	)
	scopesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "asgen",
			Subsystem: "engine",
			Name:      "scopes_skipped_total",
			Help:      "Total number of (suite, section, arch) scopes skipped due to unchanged repo_info.",
		},
		[]string{"suite"},
	)
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "asgen",
			Subsystem: "engine",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a full Engine.Run call.",
		},
	)
)

// Engine owns every collaborator the Engine (C5) needs and the concurrency/
// cleanup policy around them. The zero value is not usable; build one with
// [New].
type Engine struct {
	Content   *contentindex.Store
	Values    *componentstore.Store
	Processor *processor.Processor
	Backends  map[string]backend.Backend // keyed by suite name
	Suites    []asgen.Suite

	// Concurrency bounds how many packages are processed at once per
	// (suite, section, arch) scope. 0 selects runtime.GOMAXPROCS(0).
	Concurrency int

	// QueueDepth bounds the commit queue's buffer (spec.md §4.5 "a bounded
	// queue"). 0 selects a depth equal to Concurrency.
	QueueDepth int

	// MediaRoot is the root of the exported media tree (icons,
	// screenshots), sharded by [asgen.GCID.Prefix]; used by cleanup to
	// unlink media belonging to GCIDs that no longer resolve from any
	// suite. Empty disables media unlinking (tests, dry runs).
	MediaRoot string

	// ExtraMetainfoDir is the maintainer-controlled directory tree the
	// Extra-Data Injector (C7, spec.md §4.7) scans for hand-written
	// metainfo XML and icons, one subtree per (suite, section[, arch]).
	// Empty disables extra-data injection.
	ExtraMetainfoDir string

	diskPressure diskPressureChecker
}

// New builds an Engine. Pass suites in dependency order is not required:
// BaseSuite edges only matter to icon resolution, not to Engine's own
// per-suite loop.
func New(content *contentindex.Store, values *componentstore.Store, proc *processor.Processor, backends map[string]backend.Backend, suites []asgen.Suite) *Engine {
	return &Engine{
		Content:      content,
		Values:       values,
		Processor:    proc,
		Backends:     backends,
		Suites:       suites,
		diskPressure: defaultDiskPressureChecker(),
	}
}

// Result collates what one Run call accomplished, returned for `cmd/asgen
// run` to report and for tests to assert against.
type Result struct {
	RunID string

	processed int
	failed    int
	live      map[asgen.PackageID]struct{}

	Removed           []asgen.PackageID
	RemovedComponents []asgen.GCID
}

func newResult() *Result {
	return &Result{
		RunID: uuid.NewString(),
		live:  make(map[asgen.PackageID]struct{}),
	}
}

func (r *Result) addLive(ids []asgen.PackageID) {
	for _, id := range ids {
		r.live[id] = struct{}{}
	}
}

// Processed returns how many packages were fed through the processor
// (successfully or not) across the whole run.
func (r *Result) Processed() int { return r.processed }

// Failed returns how many of those raised a processing error (distinct
// from being routed to IGNORED, which is a normal outcome recorded in the
// package's own PackageResult).
func (r *Result) Failed() int { return r.failed }

// concurrencyCap resolves the effective worker count for one scope,
// halving the configured/default concurrency under disk pressure (spec.md
// §9 Design Note: "worker pool sized to hardware threads with a
// disk-pressure-adjusted cap").
func (e *Engine) concurrencyCap(ctx context.Context) int {
	n := e.Concurrency
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if e.diskPressure != nil && e.diskPressure.underPressure(ctx) {
		n = (n + 1) / 2
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (e *Engine) queueDepth() int {
	if e.QueueDepth > 0 {
		return e.QueueDepth
	}
	return e.concurrencyCap(context.Background())
}

// backendFor resolves the configured backend for suite, producing an
// error the caller can wrap with the suite name.
func (e *Engine) backendFor(suite string) (backend.Backend, error) {
	be, ok := e.Backends[suite]
	if !ok {
		return nil, fmt.Errorf("no backend configured")
	}
	return be, nil
}
