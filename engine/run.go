package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/asgen-project/asgen"
	"github.com/asgen-project/asgen/backend"
)

// Run drives every configured suite to completion: seeding/change
// detection, concurrent processing, and the end-of-run cleanup pass
// (spec.md §4.5). It is safe to call once per Engine value; call it again
// for a subsequent run.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	defer func() { runDuration.Observe(time.Since(start).Seconds()) }()

	result := newResult()
	slog.InfoContext(ctx, "engine run starting", "run_id", result.RunID, "suites", len(e.Suites))

	queue := newCommitQueue(e.Content, e.Values, e.queueDepth())
	runProc := *e.Processor
	runProc.Content = queue
	runProc.Values = queue

	for _, suite := range e.Suites {
		if err := e.runSuite(ctx, &runProc, result, suite); err != nil {
			queue.Close()
			return result, fmt.Errorf("engine: suite %s: %w", suite.Name, err)
		}
	}
	queue.Close()

	if err := e.cleanup(ctx, result); err != nil {
		return result, fmt.Errorf("engine: cleanup: %w", err)
	}

	slog.InfoContext(ctx, "engine run finished",
		"run_id", result.RunID,
		"processed", result.processed,
		"failed", result.failed,
		"removed", len(result.Removed),
		"removed_components", len(result.RemovedComponents),
	)
	return result, nil
}

// runSuite iterates one suite's (section, arch) scopes. Immutable suites
// (spec.md §12 Open Question decisions: "retained for liveness, frozen for
// writes") are only consulted for their current pkid set, never
// reprocessed.
func (e *Engine) runSuite(ctx context.Context, p processorAPI, result *Result, suite asgen.Suite) error {
	be, err := e.backendFor(suite.Name)
	if err != nil {
		return err
	}
	for _, section := range suite.Sections {
		for _, arch := range suite.Architectures {
			if suite.Immutable {
				members, err := e.collectLiveOnly(ctx, result, be, suite, section, arch)
				if err != nil {
					return fmt.Errorf("%s/%s/%s: %w", suite.Name, section, arch, err)
				}
				if err := e.Values.SetScopeMembers(ctx, suite.Name, section, arch, members); err != nil {
					return fmt.Errorf("%s/%s/%s: set_scope_members: %w", suite.Name, section, arch, err)
				}
				continue
			}
			members, err := e.runScope(ctx, p, result, be, suite, section, arch)
			if err != nil {
				return fmt.Errorf("%s/%s/%s: %w", suite.Name, section, arch, err)
			}
			injected, err := e.injectExtraData(ctx, p, result, suite, section, arch)
			if err != nil {
				return fmt.Errorf("%s/%s/%s: %w", suite.Name, section, arch, err)
			}
			if injected != nil {
				members = append(members, *injected)
			}
			if err := e.Values.SetScopeMembers(ctx, suite.Name, section, arch, members); err != nil {
				return fmt.Errorf("%s/%s/%s: set_scope_members: %w", suite.Name, section, arch, err)
			}
		}
	}
	return nil
}

// runScope implements change detection, deduplication, and the
// concurrency-controlled fan-out over one (suite, section, arch) scope.
//
// Grounded on indexer/layerscanner.layerScanner.Scan: an errgroup.WithContext
// paired with a semaphore.Weighted caps in-flight work while still letting
// the first real error cancel every sibling goroutine.
func (e *Engine) runScope(ctx context.Context, p processorAPI, result *Result, be backend.Backend, suite asgen.Suite, section, arch string) ([]asgen.PackageID, error) {
	changed, err := be.HasChanges(ctx, e.Values, suite.Name, section, arch)
	if err != nil {
		return nil, fmt.Errorf("has_changes: %w", err)
	}
	if !changed {
		scopesSkipped.WithLabelValues(suite.Name).Inc()
		return e.collectLiveOnly(ctx, result, be, suite, section, arch)
	}

	pkgs, err := be.PackagesFor(ctx, suite.Name, section, arch, true)
	if err != nil {
		return nil, fmt.Errorf("packages_for: %w", err)
	}

	ids := make([]asgen.PackageID, len(pkgs))
	byID := make(map[asgen.PackageID]backend.Package, len(pkgs))
	for i, pkg := range pkgs {
		ids[i] = pkg.ID()
		byID[pkg.ID()] = pkg
	}
	deduped, err := asgen.DedupeByName(ids)
	if err != nil {
		for _, pkg := range pkgs {
			pkg.Finish()
		}
		return nil, fmt.Errorf("dedupe: %w", err)
	}

	keep := make(map[asgen.PackageID]struct{}, len(deduped))
	for _, id := range deduped {
		keep[id] = struct{}{}
	}
	for _, pkg := range pkgs {
		if _, ok := keep[pkg.ID()]; !ok {
			pkg.Finish()
		}
	}

	workers := e.concurrencyCap(ctx)
	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	for workerID, id := range deduped {
		pkg := byID[id]
		if err := sem.Acquire(gctx, 1); err != nil {
			pkg.Finish()
			break
		}
		workerID, pkg := workerID, pkg
		g.Go(func() error {
			defer sem.Release(1)
			pr, perr := p.Process(gctx, pkg, workerID)
			mu.Lock()
			defer mu.Unlock()
			if perr != nil {
				result.failed++
				packagesProcessed.WithLabelValues(suite.Name, "error").Inc()
				slog.ErrorContext(gctx, "package processing failed", "pkid", pkg.ID(), "error", perr)
				return nil
			}
			result.processed++
			outcome := "ignored"
			if len(pr.Components) > 0 {
				outcome = "stored"
			}
			packagesProcessed.WithLabelValues(suite.Name, outcome).Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.addLive(deduped)
	return deduped, nil
}

// collectLiveOnly records which packages a scope currently contains without
// processing any of them: used both for unchanged scopes (change detection
// said skip) and immutable suites (never reprocessed at all).
func (e *Engine) collectLiveOnly(ctx context.Context, result *Result, be backend.Backend, suite asgen.Suite, section, arch string) ([]asgen.PackageID, error) {
	pkgs, err := be.PackagesFor(ctx, suite.Name, section, arch, false)
	if err != nil {
		return nil, fmt.Errorf("packages_for: %w", err)
	}
	ids := make([]asgen.PackageID, len(pkgs))
	for i, pkg := range pkgs {
		ids[i] = pkg.ID()
		pkg.Finish()
	}
	deduped, err := asgen.DedupeByName(ids)
	if err != nil {
		return nil, fmt.Errorf("dedupe: %w", err)
	}
	result.addLive(deduped)
	return deduped, nil
}

// processorAPI is the subset of *processor.Processor Run exercises,
// narrowed so runScope/runSuite take the queue-backed processor value
// built once per Run without importing processor's full Config surface.
type processorAPI interface {
	Process(ctx context.Context, pkg backend.Package, workerID int) (*asgen.PackageResult, error)
}
