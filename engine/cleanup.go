package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/asgen-project/asgen"
)

// cleanup implements the end-of-run pass (spec.md §4.5 Cleanup): diff the
// set of pkids live across every scope this Run touched against what the
// Content Index still holds, drop whatever fell out, and unlink any
// component whose GCID no longer resolves from any live package.
//
// Grounded on componentstore.Store's own removal primitives
// (RemovePackages/RemoveComponents, componentstore/remove.go) plus
// contentindex.Store.PackageIDSet/RemoveMany: cleanup is just the diff and
// the media unlink, the actual store mutation is delegated to C1/C2.
func (e *Engine) cleanup(ctx context.Context, result *Result) error {
	known, err := e.Content.PackageIDSet(ctx)
	if err != nil {
		return fmt.Errorf("package_id_set: %w", err)
	}

	var gone []asgen.PackageID
	for pkid := range known {
		if _, ok := result.live[pkid]; !ok {
			gone = append(gone, pkid)
		}
	}
	if len(gone) == 0 {
		return nil
	}
	slog.InfoContext(ctx, "cleanup removing stale packages", "count", len(gone))

	goneGCIDs, err := e.Values.GetGCIDsForSuite(ctx, gone)
	if err != nil {
		return fmt.Errorf("get_gcids_for_suite(gone): %w", err)
	}

	live := make([]asgen.PackageID, 0, len(result.live))
	for pkid := range result.live {
		live = append(live, pkid)
	}
	liveGCIDs, err := e.Values.GetGCIDsForSuite(ctx, live)
	if err != nil {
		return fmt.Errorf("get_gcids_for_suite(live): %w", err)
	}
	stillLive := make(map[asgen.GCID]struct{}, len(liveGCIDs))
	for _, g := range liveGCIDs {
		stillLive[g] = struct{}{}
	}

	var orphaned []asgen.GCID
	seen := make(map[asgen.GCID]struct{}, len(goneGCIDs))
	for _, g := range goneGCIDs {
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		if _, ok := stillLive[g]; !ok {
			orphaned = append(orphaned, g)
		}
	}

	if err := e.Content.RemoveMany(ctx, gone); err != nil {
		return fmt.Errorf("remove_many: %w", err)
	}
	if err := e.Values.RemovePackages(ctx, gone); err != nil {
		return fmt.Errorf("remove_packages: %w", err)
	}
	if len(orphaned) > 0 {
		if err := e.Values.RemoveComponents(ctx, orphaned); err != nil {
			return fmt.Errorf("remove_components: %w", err)
		}
	}

	result.Removed = gone
	result.RemovedComponents = orphaned

	if e.MediaRoot != "" {
		e.unlinkMedia(ctx, orphaned)
	}
	return nil
}

// unlinkMedia best-effort removes the exported icon/screenshot tree for
// components that no longer resolve from any suite. A failed unlink is
// logged, not fatal: a stale media directory is a disk-space leak, not a
// correctness problem, and the next cleanup pass will try again.
func (e *Engine) unlinkMedia(ctx context.Context, gcids []asgen.GCID) {
	for _, g := range gcids {
		dir := filepath.Join(e.MediaRoot, g.Prefix(), g.ComponentID, g.String())
		if err := os.RemoveAll(dir); err != nil {
			slog.WarnContext(ctx, "media unlink failed", "gcid", g.String(), "path", dir, "error", err)
		}
	}
}
