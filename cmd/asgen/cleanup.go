package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/asgen-project/asgen"
)

// cmdCleanup implements the standalone `asgen cleanup` subcommand
// (spec.md §4.5, §6.3): garbage-collect C1/C2 entries unreferenced by any
// configured suite (immutable suites included), without re-scanning any
// backend.
//
// Grounded on engine/cleanup.go's algorithm (live pkid/GCID diff, then
// RemoveMany/RemovePackages/RemoveComponents, then media unlink), driven
// here from the persisted scope_members table (componentstore.
// ScopeMembers) — populated by the last `run` — instead of a fresh
// Result.live built during an Engine.Run call.
func cmdCleanup(ctx context.Context, cc *commonConfig, args []string) error {
	a, err := newApp(ctx, cc)
	if err != nil {
		return err
	}
	defer a.Close()

	// Every configured suite is retained for liveness purposes, immutable
	// or not: Immutable only freezes a suite's own published output, it
	// does not exclude the suite's packages from keeping shared GCIDs
	// alive (SPEC_FULL.md §12 decision).
	live := make(map[asgen.PackageID]struct{})
	for _, suite := range a.Engine.Suites {
		for _, section := range suite.Sections {
			for _, arch := range suite.Architectures {
				pkids, err := a.Values.ScopeMembers(ctx, suite.Name, section, arch)
				if err != nil {
					return err
				}
				for _, p := range pkids {
					live[p] = struct{}{}
				}
			}
		}
	}

	known, err := a.Content.PackageIDSet(ctx)
	if err != nil {
		return err
	}
	var gone []asgen.PackageID
	for pkid := range known {
		if _, ok := live[pkid]; !ok {
			gone = append(gone, pkid)
		}
	}
	if len(gone) == 0 {
		slog.InfoContext(ctx, "cleanup: nothing to remove")
		return nil
	}

	goneGCIDs, err := a.Values.GetGCIDsForSuite(ctx, gone)
	if err != nil {
		return err
	}
	liveList := make([]asgen.PackageID, 0, len(live))
	for p := range live {
		liveList = append(liveList, p)
	}
	liveGCIDs, err := a.Values.GetGCIDsForSuite(ctx, liveList)
	if err != nil {
		return err
	}
	stillLive := make(map[asgen.GCID]struct{}, len(liveGCIDs))
	for _, g := range liveGCIDs {
		stillLive[g] = struct{}{}
	}

	seen := make(map[asgen.GCID]struct{}, len(goneGCIDs))
	var orphaned []asgen.GCID
	for _, g := range goneGCIDs {
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		if _, ok := stillLive[g]; !ok {
			orphaned = append(orphaned, g)
		}
	}

	if err := a.Content.RemoveMany(ctx, gone); err != nil {
		return err
	}
	if err := a.Values.RemovePackages(ctx, gone); err != nil {
		return err
	}
	if len(orphaned) > 0 {
		if err := a.Values.RemoveComponents(ctx, orphaned); err != nil {
			return err
		}
	}

	mediaRoot := a.Engine.MediaRoot
	if mediaRoot != "" {
		for _, g := range orphaned {
			dir := filepath.Join(mediaRoot, g.Prefix(), g.ComponentID, g.String())
			if err := os.RemoveAll(dir); err != nil {
				slog.WarnContext(ctx, "media unlink failed", "gcid", g.String(), "path", dir, "error", err)
			}
		}
	}

	slog.InfoContext(ctx, "cleanup complete", "removed_packages", len(gone), "removed_components", len(orphaned))
	return nil
}
