package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/asgen-project/asgen"
)

// cmdForget implements `asgen forget <pkid-prefix>` (spec.md §6.3,
// SPEC_FULL.md §10): an escape hatch that deletes every C1/C2 entry whose
// pkid string has the given prefix, regardless of whether it is currently
// live in any suite — for corrupt or stuck entries a normal cleanup pass
// wouldn't reach (it only removes what is no longer referenced).
func cmdForget(ctx context.Context, cc *commonConfig, args []string) error {
	if len(args) == 0 {
		return errBadArgs
	}
	prefix := args[0]

	a, err := newApp(ctx, cc)
	if err != nil {
		return err
	}
	defer a.Close()

	known, err := a.Content.PackageIDSet(ctx)
	if err != nil {
		return err
	}
	var matched []asgen.PackageID
	for pkid := range known {
		if strings.HasPrefix(pkid.String(), prefix) {
			matched = append(matched, pkid)
		}
	}
	if len(matched) == 0 {
		slog.InfoContext(ctx, "forget: no matching pkid", "prefix", prefix)
		return nil
	}

	gcids, err := a.Values.GetGCIDsForSuite(ctx, matched)
	if err != nil {
		return err
	}

	if err := a.Content.RemoveMany(ctx, matched); err != nil {
		return err
	}
	if err := a.Values.RemovePackages(ctx, matched); err != nil {
		return err
	}
	if len(gcids) > 0 {
		if err := a.Values.RemoveComponents(ctx, gcids); err != nil {
			return err
		}
	}
	slog.InfoContext(ctx, "forget complete", "prefix", prefix, "packages", len(matched), "components", len(gcids))
	return nil
}
