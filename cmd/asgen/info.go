package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/asgen-project/asgen"
)

// cmdInfo implements `asgen info <pkid>` (spec.md §6.3): prints a package's
// resolved GCIDs, each one's stored metadata size, and its hints. It does
// not show any repo_info state.
//
// Mirrors claircore's cmd/cctool inspector.go: dump one unit's full derived
// state for a packager to inspect, rather than re-deriving it.
func cmdInfo(ctx context.Context, cc *commonConfig, args []string) error {
	if len(args) == 0 {
		return errBadArgs
	}
	pkid, err := asgen.ParsePackageID(args[0])
	if err != nil {
		return errBadArgs
	}

	a, err := newApp(ctx, cc)
	if err != nil {
		return err
	}
	defer a.Close()

	gcids, ok, err := a.Values.PackageValue(ctx, pkid)
	if err != nil {
		return err
	}
	fmt.Printf("package %s\n", pkid.String())
	if !ok {
		fmt.Println("  (no stored package_value entry)")
		return nil
	}
	fmt.Printf("  components: %d\n", len(gcids))
	for _, gcid := range gcids {
		xml, err := a.Values.GetMetadata(ctx, gcid)
		if err != nil {
			return err
		}
		fmt.Printf("  - %s  (%s)\n", gcid.String(), humanize.Bytes(uint64(len(xml))))

		doc, err := a.Values.GetHints(ctx, gcid)
		if err != nil {
			return err
		}
		if len(doc) == 0 {
			continue
		}
		var hints []asgen.IssueHint
		if err := json.Unmarshal(doc, &hints); err != nil {
			return err
		}
		for _, h := range hints {
			fmt.Printf("      [%s] %s\n", h.Severity, h.Tag)
		}
	}
	return nil
}
