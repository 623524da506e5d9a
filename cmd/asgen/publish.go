package main

import (
	"context"
	"log/slog"

	"github.com/asgen-project/asgen"
)

// cmdPublish implements `asgen publish <suite> [section]` (spec.md §6.3):
// write the catalog/cross-reference/hint/HTML artifacts for a suite that
// was already scanned by a prior `run`, sourcing the live pkid set from
// the persisted scope_members table (componentstore.ScopeMembers) rather
// than re-running the Engine.
func cmdPublish(ctx context.Context, cc *commonConfig, args []string) error {
	if len(args) == 0 {
		return errBadArgs
	}
	suiteName := args[0]
	var wantSection string
	if len(args) > 1 {
		wantSection = args[1]
	}

	a, err := newApp(ctx, cc)
	if err != nil {
		return err
	}
	defer a.Close()

	var suite asgen.Suite
	found := false
	for _, s := range a.Engine.Suites {
		if s.Name == suiteName {
			suite = s
			found = true
			break
		}
	}
	if !found {
		return errBadArgs
	}

	for _, section := range suite.Sections {
		if wantSection != "" && section != wantSection {
			continue
		}
		for _, arch := range suite.Architectures {
			pkids, err := a.Values.ScopeMembers(ctx, suite.Name, section, arch)
			if err != nil {
				return err
			}
			if err := a.Publisher.PublishScope(ctx, suite, section, arch, pkids); err != nil {
				return err
			}
			slog.InfoContext(ctx, "published scope", "suite", suite.Name, "section", section, "arch", arch, "packages", len(pkids))
		}
	}
	return nil
}
