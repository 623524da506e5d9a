package main

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/asgen-project/asgen"
)

// cmdRemoveFound implements `asgen remove-found <suite>` (spec.md §6.3,
// SPEC_FULL.md §10): a suite-scoped, narrower sibling of the full cleanup
// pass that drops just the GCIDs the named suite currently resolves to
// whose stored hint set is entirely error-severity — packages a run
// already flagged as unusable, removed here without waiting for a
// suite-unreferenced GC pass.
func cmdRemoveFound(ctx context.Context, cc *commonConfig, args []string) error {
	if len(args) == 0 {
		return errBadArgs
	}
	suiteName := args[0]

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

	var pkids []asgen.PackageID
	for _, section := range suite.Sections {
		for _, arch := range suite.Architectures {
			scoped, err := a.Values.ScopeMembers(ctx, suite.Name, section, arch)
			if err != nil {
				return err
			}
			pkids = append(pkids, scoped...)
		}
	}

	gcids, err := a.Values.GetGCIDsForSuite(ctx, pkids)
	if err != nil {
		return err
	}

	var toRemove []asgen.GCID
	for _, gcid := range gcids {
		doc, err := a.Values.GetHints(ctx, gcid)
		if err != nil || doc == nil {
			continue
		}
		var hints []asgen.IssueHint
		if err := json.Unmarshal(doc, &hints); err != nil || len(hints) == 0 {
			continue
		}
		allErrors := true
		for _, h := range hints {
			if h.Severity != asgen.SeverityError {
				allErrors = false
				break
			}
		}
		if allErrors {
			toRemove = append(toRemove, gcid)
		}
	}

	if len(toRemove) == 0 {
		slog.InfoContext(ctx, "remove-found: nothing to remove", "suite", suite.Name)
		return nil
	}
	if err := a.Values.RemoveComponents(ctx, toRemove); err != nil {
		return err
	}
	slog.InfoContext(ctx, "remove-found complete", "suite", suite.Name, "removed", len(toRemove))
	return nil
}
