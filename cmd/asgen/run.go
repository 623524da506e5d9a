package main

import (
	"context"
	"log/slog"
)

// cmdRun implements `asgen run <suite> [section]` (spec.md §6.3): run the
// Engine and commit whatever the Package Processor (C3) discovers into
// C1/C2, running the full cleanup pass at the end exactly as a bare
// Engine.Run does.
//
// Engine.Run always drives every configured suite/section/arch triple in
// one pass (spec.md §4.5), so neither argument narrows the scan: <suite>
// only selects which suite's repo_info --force clears and labels the
// completion log line, and [section] is accepted but not read.
func cmdRun(ctx context.Context, cc *commonConfig, args []string) error {
	if len(args) == 0 {
		return errBadArgs
	}
	suiteName := args[0]

	a, err := newApp(ctx, cc)
	if err != nil {
		return err
	}
	defer a.Close()

	if cc.Force {
		if err := clearRepoInfo(ctx, a, suiteName); err != nil {
			return err
		}
	}

	result, err := a.Engine.Run(ctx)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "run complete",
		"suite", suiteName,
		"run_id", result.RunID,
		"processed", result.Processed(),
		"failed", result.Failed(),
		"removed", len(result.Removed),
		"removed_components", len(result.RemovedComponents),
	)
	return nil
}

// clearRepoInfo resets the stored fingerprint for every (section, arch) of
// suiteName so the next Backend.HasChanges call reports a change regardless
// of the repository's actual state, implementing the --force flag's
// "bypass change detection" contract (spec.md §6.3).
func clearRepoInfo(ctx context.Context, a *app, suiteName string) error {
	for _, suite := range a.Engine.Suites {
		if suite.Name != suiteName {
			continue
		}
		for _, section := range suite.Sections {
			for _, arch := range suite.Architectures {
				if err := a.Values.SetRepoInfo(ctx, suite.Name, section, arch, 0, ""); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
