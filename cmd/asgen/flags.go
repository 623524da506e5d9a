package main

import (
	"flag"
	"log/slog"

	internallog "github.com/asgen-project/asgen/internal/log"
)

// parseFlags parses the shared flags from args, returning the remaining
// (subcommand plus its own arguments) as a slice.
func parseFlags(args []string) (*commonConfig, []string, error) {
	cfg := &commonConfig{Workspace: "."}
	fs := flag.NewFlagSet("asgen", flag.ContinueOnError)
	fs.StringVar(&cfg.Workspace, "w", ".", "workspace directory")
	fs.StringVar(&cfg.Workspace, "workspace", ".", "workspace directory")
	fs.StringVar(&cfg.ConfigPath, "c", "", "asgen-config.json path")
	fs.StringVar(&cfg.ConfigPath, "config", "", "asgen-config.json path")
	fs.BoolVar(&cfg.Force, "force", false, "bypass change detection")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "debug-level logging")
	fs.StringVar(&cfg.MetricsAddr, "metrics", "", "serve Prometheus /metrics on addr")
	fs.Usage = usage
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = cfg.Workspace + "/asgen-config.json"
	}
	return cfg, fs.Args(), nil
}

// wrapHandler installs the context-attribute interception cmd/asgen relies
// on so pipeline stages can attach pkid/component-id/gcid/suite attrs via
// internal/log.With without threading a logger value explicitly.
func wrapHandler(base slog.Handler) slog.Handler {
	return internallog.WrapHandler(base)
}

// exitCodeFor maps a subcommand error to the spec.md §6.3 exit-code
// taxonomy: 1 for a user-facing error (bad config, bad argument), 2 for an
// internal/store error.
func exitCodeFor(err error) int {
	if isUserError(err) {
		return 1
	}
	return 2
}
