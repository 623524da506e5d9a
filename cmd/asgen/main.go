// Asgen is the command-line entry point for the AppStream metadata
// generator (spec.md §6.3): `run`, `publish`, `cleanup`, `remove-found`,
// `forget`, and `info` subcommands over one configured workspace.
//
// Grounded on cmd/cctool/main.go's dispatch idiom: a stdlib flag.FlagSet,
// a subcmd func(context.Context, *commonConfig, []string) error type, and
// signal-driven cancellation via a goroutine racing the subcommand against
// SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// commonConfig carries the flags shared by every subcommand.
type commonConfig struct {
	Workspace   string
	ConfigPath  string
	Force       bool
	Verbose     bool
	MetricsAddr string
}

type subcmd func(context.Context, *commonConfig, []string) error

var subcommands = map[string]subcmd{
	"run":          cmdRun,
	"publish":      cmdPublish,
	"cleanup":      cmdCleanup,
	"remove-found": cmdRemoveFound,
	"forget":       cmdForget,
	"info":         cmdInfo,
}

func main() {
	var exit int
	defer func() {
		if exit != 0 {
			os.Exit(exit)
		}
	}()

	ctx, done := context.WithCancel(context.Background())
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		<-ch
		done()
	}()

	cfg, args, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exit = 99
		return
	}

	installLogger(cfg.Verbose)
	shutdownTracing := setupTracing(ctx)
	defer shutdownTracing(context.Background())
	if cfg.MetricsAddr != "" {
		startMetricsServer(cfg.MetricsAddr)
	}

	if len(args) == 0 {
		usage()
		exit = 99
		return
	}
	cmd, ok := subcommands[args[0]]
	if !ok {
		usage()
		fmt.Fprintf(os.Stderr, "\nunknown subcommand %q\n", args[0])
		exit = 99
		return
	}

	var cmdErr error
	cmdctx, cmddone := context.WithCancel(ctx)
	go func() {
		defer cmddone()
		cmdErr = cmd(cmdctx, cfg, args[1:])
	}()

	select {
	case <-ctx.Done():
		slog.Error("interrupted", "reason", ctx.Err())
		exit = 1
	case <-cmdctx.Done():
		if cmdErr != nil {
			slog.Error("subcommand failed", "error", cmdErr)
			exit = exitCodeFor(cmdErr)
		}
	}
}

// installLogger wires log/slog to stderr at Info level, or Debug with
// --verbose: slog's text handler when stderr is a terminal, its JSON
// handler otherwise (SPEC_FULL.md §5 dependency table: go-isatty picks the
// handler). No colors are emitted.
func installLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) {
		base = slog.NewTextHandler(os.Stderr, opts)
	} else {
		base = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(wrapHandler(base)))
}

// startMetricsServer serves the engine/store Prometheus counters
// (SPEC_FULL.md §5 dependency table: "a /metrics endpoint is optionally
// served by cmd/asgen") on addr, in the background. A bind failure is
// logged, not fatal: metrics are an optional diagnostic.
func startMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: asgen [-w workspace] [-c config] [--force] [--verbose] <subcommand> [args]

Subcommands:
  run <suite> [section]       scan a suite and commit discovered components
  publish <suite> [section]   write catalog/hint/HTML artifacts for a suite
  cleanup                     garbage-collect orphaned store entries
  remove-found <suite>        drop a suite's error-only components early
  forget <pkid-prefix>        delete every C1/C2 entry matching a pkid prefix
  info <pkid>                 print a package's stored components and hints

Flags:
`)
	fmt.Fprintln(os.Stderr, "  -w, --workspace <dir>   workspace directory (default .)")
	fmt.Fprintln(os.Stderr, "  -c, --config <file>     asgen-config.json path (default <workspace>/asgen-config.json)")
	fmt.Fprintln(os.Stderr, "  --force                 bypass change detection")
	fmt.Fprintln(os.Stderr, "  --verbose               debug-level logging")
	fmt.Fprintln(os.Stderr, "  --metrics <addr>        serve Prometheus /metrics on addr")
}
