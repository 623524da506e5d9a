package main

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// setupTracing installs an OTLP/gRPC trace exporter as the global
// TracerProvider when OTEL_EXPORTER_OTLP_ENDPOINT is set, so a deployment
// that wants to follow one engine run across C3/C4/C5 spans can point it at
// a collector; offline use (the common case for this CLI) is unaffected.
//
// Grounded on test/main.go's trace.NewTracerProvider(trace.WithBatcher(...))
// + otel.SetTracerProvider(...) pattern, retargeted from its
// file-writing stdouttrace exporter to the OTLP/gRPC one already in the
// dependency set.
func setupTracing(ctx context.Context) (shutdown func(context.Context) error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return func(context.Context) error { return nil }
	}
	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		slog.Error("tracing: exporter setup failed", "error", err)
		return func(context.Context) error { return nil }
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
