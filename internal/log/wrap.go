package log

import (
	"context"
	"log/slog"
)

// WrapHandler wraps next with an interceptor that applies the [slog.Attr]
// values and minimum [slog.Level] stashed on a context by [With]/[WithAttr]/
// [WithLevel]. cmd/asgen installs this once around its base handler, a
// plain JSON or text handler writing to stderr.
func WrapHandler(next slog.Handler) slog.Handler {
	return handler{next: next}
}

var _ slog.Handler = handler{}

type handler struct {
	next slog.Handler
}

// Enabled implements [slog.Handler].
func (h handler) Enabled(ctx context.Context, l slog.Level) bool {
	rec := slog.Level(1<<31 - 1)
	if lv, ok := ctx.Value(LevelKey).(slog.Leveler); ok {
		rec = lv.Level()
	}
	return l >= rec || h.next.Enabled(ctx, l)
}

// Handle implements [slog.Handler].
func (h handler) Handle(ctx context.Context, r slog.Record) error {
	if v, ok := ctx.Value(AttrsKey).(slog.Value); ok {
		r.AddAttrs(v.Group()...)
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs implements [slog.Handler].
func (h handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return handler{next: h.next.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (h handler) WithGroup(name string) slog.Handler {
	return handler{next: h.next.WithGroup(name)}
}
