// Package log is the common spot for asgen's structured logging
// (SPEC_FULL.md §4.1): a pair of context keys that let deeply nested
// pipeline stages (package processor -> icon resolver -> font renderer)
// attach slog.Attrs without threading a logger value explicitly, plus a
// slog.Handler wrapper that applies them.
package log

import (
	"context"
	"log/slog"
	"slices"
)

// ctxkey is a Context key type, unexported so other packages cannot
// construct these values directly.
type ctxkey int

const (
	_ ctxkey = iota

	// AttrsKey retrieves extra logging information from [slog.Record]
	// values produced by asgen packages via [context.Context.Value].
	//
	// The value returned is a [slog.Value] of kind "Group" if present.
	AttrsKey

	// LevelKey retrieves a per-record minimum [slog.Level] from
	// [slog.Record] values produced by asgen packages.
	LevelKey
)

// With returns a context with the arguments stored as [slog.Attr] at
// [AttrsKey].
func With(ctx context.Context, args ...any) context.Context {
	return WithAttr(ctx, argsToAttrSlice(args)...)
}

// WithAttr returns a context with the arguments stored at [AttrsKey].
func WithAttr(ctx context.Context, attrs ...slog.Attr) context.Context {
	if v, ok := ctx.Value(AttrsKey).(slog.Value); ok {
		attrs = append(v.Group(), attrs...)
	}
	seen := make(map[string]struct{}, len(attrs))
	del := func(a slog.Attr) bool {
		_, rm := seen[a.Key]
		seen[a.Key] = struct{}{}
		return rm || (a.Value.Kind() == slog.KindGroup && len(a.Value.Group()) == 0)
	}
	slices.Reverse(attrs)
	attrs = slices.DeleteFunc(attrs, del)
	slices.Reverse(attrs)

	return context.WithValue(ctx, AttrsKey, slog.GroupValue(attrs...))
}

// WithLevel returns a context with the [slog.Leveler] stored at [LevelKey].
// The [WrapHandler] interceptor then handles any record at or above that
// level even when the handler's own configured level would drop it; a
// context level never suppresses a record the handler already enables.
func WithLevel(ctx context.Context, l slog.Leveler) context.Context {
	return context.WithValue(ctx, LevelKey, l)
}

func argsToAttrSlice(args []any) []slog.Attr {
	var (
		attr  slog.Attr
		attrs []slog.Attr
	)
	for len(args) > 0 {
		attr, args = argsToAttr(args)
		attrs = append(attrs, attr)
	}
	return attrs
}

func argsToAttr(args []any) (slog.Attr, []any) {
	const badKey = `!BADKEY`
	switch x := args[0].(type) {
	case string:
		if len(args) == 1 {
			return slog.String(badKey, x), nil
		}
		return slog.Any(x, args[1]), args[2:]

	case slog.Attr:
		return x, args[1:]

	default:
		return slog.Any(badKey, x), args[1:]
	}
}
