// Package logging builds the application's slog loggers and carries a
// request-scoped logger through context.Context.
//
// The HTTP logging middleware stores a logger tagged with the request ID;
// code below it logs through FromContext:
//
//	logging.FromContext(ctx).InfoContext(ctx, "chunk summarized", slog.Int("chunk", i))
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"doc-summarizer/internal/handler/http/requestid"
)

type loggerKey struct{}

// New returns a logger writing JSON (or logfmt-style text) to w.
// Debug level also records the source location of each entry.
func New(w io.Writer, level string, json bool) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl, AddSource: lvl <= slog.LevelDebug}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if json {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

// ParseLevel maps debug, info, warn(ing) and error, in any case, to slog levels.
// Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored by WithLogger. Without one it falls
// back to slog.Default, tagged with the request ID when ctx carries one.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	if id := requestid.FromContext(ctx); id != "" {
		return slog.Default().With(slog.String("request_id", id))
	}
	return slog.Default()
}
