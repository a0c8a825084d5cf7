// Package logging builds the provisioner's slog loggers and carries them
// through context.Context.
//
// A CLI run stores a logger tagged with its run id; the resolver, the retry
// primitive and the backend client all log through whatever logger the
// context holds, so one grep on run_id shows a whole run:
//
//	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
//	ctx = logging.WithLogger(ctx, logger.With(slog.String("run_id", id)))
//
// Error records carry the operation, the kind or identifier involved, and
// the error chain:
//
//	logging.FromContext(ctx).ErrorContext(ctx, "failed to create object",
//	    slog.String("operation", "Resolver.create"),
//	    slog.String("kind", kind),
//	    slog.Any("error", err),
//	)
//
// Parameter sets often carry credentials for the users they create, so every
// handler built by New redacts sensitive keys and token-shaped values.
package logging

import (
	"context"
	"io"
	"log/slog"
	"slices"
)

type contextKey struct{}

// Format names accepted by New.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// New returns a logger writing to w. Level names are case-insensitive;
// unknown names mean info. Format "text" selects the text handler, anything
// else JSON. Debug loggers also record the source location.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: redactor(),
	}

	if format == FormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a level name such as "warn" or "DEBUG" to a slog level.
func ParseLevel(name string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, slog.Default())
}

// FromContextOr returns the logger stored in ctx, or fallback when none is.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return fallback
}

// identified is satisfied by provisioned objects.
type identified interface {
	Identifier() string
}

// Params renders a parameter set as a group attribute with sorted keys.
// Object values are logged by identifier. Keys go through the same
// redaction as any other attribute.
func Params(key string, params map[string]any) slog.Attr {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)

	attrs := make([]any, 0, len(names))
	for _, name := range names {
		v := params[name]
		if obj, ok := v.(identified); ok {
			v = obj.Identifier()
		}
		attrs = append(attrs, slog.Any(name, v))
	}
	return slog.Group(key, attrs...)
}
