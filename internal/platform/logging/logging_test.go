package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/logging"
)

// decode parses the single JSON record in buf.
func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), buf.String())
	return rec
}

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	var jsonBuf, textBuf, unknownBuf bytes.Buffer
	logging.New("info", logging.FormatJSON, &jsonBuf).Info("created", slog.String("kind", "User"))
	logging.New("info", logging.FormatText, &textBuf).Info("created", slog.String("kind", "User"))
	logging.New("info", "xml", &unknownBuf).Info("created")

	assert.Equal(t, "User", decode(t, &jsonBuf)["kind"])
	assert.Contains(t, textBuf.String(), "kind=User")
	assert.Equal(t, "created", decode(t, &unknownBuf)["msg"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"Error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for name, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(name), name)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level   string
		emit    func(*slog.Logger)
		written bool
	}{
		{"info", func(l *slog.Logger) { l.Debug("hidden") }, false},
		{"debug", func(l *slog.Logger) { l.Debug("shown") }, true},
		{"error", func(l *slog.Logger) { l.Warn("hidden") }, false},
		{"warn", func(l *slog.Logger) { l.Warn("shown") }, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		tt.emit(logging.New(tt.level, "json", &buf))
		assert.Equal(t, tt.written, buf.Len() > 0, tt.level)
	}
}

func TestNew_SourceOnlyAtDebug(t *testing.T) {
	t.Parallel()

	var debugBuf, infoBuf bytes.Buffer
	logging.New("debug", "json", &debugBuf).Info("x")
	logging.New("info", "json", &infoBuf).Info("x")

	assert.Contains(t, decode(t, &debugBuf), slog.SourceKey)
	assert.NotContains(t, decode(t, &infoBuf), slog.SourceKey)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	first := logging.New("info", "json", &bytes.Buffer{})
	second := logging.New("info", "json", &bytes.Buffer{})

	assert.Same(t, slog.Default(), logging.FromContext(context.Background()))

	ctx := logging.WithLogger(context.Background(), first)
	assert.Same(t, first, logging.FromContext(ctx))

	ctx = logging.WithLogger(ctx, second)
	assert.Same(t, second, logging.FromContext(ctx))
}

func TestFromContextOr(t *testing.T) {
	t.Parallel()

	fallback := logging.New("info", "json", &bytes.Buffer{})
	stored := logging.New("info", "json", &bytes.Buffer{})

	assert.Same(t, fallback, logging.FromContextOr(context.Background(), fallback))

	ctx := logging.WithLogger(context.Background(), stored)
	assert.Same(t, stored, logging.FromContextOr(ctx, fallback))
}

func TestNew_RedactsSensitiveKeys(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"password", "token", "authorization", "secret_key", "password_confirmation"} {
		var buf bytes.Buffer
		logging.New("info", "json", &buf).Info("creating", slog.String(key, "hunter2-value"))

		assert.NotContains(t, buf.String(), "hunter2-value", key)
		assert.Contains(t, buf.String(), "[REDACTED]", key)
	}
}

func TestNew_RedactsTokenShapedValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logging.New("info", "json", &buf).Info("request",
		slog.String("raw_header", "Bearer eyJhbGciOiJSUzI1NiJ9"),
		slog.String("note", "api_key=abc123"),
	)

	assert.NotContains(t, buf.String(), "eyJhbGciOiJSUzI1NiJ9")
	assert.NotContains(t, buf.String(), "abc123")
}

func TestNew_KeepsOrdinaryFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logging.New("info", "json", &buf).Info("registered",
		slog.String("identifier", "Bob"),
		slog.String("category", "BaseUser"),
		slog.String("version", "1.2.3"),
	)

	rec := decode(t, &buf)
	assert.Equal(t, "Bob", rec["identifier"])
	assert.Equal(t, "BaseUser", rec["category"])
	assert.Equal(t, "1.2.3", rec["version"])
}

type named string

func (n named) Identifier() string { return string(n) }

func TestParams(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logging.New("info", "json", &buf).Info("creating",
		logging.Params("params", map[string]any{
			"name":     "Acme",
			"owner":    named("Bob"),
			"password": "hunter2",
		}),
	)

	params, ok := decode(t, &buf)["params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme", params["name"])
	assert.Equal(t, "Bob", params["owner"])
	assert.NotEqual(t, "hunter2", params["password"])
}

func TestParams_Empty(t *testing.T) {
	t.Parallel()

	attr := logging.Params("params", nil)

	assert.Equal(t, "params", attr.Key)
	assert.Empty(t, attr.Value.Group())
}
