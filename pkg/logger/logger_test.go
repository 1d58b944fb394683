package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/penwright/contentapi/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("adds context attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf})

		ctx := logger.WithAttrs(context.Background(), slog.String("request_id", "req-1"))
		ctx = logger.WithAttrs(ctx, slog.String("route", "/v1/blogs"))
		log.InfoContext(ctx, "request completed")

		rec := decode(t, &buf)
		require.Equal(t, "req-1", rec["request_id"])
		require.Equal(t, "/v1/blogs", rec["route"])
	})

	t.Run("runs extractors", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf}, nil, func(ctx context.Context) (slog.Attr, bool) {
			v, ok := ctx.Value(key{}).(string)
			return slog.String("subject", v), ok
		})

		log.InfoContext(context.WithValue(context.Background(), key{}, "u1"), "hello")
		require.Equal(t, "u1", decode(t, &buf)["subject"])
	})

	t.Run("respects level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf, Level: "warn"})
		log.Info("dropped")
		require.Zero(t, buf.Len())

		log.Warn("kept")
		require.Equal(t, "kept", decode(t, &buf)["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf, Format: "text"})
		log.Info("plain", slog.Int("status", 200))
		require.Contains(t, buf.String(), "msg=plain")
		require.Contains(t, buf.String(), "status=200")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel(""))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel("verbose"))
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		logger.NewNope().Error("discarded")
	})
}
