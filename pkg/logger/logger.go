package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects level, format, destination and optional Sentry forwarding.
type Config struct {
	Output io.Writer
	Level  string
	// Format is "json" (default) or "text".
	Format string
	Sentry SentryConfig
}

// New creates a logger. Unknown levels fall back to info.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}

	if sh, ok := newSentryHandler(cfg.Sentry, h); ok {
		h = fanout{sh, h}
	}

	return slog.New(newContextHandler(h, extractors))
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
