package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig enables Sentry forwarding when DSN is set.
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
	// ErrorsOnly stops warnings from being stored as Sentry logs.
	ErrorsOnly bool
}

// newSentryHandler initialises the Sentry SDK. Initialisation failures are
// reported through fallback and leave logging on the local handler only.
func newSentryHandler(cfg SentryConfig, fallback slog.Handler) (slog.Handler, bool) {
	if cfg.DSN == "" {
		return nil, false
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	}); err != nil {
		slog.New(fallback).Error("logger: sentry init failed", slog.String("error", err.Error()))
		return nil, false
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.ErrorsOnly {
		logLevels = []slog.Level{slog.LevelError}
	}

	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background()), true
}

// Flush waits up to timeout for buffered Sentry events to be delivered.
// Use it as a shutdown hook.
func Flush(timeout time.Duration) func(context.Context) error {
	return func(context.Context) error {
		sentry.Flush(timeout)
		return nil
	}
}
