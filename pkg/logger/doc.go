// Package logger builds slog loggers for the API.
//
// Records are enriched from the context on every call: attributes attached
// with WithAttrs, plus any ContextExtractor passed to New. When a Sentry DSN
// is configured, warnings and errors are also forwarded to Sentry.
//
//	log := logger.New(logger.Config{Level: "debug"})
//	ctx = logger.WithAttrs(ctx, slog.String("request_id", id))
//	log.InfoContext(ctx, "request completed") // carries request_id
package logger
