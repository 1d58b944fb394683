package internal

import (
	"log/slog"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware adds middleware wrapping every exchange.
// Middleware is applied in the order provided; the first is outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during New.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithLogger sets the application logger. Nil keeps the no-op default.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCredentialResolver sets the resolver used by the auth gate.
// Without one, every route that requires a subject answers 401.
func WithCredentialResolver(r CredentialResolver) Option {
	return func(a *App) {
		a.resolver = r
	}
}

// WithCredentialExtractor replaces the default credential sources
// (bearer token, then X-API-Key).
//
// Example:
//
//	contentapi.WithCredentialExtractor(contentapi.NewExtractor(
//	    contentapi.FromBearerToken(),
//	    contentapi.FromQuery("access_token"),
//	))
func WithCredentialExtractor(e Extractor) Option {
	return func(a *App) {
		a.extractor = &e
	}
}

// WithQuotaChecker enables the rate-limit gate. Without one the gate is
// skipped for every route.
func WithQuotaChecker(q QuotaChecker) Option {
	return func(a *App) {
		a.quota = q
	}
}

// WithTrustProxy takes the client address from X-Forwarded-For and
// X-Real-IP. Enable only behind a proxy that sets them.
func WithTrustProxy(trust bool) Option {
	return func(a *App) {
		a.trustProxy = trust
	}
}

// WithTracing wraps the router with OpenTelemetry server spans named after
// operation. Install a tracer provider first.
func WithTracing(operation string) Option {
	return func(a *App) {
		a.tracing = operation
	}
}

// WithRouteIntrospection registers GET /system/routes, listing every
// registered contract.
func WithRouteIntrospection() Option {
	return func(a *App) {
		a.introspect = true
	}
}

// WithHealthChecks registers liveness and readiness routes.
//
// Example:
//
//	contentapi.WithHealthChecks(
//	    contentapi.WithReadinessCheck("redis", redis.Ping(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}
