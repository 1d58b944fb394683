package internal

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/penwright/contentapi/pkg/health"
	"github.com/penwright/contentapi/pkg/logger"
	"github.com/penwright/contentapi/pkg/telemetry"
)

const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// App owns the router, the pipeline and the registered contracts.
type App struct {
	router       chi.Router
	handler      http.Handler
	pipeline     *pipeline
	logger       *slog.Logger
	resolver     CredentialResolver
	quota        QuotaChecker
	extractor    *Extractor
	healthConfig *healthConfig
	routes       map[string]*routeSet
	tracing      string
	contracts    []Contract
	middlewares  []Middleware
	handlers     []Handler
	trustProxy   bool
	introspect   bool
}

// New creates an App. Route registration happens here, so contract errors
// panic from New.
func New(opts ...Option) *App {
	a := &App{
		router: chi.NewRouter(),
		logger: logger.NewNope(),
		routes: make(map[string]*routeSet),
	}

	for _, opt := range opts {
		opt(a)
	}

	extractor := DefaultCredentialExtractor()
	if a.extractor != nil {
		extractor = *a.extractor
	}
	a.pipeline = &pipeline{
		logger:      a.logger,
		auth:        authGate{resolver: a.resolver, extractor: extractor},
		middlewares: slices.Clone(a.middlewares),
	}
	if a.quota != nil {
		a.pipeline.limiter = &rateLimitGate{checker: a.quota}
	}

	a.setupRoutes()
	return a
}

func (a *App) setupRoutes() {
	if a.trustProxy {
		a.router.Use(middleware.RealIP)
	}

	catchAll := a.catchAll()
	a.router.NotFound(catchAll)
	a.router.MethodNotAllowed(catchAll)

	r := &routerAdapter{app: a}
	if a.healthConfig != nil {
		a.healthConfig.routes(r)
	}
	if a.introspect {
		r.System(func(r Router) {
			r.Handle(Route{
				Pattern: "/routes",
				Methods: []string{http.MethodGet},
				Handler: a.listContracts,
			})
		})
	}
	for _, h := range a.handlers {
		h.Routes(r)
	}

	a.handler = a.router
	if a.tracing != "" {
		a.handler = telemetry.Middleware(a.tracing)(a.router)
	}
}

// catchAll answers every unmatched request, whatever its method or content
// type, with a NotFound envelope after the usual gates, recording a
// synthesized descriptor for the logs.
func (a *App) catchAll() http.HandlerFunc {
	route := &boundRoute{
		contract:  Contract{Descriptor: "*"},
		unmatched: true,
		handler:   func(c Context) error { return c.NotFound() },
		preHooks: []PreHook{func(c Context) error {
			return c.Runtime().Set(RuntimeDescriptor, c.Request().Method+" "+c.Request().URL.Path)
		}},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		a.pipeline.serve(w, r, route, "", "")
	}
}

func (a *App) listContracts(c Context) error {
	return c.OK(map[string]any{"routes": a.Contracts()})
}

// ServeHTTP makes the App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Router exposes the underlying chi router.
func (a *App) Router() chi.Router {
	return a.router
}

// Contracts returns the registered contracts in registration order.
func (a *App) Contracts() []Contract {
	out := make([]Contract, len(a.contracts))
	for i, c := range a.contracts {
		c.Methods = slices.Clone(c.Methods)
		c.ContentTypes = slices.Clone(c.ContentTypes)
		out[i] = c
	}
	return out
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
	timeout       time.Duration
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures the health routes.
type HealthOption func(*healthConfig)

func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named dependency check to the readiness route.
func WithReadinessCheck(name string, fn func(context.Context) error) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}

// WithHealthTimeout bounds the whole readiness run.
func WithHealthTimeout(d time.Duration) HealthOption {
	return func(c *healthConfig) {
		c.timeout = d
	}
}

// routes registers liveness and readiness as public, unversioned routes
// exempt from rate limiting.
func (h *healthConfig) routes(r Router) {
	r.Handle(Route{
		Pattern:   h.livenessPath,
		Methods:   []string{http.MethodGet, http.MethodHead},
		Unlimited: true,
		Handler: func(c Context) error {
			return c.OK(map[string]string{"status": health.StatusHealthy})
		},
	})
	r.Handle(Route{
		Pattern:   h.readinessPath,
		Methods:   []string{http.MethodGet, http.MethodHead},
		Unlimited: true,
		Handler: func(c Context) error {
			report := health.Run(c, h.checks, h.timeout)
			if !report.Healthy() {
				c.LogWarn("readiness check failed", slog.Any("failed", report.Failed()))
				return ErrUnavailable("", WithData(report))
			}
			return c.OK(report)
		},
	})
}
