package contentapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/penwright/contentapi/internal"
	"github.com/penwright/contentapi/pkg/cache"
	"github.com/penwright/contentapi/pkg/objectid"
)

// Type aliases - public API
type (
	// App owns the router, the request pipeline and the registered contracts.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Route declares one endpoint.
	Route = internal.Route

	// Contract is the declared request shape of a registered route.
	Contract = internal.Contract

	// Context provides request access and envelope helpers.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps every exchange before contract validation.
	Middleware = internal.Middleware

	// PreHook runs after the gates and before the handler.
	PreHook = internal.PreHook

	// PostHook observes a successful exchange.
	PostHook = internal.PostHook

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	Tier      = internal.Tier
	Privilege = internal.Privilege
	Subject   = internal.Subject

	// CredentialResolver turns a raw credential into a Subject.
	CredentialResolver     = internal.CredentialResolver
	CredentialResolverFunc = internal.CredentialResolverFunc

	// CachedResolver memoizes a CredentialResolver in a cache store.
	CachedResolver = internal.CachedResolver

	// QuotaChecker decides whether a request fits its rate budget.
	QuotaChecker     = internal.QuotaChecker
	QuotaCheckerFunc = internal.QuotaCheckerFunc
	QuotaKey         = internal.QuotaKey
	Quota            = internal.Quota

	// Extractor reads a credential from the request.
	Extractor       = internal.Extractor
	ExtractorSource = internal.ExtractorSource

	Runtime    = internal.Runtime
	RuntimeKey = internal.RuntimeKey

	State = internal.State

	Kind            = internal.Kind
	HTTPError       = internal.HTTPError
	HTTPErrorOption = internal.HTTPErrorOption
	ValidationError = internal.ValidationError
	PanicError      = internal.PanicError

	ResponseWriter = internal.ResponseWriter

	// Direction orders object identifiers.
	Direction = objectid.Direction
)

// Page is a slice of a listing plus the cursor for the next request.
type Page[T any] = internal.Page[T]

// Tiers and privileges.
const (
	TierPublic = internal.TierPublic
	TierSystem = internal.TierSystem

	PrivilegeNone   = internal.PrivilegeNone
	PrivilegeUser   = internal.PrivilegeUser
	PrivilegeSystem = internal.PrivilegeSystem
)

// Failure kinds.
const (
	KindInternal               = internal.KindInternal
	KindBadRequest             = internal.KindBadRequest
	KindUnauthorized           = internal.KindUnauthorized
	KindForbidden              = internal.KindForbidden
	KindNotFound               = internal.KindNotFound
	KindMethodNotAllowed       = internal.KindMethodNotAllowed
	KindUnsupportedContentType = internal.KindUnsupportedContentType
	KindRateLimited            = internal.KindRateLimited
	KindUnavailable            = internal.KindUnavailable
)

// Media type sentinels for Route.ContentTypes.
const (
	ContentTypeNone = internal.ContentTypeNone
	ContentTypeAny  = internal.ContentTypeAny
	ContentTypeJSON = internal.ContentTypeJSON
	ContentTypeForm = internal.ContentTypeForm
)

// Runtime keys.
const (
	RuntimeDescriptor  = internal.RuntimeDescriptor
	RuntimeMatchedPath = internal.RuntimeMatchedPath
	RuntimeRequestID   = internal.RuntimeRequestID
)

// Pipeline states.
const (
	StateStart          = internal.StateStart
	StateValidating     = internal.StateValidating
	StateAuthenticating = internal.StateAuthenticating
	StateRateLimiting   = internal.StateRateLimiting
	StatePreHooks       = internal.StatePreHooks
	StateHandling       = internal.StateHandling
	StatePostHooks      = internal.StatePostHooks
	StateResponded      = internal.StateResponded
	StateFaulted        = internal.StateFaulted
)

// Query parameters read by list endpoints.
const (
	CursorParam = internal.CursorParam
	LimitParam  = internal.LimitParam
	OrderParam  = internal.OrderParam
)

// SystemPrefix is the namespace of system-tier routes.
const SystemPrefix = internal.SystemPrefix

// Sentinel errors.
var (
	ErrAlreadyResponded  = internal.ErrAlreadyResponded
	ErrAborted           = internal.ErrAborted
	ErrInvalidContract   = internal.ErrInvalidContract
	ErrUnknownRuntimeKey = internal.ErrUnknownRuntimeKey
	ErrInvalidCredential = internal.ErrInvalidCredential
)

// Constructors

// New creates an application. Routes are registered here, so an invalid
// contract panics from New.
//
// Example:
//
//	app := contentapi.New(
//	    contentapi.WithLogger(log),
//	    contentapi.WithCredentialResolver(resolver),
//	    contentapi.WithHandlers(handlers.NewBlogs(store)),
//	)
//
//	err := app.Run(":8080", contentapi.ShutdownHook(redis.Shutdown(client)))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewCachedResolver wraps next so resolved subjects are kept in store for ttl.
func NewCachedResolver(next CredentialResolver, store cache.Store[Subject], ttl time.Duration) *CachedResolver {
	return internal.NewCachedResolver(next, store, ttl)
}

// App options

// WithMiddleware adds middleware wrapping every exchange.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithCredentialResolver sets the resolver used by the auth gate.
func WithCredentialResolver(r CredentialResolver) Option {
	return internal.WithCredentialResolver(r)
}

// WithCredentialExtractor replaces the default credential sources.
func WithCredentialExtractor(e Extractor) Option {
	return internal.WithCredentialExtractor(e)
}

// WithQuotaChecker enables the rate-limit gate.
func WithQuotaChecker(q QuotaChecker) Option {
	return internal.WithQuotaChecker(q)
}

// WithTrustProxy takes the client address from proxy headers.
func WithTrustProxy(trust bool) Option {
	return internal.WithTrustProxy(trust)
}

// WithTracing wraps the router with OpenTelemetry server spans.
func WithTracing(operation string) Option {
	return internal.WithTracing(operation)
}

// WithRouteIntrospection registers GET /system/routes.
func WithRouteIntrospection() Option {
	return internal.WithRouteIntrospection()
}

// WithHealthChecks enables liveness and readiness endpoints.
//
// Example:
//
//	contentapi.WithHealthChecks(
//	    contentapi.WithReadinessCheck("redis", redis.Ping(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named dependency check.
func WithReadinessCheck(name string, fn func(context.Context) error) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// WithHealthTimeout bounds the readiness run. Defaults to 5 seconds.
func WithHealthTimeout(d time.Duration) HealthOption {
	return internal.WithHealthTimeout(d)
}

// Run options

// Logger overrides the logger used for server lifecycle messages.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function to run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context; cancelling it triggers shutdown.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Credential extraction

func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }

func FromQuery(name string) ExtractorSource { return internal.FromQuery(name) }

func FromBearerToken() ExtractorSource { return internal.FromBearerToken() }

// ParsePrivilege maps "user" and "system" to privileges.
func ParsePrivilege(s string) Privilege {
	return internal.ParsePrivilege(s)
}

// Errors

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

func ErrUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnavailable(message, opts...)
}

// ErrInternal wraps cause; the client only sees the generic message.
func ErrInternal(cause error) *HTTPError {
	return internal.ErrInternal(cause)
}

// WithError attaches the underlying cause, logged but never sent.
func WithError(err error) HTTPErrorOption { return internal.WithError(err) }

// WithData merges v into the failure envelope.
func WithData(v any) HTTPErrorOption { return internal.WithData(v) }

// AsHTTPError extracts an HTTPError from the error chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	return internal.AsHTTPError(err)
}

// Input helpers

// ParseStructured decodes raw JSON into dst, reporting failures as a
// *ValidationError for property.
func ParseStructured(raw, property string, dst any) error {
	return internal.ParseStructured(raw, property, dst)
}

// Bind decodes the JSON request body into dst.
func Bind(c Context, dst any) error {
	return internal.Bind(c, dst)
}

// Param retrieves a typed URL parameter.
func Param[T ~string | ~int | ~int64 | ~bool](c Context, name string) T {
	return internal.Param[T](c, name)
}

// QueryDefault retrieves a typed query parameter with a default.
func QueryDefault[T ~string | ~int | ~int64 | ~bool](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}

// Pagination

// Cursor returns the "after" identifier, or "" for the first page.
func Cursor(c Context) (string, error) {
	return internal.Cursor(c)
}

// Limit returns the page size, def when absent, capped at maxLimit.
func Limit(c Context, def, maxLimit int) (int, error) {
	return internal.Limit(c, def, maxLimit)
}

// Order returns the requested sort direction.
func Order(c Context) (Direction, error) {
	return internal.Order(c)
}

// NewPage builds a page from items fetched with limit+1 as the store limit.
func NewPage[T any](items []T, idOf func(T) string, limit int) Page[T] {
	return internal.NewPage(items, idOf, limit)
}
