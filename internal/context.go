package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/penwright/contentapi/pkg/logger"
)

// Context is the per-exchange view handed to hooks, handlers and
// middleware. It also implements context.Context by delegating to the
// request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the exchange's http.ResponseWriter. Raw writes are
	// dropped with ErrAlreadyResponded once an envelope has been sent.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// SetContext replaces the request context, e.g. to add a deadline.
	SetContext(ctx context.Context)

	// Param returns the URL parameter value by name.
	Param(name string) string

	// Query returns the query parameter value by name.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// ClientIP returns the client address without port.
	ClientIP() string

	// Contract returns the contract of the matched route.
	Contract() Contract

	// Version returns the API version requested in the path, if any.
	Version() string

	// Subject returns the authenticated subject, or nil before the auth
	// gate ran or on routes that do not require one.
	Subject() *Subject

	// Runtime returns the exchange's extension slot.
	Runtime() *Runtime

	// OK writes a success envelope with status 200. Fields of data are
	// merged next to "success"; non-object data goes under "data".
	OK(data any) error

	// OKStatus writes a success envelope with the given status.
	OKStatus(code int, data any) error

	// Fail writes a failure envelope of the given kind. An empty message
	// uses the kind's default.
	Fail(kind Kind, message string) error

	// NotFound writes a NotFound envelope.
	NotFound() error

	// Unauthorized writes an Unauthorized envelope.
	Unauthorized() error

	// BadRequest writes a BadRequest envelope.
	BadRequest(message string) error

	// Written returns true if a response has already been written.
	Written() bool

	// Status returns the response status, 200 until something is written.
	Status() int

	// Logger returns the logger for advanced usage.
	Logger() *slog.Logger

	// LogDebug logs a debug message with optional attributes.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs an info message with optional attributes.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs a warning message with optional attributes.
	LogWarn(msg string, attrs ...any)

	// LogError logs an error message with optional attributes.
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context.
	Get(key any) any
}

type requestContext struct {
	request   *http.Request
	rw        *ResponseWriter
	transport context.Context
	logger    *slog.Logger
	subject   *Subject
	runtime   *Runtime
	version   string
	contract  Contract
	state     State
}

func newContext(w http.ResponseWriter, r *http.Request, log *slog.Logger, contract Contract, version string) *requestContext {
	return &requestContext{
		request:   r,
		rw:        NewResponseWriter(w),
		transport: r.Context(),
		logger:    log,
		runtime:   newRuntime(),
		version:   version,
		contract:  contract,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.rw
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.request.URL.Query().Get(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.rw.Header().Set(name, value)
}

func (c *requestContext) ClientIP() string {
	host, _, err := net.SplitHostPort(c.request.RemoteAddr)
	if err != nil {
		return c.request.RemoteAddr
	}
	return host
}

func (c *requestContext) Contract() Contract {
	return c.contract
}

func (c *requestContext) Version() string {
	return c.version
}

func (c *requestContext) Subject() *Subject {
	return c.subject
}

func (c *requestContext) Runtime() *Runtime {
	return c.runtime
}

func (c *requestContext) Written() bool {
	return c.rw.Written()
}

func (c *requestContext) Status() int {
	return c.rw.Status()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

// annotate attaches log attributes to every record logged for this exchange.
func (c *requestContext) annotate(attrs ...slog.Attr) {
	c.SetContext(logger.WithAttrs(c.request.Context(), attrs...))
}

// aborted reports whether the client went away. Deadlines set by
// middleware do not count; only cancellation of the transport does.
func (c *requestContext) aborted() bool {
	return c.transport.Err() != nil
}

// descriptor is the runtime override if set, else the contract descriptor.
func (c *requestContext) descriptor() string {
	if d, ok := c.runtime.Get(RuntimeDescriptor); ok && d != "" {
		return d
	}
	return c.contract.Descriptor
}
