package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errPipelineReentered = errors.New("contentapi: middleware invoked the route more than once")

// State is a stage of the request pipeline.
type State int

const (
	StateStart State = iota
	StateValidating
	StateAuthenticating
	StateRateLimiting
	StatePreHooks
	StateHandling
	StatePostHooks
	StateResponded
	StateFaulted
)

var stateNames = [...]string{
	StateStart:          "start",
	StateValidating:     "validating",
	StateAuthenticating: "authenticating",
	StateRateLimiting:   "rate_limiting",
	StatePreHooks:       "pre_hooks",
	StateHandling:       "handling",
	StatePostHooks:      "post_hooks",
	StateResponded:      "responded",
	StateFaulted:        "faulted",
}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// boundRoute is a registered route: its contract plus the code that runs
// for it. Read-only once New returns.
type boundRoute struct {
	handler   HandlerFunc
	preHooks  []PreHook
	postHooks []PostHook
	contract  Contract

	// allow lists every method served on the same path and version.
	allow []string

	// unmatched marks the catch-all route, which skips request validation
	// so every method and content type ends in NotFound.
	unmatched bool
}

// pipeline drives every exchange through the gates, hooks and handler.
// It holds no per-request state and is safe for concurrent use.
type pipeline struct {
	logger      *slog.Logger
	limiter     *rateLimitGate
	auth        authGate
	middlewares []Middleware
}

// serve runs one exchange. Exactly one envelope is written unless the
// client aborted first.
func (p *pipeline) serve(w http.ResponseWriter, r *http.Request, route *boundRoute, version, matchedPath string) {
	start := time.Now()
	c := newContext(w, r, p.logger, route.contract, version)
	if matchedPath != "" {
		_ = c.runtime.Set(RuntimeMatchedPath, matchedPath)
	}
	c.annotate(slog.String("route", route.contract.Descriptor))

	ran := false
	body := func(Context) error {
		if ran {
			return errPipelineReentered
		}
		ran = true
		return p.execute(c, route)
	}
	for _, mw := range slices.Backward(p.middlewares) {
		body = mw(body)
	}

	if err := recoverPanic(func() error { return body(c) }); err != nil {
		c.state = StateFaulted
		p.fail(c, err)
	} else if !c.Written() && !c.aborted() {
		// A middleware short-circuited without responding.
		c.state = StateFaulted
		p.fail(c, errors.New("pipeline finished without a response"))
	}

	p.finish(c, start)
}

// execute walks the state machine up to Responded. Any returned error
// leaves the exchange Faulted.
func (p *pipeline) execute(c *requestContext, route *boundRoute) error {
	c.state = StateValidating
	if !route.unmatched {
		if err := validateRequest(c.request, route.contract, route.allow, c.version); err != nil {
			return err
		}
	}

	if route.contract.requiresAuth() {
		c.state = StateAuthenticating
		if err := p.auth.run(c); err != nil {
			return err
		}
		c.annotate(slog.String("subject", c.subject.ID))
	}

	if p.limiter != nil && !route.contract.Unlimited {
		c.state = StateRateLimiting
		if err := p.limiter.run(c); err != nil {
			return err
		}
	}

	c.state = StatePreHooks
	for _, hook := range route.preHooks {
		if err := hook(c); err != nil {
			return err
		}
		if c.Written() {
			c.state = StateResponded
			return nil
		}
	}

	c.state = StateHandling
	if err := route.handler(c); err != nil {
		return err
	}
	if !c.Written() {
		if err := c.OK(nil); err != nil {
			return err
		}
	}

	c.state = StatePostHooks
	for _, hook := range route.postHooks {
		p.runPostHook(c, hook)
	}

	c.state = StateResponded
	return nil
}

func (p *pipeline) runPostHook(c *requestContext, hook PostHook) {
	err := recoverPanic(func() error {
		hook(c)
		return nil
	})
	if err != nil {
		c.LogError("post-hook failed", slog.Any("error", err), stackAttr(err))
	}
}

// fail renders err as a failure envelope when the exchange can still
// respond, and logs what the client will not see.
func (p *pipeline) fail(c *requestContext, err error) {
	he, known := classify(err)

	switch {
	case errors.Is(err, ErrAborted):
	case !known || he.Kind == KindInternal:
		c.LogError("request failed",
			slog.String("kind", he.Kind.String()),
			slog.Any("error", err),
			stackAttr(err),
		)
	case he.Err != nil:
		c.LogDebug("request rejected",
			slog.String("kind", he.Kind.String()),
			slog.Any("error", he.Err),
		)
	}

	switch {
	case c.aborted():
		c.LogDebug("client aborted, response dropped", slog.String("kind", he.Kind.String()))
	case c.Written():
		if !errors.Is(err, ErrAlreadyResponded) {
			c.LogError("error returned after response was written",
				slog.Any("error", err),
				slog.Int("status", c.Status()),
			)
		}
	default:
		if werr := c.writeError(he); werr != nil && !errors.Is(werr, ErrAborted) {
			c.LogError("failed to write error envelope", slog.Any("error", werr))
		}
	}
}

func (p *pipeline) finish(c *requestContext, start time.Time) {
	descriptor := c.descriptor()
	status := c.Status()
	if !c.Written() {
		status = 0
	}

	trace.SpanFromContext(c.Context()).SetAttributes(
		attribute.String("http.route", descriptor),
		attribute.String("contentapi.state", c.state.String()),
	)

	attrs := []slog.Attr{
		slog.String("method", c.request.Method),
		slog.String("path", c.request.URL.Path),
		slog.String("descriptor", descriptor),
		slog.Int("status", status),
		slog.String("state", c.state.String()),
		slog.Duration("duration", time.Since(start)),
	}
	if id, ok := c.runtime.Get(RuntimeRequestID); ok {
		attrs = append(attrs, slog.String("request_id", id))
	}
	c.logger.LogAttrs(c.Context(), slog.LevelInfo, "request completed", attrs...)
}

// recoverPanic runs fn and converts a panic into a *PanicError.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func recoverPanic(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == http.ErrAbortHandler {
				panic(r)
			}
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}

func stackAttr(err error) slog.Attr {
	var pe *PanicError
	if errors.As(err, &pe) {
		return slog.String("stack", string(pe.Stack))
	}
	return slog.Attr{}
}
