package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/penwright/contentapi/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that puts a deadline on the exchange context.
//
// The deadline is cooperative: handlers observe it through c.Done() or by
// passing c to blocking calls. When the deadline passes before a response
// is written, the exchange fails with KindUnavailable and a wrapped
// *TimeoutError. Expiry is not treated as a client abort, so the failure
// envelope is still sent.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			parent := c.Context()
			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()

			c.SetContext(ctx)
			err := next(c)

			if c.Written() || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return err
			}
			if parent.Err() != nil {
				// The outer deadline or the client ended first.
				return err
			}

			c.LogWarn("request timeout", "timeout", timeout.String())
			te := &TimeoutError{Duration: timeout, Err: err}
			return internal.ErrUnavailable("request timed out", internal.WithError(te))
		}
	}
}
