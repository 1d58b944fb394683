package ratelimit

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidLimit = errors.New("ratelimit: limit and window must be positive")
	ErrClosed       = errors.New("ratelimit: limiter is closed")
)

// Result is the outcome of one Allow call.
type Result struct {
	// RetryAfter is the time until the window resets. Zero when allowed.
	RetryAfter time.Duration
	Limit      int
	Remaining  int
	Allowed    bool
}

// Limiter counts hits per key within a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Option configures a limiter.
type Option func(*options)

type options struct {
	prefix string
}

// WithPrefix namespaces keys, e.g. "rl:".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func result(limit int, count int64, ttl time.Duration) Result {
	r := Result{Limit: limit, Remaining: max(limit-int(count), 0), Allowed: count <= int64(limit)}
	if !r.Allowed {
		r.RetryAfter = max(ttl, 0)
	}
	return r
}
