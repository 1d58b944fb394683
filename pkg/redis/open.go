package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option configures a client.
type Option func(*options)

type options struct {
	poolSize      int
	attempts      int
	backoff       time.Duration
	dialTimeout   time.Duration
	commandTimout time.Duration
}

// WithPoolSize sets the connection pool size. Default: 10.
func WithPoolSize(n int) Option {
	return func(o *options) {
		o.poolSize = n
	}
}

// WithRetry sets how many times the initial ping is attempted and the base
// delay between attempts, which grows linearly. Default: 3 attempts, 2s.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(o *options) {
		o.attempts = attempts
		o.backoff = backoff
	}
}

// WithTimeouts sets the dial and per-command read/write timeouts.
// Default: 5s dial, 3s commands.
func WithTimeouts(dial, command time.Duration) Option {
	return func(o *options) {
		o.dialTimeout = dial
		o.commandTimout = command
	}
}

// Open parses a redis:// or rediss:// URL and returns a client that answered
// a ping. It gives up after the configured attempts or when ctx ends.
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrInvalidURL
	}

	o := &options{
		poolSize:      10,
		attempts:      3,
		backoff:       2 * time.Second,
		dialTimeout:   5 * time.Second,
		commandTimout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	ro.PoolSize = o.poolSize
	ro.DialTimeout = o.dialTimeout
	ro.ReadTimeout = o.commandTimout
	ro.WriteTimeout = o.commandTimout

	var lastErr error
	for i := range max(o.attempts, 1) {
		client := redis.NewClient(ro)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(i+1) * o.backoff):
		}
	}
	return nil, errors.Join(ErrConnectionFailed, lastErr)
}
