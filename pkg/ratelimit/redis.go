package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window limiter backed by INCR and PEXPIRE.
type Redis struct {
	client redis.UniversalClient
	opts   options
	window time.Duration
	limit  int
}

// NewRedis creates a limiter allowing limit hits per window for each key.
// It panics on a non-positive limit or window.
func NewRedis(client redis.UniversalClient, limit int, window time.Duration, opts ...Option) *Redis {
	if limit <= 0 || window <= 0 {
		panic(ErrInvalidLimit)
	}
	return &Redis{client: client, limit: limit, window: window, opts: newOptions(opts)}
}

func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	key = r.opts.prefix + key

	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		// NX keeps the window anchored at the first hit.
		p.Do(ctx, "pexpire", key, r.window.Milliseconds(), "nx")
		pttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	ttl := pttl.Val()
	if ttl < 0 {
		ttl = r.window
	}
	return result(r.limit, incr.Val(), ttl), nil
}
