package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader fills a Store on miss and collapses concurrent misses per key.
type Loader[V any] struct {
	store Store[V]
	group singleflight.Group
	ttl   time.Duration
}

// NewLoader wraps store. Loaded values are kept for ttl.
func NewLoader[V any](store Store[V], ttl time.Duration) *Loader[V] {
	return &Loader[V]{store: store, ttl: ttl}
}

// Load returns the cached value for key or calls fn to produce it.
// Store read failures other than ErrNotFound are treated as misses, and a
// failing store write does not fail the call.
//
// Concurrent misses share one fn call. fn runs detached from the caller's
// cancellation so one caller going away does not fail the others; each
// caller still stops waiting when its own ctx is done.
func (l *Loader[V]) Load(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (V, error) {
	var zero V
	if v, err := l.store.Get(ctx, key); err == nil {
		return v, nil
	}

	ch := l.group.DoChan(key, func() (any, error) {
		flightCtx := context.WithoutCancel(ctx)
		v, err := fn(flightCtx)
		if err != nil {
			return nil, err
		}
		_ = l.store.Set(flightCtx, key, v, l.ttl)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	}
}

// Forget drops key from the store.
func (l *Loader[V]) Forget(ctx context.Context, key string) error {
	if err := l.store.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
