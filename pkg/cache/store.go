package cache

import (
	"context"
	"time"
)

// Store is a key-value store with per-entry expiration.
// A ttl of zero uses the store's default; a negative ttl never expires.
type Store[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Codec converts values to bytes for stores that hold serialized data.
type Codec[V any] interface {
	Encode(v V) ([]byte, error)
	Decode(data []byte) (V, error)
}
