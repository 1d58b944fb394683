package redis

import (
	"context"
	"errors"
	"io"

	"github.com/redis/go-redis/v9"
)

// Ping returns a readiness check that fails while the server is unreachable.
func Ping(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrUnreachable
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrUnreachable, err)
		}
		return nil
	}
}

// Shutdown returns a shutdown hook closing the client.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
