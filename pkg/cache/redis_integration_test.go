//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/penwright/contentapi/pkg/cache"
	"github.com/penwright/contentapi/pkg/redis"
)

func TestRedis(t *testing.T) {
	t.Parallel()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	ctx := context.Background()
	client, err := redis.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	type subject struct {
		ID        string `json:"id"`
		Privilege int    `json:"privilege"`
	}

	store := cache.NewRedis[subject](client, nil, cache.WithPrefix("contentapi-test"))

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, store.Set(ctx, "s1", subject{ID: "u1", Privilege: 2}, time.Minute))
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, subject{ID: "u1", Privilege: 2}, got)

	ttl, err := client.TTL(ctx, "contentapi-test:s1").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	require.ErrorIs(t, err, cache.ErrNotFound)
}
