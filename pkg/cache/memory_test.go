package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/penwright/contentapi/pkg/cache"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("miss returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory[string]()
		defer m.Close()

		_, err := m.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("stores and deletes", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory[int]()
		defer m.Close()

		require.NoError(t, m.Set(ctx, "k", 7, time.Minute))
		v, err := m.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, 7, v)

		require.NoError(t, m.Delete(ctx, "k"))
		_, err = m.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer m.Close()

		require.NoError(t, m.Set(ctx, "k", "v", time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := m.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory[string](cache.WithDefaultTTL(time.Millisecond), cache.WithCleanupInterval(0))
		defer m.Close()

		require.NoError(t, m.Set(ctx, "forever", "v", -1))
		require.NoError(t, m.Set(ctx, "default", "v", 0))
		time.Sleep(5 * time.Millisecond)

		_, err := m.Get(ctx, "forever")
		require.NoError(t, err)
		_, err = m.Get(ctx, "default")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("bounded store drops the entry expiring soonest", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory[int](cache.WithMaxEntries(3), cache.WithCleanupInterval(0))
		defer m.Close()

		require.NoError(t, m.Set(ctx, "long", 1, time.Hour))
		require.NoError(t, m.Set(ctx, "short", 2, time.Minute))
		require.NoError(t, m.Set(ctx, "forever", 3, -1))
		require.NoError(t, m.Set(ctx, "new", 4, time.Hour))

		require.Equal(t, 3, m.Len())
		_, err := m.Get(ctx, "short")
		require.ErrorIs(t, err, cache.ErrNotFound)
		for _, k := range []string{"long", "forever", "new"} {
			_, err := m.Get(ctx, k)
			require.NoError(t, err, k)
		}
	})

	t.Run("closed store rejects writes", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory[int]()
		require.NoError(t, m.Close())
		require.NoError(t, m.Close())
		require.ErrorIs(t, m.Set(ctx, "k", 1, 0), cache.ErrClosed)
	})

	t.Run("sweeper removes expired entries", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory[int](cache.WithCleanupInterval(5 * time.Millisecond))
		defer m.Close()

		for i := range 10 {
			require.NoError(t, m.Set(ctx, fmt.Sprint(i), i, time.Millisecond))
		}
		require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	})
}
