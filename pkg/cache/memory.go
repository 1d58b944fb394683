package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[V any] struct {
	expiresAt time.Time
	value     V
}

func (e memoryEntry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process Store.
type Memory[V any] struct {
	items  map[string]memoryEntry[V]
	opts   *options
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewMemory creates an in-memory store. Call Close to stop the sweeper.
func NewMemory[V any](opts ...Option) *Memory[V] {
	m := &Memory[V]{
		items: make(map[string]memoryEntry[V]),
		opts:  newOptions(opts),
		done:  make(chan struct{}),
	}
	if m.opts.cleanupInterval > 0 {
		go m.sweep(m.opts.cleanupInterval)
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	e, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	if e.expired(time.Now()) {
		delete(m.items, key)
		return zero, ErrNotFound
	}
	return e.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	now := time.Now()
	if _, exists := m.items[key]; !exists && m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		m.evict(now)
	}
	m.items[key] = memoryEntry[V]{value: value, expiresAt: m.opts.expiry(ttl, now)}
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.items, key)
	return nil
}

// Len returns the number of stored entries, expired ones included until swept.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the sweeper. It is safe to call more than once.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

// evict drops every expired entry and, if the store is still full, the
// entry expiring soonest. Entries without expiry go last. Caller holds the lock.
func (m *Memory[V]) evict(now time.Time) {
	for k, e := range m.items {
		if e.expired(now) {
			delete(m.items, k)
		}
	}
	if len(m.items) < m.opts.maxEntries {
		return
	}

	victim, found := "", false
	var soonest time.Time
	for k, e := range m.items {
		switch {
		case !found:
			victim, soonest, found = k, e.expiresAt, true
		case e.expiresAt.IsZero():
		case soonest.IsZero() || e.expiresAt.Before(soonest):
			victim, soonest = k, e.expiresAt
		}
	}
	if found {
		delete(m.items, victim)
	}
}

func (m *Memory[V]) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for k, e := range m.items {
				if e.expired(now) {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

var _ Store[any] = (*Memory[any])(nil)
