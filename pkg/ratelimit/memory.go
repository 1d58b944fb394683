package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	reset time.Time
	count int64
}

// Memory is an in-process fixed-window limiter.
type Memory struct {
	now     func() time.Time
	windows map[string]*window
	done    chan struct{}
	opts    options
	period  time.Duration
	limit   int
	mu      sync.Mutex
	closed  bool
}

// NewMemory creates a limiter allowing limit hits per period for each key.
// It panics on a non-positive limit or period. Call Close to stop the
// background sweeper.
func NewMemory(limit int, period time.Duration, opts ...Option) *Memory {
	if limit <= 0 || period <= 0 {
		panic(ErrInvalidLimit)
	}
	m := &Memory{
		now:     time.Now,
		windows: make(map[string]*window),
		done:    make(chan struct{}),
		opts:    newOptions(opts),
		period:  period,
		limit:   limit,
	}
	go m.sweep()
	return m
}

func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	key = m.opts.prefix + key
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Result{}, ErrClosed
	}

	w, ok := m.windows[key]
	if !ok || !now.Before(w.reset) {
		w = &window{reset: now.Add(m.period)}
		m.windows[key] = w
	}
	w.count++
	return result(m.limit, w.count, w.reset.Sub(now)), nil
}

// Close stops the sweeper. Later Allow calls fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory) sweep() {
	t := time.NewTicker(m.period)
	defer t.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-t.C:
			now := m.now()
			m.mu.Lock()
			for k, w := range m.windows {
				if !now.Before(w.reset) {
					delete(m.windows, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
