package cache

import "time"

// Option configures a store.
type Option func(*options)

type options struct {
	prefix          string
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

func newOptions(opts []Option) *options {
	o := &options{
		defaultTTL:      5 * time.Minute,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDefaultTTL sets the expiration used when Set receives a zero ttl.
// Default: 5 minutes.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval sets how often the memory store sweeps expired entries.
// Zero disables the sweeper. Default: 1 minute.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries bounds the memory store. When full, the entry closest to
// expiry is dropped. Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = n
	}
}

// WithPrefix namespaces Redis keys as "{prefix}:{key}".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

func (o *options) expiry(ttl time.Duration, now time.Time) time.Time {
	if ttl == 0 {
		ttl = o.defaultTTL
	}
	if ttl < 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
