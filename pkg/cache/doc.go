// Package cache provides short-lived key-value stores with in-memory and
// Redis backends, plus a Loader that fills a store on miss.
//
// The API uses a cache in front of slow lookups whose results are safe to
// reuse for a bounded time, such as resolving a bearer credential to a
// subject:
//
//	store := cache.NewMemory[Subject](cache.WithMaxEntries(10_000))
//	loader := cache.NewLoader(store, time.Minute)
//	subject, err := loader.Load(ctx, key, func(ctx context.Context) (Subject, error) {
//		return resolver.Resolve(ctx, credential)
//	})
//
// Concurrent misses for the same key share a single call to the load
// function. Load errors are never cached.
package cache
