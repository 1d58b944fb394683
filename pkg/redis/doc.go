// Package redis opens go-redis clients with retrying startup, and exposes
// readiness and shutdown helpers for the server lifecycle.
//
//	client, err := redis.Open(ctx, cfg.Redis.URL, redis.WithPoolSize(20))
//	if err != nil {
//		return err
//	}
//	app := contentapi.New(
//		contentapi.WithReadinessCheck("redis", redis.Ping(client)),
//		contentapi.WithShutdownHook(redis.Shutdown(client)),
//	)
package redis
