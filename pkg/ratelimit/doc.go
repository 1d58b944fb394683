// Package ratelimit provides fixed-window request limiters.
//
// Redis shares counters across instances; Memory keeps them in-process for
// single-instance deployments and tests. Both count one hit per Allow call
// and report the remaining budget of the current window.
//
//	limiter := ratelimit.NewRedis(client, 120, time.Minute, ratelimit.WithPrefix("rl:"))
//	res, err := limiter.Allow(ctx, "GET /v1/blogs|203.0.113.9|")
//	if err == nil && !res.Allowed {
//	    // wait res.RetryAfter
//	}
package ratelimit
