package internal

import (
	"log/slog"
	"strconv"
)

// rateLimitGate consults the quota checker. Limiter failures let the
// request through.
type rateLimitGate struct {
	checker QuotaChecker
}

func (g rateLimitGate) run(c *requestContext) error {
	key := QuotaKey{Descriptor: c.contract.Descriptor, IP: c.ClientIP()}
	if c.subject != nil {
		key.Subject = c.subject.ID
	}

	q, err := g.checker.CheckQuota(c, key)
	if err != nil {
		c.LogWarn("rate limiter unavailable, allowing request",
			slog.String("quota_key", key.String()),
			slog.Any("error", err),
		)
		return nil
	}

	if q.Limit > 0 {
		h := c.Response().Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(q.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(max(q.Remaining, 0)))
	}
	if !q.Allowed {
		return ErrRateLimited(q.RetryAfter)
	}
	return nil
}
