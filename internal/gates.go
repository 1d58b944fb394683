package internal

import (
	"context"
	"strings"
	"time"
)

// CredentialResolver turns a raw credential into a subject. It returns an
// error wrapping ErrInvalidCredential when the credential is unknown,
// expired or revoked; any other error is treated as an outage.
type CredentialResolver interface {
	ResolveCredential(ctx context.Context, credential string) (*Subject, error)
}

// CredentialResolverFunc adapts a function to CredentialResolver.
type CredentialResolverFunc func(ctx context.Context, credential string) (*Subject, error)

func (f CredentialResolverFunc) ResolveCredential(ctx context.Context, credential string) (*Subject, error) {
	return f(ctx, credential)
}

// QuotaKey identifies the budget a request draws from.
type QuotaKey struct {
	Descriptor string
	IP         string
	// Subject is empty for anonymous requests.
	Subject string
}

func (k QuotaKey) String() string {
	return strings.Join([]string{k.Descriptor, k.IP, k.Subject}, "|")
}

// Quota is a limiter decision.
type Quota struct {
	// RetryAfter is how long the caller should wait once the budget is spent.
	RetryAfter time.Duration
	Limit      int
	Remaining  int
	Allowed    bool
}

// QuotaChecker consumes one unit of the budget identified by key.
type QuotaChecker interface {
	CheckQuota(ctx context.Context, key QuotaKey) (Quota, error)
}

// QuotaCheckerFunc adapts a function to QuotaChecker.
type QuotaCheckerFunc func(ctx context.Context, key QuotaKey) (Quota, error)

func (f QuotaCheckerFunc) CheckQuota(ctx context.Context, key QuotaKey) (Quota, error) {
	return f(ctx, key)
}
