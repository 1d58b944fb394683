package internal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/penwright/contentapi/pkg/cache"
)

// CachedResolver memoizes a CredentialResolver. Credentials are keyed by
// their SHA-256 digest so raw secrets never reach the store. Rejections are
// not cached, so a newly issued credential works immediately.
type CachedResolver struct {
	next   CredentialResolver
	loader *cache.Loader[Subject]
}

// NewCachedResolver wraps next with store. Resolved subjects live for ttl.
func NewCachedResolver(next CredentialResolver, store cache.Store[Subject], ttl time.Duration) *CachedResolver {
	return &CachedResolver{next: next, loader: cache.NewLoader(store, ttl)}
}

func (r *CachedResolver) ResolveCredential(ctx context.Context, credential string) (*Subject, error) {
	s, err := r.loader.Load(ctx, credentialKey(credential), func(ctx context.Context) (Subject, error) {
		s, err := r.next.ResolveCredential(ctx, credential)
		if err != nil {
			return Subject{}, err
		}
		if s == nil {
			return Subject{}, ErrInvalidCredential
		}
		return *s, nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Revoke drops a credential from the cache.
func (r *CachedResolver) Revoke(ctx context.Context, credential string) error {
	return r.loader.Forget(ctx, credentialKey(credential))
}

func credentialKey(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return "cred:" + hex.EncodeToString(sum[:])
}
