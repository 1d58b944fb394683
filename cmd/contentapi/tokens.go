package main

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/penwright/contentapi"
	"github.com/penwright/contentapi/pkg/config"
)

// tokenResolver resolves credentials configured as SHA-256 digests.
type tokenResolver struct {
	entries []tokenEntry
}

type tokenEntry struct {
	subject contentapi.Subject
	digest  []byte
}

func newTokenResolver(tokens []config.Token) (*tokenResolver, error) {
	r := &tokenResolver{entries: make([]tokenEntry, 0, len(tokens))}
	for i, t := range tokens {
		digest, err := hex.DecodeString(strings.ToLower(t.Hash))
		if err != nil || len(digest) != sha256.Size {
			return nil, fmt.Errorf("auth.tokens[%d]: invalid hash", i)
		}
		subject := contentapi.Subject{ID: t.Subject, Privilege: contentapi.ParsePrivilege(t.Privilege)}
		r.entries = append(r.entries, tokenEntry{subject: subject, digest: digest})
	}
	return r, nil
}

func (r *tokenResolver) ResolveCredential(_ context.Context, credential string) (*contentapi.Subject, error) {
	sum := sha256.Sum256([]byte(credential))
	for _, e := range r.entries {
		if subtle.ConstantTimeCompare(sum[:], e.digest) == 1 {
			s := e.subject
			return &s, nil
		}
	}
	return nil, contentapi.ErrInvalidCredential
}
