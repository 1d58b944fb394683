package internal

import (
	"errors"
	"log/slog"
)

// authGate resolves the request credential and enforces the route tier.
type authGate struct {
	resolver  CredentialResolver
	extractor Extractor
}

func (g authGate) run(c *requestContext) error {
	credential, ok := g.extractor.Extract(c)
	if !ok {
		return ErrUnauthorized("")
	}
	if g.resolver == nil {
		c.LogWarn("auth gate has no credential resolver")
		return ErrUnauthorized("")
	}

	subject, err := g.resolver.ResolveCredential(c, credential)
	switch {
	case errors.Is(err, ErrInvalidCredential):
		return ErrUnauthorized("", WithError(err))
	case err != nil:
		return ErrInternal(errors.Join(errors.New("credential resolver failed"), err))
	case subject == nil:
		return ErrUnauthorized("")
	}

	if err := authorize(subject, c.contract.Tier); err != nil {
		c.LogInfo("subject lacks privilege",
			slog.String("subject", subject.ID),
			slog.String("privilege", subject.Privilege.String()),
			slog.String("tier", c.contract.Tier.String()),
		)
		return err
	}

	c.subject = subject
	return nil
}
