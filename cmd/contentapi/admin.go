package main

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/penwright/contentapi"
)

// adminHandler serves system-tier maintenance routes.
type adminHandler struct {
	resolver *contentapi.CachedResolver
}

func newAdminHandler(resolver *contentapi.CachedResolver) *adminHandler {
	return &adminHandler{resolver: resolver}
}

func (h *adminHandler) Routes(r contentapi.Router) {
	r.System(func(r contentapi.Router) {
		r.Handle(contentapi.Route{
			Pattern:      "/credentials/revoke",
			Methods:      []string{http.MethodPost},
			ContentTypes: []string{contentapi.ContentTypeJSON},
			Handler:      h.revoke,
		})
		r.Handle(contentapi.Route{
			Pattern: "/whoami",
			Methods: []string{http.MethodGet},
			Handler: h.whoami,
		})
	})
}

type revokeRequest struct {
	Credential string `json:"credential"`
}

func (r revokeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Credential, validation.Required),
	)
}

// revoke drops a credential from the subject cache so the next request
// resolves it again.
func (h *adminHandler) revoke(c contentapi.Context) error {
	var req revokeRequest
	if err := contentapi.Bind(c, &req); err != nil {
		return err
	}
	if err := h.resolver.Revoke(c, req.Credential); err != nil {
		return contentapi.ErrInternal(err)
	}
	c.LogInfo("credential revoked from cache", "by", c.Subject().ID)
	return c.OK(map[string]bool{"revoked": true})
}

func (h *adminHandler) whoami(c contentapi.Context) error {
	s := c.Subject()
	return c.OK(map[string]any{
		"subject":   s.ID,
		"privilege": s.Privilege.String(),
	})
}
