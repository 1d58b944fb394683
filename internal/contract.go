package internal

import (
	"mime"
	"net/http"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ContentTypeNone in Contract.ContentTypes accepts requests that carry no
// body and no Content-Type header.
const ContentTypeNone = "none"

const (
	// ContentTypeAny accepts every media type.
	ContentTypeAny  = "*/*"
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

var knownMethods = []any{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// Contract is the declared request shape of a route. It is built once at
// registration and read by every exchange routed to it.
type Contract struct {
	// Descriptor is the human-readable path template, e.g. "/v1/blogs/{id}".
	Descriptor string `json:"descriptor"`

	// Methods lists the accepted HTTP methods.
	Methods []string `json:"methods"`

	// ContentTypes lists accepted media types, checked for POST, PUT, PATCH
	// and any other request that sends a body.
	// Include ContentTypeNone to accept requests without a body.
	ContentTypes []string `json:"content_types"`

	// Version is the exact API version the route serves. Empty for
	// unversioned and system routes.
	Version string `json:"version,omitempty"`

	Tier Tier `json:"tier"`

	// RequireSubject makes a public route run the auth gate.
	RequireSubject bool `json:"require_subject,omitempty"`

	// Unlimited exempts the route from the rate-limit gate.
	Unlimited bool `json:"unlimited,omitempty"`
}

// Validate checks the contract at registration time.
func (c Contract) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Descriptor, validation.Required),
		validation.Field(&c.Methods, validation.Required, validation.Each(validation.In(knownMethods...))),
		validation.Field(&c.ContentTypes, validation.Each(validation.Required, validation.By(validMediaType))),
		validation.Field(&c.Version, validation.When(c.Tier == TierSystem,
			validation.Empty.Error("must be empty for system routes"))),
		validation.Field(&c.Tier, validation.In(TierPublic, TierSystem)),
	)
	if err != nil {
		return &ValidationError{Property: "contract " + c.Descriptor, Err: err}
	}
	return nil
}

func validMediaType(v any) error {
	s, _ := v.(string)
	if s == ContentTypeNone {
		return nil
	}
	if _, _, err := mime.ParseMediaType(s); err != nil {
		return validation.NewError("validation_media_type", "must be a media type or \"none\"")
	}
	return nil
}

// normalize uppercases methods, lowercases media types and copies slices so
// the contract does not share memory with the caller.
func (c Contract) normalize() Contract {
	methods := make([]string, 0, len(c.Methods))
	for _, m := range c.Methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if !slices.Contains(methods, m) {
			methods = append(methods, m)
		}
	}
	c.Methods = methods

	types := make([]string, 0, len(c.ContentTypes))
	for _, t := range c.ContentTypes {
		types = append(types, strings.ToLower(strings.TrimSpace(t)))
	}
	c.ContentTypes = types

	if c.Tier == TierSystem {
		c.RequireSubject = true
	}
	return c
}

// AllowsMethod reports whether method is declared.
func (c Contract) AllowsMethod(method string) bool {
	return slices.Contains(c.Methods, method)
}

// AllowsContentType reports whether mediaType (already stripped of
// parameters) is declared. An empty mediaType matches ContentTypeNone.
func (c Contract) AllowsContentType(mediaType string) bool {
	if mediaType == "" {
		return slices.Contains(c.ContentTypes, ContentTypeNone)
	}
	return slices.Contains(c.ContentTypes, ContentTypeAny) ||
		slices.Contains(c.ContentTypes, strings.ToLower(mediaType))
}

// requiresAuth reports whether the auth gate runs for this contract.
func (c Contract) requiresAuth() bool {
	return c.Tier == TierSystem || c.RequireSubject
}
