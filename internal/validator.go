package internal

import (
	"mime"
	"net/http"
)

// validateRequest checks the request against its contract in a fixed order
// and returns the first failure: method, then content type for requests
// that carry a body, then version.
// allow is reported on 405; it defaults to the contract's methods.
func validateRequest(r *http.Request, contract Contract, allow []string, requestedVersion string) error {
	if !contract.AllowsMethod(r.Method) {
		if len(allow) == 0 {
			allow = contract.Methods
		}
		return ErrMethodNotAllowed(allow)
	}

	if carriesBody(r) {
		mediaType, err := requestMediaType(r)
		if err != nil {
			return ErrUnsupportedContentType("", WithError(err))
		}
		if !contract.AllowsContentType(mediaType) {
			return ErrUnsupportedContentType("")
		}
	}

	if contract.Version != "" && requestedVersion != contract.Version {
		return ErrNotFound("")
	}
	return nil
}

// carriesBody reports whether the content type is checked: always for POST,
// PUT and PATCH, and for other methods only when a body was actually sent.
func carriesBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}

// requestMediaType returns the Content-Type without parameters, or "" when
// the request declares no body.
func requestMediaType(r *http.Request) (string, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "", nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", err
	}
	return mt, nil
}
