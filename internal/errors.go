package internal

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrAlreadyResponded  = errors.New("contentapi: response already written")
	ErrAborted           = errors.New("contentapi: exchange aborted by client")
	ErrInvalidContract   = errors.New("contentapi: invalid route contract")
	ErrUnknownRuntimeKey = errors.New("contentapi: unknown runtime key")
	ErrInvalidCredential = errors.New("contentapi: invalid credential")
)

// Kind classifies a failure. Every failure response carries exactly one kind
// and the kind alone decides the status code. The zero value is KindInternal.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindMethodNotAllowed
	KindUnsupportedContentType
	KindRateLimited
	KindUnavailable
)

var kindInfo = map[Kind]struct {
	name    string
	message string
	status  int
}{
	KindInternal:               {"InternalError", "internal server error", http.StatusInternalServerError},
	KindBadRequest:             {"BadRequest", "bad request", http.StatusBadRequest},
	KindUnauthorized:           {"Unauthorized", "unauthorized", http.StatusUnauthorized},
	KindForbidden:              {"Forbidden", "forbidden", http.StatusForbidden},
	KindNotFound:               {"NotFound", "not found", http.StatusNotFound},
	KindMethodNotAllowed:       {"MethodNotAllowed", "method not allowed", http.StatusMethodNotAllowed},
	KindUnsupportedContentType: {"UnsupportedContentType", "unsupported content type", http.StatusUnsupportedMediaType},
	KindRateLimited:            {"RateLimited", "too many requests", http.StatusTooManyRequests},
	KindUnavailable:            {"Unavailable", "service unavailable", http.StatusServiceUnavailable},
}

func (k Kind) String() string {
	if i, ok := kindInfo[k]; ok {
		return i.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	if i, ok := kindInfo[k]; ok {
		return i.status
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message used when none is given.
func (k Kind) Message() string {
	if i, ok := kindInfo[k]; ok {
		return i.message
	}
	return kindInfo[KindInternal].message
}

// HTTPError is a classified failure ready to be rendered as an envelope.
type HTTPError struct {
	// Err is the underlying cause. It is logged, never sent.
	Err error

	// Message is sent to the client as the envelope's error field.
	Message string

	// Allow lists permitted methods for KindMethodNotAllowed.
	Allow []string

	// Data is merged into the failure envelope next to the error field.
	Data any

	// RetryAfter is the wait hint for KindRateLimited. Zero omits it.
	RetryAfter time.Duration

	Kind Kind
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Message()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Kind.Status()
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

func WithAllow(methods ...string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Allow = methods
	}
}

func WithData(v any) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Data = v
	}
}

func WithRetryAfter(d time.Duration) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RetryAfter = d
	}
}

// NewHTTPError creates an error of the given kind. An empty message
// falls back to the kind's default.
func NewHTTPError(kind Kind, message string, opts ...HTTPErrorOption) *HTTPError {
	if message == "" {
		message = kind.Message()
	}
	e := &HTTPError{Kind: kind, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(KindBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(KindUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(KindForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(KindNotFound, message, opts...)
}

func ErrMethodNotAllowed(allow []string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(KindMethodNotAllowed, "", append([]HTTPErrorOption{WithAllow(allow...)}, opts...)...)
}

func ErrUnsupportedContentType(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(KindUnsupportedContentType, message, opts...)
}

func ErrRateLimited(retryAfter time.Duration, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(KindRateLimited, "", append([]HTTPErrorOption{WithRetryAfter(retryAfter)}, opts...)...)
}

func ErrUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(KindUnavailable, message, opts...)
}

// ErrInternal always carries the generic message; detail belongs in cause.
func ErrInternal(cause error) *HTTPError {
	return NewHTTPError(KindInternal, "", WithError(cause))
}

// AsHTTPError extracts an HTTPError from the error chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// ValidationError reports malformed input for a named property such as a
// query parameter or the request body.
type ValidationError struct {
	Err      error
	Property string
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "invalid " + e.Property
	}
	return "invalid " + e.Property + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking handler or hook.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// classify maps any error to the HTTPError to render. Errors outside the
// taxonomy become KindInternal with the generic message; known reports
// whether the error was classified.
func classify(err error) (he *HTTPError, known bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return ErrInternal(err), false
	}
	if he, ok := AsHTTPError(err); ok {
		if he.Kind == KindInternal {
			// Internal errors never leak their message.
			return ErrInternal(he), true
		}
		return he, true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ErrBadRequest("invalid "+ve.Property, WithError(err)), true
	}
	return ErrInternal(err), false
}
