package internal

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
)

var (
	rawTrue  = json.RawMessage(`true`)
	rawFalse = json.RawMessage(`false`)
)

// successBody renders {"success":true, ...data}.
func successBody(data any) ([]byte, error) {
	fields, err := envelopeFields(data)
	if err != nil {
		return nil, err
	}
	fields["success"] = rawTrue
	return json.Marshal(fields)
}

// failureBody renders {"success":false,"error":message, ...data}.
func failureBody(message string, data any) ([]byte, error) {
	fields, err := envelopeFields(data)
	if err != nil {
		return nil, err
	}
	msg, err := json.Marshal(message)
	if err != nil {
		return nil, err
	}
	fields["success"] = rawFalse
	fields["error"] = msg
	return json.Marshal(fields)
}

// envelopeFields flattens data into top-level fields. JSON objects are
// merged; any other value is nested under "data".
func envelopeFields(data any) (map[string]json.RawMessage, error) {
	if data == nil {
		return map[string]json.RawMessage{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(string(raw)); trimmed == "null" {
		return map[string]json.RawMessage{}, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil && fields != nil {
		return fields, nil
	}
	return map[string]json.RawMessage{"data": raw}, nil
}

func (c *requestContext) OK(data any) error {
	return c.OKStatus(http.StatusOK, data)
}

func (c *requestContext) OKStatus(code int, data any) error {
	body, err := successBody(data)
	if err != nil {
		return err
	}
	return c.writeEnvelope(code, body)
}

func (c *requestContext) Fail(kind Kind, message string) error {
	return c.writeError(NewHTTPError(kind, message))
}

func (c *requestContext) NotFound() error {
	return c.Fail(KindNotFound, "")
}

func (c *requestContext) Unauthorized() error {
	return c.Fail(KindUnauthorized, "")
}

func (c *requestContext) BadRequest(message string) error {
	return c.Fail(KindBadRequest, message)
}

// writeError renders he, including its Allow and Retry-After headers.
func (c *requestContext) writeError(he *HTTPError) error {
	message := he.Message
	if he.Kind == KindInternal || message == "" {
		message = he.Kind.Message()
	}
	body, err := failureBody(message, he.Data)
	if err != nil {
		body, _ = failureBody(message, nil)
	}

	h := c.rw.Header()
	if len(he.Allow) > 0 && he.Kind == KindMethodNotAllowed {
		h.Set("Allow", strings.Join(he.Allow, ", "))
	}
	if he.RetryAfter > 0 && he.Kind == KindRateLimited {
		h.Set("Retry-After", strconv.Itoa(int(math.Ceil(he.RetryAfter.Seconds()))))
	}
	return c.writeEnvelope(he.StatusCode(), body)
}

// writeEnvelope sends body unless a response was already written or the
// client went away.
func (c *requestContext) writeEnvelope(code int, body []byte) error {
	if c.rw.Written() {
		c.LogError("second response attempted for exchange",
			slog.Int("status", code),
			slog.Int("sent_status", c.rw.Status()),
			slog.String("descriptor", c.descriptor()),
		)
		return ErrAlreadyResponded
	}
	if c.aborted() {
		return ErrAborted
	}

	c.rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.rw.WriteHeader(code)
	_, err := c.rw.Write(body)
	c.rw.seal()
	return err
}
