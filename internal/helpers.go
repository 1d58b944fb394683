package internal

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// maxBodyBytes bounds request bodies decoded by Bind.
const maxBodyBytes = 1 << 20

var errEmptyInput = errors.New("empty input")

// ParseStructured decodes raw JSON into dst. Malformed input, or a dst
// that implements validation.Validatable and fails, yields a
// *ValidationError tagged with property.
func ParseStructured(raw, property string, dst any) error {
	if strings.TrimSpace(raw) == "" {
		return &ValidationError{Property: property, Err: errEmptyInput}
	}
	return decodeStructured(strings.NewReader(raw), property, dst)
}

// Bind decodes the JSON request body into dst like ParseStructured, using
// the property name "body".
func Bind(c Context, dst any) error {
	body := c.Request().Body
	if body == nil {
		return &ValidationError{Property: "body", Err: errEmptyInput}
	}
	return decodeStructured(io.LimitReader(body, maxBodyBytes), "body", dst)
}

func decodeStructured(r io.Reader, property string, dst any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errEmptyInput
		}
		return &ValidationError{Property: property, Err: err}
	}
	if dec.More() {
		return &ValidationError{Property: property, Err: errors.New("trailing data after value")}
	}
	if v, ok := dst.(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			return &ValidationError{Property: property, Err: err}
		}
	}
	return nil
}

func Param[T ~string | ~int | ~int64 | ~bool](c Context, name string) T {
	v, _ := convertParam[T](c.Param(name))
	return v
}

// QueryDefault retrieves a typed query parameter, or defaultValue when it
// is empty or cannot be parsed.
func QueryDefault[T ~string | ~int | ~int64 | ~bool](c Context, name string, defaultValue T) T {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	v, ok := convertParam[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

func convertParam[T ~string | ~int | ~int64 | ~bool](raw string) (T, bool) {
	var zero T
	switch p := any(&zero).(type) {
	case *string:
		*p = raw
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		*p = v
	case *int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		*p = v
	default:
		return zero, false
	}
	return zero, true
}
