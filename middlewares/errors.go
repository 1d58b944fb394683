package middlewares

import (
	"errors"
	"fmt"
	"time"
)

// TimeoutError records an exchange that outlived its deadline.
type TimeoutError struct {
	Err      error         // What the handler returned, if anything
	Duration time.Duration // The timeout that was exceeded
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// IsTimeoutError returns true if the error chain holds a TimeoutError.
func IsTimeoutError(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// AsTimeoutError extracts the TimeoutError from an error if present.
func AsTimeoutError(err error) (*TimeoutError, bool) {
	var te *TimeoutError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
