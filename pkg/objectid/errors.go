package objectid

import "errors"

var (
	ErrMalformed        = errors.New("objectid: malformed identifier")
	ErrUnknownDirection = errors.New("objectid: unknown sort direction")
)
