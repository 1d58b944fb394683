package internal

import (
	"errors"
	"strconv"
	"strings"

	"github.com/penwright/contentapi/pkg/objectid"
)

// Query parameters read by list endpoints.
const (
	CursorParam = "after"
	LimitParam  = "limit"
	OrderParam  = "order"
)

// Cursor returns the "after" identifier, lowercased, or "" for the first
// page. A value that is not a well-formed identifier is a ValidationError.
func Cursor(c Context) (string, error) {
	v := strings.TrimSpace(c.Query(CursorParam))
	if v == "" {
		return "", nil
	}
	if !objectid.Valid(v) {
		return "", &ValidationError{Property: CursorParam, Err: objectid.ErrMalformed}
	}
	return strings.ToLower(v), nil
}

// Limit returns the page size, def when absent, capped at maxLimit.
func Limit(c Context, def, maxLimit int) (int, error) {
	v := strings.TrimSpace(c.Query(LimitParam))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ValidationError{Property: LimitParam, Err: err}
	}
	if n < 1 {
		return 0, &ValidationError{Property: LimitParam, Err: errors.New("must be positive")}
	}
	return min(n, maxLimit), nil
}

// Order returns the requested sort direction, ascending by default.
func Order(c Context) (objectid.Direction, error) {
	d, err := objectid.ParseDirection(c.Query(OrderParam))
	if err != nil {
		return 0, &ValidationError{Property: OrderParam, Err: err}
	}
	return d, nil
}

// Page is a slice of a listing plus the cursor for the next request.
type Page[T any] struct {
	Items   []T    `json:"items"`
	After   string `json:"after,omitempty"`
	HasMore bool   `json:"has_more"`
}

// NewPage builds a page from items fetched with limit+1 as the store limit.
// The extra item, if present, only signals that another page exists.
func NewPage[T any](items []T, idOf func(T) string, limit int) Page[T] {
	p := Page[T]{Items: items}
	if p.Items == nil {
		p.Items = []T{}
	}
	if limit > 0 && len(p.Items) > limit {
		p.Items = p.Items[:limit]
		p.HasMore = true
	}
	if p.HasMore && len(p.Items) > 0 {
		p.After = idOf(p.Items[len(p.Items)-1])
	}
	return p
}
