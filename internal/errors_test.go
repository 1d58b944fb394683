package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/penwright/contentapi/internal"
)

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind   internal.Kind
		status int
		name   string
	}{
		{internal.KindInternal, http.StatusInternalServerError, "InternalError"},
		{internal.KindBadRequest, http.StatusBadRequest, "BadRequest"},
		{internal.KindUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{internal.KindForbidden, http.StatusForbidden, "Forbidden"},
		{internal.KindNotFound, http.StatusNotFound, "NotFound"},
		{internal.KindMethodNotAllowed, http.StatusMethodNotAllowed, "MethodNotAllowed"},
		{internal.KindUnsupportedContentType, http.StatusUnsupportedMediaType, "UnsupportedContentType"},
		{internal.KindRateLimited, http.StatusTooManyRequests, "RateLimited"},
		{internal.KindUnavailable, http.StatusServiceUnavailable, "Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.status, tt.kind.Status())
			require.Equal(t, tt.name, tt.kind.String())
			require.NotEmpty(t, tt.kind.Message())
		})
	}

	t.Run("unknown kind maps to internal", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, http.StatusInternalServerError, internal.Kind(99).Status())
		require.Equal(t, "internal server error", internal.Kind(99).Message())
	})
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("wrapped error is found", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("handler: %w", internal.ErrNotFound("blog not found"))
		he, ok := internal.AsHTTPError(err)
		require.True(t, ok)
		require.Equal(t, internal.KindNotFound, he.Kind)
		require.Equal(t, "blog not found", he.Error())
	})

	t.Run("default message", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "forbidden", internal.ErrForbidden("").Error())
	})

	t.Run("cause is unwrapped", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("disk full")
		require.ErrorIs(t, internal.ErrInternal(cause), cause)
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()
		he := internal.ErrRateLimited(3*time.Second, internal.WithData(map[string]int{"limit": 5}))
		require.Equal(t, 3*time.Second, he.RetryAfter)
		require.Equal(t, map[string]int{"limit": 5}, he.Data)
		require.Equal(t, []string{"GET"}, internal.ErrMethodNotAllowed([]string{"GET"}).Allow)
	})

	t.Run("unrelated error", func(t *testing.T) {
		t.Parallel()
		_, ok := internal.AsHTTPError(errors.New("plain"))
		require.False(t, ok)
	})
}

func TestPanicError(t *testing.T) {
	t.Parallel()

	cause := errors.New("nil map")
	pe := &internal.PanicError{Value: cause}
	require.ErrorIs(t, pe, cause)
	require.Contains(t, pe.Error(), "nil map")
}
