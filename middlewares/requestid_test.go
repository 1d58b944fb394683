package middlewares_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/penwright/contentapi/internal"
	"github.com/penwright/contentapi/middlewares"
	"github.com/penwright/contentapi/pkg/logger"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	echo := func(c internal.Context) error {
		return c.OK(map[string]string{"id": middlewares.GetRequestID(c)})
	}

	t.Run("generates new request ID when not present", func(t *testing.T) {
		t.Parallel()

		app := newApp(echo, middlewares.RequestID())
		rec, env := serve(t, app, httptest.NewRequest(http.MethodGet, "/thing", nil))

		id := rec.Header().Get("X-Request-ID")
		require.NotEmpty(t, id)
		require.Equal(t, id, env["id"])
		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		require.Equal(t, uuid.Version(7), parsed.Version())
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/thing", nil)
		req.Header.Set("X-Correlation-ID", "upstream-123")
		rec, env := serve(t, newApp(echo, middlewares.RequestID()), req)

		require.Equal(t, "upstream-123", rec.Header().Get("X-Request-ID"))
		require.Equal(t, "upstream-123", env["id"])
	})

	t.Run("oversized upstream ID is replaced", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/thing", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("a", 500))
		rec, _ := serve(t, newApp(echo, middlewares.RequestID()), req)
		require.Len(t, rec.Header().Get("X-Request-ID"), 36)
	})

	t.Run("custom generator and header", func(t *testing.T) {
		t.Parallel()

		app := newApp(echo, middlewares.RequestID(
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace"),
			middlewares.WithRequestIDHeaders("X-Trace"),
		))
		rec, _ := serve(t, app, httptest.NewRequest(http.MethodGet, "/thing", nil))
		require.Equal(t, "fixed", rec.Header().Get("X-Trace"))
		require.Empty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("unmatched routes get an ID", func(t *testing.T) {
		t.Parallel()

		rec, _ := serve(t, newApp(echo, middlewares.RequestID()), httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("GetRequestID without middleware", func(t *testing.T) {
		t.Parallel()

		_, env := serve(t, newApp(echo), httptest.NewRequest(http.MethodGet, "/thing", nil))
		require.Equal(t, "", env["id"])
	})
}

func TestRequestID_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: "info"})

	app := internal.New(
		internal.WithLogger(log),
		internal.WithMiddleware(middlewares.RequestID()),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.Handle(internal.Route{
				Pattern: "/thing",
				Methods: []string{http.MethodGet},
				Handler: func(c internal.Context) error {
					c.LogInfo("handling")
					return c.OK(nil)
				},
			})
		})),
	)

	req := httptest.NewRequest(http.MethodGet, "/thing", nil)
	req.Header.Set("X-Request-ID", "log-me")
	serve(t, app, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	for _, line := range lines {
		require.Contains(t, line, `"request_id":"log-me"`)
	}
}
