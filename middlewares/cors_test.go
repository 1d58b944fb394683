package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/penwright/contentapi/internal"
	"github.com/penwright/contentapi/middlewares"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	handled := 0
	ok := func(c internal.Context) error {
		handled++
		return c.OK(nil)
	}

	t.Run("default configuration allows all origins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/thing", nil)
		req.Header.Set("Origin", "http://example.com")
		rec, _ := serve(t, newApp(ok, middlewares.CORS()), req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Retry-After")
	})

	t.Run("no CORS headers when Origin header is missing", func(t *testing.T) {
		rec, _ := serve(t, newApp(ok, middlewares.CORS()), httptest.NewRequest(http.MethodGet, "/thing", nil))
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is answered before contract validation", func(t *testing.T) {
		before := handled
		req := httptest.NewRequest(http.MethodOptions, "/thing", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec, env := serve(t, newApp(ok, middlewares.CORS(middlewares.WithMaxAge(time.Hour))), req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, true, env["success"])
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		require.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
		require.Equal(t, before, handled)
	})

	t.Run("plain OPTIONS still goes through the contract", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/thing", nil)
		req.Header.Set("Origin", "http://example.com")
		rec, _ := serve(t, newApp(ok, middlewares.CORS()), req)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("specific origins are echoed", func(t *testing.T) {
		app := newApp(ok, middlewares.CORS(middlewares.WithAllowOrigins("https://editor.example.com")))

		req := httptest.NewRequest(http.MethodGet, "/thing", nil)
		req.Header.Set("Origin", "https://editor.example.com")
		rec, _ := serve(t, app, req)
		require.Equal(t, "https://editor.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Contains(t, rec.Header().Values("Vary"), "Origin")

		req = httptest.NewRequest(http.MethodGet, "/thing", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec, _ = serve(t, app, req)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("origin func overrides the list", func(t *testing.T) {
		app := newApp(ok, middlewares.CORS(middlewares.WithAllowOriginFunc(func(origin string) bool {
			return strings.HasSuffix(origin, ".example.com")
		})))

		req := httptest.NewRequest(http.MethodGet, "/thing", nil)
		req.Header.Set("Origin", "https://docs.example.com")
		rec, _ := serve(t, app, req)
		require.Equal(t, "https://docs.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("headers survive failure envelopes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/thing", nil)
		req.Header.Set("Origin", "http://example.com")
		rec, _ := serve(t, newApp(ok, middlewares.CORS()), req)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
