package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/penwright/contentapi/internal"
)

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

// newApp serves fn on GET and POST /thing behind mw.
func newApp(fn internal.HandlerFunc, mw ...internal.Middleware) *internal.App {
	return internal.New(
		internal.WithMiddleware(mw...),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.Handle(internal.Route{
				Pattern: "/thing",
				Methods: []string{http.MethodGet, http.MethodPost},
				Handler: fn,
			})
		})),
	)
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

// capture records the error returned by the rest of the chain.
func capture(dst *error) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			*dst = next(c)
			return *dst
		}
	}
}
