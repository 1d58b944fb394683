package contentapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/require"

	"github.com/penwright/contentapi"
	"github.com/penwright/contentapi/middlewares"
	"github.com/penwright/contentapi/pkg/cache"
	"github.com/penwright/contentapi/pkg/objectid"
)

type blog struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type blogInput struct {
	Title string `json:"title"`
}

func (in blogInput) Validate() error {
	return validation.ValidateStruct(&in, validation.Field(&in.Title, validation.Required))
}

// blogHandler is an in-memory blog collection.
type blogHandler struct {
	mu    sync.Mutex
	blogs []blog
}

func (h *blogHandler) Routes(r contentapi.Router) {
	r.Version("1", func(r contentapi.Router) {
		r.Handle(contentapi.Route{
			Pattern: "/blogs",
			Methods: []string{http.MethodGet},
			Handler: h.list,
		})
		r.Handle(contentapi.Route{
			Pattern:        "/blogs",
			Methods:        []string{http.MethodPost},
			ContentTypes:   []string{contentapi.ContentTypeJSON},
			RequireSubject: true,
			Handler:        h.create,
		})
	})
	r.System(func(r contentapi.Router) {
		r.Handle(contentapi.Route{
			Pattern: "/blogs/purge",
			Methods: []string{http.MethodPost},
			Handler: h.purge,
		})
	})
}

func (h *blogHandler) list(c contentapi.Context) error {
	after, err := contentapi.Cursor(c)
	if err != nil {
		return err
	}
	limit, err := contentapi.Limit(c, 10, 100)
	if err != nil {
		return err
	}

	h.mu.Lock()
	all := append([]blog(nil), h.blogs...)
	h.mu.Unlock()

	objectid.SortFunc(all, func(b blog) string { return b.ID }, objectid.Ascending)
	var items []blog
	for _, b := range all {
		if after == "" || objectid.Compare(b.ID, after, objectid.Ascending) > 0 {
			items = append(items, b)
		}
	}
	if len(items) > limit+1 {
		items = items[:limit+1]
	}
	return c.OK(contentapi.NewPage(items, func(b blog) string { return b.ID }, limit))
}

func (h *blogHandler) create(c contentapi.Context) error {
	var in blogInput
	if err := contentapi.Bind(c, &in); err != nil {
		return err
	}
	b := blog{ID: objectid.New(), Title: in.Title}
	h.mu.Lock()
	h.blogs = append(h.blogs, b)
	h.mu.Unlock()
	return c.OKStatus(http.StatusCreated, map[string]blog{"blog": b})
}

func (h *blogHandler) purge(c contentapi.Context) error {
	h.mu.Lock()
	n := len(h.blogs)
	h.blogs = nil
	h.mu.Unlock()
	return c.OK(map[string]int{"purged": n})
}

func newTestApp(t *testing.T) *contentapi.App {
	t.Helper()

	tokens := map[string]contentapi.Subject{
		"editor": {ID: "editor-1", Privilege: contentapi.PrivilegeUser},
		"ops":    {ID: "ops-1", Privilege: contentapi.PrivilegeSystem},
	}
	base := contentapi.CredentialResolverFunc(func(_ context.Context, cred string) (*contentapi.Subject, error) {
		s, ok := tokens[cred]
		if !ok {
			return nil, contentapi.ErrInvalidCredential
		}
		return &s, nil
	})
	store := cache.NewMemory[contentapi.Subject]()
	t.Cleanup(func() { _ = store.Close() })

	return contentapi.New(
		contentapi.WithCredentialResolver(contentapi.NewCachedResolver(base, store, time.Minute)),
		contentapi.WithMiddleware(middlewares.RequestID()),
		contentapi.WithHandlers(&blogHandler{}),
		contentapi.WithHealthChecks(),
		contentapi.WithRouteIntrospection(),
	)
}

func call(t *testing.T, app http.Handler, method, target, body, token string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestApp_BlogLifecycle(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	code, env := call(t, app, http.MethodPost, "/v1/blogs", `{"title":"one"}`, "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, false, env["success"])

	for _, title := range []string{"one", "two", "three"} {
		code, env = call(t, app, http.MethodPost, "/v1/blogs", `{"title":"`+title+`"}`, "editor")
		require.Equal(t, http.StatusCreated, code)
		require.Equal(t, true, env["success"])
	}

	code, env = call(t, app, http.MethodPost, "/v1/blogs", `{"title":""}`, "editor")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "invalid body", env["error"])

	code, env = call(t, app, http.MethodGet, "/v1/blogs?limit=2", "", "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, env["items"], 2)
	require.Equal(t, true, env["has_more"])
	after := env["after"].(string)
	require.True(t, objectid.Valid(after))

	code, env = call(t, app, http.MethodGet, "/v1/blogs?limit=2&after="+after, "", "")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, env["items"], 1)
	require.Equal(t, false, env["has_more"])

	code, _ = call(t, app, http.MethodPost, "/system/blogs/purge", "", "editor")
	require.Equal(t, http.StatusForbidden, code)

	code, env = call(t, app, http.MethodPost, "/system/blogs/purge", "", "ops")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, float64(3), env["purged"])
}

func TestApp_Rejections(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"wrong method", http.MethodDelete, "/v1/blogs", "", http.StatusMethodNotAllowed},
		{"body without json", http.MethodPost, "/v1/blogs", "", http.StatusUnsupportedMediaType},
		{"unknown version", http.MethodGet, "/v9/blogs", "", http.StatusNotFound},
		{"unknown path", http.MethodGet, "/wp-admin", "", http.StatusNotFound},
		{"bad cursor", http.MethodGet, "/v1/blogs?after=xyz", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, env := call(t, app, tt.method, tt.target, tt.body, "editor")
			require.Equal(t, tt.status, code)
			require.Equal(t, false, env["success"])
			require.NotEmpty(t, env["error"])
		})
	}
}

func TestApp_SystemRoutes(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	code, env := call(t, app, http.MethodGet, "/system/routes", "", "ops")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, env["routes"], 6)

	code, _ = call(t, app, http.MethodGet, "/health/ready", "", "")
	require.Equal(t, http.StatusOK, code)
}
