package internal_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/penwright/contentapi/internal"
)

func TestContract_Validate(t *testing.T) {
	t.Parallel()

	valid := internal.Contract{
		Descriptor:   "/v1/blogs",
		Methods:      []string{http.MethodGet},
		ContentTypes: []string{internal.ContentTypeJSON, internal.ContentTypeNone},
		Version:      "1",
	}

	tests := []struct {
		name    string
		mutate  func(c *internal.Contract)
		wantErr bool
	}{
		{name: "valid", mutate: func(*internal.Contract) {}},
		{name: "no methods", mutate: func(c *internal.Contract) { c.Methods = nil }, wantErr: true},
		{name: "unknown method", mutate: func(c *internal.Contract) { c.Methods = []string{"BREW"} }, wantErr: true},
		{name: "empty descriptor", mutate: func(c *internal.Contract) { c.Descriptor = "" }, wantErr: true},
		{name: "bad media type", mutate: func(c *internal.Contract) { c.ContentTypes = []string{"json"} }, wantErr: true},
		{name: "any media type", mutate: func(c *internal.Contract) { c.ContentTypes = []string{internal.ContentTypeAny} }},
		{name: "versioned system route", mutate: func(c *internal.Contract) { c.Tier = internal.TierSystem }, wantErr: true},
		{name: "unversioned system route", mutate: func(c *internal.Contract) {
			c.Tier = internal.TierSystem
			c.Version = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := valid
			c.Methods = append([]string(nil), valid.Methods...)
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				var ve *internal.ValidationError
				require.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestContract_Allows(t *testing.T) {
	t.Parallel()

	c := internal.Contract{
		Methods:      []string{http.MethodGet, http.MethodPut},
		ContentTypes: []string{internal.ContentTypeJSON, internal.ContentTypeNone},
	}

	require.True(t, c.AllowsMethod(http.MethodGet))
	require.False(t, c.AllowsMethod(http.MethodPost))
	require.True(t, c.AllowsContentType(""))
	require.True(t, c.AllowsContentType("Application/JSON"))
	require.False(t, c.AllowsContentType("text/plain"))

	bodyOnly := internal.Contract{ContentTypes: []string{internal.ContentTypeAny}}
	require.True(t, bodyOnly.AllowsContentType("image/png"))
	require.False(t, bodyOnly.AllowsContentType(""))
}

func TestRouter_InvalidContractPanics(t *testing.T) {
	t.Parallel()

	register := func(rt internal.Route) func() {
		return func() {
			internal.New(internal.WithHandlers(routes(func(r internal.Router) {
				r.Version("1", func(r internal.Router) { r.Handle(rt) })
			})))
		}
	}

	t.Run("no methods", func(t *testing.T) {
		t.Parallel()
		require.Panics(t, register(internal.Route{
			Pattern: "/x",
			Handler: func(c internal.Context) error { return nil },
		}))
	})

	t.Run("no handler", func(t *testing.T) {
		t.Parallel()
		require.Panics(t, register(internal.Route{Pattern: "/x", Methods: []string{http.MethodGet}}))
	})

	t.Run("duplicate route", func(t *testing.T) {
		t.Parallel()
		rt := internal.Route{
			Pattern: "/x",
			Methods: []string{http.MethodGet},
			Handler: func(c internal.Context) error { return nil },
		}
		require.Panics(t, func() {
			internal.New(internal.WithHandlers(routes(func(r internal.Router) {
				r.Version("1", func(r internal.Router) {
					r.Handle(rt)
					r.Handle(rt)
				})
			})))
		})
	})

	t.Run("version group inside system group", func(t *testing.T) {
		t.Parallel()
		require.Panics(t, func() {
			internal.New(internal.WithHandlers(routes(func(r internal.Router) {
				r.System(func(r internal.Router) {
					r.Version("1", func(internal.Router) {})
				})
			})))
		})
	})
}

func TestApp_Contracts(t *testing.T) {
	t.Parallel()

	app := internal.New(internal.WithHandlers(routes(func(r internal.Router) {
		r.Version("v1", func(r internal.Router) {
			r.Handle(internal.Route{
				Pattern: "blogs",
				Methods: []string{"get"},
				Handler: func(c internal.Context) error { return nil },
			})
		})
		r.System(func(r internal.Router) {
			r.Handle(internal.Route{
				Pattern: "/flush",
				Methods: []string{http.MethodPost},
				Handler: func(c internal.Context) error { return nil },
			})
		})
	})))

	contracts := app.Contracts()
	require.Len(t, contracts, 2)

	blogs := contracts[0]
	require.Equal(t, "/v1/blogs", blogs.Descriptor)
	require.Equal(t, "1", blogs.Version)
	require.Equal(t, []string{http.MethodGet}, blogs.Methods)
	require.Equal(t, []string{internal.ContentTypeJSON, internal.ContentTypeNone}, blogs.ContentTypes)
	require.Equal(t, internal.TierPublic, blogs.Tier)

	flush := contracts[1]
	require.Equal(t, "/system/flush", flush.Descriptor)
	require.Equal(t, internal.TierSystem, flush.Tier)
	require.True(t, flush.RequireSubject)
	require.Empty(t, flush.Version)

	contracts[0].Methods[0] = "DELETE"
	require.Equal(t, http.MethodGet, app.Contracts()[0].Methods[0])
}
