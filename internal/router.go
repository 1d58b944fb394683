package internal

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	// SystemPrefix is the namespace of system-tier routes.
	SystemPrefix = "/system"

	versionParam = "apiVersion"
)

// Route declares one endpoint: its contract fields, hooks and handler.
type Route struct {
	Handler HandlerFunc

	// Pattern is the chi path template relative to the group namespace.
	Pattern string

	// Version is filled in by Router.Version; set it directly only for
	// routes registered outside a version group.
	Version string

	Methods      []string
	ContentTypes []string
	PreHooks     []PreHook
	PostHooks    []PostHook

	Tier           Tier
	RequireSubject bool
	Unlimited      bool
}

// Router is the interface handlers use to declare routes.
type Router interface {
	// Handle registers a route. It panics if the contract is invalid or the
	// same pattern and version are registered twice.
	Handle(rt Route)

	// Version groups routes served under /v{version}.
	Version(version string, fn func(r Router))

	// System groups system-tier routes under /system. System routes are
	// never versioned.
	System(fn func(r Router))
}

// routeSet holds every route registered for one chi pattern, grouped by
// version. Routes sharing a version split the methods between them.
type routeSet struct {
	byVersion map[string][]*boundRoute
	fallback  string
}

// match picks the route for version and method. An unknown version uses the
// first registered version, whose contract then rejects it. When no route
// accepts the method, the first one is returned so validation reports 405.
func (s *routeSet) match(version, method string) *boundRoute {
	candidates, ok := s.byVersion[version]
	if !ok {
		candidates = s.byVersion[s.fallback]
	}
	for _, rt := range candidates {
		if rt.contract.AllowsMethod(method) {
			return rt
		}
	}
	return candidates[0]
}

// routerAdapter registers routes on chi through the app's pipeline.
type routerAdapter struct {
	app     *App
	version string
	system  bool
}

func (r *routerAdapter) Version(version string, fn func(Router)) {
	if r.system {
		panic(fmt.Errorf("%w: version group inside system group", ErrInvalidContract))
	}
	fn(&routerAdapter{app: r.app, version: strings.TrimPrefix(version, "v")})
}

func (r *routerAdapter) System(fn func(Router)) {
	fn(&routerAdapter{app: r.app, system: true})
}

func (r *routerAdapter) Handle(rt Route) {
	if rt.Handler == nil {
		panic(fmt.Errorf("%w: %s has no handler", ErrInvalidContract, rt.Pattern))
	}

	version := strings.TrimPrefix(rt.Version, "v")
	if r.version != "" {
		version = r.version
	}
	tier := rt.Tier
	if r.system {
		tier = TierSystem
	}

	pattern := "/" + strings.TrimPrefix(rt.Pattern, "/")
	var chiPattern, descriptor string
	switch {
	case tier == TierSystem:
		chiPattern = SystemPrefix + pattern
		descriptor = chiPattern
	case version != "":
		chiPattern = "/v{" + versionParam + "}" + pattern
		descriptor = "/v" + version + pattern
	default:
		chiPattern = pattern
		descriptor = pattern
	}

	contentTypes := rt.ContentTypes
	if len(contentTypes) == 0 {
		contentTypes = []string{ContentTypeJSON, ContentTypeNone}
	}

	contract := Contract{
		Descriptor:     descriptor,
		Methods:        rt.Methods,
		ContentTypes:   contentTypes,
		Version:        version,
		Tier:           tier,
		RequireSubject: rt.RequireSubject,
		Unlimited:      rt.Unlimited,
	}.normalize()
	if err := contract.Validate(); err != nil {
		panic(fmt.Errorf("%w: %w", ErrInvalidContract, err))
	}

	r.app.register(chiPattern, &boundRoute{
		contract:  contract,
		handler:   rt.Handler,
		preHooks:  slices.Clone(rt.PreHooks),
		postHooks: slices.Clone(rt.PostHooks),
	})
}

// register adds route to the dispatch table, mounting the chi pattern on
// first use. Two routes may share a pattern and version only if their
// methods do not overlap.
func (a *App) register(chiPattern string, route *boundRoute) {
	set, ok := a.routes[chiPattern]
	if !ok {
		set = &routeSet{byVersion: make(map[string][]*boundRoute), fallback: route.contract.Version}
		a.routes[chiPattern] = set
		a.router.Handle(chiPattern, a.dispatch(chiPattern, set))
	}

	siblings := set.byVersion[route.contract.Version]
	var allow []string
	for _, other := range siblings {
		for _, m := range route.contract.Methods {
			if other.contract.AllowsMethod(m) {
				panic(fmt.Errorf("%w: %s %s registered twice", ErrInvalidContract, m, route.contract.Descriptor))
			}
		}
		allow = append(allow, other.contract.Methods...)
	}
	allow = append(allow, route.contract.Methods...)
	siblings = append(siblings, route)
	for _, rt := range siblings {
		rt.allow = allow
	}
	set.byVersion[route.contract.Version] = siblings
	a.contracts = append(a.contracts, route.contract)
}

// dispatch routes a matched chi pattern to the pipeline.
func (a *App) dispatch(chiPattern string, set *routeSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := chi.URLParam(r, versionParam)
		a.pipeline.serve(w, r, set.match(version, r.Method), version, chiPattern)
	}
}
