// Package contentapi is a request pipeline for versioned JSON content APIs.
//
// Every route declares a contract: accepted methods, media types, API
// version and privilege tier. Each exchange is validated against it, then
// authenticated and rate limited as the contract requires, then handled.
// Every response is a JSON envelope with a boolean "success" field.
//
// # Quick Start
//
//	app := contentapi.New(
//	    contentapi.WithLogger(log),
//	    contentapi.WithCredentialResolver(resolver),
//	    contentapi.WithMiddleware(middlewares.RequestID()),
//	    contentapi.WithHandlers(handlers.NewBlogs(store)),
//	    contentapi.WithHealthChecks(),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement [Handler] and declare routes in version groups:
//
//	func (h *Blogs) Routes(r contentapi.Router) {
//	    r.Version("1", func(r contentapi.Router) {
//	        r.Handle(contentapi.Route{
//	            Pattern: "/blogs",
//	            Methods: []string{http.MethodGet},
//	            Handler: h.list,
//	        })
//	        r.Handle(contentapi.Route{
//	            Pattern:        "/blogs",
//	            Methods:        []string{http.MethodPost},
//	            RequireSubject: true,
//	            Handler:        h.create,
//	        })
//	    })
//	}
//
// Routes registered under Router.System live under /system and require a
// subject with system privilege.
//
// # Responses
//
// Handlers respond through the Context envelope helpers or by returning an
// error:
//
//	func (h *Blogs) get(c contentapi.Context) error {
//	    blog, err := h.store.Get(c, c.Param("id"))
//	    if errors.Is(err, store.ErrNotFound) {
//	        return contentapi.ErrNotFound("blog not found")
//	    }
//	    if err != nil {
//	        return err // rendered as a generic 500
//	    }
//	    return c.OK(blog)
//	}
//
// # Listing
//
// List endpoints page by object identifier with the "after" cursor:
//
//	after, err := contentapi.Cursor(c)
//	limit, err := contentapi.Limit(c, 20, 100)
//	items, err := h.store.List(c, after, limit+1)
//	return c.OK(contentapi.NewPage(items, Blog.ObjectID, limit))
package contentapi
