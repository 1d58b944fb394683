package internal

// Handler declares routes on a router.
//
// Example:
//
//	type BlogHandler struct {
//	    store BlogStore
//	}
//
//	func (h *BlogHandler) Routes(r contentapi.Router) {
//	    r.Version("1", func(r contentapi.Router) {
//	        r.Handle(contentapi.Route{
//	            Pattern: "/blogs",
//	            Methods: []string{http.MethodGet},
//	            Handler: h.list,
//	        })
//	    })
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the business handler of a route. It responds through the
// envelope methods on Context, or returns an error that the pipeline renders
// by kind. Returning nil without responding sends an empty success envelope.
type HandlerFunc func(c Context) error

// Middleware wraps the pipeline body of every route. It runs before request
// validation and sees every exchange, matched or not.
//
// Example:
//
//	func Audit(next contentapi.HandlerFunc) contentapi.HandlerFunc {
//	    return func(c contentapi.Context) error {
//	        err := next(c)
//	        c.LogInfo("audited", "status", c.Status())
//	        return err
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// PreHook runs after the gates and before the handler, in registration
// order. Returning an error, or writing a response, skips the handler.
type PreHook func(c Context) error

// PostHook runs after a successful handler, in registration order. It
// observes the exchange and cannot replace the response.
type PostHook func(c Context)
