// Package internal holds the request pipeline behind the contentapi package.
//
// Import "github.com/penwright/contentapi" instead; it re-exports the public
// API.
//
// # Exchange lifecycle
//
// Every request routed to a registered contract, and every unmatched
// request, is served by the pipeline:
//
//	Start → Validating → Authenticating → RateLimiting → PreHooks → Handling → PostHooks → Responded
//	                              any stage error ↘ Faulted
//
// Authenticating runs only for system-tier routes and public routes with
// RequireSubject. RateLimiting runs only when a QuotaChecker is installed
// and the route is not Unlimited; a checker error lets the request through.
//
// Validation order is fixed: method (405 with Allow), then media type (415)
// for POST, PUT, PATCH and any request that sends a body, then API version
// (404). Unmatched requests skip validation and always end in NotFound.
//
// # Envelope
//
// Responses are JSON objects with a boolean "success". Failures carry an
// "error" message. Object data is merged at the top level:
//
//	{"success":true,"items":[...],"after":"6553f100..."}
//	{"success":false,"error":"method not allowed"}
//
// Internal failures, including panics, always render the generic
// "internal server error" message; details go to the log.
//
// # Routes
//
//	func (h *blogs) Routes(r contentapi.Router) {
//	    r.Version("1", func(r contentapi.Router) {
//	        r.Handle(contentapi.Route{
//	            Pattern: "/blogs/{id}",
//	            Methods: []string{http.MethodGet},
//	            Handler: h.get,
//	        })
//	    })
//	    r.System(func(r contentapi.Router) {
//	        r.Handle(contentapi.Route{Pattern: "/reindex", Methods: []string{http.MethodPost}, Handler: h.reindex})
//	    })
//	}
//
// Contracts are validated at registration. An invalid contract panics from
// New, the way chi panics on a malformed pattern.
package internal
