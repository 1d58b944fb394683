// Package middlewares provides pipeline middleware for contentapi
// applications.
//
// Middleware wraps every exchange, matched or not, and runs before contract
// validation.
//
// # Request ID
//
// RequestID keeps an upstream X-Request-ID or generates a UUIDv7, stores it
// in the exchange runtime, echoes it in the response and adds request_id to
// every log record of the exchange.
//
//	app := contentapi.New(
//	    contentapi.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Timeout
//
// Timeout sets a cooperative deadline on the exchange context. A handler
// still running past it fails with 503:
//
//	contentapi.WithMiddleware(middlewares.Timeout(10 * time.Second))
//
// # CORS
//
// CORS answers preflight requests and decorates cross-origin responses:
//
//	contentapi.WithMiddleware(
//	    middlewares.CORS(middlewares.WithAllowOrigins("https://editor.example.com")),
//	)
//
// # Recommended Order
//
//	contentapi.WithMiddleware(
//	    middlewares.CORS(),
//	    middlewares.RequestID(),
//	    middlewares.Timeout(10*time.Second),
//	)
package middlewares
