// Package middleware implements an onion-model chain of cross-cutting
// concerns around a DVRIP request/reply exchange (retries, timeouts,
// rate limiting, logging), wrapping dvrip/conn.Conn.Request without
// touching the connection itself.
//
// Onion model execution order:
//
//	Chain(A, B, C)(handler)  →  A(B(C(handler)))
//
//	Request:   A.before → B.before → C.before → handler
//	Response:  handler → C.after → B.after → A.after
//
// Each middleware can:
//   - Do pre-processing before calling next
//   - Call next(ctx, req) to pass the request along
//   - Do post-processing after next returns
//   - Short-circuit by returning early without calling next (e.g. rate limiting)
package middleware

import (
	"context"

	"dvrip/message"
)

// HandlerFunc performs one DVRIP request and returns its reply, the
// signature every middleware-wrapped handler shares. dvrip/conn.Conn.Request
// takes no context, so it is wrapped in a closure to become a HandlerFunc.
type HandlerFunc func(ctx context.Context, req message.Request) (message.Message, error)

// Middleware wraps a handler with a new handler that adds behavior
// around it — the decorator pattern.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes multiple middlewares into one. It builds from right to
// left so the first middleware in the list is the outermost layer,
// executed first on the way in and last on the way out.
//
// Example:
//
//	chain := Chain(LoggingMiddleware(), TimeoutMiddleware(5*time.Second))
//	handler := chain(func(ctx context.Context, req message.Request) (message.Message, error) {
//		return c.Request(req)
//	})
//	// Execution: Logging → Timeout → c.Request → Timeout → Logging
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
