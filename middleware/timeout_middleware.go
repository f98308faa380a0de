package middleware

import (
	"context"
	"fmt"
	"time"

	"dvrip/message"
)

// TimeoutMiddleware bounds how long a request may take. The core itself
// has no per-request timers (spec: cancellation is via socket closure),
// so a caller that wants one wraps Conn.Request with this middleware.
//
// Implementation:
//  1. Create a context with timeout.
//  2. Run the next handler in a goroutine, sending its result on a channel.
//  3. Select between that channel and ctx.Done().
//
// The handler goroutine is not cancelled when the timeout fires — the
// underlying Conn.Request is still blocked on the socket read and keeps
// running in the background. The caller should close the connection if
// it intends to abandon the in-flight request, per the core's
// cooperative-cancellation-via-socket-closure design.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req message.Request) (message.Message, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			type result struct {
				reply message.Message
				err   error
			}
			done := make(chan result, 1)
			go func() {
				reply, err := next(ctx, req)
				done <- result{reply, err}
			}()

			select {
			case r := <-done:
				return r.reply, r.err
			case <-ctx.Done():
				return nil, fmt.Errorf("dvrip: request timed out after %s", timeout)
			}
		}
	}
}
