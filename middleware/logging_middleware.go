package middleware

import (
	"context"
	"log"
	"time"

	"dvrip/message"
)

// LoggingMiddleware records the request message type and elapsed
// duration for each call, and the error if the request failed.
//
// Example output:
//
//	dvrip: type=1020 duration=1.2ms
//	dvrip: type=1020 error: dvrip: request 1020 failed: Access denied (status 107)
func LoggingMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req message.Request) (message.Message, error) {
			start := time.Now()
			reply, err := next(ctx, req)
			duration := time.Since(start)
			log.Printf("dvrip: type=%d duration=%s", req.Type(), duration)
			if err != nil {
				log.Printf("dvrip: type=%d error: %v", req.Type(), err)
			}
			return reply, err
		}
	}
}
