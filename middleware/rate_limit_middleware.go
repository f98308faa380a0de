package middleware

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"dvrip/message"
)

// RateLimitMiddleware token-bucket limits requests to protect a single
// device from being flooded by a misbehaving caller (DVRIP devices are
// embedded boxes with modest CPU; a tight polling loop can wedge one).
//
// The limiter is created once, in the outer closure, and shared across
// every call through the resulting handler — creating it per-request
// would hand every request a fresh full bucket and defeat the limit
// entirely.
//
//   - r: token refill rate (tokens per second)
//   - burst: maximum bucket size
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req message.Request) (message.Message, error) {
			if !limiter.Allow() {
				return nil, fmt.Errorf("dvrip: rate limit exceeded")
			}
			return next(ctx, req)
		}
	}
}
