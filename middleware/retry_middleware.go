package middleware

import (
	"context"
	"errors"
	"log"
	"time"

	"dvrip/dverr"
	"dvrip/message"
)

// RetryMiddleware retries a request up to maxRetries times with
// exponential backoff on any error except a DecodeError or a RequestError
// (so plain I/O errors, and also errors from inner middleware such as a
// rate-limit or timeout error, are retried). A DecodeError means the wire
// data was malformed and a RequestError means the device answered and
// rejected the request — per the core's error taxonomy neither is
// retryable, so both are returned to the caller immediately.
func RetryMiddleware(maxRetries int, baseDelay time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req message.Request) (message.Message, error) {
			reply, err := next(ctx, req)
			for i := 0; err != nil && i < maxRetries && retryable(err); i++ {
				log.Printf("dvrip: retry %d for message type %d after error: %v", i+1, req.Type(), err)
				time.Sleep(baseDelay * time.Duration(1<<i))
				reply, err = next(ctx, req)
			}
			return reply, err
		}
	}
}

func retryable(err error) bool {
	var decodeErr *dverr.DecodeError
	var requestErr *dverr.RequestError
	if errors.As(err, &decodeErr) || errors.As(err, &requestErr) {
		return false
	}
	return true
}
