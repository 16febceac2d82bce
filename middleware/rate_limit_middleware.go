package middleware

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"mcproto/conn"
	"mcproto/packet"
)

// RateLimitMiddleware token-bucket limits how often the wrapped handler
// runs, independent of the connection-level limiter in conn.Connection —
// this one guards a specific handler (e.g. chat message processing), not
// the connection's overall frame rate. The limiter is built once, in the
// outer closure, and shared across every packet that passes through this
// middleware instance; creating it per-dispatch would hand every packet a
// fresh, full bucket and defeat the limit entirely.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next Handler) Handler {
		return func(ctx context.Context, c *conn.Connection, p packet.Packet) error {
			if !limiter.Allow() {
				return fmt.Errorf("middleware: rate limit exceeded for %s", p.Descriptor.Name)
			}
			return next(ctx, c, p)
		}
	}
}
