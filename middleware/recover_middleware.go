package middleware

import (
	"context"
	"fmt"

	"mcproto/conn"
	"mcproto/packet"
)

// RecoverMiddleware converts a panicking handler into an error, so one bad
// packet (or buggy handler) can't take down the accept loop that's
// dispatching every other connection's packets too.
func RecoverMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, c *conn.Connection, p packet.Packet) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("middleware: handler for %s panicked: %v", p.Descriptor.Name, r)
				}
			}()
			return next(ctx, c, p)
		}
	}
}
