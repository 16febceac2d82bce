package middleware

import (
	"context"
	"fmt"
	"time"

	"mcproto/conn"
	"mcproto/packet"
)

// TimeoutMiddleware enforces a maximum duration for each packet's
// dispatch. If the handler doesn't complete in time, the middleware
// returns an error immediately — the same race-the-goroutine shape as the
// teacher's timeout middleware. The handler goroutine itself is not
// cancelled unless it observes ctx.Done() internally.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, c *conn.Connection, p packet.Packet) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- next(ctx, c, p)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				return fmt.Errorf("middleware: %s dispatch timed out after %s", p.Descriptor.Name, timeout)
			}
		}
	}
}
