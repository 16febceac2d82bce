// Package middleware implements the onion-model middleware chain,
// generalized from the teacher's RPC-request-handler chain to wrap packet
// dispatch instead: a Handler receives the decoded Connection and Packet,
// not an RPC envelope.
//
// Onion model execution order:
//
//	Chain(A, B, C)(handler)  →  A(B(C(handler)))
//
//	Dispatch:  A.before → B.before → C.before → handler
//	Return:    handler → C.after → B.after → A.after
package middleware

import (
	"context"

	"mcproto/conn"
	"mcproto/packet"
)

// Handler processes one decoded packet on a connection.
type Handler func(ctx context.Context, c *conn.Connection, p packet.Packet) error

// Middleware wraps a Handler with additional behavior — logging, timeouts,
// rate limiting — without changing the handler it wraps.
type Middleware func(next Handler) Handler

// Chain composes middlewares into one, built right to left so the first
// middleware listed is the outermost layer.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
