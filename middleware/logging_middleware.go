package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mcproto/conn"
	"mcproto/packet"
)

// LoggingMiddleware records the packet name, connection's peer address,
// and dispatch duration for every packet, plus the error if the handler
// returned one.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, c *conn.Connection, p packet.Packet) error {
			start := time.Now()
			err := next(ctx, c, p)
			fields := []zap.Field{
				zap.String("packet", p.Descriptor.Name),
				zap.Stringer("peer", c.PeerAddr()),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Error("packet dispatch failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("packet dispatched", fields...)
			}
			return err
		}
	}
}
