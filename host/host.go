// Package host declares the collaborator interfaces a server implements to
// drive the protocol: what to do with a decoded packet, what JSON to serve
// for a status ping, and how to handle the login handshake (spec.md §6).
// The conn and packet packages never import host — these interfaces exist
// purely for server and its callers to depend on.
package host

import (
	"context"

	"mcproto/conn"
	"mcproto/packet"
)

// PacketHandler reacts to one decoded packet for a given PacketState. A
// server.Listener registers one PacketHandler per state (C9) and selects
// the handler matching the connection's current state before each
// dispatch.
type PacketHandler interface {
	HandlePacket(ctx context.Context, c *conn.Connection, p packet.Packet) error
}

// PacketHandlerFunc adapts a plain function to PacketHandler, the same
// convenience net/http gives http.HandlerFunc.
type PacketHandlerFunc func(ctx context.Context, c *conn.Connection, p packet.Packet) error

func (f PacketHandlerFunc) HandlePacket(ctx context.Context, c *conn.Connection, p packet.Packet) error {
	return f(ctx, c, p)
}

// StatusProvider supplies the JSON response body for the Status state. The
// ping/pong exchange never passes through here, and Connection does not
// answer a PingRequest on its own.
type StatusProvider interface {
	StatusJSON(c *conn.Connection) ([]byte, error)
}

// LoginProvider owns every decision the Login state needs a host's input
// for: whether to demand encryption, what public key and verify token to
// offer, whether a returned shared secret is acceptable, and what
// compression threshold (if any) to negotiate before Play begins.
type LoginProvider interface {
	ShouldEncrypt(c *conn.Connection) bool
	PublicKeyAndToken(c *conn.Connection) (pubKey []byte, verifyToken []byte, err error)
	VerifySharedSecret(c *conn.Connection, secret []byte) error
	CompressionThreshold(c *conn.Connection) (threshold int, enabled bool)
}
