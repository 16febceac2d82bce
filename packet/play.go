package packet

import (
	"mcproto/buffer"
	"mcproto/protocol"
)

// ServerboundKeepAlivePlay answers ClientboundKeepAlivePlay; shares the
// shared keepAlive wire shape used in Configuration, but lives in its own
// (Play, Server, 0x18) slot since Play's id space is independent.
type ServerboundKeepAlivePlay struct{ keepAlive }

var ServerboundKeepAlivePlayDescriptor = Register(Descriptor{
	Name:      "ServerboundKeepAlivePlay",
	ID:        0x18,
	State:     Play,
	Direction: Server,
	New:       func() Payload { return &ServerboundKeepAlivePlay{} },
})

// ChatMessage is a player's plain-text chat submission. Modern protocol
// versions attach a signature and timestamp for chat-report verification;
// a host that doesn't implement signed chat can ignore those fields.
type ChatMessage struct {
	Message      string
	Timestamp    int64
	Salt         int64
	Signature    []byte
	HasSignature bool
}

func (p *ChatMessage) Encode(out *buffer.Output) error {
	protocol.EncodeString(out, p.Message)
	protocol.EncodeInt64(out, p.Timestamp)
	protocol.EncodeInt64(out, p.Salt)
	protocol.EncodeBool(out, p.HasSignature)
	if p.HasSignature {
		out.ExtendFromSlice(p.Signature)
	}
	return nil
}

func (p *ChatMessage) Decode(c *buffer.Cursor) error {
	var err error
	if p.Message, err = protocol.DecodeString(c, 256); err != nil {
		return err
	}
	if p.Timestamp, err = protocol.DecodeInt64(c); err != nil {
		return err
	}
	if p.Salt, err = protocol.DecodeInt64(c); err != nil {
		return err
	}
	if p.HasSignature, err = protocol.DecodeBool(c); err != nil {
		return err
	}
	if p.HasSignature {
		// Signatures are a fixed 256 bytes (RSA-SHA256); unlike plugin
		// messages there is no trailing "rest of packet" field to clash
		// with, so a fixed Take is correct rather than c.Remaining().
		p.Signature, err = c.Take(256)
		if err != nil {
			return err
		}
	}
	return nil
}

var ChatMessageDescriptor = Register(Descriptor{
	Name:      "ChatMessage",
	ID:        0x06,
	State:     Play,
	Direction: Server,
	New:       func() Payload { return &ChatMessage{} },
})

type ClientboundKeepAlivePlay struct{ keepAlive }

var ClientboundKeepAlivePlayDescriptor = Register(Descriptor{
	Name:      "ClientboundKeepAlivePlay",
	ID:        0x26,
	State:     Play,
	Direction: Client,
	New:       func() Payload { return &ClientboundKeepAlivePlay{} },
})

// PlayDisconnect carries a JSON chat-component reason, sent by the server
// to end a Play-state connection.
type PlayDisconnect struct {
	Reason string
}

func (p *PlayDisconnect) Encode(out *buffer.Output) error {
	protocol.EncodeString(out, p.Reason)
	return nil
}

func (p *PlayDisconnect) Decode(c *buffer.Cursor) error {
	s, err := protocol.DecodeString(c, protocol.DefaultMaxStringLength)
	if err != nil {
		return err
	}
	p.Reason = s
	return nil
}

var PlayDisconnectDescriptor = Register(Descriptor{
	Name:      "PlayDisconnect",
	ID:        0x1D,
	State:     Play,
	Direction: Client,
	New:       func() Payload { return &PlayDisconnect{} },
})

// ClientboundPluginMessagePlay is the Play-state plugin channel, the one
// most frequently used by mods once the world has loaded.
type ClientboundPluginMessagePlay struct{ pluginMessage }

var ClientboundPluginMessagePlayDescriptor = Register(Descriptor{
	Name:      "ClientboundPluginMessagePlay",
	ID:        0x18,
	State:     Play,
	Direction: Client,
	New:       func() Payload { return &ClientboundPluginMessagePlay{} },
})
