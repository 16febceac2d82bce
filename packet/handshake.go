package packet

import (
	"mcproto/buffer"
	"mcproto/protocol"
)

// Handshake is the only packet ever received in the Handshaking state. Its
// NextState field is what drives the Status/Login state transition
// (spec.md §4.5's state machine).
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	Port            uint16
	NextState       int32
}

func (p *Handshake) Encode(out *buffer.Output) error {
	protocol.EncodeVarInt(out, p.ProtocolVersion)
	protocol.EncodeString(out, p.ServerAddress)
	protocol.EncodeUint16(out, p.Port)
	protocol.EncodeVarInt(out, p.NextState)
	return nil
}

func (p *Handshake) Decode(c *buffer.Cursor) error {
	var err error
	if p.ProtocolVersion, err = protocol.DecodeVarInt(c); err != nil {
		return err
	}
	if p.ServerAddress, err = protocol.DecodeString(c, 255); err != nil {
		return err
	}
	if p.Port, err = protocol.DecodeUint16(c); err != nil {
		return err
	}
	if p.NextState, err = protocol.DecodeVarInt(c); err != nil {
		return err
	}
	return nil
}

// HandshakeDescriptor is registered at id 0x00 in (Handshaking, Server) —
// the same numeric id StatusRequest, StatusResponse, LoginStart and
// LoginDisconnect occupy in their own (state, direction) pairs, exercising
// the shared-id invariant from spec.md §3.
var HandshakeDescriptor = Register(Descriptor{
	Name:      "Handshake",
	ID:        0x00,
	State:     Handshaking,
	Direction: Server,
	New:       func() Payload { return &Handshake{} },
})
