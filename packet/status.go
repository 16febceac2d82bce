package packet

import (
	"mcproto/buffer"
	"mcproto/protocol"
)

// StatusRequest carries no fields; the client sends it to ask for the
// server list ping response.
type StatusRequest struct{}

func (*StatusRequest) Encode(*buffer.Output) error { return nil }
func (*StatusRequest) Decode(*buffer.Cursor) error { return nil }

var StatusRequestDescriptor = Register(Descriptor{
	Name:      "StatusRequest",
	ID:        0x00,
	State:     Status,
	Direction: Server,
	New:       func() Payload { return &StatusRequest{} },
})

// StatusResponse carries the JSON body a host's StatusProvider collaborator
// supplies (spec.md §6) — this packet just moves the bytes, it doesn't
// interpret them.
type StatusResponse struct {
	JSON string
}

func (p *StatusResponse) Encode(out *buffer.Output) error {
	protocol.EncodeString(out, p.JSON)
	return nil
}

func (p *StatusResponse) Decode(c *buffer.Cursor) error {
	s, err := protocol.DecodeString(c, protocol.DefaultMaxStringLength)
	if err != nil {
		return err
	}
	p.JSON = s
	return nil
}

var StatusResponseDescriptor = Register(Descriptor{
	Name:      "StatusResponse",
	ID:        0x00,
	State:     Status,
	Direction: Client,
	New:       func() Payload { return &StatusResponse{} },
})

// PingRequest's Payload is echoed verbatim by PongResponse — the host
// never needs to interpret it, only copy it (spec.md §6).
type PingRequest struct {
	Payload int64
}

func (p *PingRequest) Encode(out *buffer.Output) error {
	protocol.EncodeInt64(out, p.Payload)
	return nil
}

func (p *PingRequest) Decode(c *buffer.Cursor) error {
	v, err := protocol.DecodeInt64(c)
	if err != nil {
		return err
	}
	p.Payload = v
	return nil
}

var PingRequestDescriptor = Register(Descriptor{
	Name:      "PingRequest",
	ID:        0x01,
	State:     Status,
	Direction: Server,
	New:       func() Payload { return &PingRequest{} },
})

type PongResponse struct {
	Payload int64
}

func (p *PongResponse) Encode(out *buffer.Output) error {
	protocol.EncodeInt64(out, p.Payload)
	return nil
}

func (p *PongResponse) Decode(c *buffer.Cursor) error {
	v, err := protocol.DecodeInt64(c)
	if err != nil {
		return err
	}
	p.Payload = v
	return nil
}

var PongResponseDescriptor = Register(Descriptor{
	Name:      "PongResponse",
	ID:        0x01,
	State:     Status,
	Direction: Client,
	New:       func() Payload { return &PongResponse{} },
})
