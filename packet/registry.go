package packet

import (
	"fmt"

	"mcproto/buffer"
	"mcproto/protocol"
)

// MaxFrameLength is the upstream protocol's hard cap on a frame's encoded
// length: the maximum value a 3-byte VarInt can hold (2^21 - 1). Both
// DecodeFrame and EncodePacket enforce it (SPEC_FULL.md §9).
const MaxFrameLength = 2097151

// Payload is implemented by every concrete packet body. Encode/Decode
// serialize fields in the order the schema declares them, mirroring the
// field-by-field codepath the reference implementation's macro generates
// per packet.
type Payload interface {
	Encode(out *buffer.Output) error
	Decode(c *buffer.Cursor) error
}

// Descriptor is one entry in the registry: everything spec.md §3 says a
// packet schema must declare, plus a factory for a zero-value Payload to
// decode into.
type Descriptor struct {
	Name      string
	ID        int32
	State     State
	Direction Direction
	New       func() Payload
}

// Packet pairs a Descriptor with a concrete, populated Payload — the
// tagged-variant value the registry hands back from DecodeFrame and takes
// in EncodePacket.
type Packet struct {
	Descriptor *Descriptor
	Payload    Payload
}

type registryKey struct {
	state     State
	direction Direction
	id        int32
}

var registry = map[registryKey]*Descriptor{}

// Register adds d to the registry. Each state's packet file (handshake.go,
// status.go, ...) calls it from package-level variable initializers,
// building the startup-time table spec.md §4.4 describes. Register
// panics on a duplicate (state, direction, id) — that invariant violation
// can only come from a programming mistake in this module, never from
// network input, so failing fast at startup is correct.
func Register(d Descriptor) *Descriptor {
	key := registryKey{d.State, d.Direction, d.ID}
	if existing, ok := registry[key]; ok {
		panic(fmt.Sprintf("packet: duplicate registration for (%s, %s, 0x%02X): %s and %s",
			d.State, d.Direction, d.ID, existing.Name, d.Name))
	}
	entry := d
	registry[key] = &entry
	return &entry
}

// Lookup resolves a descriptor by its full key, the core of spec.md §4.4
// step d.
func Lookup(state State, direction Direction, id int32) (*Descriptor, bool) {
	d, ok := registry[registryKey{state, direction, id}]
	return d, ok
}

// UnknownPacketError means (state, direction, id) wasn't found in the
// registry. Per spec.md §7 this is reported, not fatal — the host decides
// whether to close the connection.
type UnknownPacketError struct {
	State     State
	Direction Direction
	ID        int32
}

func (e *UnknownPacketError) Error() string {
	return fmt.Sprintf("packet: unknown packet (state=%s, direction=%s, id=0x%02X)", e.State, e.Direction, e.ID)
}

// LeftoverInputError means a frame decoded successfully but its sub-cursor
// had bytes remaining afterward. Per spec.md §7 this is a warning, not a
// failure: DecodeFrame still returns the decoded Packet alongside this
// error so callers can log and continue.
type LeftoverInputError struct {
	PacketName string
	Remaining  int
}

func (e *LeftoverInputError) Error() string {
	return fmt.Sprintf("packet: %d leftover bytes after decoding %s", e.Remaining, e.PacketName)
}

// DecodeFrame implements spec.md §4.4's dispatch function: it reads a
// VarInt frame length, carves a bounded sub-cursor of exactly that length,
// reads the VarInt packet id from within it, resolves the descriptor for
// (state, direction, id), and decodes the payload from the remaining
// sub-cursor bytes. The parent cursor always advances by the full frame
// length, even when the descriptor lookup fails or the payload decode
// leaves bytes unread — that's what keeps a malformed or unknown packet
// from desynchronizing subsequent frames on the connection.
func DecodeFrame(state State, direction Direction, cur *buffer.Cursor) (*Packet, error) {
	length, err := protocol.DecodeVarInt(cur)
	if err != nil {
		return nil, err
	}
	if length < 0 || length > MaxFrameLength {
		return nil, &protocol.CodecError{Kind: protocol.KindLengthExceedsBound,
			Detail: fmt.Sprintf("frame length %d exceeds %d byte cap", length, MaxFrameLength)}
	}

	sub, err := cur.SubCursor(int(length))
	if err != nil {
		return nil, err
	}

	return decodeFromCursor(state, direction, sub)
}

// DecodeFromBytes decodes a packet id plus payload from raw, a buffer that
// is already known to hold exactly one frame's worth of (id || payload)
// bytes with the outer VarInt length prefix already stripped. The
// compressed framing conn uses needs this: once a frame is unwrapped to
// either its raw or zlib-decompressed id/payload bytes, what remains is
// identical to the tail of an uncompressed frame that DecodeFrame already
// knows how to decode.
func DecodeFromBytes(state State, direction Direction, raw []byte) (*Packet, error) {
	if len(raw) > MaxFrameLength {
		return nil, &protocol.CodecError{Kind: protocol.KindLengthExceedsBound,
			Detail: fmt.Sprintf("frame length %d exceeds %d byte cap", len(raw), MaxFrameLength)}
	}
	return decodeFromCursor(state, direction, buffer.NewCursor(raw))
}

func decodeFromCursor(state State, direction Direction, sub *buffer.Cursor) (*Packet, error) {
	id, err := protocol.DecodeVarInt(sub)
	if err != nil {
		return nil, err
	}

	desc, ok := Lookup(state, direction, id)
	if !ok {
		return nil, &UnknownPacketError{State: state, Direction: direction, ID: id}
	}

	payload := desc.New()
	if err := payload.Decode(sub); err != nil {
		return nil, err
	}

	pkt := &Packet{Descriptor: desc, Payload: payload}
	if sub.Remaining() > 0 {
		return pkt, &LeftoverInputError{PacketName: desc.Name, Remaining: sub.Remaining()}
	}
	return pkt, nil
}

// EncodePacket implements spec.md §4.4's encode function: serialize the
// payload into a scratch buffer, compute the frame length as
// bytes_of_varint(id) + len(payload), then write length, id, payload in
// order.
func EncodePacket(p *Packet, out *buffer.Output) error {
	body, err := EncodePacketBody(p)
	if err != nil {
		return err
	}
	protocol.EncodeVarInt(out, int32(body.Len()))
	out.Merge(body)
	return nil
}

// EncodePacketBody serializes just the id-plus-payload portion of a frame,
// with no outer length prefix — the part conn's compressed framing treats
// as the unit it zlib-compresses (or sends raw, below the threshold).
func EncodePacketBody(p *Packet) (*buffer.Output, error) {
	body := buffer.NewOutput()
	protocol.EncodeVarInt(body, p.Descriptor.ID)
	if err := p.Payload.Encode(body); err != nil {
		return nil, err
	}
	if body.Len() > MaxFrameLength {
		return nil, &protocol.CodecError{Kind: protocol.KindLengthExceedsBound,
			Detail: fmt.Sprintf("encoded frame length %d exceeds %d byte cap", body.Len(), MaxFrameLength)}
	}
	return body, nil
}

// New constructs a Packet from a descriptor and an already-populated
// payload — the usual way a host builds an outbound packet, e.g.
// packet.New(StatusResponseDescriptor, &StatusResponse{JSON: body}).
func New(d *Descriptor, payload Payload) *Packet {
	return &Packet{Descriptor: d, Payload: payload}
}
