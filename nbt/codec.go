package nbt

import "mcproto/buffer"

// Framing identifies which of the two root framings a Codec speaks.
// Stored alongside a value on the wire isn't necessary here (unlike the
// teacher's CodecType byte, which travels inside the RPC frame header) —
// each packet field in the registry statically declares which framing it
// uses — but the Strategy-pattern split still buys the same thing the
// teacher's pluggable Codec did: adding a third framing later means adding
// a new implementation, not touching callers.
type Framing byte

const (
	FramingNamed Framing = iota
	FramingNetwork
)

// Codec encodes/decodes a *Compound under one specific root framing.
type Codec interface {
	Encode(out *buffer.Output, c *Compound) error
	Decode(cur *buffer.Cursor) (*Compound, error)
	Framing() Framing
}

// GetCodec is a factory mirroring the teacher's codec.GetCodec: callers
// that only know the framing as data (e.g. a packet schema flag) can
// resolve the right strategy without a type switch at every call site.
func GetCodec(framing Framing) Codec {
	if framing == FramingNetwork {
		return networkCodec{}
	}
	return namedCodec{}
}

type namedCodec struct{}

func (namedCodec) Framing() Framing { return FramingNamed }

// Encode writes the legacy disk/login framing: type byte (must be
// Compound), u16 name length, name bytes, then the compound body.
func (namedCodec) Encode(out *buffer.Output, c *Compound) error {
	out.PushByte(byte(TagCompound))
	nameBytes := []byte(c.RootName)
	out.PushByte(byte(len(nameBytes) >> 8))
	out.PushByte(byte(len(nameBytes)))
	out.ExtendFromSlice(nameBytes)
	return c.serializeEntries(out)
}

func (namedCodec) Decode(cur *buffer.Cursor) (*Compound, error) {
	typeByte, err := cur.TakeByte()
	if err != nil {
		return nil, errf("nbt root type byte truncated: %v", err)
	}
	if TypeID(typeByte) != TagCompound {
		return nil, errf("named nbt root must be a Compound (tag 10), got %d", typeByte)
	}
	nameLenBytes, err := cur.Take(2)
	if err != nil {
		return nil, errf("nbt root name length truncated: %v", err)
	}
	nameLen := int(nameLenBytes[0])<<8 | int(nameLenBytes[1])
	nameBytes, err := cur.Take(nameLen)
	if err != nil {
		return nil, errf("nbt root name truncated: %v", err)
	}
	return decodeCompoundBody(cur, string(nameBytes))
}

type networkCodec struct{}

func (networkCodec) Framing() Framing { return FramingNetwork }

// Encode writes the modern network framing: type byte (must be Compound),
// no root name, then the compound body.
func (networkCodec) Encode(out *buffer.Output, c *Compound) error {
	out.PushByte(byte(TagCompound))
	return c.serializeEntries(out)
}

func (networkCodec) Decode(cur *buffer.Cursor) (*Compound, error) {
	typeByte, err := cur.TakeByte()
	if err != nil {
		return nil, errf("nbt root type byte truncated: %v", err)
	}
	if TypeID(typeByte) != TagCompound {
		return nil, errf("network nbt root must be a Compound (tag 10), got %d", typeByte)
	}
	return decodeCompoundBody(cur, "")
}

// EncodeNamed and DecodeNamed are convenience wrappers for the common case
// of a single one-off named-root encode/decode.
func EncodeNamed(out *buffer.Output, c *Compound) error {
	return GetCodec(FramingNamed).Encode(out, c)
}

func DecodeNamed(cur *buffer.Cursor) (*Compound, error) {
	return GetCodec(FramingNamed).Decode(cur)
}

// EncodeNetwork and DecodeNetwork are the network-framing equivalents.
func EncodeNetwork(out *buffer.Output, c *Compound) error {
	return GetCodec(FramingNetwork).Encode(out, c)
}

func DecodeNetwork(cur *buffer.Cursor) (*Compound, error) {
	return GetCodec(FramingNetwork).Decode(cur)
}
