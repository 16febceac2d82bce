package protocol

import "mcproto/buffer"

// MaxVarIntBytes / MaxVarLongBytes bound how many bytes a well-formed
// VarInt/VarLong may occupy — 5 bytes covers all 32 bits (7 bits/byte,
// ceil(32/7) = 5), 10 bytes covers all 64 bits.
const (
	MaxVarIntBytes  = 5
	MaxVarLongBytes = 10
)

const (
	segmentBits = 0x7F
	continueBit = 0x80
)

// EncodeVarInt writes v to out using the wire protocol's 7-bits-per-byte
// variable-length encoding. Negative values are encoded via their 32-bit
// two's-complement unsigned bit pattern, so they always occupy the full 5
// bytes.
func EncodeVarInt(out *buffer.Output, v int32) {
	u := uint32(v)
	for {
		if u&^uint32(segmentBits) == 0 {
			out.PushByte(byte(u))
			return
		}
		out.PushByte(byte(u&segmentBits) | continueBit)
		u >>= 7
	}
}

// DecodeVarInt reads a VarInt from c. It fails with KindInputEnded if the
// stream ends before a terminating byte, and KindVarIntOverflow if more
// than MaxVarIntBytes bytes are consumed without finding one.
func DecodeVarInt(c *buffer.Cursor) (int32, error) {
	var result uint32
	var position uint
	for {
		b, err := c.TakeByte()
		if err != nil {
			return 0, inputEnded("varint truncated")
		}
		result |= uint32(b&segmentBits) << position
		if b&continueBit == 0 {
			return int32(result), nil
		}
		position += 7
		if position >= 32 {
			return 0, newErr(KindVarIntOverflow, "varint is too long")
		}
	}
}

// EncodeVarLong is EncodeVarInt's 64-bit counterpart.
func EncodeVarLong(out *buffer.Output, v int64) {
	u := uint64(v)
	for {
		if u&^uint64(segmentBits) == 0 {
			out.PushByte(byte(u))
			return
		}
		out.PushByte(byte(u&segmentBits) | continueBit)
		u >>= 7
	}
}

// DecodeVarLong is DecodeVarInt's 64-bit counterpart.
func DecodeVarLong(c *buffer.Cursor) (int64, error) {
	var result uint64
	var position uint
	for {
		b, err := c.TakeByte()
		if err != nil {
			return 0, inputEnded("varlong truncated")
		}
		result |= uint64(b&segmentBits) << position
		if b&continueBit == 0 {
			return int64(result), nil
		}
		position += 7
		if position >= 64 {
			return 0, newErr(KindVarIntOverflow, "varlong is too long")
		}
	}
}

// SizeOfVarInt returns the number of bytes EncodeVarInt would write for v,
// without actually encoding it.
func SizeOfVarInt(v int32) int {
	u := uint32(v)
	n := 1
	for u&^uint32(segmentBits) != 0 {
		u >>= 7
		n++
	}
	return n
}
