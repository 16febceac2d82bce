package protocol

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"mcproto/buffer"
)

// EncodeBool writes a single byte: 0x00 for false, 0x01 for true.
func EncodeBool(out *buffer.Output, v bool) {
	if v {
		out.PushByte(0x01)
	} else {
		out.PushByte(0x00)
	}
}

// DecodeBool reads a single byte; any non-zero value decodes to true, per
// spec.
func DecodeBool(c *buffer.Cursor) (bool, error) {
	b, err := c.TakeByte()
	if err != nil {
		return false, inputEnded("bool truncated")
	}
	return b != 0x00, nil
}

// EncodeUint8 / DecodeUint8 and the signed counterpart are included for
// completeness even though they're trivial, since packet schemas declare
// fields by wire type uniformly.
func EncodeUint8(out *buffer.Output, v uint8) { out.PushByte(v) }

func DecodeUint8(c *buffer.Cursor) (uint8, error) {
	b, err := c.TakeByte()
	if err != nil {
		return 0, inputEnded("u8 truncated")
	}
	return b, nil
}

func EncodeInt8(out *buffer.Output, v int8) { out.PushByte(byte(v)) }

func DecodeInt8(c *buffer.Cursor) (int8, error) {
	b, err := c.TakeByte()
	if err != nil {
		return 0, inputEnded("i8 truncated")
	}
	return int8(b), nil
}

func EncodeUint16(out *buffer.Output, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	out.ExtendFromSlice(b[:])
}

func DecodeUint16(c *buffer.Cursor) (uint16, error) {
	b, err := c.Take(2)
	if err != nil {
		return 0, inputEnded("u16 truncated")
	}
	return binary.BigEndian.Uint16(b), nil
}

func EncodeInt16(out *buffer.Output, v int16) { EncodeUint16(out, uint16(v)) }

func DecodeInt16(c *buffer.Cursor) (int16, error) {
	v, err := DecodeUint16(c)
	return int16(v), err
}

func EncodeUint32(out *buffer.Output, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	out.ExtendFromSlice(b[:])
}

func DecodeUint32(c *buffer.Cursor) (uint32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, inputEnded("u32 truncated")
	}
	return binary.BigEndian.Uint32(b), nil
}

func EncodeInt32(out *buffer.Output, v int32) { EncodeUint32(out, uint32(v)) }

func DecodeInt32(c *buffer.Cursor) (int32, error) {
	v, err := DecodeUint32(c)
	return int32(v), err
}

func EncodeUint64(out *buffer.Output, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	out.ExtendFromSlice(b[:])
}

func DecodeUint64(c *buffer.Cursor) (uint64, error) {
	b, err := c.Take(8)
	if err != nil {
		return 0, inputEnded("u64 truncated")
	}
	return binary.BigEndian.Uint64(b), nil
}

func EncodeInt64(out *buffer.Output, v int64) { EncodeUint64(out, uint64(v)) }

func DecodeInt64(c *buffer.Cursor) (int64, error) {
	v, err := DecodeUint64(c)
	return int64(v), err
}

func EncodeFloat32(out *buffer.Output, v float32) {
	EncodeUint32(out, math.Float32bits(v))
}

func DecodeFloat32(c *buffer.Cursor) (float32, error) {
	v, err := DecodeUint32(c)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func EncodeFloat64(out *buffer.Output, v float64) {
	EncodeUint64(out, math.Float64bits(v))
}

func DecodeFloat64(c *buffer.Cursor) (float64, error) {
	v, err := DecodeUint64(c)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// DefaultMaxStringLength matches the vanilla server's default cap on
// string fields that don't declare a narrower bound (e.g. chat messages
// are capped lower; this is the generic ceiling used when a schema field
// doesn't specify one).
const DefaultMaxStringLength = 32767

// EncodeString writes a VarInt byte-length prefix followed by the UTF-8
// bytes of s.
func EncodeString(out *buffer.Output, s string) {
	EncodeVarInt(out, int32(len(s)))
	out.ExtendFromSlice([]byte(s))
}

// DecodeString reads a VarInt-prefixed UTF-8 string, failing with
// LengthExceedsBound if the declared length exceeds maxLen (in bytes) and
// InvalidUtf8 if the bytes aren't valid UTF-8.
func DecodeString(c *buffer.Cursor, maxLen int) (string, error) {
	n, err := DecodeVarInt(c)
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > maxLen {
		return "", newErr(KindLengthExceedsBound, "string length exceeds bound")
	}
	b, err := c.Take(int(n))
	if err != nil {
		return "", inputEnded("string body truncated")
	}
	if !utf8.Valid(b) {
		return "", newErr(KindInvalidUtf8, "string is not valid utf-8")
	}
	return string(b), nil
}

// EncodeByteArray writes a VarInt length prefix followed by the raw bytes.
func EncodeByteArray(out *buffer.Output, b []byte) {
	EncodeVarInt(out, int32(len(b)))
	out.ExtendFromSlice(b)
}

// DecodeByteArray reads a VarInt-prefixed byte array bounded by maxLen.
func DecodeByteArray(c *buffer.Cursor, maxLen int) ([]byte, error) {
	n, err := DecodeVarInt(c)
	if err != nil {
		return nil, err
	}
	if n < 0 || int(n) > maxLen {
		return nil, newErr(KindLengthExceedsBound, "byte array length exceeds bound")
	}
	b, err := c.Take(int(n))
	if err != nil {
		return nil, inputEnded("byte array body truncated")
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// UUID is a 128-bit identifier encoded on the wire as 16 big-endian bytes.
type UUID [16]byte

func EncodeUUID(out *buffer.Output, u UUID) {
	out.ExtendFromSlice(u[:])
}

func DecodeUUID(c *buffer.Cursor) (UUID, error) {
	b, err := c.Take(16)
	if err != nil {
		return UUID{}, inputEnded("uuid truncated")
	}
	var u UUID
	copy(u[:], b)
	return u, nil
}
