// Package nbt implements the Named Binary Tag format used for structured
// data inside several Minecraft packets (entity metadata, item stacks,
// world registries). It supports both wire framings the protocol uses:
// the legacy named-root form and the modern network form that omits the
// root compound's name.
package nbt

import (
	"fmt"

	"mcproto/buffer"
	"mcproto/protocol"
)

// TypeID is one of the 13 NBT tag type identifiers.
type TypeID byte

const (
	TagEnd TypeID = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

func (t TypeID) String() string {
	names := [...]string{"End", "Byte", "Short", "Int", "Long", "Float", "Double",
		"ByteArray", "String", "List", "Compound", "IntArray", "LongArray"}
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("Unknown(%d)", byte(t))
}

// Tag is the sum type over all 13 NBT payload shapes. Concrete
// implementations are the *Tag types below (ByteTag, StringTag, ...) plus
// List and Compound. A type switch on the concrete Go type plays the role the
// reference implementation gives to a tagged enum.
type Tag interface {
	// ID returns the wire type byte for this tag.
	ID() TypeID
	// encodePayload writes the tag's payload only — no type byte, no name.
	// Type bytes and names are written by the container (Compound entry,
	// or nothing for List elements).
	encodePayload(out *buffer.Output) error
}

// Err is returned for NBT-specific structural violations that aren't
// covered by protocol.CodecError (e.g. a non-Compound root, or a List
// whose declared element type doesn't match what's found).
type Err struct {
	Detail string
}

func (e *Err) Error() string { return e.Detail }

func errf(format string, args ...any) error {
	return &Err{Detail: fmt.Sprintf(format, args...)}
}

// ---- Leaf primitive tags ----

type ByteTag int8

func (ByteTag) ID() TypeID { return TagByte }
func (t ByteTag) encodePayload(out *buffer.Output) error {
	protocol.EncodeInt8(out, int8(t))
	return nil
}

type ShortTag int16

func (ShortTag) ID() TypeID { return TagShort }
func (t ShortTag) encodePayload(out *buffer.Output) error {
	protocol.EncodeInt16(out, int16(t))
	return nil
}

type IntTag int32

func (IntTag) ID() TypeID { return TagInt }
func (t IntTag) encodePayload(out *buffer.Output) error {
	protocol.EncodeInt32(out, int32(t))
	return nil
}

type LongTag int64

func (LongTag) ID() TypeID { return TagLong }
func (t LongTag) encodePayload(out *buffer.Output) error {
	protocol.EncodeInt64(out, int64(t))
	return nil
}

type FloatTag float32

func (FloatTag) ID() TypeID { return TagFloat }
func (t FloatTag) encodePayload(out *buffer.Output) error {
	protocol.EncodeFloat32(out, float32(t))
	return nil
}

type DoubleTag float64

func (DoubleTag) ID() TypeID { return TagDouble }
func (t DoubleTag) encodePayload(out *buffer.Output) error {
	protocol.EncodeFloat64(out, float64(t))
	return nil
}

// StringTag uses a big-endian u16 byte-length prefix, unlike protocol's
// VarInt-prefixed strings — this is NBT's own string framing (spec.md §4.2).
type StringTag string

func (StringTag) ID() TypeID { return TagString }
func (t StringTag) encodePayload(out *buffer.Output) error {
	protocol.EncodeUint16(out, uint16(len(t)))
	out.ExtendFromSlice([]byte(t))
	return nil
}

type ByteArrayTag []int8

func (ByteArrayTag) ID() TypeID { return TagByteArray }
func (t ByteArrayTag) encodePayload(out *buffer.Output) error {
	protocol.EncodeInt32(out, int32(len(t)))
	for _, v := range t {
		protocol.EncodeInt8(out, v)
	}
	return nil
}

type IntArrayTag []int32

func (IntArrayTag) ID() TypeID { return TagIntArray }
func (t IntArrayTag) encodePayload(out *buffer.Output) error {
	protocol.EncodeInt32(out, int32(len(t)))
	for _, v := range t {
		protocol.EncodeInt32(out, v)
	}
	return nil
}

type LongArrayTag []int64

func (LongArrayTag) ID() TypeID { return TagLongArray }
func (t LongArrayTag) encodePayload(out *buffer.Output) error {
	protocol.EncodeInt32(out, int32(len(t)))
	for _, v := range t {
		protocol.EncodeInt64(out, v)
	}
	return nil
}

// decodeTagPayload reads the payload for a tag of the given type id — used
// both for Compound entries (after the type byte and name have been read)
// and List elements (after the list's single shared type byte has been
// read once for the whole list).
func decodeTagPayload(c *buffer.Cursor, id TypeID) (Tag, error) {
	switch id {
	case TagEnd:
		return endTag{}, nil
	case TagByte:
		v, err := protocol.DecodeInt8(c)
		return ByteTag(v), err
	case TagShort:
		v, err := protocol.DecodeInt16(c)
		return ShortTag(v), err
	case TagInt:
		v, err := protocol.DecodeInt32(c)
		return IntTag(v), err
	case TagLong:
		v, err := protocol.DecodeInt64(c)
		return LongTag(v), err
	case TagFloat:
		v, err := protocol.DecodeFloat32(c)
		return FloatTag(v), err
	case TagDouble:
		v, err := protocol.DecodeFloat64(c)
		return DoubleTag(v), err
	case TagString:
		n, err := protocol.DecodeUint16(c)
		if err != nil {
			return nil, err
		}
		b, err := c.Take(int(n))
		if err != nil {
			return nil, errf("nbt string truncated: %v", err)
		}
		// The upstream format specifies Modified UTF-8; this implementation
		// accepts and emits standard UTF-8 instead (see SPEC_FULL.md §9 open
		// question). string(b) is an unchecked byte pass-through, not the
		// reference implementation's from_utf8_lossy: for well-formed input
		// the two are indistinguishable, but unlike from_utf8_lossy this does
		// not substitute U+FFFD for invalid sequences.
		return StringTag(string(b)), nil
	case TagByteArray:
		n, err := protocol.DecodeInt32(c)
		if err != nil {
			return nil, err
		}
		arr := make(ByteArrayTag, n)
		for i := range arr {
			v, err := protocol.DecodeInt8(c)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case TagIntArray:
		n, err := protocol.DecodeInt32(c)
		if err != nil {
			return nil, err
		}
		arr := make(IntArrayTag, n)
		for i := range arr {
			v, err := protocol.DecodeInt32(c)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case TagLongArray:
		n, err := protocol.DecodeInt32(c)
		if err != nil {
			return nil, err
		}
		arr := make(LongArrayTag, n)
		for i := range arr {
			v, err := protocol.DecodeInt64(c)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	case TagList:
		return decodeList(c)
	case TagCompound:
		return decodeCompoundBody(c, "")
	default:
		return nil, errf("unknown tag type id %d", byte(id))
	}
}

// endTag is the sentinel payload for TagEnd; it never appears as a
// standalone value outside of terminating a Compound body.
type endTag struct{}

func (endTag) ID() TypeID                              { return TagEnd }
func (endTag) encodePayload(out *buffer.Output) error { return nil }
