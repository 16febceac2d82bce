// Package protocol implements the primitive wire encodings used by every
// Minecraft: Java Edition packet: VarInt/VarLong, fixed-width big-endian
// integers, booleans, length-prefixed strings and byte arrays, and UUIDs.
//
// Every encode/decode pair here is deliberately low-level and allocation
// conscious — these functions run once per field per packet, for every
// packet on every connection.
package protocol

import "fmt"

// Kind identifies one of the primitive-codec failure modes from the wire
// protocol's error taxonomy. Higher layers (packet, conn) use Kind to
// decide whether a frame should be retried, rejected, or the connection
// closed outright.
type Kind int

const (
	// KindInputEnded means a decoder ran off the end of its input. This is
	// the one recoverable kind when framing: the caller just hasn't
	// received enough bytes yet.
	KindInputEnded Kind = iota
	// KindVarIntOverflow means a VarInt/VarLong exceeded its maximum byte
	// count without a terminating byte.
	KindVarIntOverflow
	// KindInvalidUtf8 means string bytes were not valid UTF-8.
	KindInvalidUtf8
	// KindLengthExceedsBound means a length prefix exceeded its declared
	// maximum (a caller-supplied bound, or the protocol's hard frame cap).
	KindLengthExceedsBound
)

func (k Kind) String() string {
	switch k {
	case KindInputEnded:
		return "InputEnded"
	case KindVarIntOverflow:
		return "VarIntOverflow"
	case KindInvalidUtf8:
		return "InvalidUtf8"
	case KindLengthExceedsBound:
		return "LengthExceedsBound"
	default:
		return "Unknown"
	}
}

// CodecError is the error type returned by every primitive encode/decode
// operation in this package. Callers that need to distinguish kinds should
// use errors.As and inspect Kind, rather than matching on Error() text.
type CodecError struct {
	Kind   Kind
	Detail string
}

func (e *CodecError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newErr(kind Kind, detail string) *CodecError {
	return &CodecError{Kind: kind, Detail: detail}
}

func inputEnded(detail string) *CodecError { return newErr(KindInputEnded, detail) }
