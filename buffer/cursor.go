package buffer

import "fmt"

// InputEndedError is returned by Cursor operations that run off the end of
// the available bytes. It is defined here (rather than in protocol) so the
// buffer package has no dependency on protocol; protocol's primitive
// decoders report it as a protocol.CodecError of kind KindInputEnded.
type InputEndedError struct {
	Wanted, Have int
}

func (e *InputEndedError) Error() string {
	return fmt.Sprintf("input ended: wanted %d bytes, have %d", e.Wanted, e.Have)
}

// Cursor is a read-only view over a byte slice with a current position. It
// never copies its backing slice; Take and Peek return sub-slices of it.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor wraps data for reading from position 0.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Take returns the next n bytes and advances the cursor past them. The
// returned slice aliases the cursor's backing array.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, &InputEndedError{Wanted: n, Have: c.Remaining()}
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// TakeByte is a convenience for the extremely common single-byte read.
func (c *Cursor) TakeByte() (byte, error) {
	b, err := c.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Peek returns the next n bytes without advancing the cursor.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, &InputEndedError{Wanted: n, Have: c.Remaining()}
	}
	return c.data[c.pos : c.pos+n], nil
}

// SubCursor carves out a bounded child cursor covering exactly the next n
// bytes and unconditionally advances the parent past them. The child's own
// exhaustion (running past its n bytes) never reaches back into the
// parent's remaining data — this is what lets a malformed inner length
// inside a packet body fail without desynchronizing the outer frame
// boundary. Any bytes the child doesn't consume are simply dropped when
// the child is discarded.
func (c *Cursor) SubCursor(n int) (*Cursor, error) {
	b, err := c.Take(n)
	if err != nil {
		return nil, err
	}
	return &Cursor{data: b}, nil
}

// Rest returns the unread tail of the cursor without advancing it.
func (c *Cursor) Rest() []byte {
	return c.data[c.pos:]
}
