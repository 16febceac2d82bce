// Package conn implements the per-socket Connection: the residual-buffer
// receive loop, frame-atomic send, compression and encryption hooks, and
// the connection-level state machine (spec.md §4.5).
package conn

import (
	"bytes"
	"compress/zlib"
	"context"
	"crypto/cipher"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"mcproto/buffer"
	"mcproto/packet"
	"mcproto/protocol"
)

// readChunkSize is how many bytes Receive asks the socket for at a time
// when the residual buffer doesn't already hold a complete frame,
// mirroring the fixed 1024-byte chunking spec.md §4.5 calls out.
const readChunkSize = 1024

// noCompression marks EnableCompression as not yet called.
const noCompression = -1

// drainTimeout bounds how long Close waits for the peer to finish writing
// after the write-side half-close before giving up and dropping the
// socket outright.
const drainTimeout = 2 * time.Second

// Connection wraps one accepted TCP stream plus everything the protocol's
// state machine needs to track about it: current PacketState, negotiated
// protocol version, compression threshold, optional cipher, and the
// residual buffer carried between reads.
type Connection struct {
	socket   net.Conn
	peerAddr net.Addr

	mu                   sync.Mutex
	state                packet.State
	protocolVersion      int32
	compressionThreshold int32

	residual []byte

	reader io.Reader // socket, or a cipher-wrapped socket once EnableEncryption runs
	writer io.Writer

	writeMu sync.Mutex

	limiter   *rate.Limiter
	keepAlive *KeepAliveTracker

	closeOnce sync.Once
}

// FromSocket wraps an accepted TCP connection: disables Nagle's algorithm
// (the protocol is latency-sensitive and frames are already batched at the
// packet level) and initializes state to Handshaking with an empty
// residual buffer.
func FromSocket(socket net.Conn) *Connection {
	if tc, ok := socket.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	return &Connection{
		socket:               socket,
		peerAddr:             socket.RemoteAddr(),
		state:                packet.Handshaking,
		compressionThreshold: noCompression,
		reader:               socket,
		writer:               socket,
		keepAlive:            NewKeepAliveTracker(),
	}
}

// PeerAddr returns the remote address this connection was accepted from.
func (c *Connection) PeerAddr() net.Addr { return c.peerAddr }

// State returns the connection's current PacketState.
func (c *Connection) State() packet.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ChangeState atomically updates the state used by subsequent Receive
// calls to resolve packet ids.
func (c *Connection) ChangeState(s packet.State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// ProtocolVersion returns the version negotiated by the connection's
// Handshake packet, or zero if none has been observed yet.
func (c *Connection) ProtocolVersion() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.protocolVersion
}

// SetProtocolVersion records the protocol version declared by the
// Handshake packet; the host calls this once it has decoded one.
func (c *Connection) SetProtocolVersion(v int32) {
	c.mu.Lock()
	c.protocolVersion = v
	c.mu.Unlock()
}

// SetRateLimiter installs a connection-level token-bucket limiter; a nil
// limiter (the default) disables rate limiting. Guards against a client
// flooding many tiny frames, distinct from the handler-level limiter in
// the middleware package.
func (c *Connection) SetRateLimiter(limiter *rate.Limiter) {
	c.limiter = limiter
}

// KeepAlive returns the tracker used to correlate outstanding
// server-initiated keepalive ids with their round-trip time.
func (c *Connection) KeepAlive() *KeepAliveTracker { return c.keepAlive }

// EnableCompression switches Send/Receive to the two-VarInt
// (packet_length, data_length) framing from spec.md §6: frames at or above
// threshold bytes of uncompressed (id||payload) are zlib-compressed;
// frames below it are sent with data_length = 0 and no compression.
func (c *Connection) EnableCompression(threshold int32) {
	c.mu.Lock()
	c.compressionThreshold = threshold
	c.mu.Unlock()
}

// EnableEncryption wraps the connection's raw socket reader/writer with
// the supplied stream cipher. The library never generates keys or performs
// the RSA/shared-secret handshake itself — that's a LoginProvider
// collaborator concern (spec.md §6) — it only applies the cipher to every
// subsequent byte in both directions, below the framing layer.
func (c *Connection) EnableEncryption(encrypt cipher.Stream, decrypt cipher.Stream) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reader = &cipher.StreamReader{S: decrypt, R: c.socket}
	c.writer = &cipher.StreamWriter{S: encrypt, W: c.socket}
}

// errNeedMore is an internal sentinel meaning the residual buffer doesn't
// yet hold a complete frame; it never escapes Receive.
var errNeedMore = errors.New("conn: need more bytes")

// Receive returns the next fully-decoded packet for direction (normally
// packet.Server, since a Connection decodes what its peer sends). It
// yields packets in the exact order they were framed on the wire: if the
// residual buffer already holds a complete frame, it decodes from that
// buffer before touching the socket at all, so two frames delivered in a
// single socket read only cost one read.
func (c *Connection) Receive(ctx context.Context, direction packet.Direction) (*packet.Packet, error) {
	for {
		pkt, consumed, err := c.tryDecode(direction)
		if err != errNeedMore {
			if consumed > 0 {
				c.residual = append([]byte(nil), c.residual[consumed:]...)
			}
			if _, leftover := err.(*packet.LeftoverInputError); (err == nil || leftover) && c.limiter != nil && !c.limiter.Allow() {
				return nil, newConnError(ErrRateLimited, "packet rate limit exceeded")
			}
			return pkt, err
		}
		if err := c.fill(ctx); err != nil {
			return nil, err
		}
	}
}

func (c *Connection) fill(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chunk := make([]byte, readChunkSize)
	n, err := c.reader.Read(chunk)
	if n > 0 {
		c.residual = append(c.residual, chunk[:n]...)
	}
	if err != nil {
		if err == io.EOF {
			return newConnError(ConnectionClosed, "peer closed the connection")
		}
		if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
			return newConnError(ConnectionClosed, "connection closed locally")
		}
		var netErr net.Error
		if errors.As(err, &netErr) && !netErr.Timeout() {
			c.socket.Close()
			return newConnError(ConnectionAbortedLocally, err.Error())
		}
		return err
	}
	if n == 0 {
		return newConnError(ConnectionClosed, "zero-byte read")
	}
	return nil
}

// tryDecode attempts to decode one frame from the residual buffer without
// touching the socket. It returns errNeedMore (with consumed == 0) when the
// residual buffer doesn't yet hold a complete frame.
func (c *Connection) tryDecode(direction packet.Direction) (*packet.Packet, int, error) {
	c.mu.Lock()
	state := c.state
	threshold := c.compressionThreshold
	c.mu.Unlock()

	cur := buffer.NewCursor(c.residual)

	if threshold < 0 {
		pkt, err := packet.DecodeFrame(state, direction, cur)
		if isNeedMore(err) {
			return nil, 0, errNeedMore
		}
		return pkt, len(c.residual) - cur.Remaining(), err
	}

	pkt, err := c.decodeCompressedFrame(state, direction, cur)
	if isNeedMore(err) {
		return nil, 0, errNeedMore
	}
	return pkt, len(c.residual) - cur.Remaining(), err
}

func (c *Connection) decodeCompressedFrame(state packet.State, direction packet.Direction, cur *buffer.Cursor) (*packet.Packet, error) {
	packetLength, err := protocol.DecodeVarInt(cur)
	if err != nil {
		return nil, err
	}
	if packetLength < 0 || packetLength > packet.MaxFrameLength {
		return nil, &protocol.CodecError{Kind: protocol.KindLengthExceedsBound, Detail: "compressed packet_length exceeds cap"}
	}
	sub, err := cur.SubCursor(int(packetLength))
	if err != nil {
		return nil, err
	}

	dataLength, err := protocol.DecodeVarInt(sub)
	if err != nil {
		return nil, err
	}

	if dataLength == 0 {
		return packet.DecodeFromBytes(state, direction, sub.Rest())
	}

	zr, err := zlib.NewReader(bytes.NewReader(sub.Rest()))
	if err != nil {
		return nil, &protocol.CodecError{Kind: protocol.KindLengthExceedsBound, Detail: "malformed zlib stream: " + err.Error()}
	}
	defer zr.Close()
	raw := make([]byte, dataLength)
	if _, err := io.ReadFull(zr, raw); err != nil {
		return nil, &protocol.CodecError{Kind: protocol.KindLengthExceedsBound, Detail: "zlib payload shorter than data_length"}
	}
	return packet.DecodeFromBytes(state, direction, raw)
}

func isNeedMore(err error) bool {
	if err == nil {
		return false
	}
	var inputEnded *buffer.InputEndedError
	if errors.As(err, &inputEnded) {
		return true
	}
	var codecErr *protocol.CodecError
	if errors.As(err, &codecErr) && codecErr.Kind == protocol.KindInputEnded {
		return true
	}
	return false
}

// Send encodes p via the packet registry and writes the complete frame to
// the socket, retrying partial writes until fully flushed. Writes for a
// single connection never interleave, even under concurrent Send calls.
func (c *Connection) Send(p *packet.Packet) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	threshold := c.compressionThreshold
	c.mu.Unlock()

	var frame *buffer.Output
	if threshold < 0 {
		frame = buffer.NewOutput()
		if err := packet.EncodePacket(p, frame); err != nil {
			return err
		}
	} else {
		var err error
		frame, err = c.encodeCompressedFrame(p, threshold)
		if err != nil {
			return err
		}
	}
	return c.writeAll(frame.Bytes())
}

func (c *Connection) encodeCompressedFrame(p *packet.Packet, threshold int32) (*buffer.Output, error) {
	body, err := packet.EncodePacketBody(p)
	if err != nil {
		return nil, err
	}

	inner := buffer.NewOutput()
	if body.Len() < int(threshold) {
		protocol.EncodeVarInt(inner, 0)
		inner.Merge(body)
	} else {
		protocol.EncodeVarInt(inner, int32(body.Len()))
		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		if _, err := zw.Write(body.Bytes()); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		inner.ExtendFromSlice(compressed.Bytes())
	}

	frame := buffer.NewOutput()
	protocol.EncodeVarInt(frame, int32(inner.Len()))
	frame.Merge(inner)
	return frame, nil
}

func (c *Connection) writeAll(b []byte) error {
	for len(b) > 0 {
		n, err := c.writer.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

// PeekNextFrameHeader non-destructively reads the length and packet id of
// the next frame without consuming anything, used by a host before a state
// transition when only the packet type determines it. It never triggers a
// socket read — if the residual buffer doesn't hold enough bytes yet, it
// reports errNeedMore's underlying condition via ok == false. It reads the
// raw bytes only: once compression is enabled, length is the compressed
// frame's packet_length and id holds data_length, not the packet id.
func (c *Connection) PeekNextFrameHeader() (length int32, id int32, ok bool) {
	cur := buffer.NewCursor(c.residual)
	l, err := protocol.DecodeVarInt(cur)
	if err != nil {
		return 0, 0, false
	}
	packetID, err := protocol.DecodeVarInt(cur)
	if err != nil {
		return 0, 0, false
	}
	return l, packetID, true
}

// halfCloser is satisfied by *net.TCPConn; asserting against it locally
// keeps Close from depending on net.TCPConn directly, the same pattern
// HTTP/2 and gRPC use to half-close a stream before dropping it.
type halfCloser interface {
	CloseWrite() error
}

// Close half-closes the write side (if the underlying socket supports it),
// best-effort drains whatever the peer still has in flight, and drops the
// socket. Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if hc, ok := c.socket.(halfCloser); ok {
			if werr := hc.CloseWrite(); werr == nil {
				drain := make([]byte, readChunkSize)
				c.socket.SetReadDeadline(time.Now().Add(drainTimeout))
				for {
					if _, rerr := c.socket.Read(drain); rerr != nil {
						break
					}
				}
			}
		}
		err = c.socket.Close()
	})
	return err
}
