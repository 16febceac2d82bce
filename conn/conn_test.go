package conn

import (
	"context"
	"net"
	"testing"
	"time"

	"mcproto/buffer"
	"mcproto/packet"
)

// newTestConnection wraps one end of an in-memory net.Pipe in a Connection
// and returns the other end, letting tests control exactly how many bytes
// arrive on each Read.
func newTestConnection(t *testing.T) (*Connection, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	return FromSocket(server), client
}

func handshakeFrame(t *testing.T) []byte {
	t.Helper()
	p := packet.New(packet.HandshakeDescriptor, &packet.Handshake{
		ProtocolVersion: 767,
		ServerAddress:   "localhost",
		Port:            25565,
		NextState:       2,
	})
	out := buffer.NewOutput()
	if err := packet.EncodePacket(p, out); err != nil {
		t.Fatalf("EncodePacket: %v", err)
	}
	return out.Bytes()
}

func TestReceiveFrameSplitAcrossThreeReads(t *testing.T) {
	c, client := newTestConnection(t)
	defer client.Close()

	frame := handshakeFrame(t)
	if len(frame) < 3 {
		t.Fatalf("frame too short to split three ways: %d bytes", len(frame))
	}
	thirds := [][]byte{
		frame[:len(frame)/3],
		frame[len(frame)/3 : 2*len(frame)/3],
		frame[2*len(frame)/3:],
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, chunk := range thirds {
			time.Sleep(time.Millisecond)
			if _, err := client.Write(chunk); err != nil {
				t.Errorf("write chunk: %v", err)
				return
			}
		}
	}()

	pkt, err := c.Receive(context.Background(), packet.Server)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	hs, ok := pkt.Payload.(*packet.Handshake)
	if !ok || hs.ServerAddress != "localhost" {
		t.Fatalf("payload = %+v, want Handshake{ServerAddress: localhost}", pkt.Payload)
	}
	<-done
}

func TestReceiveTwoFramesInOneReadYieldsTwoReceivesNoExtraReads(t *testing.T) {
	c, client := newTestConnection(t)
	defer client.Close()

	frame := handshakeFrame(t)
	both := append(append([]byte{}, frame...), frame...)

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		client.Write(both)
	}()

	first, err := c.Receive(context.Background(), packet.Server)
	if err != nil {
		t.Fatalf("first Receive: %v", err)
	}
	if _, ok := first.Payload.(*packet.Handshake); !ok {
		t.Fatalf("first payload = %T, want *Handshake", first.Payload)
	}

	// The second frame must already be sitting in the residual buffer; to
	// prove Receive doesn't touch the socket again, close the write side
	// and confirm decode still succeeds purely from the residual.
	<-writeDone
	client.Close()

	second, err := c.Receive(context.Background(), packet.Server)
	if err != nil {
		t.Fatalf("second Receive (from residual only): %v", err)
	}
	if _, ok := second.Payload.(*packet.Handshake); !ok {
		t.Fatalf("second payload = %T, want *Handshake", second.Payload)
	}
}

func TestReceiveZeroByteReadIsConnectionClosed(t *testing.T) {
	c, client := newTestConnection(t)
	client.Close()

	_, err := c.Receive(context.Background(), packet.Server)
	connErr, ok := err.(*ConnError)
	if !ok || connErr.Kind != ConnectionClosed {
		t.Fatalf("err = %v, want ConnError{Kind: ConnectionClosed}", err)
	}
}

func TestSendThenReceiveCompressedRoundTrip(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	server := FromSocket(serverSide)
	clientConn := FromSocket(clientSide)
	server.EnableCompression(2)
	clientConn.EnableCompression(2)
	server.ChangeState(packet.Status)
	clientConn.ChangeState(packet.Status)

	big := make([]byte, 512)
	for i := range big {
		big[i] = byte('a' + i%26)
	}
	p := packet.New(packet.StatusResponseDescriptor, &packet.StatusResponse{JSON: string(big)})

	sendErr := make(chan error, 1)
	go func() { sendErr <- server.Send(p) }()

	got, err := clientConn.Receive(context.Background(), packet.Client)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if err := <-sendErr; err != nil {
		t.Fatalf("Send: %v", err)
	}
	sr, ok := got.Payload.(*packet.StatusResponse)
	if !ok || len(sr.JSON) != len(big) {
		t.Fatalf("payload = %+v, want StatusResponse of length %d", got.Payload, len(big))
	}
}

func TestSendBelowThresholdIsUncompressed(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	server := FromSocket(serverSide)
	clientConn := FromSocket(clientSide)
	server.EnableCompression(1024)
	clientConn.EnableCompression(1024)
	server.ChangeState(packet.Status)
	clientConn.ChangeState(packet.Status)

	p := packet.New(packet.PingRequestDescriptor, &packet.PingRequest{Payload: 99})

	// The frame is packet_length (one byte here) followed by data_length,
	// which must be 0 for a body below the threshold.
	frame, err := server.encodeCompressedFrame(p, 1024)
	if err != nil {
		t.Fatalf("encodeCompressedFrame: %v", err)
	}
	if frame.Bytes()[1] != 0x00 {
		t.Fatalf("data_length = %#x, want 0 (uncompressed)", frame.Bytes()[1])
	}

	sendErr := make(chan error, 1)
	go func() { sendErr <- server.Send(p) }()

	got, err := clientConn.Receive(context.Background(), packet.Server)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if err := <-sendErr; err != nil {
		t.Fatalf("Send: %v", err)
	}
	pr, ok := got.Payload.(*packet.PingRequest)
	if !ok || pr.Payload != 99 {
		t.Fatalf("payload = %+v, want PingRequest{Payload: 99}", got.Payload)
	}
}

func TestPeekNextFrameHeaderDoesNotConsume(t *testing.T) {
	c, _ := newTestConnection(t)
	c.residual = handshakeFrame(t)

	length, id, ok := c.PeekNextFrameHeader()
	if !ok {
		t.Fatal("expected PeekNextFrameHeader to succeed on a buffered frame")
	}
	if id != 0x00 {
		t.Fatalf("id = %d, want 0", id)
	}
	if length <= 0 {
		t.Fatalf("length = %d, want > 0", length)
	}

	// Residual must be untouched: a full decode from scratch must still work.
	pkt, err := DecodeFromResidualForTest(c, packet.Server)
	if err != nil {
		t.Fatalf("decode after peek: %v", err)
	}
	if _, ok := pkt.Payload.(*packet.Handshake); !ok {
		t.Fatalf("payload = %T, want *Handshake", pkt.Payload)
	}
}

// DecodeFromResidualForTest exercises the same decode path Receive uses,
// without requiring a live socket read.
func DecodeFromResidualForTest(c *Connection, direction packet.Direction) (*packet.Packet, error) {
	pkt, _, err := c.tryDecode(direction)
	return pkt, err
}

func TestFillWrapsNetPipeClosedAsConnectionClosed(t *testing.T) {
	c, client := newTestConnection(t)
	client.Close()
	err := c.fill(context.Background())
	if err == nil {
		t.Fatal("expected an error after the peer closed")
	}
	var connErr *ConnError
	if ce, ok := err.(*ConnError); ok {
		connErr = ce
	}
	if connErr == nil {
		t.Fatalf("err = %v (%T), want *ConnError", err, err)
	}
	if connErr.Kind != ConnectionClosed {
		t.Fatalf("err = %v, want ConnError{Kind: ConnectionClosed}", err)
	}
}
