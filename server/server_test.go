package server

import (
	"context"
	"net"
	"testing"
	"time"

	"mcproto/buffer"
	"mcproto/conn"
	"mcproto/host"
	"mcproto/packet"
)

func TestListenerDispatchesHandshakeToRegisteredHandler(t *testing.T) {
	l := NewListener()

	received := make(chan *packet.Handshake, 1)
	l.Handle(packet.Handshaking, host.PacketHandlerFunc(func(ctx context.Context, c *conn.Connection, p packet.Packet) error {
		hs := p.Payload.(*packet.Handshake)
		received <- hs
		return nil
	}))

	serveErr := make(chan error, 1)
	go func() { serveErr <- l.Serve("tcp", "127.0.0.1:0") }()

	addr := waitForListenerAddr(t, l)

	dialed, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer dialed.Close()

	p := packet.New(packet.HandshakeDescriptor, &packet.Handshake{
		ProtocolVersion: 767,
		ServerAddress:   "example.net",
		Port:            25565,
		NextState:       1,
	})
	out := buffer.NewOutput()
	if err := packet.EncodePacket(p, out); err != nil {
		t.Fatalf("EncodePacket: %v", err)
	}
	if _, err := dialed.Write(out.Bytes()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	select {
	case hs := <-received:
		if hs.ServerAddress != "example.net" {
			t.Fatalf("ServerAddress = %q, want %q", hs.ServerAddress, "example.net")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler to be invoked")
	}

	if err := l.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-serveErr; err != nil {
		t.Fatalf("Serve: %v", err)
	}
}

func TestListenerIgnoresStateWithNoHandler(t *testing.T) {
	l := NewListener()
	serveErr := make(chan error, 1)
	go func() { serveErr <- l.Serve("tcp", "127.0.0.1:0") }()
	addr := waitForListenerAddr(t, l)

	dialed, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	p := packet.New(packet.HandshakeDescriptor, &packet.Handshake{ProtocolVersion: 1, ServerAddress: "a", NextState: 1})
	out := buffer.NewOutput()
	packet.EncodePacket(p, out)
	dialed.Write(out.Bytes())
	dialed.Close()

	if err := l.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	<-serveErr
}

func waitForListenerAddr(t *testing.T, l *Listener) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if l.listener != nil {
			return l.listener.Addr().String()
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("listener never started")
	return ""
}
