// Package server implements Listener: the accept loop, per-connection
// packet dispatch, middleware chain, and graceful shutdown, generalized
// from the teacher's RPC Server to the Minecraft wire protocol.
//
// Dispatch pipeline:
//
//	Accept conn → handleConn (one goroutine per connection, reads AND
//	  dispatches packets in order — unlike the teacher's goroutine-per-
//	  request model, Play-state packets must be processed in the order
//	  the client sent them)
//	  → for each packet: Connection.Receive → middleware chain →
//	    state's PacketHandler
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"mcproto/conn"
	"mcproto/host"
	"mcproto/middleware"
	"mcproto/packet"
)

// Listener accepts TCP connections and dispatches decoded packets to
// per-state handlers through a shared middleware chain.
type Listener struct {
	handlers map[packet.State]host.PacketHandler

	middlewares []middleware.Middleware
	chain       middleware.Middleware

	listener net.Listener
	wg       sync.WaitGroup
	shutdown atomic.Bool
}

// NewListener returns an empty Listener with no handlers or middleware
// registered yet.
func NewListener() *Listener {
	return &Listener{handlers: make(map[packet.State]host.PacketHandler)}
}

// Handle registers the PacketHandler to use for every packet received
// while a connection is in state s. Registering twice for the same state
// replaces the previous handler.
func (l *Listener) Handle(s packet.State, h host.PacketHandler) {
	l.handlers[s] = h
}

// Use registers a middleware. Middlewares run in the order they're added,
// outermost first, wrapping every state's handler alike.
func (l *Listener) Use(mw middleware.Middleware) {
	l.middlewares = append(l.middlewares, mw)
}

// Serve listens on network/address and enters the accept loop: one
// goroutine per connection, running until Shutdown is called or Accept
// returns a non-shutdown error.
func (l *Listener) Serve(network, address string) error {
	ln, err := net.Listen(network, address)
	if err != nil {
		return err
	}
	l.listener = ln

	// Build the chain once at startup, not per-packet.
	l.chain = middleware.Chain(l.middlewares...)

	for {
		rawConn, err := ln.Accept()
		if err != nil {
			if l.shutdown.Load() {
				return nil
			}
			return err
		}
		l.wg.Add(1)
		go l.handleConn(conn.FromSocket(rawConn))
	}
}

// handleConn runs a single connection's receive-dispatch loop until
// Receive returns an error (peer disconnect, protocol error) or Shutdown
// closes the listener. Packets are read and dispatched strictly in the
// order they arrive on the wire — never in their own goroutine — since
// Play-state gameplay packets require in-order processing.
func (l *Listener) handleConn(c *conn.Connection) {
	defer l.wg.Done()
	defer c.Close()

	ctx := context.Background()
	for {
		pkt, err := c.Receive(ctx, packet.Server)
		if err != nil {
			if _, ok := err.(*packet.LeftoverInputError); !ok {
				return
			}
		}
		if pkt == nil {
			continue
		}

		handler, ok := l.handlers[c.State()]
		if !ok {
			continue
		}

		dispatch := l.chain(handler.HandlePacket)
		if err := dispatch(ctx, c, *pkt); err != nil {
			return
		}
	}
}

// Shutdown stops accepting new connections and waits for every
// in-flight handleConn goroutine to return, up to timeout.
func (l *Listener) Shutdown(timeout time.Duration) error {
	l.shutdown.Store(true)
	if l.listener != nil {
		l.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("server: timeout waiting for connections to finish")
	}
}
