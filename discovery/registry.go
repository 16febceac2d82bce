// Package discovery defines the server-announcement interface and data
// types, generalized from the teacher's service registry: a Minecraft
// server announces itself (address, the protocol version it speaks, its
// MOTD) in a shared registry so a proxy or multi-server gateway can find
// and route to it, the same "how does the client find the server" problem
// the teacher solved with etcd-backed RPC service discovery.
package discovery

// ServerInstance describes one running, announced server.
type ServerInstance struct {
	Addr     string // Network address, e.g., "127.0.0.1:25565"
	Protocol int32  // Protocol version this instance speaks (see package version)
	MOTD     string // Message of the day shown to clients that query the registry
}

// Registry is the interface for server announcement and discovery.
// Implementations include EtcdRegistry (production) and any test double a
// caller supplies.
type Registry interface {
	// Announce adds a server instance to the registry with a TTL lease.
	// The entry is automatically removed if KeepAlive stops (e.g. the
	// server process crashes without a graceful Withdraw).
	Announce(name string, instance ServerInstance, ttl int64) error

	// Withdraw removes a server instance from the registry. Called
	// during graceful shutdown before closing the listener.
	Withdraw(name string, addr string) error

	// Discover returns the currently announced instances for name that
	// speak a protocol version this library recognizes, ordered newest
	// release first so a caller that just takes the head of the slice
	// gets the most capable available backend.
	Discover(name string) ([]ServerInstance, error)

	// Watch returns a channel that emits the updated instance list
	// whenever name's instances change.
	Watch(name string) <-chan []ServerInstance
}
