package conn

import (
	"sync"
	"time"
)

// KeepAliveTracker records outstanding server-initiated keepalive ids,
// mirroring the pending-response-channel pattern the teacher used to
// multiplex concurrent RPC calls over one connection (sync.Map keyed by a
// per-request identifier) — here keyed by the keepalive id rather than a
// request sequence number, and with no response channel since the only
// thing the host needs back is a round-trip latency, not a value.
type KeepAliveTracker struct {
	pending sync.Map // map[int64]time.Time
}

// NewKeepAliveTracker returns an empty tracker.
func NewKeepAliveTracker() *KeepAliveTracker {
	return &KeepAliveTracker{}
}

// Sent records that a keepalive with the given id was just sent.
func (t *KeepAliveTracker) Sent(id int64) {
	t.pending.Store(id, time.Now())
}

// Observe is called when the peer echoes id back. It returns the
// round-trip latency and true if id was outstanding, or false if it
// wasn't (a stray or duplicate echo — the host may treat that as grounds
// to close the connection).
func (t *KeepAliveTracker) Observe(id int64) (time.Duration, bool) {
	v, ok := t.pending.LoadAndDelete(id)
	if !ok {
		return 0, false
	}
	return time.Since(v.(time.Time)), true
}

// Sweep evicts every outstanding id sent more than timeout ago and returns
// them. A host that gets back a non-empty slice should treat the
// connection as dead and force-close it — the client stopped answering
// keepalives.
func (t *KeepAliveTracker) Sweep(timeout time.Duration) []int64 {
	var timedOut []int64
	cutoff := time.Now().Add(-timeout)
	t.pending.Range(func(key, value any) bool {
		if value.(time.Time).Before(cutoff) {
			timedOut = append(timedOut, key.(int64))
		}
		return true
	})
	for _, id := range timedOut {
		t.pending.Delete(id)
	}
	return timedOut
}
