// Package packet implements the typed-packet registry and length-prefixed
// frame codec: mapping (PacketState, PacketDirection, packet id) to a
// concrete payload schema, and reading/writing the wire frames that carry
// them.
//
// Every concrete packet in this module declares its schema the way the
// reference implementation's packet-definition macro does — name, numeric
// id, state, direction, field list — except here the declaration is data
// (a Descriptor registered at package init) rather than generated code,
// since Go has no macro system to synthesize the encode/decode pair the
// way the source's `packets!` macro does. See DESIGN.md.
package packet

import "fmt"

// State is one of the five protocol states a Connection can be in. Each
// state has its own packet-id numbering per direction — the same id means
// different things in different states, which is why lookups always key
// on the (State, Direction, id) triple rather than id alone.
type State uint8

const (
	Handshaking State = iota
	Status
	Login
	Configuration
	Play
)

func (s State) String() string {
	switch s {
	case Handshaking:
		return "Handshaking"
	case Status:
		return "Status"
	case Login:
		return "Login"
	case Configuration:
		return "Configuration"
	case Play:
		return "Play"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// FromID resolves the single-byte PacketState id sent as the Handshake's
// next_state field. Only Status and Login are reachable this way — every
// other state transition is driven by higher-level control flow reacting
// to specific packets (LoginSuccess, FinishConfiguration), not a raw id.
func FromID(id uint8) (State, bool) {
	switch id {
	case 1:
		return Status, true
	case 2:
		return Login, true
	default:
		return 0, false
	}
}

// ID returns the single-byte id for states reachable via Handshake's
// next_state, and false for states that aren't (Handshaking, Configuration,
// Play — those are never a next_state target).
func (s State) ID() (uint8, bool) {
	switch s {
	case Status:
		return 1, true
	case Login:
		return 2, true
	default:
		return 0, false
	}
}

// Direction is the travel direction of a packet relative to the server
// this library implements: Server means client-to-server (inbound, what
// Connection.Receive decodes), Client means server-to-client (outbound,
// what Connection.Send encodes).
type Direction uint8

const (
	Server Direction = iota
	Client
	Bidirectional
)

func (d Direction) String() string {
	switch d {
	case Server:
		return "Server"
	case Client:
		return "Client"
	case Bidirectional:
		return "Bidirectional"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}
