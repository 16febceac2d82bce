package packet

import (
	"mcproto/buffer"
	"mcproto/nbt"
	"mcproto/protocol"
)

// ClientInformation tells the server the client's locale, view distance and
// other display preferences. The server never validates these, it just
// remembers them to decide what to send later.
type ClientInformation struct {
	Locale              string
	ViewDistance        int8
	ChatMode            int32
	ChatColors          bool
	DisplayedSkinParts  uint8
	MainHand            int32
	EnableTextFiltering bool
	AllowServerListing  bool
}

func (p *ClientInformation) Encode(out *buffer.Output) error {
	protocol.EncodeString(out, p.Locale)
	protocol.EncodeInt8(out, p.ViewDistance)
	protocol.EncodeVarInt(out, p.ChatMode)
	protocol.EncodeBool(out, p.ChatColors)
	protocol.EncodeUint8(out, p.DisplayedSkinParts)
	protocol.EncodeVarInt(out, p.MainHand)
	protocol.EncodeBool(out, p.EnableTextFiltering)
	protocol.EncodeBool(out, p.AllowServerListing)
	return nil
}

func (p *ClientInformation) Decode(c *buffer.Cursor) error {
	var err error
	if p.Locale, err = protocol.DecodeString(c, 16); err != nil {
		return err
	}
	if p.ViewDistance, err = protocol.DecodeInt8(c); err != nil {
		return err
	}
	if p.ChatMode, err = protocol.DecodeVarInt(c); err != nil {
		return err
	}
	if p.ChatColors, err = protocol.DecodeBool(c); err != nil {
		return err
	}
	if p.DisplayedSkinParts, err = protocol.DecodeUint8(c); err != nil {
		return err
	}
	if p.MainHand, err = protocol.DecodeVarInt(c); err != nil {
		return err
	}
	if p.EnableTextFiltering, err = protocol.DecodeBool(c); err != nil {
		return err
	}
	if p.AllowServerListing, err = protocol.DecodeBool(c); err != nil {
		return err
	}
	return nil
}

var ClientInformationDescriptor = Register(Descriptor{
	Name:      "ClientInformation",
	ID:        0x00,
	State:     Configuration,
	Direction: Server,
	New:       func() Payload { return &ClientInformation{} },
})

// pluginMessage is the shared shape of every plugin-channel packet in every
// state: an Identifier channel name and an opaque, rest-of-packet payload.
type pluginMessage struct {
	Channel string
	Data    []byte
}

func (p *pluginMessage) Encode(out *buffer.Output) error {
	protocol.EncodeString(out, p.Channel)
	out.ExtendFromSlice(p.Data)
	return nil
}

func (p *pluginMessage) Decode(c *buffer.Cursor) error {
	var err error
	if p.Channel, err = protocol.DecodeString(c, protocol.DefaultMaxStringLength); err != nil {
		return err
	}
	p.Data, err = c.Take(c.Remaining())
	return err
}

// ServerboundPluginMessage forwards mod/plugin traffic the core protocol
// doesn't interpret; a host's PacketHandler decides what Channel means.
type ServerboundPluginMessage struct{ pluginMessage }

var ServerboundPluginMessageDescriptor = Register(Descriptor{
	Name:      "ServerboundPluginMessage",
	ID:        0x02,
	State:     Configuration,
	Direction: Server,
	New:       func() Payload { return &ServerboundPluginMessage{} },
})

// AcknowledgeFinishConfiguration is the client's reply to FinishConfiguration,
// the trigger that moves the connection from Configuration to Play.
type AcknowledgeFinishConfiguration struct{}

func (*AcknowledgeFinishConfiguration) Encode(*buffer.Output) error { return nil }
func (*AcknowledgeFinishConfiguration) Decode(*buffer.Cursor) error { return nil }

var AcknowledgeFinishConfigurationDescriptor = Register(Descriptor{
	Name:      "AcknowledgeFinishConfiguration",
	ID:        0x03,
	State:     Configuration,
	Direction: Server,
	New:       func() Payload { return &AcknowledgeFinishConfiguration{} },
})

// keepAlive is the shared shape of every keep-alive packet across states: an
// opaque 8-byte id that must be echoed back within the host's configured
// timeout or the connection is considered dead.
type keepAlive struct {
	ID int64
}

func (p *keepAlive) Encode(out *buffer.Output) error {
	protocol.EncodeInt64(out, p.ID)
	return nil
}

func (p *keepAlive) Decode(c *buffer.Cursor) error {
	v, err := protocol.DecodeInt64(c)
	if err != nil {
		return err
	}
	p.ID = v
	return nil
}

type ServerboundKeepAlive struct{ keepAlive }

var ServerboundKeepAliveDescriptor = Register(Descriptor{
	Name:      "ServerboundKeepAlive",
	ID:        0x04,
	State:     Configuration,
	Direction: Server,
	New:       func() Payload { return &ServerboundKeepAlive{} },
})

// ServerboundPong answers a ClientboundPing; unlike keep-alive, the id
// carries no liveness meaning the host is required to check.
type ServerboundPong struct {
	ID int32
}

func (p *ServerboundPong) Encode(out *buffer.Output) error {
	protocol.EncodeInt32(out, p.ID)
	return nil
}

func (p *ServerboundPong) Decode(c *buffer.Cursor) error {
	v, err := protocol.DecodeInt32(c)
	if err != nil {
		return err
	}
	p.ID = v
	return nil
}

var ServerboundPongDescriptor = Register(Descriptor{
	Name:      "ServerboundPong",
	ID:        0x05,
	State:     Configuration,
	Direction: Server,
	New:       func() Payload { return &ServerboundPong{} },
})

// ClientboundPluginMessage is the Client-direction twin of
// ServerboundPluginMessage; same wire shape, different registry slot.
type ClientboundPluginMessage struct{ pluginMessage }

var ClientboundPluginMessageDescriptor = Register(Descriptor{
	Name:      "ClientboundPluginMessage",
	ID:        0x01,
	State:     Configuration,
	Direction: Client,
	New:       func() Payload { return &ClientboundPluginMessage{} },
})

// Disconnect carries a JSON chat-component reason, sent by the server to
// end the connection during Configuration.
type Disconnect struct {
	Reason string
}

func (p *Disconnect) Encode(out *buffer.Output) error {
	protocol.EncodeString(out, p.Reason)
	return nil
}

func (p *Disconnect) Decode(c *buffer.Cursor) error {
	s, err := protocol.DecodeString(c, protocol.DefaultMaxStringLength)
	if err != nil {
		return err
	}
	p.Reason = s
	return nil
}

var DisconnectDescriptor = Register(Descriptor{
	Name:      "Disconnect",
	ID:        0x02,
	State:     Configuration,
	Direction: Client,
	New:       func() Payload { return &Disconnect{} },
})

// FinishConfiguration has no fields; sending it is what a host uses to ask
// the client to acknowledge and move to Play.
type FinishConfiguration struct{}

func (*FinishConfiguration) Encode(*buffer.Output) error { return nil }
func (*FinishConfiguration) Decode(*buffer.Cursor) error { return nil }

var FinishConfigurationDescriptor = Register(Descriptor{
	Name:      "FinishConfiguration",
	ID:        0x03,
	State:     Configuration,
	Direction: Client,
	New:       func() Payload { return &FinishConfiguration{} },
})

type ClientboundKeepAlive struct{ keepAlive }

var ClientboundKeepAliveDescriptor = Register(Descriptor{
	Name:      "ClientboundKeepAlive",
	ID:        0x04,
	State:     Configuration,
	Direction: Client,
	New:       func() Payload { return &ClientboundKeepAlive{} },
})

// ClientboundPing expects a ServerboundPong echoing the same id; used to
// verify the client is still processing configuration packets.
type ClientboundPing struct {
	ID int32
}

func (p *ClientboundPing) Encode(out *buffer.Output) error {
	protocol.EncodeInt32(out, p.ID)
	return nil
}

func (p *ClientboundPing) Decode(c *buffer.Cursor) error {
	v, err := protocol.DecodeInt32(c)
	if err != nil {
		return err
	}
	p.ID = v
	return nil
}

var ClientboundPingDescriptor = Register(Descriptor{
	Name:      "ClientboundPing",
	ID:        0x05,
	State:     Configuration,
	Direction: Client,
	New:       func() Payload { return &ClientboundPing{} },
})

// RegistryData streams one NBT-encoded registry (biomes, dimension types,
// damage types, ...) the client needs before Play begins. The host supplies
// each entry's data as an *nbt.Compound; this packet encodes and decodes it
// with the network NBT framing, behind a registry-id Identifier.
type RegistryData struct {
	RegistryID string
	Entries    []RegistryEntry
}

// RegistryEntry is one named element of a registry, with an optional NBT
// payload overriding the client's built-in default data for that id. NBT
// is self-delimiting (a Compound reads until its End tag), so entries can
// follow each other on the wire with no per-entry length prefix.
type RegistryEntry struct {
	ID   string
	Data *nbt.Compound
	Set  bool
}

func (p *RegistryData) Encode(out *buffer.Output) error {
	protocol.EncodeString(out, p.RegistryID)
	protocol.EncodeVarInt(out, int32(len(p.Entries)))
	for _, entry := range p.Entries {
		protocol.EncodeString(out, entry.ID)
		protocol.EncodeBool(out, entry.Set)
		if entry.Set {
			if err := nbt.EncodeNetwork(out, entry.Data); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *RegistryData) Decode(c *buffer.Cursor) error {
	var err error
	if p.RegistryID, err = protocol.DecodeString(c, protocol.DefaultMaxStringLength); err != nil {
		return err
	}
	count, err := protocol.DecodeVarInt(c)
	if err != nil {
		return err
	}
	if count < 0 || count > 65536 {
		return &protocol.CodecError{Kind: protocol.KindLengthExceedsBound, Detail: "registry data entry count exceeds bound"}
	}
	p.Entries = make([]RegistryEntry, count)
	for i := range p.Entries {
		entry := &p.Entries[i]
		if entry.ID, err = protocol.DecodeString(c, protocol.DefaultMaxStringLength); err != nil {
			return err
		}
		if entry.Set, err = protocol.DecodeBool(c); err != nil {
			return err
		}
		if entry.Set {
			if entry.Data, err = nbt.DecodeNetwork(c); err != nil {
				return err
			}
		}
	}
	return nil
}

var RegistryDataDescriptor = Register(Descriptor{
	Name:      "RegistryData",
	ID:        0x07,
	State:     Configuration,
	Direction: Client,
	New:       func() Payload { return &RegistryData{} },
})
