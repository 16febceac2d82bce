package packet

import (
	"mcproto/buffer"
	"mcproto/protocol"
)

// LoginStart begins authentication: the client declares a username and
// (in modern protocol versions) the UUID it expects to play under.
type LoginStart struct {
	Username string
	PlayerID protocol.UUID
}

func (p *LoginStart) Encode(out *buffer.Output) error {
	protocol.EncodeString(out, p.Username)
	protocol.EncodeUUID(out, p.PlayerID)
	return nil
}

func (p *LoginStart) Decode(c *buffer.Cursor) error {
	var err error
	if p.Username, err = protocol.DecodeString(c, 16); err != nil {
		return err
	}
	if p.PlayerID, err = protocol.DecodeUUID(c); err != nil {
		return err
	}
	return nil
}

var LoginStartDescriptor = Register(Descriptor{
	Name:      "LoginStart",
	ID:        0x00,
	State:     Login,
	Direction: Server,
	New:       func() Payload { return &LoginStart{} },
})

// EncryptionResponse carries the client's RSA-encrypted shared secret and
// verify token. Decrypting and validating them is a LoginProvider
// collaborator concern (spec.md §6) — this packet only moves the bytes.
type EncryptionResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
}

func (p *EncryptionResponse) Encode(out *buffer.Output) error {
	protocol.EncodeByteArray(out, p.SharedSecret)
	protocol.EncodeByteArray(out, p.VerifyToken)
	return nil
}

func (p *EncryptionResponse) Decode(c *buffer.Cursor) error {
	var err error
	if p.SharedSecret, err = protocol.DecodeByteArray(c, 512); err != nil {
		return err
	}
	if p.VerifyToken, err = protocol.DecodeByteArray(c, 512); err != nil {
		return err
	}
	return nil
}

var EncryptionResponseDescriptor = Register(Descriptor{
	Name:      "EncryptionResponse",
	ID:        0x01,
	State:     Login,
	Direction: Server,
	New:       func() Payload { return &EncryptionResponse{} },
})

// LoginPluginResponse answers a server-issued LoginPluginRequest. Data is
// only present when Successful is true.
type LoginPluginResponse struct {
	MessageID  int32
	Successful bool
	Data       []byte
}

func (p *LoginPluginResponse) Encode(out *buffer.Output) error {
	protocol.EncodeVarInt(out, p.MessageID)
	protocol.EncodeBool(out, p.Successful)
	if p.Successful {
		out.ExtendFromSlice(p.Data)
	}
	return nil
}

func (p *LoginPluginResponse) Decode(c *buffer.Cursor) error {
	var err error
	if p.MessageID, err = protocol.DecodeVarInt(c); err != nil {
		return err
	}
	if p.Successful, err = protocol.DecodeBool(c); err != nil {
		return err
	}
	if p.Successful {
		// Length is implied by the remaining bytes of the frame, the same
		// "inferred from packet length" pattern as plugin messages.
		p.Data, err = c.Take(c.Remaining())
		if err != nil {
			return err
		}
	}
	return nil
}

var LoginPluginResponseDescriptor = Register(Descriptor{
	Name:      "LoginPluginResponse",
	ID:        0x02,
	State:     Login,
	Direction: Server,
	New:       func() Payload { return &LoginPluginResponse{} },
})

// LoginAcknowledged has no fields; receiving it is what the connection-level
// state machine treats as the Login → Configuration transition trigger.
type LoginAcknowledged struct{}

func (*LoginAcknowledged) Encode(*buffer.Output) error { return nil }
func (*LoginAcknowledged) Decode(*buffer.Cursor) error { return nil }

var LoginAcknowledgedDescriptor = Register(Descriptor{
	Name:      "LoginAcknowledged",
	ID:        0x03,
	State:     Login,
	Direction: Server,
	New:       func() Payload { return &LoginAcknowledged{} },
})

// LoginDisconnect carries a JSON chat-component reason, shares id 0x00
// with LoginStart because they occupy different directions.
type LoginDisconnect struct {
	Reason string
}

func (p *LoginDisconnect) Encode(out *buffer.Output) error {
	protocol.EncodeString(out, p.Reason)
	return nil
}

func (p *LoginDisconnect) Decode(c *buffer.Cursor) error {
	s, err := protocol.DecodeString(c, protocol.DefaultMaxStringLength)
	if err != nil {
		return err
	}
	p.Reason = s
	return nil
}

var LoginDisconnectDescriptor = Register(Descriptor{
	Name:      "LoginDisconnect",
	ID:        0x00,
	State:     Login,
	Direction: Client,
	New:       func() Payload { return &LoginDisconnect{} },
})

// EncryptionRequest is issued by a LoginProvider that wants to establish an
// encrypted session before accepting LoginStart's claimed identity.
type EncryptionRequest struct {
	ServerID           string
	PublicKey          []byte
	VerifyToken        []byte
	ShouldAuthenticate bool
}

func (p *EncryptionRequest) Encode(out *buffer.Output) error {
	protocol.EncodeString(out, p.ServerID)
	protocol.EncodeByteArray(out, p.PublicKey)
	protocol.EncodeByteArray(out, p.VerifyToken)
	protocol.EncodeBool(out, p.ShouldAuthenticate)
	return nil
}

func (p *EncryptionRequest) Decode(c *buffer.Cursor) error {
	var err error
	if p.ServerID, err = protocol.DecodeString(c, 20); err != nil {
		return err
	}
	if p.PublicKey, err = protocol.DecodeByteArray(c, 512); err != nil {
		return err
	}
	if p.VerifyToken, err = protocol.DecodeByteArray(c, 512); err != nil {
		return err
	}
	if p.ShouldAuthenticate, err = protocol.DecodeBool(c); err != nil {
		return err
	}
	return nil
}

var EncryptionRequestDescriptor = Register(Descriptor{
	Name:      "EncryptionRequest",
	ID:        0x01,
	State:     Login,
	Direction: Client,
	New:       func() Payload { return &EncryptionRequest{} },
})

// LoginProperty is one signed profile property (e.g. "textures") inside
// LoginSuccess.
type LoginProperty struct {
	Name      string
	Value     string
	Signature string
	IsSigned  bool
}

// LoginSuccess finalizes authentication; receiving it on the client side
// (or, here, sending it) is what moves the connection from Login to
// Configuration once the client answers with LoginAcknowledged.
type LoginSuccess struct {
	PlayerID   protocol.UUID
	Username   string
	Properties []LoginProperty
}

func (p *LoginSuccess) Encode(out *buffer.Output) error {
	protocol.EncodeUUID(out, p.PlayerID)
	protocol.EncodeString(out, p.Username)
	protocol.EncodeVarInt(out, int32(len(p.Properties)))
	for _, prop := range p.Properties {
		protocol.EncodeString(out, prop.Name)
		protocol.EncodeString(out, prop.Value)
		protocol.EncodeBool(out, prop.IsSigned)
		if prop.IsSigned {
			protocol.EncodeString(out, prop.Signature)
		}
	}
	return nil
}

func (p *LoginSuccess) Decode(c *buffer.Cursor) error {
	var err error
	if p.PlayerID, err = protocol.DecodeUUID(c); err != nil {
		return err
	}
	if p.Username, err = protocol.DecodeString(c, 16); err != nil {
		return err
	}
	count, err := protocol.DecodeVarInt(c)
	if err != nil {
		return err
	}
	if count < 0 || count > 1024 {
		return &protocol.CodecError{Kind: protocol.KindLengthExceedsBound, Detail: "login success property count exceeds bound"}
	}
	p.Properties = make([]LoginProperty, count)
	for i := range p.Properties {
		prop := &p.Properties[i]
		if prop.Name, err = protocol.DecodeString(c, protocol.DefaultMaxStringLength); err != nil {
			return err
		}
		if prop.Value, err = protocol.DecodeString(c, protocol.DefaultMaxStringLength); err != nil {
			return err
		}
		if prop.IsSigned, err = protocol.DecodeBool(c); err != nil {
			return err
		}
		if prop.IsSigned {
			if prop.Signature, err = protocol.DecodeString(c, protocol.DefaultMaxStringLength); err != nil {
				return err
			}
		}
	}
	return nil
}

var LoginSuccessDescriptor = Register(Descriptor{
	Name:      "LoginSuccess",
	ID:        0x02,
	State:     Login,
	Direction: Client,
	New:       func() Payload { return &LoginSuccess{} },
})

// SetCompression installs the compression threshold described in
// spec.md §6; the host calls conn.Connection.EnableCompression with the
// same value it sends here.
type SetCompression struct {
	Threshold int32
}

func (p *SetCompression) Encode(out *buffer.Output) error {
	protocol.EncodeVarInt(out, p.Threshold)
	return nil
}

func (p *SetCompression) Decode(c *buffer.Cursor) error {
	v, err := protocol.DecodeVarInt(c)
	if err != nil {
		return err
	}
	p.Threshold = v
	return nil
}

var SetCompressionDescriptor = Register(Descriptor{
	Name:      "SetCompression",
	ID:        0x03,
	State:     Login,
	Direction: Client,
	New:       func() Payload { return &SetCompression{} },
})

// LoginPluginRequest lets a server ask a modded client a question during
// login, before the world is even loaded.
type LoginPluginRequest struct {
	MessageID int32
	Channel   string
	Data      []byte
}

func (p *LoginPluginRequest) Encode(out *buffer.Output) error {
	protocol.EncodeVarInt(out, p.MessageID)
	protocol.EncodeString(out, p.Channel)
	out.ExtendFromSlice(p.Data)
	return nil
}

func (p *LoginPluginRequest) Decode(c *buffer.Cursor) error {
	var err error
	if p.MessageID, err = protocol.DecodeVarInt(c); err != nil {
		return err
	}
	if p.Channel, err = protocol.DecodeString(c, protocol.DefaultMaxStringLength); err != nil {
		return err
	}
	p.Data, err = c.Take(c.Remaining())
	return err
}

var LoginPluginRequestDescriptor = Register(Descriptor{
	Name:      "LoginPluginRequest",
	ID:        0x04,
	State:     Login,
	Direction: Client,
	New:       func() Payload { return &LoginPluginRequest{} },
})
