package packet

import (
	"errors"
	"testing"

	"mcproto/buffer"
	"mcproto/nbt"
	"mcproto/protocol"
)

func nbtCompoundFixture() *nbt.Compound {
	c := nbt.NewCompound("")
	c.Add("has_precipitation", nbt.ByteTag(0))
	c.Add("temperature", nbt.FloatTag(0.8))
	return c
}

func encodeFrame(t *testing.T, p *Packet) []byte {
	t.Helper()
	out := buffer.NewOutput()
	if err := EncodePacket(p, out); err != nil {
		t.Fatalf("EncodePacket: %v", err)
	}
	return out.Bytes()
}

func TestHandshakeFrameRoundTrip(t *testing.T) {
	p := New(HandshakeDescriptor, &Handshake{
		ProtocolVersion: 770,
		ServerAddress:   "play.example.com",
		Port:            25565,
		NextState:       2,
	})
	frame := encodeFrame(t, p)

	got, err := DecodeFrame(Handshaking, Server, buffer.NewCursor(frame))
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	hs, ok := got.Payload.(*Handshake)
	if !ok {
		t.Fatalf("payload type = %T, want *Handshake", got.Payload)
	}
	if hs.ProtocolVersion != 770 || hs.ServerAddress != "play.example.com" || hs.Port != 25565 || hs.NextState != 2 {
		t.Fatalf("round trip mismatch: %+v", hs)
	}
}

func TestSharedIDResolvesDifferentSchemasPerStateDirection(t *testing.T) {
	cases := []struct {
		state     State
		direction Direction
		want      any
	}{
		{Handshaking, Server, &Handshake{}},
		{Status, Server, &StatusRequest{}},
		{Status, Client, &StatusResponse{}},
		{Login, Server, &LoginStart{}},
		{Login, Client, &LoginDisconnect{}},
	}

	for _, tc := range cases {
		desc, ok := Lookup(tc.state, tc.direction, 0x00)
		if !ok {
			t.Fatalf("no descriptor for (%s, %s, 0x00)", tc.state, tc.direction)
		}
		got := desc.New()
		if want := tc.want; wantTypeName(got) != wantTypeName(want) {
			t.Fatalf("(%s, %s, 0x00) resolved to %T, want %T", tc.state, tc.direction, got, want)
		}
	}
}

func wantTypeName(v any) string {
	switch v.(type) {
	case *Handshake:
		return "Handshake"
	case *StatusRequest:
		return "StatusRequest"
	case *StatusResponse:
		return "StatusResponse"
	case *LoginStart:
		return "LoginStart"
	case *LoginDisconnect:
		return "LoginDisconnect"
	default:
		return "unknown"
	}
}

func TestDecodeFrameUnknownPacketID(t *testing.T) {
	out := buffer.NewOutput()
	protocol.EncodeVarInt(out, 1)
	protocol.EncodeVarInt(out, 0x7F)

	_, err := DecodeFrame(Status, Server, buffer.NewCursor(out.Bytes()))
	var unk *UnknownPacketError
	if !errors.As(err, &unk) {
		t.Fatalf("err = %v, want *UnknownPacketError", err)
	}
}

func TestDecodeFrameLeftoverInputIsNonFatal(t *testing.T) {
	body := buffer.NewOutput()
	protocol.EncodeVarInt(body, 0x01) // PingRequest id
	protocol.EncodeInt64(body, 42)
	body.PushByte(0xFF) // trailing garbage

	frame := buffer.NewOutput()
	protocol.EncodeVarInt(frame, int32(body.Len()))
	frame.Merge(body)

	pkt, err := DecodeFrame(Status, Server, buffer.NewCursor(frame.Bytes()))
	var leftover *LeftoverInputError
	if !errors.As(err, &leftover) {
		t.Fatalf("err = %v, want *LeftoverInputError", err)
	}
	if pkt == nil {
		t.Fatal("expected a non-nil packet alongside the leftover-input warning")
	}
	ping, ok := pkt.Payload.(*PingRequest)
	if !ok || ping.Payload != 42 {
		t.Fatalf("payload = %+v, want PingRequest{Payload: 42}", pkt.Payload)
	}
}

func TestDecodeFrameRejectsOversizedLength(t *testing.T) {
	out := buffer.NewOutput()
	protocol.EncodeVarInt(out, MaxFrameLength+1)

	_, err := DecodeFrame(Status, Server, buffer.NewCursor(out.Bytes()))
	var codecErr *protocol.CodecError
	if !errors.As(err, &codecErr) || codecErr.Kind != protocol.KindLengthExceedsBound {
		t.Fatalf("err = %v, want CodecError{Kind: LengthExceedsBound}", err)
	}
}

func TestDecodeFrameMalformedInnerLengthDoesNotDesyncParent(t *testing.T) {
	// A frame whose declared length is correct, but whose inner payload is
	// truncated relative to what the packet schema expects. The parent
	// cursor must still advance by the declared frame length so the next
	// frame in the stream decodes cleanly.
	badFrame := buffer.NewOutput()
	badBody := buffer.NewOutput()
	protocol.EncodeVarInt(badBody, 0x01) // PingRequest id
	badBody.PushByte(0x01)               // only 1 of 8 bytes of the int64 payload
	protocol.EncodeVarInt(badFrame, int32(badBody.Len()))
	badFrame.Merge(badBody)

	goodPacket := New(PingRequestDescriptor, &PingRequest{Payload: 7})
	goodFrame := encodeFrame(t, goodPacket)

	stream := buffer.NewOutput()
	stream.Merge(badFrame)
	stream.ExtendFromSlice(goodFrame)

	cur := buffer.NewCursor(stream.Bytes())
	if _, err := DecodeFrame(Status, Server, cur); err == nil {
		t.Fatal("expected the truncated frame to fail to decode")
	}
	pkt, err := DecodeFrame(Status, Server, cur)
	if err != nil {
		t.Fatalf("second frame failed to decode after a malformed first frame: %v", err)
	}
	ping, ok := pkt.Payload.(*PingRequest)
	if !ok || ping.Payload != 7 {
		t.Fatalf("payload = %+v, want PingRequest{Payload: 7}", pkt.Payload)
	}
}

func TestEncodePacketRejectsOversizedFrame(t *testing.T) {
	p := New(LoginPluginRequestDescriptor, &LoginPluginRequest{
		MessageID: 1,
		Channel:   "oversized",
		Data:      make([]byte, MaxFrameLength+1),
	})
	out := buffer.NewOutput()
	err := EncodePacket(p, out)
	var codecErr *protocol.CodecError
	if !errors.As(err, &codecErr) || codecErr.Kind != protocol.KindLengthExceedsBound {
		t.Fatalf("err = %v, want CodecError{Kind: LengthExceedsBound}", err)
	}
}

func TestLoginSuccessWithSignedPropertyRoundTrip(t *testing.T) {
	p := New(LoginSuccessDescriptor, &LoginSuccess{
		PlayerID: protocol.UUID{0x01},
		Username: "Notch",
		Properties: []LoginProperty{
			{Name: "textures", Value: "base64blob", IsSigned: true, Signature: "sig"},
			{Name: "unsigned", Value: "v"},
		},
	})
	frame := encodeFrame(t, p)

	got, err := DecodeFrame(Login, Client, buffer.NewCursor(frame))
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	ls := got.Payload.(*LoginSuccess)
	if len(ls.Properties) != 2 || ls.Properties[0].Signature != "sig" || ls.Properties[1].IsSigned {
		t.Fatalf("round trip mismatch: %+v", ls.Properties)
	}
}

func TestRegistryDataRoundTripsNBT(t *testing.T) {
	root := nbtCompoundFixture()
	p := New(RegistryDataDescriptor, &RegistryData{
		RegistryID: "minecraft:worldgen/biome",
		Entries: []RegistryEntry{
			{ID: "minecraft:plains", Set: true, Data: root},
			{ID: "minecraft:desert", Set: false},
		},
	})
	frame := encodeFrame(t, p)

	got, err := DecodeFrame(Configuration, Client, buffer.NewCursor(frame))
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	rd := got.Payload.(*RegistryData)
	if len(rd.Entries) != 2 || !rd.Entries[0].Set || rd.Entries[1].Set {
		t.Fatalf("round trip mismatch: %+v", rd.Entries)
	}
	if rd.Entries[0].Data.RootName != "" {
		t.Fatalf("network-framed NBT root name = %q, want empty", rd.Entries[0].Data.RootName)
	}
}
