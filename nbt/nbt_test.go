package nbt

import (
	"reflect"
	"testing"

	"mcproto/buffer"
)

func buildSample() *Compound {
	c := NewCompound("root")
	c.Add("byteVal", ByteTag(5))
	c.Add("intVal", IntTag(-42))
	c.Add("name", StringTag("Steve"))

	list := NewList()
	_ = list.Add(IntTag(1))
	_ = list.Add(IntTag(2))
	_ = list.Add(IntTag(3))
	c.Add("list", list)

	nested := NewCompound("")
	nested.Add("nestedFloat", FloatTag(3.5))
	c.Add("nested", nested)

	return c
}

func TestCompoundNamedRoundTrip(t *testing.T) {
	c := buildSample()
	out := buffer.NewOutput()
	if err := EncodeNamed(out, c); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := DecodeNamed(buffer.NewCursor(out.Bytes()))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(c, got) {
		t.Errorf("round trip mismatch:\n got:  %#v\n want: %#v", got, c)
	}
	if !reflect.DeepEqual(c.Names(), got.Names()) {
		t.Errorf("insertion order not preserved: got %v, want %v", got.Names(), c.Names())
	}
}

func TestCompoundNetworkRootOmitsName(t *testing.T) {
	c := NewCompound("") // network framing never writes a root name
	c.Add("x", IntTag(7))

	out := buffer.NewOutput()
	if err := EncodeNetwork(out, c); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	// type byte (1) + no name length/bytes + one entry + end byte
	// entry: type(1) + nameLen(2) + "x"(1) + payload(4) = 8, plus end(1) = 9
	wantLen := 1 + 9
	if out.Len() != wantLen {
		t.Fatalf("unexpected network framing length: got %d, want %d", out.Len(), wantLen)
	}

	got, err := DecodeNetwork(buffer.NewCursor(out.Bytes()))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(c, got) {
		t.Errorf("round trip mismatch: got %#v, want %#v", got, c)
	}
}

func TestListRejectsEndTag(t *testing.T) {
	list := NewList()
	if err := list.Add(endTag{}); err == nil {
		t.Fatal("expected error adding End tag to a list")
	}
}

func TestListRejectsTypeMismatch(t *testing.T) {
	list := NewList()
	if err := list.Add(IntTag(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := list.Add(StringTag("nope")); err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestNamedRootMustBeCompound(t *testing.T) {
	out := buffer.NewOutput()
	out.PushByte(byte(TagByte)) // not a compound
	_, err := DecodeNamed(buffer.NewCursor(out.Bytes()))
	if err == nil {
		t.Fatal("expected error for non-compound root")
	}
}

func TestArrayTagsRoundTrip(t *testing.T) {
	c := NewCompound("")
	c.Add("bytes", ByteArrayTag{1, 2, 3})
	c.Add("ints", IntArrayTag{100, 200, 300})
	c.Add("longs", LongArrayTag{1 << 40, -1})

	out := buffer.NewOutput()
	if err := EncodeNetwork(out, c); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := DecodeNetwork(buffer.NewCursor(out.Bytes()))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(c, got) {
		t.Errorf("round trip mismatch: got %#v, want %#v", got, c)
	}
}
