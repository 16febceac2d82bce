package nbt

import "mcproto/buffer"
import "mcproto/protocol"

// List is an ordered, homogeneously-typed sequence of tags. ElemType is
// TagEnd until the first element is added, matching the reference
// implementation; a non-empty list may never carry ElemType TagEnd.
type List struct {
	ElemType TypeID
	Elems    []Tag
}

// NewList returns an empty list with no element type committed yet.
func NewList() *List {
	return &List{ElemType: TagEnd}
}

func (*List) ID() TypeID { return TagList }

// Add appends a tag, committing the list's element type on the first
// call and rejecting type mismatches and End tags on every call.
func (l *List) Add(tag Tag) error {
	if tag.ID() == TagEnd {
		return errf("TAG_End not allowed in an NBT list")
	}
	if l.ElemType == TagEnd {
		l.ElemType = tag.ID()
	} else if l.ElemType != tag.ID() {
		return errf("type mismatch in NBT list: list is %s, got %s", l.ElemType, tag.ID())
	}
	l.Elems = append(l.Elems, tag)
	return nil
}

func (l *List) encodePayload(out *buffer.Output) error {
	out.PushByte(byte(l.ElemType))
	protocol.EncodeInt32(out, int32(len(l.Elems)))
	for _, tag := range l.Elems {
		if err := tag.encodePayload(out); err != nil {
			return err
		}
	}
	return nil
}

func decodeList(c *buffer.Cursor) (*List, error) {
	typeByte, err := c.TakeByte()
	if err != nil {
		return nil, errf("list type byte truncated: %v", err)
	}
	elemType := TypeID(typeByte)

	length, err := protocol.DecodeInt32(c)
	if err != nil {
		return nil, err
	}
	if elemType == TagEnd && length > 0 {
		return nil, errf("list element type cannot be End when length is positive")
	}

	list := &List{ElemType: elemType}
	for i := int32(0); i < length; i++ {
		tag, err := decodeTagPayload(c, elemType)
		if err != nil {
			return nil, err
		}
		list.Elems = append(list.Elems, tag)
	}
	return list, nil
}
