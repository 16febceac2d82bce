package nbt

import (
	"mcproto/buffer"
	"mcproto/protocol"
)

// entry is one insertion-ordered (name, tag) pair inside a Compound.
type entry struct {
	name string
	tag  Tag
}

// Compound is an insertion-ordered mapping from name to Tag, plus a root
// name that is only meaningful (and only encoded) for the named-root
// framing — the network framing omits it entirely. Insertion order is
// preserved on encode even though the NBT format does not require it,
// matching the reference implementation's IndexMap-backed compound.
type Compound struct {
	RootName string
	entries  []entry
	index    map[string]int
}

// NewCompound returns an empty compound with the given root name (pass ""
// for the network framing, where the root name is never written).
func NewCompound(rootName string) *Compound {
	return &Compound{RootName: rootName, index: make(map[string]int)}
}

func (*Compound) ID() TypeID { return TagCompound }

// Add inserts or overwrites a named tag, preserving original insertion
// position on overwrite (matching the IndexMap semantics it's grounded on).
func (c *Compound) Add(name string, tag Tag) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[name]; ok {
		c.entries[i].tag = tag
		return
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, entry{name: name, tag: tag})
}

// Remove deletes a named tag, if present.
func (c *Compound) Remove(name string) {
	i, ok := c.index[name]
	if !ok {
		return
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	delete(c.index, name)
	for name, idx := range c.index {
		if idx > i {
			c.index[name] = idx - 1
		}
	}
}

// Get returns the tag stored under name, if any.
func (c *Compound) Get(name string) (Tag, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.entries[i].tag, true
}

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.entries) }

// Names returns the entry names in insertion order.
func (c *Compound) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}
	return names
}

func (c *Compound) encodePayload(out *buffer.Output) error {
	return c.serializeEntries(out)
}

func (c *Compound) serializeEntries(out *buffer.Output) error {
	for _, e := range c.entries {
		out.PushByte(byte(e.tag.ID()))
		protocol.EncodeUint16(out, uint16(len(e.name)))
		out.ExtendFromSlice([]byte(e.name))
		if err := e.tag.encodePayload(out); err != nil {
			return err
		}
	}
	out.PushByte(byte(TagEnd))
	return nil
}

// decodeCompoundBody reads entries until a TAG_End byte, per spec.md §4.2.
// rootName is attached to the result as-is (the caller is responsible for
// having already consumed any root-name bytes from the outer framing).
func decodeCompoundBody(c *buffer.Cursor, rootName string) (*Compound, error) {
	compound := NewCompound(rootName)
	for {
		typeByte, err := c.TakeByte()
		if err != nil {
			return nil, errf("compound entry type byte truncated: %v", err)
		}
		if TypeID(typeByte) == TagEnd {
			return compound, nil
		}

		nameLen, err := protocol.DecodeUint16(c)
		if err != nil {
			return nil, err
		}
		nameBytes, err := c.Take(int(nameLen))
		if err != nil {
			return nil, errf("compound entry name truncated: %v", err)
		}

		tag, err := decodeTagPayload(c, TypeID(typeByte))
		if err != nil {
			return nil, err
		}
		compound.Add(string(nameBytes), tag)
	}
}
