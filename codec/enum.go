package codec

import (
	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/typedesc"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// enumCodec covers Enum8 and Enum16: the member value stored at the
// declared width, exposed to callers as the member name. Encode accepts
// either a name or a numeric member value.
type enumCodec struct {
	typ     string
	wide    bool // Enum16
	byName  map[string]int
	byValue map[int]string
	first   string
}

func newEnumCodec(typ string, wide bool, members []typedesc.Member) (*enumCodec, error) {
	if len(members) == 0 {
		return nil, formatErr(typ, "enum needs at least one member")
	}
	c := &enumCodec{
		typ:     typ,
		wide:    wide,
		byName:  make(map[string]int, len(members)),
		byValue: make(map[int]string, len(members)),
		first:   members[0].Name,
	}
	min, max := -128, 127
	if wide {
		min, max = -32768, 32767
	}
	for _, m := range members {
		if m.Value < min || m.Value > max {
			return nil, formatErr(typ, "member %q = %d outside the declared width", m.Name, m.Value)
		}
		c.byName[m.Name] = m.Value
		c.byValue[m.Value] = m.Name
	}
	return c, nil
}

func (c *enumCodec) Type() string      { return c.typ }
func (c *enumCodec) Children() []Codec { return nil }
func (c *enumCodec) Zero() any         { return c.first }

func (c *enumCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *enumCodec) memberValue(v any) (int, error) {
	if s, ok := v.(string); ok {
		n, ok := c.byName[s]
		if !ok {
			return 0, &numeric.CoercionError{Type: c.typ, Value: v, Reason: "unknown enum member"}
		}
		return n, nil
	}
	n, err := numeric.Int64Value(c.typ, v, -32768, 32767)
	if err != nil {
		return 0, err
	}
	if _, ok := c.byValue[int(n)]; !ok {
		return 0, &numeric.CoercionError{Type: c.typ, Value: v, Reason: "unknown enum value"}
	}
	return int(n), nil
}

func (c *enumCodec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		n, err := c.memberValue(col.Get(i))
		if err != nil {
			return err
		}
		if c.wide {
			b.WriteInt16(int16(n))
		} else {
			b.WriteInt8(int8(n))
		}
	}
	return nil
}

func (c *enumCodec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	data := make([]string, rows)
	for i := range data {
		var n int
		if c.wide {
			v, err := r.ReadInt16()
			if err != nil {
				return nil, err
			}
			n = int(v)
		} else {
			v, err := r.ReadInt8()
			if err != nil {
				return nil, err
			}
			n = int(v)
		}
		name, ok := c.byValue[n]
		if !ok {
			return nil, formatErr(c.typ, "wire value %d is not a declared member", n)
		}
		data[i] = name
	}
	return column.NewStrings(c.typ, data), nil
}
