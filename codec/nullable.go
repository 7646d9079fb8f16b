package codec

import (
	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// nullableCodec writes one flag byte per row (1 = null, 0 = present)
// followed by the inner type's dense encoding of all rows, null rows
// holding the inner zero placeholder.
type nullableCodec struct {
	typ   string
	inner Codec
}

func (c *nullableCodec) Type() string      { return c.typ }
func (c *nullableCodec) Children() []Codec { return []Codec{c.inner} }
func (c *nullableCodec) Zero() any         { return nil }

func (c *nullableCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

// placeholderColumn substitutes the inner zero for null rows so the inner
// codec sees a dense column.
type placeholderColumn struct {
	src  column.Column
	zero any
}

func (p *placeholderColumn) Type() string { return p.src.Type() }
func (p *placeholderColumn) Len() int     { return p.src.Len() }

func (p *placeholderColumn) Get(i int) any {
	if v := p.src.Get(i); v != nil {
		return v
	}
	return p.zero
}

func (c *nullableCodec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		if col.Get(i) == nil {
			b.WriteUint8(1)
		} else {
			b.WriteUint8(0)
		}
	}
	return c.inner.Encode(b, &placeholderColumn{src: col, zero: c.inner.Zero()})
}

func (c *nullableCodec) DecodeDense(r *wire.Reader, rows int, st *DecodeState) (column.Column, error) {
	flags, err := r.ReadN(rows)
	if err != nil {
		return nil, err
	}
	nulls := make([]bool, rows)
	for i, f := range flags {
		nulls[i] = f != 0
	}
	inner, err := decodeChild(c, 0, r, rows, st)
	if err != nil {
		return nil, err
	}
	return column.NewNullable(c.typ, nulls, inner), nil
}
