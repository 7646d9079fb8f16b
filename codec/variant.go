package codec

import (
	"fmt"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// variantCodec is the tagged-union codec: one discriminator byte per row
// (NullDiscr for null), then for each tag that occurs at least once a
// contiguous group of only that tag's rows, in discriminator order.
type variantCodec struct {
	typ      string
	subtypes []Codec
}

func newVariantCodec(typ string, subtypes []Codec) (*variantCodec, error) {
	if len(subtypes) == 0 || len(subtypes) >= column.NullDiscr {
		return nil, &FormatError{Type: typ, Msg: fmt.Sprintf("variant arity %d out of range", len(subtypes))}
	}
	return &variantCodec{typ: typ, subtypes: subtypes}, nil
}

func (c *variantCodec) Type() string      { return c.typ }
func (c *variantCodec) Zero() any         { return nil }
func (c *variantCodec) Children() []Codec { return c.subtypes }

func (c *variantCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

// discrOf resolves a row value to its discriminator. Tagged values name
// their subtype directly; raw values take the first subtype whose codec
// accepts them.
func (c *variantCodec) discrOf(v any) (uint8, any, error) {
	if v == nil {
		return column.NullDiscr, nil, nil
	}
	if t, ok := v.(Tagged); ok {
		if int(t.Discr) < len(c.subtypes) && c.subtypes[t.Discr].Type() == t.Type {
			return t.Discr, t.Value, nil
		}
		for i, sub := range c.subtypes {
			if sub.Type() == t.Type {
				return uint8(i), t.Value, nil
			}
		}
		return 0, nil, &numeric.CoercionError{Type: c.typ, Value: t.Type, Reason: "not a declared variant subtype"}
	}
	var scratch wire.Buffer
	for i, sub := range c.subtypes {
		one, err := sub.FromValues([]any{v})
		if err != nil {
			continue
		}
		scratch.Reset()
		if sub.Encode(&scratch, one) == nil {
			return uint8(i), v, nil
		}
	}
	return 0, nil, &numeric.CoercionError{Type: c.typ, Value: v, Reason: "no variant subtype accepts the value"}
}

func (c *variantCodec) Encode(b *wire.Buffer, col column.Column) error {
	rows := col.Len()
	groups := make([][]any, len(c.subtypes))
	for i := 0; i < rows; i++ {
		discr, v, err := c.discrOf(col.Get(i))
		if err != nil {
			return err
		}
		b.WriteUint8(discr)
		if discr != column.NullDiscr {
			groups[discr] = append(groups[discr], v)
		}
	}
	for tag, vals := range groups {
		if len(vals) == 0 {
			continue
		}
		sub := c.subtypes[tag]
		gcol, err := sub.FromValues(vals)
		if err != nil {
			return err
		}
		if err := sub.Encode(b, gcol); err != nil {
			return err
		}
	}
	return nil
}

func (c *variantCodec) DecodeDense(r *wire.Reader, rows int, st *DecodeState) (column.Column, error) {
	discrs, counts, groupRow, err := readDiscriminators(c.typ, r, rows, len(c.subtypes))
	if err != nil {
		return nil, err
	}
	groups := make([]column.Column, len(c.subtypes))
	typeOf := make([]string, len(c.subtypes))
	for tag, sub := range c.subtypes {
		typeOf[tag] = sub.Type()
		if counts[tag] == 0 {
			continue
		}
		gcol, err := decodeChild(c, tag, r, counts[tag], st)
		if err != nil {
			return nil, err
		}
		groups[tag] = gcol
	}
	return column.NewDiscriminated(c.typ, discrs, typeOf, groups, groupRow), nil
}

// readDiscriminators reads one tag byte per row and, in the same pass,
// counts rows per tag and assigns each row its index within its group.
func readDiscriminators(typ string, r *wire.Reader, rows, arity int) (discrs []uint8, counts []int, groupRow []int, err error) {
	raw, err := r.ReadN(rows)
	if err != nil {
		return nil, nil, nil, err
	}
	discrs = make([]uint8, rows)
	copy(discrs, raw)
	counts = make([]int, arity)
	groupRow = make([]int, rows)
	for i, d := range discrs {
		if d == column.NullDiscr {
			continue
		}
		if int(d) >= arity {
			return nil, nil, nil, &FormatError{Type: typ, Msg: fmt.Sprintf("discriminator %d out of range %d", d, arity)}
		}
		groupRow[i] = counts[d]
		counts[d]++
	}
	return discrs, counts, groupRow, nil
}
