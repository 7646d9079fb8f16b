package codec

import (
	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// arrayCodec writes a per-row cumulative element-count array (unsigned
// 64-bit, monotonically non-decreasing) followed by the element type's
// encoding of the flattened concatenation of all rows.
type arrayCodec struct {
	typ  string
	elem Codec
}

func (c *arrayCodec) Type() string      { return c.typ }
func (c *arrayCodec) Children() []Codec { return []Codec{c.elem} }
func (c *arrayCodec) Zero() any         { return []any{} }

func (c *arrayCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func rowElems(typ string, v any) ([]any, error) {
	switch val := v.(type) {
	case []any:
		return val, nil
	case nil:
		return nil, &numeric.CoercionError{Type: typ, Value: v, Reason: "null is not an array"}
	default:
		return nil, &numeric.CoercionError{Type: typ, Value: v, Reason: "not an array"}
	}
}

func (c *arrayCodec) Encode(b *wire.Buffer, col column.Column) error {
	rows := col.Len()
	flat := make([]any, 0, rows)
	var total uint64
	offsets := make([]uint64, rows)
	for i := 0; i < rows; i++ {
		elems, err := rowElems(c.typ, col.Get(i))
		if err != nil {
			return err
		}
		total += uint64(len(elems))
		offsets[i] = total
		flat = append(flat, elems...)
	}
	wire.AppendNumeric(b, offsets)
	return c.elem.Encode(b, column.NewValues(c.elem.Type(), flat))
}

func (c *arrayCodec) DecodeDense(r *wire.Reader, rows int, st *DecodeState) (column.Column, error) {
	offsets, _, err := wire.NumericView[uint64](r, rows)
	if err != nil {
		return nil, err
	}
	var prev uint64
	for i, off := range offsets {
		if off < prev {
			return nil, formatErr(c.typ, "offsets decrease at row %d", i)
		}
		prev = off
	}
	var total uint64
	if rows > 0 {
		total = offsets[rows-1]
	}
	// An element count beyond the remaining bytes cannot be satisfied by
	// any child encoding; reject it before allocation.
	if total > uint64(r.Remaining()) {
		return nil, formatErr(c.typ, "element count %d exceeds buffer", total)
	}
	elems, err := decodeChild(c, 0, r, int(total), st)
	if err != nil {
		return nil, err
	}
	// Offsets may alias the wire buffer; the column owns them, so copy.
	owned := make([]uint64, rows)
	copy(owned, offsets)
	return column.NewArrays(c.typ, owned, elems), nil
}
