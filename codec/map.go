package codec

import (
	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// mapCodec encodes Map(K, V) with the Array offset scheme: a cumulative
// entry-count array, then the flattened key column and value column side
// by side.
type mapCodec struct {
	typ string
	key Codec
	val Codec
}

func (c *mapCodec) Type() string      { return c.typ }
func (c *mapCodec) Children() []Codec { return []Codec{c.key, c.val} }
func (c *mapCodec) Zero() any         { return map[any]any{} }

func (c *mapCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func rowEntries(typ string, v any) ([]any, []any, error) {
	switch val := v.(type) {
	case map[any]any:
		keys := make([]any, 0, len(val))
		vals := make([]any, 0, len(val))
		for k, mv := range val {
			keys = append(keys, k)
			vals = append(vals, mv)
		}
		return keys, vals, nil
	case map[string]any:
		keys := make([]any, 0, len(val))
		vals := make([]any, 0, len(val))
		for k, mv := range val {
			keys = append(keys, k)
			vals = append(vals, mv)
		}
		return keys, vals, nil
	default:
		return nil, nil, &numeric.CoercionError{Type: typ, Value: v, Reason: "not a map"}
	}
}

func (c *mapCodec) Encode(b *wire.Buffer, col column.Column) error {
	rows := col.Len()
	offsets := make([]uint64, rows)
	var keys, vals []any
	var total uint64
	for i := 0; i < rows; i++ {
		k, v, err := rowEntries(c.typ, col.Get(i))
		if err != nil {
			return err
		}
		total += uint64(len(k))
		offsets[i] = total
		keys = append(keys, k...)
		vals = append(vals, v...)
	}
	wire.AppendNumeric(b, offsets)
	if err := c.key.Encode(b, column.NewValues(c.key.Type(), keys)); err != nil {
		return err
	}
	return c.val.Encode(b, column.NewValues(c.val.Type(), vals))
}

func (c *mapCodec) DecodeDense(r *wire.Reader, rows int, st *DecodeState) (column.Column, error) {
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
	if total > uint64(r.Remaining()) {
		return nil, formatErr(c.typ, "entry count %d exceeds buffer", total)
	}
	keys, err := decodeChild(c, 0, r, int(total), st)
	if err != nil {
		return nil, err
	}
	vals, err := decodeChild(c, 1, r, int(total), st)
	if err != nil {
		return nil, err
	}
	owned := make([]uint64, rows)
	copy(owned, offsets)
	return column.NewMaps(c.typ, owned, keys, vals), nil
}
