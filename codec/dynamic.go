package codec

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// dynamicHeaderVersion is the only self-describing header this engine
// writes or accepts. Any other version on the wire is a hard failure.
const dynamicHeaderVersion = 1

// dynamicCodec is the self-describing union codec. The type list is not
// declared in the schema: encode discovers it per block by inferring a
// type per value, writes it as a header, and the discriminator/group data
// follows exactly as for a declared variant.
type dynamicCodec struct {
	typ     string
	resolve func(string) (Codec, error)
}

func newDynamicCodec(typ string, resolve func(string) (Codec, error)) *dynamicCodec {
	return &dynamicCodec{typ: typ, resolve: resolve}
}

func (c *dynamicCodec) Type() string      { return c.typ }
func (c *dynamicCodec) Zero() any         { return nil }
func (c *dynamicCodec) Children() []Codec { return nil } // per-block, not structural

func (c *dynamicCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *dynamicCodec) Encode(b *wire.Buffer, col column.Column) error {
	rows := col.Len()
	var types []string
	tags := make(map[string]uint8)
	discrs := make([]uint8, rows)
	rowVals := make([]any, rows)
	for i := 0; i < rows; i++ {
		v := col.Get(i)
		if v == nil {
			discrs[i] = column.NullDiscr
			continue
		}
		if t, ok := v.(Tagged); ok {
			rowVals[i] = t.Value
			tag, err := internTag(t.Type, tags, &types)
			if err != nil {
				return &FormatError{Type: c.typ, Msg: err.Error()}
			}
			discrs[i] = tag
			continue
		}
		typ, err := inferDynamicType(v)
		if err != nil {
			return err
		}
		rowVals[i] = v
		tag, err := internTag(typ, tags, &types)
		if err != nil {
			return &FormatError{Type: c.typ, Msg: err.Error()}
		}
		discrs[i] = tag
	}
	b.WriteVarint(dynamicHeaderVersion)
	b.WriteVarint(uint64(len(types)))
	for _, t := range types {
		b.WriteString(t)
	}
	groups := make([][]any, len(types))
	for i, d := range discrs {
		b.WriteUint8(d)
		if d != column.NullDiscr {
			groups[d] = append(groups[d], rowVals[i])
		}
	}
	for tag, vals := range groups {
		if len(vals) == 0 {
			continue
		}
		sub, err := c.resolve(types[tag])
		if err != nil {
			return err
		}
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

func internTag(typ string, tags map[string]uint8, types *[]string) (uint8, error) {
	if tag, ok := tags[typ]; ok {
		return tag, nil
	}
	if len(*types) >= column.NullDiscr {
		return 0, fmt.Errorf("more than %d distinct types in one block", column.NullDiscr-1)
	}
	tag := uint8(len(*types))
	tags[typ] = tag
	*types = append(*types, typ)
	return tag, nil
}

func (c *dynamicCodec) DecodeDense(r *wire.Reader, rows int, st *DecodeState) (column.Column, error) {
	version, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if version != dynamicHeaderVersion {
		return nil, &FormatError{Type: c.typ, Msg: fmt.Sprintf("unsupported header version %d", version)}
	}
	count, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if count >= column.NullDiscr {
		return nil, &FormatError{Type: c.typ, Msg: fmt.Sprintf("type count %d out of range", count)}
	}
	types := make([]string, count)
	subs := make([]Codec, count)
	for i := range types {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		types[i] = s
		if subs[i], err = c.resolve(s); err != nil {
			return nil, err
		}
	}
	discrs, counts, groupRow, err := readDiscriminators(c.typ, r, rows, len(subs))
	if err != nil {
		return nil, err
	}
	groups := make([]column.Column, len(subs))
	for tag, sub := range subs {
		if counts[tag] == 0 {
			continue
		}
		gcol, err := sub.DecodeDense(r, counts[tag], st)
		if err != nil {
			return nil, err
		}
		groups[tag] = gcol
	}
	return column.NewDiscriminated(c.typ, discrs, types, groups, groupRow), nil
}

// inferDynamicType maps a raw value to the descriptor used for it in the
// self-describing header. Whole numbers always infer Int64; only
// magnitudes beyond the 64-bit range promote to Int128/Int256.
func inferDynamicType(v any) (string, error) {
	switch x := v.(type) {
	case string, []byte:
		return "String", nil
	case bool:
		return "Bool", nil
	case time.Time:
		return "DateTime64(3)", nil
	case float64:
		return inferFloat(x)
	case float32:
		return inferFloat(float64(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return "Int64", nil
	case uint64:
		if x <= math.MaxInt64 {
			return "Int64", nil
		}
		return "Int128", nil
	case *big.Int:
		switch {
		case x.IsInt64():
			return "Int64", nil
		case x.Cmp(numeric.MinInt128) >= 0 && x.Cmp(numeric.MaxInt128) <= 0:
			return "Int128", nil
		case x.Cmp(numeric.MinInt256) >= 0 && x.Cmp(numeric.MaxInt256) <= 0:
			return "Int256", nil
		}
		return "", &numeric.RangeError{Type: "Int256", Value: x, Detail: "magnitude exceeds 256 bits"}
	case []any:
		if len(x) == 0 {
			return "Array(String)", nil
		}
		elem, err := inferDynamicType(x[0])
		if err != nil {
			return "", err
		}
		return "Array(" + elem + ")", nil
	}
	return "", &numeric.CoercionError{Type: "Dynamic", Value: v, Reason: "no inferable type"}
}

func inferFloat(x float64) (string, error) {
	if x == math.Trunc(x) && !math.IsInf(x, 0) &&
		x >= math.MinInt64 && x < math.MaxInt64 {
		return "Int64", nil
	}
	return "Float64", nil
}
