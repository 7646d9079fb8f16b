package codec

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// Index width tags carried in the low byte of the flags word.
const (
	lcWidthUint8  = 0
	lcWidthUint16 = 1
	lcWidthUint32 = 2
)

// lowCardinalityCodec stores a deduplicated dictionary plus an index array
// using the narrowest width that fits the dictionary size. When the wrapped
// type is nullable, index 0 is reserved for null and the dictionary is
// stored with the unwrapped codec, so null never occupies a slot.
type lowCardinalityCodec struct {
	typ      string
	inner    Codec // unwrapped dictionary value codec
	nullable bool
}

func newLowCardinalityCodec(typ string, inner Codec, nullable bool) *lowCardinalityCodec {
	return &lowCardinalityCodec{typ: typ, inner: inner, nullable: nullable}
}

func (c *lowCardinalityCodec) Type() string      { return c.typ }
func (c *lowCardinalityCodec) Children() []Codec { return []Codec{c.inner} }

func (c *lowCardinalityCodec) Zero() any {
	if c.nullable {
		return nil
	}
	return c.inner.Zero()
}

func (c *lowCardinalityCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *lowCardinalityCodec) Encode(b *wire.Buffer, col column.Column) error {
	rows := col.Len()
	if rows == 0 {
		return nil // empty columns carry no header at all
	}
	slots := make(map[any]int)
	var dict []any
	indices := make([]uint32, rows)
	for i := 0; i < rows; i++ {
		v := col.Get(i)
		if v == nil {
			if !c.nullable {
				return &numeric.CoercionError{Type: c.typ, Value: nil, Reason: "null in a non-nullable dictionary"}
			}
			continue // indices[i] stays 0, the reserved null slot
		}
		key := dictKey(v)
		slot, ok := slots[key]
		if !ok {
			slot = len(dict)
			slots[key] = slot
			dict = append(dict, v)
		}
		if c.nullable {
			indices[i] = uint32(slot) + 1
		} else {
			indices[i] = uint32(slot)
		}
	}
	maxIndex := len(dict)
	if !c.nullable && maxIndex > 0 {
		maxIndex--
	}
	if maxIndex > math.MaxUint32 {
		return &FormatError{Type: c.typ, Msg: "dictionary too large for a 32-bit index"}
	}
	widthTag := uint64(lcWidthUint8)
	switch {
	case maxIndex > math.MaxUint16:
		widthTag = lcWidthUint32
	case maxIndex > math.MaxUint8:
		widthTag = lcWidthUint16
	}
	b.WriteUint64(widthTag)
	b.WriteUint64(uint64(len(dict)))
	dictCol, err := c.inner.FromValues(dict)
	if err != nil {
		return err
	}
	if err := c.inner.Encode(b, dictCol); err != nil {
		return err
	}
	b.WriteUint64(uint64(rows))
	for _, idx := range indices {
		switch widthTag {
		case lcWidthUint8:
			b.WriteUint8(uint8(idx))
		case lcWidthUint16:
			b.WriteUint16(uint16(idx))
		default:
			b.WriteUint32(idx)
		}
	}
	return nil
}

func (c *lowCardinalityCodec) DecodeDense(r *wire.Reader, rows int, st *DecodeState) (column.Column, error) {
	if rows == 0 {
		return column.NewValues(c.typ, nil), nil
	}
	flags, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	if flags&^0xFF != 0 {
		return nil, &FormatError{Type: c.typ, Msg: "reserved dictionary flag bits set"}
	}
	widthTag := flags & 0xFF
	if widthTag > lcWidthUint32 {
		return nil, &FormatError{Type: c.typ, Msg: fmt.Sprintf("unknown index width tag %d", widthTag)}
	}
	dictSize, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	if dictSize > uint64(r.Remaining()) {
		return nil, &FormatError{Type: c.typ, Msg: fmt.Sprintf("dictionary size %d exceeds buffer", dictSize)}
	}
	st.descend(0)
	dictCol, err := c.inner.DecodeDense(r, int(dictSize), st)
	st.ascend()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	if count != uint64(rows) {
		return nil, &FormatError{Type: c.typ, Msg: fmt.Sprintf("stored row count %d, caller expects %d", count, rows)}
	}
	values := make([]any, rows)
	for i := range values {
		var idx uint32
		switch widthTag {
		case lcWidthUint8:
			v, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			idx = uint32(v)
		case lcWidthUint16:
			v, err := r.ReadUint16()
			if err != nil {
				return nil, err
			}
			idx = uint32(v)
		default:
			v, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			idx = v
		}
		if c.nullable {
			if idx == 0 {
				continue // values[i] stays nil
			}
			idx--
		}
		if uint64(idx) >= dictSize {
			return nil, &FormatError{Type: c.typ, Msg: fmt.Sprintf("dictionary index %d out of range %d", idx, dictSize)}
		}
		values[i] = dictCol.Get(int(idx))
	}
	return column.NewValues(c.typ, values), nil
}

// dictKey derives a stable comparable key for a dictionary value: primitive
// values key themselves, temporal values key by millisecond timestamp, byte
// strings by hex, and structured values by a canonical sorted-key string.
func dictKey(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.UnixMilli()
	case []byte:
		return hex.EncodeToString(x)
	case *big.Int:
		return "int:" + x.String()
	case decimal.Decimal:
		return "dec:" + x.String()
	case map[string]any, []any:
		var sb strings.Builder
		writeDictKey(&sb, x)
		return sb.String()
	}
	if t := reflect.TypeOf(v); t != nil && !t.Comparable() {
		var sb strings.Builder
		writeDictKey(&sb, v)
		return sb.String()
	}
	return v
}

func writeDictKey(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for _, k := range keys {
			sb.WriteString(k)
			sb.WriteByte('=')
			writeDictKey(sb, x[k])
			sb.WriteByte(';')
		}
		sb.WriteByte('}')
	case []any:
		sb.WriteByte('[')
		for _, e := range x {
			writeDictKey(sb, e)
			sb.WriteByte(';')
		}
		sb.WriteByte(']')
	default:
		fmt.Fprintf(sb, "%v", dictKey(v))
	}
}
