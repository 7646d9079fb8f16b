package codec

import (
	"github.com/shopspring/decimal"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// decimalCodec stores a scaled arbitrary-precision integer in 4, 8, 16 or
// 32 bytes depending on the declared precision. Values are exposed as
// decimal.Decimal and round-trip exactly for canonically formatted input.
type decimalCodec struct {
	typ       string
	precision int
	scale     int
	byteSize  int
}

func newDecimalCodec(typ string, precision, scale int) (*decimalCodec, error) {
	size, err := numeric.DecimalByteSize(precision)
	if err != nil {
		return nil, formatErr(typ, "invalid precision %d", precision)
	}
	if scale < 0 || scale > precision {
		return nil, formatErr(typ, "scale %d outside 0..%d", scale, precision)
	}
	return &decimalCodec{typ: typ, precision: precision, scale: scale, byteSize: size}, nil
}

func (c *decimalCodec) Type() string      { return c.typ }
func (c *decimalCodec) Children() []Codec { return nil }
func (c *decimalCodec) Zero() any         { return decimal.New(0, -int32(c.scale)) }

func (c *decimalCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *decimalCodec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		scaled, err := numeric.ScaledFromValue(c.typ, col.Get(i), c.precision, c.scale)
		if err != nil {
			return err
		}
		switch c.byteSize {
		case 4:
			b.WriteInt32(int32(scaled.Int64()))
		case 8:
			b.WriteInt64(scaled.Int64())
		default:
			numeric.WriteBigInt(b, scaled, c.byteSize/8)
		}
	}
	return nil
}

func (c *decimalCodec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	values := make([]any, rows)
	for i := range values {
		var d decimal.Decimal
		switch c.byteSize {
		case 4:
			v, err := r.ReadInt32()
			if err != nil {
				return nil, err
			}
			d = decimal.New(int64(v), -int32(c.scale))
		case 8:
			v, err := r.ReadInt64()
			if err != nil {
				return nil, err
			}
			d = decimal.New(v, -int32(c.scale))
		default:
			scaled, err := numeric.ReadBigInt(r, c.byteSize/8, true)
			if err != nil {
				return nil, err
			}
			d = numeric.ScaledToDecimal(scaled, c.scale)
		}
		values[i] = d
	}
	return column.NewValues(c.typ, values), nil
}
