package codec

import (
	"math"
	"math/big"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// intCodec is the shared implementation for every fixed-width machine
// integer type. Encoding is a contiguous little-endian array with a
// zero-copy fast path when the column backing already matches T.
type intCodec[T wire.Fixed] struct {
	typ    string
	coerce func(v any) (T, error)
}

func (c *intCodec[T]) Type() string      { return c.typ }
func (c *intCodec[T]) Children() []Codec { return nil }

func (c *intCodec[T]) Zero() any {
	var zero T
	return zero
}

func (c *intCodec[T]) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *intCodec[T]) Encode(b *wire.Buffer, col column.Column) error {
	if native, ok := col.(*column.Numeric[T]); ok {
		wire.AppendNumeric(b, native.Data)
		return nil
	}
	out := make([]T, col.Len())
	for i := range out {
		v, err := c.coerce(col.Get(i))
		if err != nil {
			return err
		}
		out[i] = v
	}
	wire.AppendNumeric(b, out)
	return nil
}

func (c *intCodec[T]) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	data, borrowed, err := wire.NumericView[T](r, rows)
	if err != nil {
		return nil, err
	}
	return column.NewNumeric(c.typ, data, borrowed), nil
}

func newIntCodec[T wire.Fixed](typ string, coerce func(v any) (T, error)) *intCodec[T] {
	return &intCodec[T]{typ: typ, coerce: coerce}
}

func signedCoerce[T int8 | int16 | int32 | int64](typ string, min, max int64) func(any) (T, error) {
	return func(v any) (T, error) {
		n, err := numeric.Int64Value(typ, v, min, max)
		return T(n), err
	}
}

func unsignedCoerce[T uint8 | uint16 | uint32 | uint64](typ string, max uint64) func(any) (T, error) {
	return func(v any) (T, error) {
		n, err := numeric.Uint64Value(typ, v, max)
		return T(n), err
	}
}

// bigIntCodec covers Int128/Int256/UInt128/UInt256: two or four 64-bit
// little-endian words with sign extension on the most significant word.
type bigIntCodec struct {
	typ      string
	words    int
	signed   bool
	min, max *big.Int
}

func (c *bigIntCodec) Type() string      { return c.typ }
func (c *bigIntCodec) Children() []Codec { return nil }
func (c *bigIntCodec) Zero() any         { return new(big.Int) }

func (c *bigIntCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *bigIntCodec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		x, err := numeric.BigIntValue(c.typ, col.Get(i), c.min, c.max)
		if err != nil {
			return err
		}
		numeric.WriteBigInt(b, x, c.words)
	}
	return nil
}

func (c *bigIntCodec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	values := make([]any, rows)
	for i := range values {
		x, err := numeric.ReadBigInt(r, c.words, c.signed)
		if err != nil {
			return nil, err
		}
		values[i] = x
	}
	return column.NewValues(c.typ, values), nil
}

// float64Codec keeps the raw IEEE-754 bit patterns of decoded values, so
// NaN payloads survive a decode and re-encode verbatim instead of being
// canonicalized by a float round trip.
type float64Codec struct {
	typ string
}

func (c *float64Codec) Type() string      { return c.typ }
func (c *float64Codec) Children() []Codec { return nil }
func (c *float64Codec) Zero() any         { return float64(0) }

func (c *float64Codec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *float64Codec) Encode(b *wire.Buffer, col column.Column) error {
	if native, ok := col.(*column.Float64s); ok {
		wire.AppendNumeric(b, native.Bits)
		return nil
	}
	for i := 0; i < col.Len(); i++ {
		f, err := numeric.Float64Value(c.typ, col.Get(i))
		if err != nil {
			return err
		}
		b.WriteFloat64(f)
	}
	return nil
}

func (c *float64Codec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	bits, borrowed, err := wire.NumericView[uint64](r, rows)
	if err != nil {
		return nil, err
	}
	return column.NewFloat64s(c.typ, bits, borrowed), nil
}

type float32Codec struct {
	typ string
}

func (c *float32Codec) Type() string      { return c.typ }
func (c *float32Codec) Children() []Codec { return nil }
func (c *float32Codec) Zero() any         { return float32(0) }

func (c *float32Codec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *float32Codec) Encode(b *wire.Buffer, col column.Column) error {
	if native, ok := col.(*column.Float32s); ok {
		wire.AppendNumeric(b, native.Bits)
		return nil
	}
	for i := 0; i < col.Len(); i++ {
		f, err := numeric.Float32Value(c.typ, col.Get(i))
		if err != nil {
			return err
		}
		b.WriteFloat32(f)
	}
	return nil
}

func (c *float32Codec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	bits, borrowed, err := wire.NumericView[uint32](r, rows)
	if err != nil {
		return nil, err
	}
	return column.NewFloat32s(c.typ, bits, borrowed), nil
}

// boolCodec stores one byte per row, 0 or 1.
type boolCodec struct{}

func (c *boolCodec) Type() string      { return "Bool" }
func (c *boolCodec) Children() []Codec { return nil }
func (c *boolCodec) Zero() any         { return false }

func (c *boolCodec) FromValues(values []any) (column.Column, error) {
	return fromValues("Bool", values)
}

func (c *boolCodec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		v, err := numeric.BoolValue("Bool", col.Get(i))
		if err != nil {
			return err
		}
		if v {
			b.WriteUint8(1)
		} else {
			b.WriteUint8(0)
		}
	}
	return nil
}

func (c *boolCodec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	raw, err := r.ReadN(rows)
	if err != nil {
		return nil, err
	}
	values := make([]any, rows)
	for i, byt := range raw {
		values[i] = byt != 0
	}
	return column.NewValues("Bool", values), nil
}

func newScalarIntCodecs() map[string]Codec {
	return map[string]Codec{
		"Int8":   newIntCodec("Int8", signedCoerce[int8]("Int8", math.MinInt8, math.MaxInt8)),
		"Int16":  newIntCodec("Int16", signedCoerce[int16]("Int16", math.MinInt16, math.MaxInt16)),
		"Int32":  newIntCodec("Int32", signedCoerce[int32]("Int32", math.MinInt32, math.MaxInt32)),
		"Int64":  newIntCodec("Int64", signedCoerce[int64]("Int64", math.MinInt64, math.MaxInt64)),
		"UInt8":  newIntCodec("UInt8", unsignedCoerce[uint8]("UInt8", math.MaxUint8)),
		"UInt16": newIntCodec("UInt16", unsignedCoerce[uint16]("UInt16", math.MaxUint16)),
		"UInt32": newIntCodec("UInt32", unsignedCoerce[uint32]("UInt32", math.MaxUint32)),
		"UInt64": newIntCodec("UInt64", unsignedCoerce[uint64]("UInt64", math.MaxUint64)),
		"Int128": &bigIntCodec{typ: "Int128", words: 2, signed: true,
			min: numeric.MinInt128, max: numeric.MaxInt128},
		"Int256": &bigIntCodec{typ: "Int256", words: 4, signed: true,
			min: numeric.MinInt256, max: numeric.MaxInt256},
		"UInt128": &bigIntCodec{typ: "UInt128", words: 2, signed: false,
			min: new(big.Int), max: numeric.MaxUint128},
		"UInt256": &bigIntCodec{typ: "UInt256", words: 4, signed: false,
			min: new(big.Int), max: numeric.MaxUint256},
		"Float32": &float32Codec{typ: "Float32"},
		"Float64": &float64Codec{typ: "Float64"},
		"Bool":    &boolCodec{},
	}
}
