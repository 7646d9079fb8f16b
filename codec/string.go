package codec

import (
	"strconv"
	"strings"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// stringCodec stores a varint length prefix followed by raw UTF-8 bytes.
type stringCodec struct{}

func (c *stringCodec) Type() string      { return "String" }
func (c *stringCodec) Children() []Codec { return nil }
func (c *stringCodec) Zero() any         { return "" }

func (c *stringCodec) FromValues(values []any) (column.Column, error) {
	return fromValues("String", values)
}

func (c *stringCodec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		s, err := numeric.StringValue("String", col.Get(i))
		if err != nil {
			return err
		}
		b.WriteString(s)
	}
	return nil
}

func (c *stringCodec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	data := make([]string, rows)
	for i := range data {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		data[i] = s
	}
	return column.NewStrings("String", data), nil
}

// fixedStringCodec stores exactly n bytes per row, zero-padded on encode.
// Longer input is an error, never a silent truncation.
type fixedStringCodec struct {
	typ string
	n   int
}

func (c *fixedStringCodec) Type() string      { return c.typ }
func (c *fixedStringCodec) Children() []Codec { return nil }
func (c *fixedStringCodec) Zero() any         { return strings.Repeat("\x00", c.n) }

func (c *fixedStringCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *fixedStringCodec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		s, err := numeric.StringValue(c.typ, col.Get(i))
		if err != nil {
			return err
		}
		if len(s) > c.n {
			return &numeric.RangeError{
				Type:   c.typ,
				Value:  s,
				Detail: "byte length " + strconv.Itoa(len(s)) + " exceeds fixed size " + strconv.Itoa(c.n),
			}
		}
		b.WriteRaw([]byte(s))
		b.WriteZeros(c.n - len(s))
	}
	return nil
}

func (c *fixedStringCodec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	data := make([]string, rows)
	for i := range data {
		raw, err := r.ReadN(c.n)
		if err != nil {
			return nil, err
		}
		data[i] = string(raw)
	}
	return column.NewStrings(c.typ, data), nil
}
