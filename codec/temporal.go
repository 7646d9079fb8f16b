package codec

import (
	"time"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// dateCodec stores an unsigned 16-bit day count since the epoch.
type dateCodec struct{}

func (c *dateCodec) Type() string      { return "Date" }
func (c *dateCodec) Children() []Codec { return nil }
func (c *dateCodec) Zero() any         { return time.Unix(0, 0).UTC() }

func (c *dateCodec) FromValues(values []any) (column.Column, error) {
	return fromValues("Date", values)
}

func (c *dateCodec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		days, err := numeric.DateDays("Date", col.Get(i))
		if err != nil {
			return err
		}
		b.WriteUint16(days)
	}
	return nil
}

func (c *dateCodec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	values := make([]any, rows)
	for i := range values {
		days, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		values[i] = numeric.DaysToTime(int64(days))
	}
	return column.NewValues("Date", values), nil
}

// date32Codec stores a signed 32-bit day count, pre-epoch capable.
type date32Codec struct{}

func (c *date32Codec) Type() string      { return "Date32" }
func (c *date32Codec) Children() []Codec { return nil }
func (c *date32Codec) Zero() any         { return time.Unix(0, 0).UTC() }

func (c *date32Codec) FromValues(values []any) (column.Column, error) {
	return fromValues("Date32", values)
}

func (c *date32Codec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		days, err := numeric.Date32Days("Date32", col.Get(i))
		if err != nil {
			return err
		}
		b.WriteInt32(days)
	}
	return nil
}

func (c *date32Codec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	values := make([]any, rows)
	for i := range values {
		days, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		values[i] = numeric.DaysToTime(int64(days))
	}
	return column.NewValues("Date32", values), nil
}

// dateTimeCodec stores an unsigned 32-bit second count. The optional
// time-zone argument changes the wall clock of returned values, not the
// stored instant.
type dateTimeCodec struct {
	typ string
	loc *time.Location
}

func (c *dateTimeCodec) Type() string      { return c.typ }
func (c *dateTimeCodec) Children() []Codec { return nil }
func (c *dateTimeCodec) Zero() any         { return time.Unix(0, 0).In(c.loc) }

func (c *dateTimeCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *dateTimeCodec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		s, err := numeric.DateTimeSeconds(c.typ, col.Get(i))
		if err != nil {
			return err
		}
		b.WriteUint32(s)
	}
	return nil
}

func (c *dateTimeCodec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	values := make([]any, rows)
	for i := range values {
		s, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		values[i] = numeric.SecondsToTime(int64(s), c.loc)
	}
	return column.NewValues(c.typ, values), nil
}

// dateTime64Codec stores a signed 64-bit tick count at the declared
// precision.
type dateTime64Codec struct {
	typ       string
	precision int
	loc       *time.Location
}

func newDateTime64Codec(typ string, precision int, loc *time.Location) (*dateTime64Codec, error) {
	if precision < 0 || precision > 9 {
		return nil, formatErr(typ, "precision %d outside 0..9", precision)
	}
	return &dateTime64Codec{typ: typ, precision: precision, loc: loc}, nil
}

func (c *dateTime64Codec) Type() string      { return c.typ }
func (c *dateTime64Codec) Children() []Codec { return nil }
func (c *dateTime64Codec) Zero() any         { return time.Unix(0, 0).In(c.loc) }

func (c *dateTime64Codec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *dateTime64Codec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		ticks, err := numeric.DateTime64Ticks(c.typ, col.Get(i), c.precision)
		if err != nil {
			return err
		}
		b.WriteInt64(ticks)
	}
	return nil
}

func (c *dateTime64Codec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	values := make([]any, rows)
	for i := range values {
		ticks, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		values[i] = numeric.TicksToTime(ticks, c.precision, c.loc)
	}
	return column.NewValues(c.typ, values), nil
}
