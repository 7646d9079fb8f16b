package codec

import (
	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// tupleCodec writes each element's full column in sequence. Named tuples
// take and yield field maps; positional tuples ordered slices.
type tupleCodec struct {
	typ    string
	names  []string // empty for positional
	fields []Codec
}

func (c *tupleCodec) Type() string      { return c.typ }
func (c *tupleCodec) Children() []Codec { return c.fields }

func (c *tupleCodec) Zero() any {
	if len(c.names) > 0 {
		zero := make(map[string]any, len(c.fields))
		for i, f := range c.fields {
			zero[c.names[i]] = f.Zero()
		}
		return zero
	}
	zero := make([]any, len(c.fields))
	for i, f := range c.fields {
		zero[i] = f.Zero()
	}
	return zero
}

func (c *tupleCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

// fieldColumn projects one tuple element out of a row column.
type fieldColumn struct {
	src   column.Column
	typ   string
	index int
	name  string // non-empty selects by name
}

func (f *fieldColumn) Type() string { return f.typ }
func (f *fieldColumn) Len() int     { return f.src.Len() }

func (f *fieldColumn) Get(i int) any {
	switch row := f.src.Get(i).(type) {
	case []any:
		if f.index < len(row) {
			return row[f.index]
		}
		return nil
	case map[string]any:
		if f.name != "" {
			return row[f.name]
		}
		return nil
	default:
		return row // let the element codec raise the coercion error
	}
}

func (c *tupleCodec) validateRows(col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		switch row := col.Get(i).(type) {
		case []any:
			if len(row) != len(c.fields) {
				return &numeric.CoercionError{Type: c.typ, Value: row,
					Reason: "wrong element count"}
			}
		case map[string]any:
			if len(c.names) == 0 {
				return &numeric.CoercionError{Type: c.typ, Value: row,
					Reason: "field map given for a positional tuple"}
			}
		default:
			return &numeric.CoercionError{Type: c.typ, Value: col.Get(i),
				Reason: "not a tuple value"}
		}
	}
	return nil
}

func (c *tupleCodec) Encode(b *wire.Buffer, col column.Column) error {
	if _, ok := col.(*column.Tuples); !ok {
		if err := c.validateRows(col); err != nil {
			return err
		}
	}
	if native, ok := col.(*column.Tuples); ok && len(native.Fields) == len(c.fields) {
		for i, f := range c.fields {
			if err := f.Encode(b, native.Fields[i]); err != nil {
				return err
			}
		}
		return nil
	}
	for i, f := range c.fields {
		name := ""
		if len(c.names) > 0 {
			name = c.names[i]
		}
		proj := &fieldColumn{src: col, typ: f.Type(), index: i, name: name}
		if err := f.Encode(b, proj); err != nil {
			return err
		}
	}
	return nil
}

func (c *tupleCodec) DecodeDense(r *wire.Reader, rows int, st *DecodeState) (column.Column, error) {
	fields := make([]column.Column, len(c.fields))
	for i := range c.fields {
		col, err := decodeChild(c, i, r, rows, st)
		if err != nil {
			return nil, err
		}
		fields[i] = col
	}
	return column.NewTuples(c.typ, c.names, fields, rows), nil
}
