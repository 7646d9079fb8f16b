// Package column holds the in-memory columnar containers the codecs
// produce and consume: an immutable, length-bearing, randomly indexable
// view over one field's values for a batch of rows, tagged with the exact
// type descriptor it was built for.
package column

import (
	"math"

	"github.com/vertiqadb/vertiqa-go/wire"
)

// Column is a read-only view over one field across a batch of rows.
// Len is fixed at construction and Get(i) never fails for 0 <= i < Len.
type Column interface {
	// Type returns the type descriptor string the column was built for.
	Type() string
	// Len returns the row count.
	Len() int
	// Get returns the value at row i.
	Get(i int) any
}

// Tagged is a runtime-polymorphic value: a Variant row carries the
// discriminator of its declared subtype, a Dynamic row carries the
// inferred type descriptor.
type Tagged struct {
	Discr uint8
	Type  string
	Value any
}

// Values is the generic owned backing: one boxed value per row. Builders
// and composite materializers produce it.
type Values struct {
	typ    string
	values []any
}

// NewValues wraps values as a column of the given type. The slice is taken
// over by the column and must not be mutated afterwards.
func NewValues(typ string, values []any) *Values {
	return &Values{typ: typ, values: values}
}

func (c *Values) Type() string  { return c.typ }
func (c *Values) Len() int      { return len(c.values) }
func (c *Values) Get(i int) any { return c.values[i] }

// Numeric is a fixed-width column over machine numbers. Data either
// borrows the decoded wire buffer (zero-copy, alignment permitting) or
// owns a fresh slice; Borrowed tells the caller which lifetime rule holds.
type Numeric[T wire.Fixed] struct {
	typ      string
	Data     []T
	Borrowed bool
}

// NewNumeric wraps data as a column of the given type.
func NewNumeric[T wire.Fixed](typ string, data []T, borrowed bool) *Numeric[T] {
	return &Numeric[T]{typ: typ, Data: data, Borrowed: borrowed}
}

func (c *Numeric[T]) Type() string  { return c.typ }
func (c *Numeric[T]) Len() int      { return len(c.Data) }
func (c *Numeric[T]) Get(i int) any { return c.Data[i] }

// Float64s is a float64 column backed by raw IEEE-754 bit patterns, so a
// decode/encode round trip preserves NaN payloads exactly.
type Float64s struct {
	typ      string
	Bits     []uint64
	Borrowed bool
}

func NewFloat64s(typ string, bits []uint64, borrowed bool) *Float64s {
	return &Float64s{typ: typ, Bits: bits, Borrowed: borrowed}
}

func (c *Float64s) Type() string  { return c.typ }
func (c *Float64s) Len() int      { return len(c.Bits) }
func (c *Float64s) Get(i int) any { return math.Float64frombits(c.Bits[i]) }

// Float32s is the 32-bit analogue of Float64s.
type Float32s struct {
	typ      string
	Bits     []uint32
	Borrowed bool
}

func NewFloat32s(typ string, bits []uint32, borrowed bool) *Float32s {
	return &Float32s{typ: typ, Bits: bits, Borrowed: borrowed}
}

func (c *Float32s) Type() string  { return c.typ }
func (c *Float32s) Len() int      { return len(c.Bits) }
func (c *Float32s) Get(i int) any { return math.Float32frombits(c.Bits[i]) }

// Strings is an owned string column.
type Strings struct {
	typ    string
	Data   []string
}

func NewStrings(typ string, data []string) *Strings {
	return &Strings{typ: typ, Data: data}
}

func (c *Strings) Type() string  { return c.typ }
func (c *Strings) Len() int      { return len(c.Data) }
func (c *Strings) Get(i int) any { return c.Data[i] }

// Nullable overlays a null mask on an inner dense column; null rows hold
// the inner type's zero placeholder and Get returns untyped nil for them.
type Nullable struct {
	typ   string
	Nulls []bool
	Inner Column
}

func NewNullable(typ string, nulls []bool, inner Column) *Nullable {
	return &Nullable{typ: typ, Nulls: nulls, Inner: inner}
}

func (c *Nullable) Type() string { return c.typ }
func (c *Nullable) Len() int     { return len(c.Nulls) }

func (c *Nullable) Get(i int) any {
	if c.Nulls[i] {
		return nil
	}
	return c.Inner.Get(i)
}

// Arrays is an offset-delimited list column: row i spans element indexes
// [Offsets[i-1], Offsets[i]) of the flattened Elems column.
type Arrays struct {
	typ     string
	Offsets []uint64
	Elems   Column
}

func NewArrays(typ string, offsets []uint64, elems Column) *Arrays {
	return &Arrays{typ: typ, Offsets: offsets, Elems: elems}
}

func (c *Arrays) Type() string { return c.typ }
func (c *Arrays) Len() int     { return len(c.Offsets) }

func (c *Arrays) Get(i int) any {
	lo, hi := c.bounds(i)
	out := make([]any, 0, hi-lo)
	for j := lo; j < hi; j++ {
		out = append(out, c.Elems.Get(j))
	}
	return out
}

func (c *Arrays) bounds(i int) (int, int) {
	lo := 0
	if i > 0 {
		lo = int(c.Offsets[i-1])
	}
	return lo, int(c.Offsets[i])
}

// Maps is the Map(K, V) container: the same offset scheme as Arrays with
// key and value columns side by side.
type Maps struct {
	typ     string
	Offsets []uint64
	Keys    Column
	Vals    Column
}

func NewMaps(typ string, offsets []uint64, keys, vals Column) *Maps {
	return &Maps{typ: typ, Offsets: offsets, Keys: keys, Vals: vals}
}

func (c *Maps) Type() string { return c.typ }
func (c *Maps) Len() int     { return len(c.Offsets) }

func (c *Maps) Get(i int) any {
	lo := 0
	if i > 0 {
		lo = int(c.Offsets[i-1])
	}
	hi := int(c.Offsets[i])
	out := make(map[any]any, hi-lo)
	for j := lo; j < hi; j++ {
		out[c.Keys.Get(j)] = c.Vals.Get(j)
	}
	return out
}

// Tuples is a multi-field column. A named tuple yields a field map per
// row, a positional tuple an ordered slice.
type Tuples struct {
	typ    string
	Names  []string // empty for positional tuples
	Fields []Column
	rows   int
}

func NewTuples(typ string, names []string, fields []Column, rows int) *Tuples {
	return &Tuples{typ: typ, Names: names, Fields: fields, rows: rows}
}

func (c *Tuples) Type() string { return c.typ }
func (c *Tuples) Len() int     { return c.rows }

func (c *Tuples) Get(i int) any {
	if len(c.Names) > 0 {
		out := make(map[string]any, len(c.Fields))
		for f, col := range c.Fields {
			out[c.Names[f]] = col.Get(i)
		}
		return out
	}
	out := make([]any, len(c.Fields))
	for f, col := range c.Fields {
		out[f] = col.Get(i)
	}
	return out
}

// Discriminated is the tagged-union container behind Variant and Dynamic
// columns: a per-row discriminator plus, per distinct tag, a contiguous
// sub-column of only the rows carrying that tag. NullDiscr rows yield nil.
type Discriminated struct {
	typ      string
	Discrs   []uint8
	TypeOf   []string // descriptor per discriminator value
	Groups   []Column // indexed by discriminator; nil when the tag is absent
	GroupRow []int    // per row: index within its group
}

// NullDiscr is the discriminator reserved for null rows.
const NullDiscr = 0xFF

func NewDiscriminated(typ string, discrs []uint8, typeOf []string, groups []Column, groupRow []int) *Discriminated {
	return &Discriminated{typ: typ, Discrs: discrs, TypeOf: typeOf, Groups: groups, GroupRow: groupRow}
}

func (c *Discriminated) Type() string { return c.typ }
func (c *Discriminated) Len() int     { return len(c.Discrs) }

func (c *Discriminated) Get(i int) any {
	d := c.Discrs[i]
	if d == NullDiscr {
		return nil
	}
	return Tagged{
		Discr: d,
		Type:  c.TypeOf[d],
		Value: c.Groups[d].Get(c.GroupRow[i]),
	}
}
