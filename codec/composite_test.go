package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// =============================================================================
// Nullable
// =============================================================================

func TestNullableCodecRoundTrip(t *testing.T) {
	col := roundTrip(t, "Nullable(Int32)", []any{1, nil, 3})
	require.Equal(t, []any{int32(1), nil, int32(3)}, rows(col))
}

func TestNullableCodecWireLayout(t *testing.T) {
	c := mustCodec(t, "Nullable(UInt8)")
	data := encodeValues(t, c, []any{7, nil, 9})
	// flag bytes first (1 = null), then the dense inner column with the
	// zero placeholder in the null slot
	require.Equal(t, []byte{0, 1, 0, 7, 0, 9}, data)
}

func TestNullableCodecAllNull(t *testing.T) {
	col := roundTrip(t, "Nullable(String)", []any{nil, nil})
	require.Equal(t, []any{nil, nil}, rows(col))
}

// =============================================================================
// Array
// =============================================================================

func TestArrayCodecRoundTrip(t *testing.T) {
	values := []any{
		[]any{int64(1), int64(2)},
		[]any{},
		[]any{int64(3)},
	}
	col := roundTrip(t, "Array(Int64)", values)
	require.Equal(t, []any{
		[]any{int64(1), int64(2)},
		[]any{},
		[]any{int64(3)},
	}, rows(col))
}

func TestArrayCodecOffsetsAreCumulative(t *testing.T) {
	c := mustCodec(t, "Array(UInt8)")
	data := encodeValues(t, c, []any{
		[]any{1, 2},
		[]any{},
		[]any{3, 4, 5},
	})
	// offsets 2, 2, 5 as uint64 LE, then the flattened elements
	require.Equal(t, []byte{
		2, 0, 0, 0, 0, 0, 0, 0,
		2, 0, 0, 0, 0, 0, 0, 0,
		5, 0, 0, 0, 0, 0, 0, 0,
		1, 2, 3, 4, 5,
	}, data)
}

func TestArrayCodecNested(t *testing.T) {
	values := []any{
		[]any{[]any{"a"}, []any{"b", "c"}},
		[]any{},
	}
	col := roundTrip(t, "Array(Array(String))", values)
	require.Equal(t, values, rows(col))
}

func TestArrayCodecDecreasingOffsets(t *testing.T) {
	b := wire.NewBuffer(16)
	b.WriteUint64(3)
	b.WriteUint64(1)

	c := mustCodec(t, "Array(UInt8)")
	_, err := c.DecodeDense(wire.NewReader(b.Bytes()), 2, NewDecodeState())
	require.Error(t, err)
	require.ErrorContains(t, err, "offsets decrease")
}

func TestArrayCodecOffsetExceedsBuffer(t *testing.T) {
	c := mustCodec(t, "Array(String)")

	// a single huge offset word is monotonic but can never be satisfied
	// by the bytes that follow; it must fail as corrupt data, not panic
	// and not surface as a retryable short read
	for _, offset := range []uint64{1 << 63, 1 << 40} {
		b := wire.NewBuffer(16)
		b.WriteUint64(offset)

		_, err := c.DecodeDense(wire.NewReader(b.Bytes()), 1, NewDecodeState())
		var ferr *FormatError
		require.ErrorAs(t, err, &ferr, "offset %d", offset)
		require.NotErrorIs(t, err, wire.ErrShortBuffer, "offset %d", offset)
	}
}

func TestMapCodecOffsetExceedsBuffer(t *testing.T) {
	c := mustCodec(t, "Map(String, UInt8)")
	b := wire.NewBuffer(16)
	b.WriteUint64(1 << 63)

	_, err := c.DecodeDense(wire.NewReader(b.Bytes()), 1, NewDecodeState())
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	require.NotErrorIs(t, err, wire.ErrShortBuffer)
}

func TestArrayCodecRejectsNonArray(t *testing.T) {
	c := mustCodec(t, "Array(Int32)")
	for _, v := range []any{nil, "x", 5} {
		col, err := c.FromValues([]any{v})
		require.NoError(t, err)
		require.Error(t, c.Encode(wire.NewBuffer(8), col), "%v should not encode", v)
	}
}

// =============================================================================
// Map
// =============================================================================

func TestMapCodecRoundTrip(t *testing.T) {
	values := []any{
		map[string]any{"a": 1, "b": 2},
		map[string]any{},
		map[string]any{"c": 3},
	}
	col := roundTrip(t, "Map(String, Int64)", values)

	got := col.Get(0).(map[any]any)
	require.Equal(t, map[any]any{"a": int64(1), "b": int64(2)}, got)
	require.Empty(t, col.Get(1).(map[any]any))
	require.Equal(t, map[any]any{"c": int64(3)}, col.Get(2).(map[any]any))
}

func TestMapCodecAnyKeys(t *testing.T) {
	col := roundTrip(t, "Map(UInt8, String)", []any{
		map[any]any{uint8(1): "one"},
	})
	require.Equal(t, map[any]any{uint8(1): "one"}, col.Get(0))
}

// =============================================================================
// Tuple
// =============================================================================

func TestTupleCodecPositional(t *testing.T) {
	values := []any{
		[]any{1, "alice"},
		[]any{2, "bob"},
	}
	col := roundTrip(t, "Tuple(Int32, String)", values)
	require.Equal(t, []any{
		[]any{int32(1), "alice"},
		[]any{int32(2), "bob"},
	}, rows(col))
}

func TestTupleCodecNamed(t *testing.T) {
	values := []any{
		map[string]any{"id": 1, "name": "alice"},
		map[string]any{"id": 2, "name": "bob"},
	}
	col := roundTrip(t, "Tuple(id Int32, name String)", values)
	require.Equal(t, []any{
		map[string]any{"id": int32(1), "name": "alice"},
		map[string]any{"id": int32(2), "name": "bob"},
	}, rows(col))
}

func TestTupleCodecColumnwiseLayout(t *testing.T) {
	c := mustCodec(t, "Tuple(UInt8, UInt8)")
	data := encodeValues(t, c, []any{
		[]any{1, 10},
		[]any{2, 20},
	})
	// all of field 0, then all of field 1
	require.Equal(t, []byte{1, 2, 10, 20}, data)
}

func TestTupleCodecElementCountMismatch(t *testing.T) {
	c := mustCodec(t, "Tuple(Int32, String)")
	col, err := c.FromValues([]any{[]any{1}})
	require.NoError(t, err)
	require.Error(t, c.Encode(wire.NewBuffer(8), col))
}

func TestNestedIsArrayOfTuples(t *testing.T) {
	c := mustCodec(t, "Nested(id Int32, tag String)")
	require.Equal(t, "Nested(id Int32, tag String)", c.Type())

	values := []any{
		[]any{
			map[string]any{"id": 1, "tag": "x"},
			map[string]any{"id": 2, "tag": "y"},
		},
		[]any{},
	}
	data := encodeValues(t, c, values)
	col := decodeValues(t, c, data, 2)

	first := col.Get(0).([]any)
	require.Len(t, first, 2)
	require.Equal(t, map[string]any{"id": int32(1), "tag": "x"}, first[0])
	require.Empty(t, col.Get(1).([]any))
}

// =============================================================================
// Multi-Column Blocks
// =============================================================================

// Encoding a batch of rows column by column and decoding them back is the
// engine's primary workload shape.
func TestColumnwiseBlockRoundTrip(t *testing.T) {
	types := []string{"Int32", "String", "Float64"}
	cols := [][]any{
		{1, 2},
		{"alice", "bob"},
		{1.5, 2.5},
	}

	b := wire.NewBuffer(64)
	for i, typ := range types {
		c := mustCodec(t, typ)
		col, err := c.FromValues(cols[i])
		require.NoError(t, err)
		require.NoError(t, c.Encode(b, col))
	}

	r := wire.NewReader(b.Bytes())
	st := NewDecodeState()
	var decoded []column.Column
	for _, typ := range types {
		col, err := mustCodec(t, typ).DecodeDense(r, 2, st)
		require.NoError(t, err)
		decoded = append(decoded, col)
	}
	require.Zero(t, r.Remaining())

	require.Equal(t, []any{int32(1), int32(2)}, rows(decoded[0]))
	require.Equal(t, []any{"alice", "bob"}, rows(decoded[1]))
	require.Equal(t, []any{1.5, 2.5}, rows(decoded[2]))
}
