package codec

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertiqadb/vertiqa-go/wire"
)

// =============================================================================
// LowCardinality
// =============================================================================

func TestLowCardinalityRoundTrip(t *testing.T) {
	values := []any{"a", "b", "a", "c", "b", "a"}
	col := roundTrip(t, "LowCardinality(String)", values)
	require.Equal(t, values, rows(col))
}

func TestLowCardinalityDictionaryIsDeduplicated(t *testing.T) {
	c := mustCodec(t, "LowCardinality(String)")
	data := encodeValues(t, c, []any{"a", "b", "a", "c", "b", "a"})

	r := wire.NewReader(data)
	flags, err := r.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(lcWidthUint8), flags)

	dictSize, err := r.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(3), dictSize, "three distinct values, three slots")

	// dictionary entries in first-seen order
	for _, want := range []string{"a", "b", "c"} {
		s, err := r.ReadString()
		require.NoError(t, err)
		require.Equal(t, want, s)
	}

	count, err := r.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(6), count)
	idx, err := r.ReadN(6)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 0, 2, 1, 0}, idx)
}

func TestLowCardinalityEmptyColumnHasNoHeader(t *testing.T) {
	c := mustCodec(t, "LowCardinality(String)")
	data := encodeValues(t, c, nil)
	require.Empty(t, data)

	col, err := c.DecodeDense(wire.NewReader(nil), 0, NewDecodeState())
	require.NoError(t, err)
	require.Zero(t, col.Len())
}

func TestLowCardinalityNullable(t *testing.T) {
	values := []any{"x", nil, "y", nil, "x"}
	col := roundTrip(t, "LowCardinality(Nullable(String))", values)
	require.Equal(t, values, rows(col))
}

func TestLowCardinalityNullableReservesIndexZero(t *testing.T) {
	c := mustCodec(t, "LowCardinality(Nullable(String))")
	data := encodeValues(t, c, []any{nil, "x"})

	r := wire.NewReader(data)
	_, err := r.ReadUint64() // flags
	require.NoError(t, err)
	dictSize, err := r.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(1), dictSize, "null never occupies a dictionary slot")

	_, err = r.ReadString() // "x"
	require.NoError(t, err)
	_, err = r.ReadUint64() // row count
	require.NoError(t, err)
	idx, err := r.ReadN(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1}, idx)
}

func TestLowCardinalityNullRejectedWhenNotNullable(t *testing.T) {
	c := mustCodec(t, "LowCardinality(String)")
	col, err := c.FromValues([]any{"a", nil})
	require.NoError(t, err)
	require.Error(t, c.Encode(wire.NewBuffer(16), col))
}

func TestLowCardinalityWidthEscalation(t *testing.T) {
	// 300 distinct values need a 16-bit index
	values := make([]any, 300)
	for i := range values {
		values[i] = "v" + strconv.Itoa(i)
	}
	c := mustCodec(t, "LowCardinality(String)")
	data := encodeValues(t, c, values)

	r := wire.NewReader(data)
	flags, err := r.ReadUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(lcWidthUint16), flags&0xFF)

	col := decodeValues(t, c, data, 300)
	require.Equal(t, values, rows(col))
}

func TestLowCardinalityIntegerInner(t *testing.T) {
	values := []any{7, 9, 7, 7}
	col := roundTrip(t, "LowCardinality(Int64)", values)
	require.Equal(t, []any{int64(7), int64(9), int64(7), int64(7)}, rows(col))
}

// =============================================================================
// Malformed Dictionaries
// =============================================================================

func TestLowCardinalityReservedFlagBits(t *testing.T) {
	b := wire.NewBuffer(16)
	b.WriteUint64(1 << 9)

	c := mustCodec(t, "LowCardinality(String)")
	_, err := c.DecodeDense(wire.NewReader(b.Bytes()), 1, NewDecodeState())
	require.Error(t, err)
	require.ErrorContains(t, err, "reserved")
}

func TestLowCardinalityUnknownWidthTag(t *testing.T) {
	b := wire.NewBuffer(16)
	b.WriteUint64(3)

	c := mustCodec(t, "LowCardinality(String)")
	_, err := c.DecodeDense(wire.NewReader(b.Bytes()), 1, NewDecodeState())
	require.Error(t, err)
	require.ErrorContains(t, err, "width tag")
}

func TestLowCardinalityIndexOutOfRange(t *testing.T) {
	b := wire.NewBuffer(32)
	b.WriteUint64(lcWidthUint8)
	b.WriteUint64(1)
	b.WriteString("a")
	b.WriteUint64(1)
	b.WriteUint8(5) // only slot 0 exists

	c := mustCodec(t, "LowCardinality(String)")
	_, err := c.DecodeDense(wire.NewReader(b.Bytes()), 1, NewDecodeState())
	require.Error(t, err)
	require.ErrorContains(t, err, "out of range")
}

func TestLowCardinalityRowCountMismatch(t *testing.T) {
	b := wire.NewBuffer(32)
	b.WriteUint64(lcWidthUint8)
	b.WriteUint64(1)
	b.WriteString("a")
	b.WriteUint64(4) // stored count disagrees with the caller's 2
	b.WriteUint8(0)
	b.WriteUint8(0)

	c := mustCodec(t, "LowCardinality(String)")
	_, err := c.DecodeDense(wire.NewReader(b.Bytes()), 2, NewDecodeState())
	require.Error(t, err)
	require.ErrorContains(t, err, "row count")
}
