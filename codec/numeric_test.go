package codec

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// =============================================================================
// Machine Integers
// =============================================================================

func TestIntCodecRoundTrips(t *testing.T) {
	tests := []struct {
		typ      string
		values   []any
		expected []any
	}{
		{"Int8", []any{-128, 0, 127}, []any{int8(-128), int8(0), int8(127)}},
		{"Int16", []any{-32768, 32767}, []any{int16(-32768), int16(32767)}},
		{"Int32", []any{-1, 42}, []any{int32(-1), int32(42)}},
		{"Int64", []any{int64(math.MinInt64), int64(math.MaxInt64)}, []any{int64(math.MinInt64), int64(math.MaxInt64)}},
		{"UInt8", []any{0, 255}, []any{uint8(0), uint8(255)}},
		{"UInt16", []any{65535}, []any{uint16(65535)}},
		{"UInt32", []any{4294967295}, []any{uint32(4294967295)}},
		{"UInt64", []any{uint64(math.MaxUint64)}, []any{uint64(math.MaxUint64)}},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			col := roundTrip(t, tt.typ, tt.values)
			require.Equal(t, tt.expected, rows(col))
		})
	}
}

func TestIntCodecWireBytes(t *testing.T) {
	c := mustCodec(t, "Int32")
	data := encodeValues(t, c, []any{1, -1})
	require.Equal(t, []byte{
		0x01, 0x00, 0x00, 0x00,
		0xff, 0xff, 0xff, 0xff,
	}, data)
}

func TestIntCodecRangeError(t *testing.T) {
	c := mustCodec(t, "UInt8")
	col, err := c.FromValues([]any{256})
	require.NoError(t, err)

	err = c.Encode(wire.NewBuffer(8), col)
	var rerr *numeric.RangeError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, "UInt8", rerr.Type)
}

func TestIntCodecNativeFastPath(t *testing.T) {
	c := mustCodec(t, "Int64")
	native := column.NewNumeric[int64]("Int64", []int64{7, -9}, false)

	b := wire.NewBuffer(16)
	require.NoError(t, c.Encode(b, native))
	got := decodeValues(t, c, b.Bytes(), 2)
	require.Equal(t, []any{int64(7), int64(-9)}, rows(got))
}

// =============================================================================
// Wide Integers
// =============================================================================

func TestBigIntCodecRoundTrips(t *testing.T) {
	tests := []struct {
		typ    string
		values []*big.Int
	}{
		{"Int128", []*big.Int{big.NewInt(0), big.NewInt(-1), numeric.MaxInt128, numeric.MinInt128}},
		{"UInt128", []*big.Int{big.NewInt(0), numeric.MaxUint128}},
		{"Int256", []*big.Int{numeric.MinInt256, numeric.MaxInt256}},
		{"UInt256", []*big.Int{numeric.MaxUint256}},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			values := make([]any, len(tt.values))
			for i, v := range tt.values {
				values[i] = v
			}
			col := roundTrip(t, tt.typ, values)
			for i, want := range tt.values {
				got := col.Get(i).(*big.Int)
				require.Zero(t, want.Cmp(got), "row %d: %s != %s", i, got, want)
			}
		})
	}
}

func TestBigIntCodecWidth(t *testing.T) {
	c := mustCodec(t, "Int128")
	data := encodeValues(t, c, []any{big.NewInt(1)})
	require.Len(t, data, 16)

	c = mustCodec(t, "UInt256")
	data = encodeValues(t, c, []any{big.NewInt(1)})
	require.Len(t, data, 32)
}

// =============================================================================
// Floats
// =============================================================================

func TestFloatCodecRoundTrips(t *testing.T) {
	col := roundTrip(t, "Float64", []any{1.5, -0.25, math.Inf(1)})
	require.Equal(t, []any{1.5, -0.25, math.Inf(1)}, rows(col))

	col = roundTrip(t, "Float32", []any{float32(2.5)})
	require.Equal(t, []any{float32(2.5)}, rows(col))
}

func TestFloat64NaNPayloadSurvivesReencode(t *testing.T) {
	payload := uint64(0x7ff8dead_beef0001)
	c := mustCodec(t, "Float64")

	b := wire.NewBuffer(8)
	b.WriteUint64(payload)
	col := decodeValues(t, c, b.Bytes(), 1)
	require.True(t, math.IsNaN(col.Get(0).(float64)))

	// re-encoding the decoded column must emit the identical bit pattern
	out := wire.NewBuffer(8)
	require.NoError(t, c.Encode(out, col))
	require.Equal(t, b.Bytes(), out.Bytes())
}

// =============================================================================
// Bool
// =============================================================================

func TestBoolCodec(t *testing.T) {
	c := mustCodec(t, "Bool")
	data := encodeValues(t, c, []any{true, false, true})
	require.Equal(t, []byte{1, 0, 1}, data)

	col := decodeValues(t, c, data, 3)
	require.Equal(t, []any{true, false, true}, rows(col))
}

func TestBoolCodecRejectsOutOfDomainInt(t *testing.T) {
	c := mustCodec(t, "Bool")
	col, err := c.FromValues([]any{2})
	require.NoError(t, err)
	require.Error(t, c.Encode(wire.NewBuffer(4), col))
}
