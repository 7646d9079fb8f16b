package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// =============================================================================
// Sparse Encoding
// =============================================================================

func sparseColumn(t *testing.T, c Codec, values []any) column.Column {
	t.Helper()
	col, err := c.FromValues(values)
	require.NoError(t, err)
	return col
}

func TestEncodeSparseLayout(t *testing.T) {
	c := mustCodec(t, "Int64")
	col := sparseColumn(t, c, []any{int64(0), int64(0), int64(7), int64(0)})

	b := wire.NewBuffer(32)
	require.NoError(t, EncodeSparse(c, b, col))

	r := wire.NewReader(b.Bytes())
	gap, err := r.ReadVarint()
	require.NoError(t, err)
	require.Equal(t, uint64(2), gap, "two default rows before the value")

	v, err := r.ReadInt64()
	require.NoError(t, err)
	require.Equal(t, int64(7), v, "the value follows its gap entry directly")

	end, err := r.ReadVarint()
	require.NoError(t, err)
	require.NotZero(t, end&sparseEndBit)
	require.Equal(t, uint64(1), end&^sparseEndBit, "one trailing default row")
	require.Zero(t, r.Remaining())
}

func TestEncodeSparseAllDefaults(t *testing.T) {
	c := mustCodec(t, "Int64")
	col := sparseColumn(t, c, []any{int64(0), int64(0), int64(0)})

	b := wire.NewBuffer(16)
	require.NoError(t, EncodeSparse(c, b, col))

	r := wire.NewReader(b.Bytes())
	end, err := r.ReadVarint()
	require.NoError(t, err)
	require.Equal(t, uint64(3)|sparseEndBit, end)
	require.Zero(t, r.Remaining())
}

// =============================================================================
// Sparse Decoding
// =============================================================================

func decodeSparseRows(t *testing.T, c Codec, r *wire.Reader, rows int, st *DecodeState) column.Column {
	t.Helper()
	st.UseKinds(UniformKinds(c, SerSparse))
	col, err := Decode(c, r, rows, st)
	require.NoError(t, err)
	require.Equal(t, rows, col.Len())
	return col
}

func TestSparseRoundTrip(t *testing.T) {
	c := mustCodec(t, "Int64")
	values := []any{int64(0), int64(5), int64(0), int64(0), int64(9), int64(0)}

	b := wire.NewBuffer(64)
	require.NoError(t, EncodeSparse(c, b, sparseColumn(t, c, values)))

	col := decodeSparseRows(t, c, wire.NewReader(b.Bytes()), len(values), NewDecodeState())
	require.Equal(t, values, rows(col))
}

func TestSparseStringsRoundTrip(t *testing.T) {
	c := mustCodec(t, "String")
	values := []any{"", "", "hit", "", ""}

	b := wire.NewBuffer(32)
	require.NoError(t, EncodeSparse(c, b, sparseColumn(t, c, values)))

	col := decodeSparseRows(t, c, wire.NewReader(b.Bytes()), len(values), NewDecodeState())
	require.Equal(t, values, rows(col))
}

func TestSparseLongDefaultRun(t *testing.T) {
	c := mustCodec(t, "Int64")
	values := make([]any, 10001)
	for i := range values {
		values[i] = int64(0)
	}
	values[10000] = int64(1)

	b := wire.NewBuffer(64)
	require.NoError(t, EncodeSparse(c, b, sparseColumn(t, c, values)))

	col := decodeSparseRows(t, c, wire.NewReader(b.Bytes()), len(values), NewDecodeState())
	require.Equal(t, int64(0), col.Get(0))
	require.Equal(t, int64(0), col.Get(9999))
	require.Equal(t, int64(1), col.Get(10000))
}

// =============================================================================
// Runs Across Block Boundaries
// =============================================================================

func TestSparseRunStraddlesDecodeCalls(t *testing.T) {
	c := mustCodec(t, "Int64")
	total := 10001
	values := make([]any, total)
	for i := range values {
		values[i] = int64(0)
	}
	values[4000] = int64(7)
	values[9000] = int64(8)

	b := wire.NewBuffer(128)
	require.NoError(t, EncodeSparse(c, b, sparseColumn(t, c, values)))

	// splitting the same stream at arbitrary row boundaries must yield the
	// same rows as a whole-column decode, with the carry resuming the run
	for _, split := range []int{1, 3999, 4000, 4001, 5000, 9000, 10000} {
		st := NewDecodeState()
		r := wire.NewReader(b.Bytes())

		first := decodeSparseRows(t, c, r, split, st)
		second := decodeSparseRows(t, c, r, total-split, st)

		for i := 0; i < total; i++ {
			var got any
			if i < split {
				got = first.Get(i)
			} else {
				got = second.Get(i - split)
			}
			require.Equal(t, values[i], got, "split %d row %d", split, i)
		}
	}
}

func TestSparseDecodeRetriesAfterShortBuffer(t *testing.T) {
	c := mustCodec(t, "Int64")
	values := []any{int64(0), int64(5), int64(0), int64(9)}

	b := wire.NewBuffer(32)
	require.NoError(t, EncodeSparse(c, b, sparseColumn(t, c, values)))
	full := b.Bytes()

	// cut inside the first value's 8 bytes: the gap entry is readable but
	// the value is not
	cut := 5
	r := wire.NewReader(append([]byte(nil), full[:cut]...))
	st := NewDecodeState()
	st.UseKinds(UniformKinds(c, SerSparse))

	start := r.Offset()
	_, err := Decode(c, r, len(values), st)
	require.ErrorIs(t, err, wire.ErrShortBuffer)
	require.Empty(t, st.carry, "a failed call must leave no carry behind")

	// the streaming retry contract: append the rest, seek back, rerun the
	// same step with the same session
	r.Append(full[cut:])
	r.Seek(start)
	col, err := Decode(c, r, len(values), st)
	require.NoError(t, err)
	require.Equal(t, values, rows(col))
}

func TestSparseRowsAfterEndAreDefault(t *testing.T) {
	c := mustCodec(t, "Int64")
	values := []any{int64(3), int64(0)}

	b := wire.NewBuffer(32)
	require.NoError(t, EncodeSparse(c, b, sparseColumn(t, c, values)))

	// ask for more rows than the stream covers; everything past the end
	// entry materializes as the default
	st := NewDecodeState()
	col := decodeSparseRows(t, c, wire.NewReader(b.Bytes()), 5, st)
	require.Equal(t, []any{int64(3), int64(0), int64(0), int64(0), int64(0)}, rows(col))
}

func TestSparseNegativeZeroIsNotDefault(t *testing.T) {
	c := mustCodec(t, "Float64")
	negZero := math.Copysign(0, -1)

	b := wire.NewBuffer(32)
	require.NoError(t, EncodeSparse(c, b, sparseColumn(t, c, []any{0.0, negZero})))

	r := wire.NewReader(b.Bytes())
	gap, err := r.ReadVarint()
	require.NoError(t, err)
	require.Equal(t, uint64(1), gap, "negative zero must be stored explicitly")
}
