package vertiqa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertiqadb/vertiqa-go/compress"
)

// =============================================================================
// Engine Construction
// =============================================================================

func TestNewDefaults(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	require.NotNil(t, e.Registry())
	require.Equal(t, compress.LZ4, e.method)
}

func TestNewWithOptions(t *testing.T) {
	e, err := New(WithCacheSize(16), WithCompression(compress.ZSTD))
	require.NoError(t, err)
	require.Equal(t, compress.ZSTD, e.method)
}

func TestOpenWithoutConfigFile(t *testing.T) {
	e, err := Open("")
	require.NoError(t, err)
	require.Equal(t, compress.LZ4, e.method, "defaults apply when no file is found")
}

func TestOpenWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"registry:\n  cache_size: 32\ncompression:\n  method: zstd\nlogging:\n  level: debug\n  format: console\n",
	), 0o644))

	e, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, compress.ZSTD, e.method)
}

func TestOpenRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"compression:\n  method: gzip\n",
	), 0o644))

	_, err := Open(path)
	require.Error(t, err)
}

// =============================================================================
// Column Round Trips
// =============================================================================

func TestEncodeDecodeColumn(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	data, err := e.EncodeColumn("Int32", []any{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, data, 12)

	col, err := e.DecodeColumn("Int32", data, 3)
	require.NoError(t, err)
	require.Equal(t, 3, col.Len())
	require.Equal(t, int32(2), col.Get(1))
}

func TestEncodeColumnCompositeRoundTrip(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	values := []any{
		map[string]any{"id": int64(1), "tags": []any{"a", "b"}},
		map[string]any{"id": int64(2), "tags": []any{}},
	}
	typ := "Tuple(id Int64, tags Array(String))"

	data, err := e.EncodeColumn(typ, values)
	require.NoError(t, err)
	col, err := e.DecodeColumn(typ, data, 2)
	require.NoError(t, err)

	require.Equal(t, map[string]any{"id": int64(1), "tags": []any{"a", "b"}}, col.Get(0))
	require.Equal(t, map[string]any{"id": int64(2), "tags": []any{}}, col.Get(1))
}

func TestEncodeColumnUnknownType(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	_, err = e.EncodeColumn("NoSuchType", []any{1})
	require.Error(t, err)
}

// =============================================================================
// Block Envelope
// =============================================================================

func TestCompressDecompressBlock(t *testing.T) {
	e, err := New(WithCompression(compress.LZ4))
	require.NoError(t, err)

	data, err := e.EncodeColumn("String", []any{"hello", "hello", "hello", "hello"})
	require.NoError(t, err)

	chunk, err := e.CompressBlock(data)
	require.NoError(t, err)
	got, err := e.DecompressBlock(chunk)
	require.NoError(t, err)
	require.Equal(t, data, got)

	col, err := e.DecodeColumn("String", got, 4)
	require.NoError(t, err)
	require.Equal(t, "hello", col.Get(3))
}
