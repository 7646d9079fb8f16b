package compress

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

// =============================================================================
// Chunk Round Trips
// =============================================================================

func compressible(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i / 64)
	}
	return data
}

func TestRoundTripAllMethods(t *testing.T) {
	data := compressible(4096)

	for _, method := range []Method{None, LZ4, ZSTD} {
		t.Run(method.String(), func(t *testing.T) {
			chunk, err := Compress(method, data)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Decompress(chunk)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, data) {
				t.Error("round trip changed the payload")
			}
		})
	}
}

func TestRoundTripEmptyPayload(t *testing.T) {
	for _, method := range []Method{None, LZ4, ZSTD} {
		chunk, err := Compress(method, nil)
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		got, err := Decompress(chunk)
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		if len(got) != 0 {
			t.Errorf("%s: got %d bytes", method, len(got))
		}
	}
}

func TestLZ4Shrinks(t *testing.T) {
	data := compressible(1 << 16)
	chunk, err := Compress(LZ4, data)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunk) >= len(data) {
		t.Errorf("lz4 chunk of %d bytes for %d input", len(chunk), len(data))
	}
	if Method(chunk[checksumSize]) != LZ4 {
		t.Errorf("method byte = 0x%02x", chunk[checksumSize])
	}
}

func TestLZ4IncompressibleFallsBackToStored(t *testing.T) {
	data := make([]byte, 4096)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}

	chunk, err := Compress(LZ4, data)
	if err != nil {
		t.Fatal(err)
	}
	if Method(chunk[checksumSize]) != None {
		t.Errorf("incompressible payload should be stored, method byte = 0x%02x", chunk[checksumSize])
	}
	got, err := Decompress(chunk)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("stored fallback changed the payload")
	}
}

// =============================================================================
// Envelope Layout
// =============================================================================

func TestEnvelopeSizes(t *testing.T) {
	data := []byte{1, 2, 3}
	chunk, err := Compress(None, data)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunk) != checksumSize+headerSize+len(data) {
		t.Fatalf("chunk length = %d", len(chunk))
	}
	if chunk[checksumSize] != byte(None) {
		t.Errorf("method byte = 0x%02x", chunk[checksumSize])
	}
	// declared compressed size includes the header, not the checksum
	if got := chunk[checksumSize+1]; got != byte(headerSize+len(data)) {
		t.Errorf("compressed size = %d", got)
	}
	if got := chunk[checksumSize+5]; got != byte(len(data)) {
		t.Errorf("uncompressed size = %d", got)
	}
}

// =============================================================================
// Corruption
// =============================================================================

func TestDecompressCorruptChecksum(t *testing.T) {
	chunk, err := Compress(None, []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	chunk[0] ^= 0xff

	_, err = Decompress(chunk)
	if !errors.Is(err, ErrChecksum) {
		t.Errorf("err = %v, want ErrChecksum", err)
	}
}

func TestDecompressCorruptPayload(t *testing.T) {
	chunk, err := Compress(None, []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	chunk[len(chunk)-1] ^= 0xff

	_, err = Decompress(chunk)
	if !errors.Is(err, ErrChecksum) {
		t.Errorf("err = %v, want ErrChecksum", err)
	}
}

func TestDecompressTruncated(t *testing.T) {
	for _, n := range []int{0, 1, checksumSize, checksumSize + headerSize - 1} {
		_, err := Decompress(make([]byte, n))
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("%d bytes: err = %v, want ErrTruncated", n, err)
		}
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	chunk, err := Compress(None, []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	// cut a payload byte; the declared compressed size no longer matches
	_, err = Decompress(chunk[:len(chunk)-1])
	if err == nil {
		t.Error("short chunk should not decompress")
	}
}

func TestCompressRejectsOversizedChunk(t *testing.T) {
	if _, err := Compress(None, make([]byte, MaxChunkSize+1)); err == nil {
		t.Error("chunk above the size limit should be rejected")
	}
}

func TestCompressUnknownMethod(t *testing.T) {
	if _, err := Compress(Method(0x42), []byte("x")); err == nil {
		t.Error("unknown method should be rejected")
	}
}

// =============================================================================
// Method Names
// =============================================================================

func TestMethodFromName(t *testing.T) {
	tests := []struct {
		name     string
		expected Method
		wantErr  bool
	}{
		{"none", None, false},
		{"", None, false},
		{"lz4", LZ4, false},
		{"zstd", ZSTD, false},
		{"gzip", 0, true},
	}

	for _, tt := range tests {
		m, err := MethodFromName(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q should not resolve", tt.name)
			}
			continue
		}
		if err != nil || m != tt.expected {
			t.Errorf("MethodFromName(%q) = %v, %v", tt.name, m, err)
		}
	}
}

func TestMethodString(t *testing.T) {
	if None.String() != "none" || LZ4.String() != "lz4" || ZSTD.String() != "zstd" {
		t.Error("method names changed")
	}
	if Method(0x42).String() != "method(0x42)" {
		t.Errorf("unknown method string = %s", Method(0x42).String())
	}
}
