// Package compress implements the block envelope around encoded column
// data: a CityHash128 checksum followed by a method byte, the compressed
// and uncompressed sizes, and the payload. It is the boundary collaborator
// of the codec layer; the codec itself never sees envelope bytes.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/go-faster/city"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/vertiqadb/vertiqa-go/internal/logging"
)

// Method identifies the compression applied to a chunk's payload.
type Method byte

const (
	None Method = 0x02
	LZ4  Method = 0x82
	ZSTD Method = 0x90
)

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	}
	return fmt.Sprintf("method(0x%02x)", byte(m))
}

// MethodFromName resolves a configuration name to a Method.
func MethodFromName(name string) (Method, error) {
	switch name {
	case "none", "":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	}
	return 0, fmt.Errorf("compress: unknown method %q", name)
}

const (
	checksumSize = 16
	// headerSize covers the method byte and the two size words; the
	// declared compressed size includes these bytes.
	headerSize = 9
	// MaxChunkSize bounds the declared uncompressed size of a single
	// chunk, guarding allocation against corrupt headers.
	MaxChunkSize = 1 << 30
)

var (
	ErrChecksum  = errors.New("compress: checksum mismatch")
	ErrTruncated = errors.New("compress: truncated chunk")
)

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
)

func zstdCoders() (*zstd.Encoder, *zstd.Decoder) {
	zstdOnce.Do(func() {
		zstdEnc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		zstdDec, _ = zstd.NewReader(nil)
	})
	return zstdEnc, zstdDec
}

// Compress wraps data in a chunk envelope using the given method. An LZ4
// payload that does not shrink falls back to the stored method.
func Compress(method Method, data []byte) ([]byte, error) {
	if len(data) > MaxChunkSize {
		return nil, fmt.Errorf("compress: chunk of %d bytes exceeds limit %d", len(data), MaxChunkSize)
	}
	var payload []byte
	switch method {
	case None:
		payload = data
	case LZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		var c lz4.Compressor
		n, err := c.CompressBlock(data, dst)
		if err != nil {
			return nil, fmt.Errorf("compress: lz4: %w", err)
		}
		if n == 0 || n >= len(data) {
			// incompressible block, store it
			logging.Debug("incompressible chunk stored raw", "size", len(data))
			method = None
			payload = data
		} else {
			payload = dst[:n]
		}
	case ZSTD:
		enc, _ := zstdCoders()
		payload = enc.EncodeAll(data, nil)
	default:
		return nil, fmt.Errorf("compress: unknown method 0x%02x", byte(method))
	}
	chunk := make([]byte, checksumSize+headerSize+len(payload))
	chunk[checksumSize] = byte(method)
	binary.LittleEndian.PutUint32(chunk[checksumSize+1:], uint32(headerSize+len(payload)))
	binary.LittleEndian.PutUint32(chunk[checksumSize+5:], uint32(len(data)))
	copy(chunk[checksumSize+headerSize:], payload)
	sum := city.CH128(chunk[checksumSize:])
	binary.LittleEndian.PutUint64(chunk[0:], sum.Low)
	binary.LittleEndian.PutUint64(chunk[8:], sum.High)
	return chunk, nil
}

// Decompress unwraps a chunk envelope, verifying the checksum and the
// declared sizes before returning the original bytes.
func Decompress(chunk []byte) ([]byte, error) {
	if len(chunk) < checksumSize+headerSize {
		return nil, ErrTruncated
	}
	compressedSize := binary.LittleEndian.Uint32(chunk[checksumSize+1:])
	if uint64(compressedSize) != uint64(len(chunk)-checksumSize) {
		return nil, fmt.Errorf("compress: declared compressed size %d, chunk carries %d bytes",
			compressedSize, len(chunk)-checksumSize)
	}
	sum := city.CH128(chunk[checksumSize:])
	if sum.Low != binary.LittleEndian.Uint64(chunk[0:]) ||
		sum.High != binary.LittleEndian.Uint64(chunk[8:]) {
		return nil, ErrChecksum
	}
	method := Method(chunk[checksumSize])
	uncompressedSize := binary.LittleEndian.Uint32(chunk[checksumSize+5:])
	if uncompressedSize > MaxChunkSize {
		return nil, fmt.Errorf("compress: declared uncompressed size %d exceeds limit %d",
			uncompressedSize, MaxChunkSize)
	}
	payload := chunk[checksumSize+headerSize:]
	switch method {
	case None:
		if len(payload) != int(uncompressedSize) {
			return nil, fmt.Errorf("compress: stored chunk declares %d bytes, carries %d",
				uncompressedSize, len(payload))
		}
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	case LZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("compress: lz4: %w", err)
		}
		if n != int(uncompressedSize) {
			return nil, fmt.Errorf("compress: lz4 chunk declares %d bytes, yields %d", uncompressedSize, n)
		}
		return out, nil
	case ZSTD:
		_, dec := zstdCoders()
		out, err := dec.DecodeAll(payload, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("compress: zstd: %w", err)
		}
		if len(out) != int(uncompressedSize) {
			return nil, fmt.Errorf("compress: zstd chunk declares %d bytes, yields %d", uncompressedSize, len(out))
		}
		return out, nil
	}
	return nil, fmt.Errorf("compress: unknown method 0x%02x", byte(chunk[checksumSize]))
}
