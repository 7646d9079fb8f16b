package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrShortBuffer signals that the buffer does not hold enough bytes to
// complete the current read. It is the only retryable decode error: a
// streaming caller saves the cursor offset before a decode step, and on
// ErrShortBuffer appends more input, seeks back and retries the same step.
var ErrShortBuffer = errors.New("wire: short buffer")

// Reader is a bounds-checked cursor over a byte slice. Every read of N
// bytes first checks that N bytes remain and returns ErrShortBuffer
// otherwise; the cursor never reads out of bounds and is left unspecified
// (but in bounds) after an error.
type Reader struct {
	data []byte
	off  int
}

// NewReader creates a cursor positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.off
}

// Seek moves the cursor to off. Used by streaming callers to rewind to the
// position saved before a decode step that hit ErrShortBuffer.
func (r *Reader) Seek(off int) {
	if off < 0 {
		off = 0
	}
	if off > len(r.data) {
		off = len(r.data)
	}
	r.off = off
}

// Append adds more input at the end of the underlying buffer.
func (r *Reader) Append(p []byte) {
	r.data = append(r.data, p...)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

func (r *Reader) require(n int) error {
	if n < 0 || r.off+n > len(r.data) {
		return ErrShortBuffer
	}
	return nil
}

// ReadN returns the next n bytes as a view into the underlying buffer.
func (r *Reader) ReadN(n int) ([]byte, error) {
	if err := r.require(n); err != nil {
		return nil, err
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// ReadByte returns the next byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.ReadN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.ReadN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.ReadN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

// ReadInt16 reads a little-endian int16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a little-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads little-endian IEEE-754 bits.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads little-endian IEEE-754 bits.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadVarint reads a base-128 varint. Running out of bytes before the
// terminating byte is ErrShortBuffer; an encoding longer than MaxVarintLen
// bytes is malformed input.
func (r *Reader) ReadVarint() (uint64, error) {
	v, n := ReadVarint(r.data[r.off:])
	if n == 0 {
		return 0, ErrShortBuffer
	}
	if n < 0 {
		return 0, errors.New("wire: varint exceeds 10 bytes")
	}
	r.off += n
	return v, nil
}

// ReadString reads a varint length prefix followed by that many bytes.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return "", err
	}
	if n > uint64(r.Remaining()) {
		return "", ErrShortBuffer
	}
	b, err := r.ReadN(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
