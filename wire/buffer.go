// Package wire implements the byte-level I/O layer of the Native columnar
// format: a growable little-endian write buffer, a bounds-checked read
// cursor, base-128 varints and alignment-gated zero-copy numeric views.
package wire

import (
	"encoding/binary"
	"math"
)

// MaxVarintLen is the longest base-128 encoding of a 64-bit value.
const MaxVarintLen = 10

// Buffer is a growable byte buffer for encoding column data.
// All multi-byte integers are written little-endian.
type Buffer struct {
	b []byte
}

// NewBuffer creates a buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{b: make([]byte, 0, capacity)}
}

// Bytes returns the encoded bytes. The slice aliases the buffer's storage
// and is only valid until the next write.
func (w *Buffer) Bytes() []byte {
	return w.b
}

// Len returns the number of bytes written so far.
func (w *Buffer) Len() int {
	return len(w.b)
}

// Reset truncates the buffer to zero length, keeping its storage.
func (w *Buffer) Reset() {
	w.b = w.b[:0]
}

// grow makes room for n more bytes, doubling capacity until it fits and
// copying existing content.
func (w *Buffer) grow(n int) {
	need := len(w.b) + n
	if need <= cap(w.b) {
		return
	}
	newCap := cap(w.b) * 2
	if newCap == 0 {
		newCap = 64
	}
	for newCap < need {
		newCap *= 2
	}
	nb := make([]byte, len(w.b), newCap)
	copy(nb, w.b)
	w.b = nb
}

// WriteRaw appends p verbatim.
func (w *Buffer) WriteRaw(p []byte) {
	w.grow(len(p))
	w.b = append(w.b, p...)
}

// WriteZeros appends n zero bytes.
func (w *Buffer) WriteZeros(n int) {
	w.grow(n)
	for i := 0; i < n; i++ {
		w.b = append(w.b, 0)
	}
}

// WriteUint8 appends a single byte.
func (w *Buffer) WriteUint8(c byte) {
	w.grow(1)
	w.b = append(w.b, c)
}

// WriteUint16 appends v little-endian.
func (w *Buffer) WriteUint16(v uint16) {
	w.grow(2)
	w.b = binary.LittleEndian.AppendUint16(w.b, v)
}

// WriteUint32 appends v little-endian.
func (w *Buffer) WriteUint32(v uint32) {
	w.grow(4)
	w.b = binary.LittleEndian.AppendUint32(w.b, v)
}

// WriteUint64 appends v little-endian.
func (w *Buffer) WriteUint64(v uint64) {
	w.grow(8)
	w.b = binary.LittleEndian.AppendUint64(w.b, v)
}

// WriteInt8 appends v as one byte.
func (w *Buffer) WriteInt8(v int8) {
	w.WriteUint8(byte(v))
}

// WriteInt16 appends v little-endian.
func (w *Buffer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteInt32 appends v little-endian.
func (w *Buffer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteInt64 appends v little-endian.
func (w *Buffer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

// WriteFloat32 appends the IEEE-754 bits of v little-endian.
func (w *Buffer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 appends the IEEE-754 bits of v little-endian.
func (w *Buffer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// WriteVarint appends v in base-128 continuation encoding
// (7 data bits per byte, high bit set while more bytes follow).
func (w *Buffer) WriteVarint(v uint64) {
	w.grow(MaxVarintLen)
	w.b = AppendVarint(w.b, v)
}

// WriteString appends a varint length prefix followed by the raw bytes of s.
// One length byte is reserved up front and the text encoded in place; only
// when the length needs more than one prefix byte is the text shifted right
// to make room, so the common short-string case takes a single pass.
func (w *Buffer) WriteString(s string) {
	w.grow(1 + len(s) + MaxVarintLen)
	start := len(w.b)
	w.b = append(w.b, 0)
	w.b = append(w.b, s...)
	if len(s) < 0x80 {
		w.b[start] = byte(len(s))
		return
	}
	var prefix [MaxVarintLen]byte
	n := len(AppendVarint(prefix[:0], uint64(len(s))))
	w.b = w.b[:start+n+len(s)]
	copy(w.b[start+n:], w.b[start+1:start+1+len(s)])
	copy(w.b[start:], prefix[:n])
}

// AppendVarint appends a variable-length encoded uint64 to buf.
func AppendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// ReadVarint reads a variable-length encoded uint64 from data.
// Returns the value and the number of bytes read; n == 0 means data was
// exhausted before the terminating byte and n < 0 means the encoding
// exceeded MaxVarintLen bytes.
func ReadVarint(data []byte) (uint64, int) {
	var x uint64
	var s uint
	for i, b := range data {
		if i == MaxVarintLen {
			return 0, -1
		}
		if b < 0x80 {
			return x | uint64(b)<<s, i + 1
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
	return 0, 0
}
