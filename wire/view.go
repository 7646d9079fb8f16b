package wire

import "unsafe"

// Fixed is the set of fixed-width machine types a column view can carry.
type Fixed interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// NumericView reads n values of type T from the cursor. When the source
// bytes are aligned to the element size the returned slice aliases the
// reader's buffer (borrowed == true); otherwise the values are copied into
// a freshly allocated, naturally aligned slice. Multi-byte elements are
// interpreted little-endian, matching the wire layout.
func NumericView[T Fixed](r *Reader, n int) (vals []T, borrowed bool, err error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	b, err := r.ReadN(n * size)
	if err != nil {
		return nil, false, err
	}
	if n == 0 {
		return nil, false, nil
	}
	if uintptr(unsafe.Pointer(&b[0]))%uintptr(size) == 0 {
		return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n), true, nil
	}
	out := make([]T, n)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), n*size), b)
	return out, false, nil
}

// AppendNumeric writes vals as a contiguous little-endian array. The
// element bytes are appended directly from the slice's backing storage.
func AppendNumeric[T Fixed](w *Buffer, vals []T) {
	if len(vals) == 0 {
		return
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	w.WriteRaw(unsafe.Slice((*byte)(unsafe.Pointer(&vals[0])), len(vals)*size))
}
