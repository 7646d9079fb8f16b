package numeric

import (
	"math/big"

	"github.com/vertiqadb/vertiqa-go/wire"
)

// Domain bounds for the wide integer types.
var (
	MaxUint128 = bigShift(1, 128, -1) // 2^128 - 1
	MaxInt128  = bigShift(1, 127, -1)
	MinInt128  = new(big.Int).Neg(bigShift(1, 127, 0))
	MaxUint256 = bigShift(1, 256, -1)
	MaxInt256  = bigShift(1, 255, -1)
	MinInt256  = new(big.Int).Neg(bigShift(1, 255, 0))
)

func bigShift(base int64, bits uint, add int64) *big.Int {
	x := new(big.Int).Lsh(big.NewInt(base), bits)
	return x.Add(x, big.NewInt(add))
}

// BigIntValue coerces v into a *big.Int bounded by [min, max]. The result
// is a fresh value; the input is never aliased.
func BigIntValue(typ string, v any, min, max *big.Int) (*big.Int, error) {
	var x *big.Int
	switch val := v.(type) {
	case *big.Int:
		x = new(big.Int).Set(val)
	case big.Int:
		x = new(big.Int).Set(&val)
	case int:
		x = big.NewInt(int64(val))
	case int8:
		x = big.NewInt(int64(val))
	case int16:
		x = big.NewInt(int64(val))
	case int32:
		x = big.NewInt(int64(val))
	case int64:
		x = big.NewInt(val)
	case uint:
		x = new(big.Int).SetUint64(uint64(val))
	case uint8:
		x = big.NewInt(int64(val))
	case uint16:
		x = big.NewInt(int64(val))
	case uint32:
		x = big.NewInt(int64(val))
	case uint64:
		x = new(big.Int).SetUint64(val)
	default:
		return nil, coercionErr(typ, v, "not an integer")
	}
	if x.Cmp(min) < 0 || x.Cmp(max) > 0 {
		return nil, rangeErr(typ, v, "exceeds "+typ+" bounds")
	}
	return x, nil
}

// WriteBigInt writes x as `words` consecutive little-endian 64-bit words
// in two's complement. x must already be range-checked for the target
// width; sign handling wraps negatives modulo 2^(64*words).
func WriteBigInt(w *wire.Buffer, x *big.Int, words int) {
	bits := uint(words * 64)
	t := x
	if x.Sign() < 0 {
		t = new(big.Int).Add(x, bigShift(1, bits, 0))
	}
	be := make([]byte, words*8)
	t.FillBytes(be)
	for i := len(be) - 1; i >= 0; i-- {
		w.WriteUint8(be[i])
	}
}

// ReadBigInt reads `words` little-endian 64-bit words. Sign extension is
// applied from the most significant word only when signed is set.
func ReadBigInt(r *wire.Reader, words int, signed bool) (*big.Int, error) {
	le, err := r.ReadN(words * 8)
	if err != nil {
		return nil, err
	}
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	x := new(big.Int).SetBytes(be)
	if signed && len(be) > 0 && be[0]&0x80 != 0 {
		x.Sub(x, bigShift(1, uint(words*64), 0))
	}
	return x, nil
}
