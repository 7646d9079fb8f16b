package numeric

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// DecimalByteSize returns the storage width for a declared precision:
// 4, 8, 16 or 32 bytes.
func DecimalByteSize(precision int) (int, error) {
	switch {
	case precision <= 0:
		return 0, fmt.Errorf("numeric: invalid decimal precision %d", precision)
	case precision <= 9:
		return 4, nil
	case precision <= 18:
		return 8, nil
	case precision <= 38:
		return 16, nil
	case precision <= 76:
		return 32, nil
	default:
		return 0, fmt.Errorf("numeric: invalid decimal precision %d", precision)
	}
}

// ScaledFromValue converts v into the scaled integer representation of a
// Decimal(precision, scale) value. Accepted kinds: decimal.Decimal, string
// in canonical decimal notation, and Go integers. The fractional part is
// truncated to the declared scale; the scaled magnitude must stay below
// 10^precision.
func ScaledFromValue(typ string, v any, precision, scale int) (*big.Int, error) {
	var d decimal.Decimal
	switch val := v.(type) {
	case decimal.Decimal:
		d = val
	case string:
		parsed, err := decimal.NewFromString(val)
		if err != nil {
			return nil, coercionErr(typ, v, "not a decimal literal")
		}
		d = parsed
	case int:
		d = decimal.NewFromInt(int64(val))
	case int32:
		d = decimal.NewFromInt(int64(val))
	case int64:
		d = decimal.NewFromInt(val)
	case uint64:
		d = decimal.NewFromBigInt(new(big.Int).SetUint64(val), 0)
	case *big.Int:
		d = decimal.NewFromBigInt(val, 0)
	default:
		return nil, coercionErr(typ, v, "not a decimal")
	}
	scaled := d.Truncate(int32(scale)).Shift(int32(scale)).BigInt()
	limit := pow10Big(precision)
	if new(big.Int).Abs(scaled).Cmp(limit) >= 0 {
		return nil, rangeErr(typ, v, fmt.Sprintf("more than %d significant digits", precision))
	}
	return scaled, nil
}

// ScaledToDecimal converts a scaled integer back to its decimal value.
func ScaledToDecimal(scaled *big.Int, scale int) decimal.Decimal {
	return decimal.NewFromBigInt(scaled, -int32(scale))
}

func pow10Big(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
