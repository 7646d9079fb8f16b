package numeric

import (
	"fmt"
	"math"
	"math/big"
)

// Int64Value coerces v into [min, max]. Accepted kinds: any Go integer,
// float32/float64 holding an integral value, *big.Int. Wrong kind or a
// non-integral float is a CoercionError; right kind outside the bounds is
// a RangeError.
func Int64Value(typ string, v any, min, max int64) (int64, error) {
	switch val := v.(type) {
	case int:
		return clampInt64(typ, v, int64(val), min, max)
	case int8:
		return clampInt64(typ, v, int64(val), min, max)
	case int16:
		return clampInt64(typ, v, int64(val), min, max)
	case int32:
		return clampInt64(typ, v, int64(val), min, max)
	case int64:
		return clampInt64(typ, v, val, min, max)
	case uint:
		return clampUintAsInt64(typ, v, uint64(val), min, max)
	case uint8:
		return clampInt64(typ, v, int64(val), min, max)
	case uint16:
		return clampInt64(typ, v, int64(val), min, max)
	case uint32:
		return clampInt64(typ, v, int64(val), min, max)
	case uint64:
		return clampUintAsInt64(typ, v, val, min, max)
	case float32:
		return floatAsInt64(typ, v, float64(val), min, max)
	case float64:
		return floatAsInt64(typ, v, val, min, max)
	case *big.Int:
		if !val.IsInt64() {
			return 0, rangeErr(typ, v, boundsDetail(min, max))
		}
		return clampInt64(typ, v, val.Int64(), min, max)
	default:
		return 0, coercionErr(typ, v, "not an integer")
	}
}

func clampInt64(typ string, orig any, val, min, max int64) (int64, error) {
	if val < min || val > max {
		return 0, rangeErr(typ, orig, boundsDetail(min, max))
	}
	return val, nil
}

func clampUintAsInt64(typ string, orig any, val uint64, min, max int64) (int64, error) {
	if val > math.MaxInt64 {
		return 0, rangeErr(typ, orig, boundsDetail(min, max))
	}
	return clampInt64(typ, orig, int64(val), min, max)
}

func floatAsInt64(typ string, orig any, f float64, min, max int64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, coercionErr(typ, orig, "not an integral number")
	}
	// float64 cannot represent every int64 exactly; compare in float space
	// to reject magnitudes that would wrap on conversion.
	if f < -9.223372036854776e18 || f >= 9.223372036854776e18 {
		return 0, rangeErr(typ, orig, boundsDetail(min, max))
	}
	return clampInt64(typ, orig, int64(f), min, max)
}

func boundsDetail(min, max int64) string {
	return fmt.Sprintf("want %d..%d", min, max)
}

// Uint64Value coerces v into [0, max] for an unsigned target type.
func Uint64Value(typ string, v any, max uint64) (uint64, error) {
	switch val := v.(type) {
	case int:
		return clampSignedAsUint64(typ, v, int64(val), max)
	case int8:
		return clampSignedAsUint64(typ, v, int64(val), max)
	case int16:
		return clampSignedAsUint64(typ, v, int64(val), max)
	case int32:
		return clampSignedAsUint64(typ, v, int64(val), max)
	case int64:
		return clampSignedAsUint64(typ, v, val, max)
	case uint:
		return clampUint64(typ, v, uint64(val), max)
	case uint8:
		return clampUint64(typ, v, uint64(val), max)
	case uint16:
		return clampUint64(typ, v, uint64(val), max)
	case uint32:
		return clampUint64(typ, v, uint64(val), max)
	case uint64:
		return clampUint64(typ, v, val, max)
	case float32:
		return floatAsUint64(typ, v, float64(val), max)
	case float64:
		return floatAsUint64(typ, v, val, max)
	case *big.Int:
		if val.Sign() < 0 || !val.IsUint64() {
			return 0, rangeErr(typ, v, fmt.Sprintf("want 0..%d", max))
		}
		return clampUint64(typ, v, val.Uint64(), max)
	default:
		return 0, coercionErr(typ, v, "not an integer")
	}
}

func clampUint64(typ string, orig any, val, max uint64) (uint64, error) {
	if val > max {
		return 0, rangeErr(typ, orig, fmt.Sprintf("want 0..%d", max))
	}
	return val, nil
}

func clampSignedAsUint64(typ string, orig any, val int64, max uint64) (uint64, error) {
	if val < 0 {
		return 0, rangeErr(typ, orig, fmt.Sprintf("want 0..%d", max))
	}
	return clampUint64(typ, orig, uint64(val), max)
}

func floatAsUint64(typ string, orig any, f float64, max uint64) (uint64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, coercionErr(typ, orig, "not an integral number")
	}
	if f < 0 || f >= 1.8446744073709552e19 {
		return 0, rangeErr(typ, orig, fmt.Sprintf("want 0..%d", max))
	}
	return clampUint64(typ, orig, uint64(f), max)
}

// Float64Value coerces v into a float64. Integers convert; everything else
// is a CoercionError.
func Float64Value(typ string, v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int8:
		return float64(val), nil
	case int16:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint8:
		return float64(val), nil
	case uint16:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	default:
		return 0, coercionErr(typ, v, "not a number")
	}
}

// Float32Value coerces v into a float32.
func Float32Value(typ string, v any) (float32, error) {
	if f, ok := v.(float32); ok {
		return f, nil
	}
	f, err := Float64Value(typ, v)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

// BoolValue coerces v into a bool. Accepted: bool, numeric 0/1 and the
// literal strings "true"/"false"/"1"/"0".
func BoolValue(typ string, v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch val {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return false, coercionErr(typ, v, "not a boolean literal")
	default:
		n, err := Int64Value(typ, v, 0, 1)
		if err != nil {
			return false, coercionErr(typ, v, "not a boolean")
		}
		return n == 1, nil
	}
}

// StringValue coerces v into a string; only string and []byte are accepted.
func StringValue(typ string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	default:
		return "", coercionErr(typ, v, "not a string")
	}
}
