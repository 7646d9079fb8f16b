package numeric

import (
	"time"
)

// The wire stores Date as an unsigned day count, Date32 as a signed day
// count, DateTime as an unsigned second count and DateTime64 as a tick
// count at the declared precision.

const (
	secondsPerDay = 86400
	maxDateDays   = 65535
	minDate32Days = -25567 // 1900-01-01
	maxDate32Days = 120529 // 2299-12-31
)

// DateDays coerces v (time.Time or an integer day count) into the Date
// domain.
func DateDays(typ string, v any) (uint16, error) {
	days, err := dayCount(typ, v)
	if err != nil {
		return 0, err
	}
	if days < 0 || days > maxDateDays {
		return 0, rangeErr(typ, v, "outside 1970-01-01..2149-06-06")
	}
	return uint16(days), nil
}

// Date32Days coerces v into the Date32 domain (pre-epoch capable).
func Date32Days(typ string, v any) (int32, error) {
	days, err := dayCount(typ, v)
	if err != nil {
		return 0, err
	}
	if days < minDate32Days || days > maxDate32Days {
		return 0, rangeErr(typ, v, "outside 1900-01-01..2299-12-31")
	}
	return int32(days), nil
}

func dayCount(typ string, v any) (int64, error) {
	if t, ok := v.(time.Time); ok {
		return floorDiv(t.Unix(), secondsPerDay), nil
	}
	return Int64Value(typ, v, minDate32Days, maxDateDays)
}

// DateTimeSeconds coerces v (time.Time or an integer second count) into
// the DateTime domain.
func DateTimeSeconds(typ string, v any) (uint32, error) {
	if t, ok := v.(time.Time); ok {
		s := t.Unix()
		if s < 0 || s > 4294967295 {
			return 0, rangeErr(typ, v, "outside the 32-bit epoch range")
		}
		return uint32(s), nil
	}
	s, err := Uint64Value(typ, v, 4294967295)
	if err != nil {
		return 0, err
	}
	return uint32(s), nil
}

var pow10 = [...]int64{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000}

// DateTime64Ticks coerces v (time.Time or an integer millisecond
// timestamp) into a tick count at the given precision. Precision 3 is
// milliseconds; above 3 multiplies, below 3 divides with integer floor
// division so the scaling is never a silent no-op.
func DateTime64Ticks(typ string, v any, precision int) (int64, error) {
	var ms int64
	switch t := v.(type) {
	case time.Time:
		if precision > 3 {
			// Sub-millisecond precision comes straight from the nanosecond
			// clock to avoid a lossy millisecond intermediate.
			ns := t.UnixNano()
			return floorDiv(ns, pow10[9-precision]), nil
		}
		ms = t.UnixMilli()
	default:
		n, err := Int64Value(typ, v, -9223372036854775808, 9223372036854775807)
		if err != nil {
			return 0, err
		}
		ms = n
	}
	if precision >= 3 {
		return ms * pow10[precision-3], nil
	}
	return floorDiv(ms, pow10[3-precision]), nil
}

// TicksToTime converts a stored tick count back to wall-clock time in loc.
func TicksToTime(ticks int64, precision int, loc *time.Location) time.Time {
	ns := ticks * pow10[9-precision]
	return time.Unix(floorDiv(ns, 1e9), mod(ns, 1e9)).In(loc)
}

// DaysToTime converts a stored day count to midnight UTC of that day.
func DaysToTime(days int64) time.Time {
	return time.Unix(days*secondsPerDay, 0).UTC()
}

// SecondsToTime converts a stored second count to wall-clock time in loc.
func SecondsToTime(s int64, loc *time.Location) time.Time {
	return time.Unix(s, 0).In(loc)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
