// Package numeric implements the scalar primitives of the Native format:
// range-checked coercion into every fixed-width numeric domain, 128/256-bit
// integer wire I/O, scaled-decimal conversion and date/time tick math.
package numeric

import "fmt"

// CoercionError reports a value of the wrong kind for the target type:
// non-numeric where a number is required, non-integral where an integer is
// required, or an unsupported Go type. Raised eagerly, before any bytes are
// written for the value.
type CoercionError struct {
	Type   string
	Value  any
	Reason string
}

func (e *CoercionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot encode %v (%T) as %s: %s", e.Value, e.Value, e.Type, e.Reason)
	}
	return fmt.Sprintf("cannot encode %v (%T) as %s", e.Value, e.Value, e.Type)
}

// RangeError reports a value of the right kind whose magnitude falls
// outside the target type's representable domain.
type RangeError struct {
	Type   string
	Value  any
	Detail string
}

func (e *RangeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("value %v out of range for %s: %s", e.Value, e.Type, e.Detail)
	}
	return fmt.Sprintf("value %v out of range for %s", e.Value, e.Type)
}

func coercionErr(typ string, v any, reason string) error {
	return &CoercionError{Type: typ, Value: v, Reason: reason}
}

func rangeErr(typ string, v any, detail string) error {
	return &RangeError{Type: typ, Value: v, Detail: detail}
}
