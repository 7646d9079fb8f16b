package codec

import "fmt"

// FormatError reports structurally invalid wire data or an invalid type
// descriptor: unknown type names, unsupported header versions, offset or
// count inconsistencies. Format errors are fatal for the current decode;
// only wire.ErrShortBuffer is retryable.
type FormatError struct {
	Type string
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Type == "" {
		return "codec: " + e.Msg
	}
	return fmt.Sprintf("codec: %s: %s", e.Type, e.Msg)
}

func formatErr(typ, format string, args ...any) error {
	return &FormatError{Type: typ, Msg: fmt.Sprintf(format, args...)}
}
