package codec

import (
	"net/netip"

	"github.com/google/uuid"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// uuidCodec stores two 8-byte halves, each byte-reversed, matching the
// wire's historical layout.
type uuidCodec struct{}

func (c *uuidCodec) Type() string      { return "UUID" }
func (c *uuidCodec) Children() []Codec { return nil }
func (c *uuidCodec) Zero() any         { return uuid.UUID{} }

func (c *uuidCodec) FromValues(values []any) (column.Column, error) {
	return fromValues("UUID", values)
}

func (c *uuidCodec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		u, err := uuidValue(col.Get(i))
		if err != nil {
			return err
		}
		for j := 7; j >= 0; j-- {
			b.WriteUint8(u[j])
		}
		for j := 15; j >= 8; j-- {
			b.WriteUint8(u[j])
		}
	}
	return nil
}

func (c *uuidCodec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	values := make([]any, rows)
	for i := range values {
		raw, err := r.ReadN(16)
		if err != nil {
			return nil, err
		}
		var u uuid.UUID
		for j := 0; j < 8; j++ {
			u[j] = raw[7-j]
			u[8+j] = raw[15-j]
		}
		values[i] = u
	}
	return column.NewValues("UUID", values), nil
}

func uuidValue(v any) (uuid.UUID, error) {
	switch val := v.(type) {
	case uuid.UUID:
		return val, nil
	case string:
		u, err := uuid.Parse(val)
		if err != nil {
			return uuid.UUID{}, &numeric.CoercionError{Type: "UUID", Value: v, Reason: "not a UUID literal"}
		}
		return u, nil
	default:
		return uuid.UUID{}, &numeric.CoercionError{Type: "UUID", Value: v, Reason: "not a UUID"}
	}
}

// ipv4Codec stores the 4-byte network-order packed address as a
// little-endian uint32, which on the wire is the four octets reversed.
type ipv4Codec struct{}

func (c *ipv4Codec) Type() string      { return "IPv4" }
func (c *ipv4Codec) Children() []Codec { return nil }
func (c *ipv4Codec) Zero() any         { return netip.AddrFrom4([4]byte{}) }

func (c *ipv4Codec) FromValues(values []any) (column.Column, error) {
	return fromValues("IPv4", values)
}

func (c *ipv4Codec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		addr, err := addrValue("IPv4", col.Get(i))
		if err != nil {
			return err
		}
		if !addr.Is4() {
			return &numeric.CoercionError{Type: "IPv4", Value: col.Get(i), Reason: "not an IPv4 address"}
		}
		oct := addr.As4()
		b.WriteUint8(oct[3])
		b.WriteUint8(oct[2])
		b.WriteUint8(oct[1])
		b.WriteUint8(oct[0])
	}
	return nil
}

func (c *ipv4Codec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	values := make([]any, rows)
	for i := range values {
		raw, err := r.ReadN(4)
		if err != nil {
			return nil, err
		}
		values[i] = netip.AddrFrom4([4]byte{raw[3], raw[2], raw[1], raw[0]})
	}
	return column.NewValues("IPv4", values), nil
}

// ipv6Codec stores 16 bytes big-endian.
type ipv6Codec struct{}

func (c *ipv6Codec) Type() string      { return "IPv6" }
func (c *ipv6Codec) Children() []Codec { return nil }
func (c *ipv6Codec) Zero() any         { return netip.AddrFrom16([16]byte{}) }

func (c *ipv6Codec) FromValues(values []any) (column.Column, error) {
	return fromValues("IPv6", values)
}

func (c *ipv6Codec) Encode(b *wire.Buffer, col column.Column) error {
	for i := 0; i < col.Len(); i++ {
		addr, err := addrValue("IPv6", col.Get(i))
		if err != nil {
			return err
		}
		raw := addr.As16()
		b.WriteRaw(raw[:])
	}
	return nil
}

func (c *ipv6Codec) DecodeDense(r *wire.Reader, rows int, _ *DecodeState) (column.Column, error) {
	values := make([]any, rows)
	for i := range values {
		raw, err := r.ReadN(16)
		if err != nil {
			return nil, err
		}
		var oct [16]byte
		copy(oct[:], raw)
		values[i] = netip.AddrFrom16(oct)
	}
	return column.NewValues("IPv6", values), nil
}

func addrValue(typ string, v any) (netip.Addr, error) {
	switch val := v.(type) {
	case netip.Addr:
		return val, nil
	case string:
		addr, err := netip.ParseAddr(val)
		if err != nil {
			return netip.Addr{}, &numeric.CoercionError{Type: typ, Value: v, Reason: "not an IP literal"}
		}
		return addr, nil
	default:
		return netip.Addr{}, &numeric.CoercionError{Type: typ, Value: v, Reason: "not an IP address"}
	}
}
