// Package typedesc parses Native-format type descriptor strings such as
// "Map(String, Array(Nullable(Int32)))" into a base name and raw argument
// list, plus the named-element and enum-member sub-grammars used by Tuple,
// Nested, JSON and Enum types.
package typedesc

import (
	"fmt"
	"strconv"
	"strings"
)

// Desc is one parsed level of a type descriptor. Args hold the raw argument
// strings split at the top nesting level; nested descriptors are parsed on
// demand by the codec that owns them.
type Desc struct {
	Raw  string
	Base string
	Args []string
}

// baseNames is the set of known type-name prefixes. It disambiguates a
// named tuple element ("id UInt64") from a bare type ("UInt64").
var baseNames = map[string]bool{
	"Bool": true, "String": true, "FixedString": true, "UUID": true,
	"IPv4": true, "IPv6": true,
	"Int8": true, "Int16": true, "Int32": true, "Int64": true,
	"Int128": true, "Int256": true,
	"UInt8": true, "UInt16": true, "UInt32": true, "UInt64": true,
	"UInt128": true, "UInt256": true,
	"Float32": true, "Float64": true,
	"Decimal": true, "Decimal32": true, "Decimal64": true,
	"Decimal128": true, "Decimal256": true,
	"Date": true, "Date32": true, "DateTime": true, "DateTime64": true,
	"Enum8": true, "Enum16": true,
	"Nullable": true, "Array": true, "Map": true, "Tuple": true,
	"Nested": true, "LowCardinality": true,
	"Variant": true, "Dynamic": true, "JSON": true,
	"Point": true, "Ring": true, "Polygon": true, "MultiPolygon": true,
}

// IsKnownBase reports whether name is a known type-name prefix.
func IsKnownBase(name string) bool {
	return baseNames[name]
}

// Parse splits a descriptor into base name and top-level arguments.
// Unknown base names and unbalanced parentheses are hard errors; there is
// no partial parse.
func Parse(s string) (Desc, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Desc{}, fmt.Errorf("typedesc: empty type descriptor")
	}
	open := strings.IndexByte(raw, '(')
	if open < 0 {
		if !baseNames[raw] {
			return Desc{}, fmt.Errorf("typedesc: unknown type %q", raw)
		}
		return Desc{Raw: raw, Base: raw}, nil
	}
	base := strings.TrimSpace(raw[:open])
	if !baseNames[base] {
		return Desc{}, fmt.Errorf("typedesc: unknown type %q in %q", base, raw)
	}
	if raw[len(raw)-1] != ')' {
		return Desc{}, fmt.Errorf("typedesc: unbalanced parentheses in %q", raw)
	}
	args, err := SplitArgs(raw[open+1 : len(raw)-1])
	if err != nil {
		return Desc{}, fmt.Errorf("typedesc: %w in %q", err, raw)
	}
	return Desc{Raw: raw, Base: base, Args: args}, nil
}

// SplitArgs splits an argument list at top-level commas. Commas inside
// nested parentheses or single-quoted literals do not split; quotes may
// escape an embedded quote with a backslash.
func SplitArgs(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var args []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			if c == '\\' {
				i++
			} else if c == '\'' {
				inQuote = false
			}
		case c == '\'':
			inQuote = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses")
			}
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	args = append(args, strings.TrimSpace(s[start:]))
	return args, nil
}

// Element is one Tuple/Nested/JSON argument: a type with an optional
// leading name.
type Element struct {
	Name string
	Type string
}

// Elements parses Tuple-style arguments. An argument whose first token is
// not a known type-name prefix is treated as "name Type". Named and
// positional elements cannot be mixed.
func Elements(args []string) ([]Element, error) {
	elems := make([]Element, 0, len(args))
	named := 0
	for _, a := range args {
		a = strings.TrimSpace(a)
		if a == "" {
			return nil, fmt.Errorf("typedesc: empty tuple element")
		}
		head, rest := splitToken(a)
		if rest != "" && !baseNames[head] {
			elems = append(elems, Element{Name: Unquote(head), Type: rest})
			named++
			continue
		}
		elems = append(elems, Element{Type: a})
	}
	if named != 0 && named != len(elems) {
		return nil, fmt.Errorf("typedesc: mixed named and positional elements")
	}
	return elems, nil
}

// splitToken splits off the first whitespace-delimited token, honoring a
// single-quoted first token (used by JSON path names).
func splitToken(s string) (head, rest string) {
	if s[0] == '\'' {
		for i := 1; i < len(s); i++ {
			if s[i] == '\\' {
				i++
				continue
			}
			if s[i] == '\'' {
				return s[:i+1], strings.TrimSpace(s[i+1:])
			}
		}
		return s, ""
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// Member is one Enum8/Enum16 definition: 'name' = value.
type Member struct {
	Name  string
	Value int
}

// Members parses Enum arguments.
func Members(args []string) ([]Member, error) {
	members := make([]Member, 0, len(args))
	for _, a := range args {
		a = strings.TrimSpace(a)
		eq := -1
		if len(a) > 0 && a[0] == '\'' {
			for i := 1; i < len(a); i++ {
				if a[i] == '\\' {
					i++
					continue
				}
				if a[i] == '\'' {
					eq = strings.IndexByte(a[i+1:], '=')
					if eq >= 0 {
						eq += i + 1
					}
					break
				}
			}
		}
		if eq < 0 {
			return nil, fmt.Errorf("typedesc: malformed enum member %q", a)
		}
		name := Unquote(strings.TrimSpace(a[:eq]))
		v, err := strconv.Atoi(strings.TrimSpace(a[eq+1:]))
		if err != nil {
			return nil, fmt.Errorf("typedesc: malformed enum value in %q", a)
		}
		members = append(members, Member{Name: name, Value: v})
	}
	return members, nil
}

// Unquote strips surrounding single quotes and unescapes \' and \\.
func Unquote(s string) string {
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return s
	}
	body := s[1 : len(s)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		sb.WriteByte(body[i])
	}
	return sb.String()
}
