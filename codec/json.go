package codec

import (
	"fmt"
	"sort"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/numeric"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// jsonCodec stores a schema-declared set of typed paths with their own
// codecs plus a residual set of dynamic paths behind the self-describing
// codec. Typed-path data is written before dynamic-path data and decode
// reads in the same order. Rows are path-keyed maps; a key missing from a
// source row is absent from the decoded row too, never present as null.
type jsonCodec struct {
	typ   string
	paths []string
	typed []Codec
	dyn   *dynamicCodec
}

func newJSONCodec(typ string, paths []string, typed []Codec, resolve func(string) (Codec, error)) *jsonCodec {
	return &jsonCodec{typ: typ, paths: paths, typed: typed, dyn: newDynamicCodec("Dynamic", resolve)}
}

func (c *jsonCodec) Type() string      { return c.typ }
func (c *jsonCodec) Children() []Codec { return c.typed }

func (c *jsonCodec) Zero() any { return map[string]any{} }

func (c *jsonCodec) FromValues(values []any) (column.Column, error) {
	return fromValues(c.typ, values)
}

func (c *jsonCodec) rowMaps(col column.Column) ([]map[string]any, error) {
	maps := make([]map[string]any, col.Len())
	for i := range maps {
		switch v := col.Get(i).(type) {
		case nil:
		case map[string]any:
			maps[i] = v
		default:
			return nil, &numeric.CoercionError{Type: c.typ, Value: v, Reason: "not an object"}
		}
	}
	return maps, nil
}

func (c *jsonCodec) Encode(b *wire.Buffer, col column.Column) error {
	maps, err := c.rowMaps(col)
	if err != nil {
		return err
	}
	typedSet := make(map[string]bool, len(c.paths))
	for p, path := range c.paths {
		typedSet[path] = true
		vals := make([]any, len(maps))
		for i, m := range maps {
			if pv, ok := m[path]; ok {
				vals[i] = pv
				continue
			}
			vals[i] = c.typed[p].Zero()
		}
		pcol, err := c.typed[p].FromValues(vals)
		if err != nil {
			return err
		}
		if err := c.typed[p].Encode(b, pcol); err != nil {
			return err
		}
	}
	// residual paths in first-seen order, per-row keys visited sorted so
	// the wire bytes are deterministic
	var dynPaths []string
	seen := make(map[string]bool)
	for _, m := range maps {
		keys := make([]string, 0, len(m))
		for k := range m {
			if !typedSet[k] && !seen[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			seen[k] = true
			dynPaths = append(dynPaths, k)
		}
	}
	b.WriteVarint(uint64(len(dynPaths)))
	for _, path := range dynPaths {
		b.WriteString(path)
		vals := make([]any, len(maps))
		for i, m := range maps {
			if pv, ok := m[path]; ok {
				vals[i] = pv
			}
		}
		dcol, err := c.dyn.FromValues(vals)
		if err != nil {
			return err
		}
		if err := c.dyn.Encode(b, dcol); err != nil {
			return err
		}
	}
	return nil
}

func (c *jsonCodec) DecodeDense(r *wire.Reader, rows int, st *DecodeState) (column.Column, error) {
	typedCols := make([]column.Column, len(c.typed))
	for p := range c.typed {
		col, err := decodeChild(c, p, r, rows, st)
		if err != nil {
			return nil, err
		}
		typedCols[p] = col
	}
	count, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if count > uint64(r.Remaining()) {
		return nil, &FormatError{Type: c.typ, Msg: fmt.Sprintf("dynamic path count %d exceeds buffer", count)}
	}
	dynPaths := make([]string, count)
	dynCols := make([]column.Column, count)
	for j := range dynPaths {
		if dynPaths[j], err = r.ReadString(); err != nil {
			return nil, err
		}
		if dynCols[j], err = c.dyn.DecodeDense(r, rows, st); err != nil {
			return nil, err
		}
	}
	values := make([]any, rows)
	for i := range values {
		m := make(map[string]any, len(c.paths)+len(dynPaths))
		for p, path := range c.paths {
			m[path] = typedCols[p].Get(i)
		}
		for j, path := range dynPaths {
			v := dynCols[j].Get(i)
			if v == nil {
				continue // absent for this row
			}
			if tg, ok := v.(Tagged); ok {
				v = tg.Value
			}
			m[path] = v
		}
		values[i] = m
	}
	return column.NewValues(c.typ, values), nil
}
