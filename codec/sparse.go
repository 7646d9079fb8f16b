package codec

import (
	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// sparseEndBit marks the last entry of a sparse stream: the entry's count
// covers the trailing default rows and no value follows.
const sparseEndBit = uint64(1) << 62

// sparseRun is the per-node carry between decode calls. A run straddles a
// block boundary when its default count or its pending value was not fully
// consumed by the previous call.
type sparseRun struct {
	defaults uint64 // default rows announced by an entry, not yet emitted
	pending  bool   // a non-default value follows the defaults on the wire
	ended    bool   // end entry seen; every further row is default
}

// EncodeSparse writes col in the run-length sparse layout: for each
// non-default row a varint counting the default rows since the previous
// value, immediately followed by that value's dense encoding, then a final
// varint with the end bit set covering the trailing default rows.
func EncodeSparse(c Codec, b *wire.Buffer, col column.Column) error {
	zero := c.Zero()
	gap := uint64(0)
	for i := 0; i < col.Len(); i++ {
		v := col.Get(i)
		if zeroEqual(v, zero) {
			gap++
			continue
		}
		b.WriteVarint(gap)
		one, err := c.FromValues([]any{v})
		if err != nil {
			return err
		}
		if err := c.Encode(b, one); err != nil {
			return err
		}
		gap = 0
	}
	b.WriteVarint(gap | sparseEndBit)
	return nil
}

// decodeSparse materializes rows dense values for a sparse-flagged node,
// resuming the node's carried run and saving the remainder back into the
// session. The carry is committed only after the whole call succeeds, so a
// short-buffer retry restarts from a clean state.
func decodeSparse(c Codec, r *wire.Reader, rows int, st *DecodeState, node *SerNode) (column.Column, error) {
	run := st.carry[node.path]
	zero := c.Zero()
	values := make([]any, rows)
	for i := range values {
		values[i] = zero
	}
	row := 0
	for row < rows {
		if run.defaults > 0 {
			take := uint64(rows - row)
			if run.defaults < take {
				take = run.defaults
			}
			run.defaults -= take
			row += int(take)
			continue
		}
		if run.pending {
			one, err := c.DecodeDense(r, 1, st)
			if err != nil {
				return nil, err
			}
			values[row] = one.Get(0)
			row++
			run.pending = false
			continue
		}
		if run.ended {
			break // remaining rows stay default
		}
		entry, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		run.defaults = entry &^ sparseEndBit
		if entry&sparseEndBit != 0 {
			run.ended = true
		} else {
			run.pending = true
		}
	}
	if st.carry == nil {
		st.carry = make(map[string]sparseRun)
	}
	st.carry[node.path] = run
	return column.NewValues(c.Type(), values), nil
}

// UniformKinds builds a serialization-kind tree mirroring c's shape with
// every node set to kind.
func UniformKinds(c Codec, kind SerKind) *SerNode {
	node := &SerNode{Kind: kind}
	for _, child := range c.Children() {
		node.Children = append(node.Children, UniformKinds(child, kind))
	}
	return node
}
