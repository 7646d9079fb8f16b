// Package codec implements the column codecs of the Native format: one
// strategy object per resolved type descriptor, composed recursively and
// memoized by a registry. Encode walks an in-memory column and writes
// bytes; decode walks a byte cursor and produces a column.
package codec

import (
	"math"
	"math/big"
	"reflect"
	"strconv"

	"github.com/vertiqadb/vertiqa-go/column"
	"github.com/vertiqadb/vertiqa-go/wire"
)

// Tagged is re-exported for callers that only import codec.
type Tagged = column.Tagged

// Codec encodes and decodes one column type. A codec is configured at
// construction and holds no per-call mutable state, so instances may be
// shared read-only across goroutines; per-session state lives in
// DecodeState.
type Codec interface {
	// Type returns the resolved type descriptor string.
	Type() string
	// Zero returns the type's default value, used as the placeholder for
	// null rows and the fill value of sparse columns.
	Zero() any
	// Children returns the child codecs of a composite type, mirroring
	// the structural shape of the serialization-node tree.
	Children() []Codec
	// FromValues builds a column of this type from row values.
	FromValues(values []any) (column.Column, error)
	// Encode appends the dense wire encoding of col.
	Encode(b *wire.Buffer, col column.Column) error
	// DecodeDense reads rows values from the cursor. Callers normally go
	// through Decode, which routes sparse-annotated nodes to the sparse
	// materializer first.
	DecodeDense(r *wire.Reader, rows int, st *DecodeState) (column.Column, error)
}

// SerKind tells whether a serialization node's data is dense or
// run-length sparse on the wire.
type SerKind uint8

const (
	SerDense  SerKind = 0
	SerSparse SerKind = 1
)

// SerNode is one position in the serialization-kind tree. The tree mirrors
// the type's structural shape and is rebuilt per decoded block; sparse run
// state survives across blocks keyed by the node's path, which is stable
// for a given type tree.
type SerNode struct {
	Kind     SerKind
	Children []*SerNode
	path     string
}

// NewSerNode builds a tree node; child paths are assigned when the node is
// installed into a DecodeState.
func NewSerNode(kind SerKind, children ...*SerNode) *SerNode {
	return &SerNode{Kind: kind, Children: children}
}

func (n *SerNode) assignPaths(path string) {
	n.path = path
	for i, c := range n.Children {
		c.assignPaths(path + "." + strconv.Itoa(i))
	}
}

// ReadKinds reads the per-node dense/sparse flags for c's type tree: one
// byte per node in preorder, 0 dense and 1 sparse.
func ReadKinds(r *wire.Reader, c Codec) (*SerNode, error) {
	flag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if flag > 1 {
		return nil, &FormatError{Type: c.Type(), Msg: "invalid serialization kind " + strconv.Itoa(int(flag))}
	}
	node := &SerNode{Kind: SerKind(flag)}
	for _, child := range c.Children() {
		sub, err := ReadKinds(r, child)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, sub)
	}
	return node, nil
}

// WriteKinds writes the flags ReadKinds expects.
func WriteKinds(b *wire.Buffer, c Codec, node *SerNode) {
	b.WriteUint8(byte(node.Kind))
	for i, child := range c.Children() {
		WriteKinds(b, child, node.Children[i])
	}
}

// DecodeState is the per-session decode context: the current block's
// serialization-kind tree plus the sparse carry map that lets a run
// straddle block boundaries. A fresh session starts with empty carry;
// sessions must not be shared between unrelated streams.
type DecodeState struct {
	node  *SerNode
	stack []*SerNode
	carry map[string]sparseRun
}

// NewDecodeState creates an empty decode session. A nil state is valid and
// means every node is dense.
func NewDecodeState() *DecodeState {
	return &DecodeState{carry: make(map[string]sparseRun)}
}

// UseKinds installs the kind tree for the next decode call. The carry map
// is preserved: run state is keyed by node path, not node pointer, exactly
// so a tree rebuilt per block resumes the same runs.
func (st *DecodeState) UseKinds(root *SerNode) {
	if st == nil {
		return
	}
	if root != nil {
		root.assignPaths("0")
	}
	st.node = root
	st.stack = st.stack[:0]
}

// ReadKinds reads the flag tree for c from the cursor and installs it.
func (st *DecodeState) ReadKinds(r *wire.Reader, c Codec) error {
	root, err := ReadKinds(r, c)
	if err != nil {
		return err
	}
	st.UseKinds(root)
	return nil
}

func (st *DecodeState) current() *SerNode {
	if st == nil {
		return nil
	}
	return st.node
}

func (st *DecodeState) descend(i int) {
	if st == nil {
		return
	}
	st.stack = append(st.stack, st.node)
	if st.node != nil && i < len(st.node.Children) {
		st.node = st.node.Children[i]
	} else {
		st.node = nil
	}
}

func (st *DecodeState) ascend() {
	if st == nil || len(st.stack) == 0 {
		return
	}
	st.node = st.stack[len(st.stack)-1]
	st.stack = st.stack[:len(st.stack)-1]
}

// Decode reads rows values of c's type, routing through the sparse
// materializer when the current serialization node is flagged sparse.
func Decode(c Codec, r *wire.Reader, rows int, st *DecodeState) (column.Column, error) {
	node := st.current()
	if node != nil && node.Kind == SerSparse {
		return decodeSparse(c, r, rows, st, node)
	}
	return c.DecodeDense(r, rows, st)
}

// decodeChild runs child codec i under the matching serialization node.
func decodeChild(c Codec, i int, r *wire.Reader, rows int, st *DecodeState) (column.Column, error) {
	st.descend(i)
	col, err := Decode(c.Children()[i], r, rows, st)
	st.ascend()
	return col, err
}

// fromValues is the shared FromValues implementation: values are captured
// as-is and validated when the column is encoded.
func fromValues(typ string, values []any) (column.Column, error) {
	copied := make([]any, len(values))
	copy(copied, values)
	return column.NewValues(typ, copied), nil
}

// zeroEqual reports whether v equals the codec's zero value, used by the
// sparse encoder to find default rows.
func zeroEqual(v, zero any) bool {
	if v == nil {
		return zero == nil
	}
	switch a := v.(type) {
	case float64:
		if z, ok := zero.(float64); ok {
			return a == z && !math.Signbit(a)
		}
	case float32:
		if z, ok := zero.(float32); ok {
			return a == z && !math.Signbit(float64(a))
		}
	case *big.Int:
		if z, ok := zero.(*big.Int); ok {
			return a.Cmp(z) == 0
		}
	}
	return reflect.DeepEqual(v, zero)
}
