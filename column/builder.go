package column

// Builder accumulates row values one at a time and finalizes them into an
// immutable column. A builder is single-use: Finish may be called once and
// the builder must not be touched afterwards.
type Builder struct {
	typ      string
	values   []any
	finished bool
}

// NewBuilder creates a builder for the given type descriptor with room for
// capacity rows.
func NewBuilder(typ string, capacity int) *Builder {
	if capacity < 0 {
		capacity = 0
	}
	return &Builder{typ: typ, values: make([]any, 0, capacity)}
}

// Append adds one row value. Values are validated against the type when
// the finished column is encoded, not here.
func (b *Builder) Append(v any) {
	if b.finished {
		panic("column: Append after Finish")
	}
	b.values = append(b.values, v)
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int {
	return len(b.values)
}

// Finish seals the builder and returns the immutable column.
func (b *Builder) Finish() Column {
	if b.finished {
		panic("column: Finish called twice")
	}
	b.finished = true
	return NewValues(b.typ, b.values)
}
