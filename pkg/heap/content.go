package heap

import "strings"

// Content is the recursive content of a memory cell: a scalar address, an
// ordered record of named fields, or an ordered sequence of indexed elements.
// The variant set is closed.
type Content interface {
	content()
}

// Scalar is a single address-valued content.
type Scalar struct {
	Target Expr
}

// Field is one named member of a [Record].
type Field struct {
	Name  string
	Value Content
}

// Record is struct-shaped content with fields in declaration order.
type Record struct {
	Fields []Field
}

// SeqElem is one indexed member of a [Sequence]. The index is an expression
// because array predicates may be indexed symbolically.
type SeqElem struct {
	Index Expr
	Value Content
}

// Sequence is array-shaped content with elements in declaration order.
type Sequence struct {
	Elems []SeqElem
}

func (Scalar) content()   {}
func (Record) content()   {}
func (Sequence) content() {}

// contentKey writes a stable structural encoding of c into b.
func contentKey(b *strings.Builder, c Content) {
	switch c := c.(type) {
	case Scalar:
		b.WriteString("s(")
		b.WriteString(c.Target.Key())
		b.WriteByte(')')
	case Record:
		b.WriteString("r(")
		for _, f := range c.Fields {
			b.WriteString(f.Name)
			b.WriteByte('=')
			contentKey(b, f.Value)
			b.WriteByte(';')
		}
		b.WriteByte(')')
	case Sequence:
		b.WriteString("q(")
		for _, e := range c.Elems {
			b.WriteString(e.Index.Key())
			b.WriteByte('=')
			contentKey(b, e.Value)
			b.WriteByte(';')
		}
		b.WriteByte(')')
	default:
		panic("unreachable")
	}
}
