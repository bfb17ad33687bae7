package heap

import "strings"

// SegKind distinguishes possibly-empty from non-empty segment predicates.
type SegKind int

const (
	// SegNE is a non-empty segment (at least one cell).
	SegNE SegKind = iota
	// SegPE is a possibly-empty segment.
	SegPE
)

// String returns the conventional two-letter tag for the segment kind.
func (k SegKind) String() string {
	if k == SegPE {
		return "PE"
	}
	return "NE"
}

// Cell is one heap predicate of a symbolic heap. The variant set is closed:
// PointsTo, StructCell, ArrayCell, ListSeg, and DLLSeg.
type Cell interface {
	cell()
}

// PointsTo maps an address to its content. The content may itself be a
// record or sequence (a pointer to an inline struct or array).
type PointsTo struct {
	Addr  Expr
	Value Content
	Type  string
}

// StructCell is a struct allocated at Addr with ordered named fields.
type StructCell struct {
	Addr   Expr
	Fields []Field
	Type   string
}

// ArrayCell is an array allocated at Addr with a symbolic size and ordered
// indexed elements.
type ArrayCell struct {
	Addr  Expr
	Size  Expr
	Elems []SeqElem
	Type  string
}

// ListSeg is a singly-linked list segment from First to Last. Body is the
// nested symbolic heap summarizing one step of the segment; it is rendered
// as a separate subgraph, never inline.
type ListSeg struct {
	Kind  SegKind
	First Expr
	Last  Expr
	Body  []Cell
}

// DLLSeg is a doubly-linked list segment from First to Last, with the cell
// preceding First and the cell following Last as adjacency hints.
type DLLSeg struct {
	Kind      SegKind
	First     Expr
	Last      Expr
	FirstPrev Expr
	LastNext  Expr
	Body      []Cell
}

func (PointsTo) cell()   {}
func (StructCell) cell() {}
func (ArrayCell) cell()  {}
func (ListSeg) cell()    {}
func (DLLSeg) cell()     {}

// CellAddr returns the anchor address of a cell: the allocated address for
// points-to/struct/array predicates and the source endpoint for segments.
func CellAddr(c Cell) Expr {
	switch c := c.(type) {
	case PointsTo:
		return c.Addr
	case StructCell:
		return c.Addr
	case ArrayCell:
		return c.Addr
	case ListSeg:
		return c.First
	case DLLSeg:
		return c.First
	default:
		panic("unreachable")
	}
}

// CellKey returns a stable structural encoding of a cell, usable as a map
// key. Two cells are structurally equal iff their keys are equal. The diff
// oracle matches cells across propositions with these keys.
func CellKey(c Cell) string {
	var b strings.Builder
	cellKey(&b, c)
	return b.String()
}

func cellKey(b *strings.Builder, c Cell) {
	switch c := c.(type) {
	case PointsTo:
		b.WriteString("pt(")
		b.WriteString(c.Addr.Key())
		b.WriteByte(',')
		contentKey(b, c.Value)
		b.WriteByte(',')
		b.WriteString(c.Type)
		b.WriteByte(')')
	case StructCell:
		b.WriteString("st(")
		b.WriteString(c.Addr.Key())
		b.WriteByte(',')
		contentKey(b, Record{Fields: c.Fields})
		b.WriteByte(',')
		b.WriteString(c.Type)
		b.WriteByte(')')
	case ArrayCell:
		b.WriteString("ar(")
		b.WriteString(c.Addr.Key())
		b.WriteByte(',')
		b.WriteString(c.Size.Key())
		b.WriteByte(',')
		contentKey(b, Sequence{Elems: c.Elems})
		b.WriteByte(',')
		b.WriteString(c.Type)
		b.WriteByte(')')
	case ListSeg:
		b.WriteString("ls")
		b.WriteString(c.Kind.String())
		b.WriteByte('(')
		b.WriteString(c.First.Key())
		b.WriteByte(',')
		b.WriteString(c.Last.Key())
		b.WriteByte(',')
		for _, bc := range c.Body {
			cellKey(b, bc)
			b.WriteByte(';')
		}
		b.WriteByte(')')
	case DLLSeg:
		b.WriteString("dll")
		b.WriteString(c.Kind.String())
		b.WriteByte('(')
		b.WriteString(c.First.Key())
		b.WriteByte(',')
		b.WriteString(c.Last.Key())
		b.WriteByte(',')
		b.WriteString(c.FirstPrev.Key())
		b.WriteByte(',')
		b.WriteString(c.LastNext.Key())
		b.WriteByte(',')
		for _, bc := range c.Body {
			cellKey(b, bc)
			b.WriteByte(';')
		}
		b.WriteByte(')')
	default:
		panic("unreachable")
	}
}
