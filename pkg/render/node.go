package render

import "github.com/heapviz/heapviz/pkg/heap"

// Color is the rendering palette. Red is reserved for diff-changed elements.
type Color int

const (
	Black Color = iota
	Blue
	Green
	Orange
	Red
)

// String returns the graphviz color name.
func (c Color) String() string {
	switch c {
	case Blue:
		return "blue"
	case Green:
		return "green"
	case Orange:
		return "orange"
	case Red:
		return "red"
	default:
		return "black"
	}
}

// Coord places a node in a render: a globally unique id plus the nesting
// level of the sub-render that owns it. Ids come from one counter shared
// across all levels of a render call and are never reused within that call.
type Coord struct {
	ID    int
	Level int
}

// Node is one rendered element. The variant set is closed: NilNode,
// DanglingNode, CellNode, StructNode, ArrayNode, ListSegNode, DLLSegNode.
type Node interface {
	node()

	// At returns the node's coordinate.
	At() Coord

	// NodeColor returns the node's display color.
	NodeColor() Color
}

// NilNode represents one nil-valued reference. Nil nodes are never shared:
// each nil reference site gets a fresh one.
type NilNode struct {
	Coord Coord
	Color Color
}

// DanglingNode is the placeholder for an address that is referenced at its
// level but not allocated there. Exactly one exists per address per level.
type DanglingNode struct {
	Coord Coord
	Addr  heap.Expr
	Color Color
}

// CellNode is a plain memory cell box.
type CellNode struct {
	Coord Coord
	Addr  heap.Expr
	Type  string
	Color Color
}

// StructNode is a struct panel with one port per field. For a pointer with
// struct content it sits at the id immediately after its CellNode.
type StructNode struct {
	Coord  Coord
	Addr   heap.Expr
	Fields []heap.Field
	Type   string
	Color  Color
}

// ArrayNode is an array panel with one port per element.
type ArrayNode struct {
	Coord Coord
	Addr  heap.Expr
	Size  heap.Expr
	Elems []heap.SeqElem
	Type  string
	Color Color
}

// ListSegNode is the placeholder standing for a list segment whose body is
// rendered as a nested subgraph.
type ListSegNode struct {
	Coord Coord
	Kind  heap.SegKind
	First heap.Expr
	Last  heap.Expr
	Color Color
}

// DLLSegNode is the placeholder for a doubly-linked list segment. It owns
// two consecutive coordinates: Coord anchors the forward chain, Back the
// backward chain.
type DLLSegNode struct {
	Coord     Coord
	Back      Coord
	Kind      heap.SegKind
	First     heap.Expr
	Last      heap.Expr
	FirstPrev heap.Expr
	LastNext  heap.Expr
	Color     Color
}

func (NilNode) node()      {}
func (DanglingNode) node() {}
func (CellNode) node()     {}
func (StructNode) node()   {}
func (ArrayNode) node()    {}
func (ListSegNode) node()  {}
func (DLLSegNode) node()   {}

func (n NilNode) At() Coord      { return n.Coord }
func (n DanglingNode) At() Coord { return n.Coord }
func (n CellNode) At() Coord     { return n.Coord }
func (n StructNode) At() Coord   { return n.Coord }
func (n ArrayNode) At() Coord    { return n.Coord }
func (n ListSegNode) At() Coord  { return n.Coord }
func (n DLLSegNode) At() Coord   { return n.Coord }

func (n NilNode) NodeColor() Color      { return n.Color }
func (n DanglingNode) NodeColor() Color { return n.Color }
func (n CellNode) NodeColor() Color     { return n.Color }
func (n StructNode) NodeColor() Color   { return n.Color }
func (n ArrayNode) NodeColor() Color    { return n.Color }
func (n ListSegNode) NodeColor() Color  { return n.Color }
func (n DLLSegNode) NodeColor() Color   { return n.Color }

// NodeAddr returns the address a node stands for, or nil for nil nodes,
// which have no address identity.
func NodeAddr(n Node) heap.Expr {
	switch n := n.(type) {
	case NilNode:
		return nil
	case DanglingNode:
		return n.Addr
	case CellNode:
		return n.Addr
	case StructNode:
		return n.Addr
	case ArrayNode:
		return n.Addr
	case ListSegNode:
		return n.First
	case DLLSegNode:
		return n.First
	default:
		panic("unreachable")
	}
}
