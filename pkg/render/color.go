package render

import "github.com/heapviz/heapviz/pkg/heap"

// Colorer decides node and edge colors when rendering one side of a
// precondition/postcondition pair. Elements the oracle classifies as added
// or removed come out red; everything else keeps the baseline color.
type Colorer struct {
	oracle heap.Oracle
	base   Color
}

// NewColorer builds a Colorer over a diff oracle with the given baseline.
func NewColorer(oracle heap.Oracle, base Color) *Colorer {
	return &Colorer{oracle: oracle, base: base}
}

// Cell returns the color for elements originating from c.
func (c *Colorer) Cell(cell heap.Cell) Color {
	if c.oracle.Cell(cell) != heap.DiffUnchanged {
		return Red
	}
	return c.base
}

// Atom returns the color for the pure atom a.
func (c *Colorer) Atom(a heap.Atom) Color {
	if c.oracle.Atom(a) != heap.DiffUnchanged {
		return Red
	}
	return c.base
}

// Base returns the baseline color.
func (c *Colorer) Base() Color { return c.base }
