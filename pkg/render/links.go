package render

import (
	"fmt"

	"github.com/heapviz/heapviz/pkg/heap"
)

// srcClass classifies an edge source for kind dispatch.
type srcClass int

const (
	srcCell srcClass = iota
	srcStruct
	srcArray
)

func edgeKindFor(class srcClass, panel, synthesized bool) EdgeKind {
	switch class {
	case srcCell:
		if panel {
			return CellToStruct
		}
		return CellToCell
	case srcStruct:
		if panel {
			return StructToStruct
		}
		return StructToCell
	case srcArray:
		if synthesized {
			return ArrayLink
		}
		if panel {
			return ArrayToStruct
		}
		return ArrayToCell
	default:
		panic("unreachable")
	}
}

// linkScope resolves the content of one scope's cells into edges.
func (ctx *renderContext) linkScope(sc scope) error {
	for _, c := range sc.cells {
		if err := ctx.linkCell(c, sc.level, sc.cluster); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *renderContext) linkCell(c heap.Cell, level, cid int) error {
	color := ctx.cellColor(c)
	switch c := c.(type) {
	case heap.PointsTo:
		switch v := c.Value.(type) {
		case heap.Scalar:
			src, ok := ctx.sourceAt(c.Addr, level, false)
			if !ok {
				return nil
			}
			return ctx.linkScalar(src, srcCell, "", "", v.Target, level, cid, color)
		case heap.Record:
			src, ok := ctx.sourceAt(c.Addr, level, true)
			if !ok {
				return nil
			}
			return ctx.linkFields(src, v.Fields, "", level, cid, color)
		case heap.Sequence:
			src, ok := ctx.sourceAt(c.Addr, level, true)
			if !ok {
				return nil
			}
			return ctx.linkElems(src, v.Elems, "", level, cid, color)
		default:
			panic("unreachable")
		}
	case heap.StructCell:
		src, ok := ctx.sourceAt(c.Addr, level, true)
		if !ok {
			return nil
		}
		return ctx.linkFields(src, c.Fields, "", level, cid, color)
	case heap.ArrayCell:
		src, ok := ctx.sourceAt(c.Addr, level, true)
		if !ok {
			return nil
		}
		return ctx.linkElems(src, c.Elems, "", level, cid, color)
	case heap.ListSeg:
		coord, ok := ctx.segCoords[heap.CellKey(c)]
		if !ok {
			return nil
		}
		dst, _, _, err := ctx.resolveTarget(c.Last, level, cid, color)
		if err != nil {
			return err
		}
		ctx.edges = append(ctx.edges, Edge{Kind: ListSegLink, Src: coord, Dst: dst, Color: color})
		return nil
	case heap.DLLSeg:
		coords, ok := ctx.dllCoords[heap.CellKey(c)]
		if !ok {
			return nil
		}
		// Adjacency hints are best-effort: an unresolvable endpoint drops
		// the edge rather than failing the render.
		if dst, ok := ctx.resolveHint(c.LastNext, level, cid); ok {
			ctx.edges = append(ctx.edges, Edge{Kind: DLLSegLink, Src: coords[0], Dst: dst, Label: "next", Color: color})
		}
		if dst, ok := ctx.resolveHint(c.FirstPrev, level, cid); ok {
			ctx.edges = append(ctx.edges, Edge{Kind: DLLSegLink, Src: coords[1], Dst: dst, Label: "prev", Color: color})
		}
		return nil
	default:
		panic("unreachable")
	}
}

func (ctx *renderContext) linkScalar(src Coord, class srcClass, srcField, label string, target heap.Expr, level, cid int, color Color) error {
	dst, panel, synthesized, err := ctx.resolveTarget(target, level, cid, color)
	if err != nil {
		return err
	}
	ctx.edges = append(ctx.edges, Edge{
		Kind:     edgeKindFor(class, panel, synthesized),
		Src:      src,
		SrcField: srcField,
		Dst:      dst,
		Label:    label,
		Color:    color,
	})
	return nil
}

// linkFields recurses through record fields in declaration order. Nested
// members keep their full dotted path as both port and label.
func (ctx *renderContext) linkFields(src Coord, fields []heap.Field, prefix string, level, cid int, color Color) error {
	for _, f := range fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		switch v := f.Value.(type) {
		case heap.Scalar:
			if err := ctx.linkScalar(src, srcStruct, path, path, v.Target, level, cid, color); err != nil {
				return err
			}
		case heap.Record:
			if err := ctx.linkFields(src, v.Fields, path, level, cid, color); err != nil {
				return err
			}
		case heap.Sequence:
			if err := ctx.linkElems(src, v.Elems, path, level, cid, color); err != nil {
				return err
			}
		default:
			panic("unreachable")
		}
	}
	return nil
}

// linkElems recurses through sequence elements in declaration order,
// labeling each path with the index expression text.
func (ctx *renderContext) linkElems(src Coord, elems []heap.SeqElem, prefix string, level, cid int, color Color) error {
	for _, e := range elems {
		path := prefix + "[" + e.Index.String() + "]"
		switch v := e.Value.(type) {
		case heap.Scalar:
			if err := ctx.linkScalar(src, srcArray, path, path, v.Target, level, cid, color); err != nil {
				return err
			}
		case heap.Record:
			if err := ctx.linkFields(src, v.Fields, path, level, cid, color); err != nil {
				return err
			}
		case heap.Sequence:
			if err := ctx.linkElems(src, v.Elems, path, level, cid, color); err != nil {
				return err
			}
		default:
			panic("unreachable")
		}
	}
	return nil
}

// sourceAt finds the edge-source coordinate for an allocated address. With
// wantPanel it prefers the struct/array panel; otherwise the plain cell box.
// Falls back to whichever node represents the address when the preferred
// shape was not emitted (a struct-backed pointer has no cell box of its own).
func (ctx *renderContext) sourceAt(addr heap.Expr, level int, wantPanel bool) (Coord, bool) {
	var fallback Coord
	found := false
	for _, n := range ctx.nodes {
		if n.At().Level != level {
			continue
		}
		a := NodeAddr(n)
		if a == nil || !ctx.prover.Equal(a, addr) {
			continue
		}
		switch n.(type) {
		case StructNode, ArrayNode:
			if wantPanel {
				return n.At(), true
			}
		case CellNode:
			if !wantPanel {
				return n.At(), true
			}
		}
		if !found {
			fallback = n.At()
			found = true
		}
	}
	return fallback, found
}

// resolveTarget finds or synthesizes the node a content reference points at.
//
// Nil targets always get a fresh nil node. An unallocated target reuses the
// level's dangling placeholder, materializing it on first use for addresses
// reached only through nested content. One allocated match is used directly;
// two matches are the pointer+panel pair, which resolves to the plain cell
// while recording struct-ness in the edge kind. More than two matches is a
// malformed heap.
func (ctx *renderContext) resolveTarget(target heap.Expr, level, cid int, color Color) (dst Coord, panel, synthesized bool, err error) {
	if ctx.prover.IsNil(target) {
		n := NilNode{Coord: ctx.coord(level), Color: ctx.baseColor()}
		ctx.addNode(n, cid)
		return n.Coord, false, true, nil
	}

	cells, dangling, haveDangling := ctx.matchesAt(target, level)
	switch len(cells) {
	case 0:
		if haveDangling {
			return dangling, false, true, nil
		}
		n := DanglingNode{Coord: ctx.coord(level), Addr: target, Color: ctx.baseColor()}
		ctx.dangling[scopeKey(target, level)] = n.Coord
		ctx.addNode(n, cid)
		return n.Coord, false, true, nil
	case 1:
		n := cells[0]
		switch n.(type) {
		case StructNode, ArrayNode:
			return n.At(), true, false, nil
		}
		return n.At(), false, false, nil
	case 2:
		for _, n := range cells {
			if _, ok := n.(CellNode); ok {
				return n.At(), true, false, nil
			}
		}
		return cells[0].At(), true, false, nil
	default:
		return Coord{}, false, false, fmt.Errorf("%w: %s at level %d", ErrTooManyCandidates, target, level)
	}
}

// resolveHint resolves a best-effort adjacency target without materializing
// new dangling placeholders; absent targets are simply reported unresolved.
func (ctx *renderContext) resolveHint(target heap.Expr, level, cid int) (Coord, bool) {
	if target == nil {
		return Coord{}, false
	}
	if ctx.prover.IsNil(target) {
		n := NilNode{Coord: ctx.coord(level), Color: ctx.baseColor()}
		ctx.addNode(n, cid)
		return n.Coord, true
	}
	cells, dangling, haveDangling := ctx.matchesAt(target, level)
	if len(cells) > 0 {
		return cells[0].At(), true
	}
	if haveDangling {
		return dangling, true
	}
	return Coord{}, false
}

// matchesAt collects the allocated nodes at an address and level, plus the
// level's dangling placeholder for it when one exists.
func (ctx *renderContext) matchesAt(addr heap.Expr, level int) (cells []Node, dangling Coord, haveDangling bool) {
	for _, n := range ctx.nodes {
		if n.At().Level != level {
			continue
		}
		a := NodeAddr(n)
		if a == nil || !ctx.prover.Equal(a, addr) {
			continue
		}
		if d, ok := n.(DanglingNode); ok {
			dangling = d.Coord
			haveDangling = true
			continue
		}
		cells = append(cells, n)
	}
	return cells, dangling, haveDangling
}
