package render

import (
	"errors"
	"strconv"

	"github.com/heapviz/heapviz/pkg/heap"
)

var (
	// ErrTooManyCandidates is returned when more than two nodes share one
	// address at one nesting level. A legitimate heap yields at most two
	// (the pointer box and its struct or array panel); anything beyond that
	// is a malformed input heap, not a transient fault.
	ErrTooManyCandidates = errors.New("more than two nodes share an address at one nesting level")

	// ErrUnresolvedAddress is returned when a built edge references a
	// coordinate that no rendered node owns.
	ErrUnresolvedAddress = errors.New("edge references an address with no rendered node")
)

// Options configures one render call.
type Options struct {
	// Prover answers nil-ness and address-equality queries. Defaults to
	// [heap.SyntacticProver].
	Prover heap.Prover

	// Colors, when set, overrides Base with per-element diff coloring.
	Colors *Colorer

	// Base is the uniform color when no Colorer is supplied.
	Base Color
}

// workItem is one pending sub-render: a segment body together with its
// nesting level and the placeholder anchors waiting for it.
type workItem struct {
	body       []heap.Cell
	level      int
	anchor     Coord
	anchored   bool
	back       Coord
	backLinked bool
	anchorKind EdgeKind
	label      string
	color      Color
}

// scope records one processed work item for the link pass.
type scope struct {
	cells   []heap.Cell
	level   int
	cluster int
}

// renderContext holds every piece of mutable render state. It is built at
// the top of [Build] and discarded at return; nothing leaks across calls.
type renderContext struct {
	prover heap.Prover
	colors *Colorer
	base   Color

	nextID       int
	nodes        []Node
	edges        []Edge
	clusters     []Cluster
	dangling     map[string]Coord // addr@level -> placeholder coordinate
	structBacked map[string]bool  // addr@level backing a struct/array predicate
	segCoords    map[string]Coord // list segment cell key -> placeholder coordinate
	dllCoords    map[string][2]Coord
	queue        []workItem
	scopes       []scope
}

// Build renders one proposition into a graph.
//
// The returned graph is independent of the context: all counters and caches
// are scoped to this call, so concurrent Build calls on independent
// propositions are safe. Build fails with [ErrTooManyCandidates] or
// [ErrUnresolvedAddress] on malformed heaps; nothing partial is observable
// on failure.
func Build(p *heap.Prop, opts Options) (*Graph, error) {
	prover := opts.Prover
	if prover == nil {
		prover = heap.SyntacticProver{}
	}

	ctx := &renderContext{
		prover:       prover,
		colors:       opts.Colors,
		base:         opts.Base,
		dangling:     make(map[string]Coord),
		structBacked: make(map[string]bool),
		segCoords:    make(map[string]Coord),
		dllCoords:    make(map[string][2]Coord),
	}

	ctx.queue = append(ctx.queue, workItem{body: p.Cells, level: 0})
	for len(ctx.queue) > 0 {
		item := ctx.queue[0]
		ctx.queue = ctx.queue[1:]
		ctx.renderScope(item)
	}

	for _, sc := range ctx.scopes {
		if err := ctx.linkScope(sc); err != nil {
			return nil, err
		}
	}

	g := &Graph{Nodes: ctx.nodes, Edges: ctx.edges, Clusters: ctx.clusters}
	if err := checkConsistent(g); err != nil {
		return nil, err
	}
	prune(g)
	return g, nil
}

// coord allocates the next coordinate at the given nesting level. Ids are
// strictly increasing and shared across levels within one render call.
func (ctx *renderContext) coord(level int) Coord {
	id := ctx.nextID
	ctx.nextID++
	return Coord{ID: id, Level: level}
}

func (ctx *renderContext) addNode(n Node, cluster int) {
	ctx.nodes = append(ctx.nodes, n)
	ids := &ctx.clusters[cluster].NodeIDs
	*ids = append(*ids, n.At().ID)
	if d, ok := n.(DLLSegNode); ok {
		*ids = append(*ids, d.Back.ID)
	}
}

func (ctx *renderContext) cellColor(c heap.Cell) Color {
	if ctx.colors != nil {
		return ctx.colors.Cell(c)
	}
	return ctx.base
}

func (ctx *renderContext) baseColor() Color {
	if ctx.colors != nil {
		return ctx.colors.Base()
	}
	return ctx.base
}

func scopeKey(e heap.Expr, level int) string {
	return e.Key() + "@" + strconv.Itoa(level)
}

// renderScope builds the nodes of one work item and queues nested segment
// bodies. Once the scope has produced its first node, the anchor edge from
// the owning placeholder is recorded.
func (ctx *renderContext) renderScope(item workItem) {
	cid := len(ctx.clusters)
	ctx.clusters = append(ctx.clusters, Cluster{ID: cid, Level: item.level, Label: item.label})

	for _, c := range item.body {
		switch c := c.(type) {
		case heap.StructCell:
			ctx.structBacked[scopeKey(c.Addr, item.level)] = true
		case heap.ArrayCell:
			ctx.structBacked[scopeKey(c.Addr, item.level)] = true
		}
	}

	mark := len(ctx.nodes)
	for _, c := range item.body {
		ctx.buildCell(c, item.level, cid)
	}
	ctx.buildDangling(item.body, item.level, cid)

	if len(ctx.nodes) > mark {
		first := ctx.nodes[mark].At()
		if item.anchored {
			ctx.edges = append(ctx.edges, Edge{
				Kind:  item.anchorKind,
				Src:   item.anchor,
				Dst:   first,
				Color: item.color,
			})
		}
		if item.backLinked {
			ctx.edges = append(ctx.edges, Edge{
				Kind:  DLLSegLink,
				Src:   item.back,
				Dst:   first,
				Label: "prev",
				Color: item.color,
			})
		}
	}

	ctx.scopes = append(ctx.scopes, scope{cells: item.body, level: item.level, cluster: cid})
}

func (ctx *renderContext) buildCell(c heap.Cell, level, cid int) {
	color := ctx.cellColor(c)
	switch c := c.(type) {
	case heap.PointsTo:
		switch v := c.Value.(type) {
		case heap.Scalar:
			// A pointer whose address is a struct's own identity is drawn
			// by the struct panel alone.
			if ctx.structBacked[scopeKey(c.Addr, level)] {
				return
			}
			ctx.addNode(CellNode{Coord: ctx.coord(level), Addr: c.Addr, Type: c.Type, Color: color}, cid)
		case heap.Record:
			ctx.addNode(CellNode{Coord: ctx.coord(level), Addr: c.Addr, Type: c.Type, Color: color}, cid)
			ctx.addNode(StructNode{Coord: ctx.coord(level), Addr: c.Addr, Fields: v.Fields, Type: c.Type, Color: color}, cid)
		case heap.Sequence:
			ctx.addNode(CellNode{Coord: ctx.coord(level), Addr: c.Addr, Type: c.Type, Color: color}, cid)
			size := heap.Const{Value: int64(len(v.Elems))}
			ctx.addNode(ArrayNode{Coord: ctx.coord(level), Addr: c.Addr, Size: size, Elems: v.Elems, Type: c.Type, Color: color}, cid)
		default:
			panic("unreachable")
		}
	case heap.StructCell:
		ctx.addNode(StructNode{Coord: ctx.coord(level), Addr: c.Addr, Fields: c.Fields, Type: c.Type, Color: color}, cid)
	case heap.ArrayCell:
		ctx.addNode(ArrayNode{Coord: ctx.coord(level), Addr: c.Addr, Size: c.Size, Elems: c.Elems, Type: c.Type, Color: color}, cid)
	case heap.ListSeg:
		n := ListSegNode{Coord: ctx.coord(level), Kind: c.Kind, First: c.First, Last: c.Last, Color: color}
		ctx.addNode(n, cid)
		ctx.segCoords[heap.CellKey(c)] = n.Coord
		ctx.queue = append(ctx.queue, workItem{
			body:       c.Body,
			level:      level + 1,
			anchor:     n.Coord,
			anchored:   true,
			anchorKind: ListSegLink,
			label:      "lseg " + c.Kind.String(),
			color:      color,
		})
	case heap.DLLSeg:
		fwd := ctx.coord(level)
		back := ctx.coord(level)
		n := DLLSegNode{
			Coord:     fwd,
			Back:      back,
			Kind:      c.Kind,
			First:     c.First,
			Last:      c.Last,
			FirstPrev: c.FirstPrev,
			LastNext:  c.LastNext,
			Color:     color,
		}
		ctx.addNode(n, cid)
		ctx.dllCoords[heap.CellKey(c)] = [2]Coord{fwd, back}
		ctx.queue = append(ctx.queue, workItem{
			body:       c.Body,
			level:      level + 1,
			anchor:     fwd,
			anchored:   true,
			back:       back,
			backLinked: true,
			anchorKind: DLLSegLink,
			label:      "dllseg " + c.Kind.String(),
			color:      color,
		})
	default:
		panic("unreachable")
	}
}

// buildDangling materializes one placeholder node per referenced-but-not-
// allocated address at this level. Record and sequence element addresses are
// not collected here; the link pass materializes those lazily through the
// same per-level cache.
func (ctx *renderContext) buildDangling(cells []heap.Cell, level, cid int) {
	for _, ref := range directRefs(cells) {
		if ctx.prover.IsNil(ref) {
			continue
		}
		if ctx.allocatedIn(cells, ref) {
			continue
		}
		key := scopeKey(ref, level)
		if _, ok := ctx.dangling[key]; ok {
			continue
		}
		n := DanglingNode{Coord: ctx.coord(level), Addr: ref, Color: ctx.baseColor()}
		ctx.dangling[key] = n.Coord
		ctx.addNode(n, cid)
	}
}

// directRefs returns the addresses directly referenced by a cell list, in
// first-reference order, deduplicated. Points-to cells contribute their
// scalar target; segments contribute their sink and adjacent addresses.
// Struct and array members are reached by the link pass instead.
func directRefs(cells []heap.Cell) []heap.Expr {
	var refs []heap.Expr
	seen := make(map[string]bool)
	add := func(e heap.Expr) {
		if e == nil || seen[e.Key()] {
			return
		}
		seen[e.Key()] = true
		refs = append(refs, e)
	}

	for _, c := range cells {
		switch c := c.(type) {
		case heap.PointsTo:
			if s, ok := c.Value.(heap.Scalar); ok {
				add(s.Target)
			}
		case heap.ListSeg:
			add(c.Last)
		case heap.DLLSeg:
			add(c.FirstPrev)
			add(c.LastNext)
		}
	}
	return refs
}

func (ctx *renderContext) allocatedIn(cells []heap.Cell, addr heap.Expr) bool {
	for _, c := range cells {
		if ctx.prover.Equal(heap.CellAddr(c), addr) {
			return true
		}
	}
	return false
}

func checkConsistent(g *Graph) error {
	ids := make(map[int]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.At().ID] = true
		if d, ok := n.(DLLSegNode); ok {
			ids[d.Back.ID] = true
		}
	}
	for _, e := range g.Edges {
		if !ids[e.Src.ID] || !ids[e.Dst.ID] {
			return ErrUnresolvedAddress
		}
	}
	return nil
}
