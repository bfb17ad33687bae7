package xtree

import (
	"strconv"

	"github.com/heapviz/heapviz/pkg/heap"
	"github.com/heapviz/heapviz/pkg/render"
)

// HeapTree converts a rendered graph into a heap element. Nodes come first
// in render order, then edges in link order, so the output is deterministic.
func HeapTree(g *render.Graph, id string) *Elem {
	root := New("heap").Attr("id", id)
	for _, n := range g.Nodes {
		writeNode(root, n)
	}
	for _, e := range g.Edges {
		writeEdge(root, e)
	}
	return root
}

func writeNode(root *Elem, n render.Node) {
	el := root.Child("node").Attr("id", strconv.Itoa(n.At().ID))

	switch n := n.(type) {
	case render.NilNode:
		el.Attr("address", "NIL").Attr("node-type", "nil")
	case render.DanglingNode:
		el.Attr("address", escape(n.Addr)).Attr("node-type", "dangling")
	case render.CellNode:
		el.Attr("address", escape(n.Addr)).Attr("node-type", "cell")
		memoryType(el, n.Type)
	case render.StructNode:
		el.Attr("address", escape(n.Addr)).Attr("node-type", "struct")
		memoryType(el, n.Type)
		writeFields(el, n.Fields)
	case render.ArrayNode:
		el.Attr("address", escape(n.Addr)).Attr("node-type", "array")
		memoryType(el, n.Type)
		if n.Size != nil {
			el.Attr("size", escape(n.Size))
		}
		writeElems(el, n.Elems)
	case render.ListSegNode:
		el.Attr("address", escape(n.First)).Attr("node-type", "lseg").
			Attr("segment-kind", n.Kind.String()).
			Attr("last", escape(n.Last))
	case render.DLLSegNode:
		el.Attr("address", escape(n.First)).Attr("node-type", "dllseg").
			Attr("segment-kind", n.Kind.String()).
			Attr("last", escape(n.Last)).
			Attr("back-id", strconv.Itoa(n.Back.ID))
	default:
		panic("unreachable")
	}
	el.Attr("level", strconv.Itoa(n.At().Level))
	if c := n.NodeColor(); c != render.Black {
		el.Attr("color", c.String())
	}
}

func memoryType(el *Elem, typ string) {
	if typ != "" {
		el.Attr("memory-type", render.EscapeText(typ))
	}
}

func writeFields(el *Elem, fields []heap.Field) {
	for _, f := range fields {
		fe := el.Child("struct-field").Attr("name", render.EscapeText(f.Name))
		writeContent(fe, f.Value)
	}
}

func writeElems(el *Elem, elems []heap.SeqElem) {
	for _, e := range elems {
		ee := el.Child("array-element").Attr("index", escape(e.Index))
		writeContent(ee, e.Value)
	}
}

func writeContent(el *Elem, c heap.Content) {
	switch c := c.(type) {
	case heap.Scalar:
		el.Attr("target", escape(c.Target))
	case heap.Record:
		writeFields(el, c.Fields)
	case heap.Sequence:
		writeElems(el, c.Elems)
	default:
		panic("unreachable")
	}
}

func writeEdge(root *Elem, e render.Edge) {
	el := root.Child("edge").
		Attr("source", strconv.Itoa(e.Src.ID)).
		Attr("target", strconv.Itoa(e.Dst.ID)).
		Attr("kind", e.Kind.String())
	if e.SrcField != "" {
		el.Attr("field", render.EscapeText(e.SrcField))
	}
	if e.Label != "" {
		el.Attr("label", render.EscapeText(e.Label))
	}
	if e.Color != render.Black {
		el.Attr("color", e.Color.String())
	}
}

// StackTree converts a proposition's pure constraints into a stack element,
// one stack-variable leaf per atom. A nil colorer paints everything black.
func StackTree(p *heap.Prop, colors *render.Colorer) *Elem {
	root := New("stack")
	for _, a := range p.Pure {
		el := root.Child("stack-variable").Attr("kind", a.Kind())
		color := render.Black
		if colors != nil {
			color = colors.Atom(a)
		}
		if color != render.Black {
			el.Attr("color", color.String())
		}
		el.Text = render.EscapeText(a.String())
	}
	return root
}

func escape(e heap.Expr) string {
	return render.EscapeText(e.String())
}
