package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/heapviz/heapviz/pkg/heap"
	"github.com/heapviz/heapviz/pkg/render"
)

// Options configures DOT output.
type Options struct {
	// Banner, when non-empty, adds a yellow section header node above the
	// graph. Pre/post renders use it for their PRE and POST banners.
	Banner string

	// Name is the digraph name. Defaults to "heap".
	Name string
}

// Marshal converts a rendered graph to Graphviz DOT text. Output is
// deterministic for a given graph: nodes in render order, edges in link
// order, clusters by id.
func Marshal(g *render.Graph, opts Options) []byte {
	name := opts.Name
	if name == "" {
		name = "heap"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", name)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, fontsize=12];\n")
	buf.WriteString("\n")

	if opts.Banner != "" {
		fmt.Fprintf(&buf, "  banner [shape=box, style=filled, color=yellow, label=%q];\n", render.EscapeText(opts.Banner))
	}

	byCluster := make(map[int]int, len(g.Nodes))
	for _, c := range g.Clusters {
		for _, id := range c.NodeIDs {
			byCluster[id] = c.ID
		}
	}

	for _, c := range g.Clusters {
		nested := c.Level > 0
		indent := "  "
		if nested {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", c.ID)
			buf.WriteString("    style=filled;\n")
			buf.WriteString("    color=lightgrey;\n")
			if c.Label != "" {
				fmt.Fprintf(&buf, "    label=%q;\n", render.EscapeText(c.Label))
			}
			indent = "    "
		}
		for _, n := range g.Nodes {
			if byCluster[n.At().ID] != c.ID {
				continue
			}
			writeNode(&buf, indent, n)
		}
		if nested {
			buf.WriteString("  }\n")
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		writeEdge(&buf, e)
	}

	buf.WriteString("}\n")
	return buf.Bytes()
}

func nodeName(id int) string {
	return fmt.Sprintf("n%d", id)
}

func writeNode(buf *bytes.Buffer, indent string, n render.Node) {
	color := n.NodeColor().String()
	switch n := n.(type) {
	case render.NilNode:
		fmt.Fprintf(buf, "%s%s [label=\"NIL\", color=%s];\n", indent, nodeName(n.Coord.ID), color)
	case render.DanglingNode:
		fmt.Fprintf(buf, "%s%s [label=%q, style=dashed, color=%s];\n",
			indent, nodeName(n.Coord.ID), render.EscapeText(n.Addr.String()), color)
	case render.CellNode:
		fmt.Fprintf(buf, "%s%s [label=%q, color=%s];\n",
			indent, nodeName(n.Coord.ID), cellLabel(n.Addr, n.Type), color)
	case render.StructNode:
		fmt.Fprintf(buf, "%s%s [shape=record, label=%q, color=%s];\n",
			indent, nodeName(n.Coord.ID), structLabel(n.Addr, n.Fields), color)
	case render.ArrayNode:
		fmt.Fprintf(buf, "%s%s [shape=record, label=%q, color=%s];\n",
			indent, nodeName(n.Coord.ID), arrayLabel(n.Addr, n.Size, n.Elems), color)
	case render.ListSegNode:
		label := "lseg " + n.Kind.String() + "\\n" +
			render.EscapeText(n.First.String()) + ".." + render.EscapeText(n.Last.String())
		fmt.Fprintf(buf, "%s%s [label=\"%s\", color=%s];\n", indent, nodeName(n.Coord.ID), label, color)
		writeEllipsis(buf, indent, n.Coord.ID, color)
	case render.DLLSegNode:
		label := "dllseg " + n.Kind.String() + "\\n" +
			render.EscapeText(n.First.String()) + ".." + render.EscapeText(n.Last.String())
		fmt.Fprintf(buf, "%s%s [label=\"%s\", color=%s];\n", indent, nodeName(n.Coord.ID), label, color)
		fmt.Fprintf(buf, "%s%s [label=\"rev\", color=%s];\n", indent, nodeName(n.Back.ID), color)
		writeEllipsis(buf, indent, n.Coord.ID, color)
	default:
		panic("unreachable")
	}
}

// writeEllipsis draws the dotted three-box chain that stands for the elided
// middle of a segment. The boxes hang off the placeholder with dotted edges
// and carry no labels.
func writeEllipsis(buf *bytes.Buffer, indent string, id int, color string) {
	owner := nodeName(id)
	prev := owner
	for i := 0; i < 3; i++ {
		box := fmt.Sprintf("%s_e%d", owner, i)
		fmt.Fprintf(buf, "%s%s [label=\"\", style=dotted, color=%s];\n", indent, box, color)
		fmt.Fprintf(buf, "%s%s -> %s [style=dotted, arrowhead=none, color=%s];\n", indent, prev, box, color)
		prev = box
	}
}

func cellLabel(addr heap.Expr, typ string) string {
	label := render.EscapeText(addr.String())
	if typ != "" {
		label += ":" + render.EscapeText(typ)
	}
	return label
}

// structLabel builds a record label with one port per leaf member, keyed by
// the member's full access path so edges can attach to the row they name.
func structLabel(addr heap.Expr, fields []heap.Field) string {
	var b strings.Builder
	b.WriteString("{")
	b.WriteString(render.EscapeText(addr.String()))
	b.WriteString("|{")
	writeFieldRows(&b, fields, "")
	b.WriteString("}}")
	return b.String()
}

func arrayLabel(addr heap.Expr, size heap.Expr, elems []heap.SeqElem) string {
	var b strings.Builder
	b.WriteString("{")
	b.WriteString(render.EscapeText(addr.String()))
	if size != nil {
		b.WriteString(" [" + render.EscapeText(size.String()) + "]")
	}
	b.WriteString("|{")
	writeElemRows(&b, elems, "")
	b.WriteString("}}")
	return b.String()
}

func writeFieldRows(b *strings.Builder, fields []heap.Field, prefix string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteString("|")
		}
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		switch v := f.Value.(type) {
		case heap.Scalar:
			fmt.Fprintf(b, "<%s> %s", portName(path), render.EscapeText(f.Name))
		case heap.Record:
			fmt.Fprintf(b, "%s|{", render.EscapeText(f.Name))
			writeFieldRows(b, v.Fields, path)
			b.WriteString("}")
		case heap.Sequence:
			fmt.Fprintf(b, "%s|{", render.EscapeText(f.Name))
			writeElemRows(b, v.Elems, path)
			b.WriteString("}")
		default:
			panic("unreachable")
		}
	}
}

func writeElemRows(b *strings.Builder, elems []heap.SeqElem, prefix string) {
	for i, e := range elems {
		if i > 0 {
			b.WriteString("|")
		}
		idx := e.Index.String()
		path := prefix + "[" + idx + "]"
		switch v := e.Value.(type) {
		case heap.Scalar:
			fmt.Fprintf(b, "<%s> %s", portName(path), render.EscapeText(idx))
		case heap.Record:
			fmt.Fprintf(b, "%s|{", render.EscapeText(idx))
			writeFieldRows(b, v.Fields, path)
			b.WriteString("}")
		case heap.Sequence:
			fmt.Fprintf(b, "%s|{", render.EscapeText(idx))
			writeElemRows(b, v.Elems, path)
			b.WriteString("}")
		default:
			panic("unreachable")
		}
	}
}

// portName turns an access path into a DOT port identifier. Graphviz ports
// must be plain identifiers, so everything outside [A-Za-z0-9] becomes an
// underscore after escaping.
func portName(path string) string {
	s := render.EscapeText(path)
	var b strings.Builder
	b.WriteString("p_")
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func writeEdge(buf *bytes.Buffer, e render.Edge) {
	src := nodeName(e.Src.ID)
	if e.SrcField != "" {
		src += ":" + portName(e.SrcField)
	}
	attrs := []string{fmt.Sprintf("color=%s", e.Color.String())}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", render.EscapeText(e.Label)))
	}
	switch e.Kind {
	case render.ListSegLink, render.DLLSegLink:
		attrs = append(attrs, "style=dashed")
	}
	fmt.Fprintf(buf, "  %s -> %s [%s];\n", src, nodeName(e.Dst.ID), strings.Join(attrs, ", "))
}
