package xtree

import (
	"strings"
	"testing"

	"github.com/heapviz/heapviz/pkg/heap"
	"github.com/heapviz/heapviz/pkg/render"
)

func TestElemMarshal(t *testing.T) {
	root := New("doc").Attr("id", "1")
	root.Child("leaf").Attr("name", "a<b")
	inner := root.Child("inner")
	inner.Child("leaf").Attr("name", "c")
	txt := root.Child("note")
	txt.Text = "x & y"

	want := `<doc id="1">
  <leaf name="a&lt;b"/>
  <inner>
    <leaf name="c"/>
  </inner>
  <note>x &amp; y</note>
</doc>
`
	if got := root.String(); got != want {
		t.Errorf("Marshal mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestElemAttrOrderPreserved(t *testing.T) {
	e := New("n").Attr("z", "1").Attr("a", "2")
	if got := e.String(); got != "<n z=\"1\" a=\"2\"/>\n" {
		t.Errorf("attribute order not preserved: %s", got)
	}
}

func build(t *testing.T, p *heap.Prop, opts render.Options) *render.Graph {
	t.Helper()
	g, err := render.Build(p, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestHeapTree(t *testing.T) {
	p := &heap.Prop{Cells: []heap.Cell{
		heap.PointsTo{Addr: heap.ParseExpr("x"), Value: heap.Scalar{Target: heap.ParseExpr("y")}, Type: "node"},
		heap.PointsTo{Addr: heap.ParseExpr("y"), Value: heap.Scalar{Target: heap.Nil}, Type: "node"},
	}}

	out := HeapTree(build(t, p, render.Options{}), "PRE 0").String()
	for _, want := range []string{
		`<heap id="PRE 0">`,
		`<node id="0" address="x" node-type="cell" memory-type="node" level="0"/>`,
		`node-type="nil"`,
		`<edge source="0" target="1" kind="cell-to-cell"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestHeapTreeStructPanel(t *testing.T) {
	p := &heap.Prop{Cells: []heap.Cell{
		heap.StructCell{
			Addr: heap.ParseExpr("s"),
			Type: "pair",
			Fields: []heap.Field{
				{Name: "fst", Value: heap.Scalar{Target: heap.ParseExpr("a")}},
				{Name: "in", Value: heap.Record{Fields: []heap.Field{
					{Name: "next", Value: heap.Scalar{Target: heap.Nil}},
				}}},
			},
		},
	}}

	out := HeapTree(build(t, p, render.Options{}), "h").String()
	for _, want := range []string{
		`node-type="struct" memory-type="pair"`,
		`<struct-field name="fst" target="a"/>`,
		`<struct-field name="in">`,
		`<struct-field name="next" target="nil"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestHeapTreeSegment(t *testing.T) {
	p := &heap.Prop{Cells: []heap.Cell{
		heap.ListSeg{
			Kind:  heap.SegPE,
			First: heap.ParseExpr("a"),
			Last:  heap.ParseExpr("b"),
			Body: []heap.Cell{
				heap.PointsTo{Addr: heap.ParseExpr("p"), Value: heap.Scalar{Target: heap.Nil}},
			},
		},
	}}

	out := HeapTree(build(t, p, render.Options{}), "h").String()
	for _, want := range []string{
		`node-type="lseg" segment-kind="PE" last="b"`,
		`level="1"`,
		`kind="list-seg-link"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestHeapTreeEscapesAddresses(t *testing.T) {
	p := &heap.Prop{Cells: []heap.Cell{
		heap.PointsTo{Addr: heap.ParseExpr("$a"), Value: heap.Scalar{Target: heap.ParseExpr("x")}},
		heap.PointsTo{Addr: heap.ParseExpr("x"), Value: heap.Scalar{Target: heap.ParseExpr("$a")}},
	}}

	out := HeapTree(build(t, p, render.Options{}), "h").String()
	if strings.Contains(out, "$") {
		t.Errorf("unescaped $ in output:\n%s", out)
	}
	if !strings.Contains(out, `address="Da"`) {
		t.Errorf("placeholder address not escaped:\n%s", out)
	}
}

func TestStackTree(t *testing.T) {
	p := &heap.Prop{Pure: []heap.Atom{
		heap.Eq{L: heap.ParseExpr("x"), R: heap.ParseExpr("y")},
		heap.Ne{L: heap.ParseExpr("z"), R: heap.Nil},
		heap.Lt{L: heap.ParseExpr("i"), R: heap.Const{Value: 10}},
	}}

	out := StackTree(p, nil).String()
	for _, want := range []string{
		`<stack-variable kind="equality">x = y</stack-variable>`,
		`<stack-variable kind="disequality">z != nil</stack-variable>`,
		`<stack-variable kind="inequality">i &lt; 10</stack-variable>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestStackTreeDiffColoring(t *testing.T) {
	atom := heap.Eq{L: heap.ParseExpr("x"), R: heap.Nil}
	pre := &heap.Prop{Pure: []heap.Atom{atom}}
	post := &heap.Prop{}
	preOracle, _ := heap.StructuralDiff(pre, post)

	out := StackTree(pre, render.NewColorer(preOracle, render.Black)).String()
	if !strings.Contains(out, `color="red"`) {
		t.Errorf("removed atom should be red:\n%s", out)
	}
}
