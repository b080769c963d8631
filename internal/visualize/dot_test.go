// Tests for DOT export of worlds, nodes, ports and edges.
package visualize

import (
	"strings"
	"testing"

	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/handle"
	"github.com/comalice/graphview/internal/model"
)

type el struct{ name string }

type graph struct {
	m     *model.Model
	names map[handle.Handle]string
	keep  []*el
}

func (g *graph) add(t *testing.T, tbl *handle.Table[el], name string, k model.Kind, owner handle.Handle) handle.Handle {
	t.Helper()
	e := &el{name: name}
	g.keep = append(g.keep, e)
	h := tbl.HandleOf(e)
	if !g.m.Register(h, k, owner) {
		t.Fatalf("register %s failed", name)
	}
	g.names[h] = name
	return h
}

func (g *graph) name(h handle.Handle) string {
	return g.names[h]
}

func TestExportDOT_Graph(t *testing.T) {
	tbl := handle.NewTable[el](nil)
	g := &graph{m: model.New(), names: map[handle.Handle]string{}}
	w := g.add(t, tbl, "w", model.KindWorld, handle.Nil)
	n1 := g.add(t, tbl, "n1", model.KindNode, w)
	o1 := g.add(t, tbl, "o1", model.KindNodeOutput, n1)
	n2 := g.add(t, tbl, "n2", model.KindNode, w)
	g.add(t, tbl, "i1", model.KindNodeInput, n2)
	e := g.add(t, tbl, "e", model.KindEdge, w)
	a := g.add(t, tbl, "a", model.KindEdgeAnchor, e)
	b := g.add(t, tbl, "b", model.KindEdgeAnchor, e)
	g.m.SetPosition(w, geom.Pt(0, 0))
	g.m.SetPosition(n1, geom.Pt(0, 0))
	g.m.SetPosition(n2, geom.Pt(100, 0))
	g.m.SetPosition(a, geom.Pt(0, 0))
	g.m.SetPosition(b, geom.Pt(40, 5))
	g.m.Bind(o1, a)

	dot := ExportDOT(g.m, Options{Names: g.name, Highlight: []handle.Handle{b}})

	for _, want := range []string{
		`digraph Graph {`,
		`subgraph "cluster_w" {`,
		`subgraph "cluster_n2" {`,
		`label="n2 (100,0)";`,
		`"i1" [label="i1 (node-input)" shape=ellipse];`,
		`"o1" -> "b" [label="e"];`,
		`xlabel="b (40,5)" style=filled fillcolor=orange`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing %s in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"a" [`) {
		t.Error("bound anchor should be drawn as its port, not as a point")
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("missing closing brace")
	}
}

func TestExportDOT_EmptyAndOrphans(t *testing.T) {
	m := model.New()
	dot := ExportDOT(m, Options{})
	if !strings.Contains(dot, "digraph Graph {") || strings.Contains(dot, "subgraph") {
		t.Errorf("unexpected output for empty model:\n%s", dot)
	}

	tbl := handle.NewTable[el](nil)
	n := &el{name: "lonely"}
	h := tbl.HandleOf(n)
	m.Register(h, model.KindNode, handle.Nil)
	dot = ExportDOT(m, Options{})
	if !strings.Contains(dot, `subgraph "cluster_`+h.String()+`"`) {
		t.Errorf("orphan node not rendered with default names:\n%s", dot)
	}
	if !strings.Contains(dot, "shape=plaintext") {
		t.Error("portless node needs a placeholder vertex")
	}
}
