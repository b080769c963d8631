// Package visualize renders the live graph as Graphviz DOT for debugging.
package visualize

import (
	"bytes"
	"fmt"

	"github.com/comalice/graphview/internal/handle"
	"github.com/comalice/graphview/internal/model"
)

// Options tunes ExportDOT.
type Options struct {
	// Names labels entities; defaults to the handle's String.
	Names func(handle.Handle) string
	// Highlight marks entities, typically the moving-set.
	Highlight []handle.Handle
}

type exporter struct {
	m         *model.Model
	names     func(handle.Handle) string
	highlight map[handle.Handle]bool
}

// ExportDOT generates Graphviz DOT source for the current graph. Worlds and
// nodes become clusters, ports and floating edge anchors become leaf
// vertices, and every complete edge becomes an arrow between its endpoints.
func ExportDOT(m *model.Model, opts Options) string {
	x := &exporter{m: m, names: opts.Names, highlight: make(map[handle.Handle]bool)}
	if x.names == nil {
		x.names = handle.Handle.String
	}
	for _, h := range opts.Highlight {
		x.highlight[h] = true
	}

	var buf bytes.Buffer
	buf.WriteString(`digraph Graph {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	for _, w := range m.Entities(model.KindWorld) {
		x.renderWorld(&buf, w)
	}
	for _, n := range m.Entities(model.KindNode) {
		if m.Owner(n).IsNil() {
			x.renderNode(&buf, n, "  ")
		}
	}
	for _, e := range m.Entities(model.KindEdge) {
		x.renderEdge(&buf, e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (x *exporter) id(h handle.Handle) string {
	return fmt.Sprintf("%q", x.names(h))
}

func (x *exporter) label(h handle.Handle) string {
	if p, ok := x.m.Position(h); ok {
		return fmt.Sprintf("%s %s", x.names(h), p)
	}
	return x.names(h)
}

func (x *exporter) style(h handle.Handle) string {
	if x.highlight[h] {
		return ` style=filled fillcolor=orange`
	}
	return ""
}

func (x *exporter) renderWorld(buf *bytes.Buffer, w handle.Handle) {
	fmt.Fprintf(buf, "  subgraph %q {\n", "cluster_"+x.names(w))
	fmt.Fprintf(buf, "    label=%q%s;\n", x.label(w), x.style(w))
	for _, n := range x.m.ChildrenOfKind(w, model.KindNode) {
		x.renderNode(buf, n, "    ")
	}
	buf.WriteString("  }\n")
}

func (x *exporter) renderNode(buf *bytes.Buffer, n handle.Handle, indent string) {
	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+x.names(n))
	fmt.Fprintf(buf, "%s  label=%q%s;\n", indent, x.label(n), x.style(n))
	for _, port := range x.m.NodeAnchors(n) {
		fmt.Fprintf(buf, "%s  %s [label=%q shape=ellipse];\n", indent, x.id(port), x.names(port)+" ("+x.m.Kind(port).String()+")")
	}
	if len(x.m.NodeAnchors(n)) == 0 {
		// an empty cluster is dropped by graphviz
		fmt.Fprintf(buf, "%s  %s [label=%q shape=plaintext];\n", indent, x.id(n), x.names(n))
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func (x *exporter) renderEdge(buf *bytes.Buffer, e handle.Handle) {
	anchors := x.m.ChildrenOfKind(e, model.KindEdgeAnchor)
	ends := make([]string, 0, len(anchors))
	for _, a := range anchors {
		if n, ok := x.m.BoundNode(a); ok {
			ends = append(ends, x.id(n))
			continue
		}
		fmt.Fprintf(buf, "  %s [label=%q shape=point xlabel=%q%s];\n", x.id(a), "", x.label(a), x.style(a))
		ends = append(ends, x.id(a))
	}
	if len(ends) >= 2 {
		fmt.Fprintf(buf, "  %s -> %s [label=%q];\n", ends[0], ends[1], x.names(e))
	}
}
