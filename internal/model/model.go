// Package model holds the authoritative graph state of the engine.
//
// Every index is keyed by handle.Handle. Lookups on absent keys return the
// zero value and false; deletes of absent keys are no-ops. The model stores
// structure and geometry only and never judges whether a binding makes
// sense: that policy belongs to callers.
package model

import (
	"slices"

	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/handle"
	"github.com/comalice/graphview/internal/render"
)

// Model is not safe for concurrent use.
type Model struct {
	positions map[handle.Handle]geom.Point
	paths     map[handle.Handle]render.PathHandle
	bound     map[handle.Handle]*handleSet // node anchor -> edge anchors
	boundNode map[handle.Handle]handle.Handle

	entities map[handle.Handle]*entity
	offsets  map[handle.Handle]geom.Point
}

// New returns an empty model.
func New() *Model {
	return &Model{
		positions: make(map[handle.Handle]geom.Point),
		paths:     make(map[handle.Handle]render.PathHandle),
		bound:     make(map[handle.Handle]*handleSet),
		boundNode: make(map[handle.Handle]handle.Handle),
		entities:  make(map[handle.Handle]*entity),
		offsets:   make(map[handle.Handle]geom.Point),
	}
}

//
// Positions
//

func (m *Model) Position(h handle.Handle) (geom.Point, bool) {
	p, ok := m.positions[h]
	return p, ok
}

func (m *Model) SetPosition(h handle.Handle, p geom.Point) {
	m.positions[h] = p
}

func (m *Model) DeletePosition(h handle.Handle) {
	delete(m.positions, h)
}

// Translate moves a positioned entity by d and returns the new position.
func (m *Model) Translate(h handle.Handle, d geom.Point) (geom.Point, bool) {
	p, ok := m.positions[h]
	if !ok {
		return geom.Point{}, false
	}
	p = p.Add(d)
	m.positions[h] = p
	return p, true
}

// PositionCount returns the number of position entries.
func (m *Model) PositionCount() int {
	return len(m.positions)
}

//
// Paths
//

func (m *Model) Path(edge handle.Handle) (render.PathHandle, bool) {
	p, ok := m.paths[edge]
	return p, ok
}

func (m *Model) SetPath(edge handle.Handle, p render.PathHandle) {
	m.paths[edge] = p
}

func (m *Model) DeletePath(edge handle.Handle) {
	delete(m.paths, edge)
}

//
// Bindings. AddBound/RemoveBound and SetBoundNode/DeleteBoundNode each touch
// one side only; Bind and Unbind keep both sides consistent.
//

// AddBound records e in the bound set of node anchor n.
func (m *Model) AddBound(n, e handle.Handle) {
	s := m.bound[n]
	if s == nil {
		s = newHandleSet()
		m.bound[n] = s
	}
	s.add(e)
}

// RemoveBound drops e from the bound set of n.
func (m *Model) RemoveBound(n, e handle.Handle) {
	s := m.bound[n]
	if s == nil {
		return
	}
	s.remove(e)
	if s.len() == 0 {
		delete(m.bound, n)
	}
}

// RemoveAllBound clears the bound set of n.
func (m *Model) RemoveAllBound(n handle.Handle) {
	delete(m.bound, n)
}

// Bound returns a copy of the edge anchors bound to n, in binding order
// (removals may reorder).
func (m *Model) Bound(n handle.Handle) []handle.Handle {
	s := m.bound[n]
	if s == nil {
		return nil
	}
	return slices.Clone(s.items)
}

// IsBound reports whether e is in the bound set of n.
func (m *Model) IsBound(n, e handle.Handle) bool {
	s := m.bound[n]
	return s != nil && s.has(e)
}

// BoundNode returns the node anchor e is bound to.
func (m *Model) BoundNode(e handle.Handle) (handle.Handle, bool) {
	n, ok := m.boundNode[e]
	return n, ok
}

func (m *Model) SetBoundNode(e, n handle.Handle) {
	m.boundNode[e] = n
}

func (m *Model) DeleteBoundNode(e handle.Handle) {
	delete(m.boundNode, e)
}

// Bind attaches edge anchor e to node anchor n. A previous binding of e is
// removed first, so the old node anchor never keeps a stale entry.
func (m *Model) Bind(n, e handle.Handle) {
	if old, ok := m.boundNode[e]; ok {
		if old == n {
			return
		}
		m.RemoveBound(old, e)
	}
	m.AddBound(n, e)
	m.boundNode[e] = n
}

// Unbind detaches e from its node anchor. Returns the former node anchor.
func (m *Model) Unbind(e handle.Handle) (handle.Handle, bool) {
	n, ok := m.boundNode[e]
	if !ok {
		return handle.Nil, false
	}
	m.RemoveBound(n, e)
	delete(m.boundNode, e)
	return n, true
}

// UnbindAll detaches every edge anchor bound to n and returns them.
func (m *Model) UnbindAll(n handle.Handle) []handle.Handle {
	released := m.Bound(n)
	for _, e := range released {
		if m.boundNode[e] == n {
			delete(m.boundNode, e)
		}
	}
	m.RemoveAllBound(n)
	return released
}

// BindingCount returns the number of bound edge anchors.
func (m *Model) BindingCount() int {
	return len(m.boundNode)
}

//
// Anchor layout
//

func (m *Model) SetAnchorOffset(n handle.Handle, off geom.Point) {
	m.offsets[n] = off
}

func (m *Model) AnchorOffset(n handle.Handle) (geom.Point, bool) {
	off, ok := m.offsets[n]
	return off, ok
}

func (m *Model) DeleteAnchorOffset(n handle.Handle) {
	delete(m.offsets, n)
}

// AnchorPosition derives a node anchor's rendered position from its owning
// node's position plus the anchor's static offset.
func (m *Model) AnchorPosition(n handle.Handle) (geom.Point, bool) {
	e := m.entities[n]
	if e == nil || !e.kind.IsNodeAnchor() {
		return geom.Point{}, false
	}
	node, ok := m.positions[e.owner]
	if !ok {
		return geom.Point{}, false
	}
	return node.Add(m.offsets[n]), true
}

// EdgeEndpoints returns the positions of an edge's first two anchors.
func (m *Model) EdgeEndpoints(edge handle.Handle) (from, to geom.Point, ok bool) {
	anchors := m.ChildrenOfKind(edge, KindEdgeAnchor)
	if len(anchors) < 2 {
		return geom.Point{}, geom.Point{}, false
	}
	from, okA := m.positions[anchors[0]]
	to, okB := m.positions[anchors[1]]
	return from, to, okA && okB
}

// EdgeGeometry bundles what a renderer needs to redraw an edge: its path and
// both endpoint positions. ok is false until the edge has a path and two
// positioned anchors.
func (m *Model) EdgeGeometry(edge handle.Handle) (p render.PathHandle, from, to geom.Point, ok bool) {
	p, hasPath := m.paths[edge]
	if !hasPath {
		return 0, geom.Point{}, geom.Point{}, false
	}
	from, to, ok = m.EdgeEndpoints(edge)
	return p, from, to, ok
}
