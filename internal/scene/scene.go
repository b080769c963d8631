// Package scene models the host side of the engine: a tree of visual
// elements tagged with role markers, and the notifications the host sends
// when that tree changes.
//
// The engine never keys anything by *Element; it goes through the identity
// index. Elements are owned by the host and may be dropped at any time.
package scene

import "github.com/comalice/graphview/internal/geom"

// Element is one node of the scene tree.
type Element struct {
	ID string
	// Position is the initial position of worlds, nodes and edge anchors.
	Position geom.Point
	// Offset is the static layout offset of a port relative to its node.
	Offset geom.Point

	markers  []Marker
	parent   *Element
	children []*Element
}

// NewElement returns a detached element carrying markers.
func NewElement(id string, markers ...Marker) *Element {
	e := &Element{ID: id}
	for _, m := range markers {
		e.AddMarker(m)
	}
	return e
}

// At sets Position and returns e.
func (e *Element) At(x, y float64) *Element {
	e.Position = geom.Pt(x, y)
	return e
}

// WithOffset sets Offset and returns e.
func (e *Element) WithOffset(x, y float64) *Element {
	e.Offset = geom.Pt(x, y)
	return e
}

// Has reports whether e carries m.
func (e *Element) Has(m Marker) bool {
	for _, have := range e.markers {
		if have == m {
			return true
		}
	}
	return false
}

// Markers returns a copy of e's markers in insertion order.
func (e *Element) Markers() []Marker {
	return append([]Marker(nil), e.markers...)
}

// AddMarker tags e with m. Returns false if already present.
func (e *Element) AddMarker(m Marker) bool {
	if e.Has(m) {
		return false
	}
	e.markers = append(e.markers, m)
	return true
}

// RemoveMarker drops m from e. Returns false if absent.
func (e *Element) RemoveMarker(m Marker) bool {
	for i, have := range e.markers {
		if have == m {
			e.markers = append(e.markers[:i], e.markers[i+1:]...)
			return true
		}
	}
	return false
}

// Parent returns e's parent, nil for a root or detached element.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of e's children.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// Append attaches children to e, detaching them from any previous parent.
// Returns e.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = e
		e.children = append(e.children, c)
	}
	return e
}

// Remove detaches child from e. Returns false if child is not a direct child.
func (e *Element) Remove(child *Element) bool {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Closest returns the nearest element, starting at e itself and walking up,
// that carries m.
func (e *Element) Closest(m Marker) *Element {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.Has(m) {
			return cur
		}
	}
	return nil
}

// Walk visits e and its descendants depth-first in document order. Returning
// false from fn skips that element's subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(fn)
	}
}

// Find returns the first element in e's subtree with the given ID.
func (e *Element) Find(id string) *Element {
	var found *Element
	e.Walk(func(el *Element) bool {
		if found != nil {
			return false
		}
		if el.ID == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}
	return false
}

func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	return "#" + e.ID
}
