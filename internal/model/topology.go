package model

import (
	"slices"

	"github.com/comalice/graphview/internal/handle"
)

// Kind tags an entity.
type Kind uint8

const (
	KindNone Kind = iota
	KindWorld
	KindNode
	KindNodeInput
	KindNodeOutput
	KindEdge
	KindEdgeAnchor
)

var kindNames = [...]string{"none", "world", "node", "node-input", "node-output", "edge", "edge-anchor"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsNodeAnchor reports whether k is an input or output port.
func (k Kind) IsNodeAnchor() bool {
	return k == KindNodeInput || k == KindNodeOutput
}

// Positioned reports whether entities of kind k carry a position entry.
func (k Kind) Positioned() bool {
	return k == KindWorld || k == KindNode || k == KindEdgeAnchor
}

// OwnerKind returns the kind of entity that owns entities of kind k.
func (k Kind) OwnerKind() Kind {
	switch k {
	case KindNode, KindEdge:
		return KindWorld
	case KindNodeInput, KindNodeOutput:
		return KindNode
	case KindEdgeAnchor:
		return KindEdge
	}
	return KindNone
}

type entity struct {
	kind     Kind
	owner    handle.Handle
	children []handle.Handle
}

// Register records a new entity of kind k owned by owner (may be Nil).
// Returns false if h is already registered.
func (m *Model) Register(h handle.Handle, k Kind, owner handle.Handle) bool {
	if _, exists := m.entities[h]; exists {
		return false
	}
	m.entities[h] = &entity{kind: k}
	m.SetOwner(h, owner)
	return true
}

// Unregister forgets h. Remaining children become unowned; callers destroy
// children first when the relation cascades.
func (m *Model) Unregister(h handle.Handle) {
	e := m.entities[h]
	if e == nil {
		return
	}
	m.detach(h, e)
	for _, c := range e.children {
		if ce := m.entities[c]; ce != nil {
			ce.owner = handle.Nil
		}
	}
	delete(m.entities, h)
}

// SetOwner moves h under owner. Nil detaches it.
func (m *Model) SetOwner(h, owner handle.Handle) {
	e := m.entities[h]
	if e == nil || e.owner == owner {
		return
	}
	m.detach(h, e)
	if oe := m.entities[owner]; oe != nil {
		e.owner = owner
		oe.children = append(oe.children, h)
	}
}

func (m *Model) detach(h handle.Handle, e *entity) {
	if oe := m.entities[e.owner]; oe != nil {
		if i := slices.Index(oe.children, h); i >= 0 {
			oe.children = slices.Delete(oe.children, i, i+1)
		}
	}
	e.owner = handle.Nil
}

// Exists reports whether h is a registered entity.
func (m *Model) Exists(h handle.Handle) bool {
	_, ok := m.entities[h]
	return ok
}

// Kind returns the kind of h, KindNone if unknown.
func (m *Model) Kind(h handle.Handle) Kind {
	if e := m.entities[h]; e != nil {
		return e.kind
	}
	return KindNone
}

// Owner returns the owner of h, Nil if none.
func (m *Model) Owner(h handle.Handle) handle.Handle {
	if e := m.entities[h]; e != nil {
		return e.owner
	}
	return handle.Nil
}

// Children returns a copy of the entities owned by h in registration order.
func (m *Model) Children(h handle.Handle) []handle.Handle {
	if e := m.entities[h]; e != nil {
		return slices.Clone(e.children)
	}
	return nil
}

// ChildrenOfKind filters Children by kind. KindNodeInput and KindNodeOutput
// are matched exactly; use NodeAnchors for both.
func (m *Model) ChildrenOfKind(h handle.Handle, k Kind) []handle.Handle {
	e := m.entities[h]
	if e == nil {
		return nil
	}
	var out []handle.Handle
	for _, c := range e.children {
		if m.Kind(c) == k {
			out = append(out, c)
		}
	}
	return out
}

// NodeAnchors returns the input and output ports owned by node.
func (m *Model) NodeAnchors(node handle.Handle) []handle.Handle {
	e := m.entities[node]
	if e == nil {
		return nil
	}
	var out []handle.Handle
	for _, c := range e.children {
		if m.Kind(c).IsNodeAnchor() {
			out = append(out, c)
		}
	}
	return out
}

// Entities returns every registered handle of kind k (all kinds for
// KindNone) sorted by handle.
func (m *Model) Entities(k Kind) []handle.Handle {
	var out []handle.Handle
	for h, e := range m.entities {
		if k == KindNone || e.kind == k {
			out = append(out, h)
		}
	}
	slices.SortFunc(out, func(a, b handle.Handle) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return out
}

// Len returns the number of registered entities.
func (m *Model) Len() int {
	return len(m.entities)
}
