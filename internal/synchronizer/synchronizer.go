// Package synchronizer keeps the relational model in step with the scene tree.
//
// Scene notifications are queued by the host and applied in order by Drain.
// Inserted subtrees are promoted one entity kind at a time (worlds, nodes,
// ports, edges, edge anchors) so owners always exist before their children;
// removed subtrees are torn down in the reverse order. Every Create* and
// Destroy* entry point is idempotent.
package synchronizer

import (
	"log/slog"
	"slices"

	"github.com/comalice/graphview/internal/handle"
	"github.com/comalice/graphview/internal/model"
	"github.com/comalice/graphview/internal/render"
	"github.com/comalice/graphview/internal/scene"
)

// Synchronizer applies scene notifications to the model and paints the
// resulting initial state through the renderer.
type Synchronizer struct {
	ids   *handle.Table[scene.Element]
	model *model.Model
	out   render.Renderer
	queue *scene.Queue
	log   *slog.Logger

	onDestroy []func(handle.Handle)
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// OnDestroy registers fn to run for every entity handle right before it is
// released.
func OnDestroy(fn func(handle.Handle)) Option {
	return func(s *Synchronizer) {
		if fn != nil {
			s.onDestroy = append(s.onDestroy, fn)
		}
	}
}

// New wires a Synchronizer to its collaborators. q may be shared with a host
// goroutine; everything else is owned by the caller's goroutine.
func New(ids *handle.Table[scene.Element], m *model.Model, out render.Renderer, q *scene.Queue, log *slog.Logger, opts ...Option) *Synchronizer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Synchronizer{
		ids:   ids,
		model: m,
		out:   out,
		queue: q,
		log:   log.With("component", "synchronizer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Drain applies every queued notification in push order and returns how many
// were applied.
func (s *Synchronizer) Drain() int {
	n := 0
	for s.queue.Len() > 0 {
		for _, ev := range s.queue.Collect() {
			s.log.Debug("applying scene event", "seq", ev.SequenceNum, "event", ev.Event)
			s.Apply(ev.Event)
			n++
		}
	}
	return n
}

// Apply handles one notification immediately, bypassing the queue.
func (s *Synchronizer) Apply(ev scene.Event) {
	if ev.Target == nil {
		return
	}
	switch ev.Kind {
	case scene.SubtreeInserted:
		s.Insert(ev.Target)
	case scene.SubtreeRemoved:
		s.Remove(ev.Target)
	case scene.MarkerAdded:
		// The marker may have been removed again before the queue drained.
		if !ev.Target.Has(ev.Marker) {
			break
		}
		// A re-added owner marker brings back the ports or endpoints its
		// removal destroyed, so walk the whole subtree.
		if ev.Marker.Entity() {
			s.Insert(ev.Target)
		} else {
			s.promote(ev.Target, ev.Marker)
		}
	case scene.MarkerRemoved:
		if !ev.Target.Has(ev.Marker) {
			s.demote(ev.Target, ev.Marker)
		}
	default:
		s.log.Debug("unknown scene event", "kind", ev.Kind)
	}
}

// Insert promotes every marked element under root, owners first.
func (s *Synchronizer) Insert(root *scene.Element) {
	for _, m := range scene.EntityMarkers {
		root.Walk(func(el *scene.Element) bool {
			if el.Has(m) {
				s.promote(el, m)
			}
			return true
		})
	}
}

// Remove destroys every entity under root, children first.
func (s *Synchronizer) Remove(root *scene.Element) {
	var found []handle.Handle
	root.Walk(func(el *scene.Element) bool {
		if h, ok := s.ids.Lookup(el); ok && s.model.Exists(h) {
			found = append(found, h)
		}
		return true
	})

	for _, m := range slices.Backward(scene.EntityMarkers) {
		kind := kindOf(m)
		for _, h := range found {
			if s.model.Kind(h) == kind {
				s.destroy(h)
			}
		}
	}
}

func (s *Synchronizer) promote(el *scene.Element, m scene.Marker) {
	switch m {
	case scene.World:
		s.CreateWorld(el)
	case scene.Node:
		s.CreateNode(el)
	case scene.NodeInput, scene.NodeOutput:
		s.CreateNodeAnchor(el, m)
	case scene.Edge:
		s.CreateEdge(el)
	case scene.EdgeAnchor:
		s.CreateEdgeAnchor(el)
	default:
		s.log.Debug("ignoring marker", "element", el, "marker", m, "known", m.Known())
	}
}

func (s *Synchronizer) demote(el *scene.Element, m scene.Marker) {
	kind := kindOf(m)
	if kind == model.KindNone {
		s.log.Debug("ignoring marker", "element", el, "marker", m, "known", m.Known())
		return
	}
	h, ok := s.ids.Lookup(el)
	if !ok || s.model.Kind(h) != kind {
		return
	}
	s.destroy(h)
}

//
// Creation
//

// CreateWorld promotes el to a World positioned at el.Position.
func (s *Synchronizer) CreateWorld(el *scene.Element) handle.Handle {
	h, created := s.register(el, model.KindWorld)
	if created {
		s.place(h, el)
	}
	return h
}

// CreateNode promotes el to a Node owned by its nearest world.
func (s *Synchronizer) CreateNode(el *scene.Element) handle.Handle {
	h, created := s.register(el, model.KindNode)
	if created {
		s.place(h, el)
	}
	return h
}

// CreateNodeAnchor promotes el to an input or output port owned by its
// nearest node. The port's layout offset is taken from el.Offset.
func (s *Synchronizer) CreateNodeAnchor(el *scene.Element, m scene.Marker) handle.Handle {
	kind := kindOf(m)
	if !kind.IsNodeAnchor() {
		s.log.Debug("not a port marker", "element", el, "marker", m)
		return handle.Nil
	}
	h, created := s.register(el, kind)
	if created {
		s.model.SetAnchorOffset(h, el.Offset)
	}
	return h
}

// CreateEdge promotes el to an Edge and allocates its renderer path.
func (s *Synchronizer) CreateEdge(el *scene.Element) handle.Handle {
	h, created := s.register(el, model.KindEdge)
	if created {
		s.model.SetPath(h, s.out.CreatePath(h))
		s.paintEdge(h)
	}
	return h
}

// CreateEdgeAnchor promotes el to one endpoint of its nearest edge.
func (s *Synchronizer) CreateEdgeAnchor(el *scene.Element) handle.Handle {
	h, created := s.register(el, model.KindEdgeAnchor)
	if created {
		s.place(h, el)
		s.paintEdge(s.model.Owner(h))
	}
	return h
}

func (s *Synchronizer) register(el *scene.Element, kind model.Kind) (handle.Handle, bool) {
	if el == nil {
		return handle.Nil, false
	}
	h := s.ids.HandleOf(el)
	if have := s.model.Kind(h); have != model.KindNone {
		if have != kind {
			s.log.Debug("element already promoted", "element", el, "kind", have, "wanted", kind)
		}
		return h, false
	}

	owner := s.ownerOf(el, kind)
	s.model.Register(h, kind, owner)
	s.adopt(el, h, kind)
	s.log.Debug("entity created", "element", el, "handle", h, "kind", kind, "owner", owner)
	return h, true
}

// ownerOf resolves the nearest strict ancestor that is a live entity of
// kind's owner kind.
func (s *Synchronizer) ownerOf(el *scene.Element, kind model.Kind) handle.Handle {
	want := kind.OwnerKind()
	if want == model.KindNone || el.Parent() == nil {
		return handle.Nil
	}
	anc := el.Parent().Closest(markerOf(want))
	if anc == nil {
		return handle.Nil
	}
	if h, ok := s.ids.Lookup(anc); ok && s.model.Kind(h) == want {
		return h
	}
	return handle.Nil
}

// adopt gives ownerless descendants of el to h when h is their nearest owner.
// This happens when an owner marker is added after its children were promoted.
func (s *Synchronizer) adopt(el *scene.Element, h handle.Handle, kind model.Kind) {
	for _, c := range el.Children() {
		c.Walk(func(d *scene.Element) bool {
			dh, ok := s.ids.Lookup(d)
			if !ok || !s.model.Exists(dh) || !s.model.Owner(dh).IsNil() {
				return true
			}
			if s.model.Kind(dh).OwnerKind() == kind && s.ownerOf(d, s.model.Kind(dh)) == h {
				s.model.SetOwner(dh, h)
				s.log.Debug("entity adopted", "handle", dh, "owner", h)
			}
			return true
		})
	}
}

func (s *Synchronizer) place(h handle.Handle, el *scene.Element) {
	s.model.SetPosition(h, el.Position)
	s.out.SetPosition(h, el.Position.X, el.Position.Y)
}

// paintEdge emits edge geometry once the edge has a path and two anchors.
func (s *Synchronizer) paintEdge(edge handle.Handle) {
	if p, from, to, ok := s.model.EdgeGeometry(edge); ok {
		s.out.SetPathGeometry(p, from, to)
	}
}

//
// Destruction
//

// DestroyWorld removes the World promoted from el. Its nodes and edges stay
// alive without an owner.
func (s *Synchronizer) DestroyWorld(el *scene.Element) { s.destroyElement(el, model.KindWorld) }

// DestroyNode removes the Node promoted from el together with its ports.
func (s *Synchronizer) DestroyNode(el *scene.Element) { s.destroyElement(el, model.KindNode) }

// DestroyNodeAnchor removes the port promoted from el and detaches every
// edge anchor bound to it.
func (s *Synchronizer) DestroyNodeAnchor(el *scene.Element) {
	h, ok := s.ids.Lookup(el)
	if ok && s.model.Kind(h).IsNodeAnchor() {
		s.destroy(h)
	}
}

// DestroyEdge removes the Edge promoted from el, its anchors and its path.
func (s *Synchronizer) DestroyEdge(el *scene.Element) { s.destroyElement(el, model.KindEdge) }

// DestroyEdgeAnchor removes the edge anchor promoted from el, unbinding it.
func (s *Synchronizer) DestroyEdgeAnchor(el *scene.Element) {
	s.destroyElement(el, model.KindEdgeAnchor)
}

func (s *Synchronizer) destroyElement(el *scene.Element, kind model.Kind) {
	if h, ok := s.ids.Lookup(el); ok && s.model.Kind(h) == kind {
		s.destroy(h)
	}
}

func (s *Synchronizer) destroy(h handle.Handle) {
	kind := s.model.Kind(h)
	switch kind {
	case model.KindNone:
		return
	case model.KindWorld:
		s.model.DeletePosition(h)
	case model.KindNode:
		for _, port := range s.model.NodeAnchors(h) {
			s.destroy(port)
		}
		s.model.DeletePosition(h)
	case model.KindNodeInput, model.KindNodeOutput:
		if released := s.model.UnbindAll(h); len(released) > 0 {
			s.log.Debug("edge anchors detached", "port", h, "anchors", released)
		}
		s.model.DeleteAnchorOffset(h)
	case model.KindEdge:
		for _, a := range s.model.ChildrenOfKind(h, model.KindEdgeAnchor) {
			s.destroy(a)
		}
		if p, ok := s.model.Path(h); ok {
			s.out.RemovePath(p)
			s.model.DeletePath(h)
		}
	case model.KindEdgeAnchor:
		s.model.Unbind(h)
		s.model.DeletePosition(h)
	}

	s.model.Unregister(h)
	for _, fn := range s.onDestroy {
		fn(h)
	}
	s.ids.Release(h)
	s.log.Debug("entity destroyed", "handle", h, "kind", kind)
}

func kindOf(m scene.Marker) model.Kind {
	switch m {
	case scene.World:
		return model.KindWorld
	case scene.Node:
		return model.KindNode
	case scene.NodeInput:
		return model.KindNodeInput
	case scene.NodeOutput:
		return model.KindNodeOutput
	case scene.Edge:
		return model.KindEdge
	case scene.EdgeAnchor:
		return model.KindEdgeAnchor
	}
	return model.KindNone
}

func markerOf(k model.Kind) scene.Marker {
	switch k {
	case model.KindWorld:
		return scene.World
	case model.KindNode:
		return scene.Node
	case model.KindNodeInput:
		return scene.NodeInput
	case model.KindNodeOutput:
		return scene.NodeOutput
	case model.KindEdge:
		return scene.Edge
	case model.KindEdgeAnchor:
		return scene.EdgeAnchor
	}
	return ""
}
