// Package graphview is an in-canvas node/edge diagram engine.
//
// Elements of a host scene tree that carry role markers (world, node,
// node-input, node-output, edge, edge-anchor) are promoted to live graph
// entities. Pointer gestures drag worlds, nodes and edge endpoints, and
// connect or detach edge endpoints from node ports. Every geometry change is
// pushed to a Renderer.
//
// An Engine is single-threaded: pointer input, Drain and queries must come
// from one goroutine. Scene notifications (OnSubtreeInserted and friends)
// only enqueue and may be called from anywhere; they are applied in order on
// the next Drain or pointer event.
//
// Basic usage:
//
//	rec := graphview.NewRecorder(graphview.StyleLine)
//	eng := graphview.New(graphview.WithRenderer(rec))
//	eng.Mount(root)
//	eng.OnPress(root.Find("a"))
//	eng.OnMove(90, 10)
//	eng.OnHoverEnter(root.Find("i1"))
//	eng.OnRelease()
package graphview

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/comalice/graphview/internal/handle"
	"github.com/comalice/graphview/internal/interaction"
	"github.com/comalice/graphview/internal/model"
	"github.com/comalice/graphview/internal/render"
	"github.com/comalice/graphview/internal/scene"
	"github.com/comalice/graphview/internal/synchronizer"
	"github.com/comalice/graphview/internal/visualize"
)

// Engine wires the identity index, the relational model, the scene
// synchronizer and the gesture controller around one renderer.
type Engine struct {
	id    string
	log   *slog.Logger
	out   Renderer
	ids   *handle.Table[scene.Element]
	model *model.Model
	queue *scene.Queue
	sync  *synchronizer.Synchronizer
	ctrl  *interaction.Controller

	lost atomic.Int64
}

// New builds an Engine with an empty graph.
func New(opts ...Option) *Engine {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	s.resolve()

	e := &Engine{
		id:  s.session,
		out: s.renderer,
	}
	if e.id == "" {
		e.id = uuid.NewString()
	}
	if e.out == nil {
		e.out = &render.Nop{}
	}
	e.log = s.log.With("engine", e.id)
	e.ids = handle.NewTable[scene.Element](e.elementLost)
	e.model = model.New()
	e.queue = scene.NewQueue(s.queueSize)
	e.ctrl = interaction.New(e.model, e.out, e.log)
	e.sync = synchronizer.New(e.ids, e.model, e.out, e.queue, e.log,
		synchronizer.OnDestroy(e.ctrl.Forget))
	return e
}

// ID returns the engine's session id, a random UUID unless WithSessionID
// set one.
func (e *Engine) ID() string {
	return e.id
}

// elementLost runs on a runtime goroutine when an element is collected while
// its entity is still alive.
func (e *Engine) elementLost(h handle.Handle) {
	e.lost.Add(1)
	e.log.Warn("lifecycle leak: element collected before its entity was destroyed", "handle", h)
}

//
// Scene notifications
//

// OnSubtreeInserted reports that root and its descendants joined the scene.
func (e *Engine) OnSubtreeInserted(root *Element) {
	e.queue.Push(scene.Event{Kind: scene.SubtreeInserted, Target: root})
}

// OnSubtreeRemoved reports that root and its descendants left the scene.
func (e *Engine) OnSubtreeRemoved(root *Element) {
	e.queue.Push(scene.Event{Kind: scene.SubtreeRemoved, Target: root})
}

// OnMarkerAdded reports that el now carries m.
func (e *Engine) OnMarkerAdded(el *Element, m Marker) {
	e.queue.Push(scene.Event{Kind: scene.MarkerAdded, Target: el, Marker: m})
}

// OnMarkerRemoved reports that el no longer carries m.
func (e *Engine) OnMarkerRemoved(el *Element, m Marker) {
	e.queue.Push(scene.Event{Kind: scene.MarkerRemoved, Target: el, Marker: m})
}

// Drain applies every pending scene notification and returns the count.
func (e *Engine) Drain() int {
	return e.sync.Drain()
}

// Mount promotes an already populated tree.
func (e *Engine) Mount(root *Element) {
	e.OnSubtreeInserted(root)
	e.Drain()
}

//
// Pointer input. Pending scene notifications are applied first so a gesture
// never sees a stale graph.
//

// OnPress starts a drag on the element under the pointer. A press inside a
// node's drag handle drags the node, a press on an edge anchor drags that
// endpoint, and a press on a world element itself pans the world. Anything
// else is ignored.
func (e *Engine) OnPress(el *Element) {
	e.Drain()
	if el == nil {
		return
	}
	switch {
	case el.Closest(scene.NodeDragHandle) != nil:
		e.press(scene.NodeDragHandle, el.Closest(scene.Node))
	case el.Closest(scene.EdgeAnchor) != nil:
		e.press(scene.EdgeAnchor, el.Closest(scene.EdgeAnchor))
	case el.Has(scene.World):
		e.press(scene.World, el)
	default:
		e.log.Debug("press on inert element", "element", el)
	}
}

func (e *Engine) press(role Marker, target *Element) {
	h, ok := e.ids.Lookup(target)
	if !ok {
		e.log.Debug("press on element without entity", "element", target, "role", role)
		return
	}
	e.ctrl.OnPress(role, h)
}

// Press starts a drag on an entity handle directly; role must match the
// entity's kind.
func (e *Engine) Press(role Marker, h Handle) {
	e.Drain()
	e.ctrl.OnPress(role, h)
}

// OnMove applies a relative pointer movement to the active drag.
func (e *Engine) OnMove(dx, dy float64) {
	e.Drain()
	e.ctrl.OnMove(dx, dy)
}

// OnRelease ends the active drag, connecting or detaching a dragged edge
// anchor.
func (e *Engine) OnRelease() {
	e.Drain()
	e.ctrl.OnRelease()
}

// OnHoverEnter reports the pointer entering el or one of its descendants.
func (e *Engine) OnHoverEnter(el *Element) {
	e.Drain()
	if h, ok := e.entityAt(el); ok {
		e.ctrl.OnHoverEnter(h)
	}
}

// OnHoverLeave reports the pointer leaving el.
func (e *Engine) OnHoverLeave(el *Element) {
	e.Drain()
	if h, ok := e.entityAt(el); ok {
		e.ctrl.OnHoverLeave(h)
	}
}

// entityAt returns the entity of el or of its nearest promoted ancestor.
func (e *Engine) entityAt(el *Element) (Handle, bool) {
	for cur := el; cur != nil; cur = cur.Parent() {
		if h, ok := e.ids.Lookup(cur); ok && e.model.Exists(h) {
			return h, true
		}
	}
	return handle.Nil, false
}

//
// Queries
//

// Lookup returns the handle of el's entity without issuing one.
func (e *Engine) Lookup(el *Element) (Handle, bool) {
	h, ok := e.ids.Lookup(el)
	if !ok || !e.model.Exists(h) {
		return handle.Nil, false
	}
	return h, true
}

// Element returns the element behind h, nil once released or collected.
func (e *Engine) Element(h Handle) *Element {
	return e.ids.Value(h)
}

// Position returns el's current position. Ports report their derived
// position.
func (e *Engine) Position(el *Element) (Point, bool) {
	h, ok := e.Lookup(el)
	if !ok {
		return Point{}, false
	}
	if e.model.Kind(h).IsNodeAnchor() {
		return e.model.AnchorPosition(h)
	}
	return e.model.Position(h)
}

// BoundNode returns the port the edge anchor el is attached to.
func (e *Engine) BoundNode(el *Element) (*Element, bool) {
	h, ok := e.Lookup(el)
	if !ok {
		return nil, false
	}
	n, ok := e.model.BoundNode(h)
	if !ok {
		return nil, false
	}
	return e.ids.Value(n), true
}

// Bound returns the edge anchors attached to the port el.
func (e *Engine) Bound(el *Element) []*Element {
	h, ok := e.Lookup(el)
	if !ok {
		return nil
	}
	var out []*Element
	for _, a := range e.model.Bound(h) {
		if v := e.ids.Value(a); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// Gesture returns the gesture state.
func (e *Engine) Gesture() GestureState {
	return e.ctrl.State()
}

// Moving returns the elements being dragged.
func (e *Engine) Moving() []*Element {
	var out []*Element
	for _, h := range e.ctrl.Moving() {
		if v := e.ids.Value(h); v != nil {
			out = append(out, v)
		}
	}
	return out
}

// Entity is a read-only snapshot of one entity.
type Entity struct {
	Handle   Handle
	ID       string
	Kind     string
	Owner    string
	Position Point
	Placed   bool
	BoundTo  string
}

// Entities returns a snapshot of every live entity in handle order.
func (e *Engine) Entities() []Entity {
	var out []Entity
	for _, h := range e.model.Entities(model.KindNone) {
		ent := Entity{Handle: h, ID: e.Name(h), Kind: e.model.Kind(h).String()}
		if o := e.model.Owner(h); !o.IsNil() {
			ent.Owner = e.Name(o)
		}
		if e.model.Kind(h).IsNodeAnchor() {
			ent.Position, ent.Placed = e.model.AnchorPosition(h)
		} else {
			ent.Position, ent.Placed = e.model.Position(h)
		}
		if n, ok := e.model.BoundNode(h); ok {
			ent.BoundTo = e.Name(n)
		}
		out = append(out, ent)
	}
	return out
}

// Name labels h with its element's ID, falling back to the handle itself.
func (e *Engine) Name(h Handle) string {
	if el := e.ids.Value(h); el != nil && el.ID != "" {
		return el.ID
	}
	return h.String()
}

// CheckLeaks reports handles still indexed without a live entity, and live
// entities whose element the host already dropped. Each one is logged at
// warn level. A consistent engine returns nil.
func (e *Engine) CheckLeaks() []Handle {
	var leaks []Handle
	e.ids.Each(func(h handle.Handle) {
		if !e.model.Exists(h) {
			leaks = append(leaks, h)
			e.log.Warn("lifecycle leak: handle without entity", "handle", h)
		}
	})
	for _, h := range e.ids.Collected() {
		if e.model.Exists(h) {
			leaks = append(leaks, h)
			e.log.Warn("lifecycle leak: entity without element", "handle", h, "kind", e.model.Kind(h))
		}
	}
	return leaks
}

// LostElements returns how many collected-element notifications arrived.
func (e *Engine) LostElements() int64 {
	return e.lost.Load()
}

// Visualize returns the graph as Graphviz DOT, highlighting dragged entities.
func (e *Engine) Visualize() string {
	return visualize.ExportDOT(e.model, visualize.Options{
		Names:     e.Name,
		Highlight: e.ctrl.Moving(),
	})
}
