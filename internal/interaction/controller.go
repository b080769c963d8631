// Package interaction implements the pointer-gesture state machine that
// moves entities and connects or disconnects edge anchors.
//
// The controller has two states, Idle and Moving, plus the
// ConnectingCandidate sub-flag that is set while an edge anchor is dragged
// over a node anchor. Pointer input is always relative (dx, dy) so the
// controller never depends on a coordinate space. Events that match no
// transition are dropped with a debug log line.
package interaction

import (
	"log/slog"
	"slices"

	"github.com/comalice/graphview/internal/fsm"
	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/handle"
	"github.com/comalice/graphview/internal/model"
	"github.com/comalice/graphview/internal/render"
	"github.com/comalice/graphview/internal/scene"
)

// State is the gesture state.
type State int

const (
	Idle State = iota + 1
	Moving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	}
	return "unknown"
}

const (
	evPress fsm.EventID = iota + 1
	evMove
	evRelease
	evHoverEnter
	evHoverLeave
)

type press struct {
	role   scene.Marker
	target handle.Handle
}

// Controller owns the gesture state. It reads and writes the model and
// reports every geometry change to the renderer.
type Controller struct {
	model   *model.Model
	out     render.Renderer
	log     *slog.Logger
	machine *fsm.Machine

	moving    []handle.Handle
	candidate handle.Handle
}

// New builds a controller in the Idle state.
func New(m *model.Model, out render.Renderer, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		model: m,
		out:   out,
		log:   log.With("component", "interaction"),
	}

	idle := &fsm.State{ID: fsm.StateID(Idle), Name: Idle.String(), Initial: true}
	moving := &fsm.State{ID: fsm.StateID(Moving), Name: Moving.String()}

	idle.On(evPress, moving, c.canPress, c.press)

	moving.On(evPress, nil, c.canPress, c.press)
	moving.On(evMove, nil, nil, c.move)
	moving.On(evHoverEnter, nil, c.canConnect, c.hoverEnter)
	moving.On(evHoverLeave, nil, c.leavesCandidate, c.hoverLeave)
	moving.On(evRelease, idle, nil, c.release)

	machine, err := fsm.NewMachine(idle, moving)
	if err != nil {
		panic("interaction: " + err.Error())
	}
	if err := machine.Start(); err != nil {
		panic("interaction: " + err.Error())
	}
	c.machine = machine
	return c
}

//
// Pointer input
//

// OnPress starts (or extends) a drag. role is the marker of the pressed
// element: node-drag-handle with the node's handle, edge-anchor, or world.
func (c *Controller) OnPress(role scene.Marker, target handle.Handle) {
	c.dispatch(fsm.Event{ID: evPress, Payload: press{role: role, target: target}})
}

// OnMove applies a relative pointer movement to the moving-set.
func (c *Controller) OnMove(dx, dy float64) {
	c.dispatch(fsm.Event{ID: evMove, Payload: geom.Pt(dx, dy)})
}

// OnRelease resolves the gesture and returns to Idle.
func (c *Controller) OnRelease() {
	c.dispatch(fsm.Event{ID: evRelease})
}

// OnHoverEnter reports the pointer entering target.
func (c *Controller) OnHoverEnter(target handle.Handle) {
	c.dispatch(fsm.Event{ID: evHoverEnter, Payload: target})
}

// OnHoverLeave reports the pointer leaving target.
func (c *Controller) OnHoverLeave(target handle.Handle) {
	c.dispatch(fsm.Event{ID: evHoverLeave, Payload: target})
}

func (c *Controller) dispatch(evt fsm.Event) {
	fired, err := c.machine.Send(evt)
	if err != nil {
		c.log.Error("gesture transition failed", "event", evt.ID, "error", err)
		return
	}
	if !fired {
		c.log.Debug("ignored gesture event", "event", evt.ID, "payload", evt.Payload, "state", c.State())
	}
}

//
// Queries
//

// State returns the current gesture state.
func (c *Controller) State() State {
	if cur := c.machine.Current(); cur != nil {
		return State(cur.ID)
	}
	return Idle
}

// Moving returns a copy of the moving-set.
func (c *Controller) Moving() []handle.Handle {
	return slices.Clone(c.moving)
}

// Candidate returns the current ConnectingCandidate.
func (c *Controller) Candidate() (handle.Handle, bool) {
	return c.candidate, !c.candidate.IsNil()
}

// Forget drops h from the gesture. Called when an entity is destroyed while
// it is being dragged or hovered.
func (c *Controller) Forget(h handle.Handle) {
	if i := slices.Index(c.moving, h); i >= 0 {
		c.moving = slices.Delete(c.moving, i, i+1)
	}
	if c.candidate == h {
		c.candidate = handle.Nil
	}
}

//
// Guards
//

func (c *Controller) canPress(evt *fsm.Event, _, _ fsm.StateID) bool {
	p, ok := evt.Payload.(press)
	if !ok {
		return false
	}
	kind := c.model.Kind(p.target)
	switch p.role {
	case scene.NodeDragHandle:
		return kind == model.KindNode
	case scene.EdgeAnchor:
		return kind == model.KindEdgeAnchor
	case scene.World:
		return kind == model.KindWorld
	}
	return false
}

func (c *Controller) canConnect(evt *fsm.Event, _, _ fsm.StateID) bool {
	target, ok := evt.Payload.(handle.Handle)
	if !ok || len(c.moving) != 1 {
		return false
	}
	return c.model.Kind(c.moving[0]) == model.KindEdgeAnchor && c.model.Kind(target).IsNodeAnchor()
}

func (c *Controller) leavesCandidate(evt *fsm.Event, _, _ fsm.StateID) bool {
	target, ok := evt.Payload.(handle.Handle)
	return ok && !c.candidate.IsNil() && target == c.candidate
}

//
// Actions
//

func (c *Controller) press(evt *fsm.Event, _, _ fsm.StateID) error {
	p := evt.Payload.(press)
	if slices.Contains(c.moving, p.target) {
		return nil
	}
	c.moving = append(c.moving, p.target)
	if len(c.moving) > 1 {
		// a candidate is only meaningful for a lone edge anchor
		c.candidate = handle.Nil
	}
	c.out.SetMarker(p.target, string(scene.Moving), true)
	c.log.Debug("drag started", "target", p.target, "role", p.role, "kind", c.model.Kind(p.target))
	return nil
}

func (c *Controller) move(evt *fsm.Event, _, _ fsm.StateID) error {
	c.translate(c.moving, evt.Payload.(geom.Point))
	return nil
}

func (c *Controller) hoverEnter(evt *fsm.Event, _, _ fsm.StateID) error {
	c.candidate = evt.Payload.(handle.Handle)
	return nil
}

func (c *Controller) hoverLeave(*fsm.Event, fsm.StateID, fsm.StateID) error {
	c.candidate = handle.Nil
	return nil
}

func (c *Controller) release(*fsm.Event, fsm.StateID, fsm.StateID) error {
	for _, h := range c.moving {
		if c.model.Kind(h) != model.KindEdgeAnchor {
			continue
		}
		if !c.candidate.IsNil() && c.model.Kind(c.candidate).IsNodeAnchor() {
			c.connect(h, c.candidate)
		} else if n, ok := c.model.Unbind(h); ok {
			c.log.Debug("edge anchor detached", "anchor", h, "from", n)
		}
	}

	for _, h := range c.moving {
		if c.model.Exists(h) {
			c.out.SetMarker(h, string(scene.Moving), false)
		}
	}
	c.moving = nil
	c.candidate = handle.Nil
	return nil
}

// connect binds e to n and snaps e onto n's rendered position.
func (c *Controller) connect(e, n handle.Handle) {
	c.model.Bind(n, e)
	c.log.Debug("edge anchor connected", "anchor", e, "to", n)

	target, ok := c.model.AnchorPosition(n)
	if !ok {
		return
	}
	cur, ok := c.model.Position(e)
	if !ok {
		return
	}
	c.translate([]handle.Handle{e}, target.Sub(cur))
}

// translate moves every entity in set by d. Nodes drag the edge anchors bound
// to their ports along. Each entity moves at most once per call, and each
// affected edge is redrawn once after all positions are updated.
func (c *Controller) translate(set []handle.Handle, d geom.Point) {
	var moved []handle.Handle
	seen := make(map[handle.Handle]bool)

	shift := func(h handle.Handle) {
		if seen[h] {
			return
		}
		p, ok := c.model.Translate(h, d)
		if !ok {
			return
		}
		seen[h] = true
		moved = append(moved, h)
		c.out.SetPosition(h, p.X, p.Y)
	}

	for _, h := range set {
		shift(h)
		if c.model.Kind(h) != model.KindNode {
			continue
		}
		for _, port := range c.model.NodeAnchors(h) {
			for _, e := range c.model.Bound(port) {
				shift(e)
			}
		}
	}

	var edges []handle.Handle
	for _, h := range moved {
		if c.model.Kind(h) != model.KindEdgeAnchor {
			continue
		}
		if edge := c.model.Owner(h); !edge.IsNil() && !slices.Contains(edges, edge) {
			edges = append(edges, edge)
		}
	}
	for _, edge := range edges {
		if p, from, to, ok := c.model.EdgeGeometry(edge); ok {
			c.out.SetPathGeometry(p, from, to)
		}
	}
}
