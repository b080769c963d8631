package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/handle"
	"github.com/comalice/graphview/internal/model"
	"github.com/comalice/graphview/internal/render"
	"github.com/comalice/graphview/internal/scene"
)

// fixture is W{N1{O1}, N2{I1 (0,10)}, E{A, B}} with N2 at (100,0),
// A at (5,5) and B at (50,50).
type fixture struct {
	m    *model.Model
	out  *render.Recorder
	c    *Controller
	path render.PathHandle

	w, n1, o1, n2, i1, e, a, b handle.Handle
	keep                       []*scene.Element
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tbl := handle.NewTable[scene.Element](nil)
	f := &fixture{m: model.New(), out: render.NewRecorder(render.StyleLine)}
	issue := func(id string) handle.Handle {
		el := scene.NewElement(id)
		f.keep = append(f.keep, el)
		return tbl.HandleOf(el)
	}
	f.w, f.n1, f.o1, f.n2 = issue("w"), issue("n1"), issue("o1"), issue("n2")
	f.i1, f.e, f.a, f.b = issue("i1"), issue("e"), issue("a"), issue("b")

	m := f.m
	require.True(t, m.Register(f.w, model.KindWorld, handle.Nil))
	require.True(t, m.Register(f.n1, model.KindNode, f.w))
	require.True(t, m.Register(f.o1, model.KindNodeOutput, f.n1))
	require.True(t, m.Register(f.n2, model.KindNode, f.w))
	require.True(t, m.Register(f.i1, model.KindNodeInput, f.n2))
	require.True(t, m.Register(f.e, model.KindEdge, f.w))
	require.True(t, m.Register(f.a, model.KindEdgeAnchor, f.e))
	require.True(t, m.Register(f.b, model.KindEdgeAnchor, f.e))
	m.SetPosition(f.w, geom.Pt(0, 0))
	m.SetPosition(f.n1, geom.Pt(0, 0))
	m.SetPosition(f.n2, geom.Pt(100, 0))
	m.SetPosition(f.a, geom.Pt(5, 5))
	m.SetPosition(f.b, geom.Pt(50, 50))
	m.SetAnchorOffset(f.i1, geom.Pt(0, 10))
	f.path = f.out.CreatePath(f.e)
	m.SetPath(f.e, f.path)

	f.c = New(m, f.out, nil)
	return f
}

func (f *fixture) pos(t *testing.T, h handle.Handle) geom.Point {
	t.Helper()
	p, ok := f.m.Position(h)
	require.True(t, ok, "no position for %s", h)
	return p
}

func TestController_ConnectEdgeAnchorToInput(t *testing.T) {
	f := newFixture(t)

	f.c.OnPress(scene.EdgeAnchor, f.a)
	require.Equal(t, Moving, f.c.State())
	assert.True(t, f.out.Marker(f.a, string(scene.Moving)))

	f.c.OnMove(90, 10)
	f.c.OnHoverEnter(f.i1)
	cand, ok := f.c.Candidate()
	require.True(t, ok)
	assert.Equal(t, f.i1, cand)

	f.c.OnRelease()

	assert.Equal(t, Idle, f.c.State())
	n, ok := f.m.BoundNode(f.a)
	require.True(t, ok)
	assert.Equal(t, f.i1, n)
	assert.Equal(t, []handle.Handle{f.a}, f.m.Bound(f.i1))

	// snapped onto I1's rendered position
	assert.Equal(t, geom.Pt(100, 10), f.pos(t, f.a))
	painted, _ := f.out.Position(f.a)
	assert.Equal(t, geom.Pt(100, 10), painted)
	from, to, ok := f.out.Geometry(f.path)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(100, 10), from)
	assert.Equal(t, geom.Pt(50, 50), to)

	assert.False(t, f.out.Marker(f.a, string(scene.Moving)))
	assert.Empty(t, f.c.Moving())
	_, ok = f.c.Candidate()
	assert.False(t, ok)
}

func TestController_DragNodeCascadesToBoundAnchors(t *testing.T) {
	f := newFixture(t)
	f.m.Bind(f.i1, f.a)
	f.m.SetPosition(f.a, geom.Pt(100, 10))
	f.out.Reset()

	f.c.OnPress(scene.NodeDragHandle, f.n2)
	f.c.OnMove(10, 20)

	assert.Equal(t, geom.Pt(110, 20), f.pos(t, f.n2))
	assert.Equal(t, geom.Pt(110, 30), f.pos(t, f.a))
	assert.Equal(t, geom.Pt(50, 50), f.pos(t, f.b), "unbound anchor stays put")
	anchor, _ := f.m.AnchorPosition(f.i1)
	assert.Equal(t, anchor, f.pos(t, f.a), "bound anchor tracks the port")

	assert.Equal(t, 2, f.out.Count(render.OpSetPosition))
	assert.Equal(t, 1, f.out.Count(render.OpSetGeometry), "edge path emitted once per move")
	from, _, _ := f.out.Geometry(f.path)
	assert.Equal(t, geom.Pt(110, 30), from)

	f.c.OnRelease()
	assert.Equal(t, Idle, f.c.State())
	n, ok := f.m.BoundNode(f.a)
	require.True(t, ok, "releasing a node leaves bindings alone")
	assert.Equal(t, f.i1, n)
}

func TestController_ReleaseOverEmptySpaceDetaches(t *testing.T) {
	f := newFixture(t)
	f.m.Bind(f.i1, f.a)

	f.c.OnPress(scene.EdgeAnchor, f.a)
	f.c.OnMove(-30, 40)
	f.c.OnRelease()

	_, ok := f.m.BoundNode(f.a)
	assert.False(t, ok)
	assert.Nil(t, f.m.Bound(f.i1))
	assert.Equal(t, geom.Pt(-25, 45), f.pos(t, f.a), "floating anchor keeps its dropped position")
	assert.Equal(t, Idle, f.c.State())
}

func TestController_RebindMovesAnchorBetweenPorts(t *testing.T) {
	f := newFixture(t)
	f.m.Bind(f.i1, f.a)

	f.c.OnPress(scene.EdgeAnchor, f.a)
	f.c.OnHoverEnter(f.o1)
	f.c.OnRelease()

	n, _ := f.m.BoundNode(f.a)
	assert.Equal(t, f.o1, n)
	assert.False(t, f.m.IsBound(f.i1, f.a))
	assert.Equal(t, 1, f.m.BindingCount())
	assert.Equal(t, geom.Pt(0, 0), f.pos(t, f.a))
}

func TestController_InvalidGesturesAreIgnored(t *testing.T) {
	f := newFixture(t)

	// no active gesture
	f.c.OnMove(10, 10)
	f.c.OnHoverEnter(f.i1)
	f.c.OnRelease()
	assert.Equal(t, Idle, f.c.State())
	assert.Equal(t, geom.Pt(5, 5), f.pos(t, f.a))

	// role does not match the target's kind
	f.c.OnPress(scene.NodeDragHandle, f.a)
	f.c.OnPress(scene.EdgeAnchor, f.n1)
	f.c.OnPress(scene.NodeInput, f.i1)
	assert.Equal(t, Idle, f.c.State())

	// dead handle
	f.c.OnPress(scene.EdgeAnchor, handle.Nil)
	assert.Equal(t, Idle, f.c.State())
	assert.Empty(t, f.out.Commands[1:], "only the fixture's CreatePath was recorded")
}

func TestController_HoverNeedsLoneEdgeAnchor(t *testing.T) {
	f := newFixture(t)

	f.c.OnPress(scene.NodeDragHandle, f.n1)
	f.c.OnHoverEnter(f.i1)
	_, ok := f.c.Candidate()
	assert.False(t, ok, "a moving node never connects")
	f.c.OnRelease()

	f.c.OnPress(scene.EdgeAnchor, f.a)
	f.c.OnHoverEnter(f.n2)
	_, ok = f.c.Candidate()
	assert.False(t, ok, "only node anchors are candidates")

	f.c.OnHoverEnter(f.i1)
	f.c.OnHoverLeave(f.o1)
	cand, ok := f.c.Candidate()
	assert.True(t, ok, "leaving another element keeps the candidate")
	assert.Equal(t, f.i1, cand)

	f.c.OnHoverLeave(f.i1)
	_, ok = f.c.Candidate()
	assert.False(t, ok)
}

func TestController_PressWhileMovingExtendsSet(t *testing.T) {
	f := newFixture(t)

	f.c.OnPress(scene.EdgeAnchor, f.a)
	f.c.OnHoverEnter(f.i1)
	f.c.OnPress(scene.EdgeAnchor, f.a)
	assert.Len(t, f.c.Moving(), 1, "set semantics")
	_, ok := f.c.Candidate()
	assert.True(t, ok)

	f.c.OnPress(scene.EdgeAnchor, f.b)
	assert.Equal(t, []handle.Handle{f.a, f.b}, f.c.Moving())
	_, ok = f.c.Candidate()
	assert.False(t, ok, "growing the set drops the candidate")

	f.out.Reset()
	f.c.OnMove(1, 1)
	assert.Equal(t, geom.Pt(6, 6), f.pos(t, f.a))
	assert.Equal(t, geom.Pt(51, 51), f.pos(t, f.b))
	assert.Equal(t, 1, f.out.Count(render.OpSetGeometry))

	f.c.OnRelease()
	assert.False(t, f.out.Marker(f.a, string(scene.Moving)))
	assert.False(t, f.out.Marker(f.b, string(scene.Moving)))
}

func TestController_MovingNodeAndItsBoundAnchorMovesOnce(t *testing.T) {
	f := newFixture(t)
	f.m.Bind(f.i1, f.a)

	f.c.OnPress(scene.NodeDragHandle, f.n2)
	f.c.OnPress(scene.EdgeAnchor, f.a)
	f.c.OnMove(3, 4)

	assert.Equal(t, geom.Pt(8, 9), f.pos(t, f.a))
	assert.Equal(t, geom.Pt(103, 4), f.pos(t, f.n2))
}

func TestController_WorldPanDoesNotCascade(t *testing.T) {
	f := newFixture(t)

	f.c.OnPress(scene.World, f.w)
	f.c.OnMove(-20, 15)
	f.c.OnRelease()

	assert.Equal(t, geom.Pt(-20, 15), f.pos(t, f.w))
	assert.Equal(t, geom.Pt(100, 0), f.pos(t, f.n2))
	assert.Equal(t, geom.Pt(5, 5), f.pos(t, f.a))
	assert.Zero(t, f.out.Count(render.OpSetGeometry))
}

func TestController_ForgetDropsDestroyedEntities(t *testing.T) {
	f := newFixture(t)

	f.c.OnPress(scene.EdgeAnchor, f.a)
	f.c.OnHoverEnter(f.i1)
	f.c.Forget(f.i1)
	_, ok := f.c.Candidate()
	assert.False(t, ok)

	f.c.Forget(f.a)
	assert.Empty(t, f.c.Moving())
	f.c.OnMove(5, 5)
	assert.Equal(t, geom.Pt(5, 5), f.pos(t, f.a))

	f.c.OnRelease()
	assert.Equal(t, Idle, f.c.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "moving", Moving.String())
	assert.Equal(t, "unknown", State(0).String())
}
