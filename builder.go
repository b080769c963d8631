package graphview

import (
	"fmt"

	"github.com/comalice/graphview/internal/scene"
)

// SceneBuilder provides a fluent API for constructing marked scene trees
// without wiring parents and markers by hand.
//
//	root, err := graphview.NewSceneBuilder("root").
//		World("w").
//		Node("n1", 0, 0).DragHandle("n1-grip").Output("o1", 0, 0).Up().
//		Node("n2", 100, 0).Input("i1", 0, 10).Up().
//		Edge("e").Anchor("a", 0, 0).Anchor("b", 0, 0).
//		Build()
type SceneBuilder struct {
	root  *Element
	stack []*Element
	ids   map[string]bool
	err   error
}

// NewSceneBuilder starts a tree under an unmarked root element.
func NewSceneBuilder(rootID string) *SceneBuilder {
	root := scene.NewElement(rootID)
	return &SceneBuilder{
		root:  root,
		stack: []*Element{root},
		ids:   map[string]bool{rootID: true},
	}
}

func (b *SceneBuilder) current() *Element {
	return b.stack[len(b.stack)-1]
}

func (b *SceneBuilder) add(el *Element, enter bool) *SceneBuilder {
	if b.err != nil {
		return b
	}
	if el.ID == "" {
		b.err = scene.ErrMissingID
		return b
	}
	if b.ids[el.ID] {
		b.err = fmt.Errorf("%w: %q", scene.ErrDuplicateID, el.ID)
		return b
	}
	b.ids[el.ID] = true
	b.current().Append(el)
	if enter {
		b.stack = append(b.stack, el)
	}
	return b
}

// World opens a world container at the origin.
func (b *SceneBuilder) World(id string) *SceneBuilder {
	return b.add(scene.NewElement(id, scene.World), true)
}

// Node opens a node at (x, y).
func (b *SceneBuilder) Node(id string, x, y float64) *SceneBuilder {
	return b.add(scene.NewElement(id, scene.Node).At(x, y), true)
}

// Edge opens an edge; add its two anchors next.
func (b *SceneBuilder) Edge(id string) *SceneBuilder {
	return b.add(scene.NewElement(id, scene.Edge), true)
}

// Element opens a plain container carrying markers.
func (b *SceneBuilder) Element(id string, markers ...Marker) *SceneBuilder {
	return b.add(scene.NewElement(id, markers...), true)
}

// DragHandle adds a drag handle to the current node.
func (b *SceneBuilder) DragHandle(id string) *SceneBuilder {
	return b.add(scene.NewElement(id, scene.NodeDragHandle), false)
}

// Input adds an input port at offset (dx, dy) from the current node.
func (b *SceneBuilder) Input(id string, dx, dy float64) *SceneBuilder {
	return b.add(scene.NewElement(id, scene.NodeInput).WithOffset(dx, dy), false)
}

// Output adds an output port at offset (dx, dy) from the current node.
func (b *SceneBuilder) Output(id string, dx, dy float64) *SceneBuilder {
	return b.add(scene.NewElement(id, scene.NodeOutput).WithOffset(dx, dy), false)
}

// Anchor adds an edge endpoint at (x, y) to the current edge.
func (b *SceneBuilder) Anchor(id string, x, y float64) *SceneBuilder {
	return b.add(scene.NewElement(id, scene.EdgeAnchor).At(x, y), false)
}

// Up closes the current container. The root is never closed.
func (b *SceneBuilder) Up() *SceneBuilder {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
	return b
}

// Build returns the root of the tree, or the first error hit while building.
func (b *SceneBuilder) Build() (*Element, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.root, nil
}
