// Package benchmarks provides shared scene generators for benchmark tests.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/graphview"
)

// GenStarScene builds one world holding a hub node and n spoke nodes, plus
// one floating edge per spoke. IDs: hub, hub-grip, out, s<i>, s<i>-grip,
// in<i>, e<i>, t<i> (tail), h<i> (head).
func GenStarScene(n int) *graphview.Element {
	if n < 1 {
		n = 1
	}
	b := graphview.NewSceneBuilder("root").
		World("w").
		Node("hub", 0, 0).DragHandle("hub-grip").Output("out", 80, 20).Up()
	for i := 0; i < n; i++ {
		b.Node(fmt.Sprintf("s%d", i), 300, float64(i*60)).
			DragHandle(fmt.Sprintf("s%d-grip", i)).
			Input(fmt.Sprintf("in%d", i), 0, 20).
			Up()
	}
	for i := 0; i < n; i++ {
		b.Edge(fmt.Sprintf("e%d", i)).
			Anchor(fmt.Sprintf("t%d", i), 100, float64(i*60)).
			Anchor(fmt.Sprintf("h%d", i), 200, float64(i*60)).
			Up()
	}
	root, err := b.Build()
	if err != nil {
		panic(err)
	}
	return root
}

// ConnectStar binds every tail of a GenStarScene to the hub output and every
// head to its spoke's input.
func ConnectStar(eng *graphview.Engine, root *graphview.Element, n int) {
	out := root.Find("out")
	for i := 0; i < n; i++ {
		eng.OnPress(root.Find(fmt.Sprintf("t%d", i)))
		eng.OnHoverEnter(out)
		eng.OnRelease()

		eng.OnPress(root.Find(fmt.Sprintf("h%d", i)))
		eng.OnHoverEnter(root.Find(fmt.Sprintf("in%d", i)))
		eng.OnRelease()
	}
}

type sceneDoc struct {
	ID       string             `yaml:"id"`
	Markers  []graphview.Marker `yaml:"markers,omitempty"`
	Position *graphview.Point   `yaml:"position,omitempty"`
	Offset   *graphview.Point   `yaml:"offset,omitempty"`
	Children []*sceneDoc        `yaml:"children,omitempty"`
}

func toDoc(el *graphview.Element) *sceneDoc {
	d := &sceneDoc{ID: el.ID, Markers: el.Markers()}
	if el.Position != (graphview.Point{}) {
		p := el.Position
		d.Position = &p
	}
	if el.Offset != (graphview.Point{}) {
		o := el.Offset
		d.Offset = &o
	}
	for _, c := range el.Children() {
		d.Children = append(d.Children, toDoc(c))
	}
	return d
}

// GenSceneYAML renders GenStarScene(n) in the scene file format.
func GenSceneYAML(n int) []byte {
	data, err := yaml.Marshal(toDoc(GenStarScene(n)))
	if err != nil {
		panic(err)
	}
	return data
}
