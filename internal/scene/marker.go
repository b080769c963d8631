package scene

// Marker is a role tag on a scene element.
type Marker string

// Markers shared by the host and the engine.
const (
	World          Marker = "world"
	Node           Marker = "node"
	NodeDragHandle Marker = "node-drag-handle"
	NodeInput      Marker = "node-input"
	NodeOutput     Marker = "node-output"
	Edge           Marker = "edge"
	EdgeAnchor     Marker = "edge-anchor"

	// Moving is set by the engine on entities being dragged.
	Moving Marker = "moving"
)

// EntityMarkers lists the markers that promote an element to an entity, in
// creation order.
var EntityMarkers = []Marker{World, Node, NodeInput, NodeOutput, Edge, EdgeAnchor}

// Known reports whether m belongs to the shared vocabulary.
func (m Marker) Known() bool {
	switch m {
	case World, Node, NodeDragHandle, NodeInput, NodeOutput, Edge, EdgeAnchor, Moving:
		return true
	}
	return false
}

// Entity reports whether m promotes an element to an entity.
func (m Marker) Entity() bool {
	for _, em := range EntityMarkers {
		if m == em {
			return true
		}
	}
	return false
}
