package render

import (
	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/handle"
)

// Recorder keeps every call it receives plus the latest painted state.
// Tests use it as the renderer; the CLI uses it to print a final frame.
type Recorder struct {
	Style    PathStyle
	Commands []Command

	paths     pathCounter
	positions map[handle.Handle]geom.Point
	geometry  map[PathHandle][2]geom.Point
	owners    map[PathHandle]handle.Handle
	markers   map[handle.Handle]map[string]bool
}

// NewRecorder returns an empty Recorder that formats paths with style.
func NewRecorder(style PathStyle) *Recorder {
	return &Recorder{
		Style:     style,
		positions: make(map[handle.Handle]geom.Point),
		geometry:  make(map[PathHandle][2]geom.Point),
		owners:    make(map[PathHandle]handle.Handle),
		markers:   make(map[handle.Handle]map[string]bool),
	}
}

func (r *Recorder) CreatePath(edge handle.Handle) PathHandle {
	p := r.paths.issue()
	r.owners[p] = edge
	r.Commands = append(r.Commands, Command{Op: OpCreatePath, Handle: edge, Path: p})
	return p
}

func (r *Recorder) RemovePath(p PathHandle) {
	delete(r.owners, p)
	delete(r.geometry, p)
	r.Commands = append(r.Commands, Command{Op: OpRemovePath, Path: p})
}

func (r *Recorder) SetPosition(h handle.Handle, x, y float64) {
	r.positions[h] = geom.Pt(x, y)
	r.Commands = append(r.Commands, Command{Op: OpSetPosition, Handle: h, X: x, Y: y})
}

func (r *Recorder) SetPathGeometry(p PathHandle, from, to geom.Point) {
	r.geometry[p] = [2]geom.Point{from, to}
	r.Commands = append(r.Commands, Command{Op: OpSetGeometry, Path: p, From: from, To: to, D: r.Style.Format(from, to)})
}

func (r *Recorder) SetMarker(h handle.Handle, marker string, on bool) {
	m := r.markers[h]
	if m == nil {
		m = make(map[string]bool)
		r.markers[h] = m
	}
	m[marker] = on
	r.Commands = append(r.Commands, Command{Op: OpSetMarker, Handle: h, Marker: marker, On: on})
}

// Position returns the last position painted for h.
func (r *Recorder) Position(h handle.Handle) (geom.Point, bool) {
	p, ok := r.positions[h]
	return p, ok
}

// Geometry returns the last endpoints painted for p.
func (r *Recorder) Geometry(p PathHandle) (from, to geom.Point, ok bool) {
	g, ok := r.geometry[p]
	return g[0], g[1], ok
}

// PathOwner returns the edge a live path was created for.
func (r *Recorder) PathOwner(p PathHandle) (handle.Handle, bool) {
	h, ok := r.owners[p]
	return h, ok
}

// LivePaths returns the number of created and not yet removed paths.
func (r *Recorder) LivePaths() int {
	return len(r.owners)
}

// Marker reports the last value set for marker on h.
func (r *Recorder) Marker(h handle.Handle, marker string) bool {
	return r.markers[h][marker]
}

// Count returns how many recorded commands have op.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset drops the command log but keeps the painted state.
func (r *Recorder) Reset() {
	r.Commands = nil
}
