// Package render defines the boundary between the graph engine and the
// rendering collaborator, plus a handful of Renderer adapters.
//
// The engine never paints anything itself. It reports entity positions,
// connector endpoints, marker flags and path object lifetimes through the
// Renderer interface; adapters decide what to do with them.
package render

import (
	"fmt"

	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/handle"
)

// PathHandle is an opaque reference to a renderer-owned path object.
// Zero means "no path".
type PathHandle uint64

// Renderer consumes the geometry computed by the engine.
type Renderer interface {
	// CreatePath allocates the path object drawn for an edge.
	CreatePath(edge handle.Handle) PathHandle
	// RemovePath releases a path created by CreatePath.
	RemovePath(p PathHandle)
	// SetPosition places a world, node or edge anchor.
	SetPosition(h handle.Handle, x, y float64)
	// SetPathGeometry redraws a connector between two endpoint positions.
	SetPathGeometry(p PathHandle, from, to geom.Point)
	// SetMarker toggles a transient styling flag such as "moving".
	SetMarker(h handle.Handle, marker string, on bool)
}

// Op names a renderer call.
type Op string

const (
	OpCreatePath  Op = "create-path"
	OpRemovePath  Op = "remove-path"
	OpSetPosition Op = "set-position"
	OpSetGeometry Op = "set-geometry"
	OpSetMarker   Op = "set-marker"
)

// Command is one renderer call captured as data, for adapters that forward
// or record calls instead of painting.
type Command struct {
	Op      Op            `json:"op"`
	Session string        `json:"session,omitempty"`
	Handle  handle.Handle `json:"-"`
	Target  string        `json:"target,omitempty"`
	Path    PathHandle    `json:"path,omitempty"`
	X       float64       `json:"x,omitempty"`
	Y       float64       `json:"y,omitempty"`
	From    geom.Point    `json:"from,omitempty"`
	To      geom.Point    `json:"to,omitempty"`
	D       string        `json:"d,omitempty"`
	Marker  string        `json:"marker,omitempty"`
	On      bool          `json:"on,omitempty"`
}

func (c Command) String() string {
	switch c.Op {
	case OpCreatePath:
		return fmt.Sprintf("%s %s -> path#%d", c.Op, c.Handle, c.Path)
	case OpRemovePath:
		return fmt.Sprintf("%s path#%d", c.Op, c.Path)
	case OpSetPosition:
		return fmt.Sprintf("%s %s (%g,%g)", c.Op, c.Handle, c.X, c.Y)
	case OpSetGeometry:
		return fmt.Sprintf("%s path#%d %s", c.Op, c.Path, c.D)
	case OpSetMarker:
		return fmt.Sprintf("%s %s %s=%t", c.Op, c.Handle, c.Marker, c.On)
	default:
		return string(c.Op)
	}
}

// pathCounter issues path handles for adapters that own no real path objects.
type pathCounter struct {
	next PathHandle
}

func (pc *pathCounter) issue() PathHandle {
	pc.next++
	return pc.next
}

// Nop discards every call. Paths are still issued so the engine can track them.
type Nop struct {
	paths pathCounter
}

func (n *Nop) CreatePath(handle.Handle) PathHandle { return n.paths.issue() }
func (n *Nop) RemovePath(PathHandle) {}
func (n *Nop) SetPosition(handle.Handle, float64, float64) {}
func (n *Nop) SetPathGeometry(PathHandle, geom.Point, geom.Point) {}
func (n *Nop) SetMarker(handle.Handle, string, bool) {}
