package graphview

import (
	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/handle"
	"github.com/comalice/graphview/internal/interaction"
	"github.com/comalice/graphview/internal/render"
	"github.com/comalice/graphview/internal/scene"
)

// Types shared with the host.
type (
	Element    = scene.Element
	Marker     = scene.Marker
	Handle     = handle.Handle
	Point      = geom.Point
	Renderer   = render.Renderer
	PathHandle = render.PathHandle
	PathStyle  = render.PathStyle
	Command    = render.Command
	Recorder   = render.Recorder

	// GestureState is Idle or Moving.
	GestureState = interaction.State
)

// Role markers.
const (
	World          = scene.World
	Node           = scene.Node
	NodeDragHandle = scene.NodeDragHandle
	NodeInput      = scene.NodeInput
	NodeOutput     = scene.NodeOutput
	Edge           = scene.Edge
	EdgeAnchor     = scene.EdgeAnchor
	Moving         = scene.Moving
)

// Gesture states.
const (
	Idle     = interaction.Idle
	Dragging = interaction.Moving
)

// Path styles.
const (
	StyleLine  = render.StyleLine
	StyleCurve = render.StyleCurve
)

var (
	// NewElement returns a detached scene element carrying markers.
	NewElement = scene.NewElement
	// LoadScene decodes a YAML scene tree.
	LoadScene = scene.LoadYAML
	// LoadSceneFile decodes the YAML scene tree at path.
	LoadSceneFile = scene.LoadYAMLFile
	// NewRecorder returns a renderer that records every command.
	NewRecorder = render.NewRecorder
	// Pt builds a Point.
	Pt = geom.Pt
)
