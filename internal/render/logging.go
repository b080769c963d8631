package render

import (
	"log/slog"

	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/handle"
)

// Logging wraps a Renderer and logs every call at debug level before
// delegating.
type Logging struct {
	inner Renderer
	log   *slog.Logger
}

// NewLogging creates a Logging renderer around inner.
func NewLogging(inner Renderer, log *slog.Logger) *Logging {
	return &Logging{inner: inner, log: log.With("component", "renderer")}
}

func (l *Logging) CreatePath(edge handle.Handle) PathHandle {
	p := l.inner.CreatePath(edge)
	l.log.Debug("create path", "edge", edge, "path", p)
	return p
}

func (l *Logging) RemovePath(p PathHandle) {
	l.log.Debug("remove path", "path", p)
	l.inner.RemovePath(p)
}

func (l *Logging) SetPosition(h handle.Handle, x, y float64) {
	l.log.Debug("set position", "handle", h, "x", x, "y", y)
	l.inner.SetPosition(h, x, y)
}

func (l *Logging) SetPathGeometry(p PathHandle, from, to geom.Point) {
	l.log.Debug("set path geometry", "path", p, "from", from, "to", to)
	l.inner.SetPathGeometry(p, from, to)
}

func (l *Logging) SetMarker(h handle.Handle, marker string, on bool) {
	l.log.Debug("set marker", "handle", h, "marker", marker, "on", on)
	l.inner.SetMarker(h, marker, on)
}
