package render

import (
	"github.com/comalice/graphview/internal/geom"
	"github.com/comalice/graphview/internal/handle"
)

// Channel forwards every renderer call as a Command on a Go channel.
// Sends never block: when the channel is full the OnFull hook gets one chance
// to make room, after which the command is dropped, so a slow consumer can
// never stall pointer handling.
type Channel struct {
	ch      chan<- Command
	style   PathStyle
	paths   pathCounter
	dropped int
	names   func(handle.Handle) string
	onFull  func()
}

// NewChannel creates a Channel writing to ch. names, if non-nil, labels
// each command's Target for consumers that do not know engine handles.
func NewChannel(ch chan<- Command, style PathStyle, names func(handle.Handle) string) *Channel {
	return &Channel{ch: ch, style: style, names: names}
}

func (c *Channel) send(cmd Command) {
	if c.names != nil && !cmd.Handle.IsNil() {
		cmd.Target = c.names(cmd.Handle)
	}
	if c.trySend(cmd) {
		return
	}
	if c.onFull != nil {
		c.onFull()
		if c.trySend(cmd) {
			return
		}
	}
	c.dropped++
}

func (c *Channel) trySend(cmd Command) bool {
	select {
	case c.ch <- cmd:
		return true
	default:
		return false
	}
}

// OnFull sets a hook run on the sending goroutine when the channel is full,
// typically draining it in place. The send is retried once afterwards.
func (c *Channel) OnFull(fn func()) {
	c.onFull = fn
}

func (c *Channel) CreatePath(edge handle.Handle) PathHandle {
	p := c.paths.issue()
	c.send(Command{Op: OpCreatePath, Handle: edge, Path: p})
	return p
}

func (c *Channel) RemovePath(p PathHandle) {
	c.send(Command{Op: OpRemovePath, Path: p})
}

func (c *Channel) SetPosition(h handle.Handle, x, y float64) {
	c.send(Command{Op: OpSetPosition, Handle: h, X: x, Y: y})
}

func (c *Channel) SetPathGeometry(p PathHandle, from, to geom.Point) {
	c.send(Command{Op: OpSetGeometry, Path: p, From: from, To: to, D: c.style.Format(from, to)})
}

func (c *Channel) SetMarker(h handle.Handle, marker string, on bool) {
	c.send(Command{Op: OpSetMarker, Handle: h, Marker: marker, On: on})
}

// Dropped returns how many commands were discarded on backpressure.
func (c *Channel) Dropped() int {
	return c.dropped
}

// Close closes the output channel. The Channel must not be used afterwards.
func (c *Channel) Close() error {
	close(c.ch)
	return nil
}
