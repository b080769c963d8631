package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/comalice/graphview"
	"github.com/comalice/graphview/internal/config"
	"github.com/comalice/graphview/internal/render"
	"github.com/comalice/graphview/internal/ui"
)

// commandBuffer is how many render commands may pile up before the log
// renderer prints them in place.
var commandBuffer = 4096

// sink is the renderer for one run plus the hooks the run loop needs.
type sink struct {
	graphview.Renderer
	flush func()
	close func() error
}

// openSink builds the renderer selected by cfg. names labels handles for
// anything printed or sent off-process.
func openSink(ctx context.Context, cfg *config.Config, session string, names func(graphview.Handle) string, w io.Writer, log *slog.Logger) (*sink, error) {
	switch cfg.Renderer.Kind {
	case config.RendererNone:
		return &sink{
			Renderer: &render.Nop{},
			flush:    func() {},
			close:    func() error { return nil },
		}, nil

	case config.RendererSocket:
		s, err := render.DialSocket(ctx, render.SocketOptions{
			URL:       cfg.Renderer.URL,
			Namespace: cfg.Renderer.Namespace,
			Timeout:   cfg.Renderer.Timeout,
			Style:     cfg.Style(),
			Session:   session,
			Names:     names,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("socket renderer: %w", err)
		}
		return &sink{
			Renderer: render.NewLogging(s, log),
			flush:    func() {},
			close:    s.Close,
		}, nil

	default:
		ch := make(chan render.Command, commandBuffer)
		c := render.NewChannel(ch, cfg.Style(), names)
		flush := func() {
			for {
				select {
				case cmd := <-ch:
					printCommand(w, cmd)
				default:
					return
				}
			}
		}
		c.OnFull(flush)
		return &sink{
			Renderer: render.NewLogging(c, log),
			flush:    flush,
			close: func() error {
				flush()
				if n := c.Dropped(); n > 0 {
					log.Warn("render commands dropped", "count", n)
				}
				return c.Close()
			},
		}, nil
	}
}

func printCommand(w io.Writer, c render.Command) {
	target := c.Target
	if target == "" {
		target = c.Handle.String()
	}
	switch c.Op {
	case render.OpCreatePath:
		ui.Info.Fprintf(w, "      %-12s %s path#%d\n", c.Op, target, c.Path)
	case render.OpRemovePath:
		ui.Info.Fprintf(w, "      %-12s path#%d\n", c.Op, c.Path)
	case render.OpSetPosition:
		fmt.Fprintf(w, "      %-12s %s (%g,%g)\n", c.Op, target, c.X, c.Y)
	case render.OpSetGeometry:
		ui.Subtle.Fprintf(w, "      %-12s path#%d %s\n", c.Op, c.Path, c.D)
	case render.OpSetMarker:
		ui.Warn.Fprintf(w, "      %-12s %s %s=%t\n", c.Op, target, c.Marker, c.On)
	default:
		fmt.Fprintf(w, "      %s\n", c)
	}
}
