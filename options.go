package graphview

import (
	"log/slog"
	"os"

	"github.com/comalice/graphview/internal/config"
)

// Option configures an Engine.
type Option func(*settings)

type settings struct {
	renderer  Renderer
	log       *slog.Logger
	queueSize int
	session   string
	cfg       *config.Config
}

// WithRenderer sets the renderer that receives position, path and marker
// updates. Defaults to a renderer that drops everything.
func WithRenderer(r Renderer) Option {
	return func(s *settings) {
		s.renderer = r
	}
}

// WithLogger sets the structured logger. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}

// WithQueueSize sets the initial capacity of the scene notification queue.
func WithQueueSize(n int) Option {
	return func(s *settings) {
		s.queueSize = n
	}
}

// WithSessionID fixes the engine id instead of generating one, so a remote
// renderer and the engine can agree on it up front.
func WithSessionID(id string) Option {
	return func(s *settings) {
		s.session = id
	}
}

// WithConfig applies the engine and log sections of cfg. An explicit
// WithLogger or WithQueueSize wins regardless of option order.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

func (s *settings) resolve() {
	if s.cfg != nil {
		if s.queueSize == 0 {
			s.queueSize = s.cfg.Engine.QueueSize
		}
		if s.log == nil {
			s.log = s.cfg.Log.NewLogger(os.Stderr)
		}
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
}
