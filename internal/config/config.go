// Package config loads engine and CLI settings from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/comalice/graphview/internal/render"
)

// Renderer kinds.
const (
	RendererLog    = "log"
	RendererSocket = "socket"
	RendererNone   = "none"
)

var (
	ErrUnknownKeys     = errors.New("unknown configuration keys")
	ErrUnknownRenderer = errors.New("unknown renderer kind")
	ErrLogLevel        = errors.New("unknown log level")
	ErrLogFormat       = errors.New("unknown log format")
	ErrMissingURL      = errors.New("socket renderer needs a url")
	ErrQueueSize       = errors.New("queue size must not be negative")
)

// Config holds graphview configuration.
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Log      LogConfig      `toml:"log"`
	Renderer RendererConfig `toml:"renderer"`
}

// EngineConfig controls the engine core.
type EngineConfig struct {
	QueueSize int `toml:"queue_size"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "text", "json"
}

// RendererConfig selects where render commands go.
type RendererConfig struct {
	Kind      string        `toml:"kind"` // "log", "socket", "none"
	PathStyle string        `toml:"path_style"`
	URL       string        `toml:"url"`
	Namespace string        `toml:"namespace"`
	Timeout   time.Duration `toml:"timeout"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Engine:   EngineConfig{QueueSize: 64},
		Log:      LogConfig{Level: "info", Format: "text"},
		Renderer: RendererConfig{Kind: RendererLog, PathStyle: string(render.StyleLine), Namespace: "/", Timeout: 5 * time.Second},
	}
}

// Decode reads TOML from r over the defaults. Keys that map to no field are
// an error so typos do not pass silently.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks every enumerated field.
func (c *Config) Validate() error {
	if c.Engine.QueueSize < 0 {
		return fmt.Errorf("%w: %d", ErrQueueSize, c.Engine.QueueSize)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrLogFormat, c.Log.Format)
	}
	if _, err := render.ParsePathStyle(c.Renderer.PathStyle); err != nil {
		return err
	}
	switch c.Renderer.Kind {
	case RendererLog, RendererNone:
	case RendererSocket:
		if c.Renderer.URL == "" {
			return ErrMissingURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRenderer, c.Renderer.Kind)
	}
	return nil
}

// Style returns the configured path style, falling back to straight lines.
func (c *Config) Style() render.PathStyle {
	s, err := render.ParsePathStyle(c.Renderer.PathStyle)
	if err != nil {
		return render.StyleLine
	}
	return s
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrLogLevel, l.Level)
}

// NewLogger builds a logger writing to w. It does not touch the global
// default logger.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := l.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if l.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
