package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/graphview/internal/render"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 64, cfg.Engine.QueueSize)
	assert.Equal(t, RendererLog, cfg.Renderer.Kind)
	assert.Equal(t, render.StyleLine, cfg.Style())
}

func TestDecode_OverridesDefaults(t *testing.T) {
	src := `
[engine]
queue_size = 8

[log]
level = "debug"
format = "json"

[renderer]
kind = "socket"
path_style = "curve"
url = "http://localhost:3000"
timeout = "250ms"
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Engine.QueueSize)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, RendererSocket, cfg.Renderer.Kind)
	assert.Equal(t, render.StyleCurve, cfg.Style())
	assert.Equal(t, "/", cfg.Renderer.Namespace, "unset keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.Renderer.Timeout)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown key", "[engine]\nqueu_size = 3\n", ErrUnknownKeys},
		{"unknown renderer", "[renderer]\nkind = \"canvas\"\n", ErrUnknownRenderer},
		{"socket without url", "[renderer]\nkind = \"socket\"\n", ErrMissingURL},
		{"bad path style", "[renderer]\npath_style = \"zigzag\"\n", render.ErrUnknownPathStyle},
		{"bad level", "[log]\nlevel = \"loud\"\n", ErrLogLevel},
		{"bad format", "[log]\nformat = \"xml\"\n", ErrLogFormat},
		{"negative queue", "[engine]\nqueue_size = -1\n", ErrQueueSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Decode(strings.NewReader("[engine\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graphview.toml")
	require.NoError(t, os.WriteFile(path, []byte("[renderer]\nkind = \"none\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RendererNone, cfg.Renderer.Kind)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWrite_RoundTripsThroughDecode(t *testing.T) {
	cfg := Default()
	cfg.Renderer.PathStyle = string(render.StyleCurve)

	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))
	assert.Contains(t, buf.String(), "[renderer]")

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])

	buf.Reset()
	LogConfig{}.NewLogger(&buf).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
