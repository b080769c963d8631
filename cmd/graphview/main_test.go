package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/comalice/graphview/internal/config"
)

const testScene = `
id: root
children:
  - id: w
    markers: [world]
    children:
      - id: n1
        markers: [node]
        children:
          - id: o1
            markers: [node-output]
            offset: {x: 80, y: 20}
      - id: n2
        markers: [node]
        position: {x: 200, y: 0}
        children:
          - id: grip
            markers: [node-drag-handle]
          - id: i1
            markers: [node-input]
            offset: {x: 0, y: 20}
      - id: e
        markers: [edge]
        children:
          - id: a
            markers: [edge-anchor]
          - id: b
            markers: [edge-anchor]
            position: {x: 50, y: 50}
`

const testScript = `
steps:
  - press: a
  - hover: o1
  - release: true
  - press: grip
  - move: {x: 10, y: 10}
  - release: true
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	configPath = ""
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// row returns the whitespace-split table row whose first cell is id.
func row(out, id string) []string {
	for _, line := range strings.Split(out, "\n") {
		f := strings.Fields(line)
		if len(f) > 0 && f[0] == id {
			return f
		}
	}
	return nil
}

func TestRun_ReplaysScript(t *testing.T) {
	scenePath := writeFile(t, "scene.yaml", testScene)
	scriptPath := writeFile(t, "script.yaml", testScript)

	out, err := execute(t, "run", scenePath, "--script", scriptPath)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, want := range []string{"mount " + scenePath, "1 press a [moving]", "3 release [idle]", "create-path", "set-marker"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got, want := row(out, "a"), []string{"a", "edge-anchor", "e", "(80,20)", "o1"}; !equal(got, want) {
		t.Errorf("row a = %v, want %v", got, want)
	}
	if got, want := row(out, "n2"), []string{"n2", "node", "w", "(210,10)", "-"}; !equal(got, want) {
		t.Errorf("row n2 = %v, want %v", got, want)
	}
	if !strings.Contains(out, "no lifecycle leaks") {
		t.Errorf("expected a clean leak check:\n%s", out)
	}
}

func TestRun_Quiet(t *testing.T) {
	scenePath := writeFile(t, "scene.yaml", testScene)

	out, err := execute(t, "run", scenePath, "--quiet", "--script=")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if strings.Contains(out, "set-position") {
		t.Errorf("quiet run printed render commands:\n%s", out)
	}
	if row(out, "b") == nil {
		t.Errorf("entity table missing:\n%s", out)
	}
}

func TestRun_BadScene(t *testing.T) {
	scenePath := writeFile(t, "scene.yaml", "id: root\nchildren:\n  - id: root\n")

	_, err := execute(t, "run", scenePath, "--script=")
	if err == nil || !strings.Contains(err.Error(), "duplicate element id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestRun_SmallBufferKeepsEveryCommand(t *testing.T) {
	saved := commandBuffer
	commandBuffer = 2
	defer func() { commandBuffer = saved }()
	scenePath := writeFile(t, "scene.yaml", testScene)

	out, err := execute(t, "run", scenePath, "--quiet=false", "--script=")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// w, n1, n2, a and b are placed on mount
	if got := strings.Count(out, "set-position"); got != 5 {
		t.Errorf("expected 5 set-position commands, got %d:\n%s", got, out)
	}
	if got := strings.Count(out, "create-path"); got != 1 {
		t.Errorf("expected 1 create-path command, got %d:\n%s", got, out)
	}
	if got := strings.Count(out, "set-geometry"); got != 1 {
		t.Errorf("expected 1 set-geometry command, got %d:\n%s", got, out)
	}
}

func TestDot(t *testing.T) {
	scenePath := writeFile(t, "scene.yaml", testScene)

	out, err := execute(t, "dot", scenePath)
	if err != nil {
		t.Fatalf("dot failed: %v", err)
	}
	if !strings.HasPrefix(out, "digraph Graph {") {
		t.Errorf("unexpected DOT header:\n%s", out)
	}
	if !strings.Contains(out, `subgraph "cluster_w"`) {
		t.Errorf("world cluster missing:\n%s", out)
	}
}

func TestConfig_PrintsDefaults(t *testing.T) {
	out, err := execute(t, "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	for _, want := range []string{"[renderer]", `kind = "log"`, "queue_size = 64"} {
		if !strings.Contains(out, want) {
			t.Errorf("defaults missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCheck(t *testing.T) {
	good := writeFile(t, "good.toml", "[renderer]\npath_style = \"curve\"\n")
	if _, err := execute(t, "config", "check", good); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := writeFile(t, "bad.toml", "[renderer]\nkind = \"paper\"\n")
	_, err := execute(t, "config", "check", bad)
	if !errors.Is(err, config.ErrUnknownRenderer) {
		t.Errorf("expected ErrUnknownRenderer, got %v", err)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
