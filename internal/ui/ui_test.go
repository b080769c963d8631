package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestTable_AlignsColumns(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	Table(&buf, []string{"ID", "KIND"}, [][]string{
		{"n1", "node"},
		{"anchor", "edge-anchor"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "  ID      KIND" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "  n1      node" {
		t.Errorf("row = %q", lines[2])
	}
	if lines[3] != "  anchor  edge-anchor" {
		t.Errorf("row = %q", lines[3])
	}
}

func TestTable_EmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"ID"}, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
