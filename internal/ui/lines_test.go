package ui

import (
	"strings"
	"testing"

	"bluenoise/internal/core"
)

func TestPanelLines(t *testing.T) {
	snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name:   "Map",
		Params: []core.Parameter{core.IntParam("w", "Width", 64)},
	}}}
	lines := panelLines(snap, 128, 2048, 4096, true)
	joined := strings.Join(lines, "\n")

	if lines[0] != "#Map" {
		t.Fatalf("first line = %q, want group header", lines[0])
	}
	for _, want := range []string{"Width", "64", "#Sweep", "128 / 255", "50.0%", "paused"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("panel missing %q:\n%s", want, joined)
		}
	}
}

func TestPanelLinesEmptyMap(t *testing.T) {
	lines := panelLines(core.ParameterSnapshot{}, 0, 0, 0, false)
	if lines[0] != "#Sweep" {
		t.Fatalf("first line = %q", lines[0])
	}
	if !strings.Contains(strings.Join(lines, "\n"), "0.0%") {
		t.Fatal("empty map should report zero coverage")
	}
}
