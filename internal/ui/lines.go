package ui

import (
	"fmt"

	"bluenoise/internal/core"
)

const keyHelp = "space pause  n step  r restart  m map  q quit"

// panelLines lays out the HUD text: parameter groups followed by the sweep
// state. Group names are returned with a leading "#".
func panelLines(snap core.ParameterSnapshot, level, lit, total int, paused bool) []string {
	var lines []string
	for _, g := range snap.Groups {
		lines = append(lines, "#"+g.Name)
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("%-16s %s", p.Label, p.Value))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "#Sweep")
	state := "running"
	if paused {
		state = "paused"
	}
	lines = append(lines, fmt.Sprintf("%-16s %d / 255", "Level", level))
	coverage := 0.0
	if total > 0 {
		coverage = 100 * float64(lit) / float64(total)
	}
	lines = append(lines, fmt.Sprintf("%-16s %.1f%%", "Lit", coverage))
	lines = append(lines, fmt.Sprintf("%-16s %s", "State", state))
	return lines
}
