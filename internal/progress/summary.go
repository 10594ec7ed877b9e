package progress

import (
	"fmt"
	"strings"

	"bluenoise/internal/core"
	"bluenoise/pkg/bluenoise"
)

// Summary renders a parameter snapshot as aligned, grouped lines.
func Summary(snap core.ParameterSnapshot) string {
	var b strings.Builder
	for i, g := range snap.Groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  " + groupStyle.Render(g.Name) + "\n")
		for _, p := range g.Params {
			b.WriteString("    " + labelStyle.Render(p.Label) + valueStyle.Render(p.Value) + "\n")
		}
	}
	return b.String()
}

// QualityLine renders the quality statistics of a map on one line.
func QualityLine(q bluenoise.Quality) string {
	return helpStyle.Render(fmt.Sprintf("3×3 variance mean %.0f  ·  min %.0f  ·  neighbour diff %.1f",
		q.MeanLocalVariance, q.MinLocalVariance, q.NeighborDiff))
}
