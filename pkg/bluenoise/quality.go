package bluenoise

import "math"

// Quality holds simple spatial statistics of a threshold map. Blue noise
// keeps neighbouring thresholds far apart, so its 3×3 windows show a high
// and even variance compared to white noise.
type Quality struct {
	// MeanLocalVariance is the average variance over all 3×3 windows.
	MeanLocalVariance float64
	// MinLocalVariance is the lowest variance of any 3×3 window.
	MinLocalVariance float64
	// NeighborDiff is the mean absolute difference between horizontally and
	// vertically adjacent thresholds.
	NeighborDiff float64
}

// Analyze computes Quality over the torus-wrapped map.
func Analyze(m Result) Quality {
	q := Quality{MinLocalVariance: math.Inf(1)}
	if m.Validate() != nil {
		return Quality{}
	}

	var window [9]float64
	varSum, diffSum := 0.0, 0.0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			n := 0
			mean := 0.0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					v := float64(m.Threshold(x+dx, y+dy))
					window[n] = v
					mean += v
					n++
				}
			}
			mean /= 9
			variance := 0.0
			for _, v := range window {
				variance += (v - mean) * (v - mean)
			}
			variance /= 9
			varSum += variance
			q.MinLocalVariance = math.Min(q.MinLocalVariance, variance)

			here := float64(m.Threshold(x, y))
			diffSum += math.Abs(here-float64(m.Threshold(x+1, y))) + math.Abs(here-float64(m.Threshold(x, y+1)))
		}
	}
	area := float64(m.Width * m.Height)
	q.MeanLocalVariance = varSum / area
	q.NeighborDiff = diffSum / (2 * area)
	return q
}
