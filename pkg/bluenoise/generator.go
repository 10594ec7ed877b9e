// Package bluenoise generates tileable blue-noise threshold maps with the
// void-and-cluster method and applies them as ordered-dither patterns.
package bluenoise

import (
	"fmt"
	"math"
	"time"

	icore "bluenoise/internal/core"
	"bluenoise/pkg/core"
	"bluenoise/pkg/energy"
)

// Generator runs void-and-cluster once over its own bitmap, rank and energy
// arrays. It is single-use and not safe for concurrent use.
type Generator struct {
	width  int
	height int
	area   int

	initialDensity float64

	random   *core.RNG
	field    *energy.Field
	observer Observer

	bitmap *icore.ByteGrid
	rank   []int32
	energy []float64

	// onesCount mirrors bitmap.Count(); setBit keeps it current.
	onesCount int
	ranked    int
	used      bool
}

// New validates cfg and allocates a Generator.
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	field, err := energy.NewWithMode(cfg.Width, cfg.Height, cfg.Sigma, cfg.Mode)
	if err != nil {
		return nil, &ConfigError{Field: "mode", Reason: err.Error()}
	}

	random := core.NewClockRNG()
	if cfg.Seed != nil {
		random = core.NewRNG(*cfg.Seed)
	}

	area := cfg.Width * cfg.Height
	g := &Generator{
		width:          cfg.Width,
		height:         cfg.Height,
		area:           area,
		initialDensity: cfg.InitialDensity,
		random:         random,
		field:          field,
		observer:       cfg.Observer,
		bitmap:         icore.NewByteGrid(cfg.Width, cfg.Height),
		rank:           make([]int32, area),
		energy:         make([]float64, area),
	}
	for i := range g.rank {
		g.rank[i] = -1
	}
	return g, nil
}

// Generate builds a threshold map from cfg in one call.
func Generate(cfg Config) (Result, error) {
	g, err := New(cfg)
	if err != nil {
		return Result{}, err
	}
	return g.Generate()
}

// Mode reports the energy convolution path in use.
func (g *Generator) Mode() energy.Mode { return g.field.Mode() }

// Generate runs phases 0 through 4 and returns the threshold map.
func (g *Generator) Generate() (Result, error) {
	if g.used {
		return Result{}, ErrAlreadyGenerated
	}
	g.used = true

	start := time.Now()
	g.started(PhaseInitialPattern)
	iterations, converged := g.generateInitialPattern()
	prototype := g.bitmap.Clone()
	initialPoints := g.onesCount
	if err := g.checkpoint(); err != nil {
		return Result{}, err
	}
	g.done(PhaseStats{Phase: PhaseInitialPattern, Iterations: iterations, Converged: converged}, start)

	start = time.Now()
	g.started(PhaseSerialize)
	g.serializeInitialPoints()
	if err := g.checkpoint(); err != nil {
		return Result{}, err
	}
	g.done(PhaseStats{Phase: PhaseSerialize}, start)

	start = time.Now()
	g.started(PhaseFillHalf)
	counter := g.fillToHalf(prototype, initialPoints)
	if err := g.checkpoint(); err != nil {
		return Result{}, err
	}
	g.done(PhaseStats{Phase: PhaseFillHalf}, start)

	start = time.Now()
	g.started(PhaseFillComplete)
	g.fillToCompletion(counter)
	if err := g.checkpoint(); err != nil {
		return Result{}, err
	}
	g.done(PhaseStats{Phase: PhaseFillComplete}, start)

	start = time.Now()
	g.started(PhaseThreshold)
	data := g.thresholdMap()
	g.done(PhaseStats{Phase: PhaseThreshold}, start)

	return Result{Data: data, Width: g.width, Height: g.height}, nil
}

// Ranks returns a copy of the rank array. Cells not yet ranked hold -1.
func (g *Generator) Ranks() []int32 {
	return append([]int32(nil), g.rank...)
}

func (g *Generator) started(p Phase) {
	if g.observer != nil {
		g.observer.PhaseStarted(p)
	}
}

func (g *Generator) done(s PhaseStats, start time.Time) {
	if g.observer == nil {
		return
	}
	s.Ranked = g.ranked
	s.Ones = g.onesCount
	s.Elapsed = time.Since(start)
	if s.Phase != PhaseInitialPattern {
		s.Converged = true
	}
	g.observer.PhaseDone(s)
}

func (g *Generator) assign(idx int, rank int) {
	g.rank[idx] = int32(rank)
	g.ranked++
	if g.observer != nil {
		g.observer.Progress(g.ranked, g.area)
	}
}

func (g *Generator) checkpoint() error {
	if n := g.bitmap.Count(); n != g.onesCount {
		return fmt.Errorf("%w: cached %d, counted %d", ErrOnesMismatch, g.onesCount, n)
	}
	return nil
}

// findTightestCluster returns the set cell with the highest energy, first in
// row-major order on ties, or -1 when no bit is set.
func (g *Generator) findTightestCluster() int {
	maxEnergy := math.Inf(-1)
	maxIdx := -1
	for i, b := range g.bitmap.Cells() {
		if b == 1 && g.energy[i] > maxEnergy {
			maxEnergy = g.energy[i]
			maxIdx = i
		}
	}
	return maxIdx
}

// findLargestVoid returns the clear cell with the lowest energy, first in
// row-major order on ties, or -1 when every bit is set.
func (g *Generator) findLargestVoid() int {
	minEnergy := math.Inf(1)
	minIdx := -1
	for i, b := range g.bitmap.Cells() {
		if b == 0 && g.energy[i] < minEnergy {
			minEnergy = g.energy[i]
			minIdx = i
		}
	}
	return minIdx
}

func (g *Generator) setBit(idx int, value uint8) {
	cells := g.bitmap.Cells()
	g.onesCount += int(value) - int(cells[idx])
	cells[idx] = value
}

func (g *Generator) recalculateOnesCount() {
	g.onesCount = g.bitmap.Count()
}

func (g *Generator) recalculateEnergy() {
	g.field.BlurInto(g.energy, g.bitmap.Cells())
}

// generateInitialPattern is phase 0: random placement followed by moving the
// tightest cluster into the largest void until the move is a no-op.
func (g *Generator) generateInitialPattern() (iterations int, converged bool) {
	target := int(math.Floor(float64(g.area) * g.initialDensity))
	cells := g.bitmap.Cells()
	for g.onesCount < target {
		idx := int(math.Floor(g.random.Float() * float64(g.area)))
		if cells[idx] == 0 {
			g.setBit(idx, 1)
		}
	}
	g.recalculateEnergy()
	if g.onesCount == 0 {
		return 0, true
	}

	maxIterations := g.area * maxIterationsMultiplier
	for iterations < maxIterations {
		iterations++

		clusterIdx := g.findTightestCluster()
		g.setBit(clusterIdx, 0)
		g.recalculateEnergy()

		voidIdx := g.findLargestVoid()
		if voidIdx == clusterIdx {
			g.setBit(clusterIdx, 1)
			g.recalculateEnergy()
			return iterations, true
		}

		g.setBit(voidIdx, 1)
		g.recalculateEnergy()
	}
	return iterations, false
}

// serializeInitialPoints is phase 1: ranks P-1 down to 0 go to the prototype
// points in order of removal.
func (g *Generator) serializeInitialPoints() {
	counter := g.onesCount - 1
	for g.onesCount > 0 {
		clusterIdx := g.findTightestCluster()
		g.assign(clusterIdx, counter)
		counter--
		g.setBit(clusterIdx, 0)
		g.recalculateEnergy()
	}
}

// fillToHalf is phase 2: restores the prototype and ranks voids upwards from
// initialPoints until half the cells are set. It returns the next rank.
func (g *Generator) fillToHalf(prototype *icore.ByteGrid, initialPoints int) int {
	g.bitmap.CopyFrom(prototype)
	g.recalculateOnesCount()
	g.recalculateEnergy()

	counter := initialPoints
	halfArea := g.area / 2
	for g.onesCount < halfArea {
		voidIdx := g.findLargestVoid()
		g.assign(voidIdx, counter)
		counter++
		g.setBit(voidIdx, 1)
		g.recalculateEnergy()
	}
	return counter
}

// fillToCompletion is phase 3: on the inverted bitmap the unranked cells are
// the set bits; they are ranked by tightest-cluster removal.
func (g *Generator) fillToCompletion(counter int) {
	g.bitmap.Invert()
	g.recalculateOnesCount()
	g.recalculateEnergy()

	for counter < g.area {
		clusterIdx := g.findTightestCluster()
		g.assign(clusterIdx, counter)
		counter++
		g.setBit(clusterIdx, 0)
		g.recalculateEnergy()
	}
}

// thresholdMap is phase 4.
func (g *Generator) thresholdMap() []byte {
	out := make([]byte, g.area)
	for i, r := range g.rank {
		out[i] = byte(int64(r) * thresholdLevels / int64(g.area))
	}
	return out
}
