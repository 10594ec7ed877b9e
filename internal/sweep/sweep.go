// Package sweep generates threshold maps over a grid of parameters in
// parallel and ranks them by their blue-noise quality statistics.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"bluenoise/pkg/bluenoise"
)

// Params is one point of the sweep grid.
type Params struct {
	Sigma   float64
	Density float64
	Seed    int64
}

func (p Params) String() string {
	return fmt.Sprintf("sigma=%.2f density=%.2f seed=%d", p.Sigma, p.Density, p.Seed)
}

// Result is the outcome of one generation.
type Result struct {
	Params  Params
	Quality bluenoise.Quality
	Elapsed time.Duration
	Map     bluenoise.Result
}

// Grid describes the parameter values to combine.
type Grid struct {
	Width     int
	Height    int
	Sigmas    []float64
	Densities []float64
	Seeds     []int64
}

// Sets expands the grid into every combination, sigma varying slowest.
func (g Grid) Sets() []Params {
	densities := g.Densities
	if len(densities) == 0 {
		densities = []float64{bluenoise.DefaultInitialDensity}
	}
	var sets []Params
	for _, sigma := range g.Sigmas {
		for _, density := range densities {
			for _, seed := range g.Seeds {
				sets = append(sets, Params{Sigma: sigma, Density: density, Seed: seed})
			}
		}
	}
	return sets
}

// Run generates every combination of g using up to workers goroutines and
// returns the results best first. The first generation error cancels the
// remaining work.
func Run(ctx context.Context, g Grid, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sets := g.Sets()
	results := make([]Result, len(sets))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, params := range sets {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			m, err := bluenoise.Generate(bluenoise.Config{
				Width:          g.Width,
				Height:         g.Height,
				Sigma:          params.Sigma,
				InitialDensity: params.Density,
				Seed:           bluenoise.Seed(params.Seed),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", params, err)
			}
			results[i] = Result{
				Params:  params,
				Quality: bluenoise.Analyze(m),
				Elapsed: time.Since(start),
				Map:     m,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	Rank(results)
	return results, nil
}

// Rank orders results best first: highest minimum local variance, then
// highest neighbour difference.
func Rank(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Quality, results[j].Quality
		if a.MinLocalVariance != b.MinLocalVariance {
			return a.MinLocalVariance > b.MinLocalVariance
		}
		return a.NeighborDiff > b.NeighborDiff
	})
}
