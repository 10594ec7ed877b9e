package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"bluenoise/pkg/bluenoise"
)

func TestGridSets(t *testing.T) {
	g := Grid{Sigmas: []float64{1.5, 1.9}, Seeds: []int64{1, 2, 3}}
	sets := g.Sets()
	require.Len(t, sets, 6)
	require.Equal(t, Params{Sigma: 1.5, Density: bluenoise.DefaultInitialDensity, Seed: 1}, sets[0])
	require.Equal(t, Params{Sigma: 1.9, Density: bluenoise.DefaultInitialDensity, Seed: 3}, sets[5])

	g.Densities = []float64{0.1, 0.2}
	require.Len(t, g.Sets(), 12)
}

func TestRunRanksResults(t *testing.T) {
	g := Grid{Width: 8, Height: 8, Sigmas: []float64{1.2, 1.9}, Seeds: []int64{1, 2}}
	results, err := Run(context.Background(), g, 2)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i := 1; i < len(results); i++ {
		require.GreaterOrEqual(t, results[i-1].Quality.MinLocalVariance, results[i].Quality.MinLocalVariance)
	}
	for _, r := range results {
		require.NoError(t, r.Map.Validate())
		require.Equal(t, bluenoise.Analyze(r.Map), r.Quality)
	}
}

func TestRunMatchesSingleGeneration(t *testing.T) {
	g := Grid{Width: 8, Height: 8, Sigmas: []float64{1.9}, Seeds: []int64{42}}
	results, err := Run(context.Background(), g, 0)
	require.NoError(t, err)
	want, err := bluenoise.Generate(bluenoise.Config{Width: 8, Height: 8, Seed: bluenoise.Seed(42)})
	require.NoError(t, err)
	require.Equal(t, want, results[0].Map)
}

func TestRunReportsInvalidParams(t *testing.T) {
	g := Grid{Width: 8, Height: 8, Sigmas: []float64{-1}, Seeds: []int64{1}}
	_, err := Run(context.Background(), g, 1)
	require.ErrorIs(t, err, bluenoise.ErrInvalidConfig)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := Grid{Width: 8, Height: 8, Sigmas: []float64{1.9}, Seeds: []int64{1, 2}}
	_, err := Run(ctx, g, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRankTieBreak(t *testing.T) {
	results := []Result{
		{Params: Params{Seed: 1}, Quality: bluenoise.Quality{MinLocalVariance: 10, NeighborDiff: 1}},
		{Params: Params{Seed: 2}, Quality: bluenoise.Quality{MinLocalVariance: 20, NeighborDiff: 1}},
		{Params: Params{Seed: 3}, Quality: bluenoise.Quality{MinLocalVariance: 10, NeighborDiff: 5}},
	}
	Rank(results)
	require.Equal(t, []int64{2, 3, 1}, []int64{results[0].Params.Seed, results[1].Params.Seed, results[2].Params.Seed})
}
