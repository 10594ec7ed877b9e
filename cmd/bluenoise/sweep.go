package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/urfave/cli/v2"

	"bluenoise/internal/imageio"
	"bluenoise/internal/sweep"
)

func sweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "generate maps over sigma, density and seed values and rank them",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Value: 32, Usage: "map width in cells"},
			&cli.IntFlag{Name: "height", Value: 32, Usage: "map height in cells"},
			&cli.Float64SliceFlag{Name: "sigma", Value: cli.NewFloat64Slice(1.5, 1.9, 2.5), Usage: "sigma values"},
			&cli.Float64SliceFlag{Name: "density", Value: cli.NewFloat64Slice(0.1), Usage: "initial density values"},
			&cli.Int64SliceFlag{Name: "seed", Value: cli.NewInt64Slice(1, 2, 3), Usage: "seeds"},
			&cli.IntFlag{Name: "workers", Value: runtime.NumCPU(), Usage: "parallel generations"},
			&cli.IntFlag{Name: "top", Value: 5, Usage: "results to print"},
			&cli.StringFlag{Name: "best", Usage: "save the best map to this image path"},
		},
		Action: runSweep,
	}
}

func runSweep(c *cli.Context) error {
	grid := sweep.Grid{
		Width:     c.Int("width"),
		Height:    c.Int("height"),
		Sigmas:    c.Float64Slice("sigma"),
		Densities: c.Float64Slice("density"),
		Seeds:     c.Int64Slice("seed"),
	}
	sets := len(grid.Sets())
	if sets == 0 {
		return cli.Exit("nothing to sweep", 1)
	}
	logger.Info("sweeping", "sets", sets, "workers", c.Int("workers"), "width", grid.Width, "height", grid.Height)

	results, err := sweep.Run(c.Context, grid, c.Int("workers"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Top %d of %d:\n", min(c.Int("top"), len(results)), len(results))
	for i := 0; i < len(results) && i < c.Int("top"); i++ {
		r := results[i]
		fmt.Fprintf(w, "%2d) minVar=%.0f meanVar=%.0f diff=%.1f elapsed=%s %s\n",
			i+1, r.Quality.MinLocalVariance, r.Quality.MeanLocalVariance, r.Quality.NeighborDiff, r.Elapsed.Round(time.Millisecond), r.Params)
	}

	if path := c.String("best"); path != "" {
		err := imageio.SaveThresholdMap(path, results[0].Map)
		logger.LogSaved("threshold map", path, err)
		return err
	}
	return nil
}
