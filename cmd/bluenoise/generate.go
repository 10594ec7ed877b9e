package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"bluenoise/internal/imageio"
	"bluenoise/internal/logging"
	"bluenoise/internal/progress"
	"bluenoise/internal/store"
	"bluenoise/pkg/bluenoise"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate a threshold map and save it as a grayscale PNG",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Value: bluenoise.DefaultSize, Usage: "map width in cells"},
			&cli.IntFlag{Name: "height", Value: bluenoise.DefaultSize, Usage: "map height in cells"},
			&cli.Float64Flag{
				Name:    "sigma",
				Value:   bluenoise.DefaultSigma,
				Usage:   "standard deviation of the energy kernel",
				EnvVars: []string{"BLUENOISE_SIGMA"},
			},
			&cli.Float64Flag{Name: "density", Value: bluenoise.DefaultInitialDensity, Usage: "initial pattern density in (0, 1)"},
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "random seed; defaults to the current time",
				EnvVars: []string{"BLUENOISE_SEED"},
			},
			&cli.StringFlag{Name: "mode", Value: "auto", Usage: "energy convolution: auto, fft or spatial"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "noise.png", Usage: "threshold map image path"},
			&cli.StringFlag{Name: "ranks", Usage: "also write the full rank array to this .bnr file"},
			&cli.BoolFlag{Name: "progress", Usage: "show a progress bar while generating"},
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	mode, err := bluenoise.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}
	seed := time.Now().UnixMilli()
	if c.IsSet("seed") {
		seed = c.Int64("seed")
	}
	cfg := bluenoise.Config{
		Width:          c.Int("width"),
		Height:         c.Int("height"),
		Sigma:          c.Float64("sigma"),
		InitialDensity: c.Float64("density"),
		Seed:           bluenoise.Seed(seed),
		Mode:           mode,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.WithMap(cfg.Width, cfg.Height)

	var (
		result bluenoise.Result
		ranks  []int32
	)
	job := func(obs bluenoise.Observer) error {
		cfg.Observer = obs
		g, err := bluenoise.New(cfg)
		if err != nil {
			return err
		}
		log.Info("generating", "mode", g.Mode().String(), "seed", seed)
		result, err = g.Generate()
		ranks = g.Ranks()
		return err
	}

	start := time.Now()
	if c.Bool("progress") {
		program := tea.NewProgram(progress.New("bluenoise", job))
		final, err := program.Run()
		if err != nil {
			return err
		}
		if err := final.(progress.Model).Err(); err != nil {
			return err
		}
	} else if err := job(logging.NewPhaseLogger(log)); err != nil {
		return err
	}
	log.Info("generated", "elapsed", time.Since(start).Round(time.Millisecond))

	out := c.String("output")
	err = imageio.SaveThresholdMap(out, result)
	log.LogSaved("threshold map", out, err)
	if err != nil {
		return err
	}

	if path := c.String("ranks"); path != "" {
		err := store.Save(path, &store.RankFile{
			Width:   cfg.Width,
			Height:  cfg.Height,
			Sigma:   cfg.Sigma,
			Density: cfg.InitialDensity,
			Seed:    seed,
			Ranks:   ranks,
		})
		log.LogSaved("ranks", path, err)
		if err != nil {
			return err
		}
	}

	w := c.App.Writer
	fmt.Fprint(w, progress.Summary(cfg.Parameters()))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+progress.QualityLine(bluenoise.Analyze(result)))
	fmt.Fprintln(w, "  "+out)
	return nil
}
