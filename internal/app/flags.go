package app

import (
	"flag"

	"bluenoise/internal/core"
	"bluenoise/internal/imageio"
	"bluenoise/pkg/bluenoise"
)

// Config represents the command-line parameters for the preview.
type Config struct {
	Width   int
	Height  int
	Sigma   float64
	Density float64
	Seed    int64
	Mode    string
	// Map, when set, loads a threshold map image instead of generating one.
	Map string

	Scale int
	TPS   int
	Rate  int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:   bluenoise.DefaultSize,
		Height:  bluenoise.DefaultSize,
		Sigma:   bluenoise.DefaultSigma,
		Density: bluenoise.DefaultInitialDensity,
		Seed:    42,
		Mode:    "auto",
		Scale:   8,
		TPS:     60,
		Rate:    30,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "map width")
	fs.IntVar(&c.Height, "h", c.Height, "map height")
	fs.Float64Var(&c.Sigma, "sigma", c.Sigma, "energy kernel standard deviation")
	fs.Float64Var(&c.Density, "density", c.Density, "initial pattern density")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "generation seed")
	fs.StringVar(&c.Mode, "mode", c.Mode, "energy convolution: auto, fft or spatial")
	fs.StringVar(&c.Map, "map", c.Map, "threshold map image to preview instead of generating")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.Rate, "rate", c.Rate, "threshold levels swept per second")
}

// Load generates or reads the threshold map described by c and returns it
// with the parameters to display.
func (c *Config) Load() (bluenoise.Result, core.ParameterSnapshot, error) {
	if c.Map != "" {
		m, err := imageio.LoadThresholdMap(c.Map)
		if err != nil {
			return bluenoise.Result{}, core.ParameterSnapshot{}, err
		}
		snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{{
			Name: "Map",
			Params: []core.Parameter{
				core.StringParam("file", "File", c.Map),
				core.IntParam("w", "Width", m.Width),
				core.IntParam("h", "Height", m.Height),
			},
		}}}
		return m, snap, nil
	}

	mode, err := bluenoise.ParseMode(c.Mode)
	if err != nil {
		return bluenoise.Result{}, core.ParameterSnapshot{}, err
	}
	cfg := bluenoise.Config{
		Width:          c.Width,
		Height:         c.Height,
		Sigma:          c.Sigma,
		InitialDensity: c.Density,
		Seed:           bluenoise.Seed(c.Seed),
		Mode:           mode,
	}
	m, err := bluenoise.Generate(cfg)
	if err != nil {
		return bluenoise.Result{}, core.ParameterSnapshot{}, err
	}
	return m, cfg.Parameters(), nil
}
