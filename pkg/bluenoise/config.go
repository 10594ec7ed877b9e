package bluenoise

import (
	"fmt"
	"math"
	"strconv"

	icore "bluenoise/internal/core"
	"bluenoise/pkg/energy"
	"bluenoise/pkg/fft"
)

const (
	// DefaultSigma is the Gaussian standard deviation of the energy field.
	DefaultSigma = 1.9
	// DefaultInitialDensity is the share of cells set in the initial pattern.
	DefaultInitialDensity = 0.1
	// DefaultSize is the side length used by DefaultConfig.
	DefaultSize = 64

	maxIterationsMultiplier = 10
	thresholdLevels         = 256
)

// Config controls a generation run.
type Config struct {
	Width  int
	Height int

	// Sigma is the energy kernel's standard deviation. Zero means DefaultSigma.
	Sigma float64
	// InitialDensity is the fraction of cells in the initial pattern, in
	// (0, 1). Zero means DefaultInitialDensity.
	InitialDensity float64
	// Seed makes the run reproducible. Nil seeds from the wall clock.
	Seed *int64

	// Mode forces the energy convolution path. The zero value picks FFT for
	// power-of-two sizes and spatial convolution otherwise.
	Mode energy.Mode
	// Observer, when set, receives phase boundary and progress callbacks.
	Observer Observer
}

// DefaultConfig returns the standard 64×64 configuration without a seed.
func DefaultConfig() Config {
	return Config{
		Width:          DefaultSize,
		Height:         DefaultSize,
		Sigma:          DefaultSigma,
		InitialDensity: DefaultInitialDensity,
	}
}

// Seed returns a pointer to s, for filling Config.Seed inline.
func Seed(s int64) *int64 { return &s }

// withDefaults fills zero-valued optional fields.
func (c Config) withDefaults() Config {
	if c.Sigma == 0 {
		c.Sigma = DefaultSigma
	}
	if c.InitialDensity == 0 {
		c.InitialDensity = DefaultInitialDensity
	}
	return c
}

// Validate reports the first invalid field, after applying defaults.
func (c Config) Validate() error {
	c = c.withDefaults()
	if c.Width <= 0 {
		return &ConfigError{Field: "width", Reason: fmt.Sprintf("must be positive, got %d", c.Width)}
	}
	if c.Height <= 0 {
		return &ConfigError{Field: "height", Reason: fmt.Sprintf("must be positive, got %d", c.Height)}
	}
	if int64(c.Width)*int64(c.Height) > math.MaxInt32 {
		return &ConfigError{Field: "width", Reason: fmt.Sprintf("area %dx%d is too large", c.Width, c.Height)}
	}
	if !(c.Sigma > 0) || math.IsInf(c.Sigma, 0) {
		return &ConfigError{Field: "sigma", Reason: fmt.Sprintf("must be positive, got %v", c.Sigma)}
	}
	if !(c.InitialDensity > 0 && c.InitialDensity < 1) {
		return &ConfigError{Field: "initial_density", Reason: fmt.Sprintf("must be between 0 and 1, got %v", c.InitialDensity)}
	}
	switch c.Mode {
	case energy.ModeAuto, energy.ModeFFT, energy.ModeSpatial:
	default:
		return &ConfigError{Field: "mode", Reason: fmt.Sprintf("unknown mode %v", c.Mode)}
	}
	return nil
}

// ParseMode maps "auto", "fft" or "spatial" to an energy.Mode.
func ParseMode(s string) (energy.Mode, error) {
	switch s {
	case "", "auto":
		return energy.ModeAuto, nil
	case "fft":
		return energy.ModeFFT, nil
	case "spatial":
		return energy.ModeSpatial, nil
	}
	return 0, &ConfigError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", s)}
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Unparsable values are reported as *ConfigError.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}
	if v, ok := cfg["w"]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return c, &ConfigError{Field: "width", Reason: fmt.Sprintf("not an integer: %q", v)}
		}
		c.Width = parsed
	}
	if v, ok := cfg["h"]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return c, &ConfigError{Field: "height", Reason: fmt.Sprintf("not an integer: %q", v)}
		}
		c.Height = parsed
	}
	if v, ok := cfg["sigma"]; ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, &ConfigError{Field: "sigma", Reason: fmt.Sprintf("not a number: %q", v)}
		}
		c.Sigma = parsed
	}
	if v, ok := cfg["initial_density"]; ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, &ConfigError{Field: "initial_density", Reason: fmt.Sprintf("not a number: %q", v)}
		}
		c.InitialDensity = parsed
	}
	if v, ok := cfg["seed"]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c, &ConfigError{Field: "seed", Reason: fmt.Sprintf("not an integer: %q", v)}
		}
		c.Seed = Seed(parsed)
	}
	if v, ok := cfg["mode"]; ok {
		mode, err := ParseMode(v)
		if err != nil {
			return c, err
		}
		c.Mode = mode
	}
	return c, c.Validate()
}

// Parameters returns the configuration grouped for display.
func (c Config) Parameters() icore.ParameterSnapshot {
	c = c.withDefaults()
	seed := icore.StringParam("seed", "Seed", "clock")
	if c.Seed != nil {
		seed = icore.Int64Param("seed", "Seed", *c.Seed)
	}
	return icore.ParameterSnapshot{Groups: []icore.ParameterGroup{
		{
			Name: "Map",
			Params: []icore.Parameter{
				icore.IntParam("w", "Width", c.Width),
				icore.IntParam("h", "Height", c.Height),
				seed,
			},
		},
		{
			Name: "Void and cluster",
			Params: []icore.Parameter{
				icore.FloatParam("sigma", "Sigma", c.Sigma),
				icore.FloatParam("initial_density", "Initial density", c.InitialDensity),
				icore.StringParam("mode", "Energy mode", c.resolvedMode().String()),
			},
		},
	}}
}

func (c Config) resolvedMode() energy.Mode {
	if c.Mode != energy.ModeAuto {
		return c.Mode
	}
	if fft.IsPowerOfTwo(c.Width) && fft.IsPowerOfTwo(c.Height) {
		return energy.ModeFFT
	}
	return energy.ModeSpatial
}
