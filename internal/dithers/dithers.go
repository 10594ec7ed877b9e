// Package dithers registers the dithering methods selectable from the
// command line: the blue-noise threshold map plus reference methods for
// comparison.
package dithers

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/makeworld-the-better-one/dither/v2"

	"bluenoise/internal/core"
	"bluenoise/pkg/bluenoise"
)

// Default is the method used when none is named.
const Default = "bluenoise"

// ErrNoMap is returned when the blue-noise method is built without a map.
var ErrNoMap = errors.New("bluenoise ditherer needs a threshold map")

func init() {
	core.Register("bluenoise", newBlueNoise)
	core.Register("threshold", newThreshold)
	core.Register("bayer", newPattern("bayer", dither.Bayer(8, 8, 1.0)))
	core.Register("floyd-steinberg", newDiffusion("floyd-steinberg", dither.FloydSteinberg))
	core.Register("atkinson", newDiffusion("atkinson", dither.Atkinson))
}

// New builds the ditherer registered under name.
func New(name string, opts core.Options) (core.Ditherer, error) {
	if name == "" {
		name = Default
	}
	factory, ok := core.Ditherers()[name]
	if !ok {
		return nil, fmt.Errorf("unknown dither method %q (available: %s)", name, strings.Join(core.DithererNames(), ", "))
	}
	return factory(opts)
}

func levels(opts core.Options) int {
	if opts.Levels < 2 {
		return bluenoise.DefaultLevels
	}
	return opts.Levels
}

// mapDitherer applies a threshold map with bluenoise.DitherGray.
type mapDitherer struct {
	name   string
	m      bluenoise.Result
	levels int
}

func (d *mapDitherer) Name() string { return d.name }

func (d *mapDitherer) Dither(src *image.Gray) *image.Gray {
	// d.m was validated by newBlueNoise.
	out, _ := bluenoise.DitherGray(src, d.m, d.levels)
	return out
}

func newBlueNoise(opts core.Options) (core.Ditherer, error) {
	if opts.Map == nil {
		return nil, ErrNoMap
	}
	m := sample(opts.Map)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &mapDitherer{name: "bluenoise", m: m, levels: levels(opts)}, nil
}

// newThreshold quantises against a constant mid threshold, i.e. rounds to the
// nearest level.
func newThreshold(opts core.Options) (core.Ditherer, error) {
	flat := bluenoise.Result{Data: []byte{127}, Width: 1, Height: 1}
	return &mapDitherer{name: "threshold", m: flat, levels: levels(opts)}, nil
}

// sample copies any threshold source into a Result.
func sample(src core.ThresholdSource) bluenoise.Result {
	if r, ok := src.(bluenoise.Result); ok {
		return r
	}
	size := src.Size()
	if size.W <= 0 || size.H <= 0 {
		return bluenoise.Result{Width: size.W, Height: size.H}
	}
	out := bluenoise.Result{Data: make([]byte, size.W*size.H), Width: size.W, Height: size.H}
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			out.Data[y*size.W+x] = src.Threshold(x, y)
		}
	}
	return out
}

// libDitherer wraps a configured dither.Ditherer from the dither library.
type libDitherer struct {
	name string
	d    *dither.Ditherer
}

func (l *libDitherer) Name() string { return l.name }

func (l *libDitherer) Dither(src *image.Gray) *image.Gray {
	out := l.d.DitherCopy(src)
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// Palette entries are gray, so any channel carries the level.
			dst.SetGray(x, y, color.Gray{Y: out.RGBAAt(x, y).R})
		}
	}
	return dst
}

func grayPalette(n int) []color.Color {
	palette := make([]color.Color, n)
	for i := range palette {
		palette[i] = color.Gray{Y: uint8(i * 255 / (n - 1))}
	}
	return palette
}

func newPattern(name string, mapper dither.PixelMapper) core.Factory {
	return func(opts core.Options) (core.Ditherer, error) {
		d := dither.NewDitherer(grayPalette(levels(opts)))
		if d == nil {
			return nil, fmt.Errorf("%s: invalid palette", name)
		}
		d.Mapper = mapper
		return &libDitherer{name: name, d: d}, nil
	}
}

func newDiffusion(name string, matrix dither.ErrorDiffusionMatrix) core.Factory {
	return func(opts core.Options) (core.Ditherer, error) {
		d := dither.NewDitherer(grayPalette(levels(opts)))
		if d == nil {
			return nil, fmt.Errorf("%s: invalid palette", name)
		}
		d.Matrix = matrix
		d.Serpentine = true
		return &libDitherer{name: name, d: d}, nil
	}
}
