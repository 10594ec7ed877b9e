package core

import (
	"image"
	"sort"
)

// Size describes the dimensions of a threshold map or image.
type Size struct {
	W int
	H int
}

// ThresholdSource is a tileable map of per-cell thresholds in [0, 255].
type ThresholdSource interface {
	Size() Size
	Threshold(x, y int) uint8
}

// Options carries the inputs a Ditherer factory may need.
type Options struct {
	// Levels is the number of output intensity levels; values below 2 mean 2.
	Levels int
	// Map is the threshold map for ordered dithering. Ditherers that do not
	// use one ignore it.
	Map ThresholdSource
}

// Ditherer defines the minimal contract for a dithering method.
type Ditherer interface {
	Name() string
	// Dither returns a grayscale image quantised to the configured levels.
	Dither(src *image.Gray) *image.Gray
}

// Factory constructs a Ditherer from options.
type Factory func(opts Options) (Ditherer, error)

var ditherers = map[string]Factory{}

// Register adds a ditherer factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	ditherers[name] = f
}

// Ditherers exposes the registry of available ditherer factories.
func Ditherers() map[string]Factory {
	return ditherers
}

// DithererNames returns the registered names in sorted order.
func DithererNames() []string {
	names := make([]string, 0, len(ditherers))
	for k := range ditherers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
