package bluenoise

import (
	"fmt"

	icore "bluenoise/internal/core"
)

// Result is a width×height threshold map in row-major order. Values are in
// [0, 255] and the map tiles seamlessly.
type Result struct {
	Data   []byte
	Width  int
	Height int
}

var _ icore.ThresholdSource = Result{}

// Size implements core.ThresholdSource.
func (r Result) Size() icore.Size { return icore.Size{W: r.Width, H: r.Height} }

// Threshold returns the threshold at (x, y), tiling the map in both
// directions. It panics on a map that fails Validate.
func (r Result) Threshold(x, y int) uint8 {
	x = (x%r.Width + r.Width) % r.Width
	y = (y%r.Height + r.Height) % r.Height
	return r.Data[y*r.Width+x]
}

// Validate checks that the dimensions are positive and match the data.
func (r Result) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidMap, r.Width, r.Height)
	}
	if len(r.Data) != r.Width*r.Height {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidMap, len(r.Data), r.Width, r.Height)
	}
	return nil
}
