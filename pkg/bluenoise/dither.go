package bluenoise

import (
	"image"
	"image/color"
	"math"
)

// DefaultLevels is the number of output levels used when none is given.
const DefaultLevels = 2

// OrderedDither quantises value to levels evenly spaced outputs in [0, 255].
// The fractional position between two outputs is rounded up when it exceeds
// the map threshold at (x, y), which tiles across the image. m must be valid;
// see Result.Validate.
func OrderedDither(value uint8, x, y int, m Result, levels int) uint8 {
	if levels < 2 {
		levels = DefaultLevels
	}
	threshold := float64(m.Threshold(x, y)) / 255

	steps := float64(levels - 1)
	scaled := float64(value) / 255 * steps
	quantized := math.Floor(scaled)
	fraction := scaled - quantized

	output := quantized
	if fraction > threshold {
		output = quantized + 1
	}
	output = math.Min(output, steps)
	return uint8(math.Floor(output * 255 / steps))
}

// DitherGray dithers every pixel of src. Map coordinates are taken relative
// to the image origin.
func DitherGray(src *image.Gray, m Result, levels int) (*image.Gray, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := src.GrayAt(x, y).Y
			dst.SetGray(x, y, color.Gray{Y: OrderedDither(v, x-b.Min.X, y-b.Min.Y, m, levels)})
		}
	}
	return dst, nil
}

// DitherChannels dithers the red, green and blue channels of src against the
// same threshold. Alpha is kept as is.
func DitherChannels(src image.Image, m Result, levels int) (*image.NRGBA, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			mx, my := x-b.Min.X, y-b.Min.Y
			dst.SetNRGBA(x, y, color.NRGBA{
				R: OrderedDither(c.R, mx, my, m, levels),
				G: OrderedDither(c.G, mx, my, m, levels),
				B: OrderedDither(c.B, mx, my, m, levels),
				A: c.A,
			})
		}
	}
	return dst, nil
}
