// Package energy computes torus-wrapped Gaussian energy fields over binary
// bitmaps, either by frequency-domain multiplication or by direct spatial
// convolution.
package energy

import (
	"errors"
	"fmt"
	"math"

	"bluenoise/pkg/fft"
)

// Mode selects how a Field convolves its input.
type Mode int

const (
	// ModeAuto picks ModeFFT when both sides are powers of two.
	ModeAuto Mode = iota
	// ModeFFT multiplies spectra using a precomputed kernel spectrum.
	ModeFFT
	// ModeSpatial sums a ceil(3σ) window directly.
	ModeSpatial
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeFFT:
		return "fft"
	case ModeSpatial:
		return "spatial"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ErrInvalidField is returned for non-positive dimensions or sigma.
var ErrInvalidField = errors.New("invalid energy field parameters")

// Field blurs width×height torus fields with an isotropic Gaussian.
// A Field keeps scratch buffers and is not safe for concurrent use.
type Field struct {
	width  int
	height int
	sigma  float64
	mode   Mode

	// FFT mode only.
	fft2D    *fft.FFT2D
	kernel   []float64
	spectrum [][]fft.Complex
	scratch  [][]fft.Complex
	input    []float64
}

// New builds a Field, choosing the FFT path iff both sides are powers of two.
func New(width, height int, sigma float64) (*Field, error) {
	return NewWithMode(width, height, sigma, ModeAuto)
}

// NewWithMode builds a Field using the requested mode. Forcing ModeFFT on a
// non-power-of-two size fails with the FFT construction error.
func NewWithMode(width, height int, sigma float64, mode Mode) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidField, width, height)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: sigma %v", ErrInvalidField, sigma)
	}
	if mode == ModeAuto {
		mode = ModeSpatial
		if fft.IsPowerOfTwo(width) && fft.IsPowerOfTwo(height) {
			mode = ModeFFT
		}
	}

	f := &Field{width: width, height: height, sigma: sigma, mode: mode}
	if mode == ModeFFT {
		plan, err := fft.New2D(width, height)
		if err != nil {
			return nil, err
		}
		f.fft2D = plan
		f.kernel = f.spatialKernel()
		f.spectrum, err = plan.Forward(f.kernel)
		if err != nil {
			return nil, err
		}
		f.scratch = plan.NewGrid()
		f.input = make([]float64, width*height)
	}
	return f, nil
}

// Mode reports the convolution path in use.
func (f *Field) Mode() Mode { return f.mode }

// Width returns the field width.
func (f *Field) Width() int { return f.width }

// Height returns the field height.
func (f *Field) Height() int { return f.height }

// Sigma returns the Gaussian standard deviation.
func (f *Field) Sigma() float64 { return f.sigma }

// spatialKernel evaluates the Gaussian at the torus distance from the origin
// and normalises it to sum 1.
func (f *Field) spatialKernel() []float64 {
	kernel := make([]float64, f.width*f.height)
	divisor := 2 * f.sigma * f.sigma
	sum := 0.0
	for y := 0; y < f.height; y++ {
		dy := min(y, f.height-y)
		for x := 0; x < f.width; x++ {
			dx := min(x, f.width-x)
			v := math.Exp(-float64(dx*dx+dy*dy) / divisor)
			kernel[y*f.width+x] = v
			sum += v
		}
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// Kernel returns a copy of the normalised spatial kernel used by the FFT
// path, computing it on demand in spatial mode.
func (f *Field) Kernel() []float64 {
	if f.kernel != nil {
		return append([]float64(nil), f.kernel...)
	}
	return f.spatialKernel()
}

// Blur returns the energy of a binary bitmap.
func (f *Field) Blur(bitmap []uint8) []float64 {
	out := make([]float64, f.width*f.height)
	f.BlurInto(out, bitmap)
	return out
}

// BlurInto writes the energy of bitmap into dst. Both slices must hold
// width*height cells.
func (f *Field) BlurInto(dst []float64, bitmap []uint8) {
	if f.mode == ModeFFT {
		for i, b := range bitmap {
			f.input[i] = float64(b)
		}
		f.blurFFT(dst, f.input)
		return
	}
	f.blurSpatial(dst, func(i int) float64 { return float64(bitmap[i]) })
}

// BlurFloat convolves an arbitrary real field.
func (f *Field) BlurFloat(src []float64) []float64 {
	out := make([]float64, f.width*f.height)
	if f.mode == ModeFFT {
		f.blurFFT(out, src)
		return out
	}
	f.blurSpatial(out, func(i int) float64 { return src[i] })
	return out
}

func (f *Field) blurFFT(dst, src []float64) {
	// Sizes are fixed at construction, so these cannot fail.
	_ = f.fft2D.ForwardInto(f.scratch, src)
	for y, row := range f.scratch {
		k := f.spectrum[y]
		for x := range row {
			row[x] = row[x].Mul(k[x])
		}
	}
	_ = f.fft2D.InverseInto(dst, f.scratch)
}

func (f *Field) blurSpatial(dst []float64, at func(int) float64) {
	w, h := f.width, f.height
	radius := int(math.Ceil(3 * f.sigma))
	divisor := 2 * f.sigma * f.sigma

	// Weights depend only on the offset.
	side := 2*radius + 1
	weights := make([]float64, side*side)
	for ky := -radius; ky <= radius; ky++ {
		for kx := -radius; kx <= radius; kx++ {
			weights[(ky+radius)*side+kx+radius] = math.Exp(-float64(kx*kx+ky*ky) / divisor)
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum, weightSum := 0.0, 0.0
			for ky := -radius; ky <= radius; ky++ {
				py := ((y+ky)%h + h) % h
				for kx := -radius; kx <= radius; kx++ {
					px := ((x+kx)%w + w) % w
					weight := weights[(ky+radius)*side+kx+radius]
					sum += at(py*w+px) * weight
					weightSum += weight
				}
			}
			dst[y*w+x] = sum / weightSum
		}
	}
}
