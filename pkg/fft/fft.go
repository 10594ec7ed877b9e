// Package fft implements the radix-2 transforms used to convolve fields on a
// torus. Only power-of-two lengths are supported.
package fft

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

var (
	// ErrNotPowerOfTwo is returned when a transform length is not 2^k.
	ErrNotPowerOfTwo = errors.New("fft size must be a power of two")
	// ErrSizeMismatch is returned when a buffer does not match the plan size.
	ErrSizeMismatch = errors.New("fft buffer length does not match size")
)

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// FFT is an in-place iterative Cooley-Tukey transform of a fixed length.
type FFT struct {
	size     int
	reversed []int
	twiddle  []Complex
}

// New prepares a transform of the given length.
func New(size int) (*FFT, error) {
	if !IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, size)
	}
	f := &FFT{size: size}
	f.reversed = bitReversedIndices(size)

	// twiddle[k] = exp(-2πik/size); stage length L uses stride size/L.
	f.twiddle = make([]Complex, size/2)
	for k := range f.twiddle {
		angle := -2 * math.Pi * float64(k) / float64(size)
		f.twiddle[k] = Complex{Re: math.Cos(angle), Im: math.Sin(angle)}
	}
	return f, nil
}

func bitReversedIndices(size int) []int {
	n := bits.TrailingZeros(uint(size))
	out := make([]int, size)
	for i := range out {
		r := 0
		for j := 0; j < n; j++ {
			if i&(1<<j) != 0 {
				r |= 1 << (n - 1 - j)
			}
		}
		out[i] = r
	}
	return out
}

// Size returns the transform length.
func (f *FFT) Size() int { return f.size }

// Forward transforms data in place.
func (f *FFT) Forward(data []Complex) error {
	if len(data) != f.size {
		return fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(data), f.size)
	}
	f.forward(data)
	return nil
}

func (f *FFT) forward(data []Complex) {
	n := f.size
	for i := 0; i < n; i++ {
		if j := f.reversed[i]; i < j {
			data[i], data[j] = data[j], data[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		half := length >> 1
		stride := n / length
		for i := 0; i < n; i += length {
			for j := 0; j < half; j++ {
				w := f.twiddle[j*stride]
				u := data[i+j]
				v := data[i+j+half].Mul(w)
				data[i+j] = u.Add(v)
				data[i+j+half] = u.Sub(v)
			}
		}
	}
}

// Inverse transforms data in place: conjugate, forward, conjugate and scale
// by 1/size.
func (f *FFT) Inverse(data []Complex) error {
	if len(data) != f.size {
		return fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(data), f.size)
	}
	f.inverse(data)
	return nil
}

func (f *FFT) inverse(data []Complex) {
	for i := range data {
		data[i].Im = -data[i].Im
	}
	f.forward(data)
	scale := 1 / float64(f.size)
	for i := range data {
		data[i].Re *= scale
		data[i].Im = -data[i].Im * scale
	}
}
