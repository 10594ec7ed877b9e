package fft

import "math"

// Complex is a complex number stored as separate real and imaginary parts.
type Complex struct {
	Re float64
	Im float64
}

// Add returns c + o.
func (c Complex) Add(o Complex) Complex {
	return Complex{Re: c.Re + o.Re, Im: c.Im + o.Im}
}

// Sub returns c - o.
func (c Complex) Sub(o Complex) Complex {
	return Complex{Re: c.Re - o.Re, Im: c.Im - o.Im}
}

// Mul returns the complex product c * o.
func (c Complex) Mul(o Complex) Complex {
	return Complex{
		Re: c.Re*o.Re - c.Im*o.Im,
		Im: c.Re*o.Im + c.Im*o.Re,
	}
}

// Conj returns the complex conjugate of c.
func (c Complex) Conj() Complex { return Complex{Re: c.Re, Im: -c.Im} }

// Scale multiplies both parts by s.
func (c Complex) Scale(s float64) Complex { return Complex{Re: c.Re * s, Im: c.Im * s} }

// Magnitude returns |c|.
func (c Complex) Magnitude() float64 {
	return math.Sqrt(c.Re*c.Re + c.Im*c.Im)
}
