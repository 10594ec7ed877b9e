package fft

import "fmt"

// FFT2D transforms row-major fields by row-column decomposition.
type FFT2D struct {
	width  int
	height int
	rowFFT *FFT
	colFFT *FFT
	col    []Complex
}

// New2D prepares a width×height transform. Both sides must be powers of two.
func New2D(width, height int) (*FFT2D, error) {
	rows, err := New(width)
	if err != nil {
		return nil, fmt.Errorf("width: %w", err)
	}
	cols, err := New(height)
	if err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}
	return &FFT2D{
		width:  width,
		height: height,
		rowFFT: rows,
		colFFT: cols,
		col:    make([]Complex, height),
	}, nil
}

// Width returns the number of columns.
func (f *FFT2D) Width() int { return f.width }

// Height returns the number of rows.
func (f *FFT2D) Height() int { return f.height }

// NewGrid allocates a height×width complex grid.
func (f *FFT2D) NewGrid() [][]Complex {
	backing := make([]Complex, f.width*f.height)
	grid := make([][]Complex, f.height)
	for y := range grid {
		grid[y] = backing[y*f.width : (y+1)*f.width]
	}
	return grid
}

// Forward returns the spectrum of a real row-major field.
func (f *FFT2D) Forward(data []float64) ([][]Complex, error) {
	grid := f.NewGrid()
	if err := f.ForwardInto(grid, data); err != nil {
		return nil, err
	}
	return grid, nil
}

// ForwardInto writes the spectrum of data into dst, which must come from
// NewGrid. Rows are transformed first, then columns.
func (f *FFT2D) ForwardInto(dst [][]Complex, data []float64) error {
	if len(data) != f.width*f.height {
		return fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(data), f.width*f.height)
	}
	if len(dst) != f.height {
		return fmt.Errorf("%w: grid has %d rows, want %d", ErrSizeMismatch, len(dst), f.height)
	}
	for y := 0; y < f.height; y++ {
		row := dst[y]
		for x := 0; x < f.width; x++ {
			row[x] = Complex{Re: data[y*f.width+x]}
		}
		f.rowFFT.forward(row)
	}
	for x := 0; x < f.width; x++ {
		for y := 0; y < f.height; y++ {
			f.col[y] = dst[y][x]
		}
		f.colFFT.forward(f.col)
		for y := 0; y < f.height; y++ {
			dst[y][x] = f.col[y]
		}
	}
	return nil
}

// Inverse transforms freq back to the spatial domain in place and returns the
// real component as a new row-major slice.
func (f *FFT2D) Inverse(freq [][]Complex) ([]float64, error) {
	out := make([]float64, f.width*f.height)
	if err := f.InverseInto(out, freq); err != nil {
		return nil, err
	}
	return out, nil
}

// InverseInto transforms freq in place, columns first and then rows, and
// stores the real component in dst.
func (f *FFT2D) InverseInto(dst []float64, freq [][]Complex) error {
	if len(dst) != f.width*f.height {
		return fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(dst), f.width*f.height)
	}
	if len(freq) != f.height {
		return fmt.Errorf("%w: grid has %d rows, want %d", ErrSizeMismatch, len(freq), f.height)
	}
	for x := 0; x < f.width; x++ {
		for y := 0; y < f.height; y++ {
			f.col[y] = freq[y][x]
		}
		f.colFFT.inverse(f.col)
		for y := 0; y < f.height; y++ {
			freq[y][x] = f.col[y]
		}
	}
	for y := 0; y < f.height; y++ {
		row := freq[y]
		f.rowFFT.inverse(row)
		for x := 0; x < f.width; x++ {
			dst[y*f.width+x] = row[x].Re
		}
	}
	return nil
}
