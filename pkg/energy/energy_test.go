package energy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"bluenoise/pkg/core"
	"bluenoise/pkg/fft"
)

func randomBitmap(w, h int, density float64, seed int64) []uint8 {
	rng := core.NewRNG(seed)
	out := make([]uint8, w*h)
	for i := range out {
		if rng.Float() < density {
			out[i] = 1
		}
	}
	return out
}

func TestModeSelection(t *testing.T) {
	cases := []struct {
		w, h int
		want Mode
	}{
		{64, 64, ModeFFT},
		{32, 8, ModeFFT},
		{48, 64, ModeSpatial},
		{64, 20, ModeSpatial},
		{1, 1, ModeFFT},
	}
	for _, c := range cases {
		f, err := New(c.w, c.h, 1.9)
		require.NoError(t, err)
		require.Equal(t, c.want, f.Mode(), "%dx%d", c.w, c.h)
	}
}

func TestNewRejectsInvalidParameters(t *testing.T) {
	for _, c := range []struct {
		w, h  int
		sigma float64
	}{
		{0, 8, 1},
		{8, -1, 1},
		{8, 8, 0},
		{8, 8, -2},
		{8, 8, math.NaN()},
		{8, 8, math.Inf(1)},
	} {
		_, err := New(c.w, c.h, c.sigma)
		require.ErrorIs(t, err, ErrInvalidField, "%+v", c)
	}
}

func TestForcedFFTOnOddSizeFails(t *testing.T) {
	_, err := NewWithMode(12, 16, 1.9, ModeFFT)
	require.ErrorIs(t, err, fft.ErrNotPowerOfTwo)
}

func TestKernelSumsToOne(t *testing.T) {
	for _, sigma := range []float64{0.5, 1.9, 4, 12} {
		f, err := New(64, 32, sigma)
		require.NoError(t, err)
		sum := 0.0
		for _, v := range f.Kernel() {
			sum += v
		}
		require.InDelta(t, 1.0, sum, 1e-12, "sigma %v", sigma)
	}

	// Spatial mode computes the same kernel on demand.
	f, err := New(48, 30, 1.9)
	require.NoError(t, err)
	sum := 0.0
	for _, v := range f.Kernel() {
		sum += v
	}
	require.InDelta(t, 1.0, sum, 1e-12)
}

func TestKernelIsTorusSymmetric(t *testing.T) {
	f, err := New(16, 16, 1.9)
	require.NoError(t, err)
	k := f.Kernel()
	require.InDelta(t, k[1], k[15], 1e-15)
	require.InDelta(t, k[16], k[15*16], 1e-15)
	require.Greater(t, k[0], k[1])
}

func TestFFTAndSpatialAgree(t *testing.T) {
	for _, tc := range []struct {
		w, h  int
		sigma float64
	}{
		{64, 64, 1.5},
		{32, 64, 1.0},
		{64, 64, 1.9},
	} {
		fastField, err := NewWithMode(tc.w, tc.h, tc.sigma, ModeFFT)
		require.NoError(t, err)
		slowField, err := NewWithMode(tc.w, tc.h, tc.sigma, ModeSpatial)
		require.NoError(t, err)

		bitmap := randomBitmap(tc.w, tc.h, 0.5, 7)
		fast := fastField.Blur(bitmap)
		slow := slowField.Blur(bitmap)
		for i := range fast {
			tol := 1e-3 * math.Max(math.Abs(slow[i]), 0.5)
			if math.Abs(fast[i]-slow[i]) > tol {
				t.Fatalf("%dx%d sigma %v: cell %d fft=%v spatial=%v", tc.w, tc.h, tc.sigma, i, fast[i], slow[i])
			}
		}
	}
}

func TestTorusWrap(t *testing.T) {
	for _, mode := range []Mode{ModeFFT, ModeSpatial} {
		const w, h = 32, 32
		f, err := NewWithMode(w, h, 1.9, mode)
		require.NoError(t, err)

		empty := make([]uint8, w*h)
		base := f.Blur(empty)[(h-1)*w+(w-1)]

		bitmap := make([]uint8, w*h)
		bitmap[0] = 1
		energy := f.Blur(bitmap)
		corner := energy[(h-1)*w+(w-1)]
		require.Greater(t, corner, base+1e-3, "mode %v", mode)

		// The diagonal neighbour across the wrap sees the same energy as the
		// direct diagonal neighbour.
		require.InDelta(t, energy[1*w+1], corner, 1e-9, "mode %v", mode)
	}
}

func TestUniformFieldIsPreserved(t *testing.T) {
	for _, mode := range []Mode{ModeFFT, ModeSpatial} {
		f, err := NewWithMode(16, 16, 2.5, mode)
		require.NoError(t, err)
		ones := make([]uint8, 256)
		for i := range ones {
			ones[i] = 1
		}
		for i, v := range f.Blur(ones) {
			require.InDelta(t, 1.0, v, 1e-9, "mode %v cell %d", mode, i)
		}
	}
}

func TestBlurFloatMatchesBlur(t *testing.T) {
	for _, size := range [][2]int{{16, 16}, {12, 10}} {
		f, err := New(size[0], size[1], 1.2)
		require.NoError(t, err)
		bitmap := randomBitmap(size[0], size[1], 0.3, 5)
		src := make([]float64, len(bitmap))
		for i, b := range bitmap {
			src[i] = float64(b)
		}
		require.InDeltaSlice(t, f.Blur(bitmap), f.BlurFloat(src), 1e-12)
	}
}

func TestModeString(t *testing.T) {
	require.Equal(t, "fft", ModeFFT.String())
	require.Equal(t, "spatial", ModeSpatial.String())
	require.Equal(t, "auto", ModeAuto.String())
	require.Equal(t, "Mode(9)", Mode(9).String())
}
