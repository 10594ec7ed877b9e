package core

import (
	"math/rand/v2"
	"time"
)

// Mulberry32 is a 32-bit state generator whose output only depends on the
// seed. All arithmetic wraps at 32 bits so a given seed yields the same
// stream on every platform.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 seeds the generator with the low 32 bits of seed.
func NewMulberry32(seed int64) *Mulberry32 {
	return &Mulberry32{state: uint32(seed)}
}

// Next32 advances the state and returns the mixed 32-bit output.
func (m *Mulberry32) Next32() uint32 {
	m.state += 0x6D2B79F5
	s := m.state
	t := (s ^ s>>15) * (1 | s)
	t = (t + (t^t>>7)*(61|t)) ^ t
	return t ^ t>>14
}

// Next returns a float in [0, 1) built from the top 32 bits of output.
func (m *Mulberry32) Next() float64 {
	return float64(m.Next32()) / 4294967296
}

// Uint64 implements rand.Source by joining two consecutive outputs.
func (m *Mulberry32) Uint64() uint64 {
	hi := uint64(m.Next32())
	return hi<<32 | uint64(m.Next32())
}

// RNG is a thin convenience wrapper for deterministic seeding.
type RNG struct {
	src *Mulberry32
	r   *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	src := NewMulberry32(seed)
	return &RNG{src: src, r: rand.New(src)}
}

// NewClockRNG seeds from the wall clock, for callers that did not ask for
// reproducible output.
func NewClockRNG() *RNG {
	return NewRNG(time.Now().UnixMilli())
}

// Float returns the next value of the mulberry32 stream in [0, 1).
func (r *RNG) Float() float64 { return r.src.Next() }

// IntN returns a uniform index in [0, n) derived from Float, the same way
// the generator picks cells.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.src.Next() * float64(n))
}

// Source exposes a rand.Rand backed by the same stream for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
