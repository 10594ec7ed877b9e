// Package store persists the full rank array of a generated map so it can be
// re-quantised to any number of levels later.
//
// File layout: the magic "BNR1" followed by a zstd stream holding, in
// little-endian order, uint32 width, uint32 height, float64 sigma, float64
// initial density, int64 seed and width*height uint32 ranks.
package store

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"

	"bluenoise/pkg/bluenoise"
)

var (
	// ErrBadMagic is returned when a file does not start with the rank file
	// magic.
	ErrBadMagic = errors.New("not a rank file")
	// ErrCorrupt is returned when the payload is truncated or the ranks are
	// not a permutation of [0, area).
	ErrCorrupt = errors.New("corrupt rank file")
)

var magic = [4]byte{'B', 'N', 'R', '1'}

const headerLen = 4 + 4 + 8 + 8 + 8

// chunkCells bounds how many ranks Decode reads per step, so the header's
// claimed size is only backed by memory as ranks actually arrive.
const chunkCells = 1 << 16

// RankFile is a generated rank array together with the parameters that
// produced it.
type RankFile struct {
	Width   int
	Height  int
	Sigma   float64
	Density float64
	Seed    int64
	Ranks   []int32
}

// Validate checks the dimensions and that Ranks is a bijection onto
// [0, Width*Height).
func (f *RankFile) Validate() error {
	if f.Width <= 0 || f.Height <= 0 || int64(f.Width)*int64(f.Height) > math.MaxInt32 {
		return fmt.Errorf("%w: size %dx%d", ErrCorrupt, f.Width, f.Height)
	}
	area := f.Width * f.Height
	if len(f.Ranks) != area {
		return fmt.Errorf("%w: %d ranks for %dx%d", ErrCorrupt, len(f.Ranks), f.Width, f.Height)
	}
	seen := make([]bool, area)
	for i, r := range f.Ranks {
		if r < 0 || int(r) >= area || seen[r] {
			return fmt.Errorf("%w: rank %d at cell %d", ErrCorrupt, r, i)
		}
		seen[r] = true
	}
	return nil
}

// Threshold quantises the ranks to levels values, rank*levels/area. With 256
// levels this reproduces the generator's threshold map.
func (f *RankFile) Threshold(levels int) (bluenoise.Result, error) {
	if levels < 2 || levels > 256 {
		return bluenoise.Result{}, fmt.Errorf("levels must be in [2, 256], got %d", levels)
	}
	area := int64(len(f.Ranks))
	out := make([]byte, len(f.Ranks))
	for i, r := range f.Ranks {
		out[i] = byte(int64(r) * int64(levels) / area)
	}
	return bluenoise.Result{Data: out, Width: f.Width, Height: f.Height}, nil
}

// Encode writes f to w.
func (f *RankFile) Encode(w io.Writer) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}

	var header [headerLen]byte
	binary.LittleEndian.PutUint32(header[0:], uint32(f.Width))
	binary.LittleEndian.PutUint32(header[4:], uint32(f.Height))
	binary.LittleEndian.PutUint64(header[8:], math.Float64bits(f.Sigma))
	binary.LittleEndian.PutUint64(header[16:], math.Float64bits(f.Density))
	binary.LittleEndian.PutUint64(header[24:], uint64(f.Seed))

	body := make([]byte, 0, headerLen+4*len(f.Ranks))
	body = append(body, header[:]...)
	for _, r := range f.Ranks {
		body = binary.LittleEndian.AppendUint32(body, uint32(r))
	}
	if _, err := enc.Write(body); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Decode reads a rank file from r and validates it.
func Decode(r io.Reader) (*RankFile, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if m != magic {
		return nil, ErrBadMagic
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer dec.Close()

	var header [headerLen]byte
	if _, err := io.ReadFull(dec, header[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	f := &RankFile{
		Width:   int(binary.LittleEndian.Uint32(header[0:])),
		Height:  int(binary.LittleEndian.Uint32(header[4:])),
		Sigma:   math.Float64frombits(binary.LittleEndian.Uint64(header[8:])),
		Density: math.Float64frombits(binary.LittleEndian.Uint64(header[16:])),
		Seed:    int64(binary.LittleEndian.Uint64(header[24:])),
	}
	if f.Width <= 0 || f.Height <= 0 || int64(f.Width)*int64(f.Height) > math.MaxInt32 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrCorrupt, f.Width, f.Height)
	}

	area := f.Width * f.Height
	f.Ranks = make([]int32, 0, min(area, chunkCells))
	raw := make([]byte, 4*min(area, chunkCells))
	for len(f.Ranks) < area {
		n := min(area-len(f.Ranks), chunkCells)
		chunk := raw[:4*n]
		if _, err := io.ReadFull(dec, chunk); err != nil {
			return nil, fmt.Errorf("%w: ranks: %v", ErrCorrupt, err)
		}
		for i := 0; i < n; i++ {
			f.Ranks = append(f.Ranks, int32(binary.LittleEndian.Uint32(chunk[4*i:])))
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Save writes f to path.
func Save(path string, f *RankFile) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(file)
	if err := f.Encode(w); err != nil {
		return err
	}
	return w.Flush()
}

// Load reads the rank file at path.
func Load(path string) (*RankFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Decode(bufio.NewReader(file))
}
