package store

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"bluenoise/pkg/bluenoise"
)

func generated(t *testing.T, w, h int, seed int64) (*RankFile, bluenoise.Result) {
	t.Helper()
	cfg := bluenoise.Config{Width: w, Height: h, Seed: bluenoise.Seed(seed)}
	g, err := bluenoise.New(cfg)
	require.NoError(t, err)
	res, err := g.Generate()
	require.NoError(t, err)
	return &RankFile{
		Width:   w,
		Height:  h,
		Sigma:   bluenoise.DefaultSigma,
		Density: bluenoise.DefaultInitialDensity,
		Seed:    seed,
		Ranks:   g.Ranks(),
	}, res
}

func TestSaveLoadRoundTrip(t *testing.T) {
	f, _ := generated(t, 16, 8, 42)
	path := filepath.Join(t.TempDir(), "map.bnr")
	require.NoError(t, Save(path, f))

	got, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestThresholdMatchesGenerator(t *testing.T) {
	f, res := generated(t, 16, 16, 7)
	got, err := f.Threshold(256)
	require.NoError(t, err)
	require.Equal(t, res, got)

	two, err := f.Threshold(2)
	require.NoError(t, err)
	ones := 0
	for _, v := range two.Data {
		require.LessOrEqual(t, v, byte(1))
		ones += int(v)
	}
	require.Equal(t, 128, ones)

	_, err = f.Threshold(1)
	require.Error(t, err)
	_, err = f.Threshold(257)
	require.Error(t, err)
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("PNG\x00rest")))
	require.ErrorIs(t, err, ErrBadMagic)
	_, err = Decode(bytes.NewReader([]byte("BN")))
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeTruncated(t *testing.T) {
	f := &RankFile{Width: 2, Height: 2, Sigma: 1, Density: 0.1, Ranks: []int32{3, 1, 0, 2}}
	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))

	_, err := Decode(bytes.NewReader(buf.Bytes()[:buf.Len()-6]))
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestDecodeHugeHeaderWithoutRanks(t *testing.T) {
	// A header claiming a 46340x46340 map followed by no ranks at all.
	var header [headerLen]byte
	binary.LittleEndian.PutUint32(header[0:], 46340)
	binary.LittleEndian.PutUint32(header[4:], 46340)

	var buf bytes.Buffer
	buf.Write(magic[:])
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write(header[:])
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.Less(t, buf.Len(), 128)

	_, err = Decode(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestDecodeSpansChunks(t *testing.T) {
	const w, h = 300, 300
	ranks := make([]int32, w*h)
	for i := range ranks {
		ranks[i] = int32(len(ranks) - 1 - i)
	}
	f := &RankFile{Width: w, Height: h, Sigma: 1.9, Density: 0.1, Seed: 3, Ranks: ranks}
	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))

	got, err := Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(f, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeRejectsNonPermutation(t *testing.T) {
	for _, ranks := range [][]int32{
		{0, 1, 1, 2},
		{0, 1, 2, 4},
		{0, 1, 2},
		{-1, 0, 1, 2},
	} {
		f := &RankFile{Width: 2, Height: 2, Ranks: ranks}
		require.ErrorIs(t, f.Encode(&bytes.Buffer{}), ErrCorrupt, "%v", ranks)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.bnr"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
