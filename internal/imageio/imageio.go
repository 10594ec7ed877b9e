// Package imageio reads and writes threshold maps and the images they are
// applied to.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"bluenoise/pkg/bluenoise"
)

// SaveThresholdMap writes m as a single-channel 8-bit image. The format is
// taken from the file extension.
func SaveThresholdMap(path string, m bluenoise.Result) error {
	if err := m.Validate(); err != nil {
		return err
	}
	img := &image.Gray{
		Pix:    m.Data,
		Stride: m.Width,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
	return Save(path, img)
}

// LoadThresholdMap reads an image as a threshold map. Colour images are
// converted to grayscale.
func LoadThresholdMap(path string) (bluenoise.Result, error) {
	gray, err := LoadGray(path)
	if err != nil {
		return bluenoise.Result{}, err
	}
	b := gray.Bounds()
	return bluenoise.Result{Data: gray.Pix, Width: b.Dx(), Height: b.Dy()}, nil
}

// Open decodes any registered image format.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return img, nil
}

// Dimensions reads only the image header of path.
func Dimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// LoadGray decodes path and converts it to a zero-origin *image.Gray.
func LoadGray(path string) (*image.Gray, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	return ToGray(img), nil
}

// ToGray returns img as a zero-origin *image.Gray with a tight stride.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < b.Dy(); y++ {
			start := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:(y+1)*out.Stride], g.Pix[start:start+b.Dx()])
		}
		return out
	}
	// Grayscale leaves equal R, G and B channels.
	flat := imaging.Grayscale(img)
	for i := range out.Pix {
		out.Pix[i] = flat.Pix[i*4]
	}
	return out
}

// Save writes img to path, creating parent directories as needed.
func Save(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Adjust describes the resizing and contrast applied before dithering.
type Adjust struct {
	// Width and Height are the target size. When only one is set the other
	// follows the aspect ratio; zero for both keeps the source size.
	Width  int
	Height int
	// Contrast scales contrast; 1 leaves the image unchanged, 0 means 1.
	Contrast float64
}

// Prepare resizes and adjusts the contrast of img.
func Prepare(img image.Image, a Adjust) image.Image {
	if a.Width > 0 || a.Height > 0 {
		img = imaging.Resize(img, a.Width, a.Height, imaging.Lanczos)
	}
	if a.Contrast != 0 && a.Contrast != 1 {
		pct := math.Max(-100, math.Min(100, (a.Contrast-1)*100))
		img = imaging.AdjustContrast(img, pct)
	}
	return img
}

// Colorize maps a dithered grayscale image onto two colours: 0 becomes fg,
// 255 becomes bg and intermediate levels are blended linearly.
func Colorize(src *image.Gray, fg, bg color.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := float64(src.GrayAt(x, y).Y) / 255
			dst.SetNRGBA(x, y, color.NRGBA{
				R: lerp(fg.R, bg.R, t),
				G: lerp(fg.G, bg.G, t),
				B: lerp(fg.B, bg.B, t),
				A: lerp(fg.A, bg.A, t),
			})
		}
	}
	return dst
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// ParseHexColor parses #rgb, #rrggbb or #rrggbbaa. The leading # is optional.
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// DitheredName returns the output path for input inside dir:
// <base>-dithered.png.
func DitheredName(dir, input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+"-dithered.png")
}
