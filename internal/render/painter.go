//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// MapPainter uploads a threshold map into a single RGBA image.
type MapPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewMapPainter allocates a painter for a map of size w*h.
func NewMapPainter(w, h int) *MapPainter {
	p := &MapPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	p.img = ebiten.NewImage(w, h)
	return p
}

// BlitLevel draws the cells lit at level using on and off colours.
func (p *MapPainter) BlitLevel(dst *ebiten.Image, thresholds []uint8, level int, on, off color.Color, scale int) {
	if len(thresholds) != p.w*p.h {
		return
	}
	fillThresholdRGBA(p.buf, thresholds, level, on, off)
	p.draw(dst, scale)
}

// BlitGray draws the thresholds themselves as a grayscale image.
func (p *MapPainter) BlitGray(dst *ebiten.Image, thresholds []uint8, scale int) {
	if len(thresholds) != p.w*p.h {
		return
	}
	fillGrayRGBA(p.buf, thresholds)
	p.draw(dst, scale)
}

func (p *MapPainter) draw(dst *ebiten.Image, scale int) {
	p.img.WritePixels(p.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(p.img, op)
}

// Size returns the dimensions of the underlying image.
func (p *MapPainter) Size() (int, int) { return p.w, p.h }
