//go:build ebiten

package ui

import (
	"image/color"
	"strings"

	"bluenoise/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPadding = 10
	lineHeight   = 16
)

// HUD renders the parameter and sweep panel to the right of the map view.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot

	level  int
	lit    int
	total  int
	paused bool
}

// NewHUD constructs a HUD showing params in a panel of the given width.
func NewHUD(params core.ParameterSnapshot, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{width: width, snapshot: params}
}

// Update records the sweep state to display.
func (h *HUD) Update(level, lit, total int, paused bool) {
	if h == nil {
		return
	}
	h.level, h.lit, h.total, h.paused = level, lit, total, paused
}

// Draw paints the HUD panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + lineHeight
	for _, line := range panelLines(h.snapshot, h.level, h.lit, h.total, h.paused) {
		if strings.HasPrefix(line, "#") {
			text.Draw(h.panel, strings.TrimPrefix(line, "#"), face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
		} else if line != "" {
			text.Draw(h.panel, line, face, panelPadding, y, color.RGBA{R: 160, G: 160, B: 170, A: 255})
		}
		y += lineHeight
	}
	text.Draw(h.panel, keyHelp, face, panelPadding, height-panelPadding, color.RGBA{R: 110, G: 110, B: 120, A: 255})

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
