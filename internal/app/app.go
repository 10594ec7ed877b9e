//go:build ebiten

package app

import (
	"image/color"

	"bluenoise/internal/core"
	"bluenoise/internal/render"
	"bluenoise/internal/ui"
	"bluenoise/pkg/bluenoise"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 220

// Game animates a threshold sweep over a map as an ebiten.Game.
type Game struct {
	m       bluenoise.Result
	painter *render.MapPainter
	hud     *ui.HUD
	sweep   *core.LevelSweep

	onColor  color.Color
	offColor color.Color

	scale   int
	paused  bool
	showMap bool
}

// New constructs a Game for the provided map.
func New(m bluenoise.Result, params core.ParameterSnapshot, cfg *Config) *Game {
	return &Game{
		m:        m,
		painter:  render.NewMapPainter(m.Width, m.Height),
		hud:      ui.NewHUD(params, hudWidth),
		sweep:    core.NewLevelSweep(cfg.Rate),
		onColor:  color.White,
		offColor: color.Black,
		scale:    cfg.Scale,
	}
}

// Update handles per-frame input and advances the sweep.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sweep.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.showMap = !g.showMap
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.sweep.Step()
	}

	if !g.paused {
		g.sweep.Tick()
	}
	g.hud.Update(g.sweep.Level(), render.Lit(g.m.Data, g.sweep.Level()), len(g.m.Data), g.paused)
	return nil
}

// Draw renders the map and the HUD panel.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.showMap {
		g.painter.BlitGray(screen, g.m.Data, g.scale)
	} else {
		g.painter.BlitLevel(screen, g.m.Data, g.sweep.Level(), g.onColor, g.offColor, g.scale)
	}
	g.hud.Draw(screen, g.m.Width*g.scale, g.m.Height*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.m.Width*g.scale + hudWidth, g.m.Height * g.scale
}
