//go:build ebiten

// Command preview animates a threshold sweep over a blue-noise map.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"bluenoise/internal/app"
	"bluenoise/internal/logging"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	log := logging.New(logging.ParseLevel(os.Getenv("BLUENOISE_LOG_LEVEL")), false)
	m, params, err := cfg.Load()
	if err != nil {
		log.Error("load map", "error", err)
		os.Exit(1)
	}
	log.Info("map ready", "width", m.Width, "height", m.Height)

	game := app.New(m, params, cfg)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle(fmt.Sprintf("bluenoise %dx%d", m.Width, m.Height))
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("preview", "error", err)
		os.Exit(1)
	}
}
