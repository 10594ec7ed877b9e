package main

import (
	"fmt"
	"image"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"bluenoise/internal/core"
	"bluenoise/internal/dithers"
	"bluenoise/internal/imageio"
	"bluenoise/internal/store"
	"bluenoise/pkg/bluenoise"
)

func ditherCommand() *cli.Command {
	return &cli.Command{
		Name:      "dither",
		Usage:     "dither one or more images with a threshold map",
		ArgsUsage: "<image> [image...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "output", Usage: "output directory"},
			&cli.StringFlag{Name: "noise", Aliases: []string{"n"}, Value: "./noise.png", Usage: "threshold map (.png or .bnr)"},
			&cli.StringFlag{Name: "foreground", Aliases: []string{"f"}, Value: "#000000", Usage: "colour for dark pixels"},
			&cli.StringFlag{Name: "background", Aliases: []string{"b"}, Value: "#ffffff", Usage: "colour for light pixels"},
			&cli.IntFlag{Name: "width", Usage: "resize width; height follows the aspect ratio when unset"},
			&cli.IntFlag{Name: "height", Usage: "resize height; width follows the aspect ratio when unset"},
			&cli.Float64Flag{Name: "contrast", Value: 1, Usage: "contrast factor, 1 leaves the image unchanged"},
			&cli.IntFlag{Name: "levels", Value: bluenoise.DefaultLevels, Usage: "output levels per channel"},
			&cli.StringFlag{
				Name:  "method",
				Value: dithers.Default,
				Usage: "dither method: " + strings.Join(core.DithererNames(), ", "),
			},
			&cli.BoolFlag{Name: "color", Usage: "dither each colour channel instead of mapping to foreground/background"},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Value: runtime.NumCPU(), Usage: "images processed in parallel"},
		},
		Action: runDither,
	}
}

type ditherJob struct {
	method   string
	opts     core.Options
	adjust   imageio.Adjust
	fg, bg   string
	color    bool
	outDir   string
	noiseMap bluenoise.Result
}

func runDither(c *cli.Context) error {
	inputs := c.Args().Slice()
	if len(inputs) == 0 {
		return cli.Exit("at least one input image is required", 1)
	}

	job := ditherJob{
		method: c.String("method"),
		opts:   core.Options{Levels: c.Int("levels")},
		adjust: imageio.Adjust{
			Width:    c.Int("width"),
			Height:   c.Int("height"),
			Contrast: c.Float64("contrast"),
		},
		fg:     c.String("foreground"),
		bg:     c.String("background"),
		color:  c.Bool("color"),
		outDir: c.String("output"),
	}
	if job.color && job.method != dithers.Default {
		return cli.Exit("--color is only supported with the bluenoise method", 1)
	}
	if job.method == dithers.Default {
		m, err := loadNoise(c.String("noise"))
		if err != nil {
			return err
		}
		job.noiseMap = m
		job.opts.Map = m
	}
	// Fail on a bad method or colour before any work starts.
	if _, err := dithers.New(job.method, job.opts); err != nil {
		return err
	}
	if _, err := imageio.ParseHexColor(job.fg); err != nil {
		return err
	}
	if _, err := imageio.ParseHexColor(job.bg); err != nil {
		return err
	}

	outputs := make([]string, len(inputs))
	eg := new(errgroup.Group)
	eg.SetLimit(max(1, c.Int("jobs")))
	for i, input := range inputs {
		eg.Go(func() error {
			out, err := job.run(input)
			if err != nil {
				logger.Error("dither failed", "input", input, "error", err)
				return fmt.Errorf("%s: %w", input, err)
			}
			logger.Info("dithered", "input", input, "file", out, "method", job.method)
			outputs[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	for _, out := range outputs {
		fmt.Fprintln(c.App.Writer, out)
	}
	return nil
}

// loadNoise reads a threshold map image or a rank file.
func loadNoise(path string) (bluenoise.Result, error) {
	if strings.EqualFold(filepath.Ext(path), ".bnr") {
		f, err := store.Load(path)
		if err != nil {
			return bluenoise.Result{}, err
		}
		return f.Threshold(256)
	}
	return imageio.LoadThresholdMap(path)
}

func (j ditherJob) run(input string) (string, error) {
	src, err := imageio.Open(input)
	if err != nil {
		return "", err
	}
	src = imageio.Prepare(src, j.adjust)

	var out image.Image
	if j.color {
		out, err = bluenoise.DitherChannels(src, j.noiseMap, j.opts.Levels)
		if err != nil {
			return "", err
		}
	} else {
		d, err := dithers.New(j.method, j.opts)
		if err != nil {
			return "", err
		}
		fg, _ := imageio.ParseHexColor(j.fg)
		bg, _ := imageio.ParseHexColor(j.bg)
		out = imageio.Colorize(d.Dither(imageio.ToGray(src)), fg, bg)
	}

	path := imageio.DitheredName(j.outDir, input)
	return path, imageio.Save(path, out)
}
