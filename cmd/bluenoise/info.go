package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"bluenoise/internal/imageio"
	"bluenoise/internal/store"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print the dimensions of the threshold map and input images",
		ArgsUsage: "[image...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "noise", Aliases: []string{"n"}, Value: "./noise.png", Usage: "threshold map (.png or .bnr)"},
		},
		Action: runInfo,
	}
}

func runInfo(c *cli.Context) error {
	w := c.App.Writer
	noise := c.String("noise")
	if strings.EqualFold(filepath.Ext(noise), ".bnr") {
		f, err := store.Load(noise)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "noise  %s  %dx%d  sigma=%g density=%g seed=%d\n", noise, f.Width, f.Height, f.Sigma, f.Density, f.Seed)
	} else {
		width, height, err := imageio.Dimensions(noise)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "noise  %s  %dx%d\n", noise, width, height)
	}

	for _, input := range c.Args().Slice() {
		width, height, err := imageio.Dimensions(input)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "input  %s  %dx%d\n", input, width, height)
	}
	return nil
}
