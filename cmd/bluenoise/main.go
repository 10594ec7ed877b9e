// Command bluenoise generates blue-noise threshold maps and uses them to
// dither images.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"bluenoise/internal/logging"
)

var logger = logging.Discard()

func newApp() *cli.App {
	return &cli.App{
		Name:  "bluenoise",
		Usage: "generate void-and-cluster threshold maps and dither images with them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"BLUENOISE_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "emit logs as JSON",
			},
		},
		Before: func(c *cli.Context) error {
			logger = logging.New(logging.ParseLevel(c.String("log-level")), c.Bool("log-json"))
			return nil
		},
		Commands: []*cli.Command{
			generateCommand(),
			ditherCommand(),
			infoCommand(),
			sweepCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "bluenoise:", err)
		os.Exit(1)
	}
}
