package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/trazo/pkg/canvas"
	"github.com/chazu/trazo/pkg/config"
	"github.com/chazu/trazo/pkg/engine"
	"github.com/chazu/trazo/pkg/geom"
	"github.com/chazu/trazo/pkg/sketch"
)

// errScript is returned when a script fails to evaluate. The individual
// errors have already been printed.
var errScript = errors.New("script failed")

// cli carries the settings shared by every subcommand.
type cli struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "trazo",
		Short: "Sketch scripts: planar graphs, faces and extrusions",
		Long: `trazo replays Lisp sketch scripts into a planar graph of points and
edges, detecting the closed faces they form.

Examples:
  trazo eval examples/house.lisp
  trazo render examples/house.lisp -o house.png
  trazo extrude examples/rooms.lisp --height 30
  trazo watch examples/house.lisp -o house.svg`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default "+config.DefaultPath+")")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log_level (debug, info, warn, error)")

	root.AddCommand(
		newEvalCmd(c),
		newRenderCmd(c),
		newExtrudeCmd(c),
		newWatchCmd(c),
		newConfigCmd(c),
	)
	return root
}

// setup loads the config and installs the logger.
func (c *cli) setup(stderr io.Writer) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	c.cfg = cfg
	sketch.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func (c *cli) engine() *engine.Engine {
	return engine.NewEngine(
		engine.WithTimeout(c.cfg.EvalTimeout),
		engine.WithSnapRadius(c.cfg.SnapRadius),
	)
}

func (c *cli) canvasOptions() canvas.Options {
	return canvas.Options{
		Width:      c.cfg.Canvas.Width,
		Height:     c.cfg.Canvas.Height,
		Background: c.cfg.Canvas.Background,
	}
}

// runScript evaluates the script at path. Script errors and warnings are
// written to stderr.
func (c *cli) runScript(path string, stderr io.Writer) (sketch.State, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return sketch.State{}, fmt.Errorf("read script: %w", err)
	}

	res := c.engine().Run(string(src))
	if res.Fatal != nil {
		return sketch.State{}, fmt.Errorf("%s: %w", path, res.Fatal)
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			fmt.Fprintf(stderr, "%s: %s\n", path, e.Error())
		}
		return sketch.State{}, errScript
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(stderr, "%s: warning: %s\n", path, w.Message)
	}
	return *res.State, nil
}

// scene resolves a sketch for output, without cursor decorations.
func (c *cli) scene(s sketch.State) sketch.Scene {
	return sketch.BuildScene(s, geom.Coord{}, sketch.SceneOptions{
		Palette: c.cfg.Palette,
		Plain:   true,
	})
}

// outputFormat picks png or svg from an explicit format or the file name.
func outputFormat(format, path string) (string, error) {
	if format == "" {
		switch {
		case strings.HasSuffix(strings.ToLower(path), ".svg"):
			format = "svg"
		default:
			format = "png"
		}
	}
	switch format {
	case "png", "svg":
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q (want png or svg)", format)
}
