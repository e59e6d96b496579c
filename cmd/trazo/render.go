package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/trazo/pkg/canvas"
)

type renderFlags struct {
	output string
	format string
	width  int
	height int
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (.png or .svg)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: png or svg (default from file name)")
	cmd.Flags().IntVar(&f.width, "width", 0, "override canvas.width")
	cmd.Flags().IntVar(&f.height, "height", 0, "override canvas.height")
	_ = cmd.MarkFlagRequired("output")
}

// render evaluates the script and writes the image.
func (c *cli) render(script string, f renderFlags, cmd *cobra.Command) error {
	format, err := outputFormat(f.format, f.output)
	if err != nil {
		return err
	}
	s, err := c.runScript(script, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts := c.canvasOptions()
	if f.width > 0 {
		opts.Width = f.width
	}
	if f.height > 0 {
		opts.Height = f.height
	}
	scene := c.scene(s)

	switch format {
	case "svg":
		out, err := os.Create(f.output)
		if err != nil {
			return err
		}
		if err := canvas.RenderSVG(out, scene, opts); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
	default:
		if err := canvas.RenderPNG(f.output, scene, opts); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d faces)\n", f.output, len(scene.Faces))
	return nil
}

func newRenderCmd(c *cli) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render SCRIPT",
		Short: "Render a script's sketch to PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.render(args[0], f, cmd)
		},
	}
	f.register(cmd)
	return cmd
}
