package canvas

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"

	"github.com/chazu/trazo/pkg/sketch"
)

// draw paints the scene onto a fresh gg context. The caller closes it.
func draw(scene sketch.Scene, opts Options) (*gg.Context, error) {
	if err := opts.check(); err != nil {
		return nil, err
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.ClearWithColor(gg.Hex(opts.background()))

	for _, f := range scene.Faces {
		if len(f.Vertices) < 3 {
			continue
		}
		dc.SetHexColor(f.Color)
		dc.MoveTo(f.Vertices[0].X, f.Vertices[0].Y)
		for _, v := range f.Vertices[1:] {
			dc.LineTo(v.X, v.Y)
		}
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("canvas: fill face %d: %w", f.Face, err)
		}
	}

	dc.SetLineWidth(1)
	for _, e := range scene.Edges {
		dc.SetHexColor(e.Color)
		dc.MoveTo(e.X1, e.Y1)
		dc.LineTo(e.X2, e.Y2)
		if err := dc.Stroke(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("canvas: stroke edge: %w", err)
		}
	}

	half := PointSize / 2.0
	for _, p := range scene.Points {
		dc.SetHexColor(p.Color)
		dc.DrawRectangle(p.X-half, p.Y-half, PointSize, PointSize)
		if err := dc.Fill(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("canvas: fill point: %w", err)
		}
	}

	return dc, nil
}

// EncodePNG renders the scene and writes it to w as PNG.
func EncodePNG(w io.Writer, scene sketch.Scene, opts Options) error {
	dc, err := draw(scene, opts)
	if err != nil {
		return err
	}
	defer dc.Close()

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("canvas: encode png: %w", err)
	}
	sketch.Logger().Info("canvas: rendered png",
		"faces", len(scene.Faces), "edges", len(scene.Edges), "points", len(scene.Points))
	return nil
}

// RenderPNG renders the scene to a PNG file at path.
func RenderPNG(path string, scene sketch.Scene, opts Options) error {
	dc, err := draw(scene, opts)
	if err != nil {
		return err
	}
	defer dc.Close()

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("canvas: save %s: %w", path, err)
	}
	sketch.Logger().Info("canvas: wrote png", "path", path)
	return nil
}
