package canvas

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/samber/lo"

	"github.com/chazu/trazo/pkg/geom"
	"github.com/chazu/trazo/pkg/sketch"
)

func px(v float64) int {
	return int(math.Round(v))
}

// RenderSVG writes the scene to w as an SVG document. Coordinates are
// rounded to whole pixels.
func RenderSVG(w io.Writer, scene sketch.Scene, opts Options) error {
	if err := opts.check(); err != nil {
		return err
	}

	doc := svg.New(w)
	doc.Start(opts.Width, opts.Height)
	doc.Rect(0, 0, opts.Width, opts.Height, "fill:"+opts.background())

	doc.Gid("faces")
	for _, f := range scene.Faces {
		if len(f.Vertices) < 3 {
			continue
		}
		xs := lo.Map(f.Vertices, func(v geom.Coord, _ int) int { return px(v.X) })
		ys := lo.Map(f.Vertices, func(v geom.Coord, _ int) int { return px(v.Y) })
		doc.Polygon(xs, ys, "fill:"+f.Color, fmt.Sprintf(`data-face="%d"`, f.Face))
	}
	doc.Gend()

	doc.Gid("edges")
	for _, e := range scene.Edges {
		doc.Line(px(e.X1), px(e.Y1), px(e.X2), px(e.Y2), "stroke:"+e.Color+";stroke-width:1")
	}
	doc.Gend()

	doc.Gid("points")
	for _, p := range scene.Points {
		doc.Rect(px(p.X)-PointSize/2, px(p.Y)-PointSize/2, PointSize, PointSize, "fill:"+p.Color)
	}
	doc.Gend()

	doc.End()
	sketch.Logger().Info("canvas: rendered svg",
		"faces", len(scene.Faces), "edges", len(scene.Edges), "points", len(scene.Points))
	return nil
}
