package sketch

import (
	"github.com/samber/lo"

	"github.com/chazu/trazo/pkg/geom"
	"github.com/chazu/trazo/pkg/graph"
)

// Colours used by Scene.
const (
	ColorPoint    = "#ffffff"
	ColorSnapping = "#ffff00"
	ColorCurrent  = "#00ff00"
	ColorEdgeSnap = "#ff0000"
	ColorEdge     = "#ffffff"
	ColorEdgeHit  = "#ffa500"
	ColorCursor   = ColorSnapping
	ColorPreview  = ColorSnapping
)

// DefaultPalette is the face fill palette used when none is configured.
var DefaultPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// ScenePoint is a point marker in screen coordinates.
type ScenePoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// SceneEdge is a line segment in screen coordinates.
type SceneEdge struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color string  `json:"color"`
}

// ScenePolygon is a filled face in screen coordinates.
type ScenePolygon struct {
	Face     FaceID       `json:"face"`
	Vertices []geom.Coord `json:"vertices"`
	Color    string       `json:"color"`
}

// Scene is fully resolved, coloured geometry, ready to draw back to front:
// faces, then edges, then points.
type Scene struct {
	Faces  []ScenePolygon `json:"faces"`
	Edges  []SceneEdge    `json:"edges"`
	Points []ScenePoint   `json:"points"`
}

// SceneOptions configures BuildScene.
type SceneOptions struct {
	Snapper geom.Snapper
	Palette []string
	// Plain draws the sketch alone: no cursor marker, snap highlights or
	// tool previews.
	Plain bool
}

// FaceColor picks a palette colour for a face id.
func FaceColor(id FaceID, palette []string) string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	i := int(id) % len(palette)
	if i < 0 {
		i += len(palette)
	}
	return palette[i]
}

// BuildScene resolves s into drawable geometry with the cursor at a screen
// position. Snap highlights and tool previews are computed the same way a
// click at the cursor would resolve, but nothing is added to s.
func BuildScene(s State, cursor geom.Coord, opts SceneOptions) Scene {
	snap := opts.Snapper
	live := !opts.Plain
	world := s.ToWorld(cursor)
	screen := func(c geom.Coord) geom.Coord { return s.ToScreen(c) }
	marker := func(c geom.Coord, color string) ScenePoint {
		p := screen(c)
		return ScenePoint{X: p.X, Y: p.Y, Color: color}
	}
	segment := func(a, b geom.Coord, color string) SceneEdge {
		pa, pb := screen(a), screen(b)
		return SceneEdge{X1: pa.X, Y1: pa.Y, X2: pb.X, Y2: pb.Y, Color: color}
	}

	var scene Scene

	for _, f := range s.Faces {
		outline := s.Outline(f)
		if len(outline) < 3 {
			Logger().Warn("face has unresolved vertices, skipped", "face", f.ID)
			continue
		}
		scene.Faces = append(scene.Faces, ScenePolygon{
			Face:     f.ID,
			Vertices: lo.Map(outline, func(p graph.Point, _ int) geom.Coord { return screen(geom.At(p)) }),
			Color:    FaceColor(f.ID, opts.Palette),
		})
	}

	for _, e := range s.Edges {
		from, okA := s.Point(e.From)
		to, okB := s.Point(e.To)
		if !okA || !okB {
			continue
		}
		color := ColorEdge
		if live && snap.PointSnapsEdge(world, e, s.Points) {
			color = ColorEdgeHit
		}
		scene.Edges = append(scene.Edges, segment(geom.At(from), geom.At(to), color))
	}

	pointHit, hasPointHit := lo.Find(s.Points, func(p graph.Point) bool {
		return live && snap.PointsSnap(world, geom.At(p))
	})

	var edgeFoot graph.Point
	hasEdgeFoot := false
	if hit := snap.SnappedEdges(world, s.Points, s.Edges); live && len(hit) > 0 {
		edgeFoot, hasEdgeFoot = geom.SnappingPointToEdge(world, hit[0], s.Points, graph.NewCounter(s.LastID))
	}

	// Line and rectangle previews.
	if live && s.Current != nil {
		a := geom.At(*s.Current)
		switch s.Tool {
		case ToolLine:
			target := world
			switch {
			case hasPointHit:
				target = geom.At(pointHit)
			case hasEdgeFoot:
				target = geom.At(edgeFoot)
			}
			scene.Edges = append(scene.Edges, segment(a, target, ColorEdge))
		case ToolRectangle:
			b := geom.Coord{X: world.X, Y: a.Y}
			d := geom.Coord{X: a.X, Y: world.Y}
			scene.Edges = append(scene.Edges,
				segment(a, b, ColorEdge),
				segment(b, world, ColorEdge),
				segment(world, d, ColorEdge),
				segment(d, a, ColorEdge),
			)
			scene.Points = append(scene.Points, marker(d, ColorPreview), marker(b, ColorPreview))
		}
	}

	for _, p := range s.Points {
		color := ColorPoint
		switch {
		case live && snap.PointsSnap(world, geom.At(p)):
			color = ColorSnapping
		case s.Current != nil && s.Current.ID == p.ID:
			color = ColorCurrent
		}
		scene.Points = append(scene.Points, marker(geom.At(p), color))
	}

	if live && !hasPointHit && !hasEdgeFoot {
		scene.Points = append(scene.Points, marker(world, ColorCursor))
	}
	if hasEdgeFoot {
		scene.Points = append(scene.Points, marker(geom.At(edgeFoot), ColorEdgeSnap))
	}

	return scene
}
