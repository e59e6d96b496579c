package sketch

import (
	"fmt"
	"slices"

	"github.com/chazu/trazo/pkg/geom"
	"github.com/chazu/trazo/pkg/graph"
)

// indexMin is the number of points from which anchor resolution goes through
// a spatial index instead of scanning every point and edge.
const indexMin = 64

// Reducer applies actions using a configured snap radius.
type Reducer struct {
	Snapper geom.Snapper
}

// NewReducer returns a Reducer snapping at radius. A non-positive radius
// selects geom.DefaultSnapRadius.
func NewReducer(radius float64) Reducer {
	return Reducer{Snapper: geom.NewSnapper(radius)}
}

// Apply applies a with the default snap radius.
func Apply(s State, a Action) (State, error) {
	return Reducer{}.Apply(s, a)
}

// Apply returns the state that follows s after a. On error s is returned
// unchanged.
func (r Reducer) Apply(s State, a Action) (State, error) {
	switch a := a.(type) {
	case Click:
		return r.click(s, a.At)
	case SetTool:
		if a.Tool < ToolRectangle || a.Tool > ToolMove {
			return s, fmt.Errorf("%w: %d", ErrUnknownTool, int(a.Tool))
		}
		next := s.Clone()
		next.Tool = a.Tool
		next.Current = nil
		return next, nil
	case Pan:
		next := s.Clone()
		next.Offset = geom.Coord{X: s.Offset.X + a.By.X, Y: s.Offset.Y + a.By.Y}
		return next, nil
	case SplitEdge:
		return r.split(s, a)
	case Reset:
		return State{Tool: s.Tool, Offset: s.Offset, LastID: s.LastID}, nil
	default:
		return s, fmt.Errorf("sketch: unsupported action %T", a)
	}
}

func (r Reducer) click(s State, at geom.Coord) (State, error) {
	if s.Tool == ToolMove {
		return s, nil
	}

	next := s.Clone()
	ids := graph.NewCounter(next.LastID)

	anchor, err := r.anchor(&next, next.ToWorld(at), ids)
	if err != nil {
		return s, err
	}

	if next.Current == nil {
		next.Current = &anchor
		next.LastID = ids.Last()
		return next, nil
	}

	from := *next.Current
	next.Current = nil

	switch {
	case from.ID == anchor.ID:
		Logger().Debug("second click on the anchor, nothing drawn", "point", anchor.ID)
	case next.Tool == ToolLine:
		next.drawLine(from, anchor, ids)
	case next.Tool == ToolRectangle:
		if from.X == anchor.X || from.Y == anchor.Y {
			Logger().Debug("degenerate rectangle, nothing drawn", "from", from.ID, "to", anchor.ID)
			break
		}
		next.drawRectangle(from, anchor, ids)
	}

	next.LastID = ids.Last()
	return next, nil
}

// anchor resolves a world position against s, adding the resolved point and
// splitting the snapped edge as needed.
func (r Reducer) anchor(s *State, at geom.Coord, ids graph.IDGenerator) (graph.Point, error) {
	var ix *geom.Index
	if len(s.Points) >= indexMin {
		ix = geom.NewIndex(s.Points, s.Edges, r.Snapper.Radius)
	}

	res := r.Snapper.Resolve(at, s.Points, s.Edges, ix, ids)
	Logger().Debug("anchor resolved", "kind", res.Kind, "point", res.Point.ID)

	switch res.Kind {
	case geom.SnapPoint:
	case geom.SnapEdge:
		s.Points = append(s.Points, res.Point)
		if err := s.splitEdge(res.Edge, res.Point.ID); err != nil {
			return graph.Point{}, err
		}
	default:
		s.Points = append(s.Points, res.Point)
	}
	return res.Point, nil
}

func (r Reducer) split(s State, a SplitEdge) (State, error) {
	if graph.IndexOfEdge(s.Edges, a.Edge) < 0 {
		return s, fmt.Errorf("split %s: %w", a.Edge, graph.ErrEdgeNotFound)
	}

	next := s.Clone()
	ids := graph.NewCounter(next.LastID)
	p, ok := geom.SnappingPointToEdge(next.ToWorld(a.At), a.Edge, next.Points, ids)
	if !ok {
		return s, nil
	}

	next.Points = append(next.Points, p)
	if err := next.splitEdge(a.Edge, p.ID); err != nil {
		return s, err
	}
	next.LastID = ids.Last()
	return next, nil
}

// splitEdge replaces e with two edges through p. Stored faces that use e are
// rewritten to go through p as well.
func (s *State) splitEdge(e graph.Edge, p graph.PointID) error {
	edges, err := graph.SplitEdge(s.Edges, e, p)
	if err != nil {
		return err
	}
	s.Edges = edges

	halves := []graph.Edge{{From: e.From, To: p}, {From: p, To: e.To}}
	for i, f := range s.Faces {
		if j := graph.IndexOfEdge(f.Edges, e); j >= 0 {
			s.Faces[i].Edges = slices.Replace(f.Edges, j, j+1, halves...)
		}
	}
	return nil
}

func (s *State) drawLine(from, to graph.Point, ids graph.IDGenerator) {
	e := graph.Edge{From: from.ID, To: to.ID}
	s.Edges = append(s.Edges, e)
	s.detectFaces(ids, e)
}

// drawRectangle closes the rectangle with opposite corners a and c. The two
// remaining corners are always new points.
//
//	D ---- C
//	|      |
//	A ---- B
func (s *State) drawRectangle(a, c graph.Point, ids graph.IDGenerator) {
	b := graph.Point{ID: ids.NextID(), X: c.X, Y: a.Y}
	d := graph.Point{ID: ids.NextID(), X: a.X, Y: c.Y}
	s.Points = append(s.Points, b, d)

	outline := graph.Path{
		{From: a.ID, To: b.ID},
		{From: b.ID, To: c.ID},
		{From: c.ID, To: d.ID},
		{From: d.ID, To: a.ID},
	}
	s.Edges = append(s.Edges, outline...)
	s.addFace(outline, ids)
	s.detectFaces(ids, outline...)
}

// detectFaces runs face detection from each start edge over the current
// edges and stores the smallest face found for each.
func (s *State) detectFaces(ids graph.IDGenerator, starts ...graph.Edge) {
	for _, start := range starts {
		faces := graph.GetFaces(s.Edges, start)
		smallest, ok := graph.SmallestFace(faces)
		Logger().Debug("face search", "start", start.String(), "faces", len(faces))
		if !ok {
			continue
		}
		s.addFace(smallest, ids)
	}
}

func (s *State) addFace(p graph.Path, ids graph.IDGenerator) {
	if s.HasFace(p) {
		return
	}
	s.Faces = append(s.Faces, Face{ID: FaceID(ids.NextID()), Edges: slices.Clone(p)})
}
