// Package geom implements the snapping geometry for trazo: Euclidean and
// point-to-line distances, the point and edge snapping tests, and the
// perpendicular projection that places a new point on an existing edge.
//
// All functions are pure over snapshots of the caller's points and edges.
// Geometry that cannot be resolved (a missing endpoint, a zero-length edge)
// degenerates to "no snap" and never produces NaN or infinite coordinates.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/trazo/pkg/graph"
)

// DefaultSnapRadius is the snapping distance in device units.
const DefaultSnapRadius = 10.0

// Coord is a position on the canvas.
type Coord = r2.Vec

// At returns the coordinates of a point.
func At(p graph.Point) Coord {
	return Coord{X: p.X, Y: p.Y}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Coord) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// DistancePointToLine returns the distance from p to the infinite line
// through a and b, using the implicit form A·x + B·y + C = 0. When a and b
// coincide the line is undefined and the distance to a is returned.
func DistancePointToLine(p, a, b Coord) float64 {
	A := b.Y - a.Y
	B := a.X - b.X
	C := b.X*a.Y - b.Y*a.X

	den := math.Sqrt(A*A + B*B)
	if den == 0 {
		return Distance(p, a)
	}
	return math.Abs(A*p.X+B*p.Y+C) / den
}

// withinBox reports whether p lies in the axis-aligned box spanned by a and
// b, borders included.
func withinBox(p, a, b Coord) bool {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}

// endpoints resolves an edge to its two points. It reports false if either
// id is absent, which happens for edges that reference a deleted or not yet
// created point.
func endpoints(e graph.Edge, points []graph.Point) (from, to graph.Point, ok bool) {
	from, okA := graph.FindPoint(points, e.From)
	to, okB := graph.FindPoint(points, e.To)
	return from, to, okA && okB
}

// Project returns the foot of the perpendicular from p onto the line through
// a and b. Vertical and horizontal lines are projected onto the respective
// axis directly; the slope form is used otherwise. It reports false when a
// and b coincide.
func Project(p, a, b Coord) (Coord, bool) {
	switch {
	case a.X == b.X && a.Y == b.Y:
		return Coord{}, false
	case a.X == b.X:
		return Coord{X: a.X, Y: p.Y}, true
	case a.Y == b.Y:
		return Coord{X: p.X, Y: a.Y}, true
	}

	// Edge line y = m·x + k, perpendicular through p y = n·x + c.
	m := (b.Y - a.Y) / (b.X - a.X)
	k := a.Y - m*a.X
	n := -1 / m
	c := p.Y - n*p.X

	x := (c - k) / (m - n)
	y := m*x + k
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return Coord{}, false
	}
	return Coord{X: x, Y: y}, true
}
