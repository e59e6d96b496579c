package geom

import (
	"github.com/chazu/trazo/pkg/graph"
)

// Snapper carries the snap radius. The zero value uses DefaultSnapRadius.
type Snapper struct {
	Radius float64
}

// NewSnapper returns a Snapper for the given radius. A non-positive radius
// selects DefaultSnapRadius.
func NewSnapper(radius float64) Snapper {
	if radius <= 0 {
		radius = DefaultSnapRadius
	}
	return Snapper{Radius: radius}
}

func (s Snapper) radius() float64 {
	if s.Radius <= 0 {
		return DefaultSnapRadius
	}
	return s.Radius
}

// PointsSnap reports whether p and q are closer than the snap radius.
func (s Snapper) PointsSnap(p, q Coord) bool {
	return Distance(p, q) < s.radius()
}

// PointSnapsEdge reports whether p is within the snap radius of the line
// through e and inside e's bounding box. It reports false if either endpoint
// of e is missing from points.
func (s Snapper) PointSnapsEdge(p Coord, e graph.Edge, points []graph.Point) bool {
	from, to, ok := endpoints(e, points)
	if !ok {
		return false
	}
	a, b := At(from), At(to)
	return DistancePointToLine(p, a, b) < s.radius() && withinBox(p, a, b)
}

// ArePointsSnapping reports whether p and q snap at DefaultSnapRadius.
func ArePointsSnapping(p, q Coord) bool {
	return Snapper{}.PointsSnap(p, q)
}

// IsPointSnappingEdge reports whether p snaps onto e at DefaultSnapRadius.
func IsPointSnappingEdge(p Coord, e graph.Edge, points []graph.Point) bool {
	return Snapper{}.PointSnapsEdge(p, e, points)
}

// SnappingPointToEdge returns a new point at the foot of the perpendicular
// from p onto e. The id is drawn from ids only when a point is returned. It
// reports false if an endpoint is missing or e has zero length.
func SnappingPointToEdge(p Coord, e graph.Edge, points []graph.Point, ids graph.IDGenerator) (graph.Point, bool) {
	from, to, ok := endpoints(e, points)
	if !ok {
		return graph.Point{}, false
	}
	foot, ok := Project(p, At(from), At(to))
	if !ok {
		return graph.Point{}, false
	}
	return graph.Point{ID: ids.NextID(), X: foot.X, Y: foot.Y}, true
}
