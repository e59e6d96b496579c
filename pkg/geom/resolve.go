package geom

import (
	"github.com/chazu/trazo/pkg/graph"
)

// SnapKind says what a cursor position resolved to.
type SnapKind int

const (
	// SnapFree means nothing was in range.
	SnapFree SnapKind = iota
	// SnapPoint means an existing point was in range.
	SnapPoint
	// SnapEdge means the cursor landed on an edge and a new point was placed
	// at the perpendicular foot.
	SnapEdge
)

func (k SnapKind) String() string {
	switch k {
	case SnapPoint:
		return "point"
	case SnapEdge:
		return "edge"
	default:
		return "free"
	}
}

// Resolution is the outcome of resolving a cursor position.
type Resolution struct {
	Kind  SnapKind
	Point graph.Point
	// Edge is the edge that was hit, set only for SnapEdge.
	Edge graph.Edge
}

// Resolve turns a cursor position into an anchor point. Existing points are
// tried first, then edges, both in slice order; the first hit wins. If
// nothing is in range a free point is created at the cursor. Ids are drawn
// from ids only when a new point is created. ix may be nil, in which case
// every point and edge is tested.
func (s Snapper) Resolve(at Coord, points []graph.Point, edges []graph.Edge, ix *Index, ids graph.IDGenerator) Resolution {
	for _, i := range candidates(ix, len(points), at, (*Index).PointCandidates) {
		if s.PointsSnap(at, At(points[i])) {
			return Resolution{Kind: SnapPoint, Point: points[i]}
		}
	}

	for _, i := range candidates(ix, len(edges), at, (*Index).EdgeCandidates) {
		e := edges[i]
		if !s.PointSnapsEdge(at, e, points) {
			continue
		}
		if p, ok := SnappingPointToEdge(at, e, points, ids); ok {
			return Resolution{Kind: SnapEdge, Point: p, Edge: e}
		}
		break
	}

	return Resolution{
		Kind:  SnapFree,
		Point: graph.Point{ID: ids.NextID(), X: at.X, Y: at.Y},
	}
}

// SnappedEdges returns the edges that at snaps onto, in slice order.
func (s Snapper) SnappedEdges(at Coord, points []graph.Point, edges []graph.Edge) []graph.Edge {
	var out []graph.Edge
	for _, e := range edges {
		if s.PointSnapsEdge(at, e, points) {
			out = append(out, e)
		}
	}
	return out
}

// SnapsAnyPoint reports whether at snaps onto any of points.
func (s Snapper) SnapsAnyPoint(at Coord, points []graph.Point) bool {
	for _, p := range points {
		if s.PointsSnap(at, At(p)) {
			return true
		}
	}
	return false
}

func candidates(ix *Index, n int, at Coord, query func(*Index, Coord) []int) []int {
	if ix != nil {
		return query(ix, at)
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return all
}
