package geom

import (
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/trazo/pkg/graph"
)

// queryTol is the half-size of the query rectangle built around the cursor.
const queryTol = 1e-6

// entry is an R-tree leaf holding the position of a point or edge in the
// caller's slice.
type entry struct {
	pos  int
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect { return e.rect }

// Index is a spatial index over a snapshot of points and edges. Leaves are
// inflated by the snap radius, so a query returns a superset of what snaps;
// candidates are returned in slice order so first-match rules still hold.
type Index struct {
	points *rtreego.Rtree
	edges  *rtreego.Rtree
}

// NewIndex builds an index for the given snapshot. Edges with a missing
// endpoint are left out since they can never snap.
func NewIndex(points []graph.Point, edges []graph.Edge, radius float64) *Index {
	if radius <= 0 {
		radius = DefaultSnapRadius
	}
	ix := &Index{
		points: rtreego.NewTree(2, 2, 16),
		edges:  rtreego.NewTree(2, 2, 16),
	}
	for i, p := range points {
		ix.points.Insert(&entry{pos: i, rect: rtreego.Point{p.X, p.Y}.ToRect(radius)})
	}
	for i, e := range edges {
		from, to, ok := endpoints(e, points)
		if !ok {
			continue
		}
		rect, err := rtreego.NewRectFromPoints(
			rtreego.Point{min(from.X, to.X) - radius, min(from.Y, to.Y) - radius},
			rtreego.Point{max(from.X, to.X) + radius, max(from.Y, to.Y) + radius},
		)
		if err != nil {
			continue
		}
		ix.edges.Insert(&entry{pos: i, rect: rect})
	}
	return ix
}

// PointCandidates returns the positions of points that may snap to at.
func (ix *Index) PointCandidates(at Coord) []int {
	return search(ix.points, at)
}

// EdgeCandidates returns the positions of edges that may snap to at.
func (ix *Index) EdgeCandidates(at Coord) []int {
	return search(ix.edges, at)
}

func search(tree *rtreego.Rtree, at Coord) []int {
	hits := tree.SearchIntersect(rtreego.Point{at.X, at.Y}.ToRect(queryTol))
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*entry).pos)
	}
	slices.Sort(out)
	return out
}
