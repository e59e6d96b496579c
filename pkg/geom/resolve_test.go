package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/trazo/pkg/graph"
)

// crossing returns two edges crossing at (50,50) plus a vertical one.
func crossing() ([]graph.Point, []graph.Edge) {
	points := []graph.Point{
		{ID: 1, X: 0, Y: 0},
		{ID: 2, X: 100, Y: 100},
		{ID: 3, X: 0, Y: 100},
		{ID: 4, X: 100, Y: 0},
		{ID: 5, X: 50, Y: 0},
		{ID: 6, X: 50, Y: 100},
	}
	edges := []graph.Edge{{From: 1, To: 2}, {From: 3, To: 4}, {From: 5, To: 6}}
	return points, edges
}

func TestResolvePointBeforeEdge(t *testing.T) {
	points, edges := crossing()
	ids := graph.NewCounter(6)

	r := Snapper{}.Resolve(Coord{X: 2, Y: 3}, points, edges, nil, ids)
	assert.Equal(t, SnapPoint, r.Kind)
	assert.Equal(t, graph.PointID(1), r.Point.ID)
	assert.Equal(t, graph.PointID(6), ids.Last(), "snapping to a point mints nothing")
}

func TestResolveEdgeFirstInOrder(t *testing.T) {
	points, edges := crossing()
	ids := graph.NewCounter(6)

	// (50,50) is on all three edges; the first one in slice order wins.
	r := Snapper{}.Resolve(Coord{X: 50, Y: 50}, points, edges, nil, ids)
	require.Equal(t, SnapEdge, r.Kind)
	assert.Equal(t, graph.Edge{From: 1, To: 2}, r.Edge)
	assert.Equal(t, graph.PointID(7), r.Point.ID)
	assert.InDelta(t, 50.0, r.Point.X, 1e-9)
	assert.InDelta(t, 50.0, r.Point.Y, 1e-9)

	reordered := []graph.Edge{edges[2], edges[0], edges[1]}
	r = Snapper{}.Resolve(Coord{X: 50, Y: 50}, points, reordered, nil, ids)
	assert.Equal(t, graph.Edge{From: 5, To: 6}, r.Edge)
}

func TestResolveFree(t *testing.T) {
	points, edges := crossing()
	ids := graph.NewCounter(6)

	r := Snapper{}.Resolve(Coord{X: 90, Y: 40}, points, edges, nil, ids)
	assert.Equal(t, SnapFree, r.Kind)
	assert.Equal(t, graph.Point{ID: 7, X: 90, Y: 40}, r.Point)
	assert.Equal(t, "free", r.Kind.String())
}

func TestIndexMatchesLinearScan(t *testing.T) {
	points, edges := crossing()
	s := NewSnapper(DefaultSnapRadius)
	ix := NewIndex(points, edges, s.Radius)

	for x := -20.0; x <= 120; x += 5 {
		for y := -20.0; y <= 120; y += 5 {
			at := Coord{X: x, Y: y}
			want := s.Resolve(at, points, edges, nil, graph.NewCounter(6))
			got := s.Resolve(at, points, edges, ix, graph.NewCounter(6))
			assert.Equal(t, want, got, "resolution differs at %v", at)
		}
	}
}

func TestIndexCandidatesSorted(t *testing.T) {
	points, edges := crossing()
	ix := NewIndex(points, edges, DefaultSnapRadius)

	got := ix.EdgeCandidates(Coord{X: 50, Y: 50})
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Empty(t, ix.PointCandidates(Coord{X: 50, Y: 50}))
	assert.Equal(t, []int{0}, ix.PointCandidates(Coord{X: 1, Y: 1}))
}

func TestIndexSkipsDanglingEdges(t *testing.T) {
	points := []graph.Point{{ID: 1, X: 0, Y: 0}}
	ix := NewIndex(points, []graph.Edge{{From: 1, To: 2}}, DefaultSnapRadius)
	assert.Empty(t, ix.EdgeCandidates(Coord{X: 0, Y: 0}))
}

func TestSnappedEdges(t *testing.T) {
	points, edges := crossing()
	got := Snapper{}.SnappedEdges(Coord{X: 50, Y: 50}, points, edges)
	assert.Len(t, got, 3)
	assert.True(t, Snapper{}.SnapsAnyPoint(Coord{X: 99, Y: 99}, points))
	assert.False(t, Snapper{}.SnapsAnyPoint(Coord{X: 70, Y: 30}, points))
}
