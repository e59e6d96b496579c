package graph

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// ErrEdgeNotFound is returned when an operation names an edge that is not
// in the edge collection (compared by exact directed pair).
var ErrEdgeNotFound = errors.New("edge not found")

// Adjacent reports whether x shares an endpoint with c, ignoring direction.
func Adjacent(x, c Edge) bool {
	return x.From == c.To || x.To == c.From || x.From == c.From || x.To == c.To
}

// EdgesToPoints returns the distinct endpoints of edges in first-seen order.
// For a face this is the order in which its outline is drawn.
func EdgesToPoints(edges []Edge) []PointID {
	ids := lo.FlatMap(edges, func(e Edge, _ int) []PointID {
		return []PointID{e.From, e.To}
	})
	return lo.Uniq(ids)
}

// IndexOfEdge returns the position of the exact directed edge e, or -1.
func IndexOfEdge(edges []Edge, e Edge) int {
	_, idx, ok := lo.FindIndexOf(edges, func(x Edge) bool {
		return x.From == e.From && x.To == e.To
	})
	if !ok {
		return -1
	}
	return idx
}

// RemoveEdge returns a copy of edges without the exact directed edge e.
// An edge stored reversed is a different record and is kept.
func RemoveEdge(edges []Edge, e Edge) []Edge {
	return lo.Reject(edges, func(x Edge, _ int) bool {
		return x.From == e.From && x.To == e.To
	})
}

// SplitEdge replaces e with {e.From, p} and {p, e.To}. The input slice is
// not modified. The caller must have added the point p to its point
// collection before storing the result.
func SplitEdge(edges []Edge, e Edge, p PointID) ([]Edge, error) {
	if IndexOfEdge(edges, e) < 0 {
		return nil, fmt.Errorf("split %s at %d: %w", e, p, ErrEdgeNotFound)
	}
	out := RemoveEdge(edges, e)
	out = append(out, Edge{From: e.From, To: p}, Edge{From: p, To: e.To})
	return out, nil
}

// Incident returns the edges touching the point id, in collection order.
func Incident(edges []Edge, id PointID) []Edge {
	return lo.Filter(edges, func(e Edge, _ int) bool {
		return e.Has(id)
	})
}
