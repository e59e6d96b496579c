// Package graph defines the core sketch graph data structures for trazo.
package graph

import (
	"fmt"
	"strconv"
)

// PointID identifies a vertex. Two points are the same vertex iff their IDs match.
type PointID int

func (id PointID) String() string {
	return strconv.Itoa(int(id))
}

// Point is a vertex placed on the canvas. Points are never mutated; moving a
// vertex means creating a new record.
type Point struct {
	ID PointID `json:"id" yaml:"id"`
	X  float64 `json:"x" yaml:"x"`
	Y  float64 `json:"y" yaml:"y"`
}

// Edge connects two points. It is stored directed but every graph operation
// treats it as undirected. From != To is assumed by callers.
type Edge struct {
	From PointID `json:"from" yaml:"from"`
	To   PointID `json:"to" yaml:"to"`
}

func (e Edge) String() string {
	return fmt.Sprintf("%d->%d", e.From, e.To)
}

// Reversed returns the same edge stored in the opposite direction.
func (e Edge) Reversed() Edge {
	return Edge{From: e.To, To: e.From}
}

// Has reports whether id is one of the edge's endpoints.
func (e Edge) Has(id PointID) bool {
	return e.From == id || e.To == id
}

// Path is an ordered sequence of edges built by depth-first extension.
// A Path that satisfies IsFace is a face.
type Path []Edge

// Len returns the number of edges in the path.
func (p Path) Len() int {
	return len(p)
}

// Contains reports whether the exact directed edge e is in the path.
func (p Path) Contains(e Edge) bool {
	for _, x := range p {
		if x.From == e.From && x.To == e.To {
			return true
		}
	}
	return false
}

// With returns a copy of the path with e appended. The receiver is never
// aliased, so sibling branches of a search never share a backing array.
func (p Path) With(e Edge) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, e)
}

// FindPoint returns the point with the given id, or false if it is absent.
func FindPoint(points []Point, id PointID) (Point, bool) {
	for _, p := range points {
		if p.ID == id {
			return p, true
		}
	}
	return Point{}, false
}
