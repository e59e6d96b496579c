package graph

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// IsFace reports whether path is a closed simple cycle: it loops back to its
// first edge, has at least three edges, and every vertex in its endpoint
// multiset occurs exactly twice.
func IsFace(path Path) bool {
	if len(path) == 0 {
		return false
	}
	first := path[0]
	last := path[len(path)-1]

	loops := last.To == first.From || last.From == first.To
	return loops && len(path) >= 3 && noRepeats(path)
}

// noRepeats reports whether every vertex of path appears exactly twice
// among the path's endpoints.
func noRepeats(path Path) bool {
	counts := lo.CountValues(lo.FlatMap(path, func(e Edge, _ int) []PointID {
		return []PointID{e.From, e.To}
	}))
	for _, n := range counts {
		if n != 2 {
			return false
		}
	}
	return true
}

// successors returns the edges that may follow current in path: edges that
// share an endpoint with current, are not already in path by exact directed
// pair, and are not current itself. An edge stored reversed counts as a
// different edge and may be revisited.
func successors(edges []Edge, first, current Edge, path Path) []Edge {
	return lo.Filter(edges, func(x Edge, _ int) bool {
		if !Adjacent(x, current) {
			return false
		}
		if x == current || x == first {
			return false
		}
		return !path.Contains(x)
	})
}

// Paths returns every maximal path obtained by extending start through
// adjacent, unused edges. A branch stops either at a dead end or as soon as
// the path built so far closes a face. Paths that never close are included;
// GetFaces filters them out.
//
// The search is exhaustive and exponential in the branching factor around
// start. Sketch graphs are small, so no pruning beyond used-edge exclusion
// is done.
func Paths(edges []Edge, start Edge) []Path {
	return extend(edges, start, start, nil)
}

func extend(edges []Edge, first, current Edge, path Path) []Path {
	next := successors(edges, first, current, path)
	if len(next) == 0 {
		return []Path{path.With(current)}
	}

	var out []Path
	for _, x := range next {
		newPath := path.With(current)
		if IsFace(newPath) {
			out = append(out, newPath)
			continue
		}
		out = append(out, extend(edges, first, x, newPath)...)
	}
	return out
}

// GetFaces returns the faces that contain newEdge in the given edge set.
// The traversal's early exit and this final filter are both required: the
// early exit tests a path before a successor is added, while a dead-end path
// may only close once its last edge is in place.
//
// The same cycle walked in opposite directions is reported once, in the
// order it was first found.
func GetFaces(edges []Edge, newEdge Edge) []Path {
	var faces []Path
	seen := make(map[string]bool)
	for _, p := range Paths(edges, newEdge) {
		if !IsFace(p) {
			continue
		}
		key := FaceKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		faces = append(faces, p)
	}
	return faces
}

// SmallestFace returns the face with the fewest edges. Ties go to the face
// found first.
func SmallestFace(faces []Path) (Path, bool) {
	if len(faces) == 0 {
		return nil, false
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if len(f) < len(best) {
			best = f
		}
	}
	return best, true
}

// FaceKey returns a key that is equal for two paths iff they use the same
// set of directed edges, regardless of traversal order.
func FaceKey(path Path) string {
	parts := lo.Map(path, func(e Edge, _ int) string {
		return e.String()
	})
	slices.Sort(parts)
	return strings.Join(parts, ",")
}
