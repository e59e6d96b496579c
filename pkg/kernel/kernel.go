// Package kernel defines the abstract geometry kernel interface used to turn
// sketch faces into solids. The sdfx subpackage provides the implementation;
// the interface lets the rest of the system stay independent of it.
package kernel

import (
	"errors"
	"math"
)

var (
	// ErrDegenerateOutline is returned for outlines with fewer than three
	// distinct vertices or no area.
	ErrDegenerateOutline = errors.New("degenerate outline")
	// ErrBadHeight is returned for non-positive extrusion heights.
	ErrBadHeight = errors.New("extrusion height must be positive")
)

// Vec2 is a point of a planar outline.
type Vec2 struct {
	X, Y float64
}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Extrude lifts a closed planar outline along +Z from z=0 to z=height.
	Extrude(outline []Vec2, height float64) (Solid, error)

	Union(a, b Solid) Solid
	Translate(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Area returns the signed shoelace area of an outline. It is positive for
// counter-clockwise outlines in a Y-up frame.
func Area(outline []Vec2) float64 {
	var a float64
	for i := range outline {
		j := (i + 1) % len(outline)
		a += outline[i].X*outline[j].Y - outline[j].X*outline[i].Y
	}
	return a / 2
}

// CheckExtrusion validates an extrusion request. Kernels call it before
// building geometry.
func CheckExtrusion(outline []Vec2, height float64) error {
	if !(height > 0) || math.IsInf(height, 0) {
		return ErrBadHeight
	}
	if len(outline) < 3 || Area(outline) == 0 {
		return ErrDegenerateOutline
	}
	return nil
}
