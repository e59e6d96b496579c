// Package tessellate lifts the faces of a sketch into solids and produces
// triangle meshes using a geometry kernel. One mesh is produced per face.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/chazu/trazo/pkg/graph"
	"github.com/chazu/trazo/pkg/kernel"
	"github.com/chazu/trazo/pkg/sketch"
)

// outline resolves a face to kernel coordinates. Sketch space is Y-down
// (screen), so Y is mirrored to keep the solid upright in a Y-up frame.
func outline(s sketch.State, f sketch.Face) []kernel.Vec2 {
	return lo.Map(s.Outline(f), func(p graph.Point, _ int) kernel.Vec2 {
		return kernel.Vec2{X: p.X, Y: -p.Y}
	})
}

// extrude builds the solid for one face. The boolean result is false when
// the face cannot be lifted (unresolved or degenerate outline).
func extrude(s sketch.State, k kernel.Kernel, f sketch.Face, height float64) (kernel.Solid, bool, error) {
	vs := outline(s, f)
	if len(vs) < 3 {
		sketch.Logger().Warn("tessellate: skipping face with unresolved outline",
			"face", f.ID, "vertices", len(vs))
		return nil, false, nil
	}
	solid, err := k.Extrude(vs, height)
	if errors.Is(err, kernel.ErrDegenerateOutline) {
		sketch.Logger().Warn("tessellate: skipping degenerate face", "face", f.ID)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("tessellate: extrude face %d: %w", f.ID, err)
	}
	return solid, true, nil
}

// Tessellate extrudes every face of the sketch by height and produces one
// triangle mesh per face. The tessellator is read-only and never mutates
// the sketch.
func Tessellate(s sketch.State, k kernel.Kernel, height float64) ([]*kernel.Mesh, error) {
	if !(height > 0) {
		return nil, fmt.Errorf("tessellate: %w", kernel.ErrBadHeight)
	}

	var meshes []*kernel.Mesh
	for _, f := range s.Faces {
		solid, ok, err := extrude(s, k, f, height)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for face %d: %w", f.ID, err)
		}
		mesh.FaceID = int(f.ID)
		mesh.Name = fmt.Sprintf("face-%d", f.ID)
		meshes = append(meshes, mesh)
	}

	sketch.Logger().Debug("tessellate: done", "faces", len(s.Faces), "meshes", len(meshes))
	return meshes, nil
}

// Merge extrudes every face and unions the results into a single mesh named
// "sketch". It returns nil when no face could be lifted.
func Merge(s sketch.State, k kernel.Kernel, height float64) (*kernel.Mesh, error) {
	if !(height > 0) {
		return nil, fmt.Errorf("tessellate: %w", kernel.ErrBadHeight)
	}

	var acc kernel.Solid
	for _, f := range s.Faces {
		solid, ok, err := extrude(s, k, f, height)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if acc == nil {
			acc = solid
		} else {
			acc = k.Union(acc, solid)
		}
	}
	if acc == nil {
		return nil, nil
	}

	mesh, err := k.ToMesh(acc)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for merged sketch: %w", err)
	}
	mesh.Name = "sketch"
	return mesh, nil
}
