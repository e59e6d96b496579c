// Package sketch owns the drawing state of a trazo sketch: the points, edges
// and faces drawn so far, the active tool and the pending anchor. State is a
// value; every user action is applied by Apply, which returns the next state
// and never modifies the one it was given.
package sketch

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/chazu/trazo/pkg/geom"
	"github.com/chazu/trazo/pkg/graph"
)

// ErrUnknownTool is returned when a tool name cannot be parsed.
var ErrUnknownTool = errors.New("unknown tool")

// Tool selects what a click does.
type Tool int

const (
	// ToolRectangle draws an axis-aligned rectangle from two opposite corners.
	ToolRectangle Tool = iota
	// ToolLine draws a single edge between two anchors.
	ToolLine
	// ToolMove ignores clicks; the view is moved with Pan.
	ToolMove
)

func (t Tool) String() string {
	switch t {
	case ToolRectangle:
		return "rect"
	case ToolLine:
		return "line"
	case ToolMove:
		return "move"
	default:
		return fmt.Sprintf("Tool(%d)", int(t))
	}
}

// MarshalText encodes the tool by name.
func (t Tool) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tool name.
func (t *Tool) UnmarshalText(b []byte) error {
	v, err := ParseTool(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTool maps a tool name or its keyboard shortcut to a Tool.
func ParseTool(name string) (Tool, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ":")) {
	case "rect", "rectangle", "r":
		return ToolRectangle, nil
	case "line", "l":
		return ToolLine, nil
	case "move", "pan", "h":
		return ToolMove, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// FaceID identifies a face. Face ids come from the same counter as point ids.
type FaceID int

// Face is a detected closed region.
type Face struct {
	ID    FaceID     `json:"id" yaml:"id"`
	Edges graph.Path `json:"edges" yaml:"edges"`
}

// State is a snapshot of a sketch. The zero value is an empty sketch with
// the rectangle tool selected.
type State struct {
	Points []graph.Point `json:"points" yaml:"points"`
	Edges  []graph.Edge  `json:"edges" yaml:"edges"`
	Faces  []Face        `json:"faces" yaml:"faces"`

	// Current is the pending anchor of a two-click tool, nil when idle.
	Current *graph.Point `json:"current,omitempty" yaml:"current,omitempty"`
	Tool    Tool         `json:"tool" yaml:"tool"`
	// Offset is the pan displacement. World coordinates are screen
	// coordinates minus Offset.
	Offset geom.Coord `json:"offset" yaml:"offset"`
	// LastID is the most recently minted id.
	LastID graph.PointID `json:"lastId" yaml:"lastId"`
}

// New returns an empty sketch.
func New() State {
	return State{}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Points = slices.Clone(s.Points)
	out.Edges = slices.Clone(s.Edges)
	if s.Faces != nil {
		out.Faces = make([]Face, len(s.Faces))
		for i, f := range s.Faces {
			out.Faces[i] = Face{ID: f.ID, Edges: slices.Clone(f.Edges)}
		}
	}
	if s.Current != nil {
		p := *s.Current
		out.Current = &p
	}
	return out
}

// Point looks up a point by id.
func (s State) Point(id graph.PointID) (graph.Point, bool) {
	return graph.FindPoint(s.Points, id)
}

// Outline resolves a face to its vertices in first-seen order. Vertices
// whose point is missing are skipped.
func (s State) Outline(f Face) []graph.Point {
	return lo.FilterMap(graph.EdgesToPoints(f.Edges), func(id graph.PointID, _ int) (graph.Point, bool) {
		return s.Point(id)
	})
}

// HasFace reports whether a face with the same edge set is already stored.
func (s State) HasFace(p graph.Path) bool {
	key := graph.FaceKey(p)
	return lo.ContainsBy(s.Faces, func(f Face) bool {
		return graph.FaceKey(f.Edges) == key
	})
}

// ToWorld converts a screen position to world coordinates.
func (s State) ToWorld(at geom.Coord) geom.Coord {
	return geom.Coord{X: at.X - s.Offset.X, Y: at.Y - s.Offset.Y}
}

// ToScreen converts a world position to screen coordinates.
func (s State) ToScreen(at geom.Coord) geom.Coord {
	return geom.Coord{X: at.X + s.Offset.X, Y: at.Y + s.Offset.Y}
}

// Validate runs the structural and geometric checks over the sketch graph.
func (s State) Validate() graph.ValidationResult {
	return graph.ValidateAll(s.Points, s.Edges)
}
