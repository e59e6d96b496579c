package sketch

import (
	"github.com/chazu/trazo/pkg/geom"
	"github.com/chazu/trazo/pkg/graph"
)

// Action is a user input applied to a State by Apply.
type Action interface {
	action()
}

// Click places an anchor at a screen position using the active tool.
type Click struct {
	At geom.Coord
}

// SetTool switches the active tool and drops any pending anchor.
type SetTool struct {
	Tool Tool
}

// Pan shifts the view by a screen-space delta.
type Pan struct {
	By geom.Coord
}

// SplitEdge places a point on Edge at the perpendicular foot of the screen
// position At and splits the edge there.
type SplitEdge struct {
	Edge graph.Edge
	At   geom.Coord
}

// Reset clears the sketch. The active tool and pan offset are kept.
type Reset struct{}

func (Click) action()     {}
func (SetTool) action()   {}
func (Pan) action()       {}
func (SplitEdge) action() {}
func (Reset) action()     {}
