package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/trazo/pkg/geom"
	"github.com/chazu/trazo/pkg/graph"
	"github.com/chazu/trazo/pkg/sketch"
)

// ---------------------------------------------------------------------------
// Evaluation session
// ---------------------------------------------------------------------------

// session is the sketch a script draws into. Builtins replay user actions
// through the reducer, so a script and the canvas produce identical state.
type session struct {
	reducer sketch.Reducer
	state   sketch.State
}

func (s *session) apply(actions ...sketch.Action) error {
	for _, a := range actions {
		next, err := s.reducer.Apply(s.state, a)
		if err != nil {
			return err
		}
		s.state = next
	}
	return nil
}

// withTool applies actions with tool active, then restores the previous
// tool. Any pending anchor is dropped.
func (s *session) withTool(tool sketch.Tool, actions ...sketch.Action) error {
	prev := s.state.Tool
	all := append([]sketch.Action{sketch.SetTool{Tool: tool}}, actions...)
	all = append(all, sketch.SetTool{Tool: prev})
	return s.apply(all...)
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpPoint wraps a graph.Point so the pending anchor can be inspected.
type sexpPoint struct {
	p graph.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %d %.1f %.1f)", p.p.ID, p.p.X, p.p.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
// A lone keyword (no value after it) is kept positionally, so (tool :line)
// sees :line as its first argument.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toPointID extracts a point id from an integer Sexp.
func toPointID(s zygo.Sexp) (graph.PointID, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return graph.PointID(v.Val), nil
	}
	return 0, fmt.Errorf("expected point id, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_line) and plain strings ("line").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// numbers reads one number per name, by keyword if given and positionally
// otherwise.
func numbers(fn string, args []zygo.Sexp, names ...string) ([]float64, error) {
	pa := parseArgs(args)
	out := make([]float64, len(names))
	pos := 0
	for i, n := range names {
		v, ok := pa.kw[n]
		if !ok {
			if pos >= len(pa.positional) {
				return nil, fmt.Errorf("%s requires %s", fn, strings.Join(names, ", "))
			}
			v = pa.positional[pos]
			pos++
		}
		f, err := toFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", fn, n, err)
		}
		out[i] = f
	}
	if pos < len(pa.positional) {
		return nil, fmt.Errorf("%s: too many arguments", fn)
	}
	return out, nil
}

// coords flattens args into a list of coordinates. A single list or array
// argument is unpacked first.
func coords(fn string, args []zygo.Sexp) ([]geom.Coord, error) {
	if len(args) == 1 {
		items, err := sexpListToSlice(args[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn, err)
		}
		args = items
	}
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("%s: expected x y pairs, got %d numbers", fn, len(args))
	}
	out := make([]geom.Coord, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, err := toFloat64(args[i])
		if err != nil {
			return nil, fmt.Errorf("%s: x%d: %w", fn, i/2+1, err)
		}
		y, err := toFloat64(args[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s: y%d: %w", fn, i/2+1, err)
		}
		out = append(out, geom.Coord{X: x, Y: y})
	}
	return out, nil
}

func clickAt(c geom.Coord) sketch.Action {
	return sketch.Click{At: c}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the trazo drawing builtins into a zygomys
// environment. The builtins draw into sess during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sess *session) {

	// -----------------------------------------------------------------------
	// (tool :line) (tool :rect) (tool :move)
	// -----------------------------------------------------------------------
	env.AddFunction("tool", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("tool requires exactly 1 argument, got %d", len(args))
		}
		kw, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tool: %w", err)
		}
		t, err := sketch.ParseTool(kw)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tool: %w", err)
		}
		if err := sess.apply(sketch.SetTool{Tool: t}); err != nil {
			return zygo.SexpNull, fmt.Errorf("tool: %w", err)
		}
		return &zygo.SexpStr{S: t.String()}, nil
	})

	// -----------------------------------------------------------------------
	// (click 10 20) or (click :x 10 :y 20)
	//
	// Returns the pending anchor, or nil once a shape was closed.
	// -----------------------------------------------------------------------
	env.AddFunction("click", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers("click", args, "x", "y")
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := sess.apply(clickAt(geom.Coord{X: v[0], Y: v[1]})); err != nil {
			return zygo.SexpNull, fmt.Errorf("click: %w", err)
		}
		if cur := sess.state.Current; cur != nil {
			return &sexpPoint{p: *cur}, nil
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (line x1 y1 x2 y2)
	// -----------------------------------------------------------------------
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers("line", args, "x1", "y1", "x2", "y2")
		if err != nil {
			return zygo.SexpNull, err
		}
		err = sess.withTool(sketch.ToolLine,
			clickAt(geom.Coord{X: v[0], Y: v[1]}),
			clickAt(geom.Coord{X: v[2], Y: v[3]}),
		)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: %w", err)
		}
		return &zygo.SexpInt{Val: int64(len(sess.state.Edges))}, nil
	})

	// -----------------------------------------------------------------------
	// (rect x1 y1 x2 y2)
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers("rect", args, "x1", "y1", "x2", "y2")
		if err != nil {
			return zygo.SexpNull, err
		}
		err = sess.withTool(sketch.ToolRectangle,
			clickAt(geom.Coord{X: v[0], Y: v[1]}),
			clickAt(geom.Coord{X: v[2], Y: v[3]}),
		)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		return &zygo.SexpInt{Val: int64(len(sess.state.Faces))}, nil
	})

	// -----------------------------------------------------------------------
	// (polyline x1 y1 x2 y2 ...) or (polyline (list x1 y1 x2 y2 ...))
	//
	// Draws one line per consecutive pair. Repeating the first point at the
	// end closes the outline.
	// -----------------------------------------------------------------------
	env.AddFunction("polyline", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pts, err := coords("polyline", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pts) < 2 {
			return zygo.SexpNull, fmt.Errorf("polyline requires at least 2 points, got %d", len(pts))
		}
		var clicks []sketch.Action
		for i := 1; i < len(pts); i++ {
			clicks = append(clicks, clickAt(pts[i-1]), clickAt(pts[i]))
		}
		if err := sess.withTool(sketch.ToolLine, clicks...); err != nil {
			return zygo.SexpNull, fmt.Errorf("polyline: %w", err)
		}
		return &zygo.SexpInt{Val: int64(len(sess.state.Faces))}, nil
	})

	// -----------------------------------------------------------------------
	// (pan dx dy)
	// -----------------------------------------------------------------------
	env.AddFunction("pan", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers("pan", args, "dx", "dy")
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := sess.apply(sketch.Pan{By: geom.Coord{X: v[0], Y: v[1]}}); err != nil {
			return zygo.SexpNull, fmt.Errorf("pan: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (split-edge from to x y)
	//
	// Splits the edge from->to at the perpendicular foot of (x, y). zygomys
	// already defines split for strings, and kebab-case arrives here as
	// split_edge after preprocessing.
	// -----------------------------------------------------------------------
	env.AddFunction("split_edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("split-edge requires from, to, x, y")
		}
		from, err := toPointID(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("split-edge: from: %w", err)
		}
		to, err := toPointID(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("split-edge: to: %w", err)
		}
		v, err := numbers("split-edge", args[2:], "x", "y")
		if err != nil {
			return zygo.SexpNull, err
		}
		err = sess.apply(sketch.SplitEdge{
			Edge: graph.Edge{From: from, To: to},
			At:   geom.Coord{X: v[0], Y: v[1]},
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("split-edge: %w", err)
		}
		return &zygo.SexpInt{Val: int64(sess.state.LastID)}, nil
	})

	// -----------------------------------------------------------------------
	// (reset)
	// -----------------------------------------------------------------------
	env.AddFunction("reset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := sess.apply(sketch.Reset{}); err != nil {
			return zygo.SexpNull, fmt.Errorf("reset: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (faces) (points) (edges)
	// -----------------------------------------------------------------------
	counters := map[string]func() int{
		"faces":  func() int { return len(sess.state.Faces) },
		"points": func() int { return len(sess.state.Points) },
		"edges":  func() int { return len(sess.state.Edges) },
	}
	for fn, count := range counters {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 0 {
				return zygo.SexpNull, fmt.Errorf("%s takes no arguments", name)
			}
			return &zygo.SexpInt{Val: int64(count())}, nil
		})
	}
}
