// Package engine provides the Lisp scripting engine for trazo.
// It wraps zygomys in a sandboxed environment and replays the drawing
// commands of a script into a sketch.State.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/google/uuid"

	"github.com/chazu/trazo/pkg/graph"
	"github.com/chazu/trazo/pkg/sketch"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is a non-fatal finding about the sketch a script produced.
type EvalWarning struct {
	Message string
	Edge    *graph.Edge
	Point   graph.PointID
}

// EvalResult bundles the full output of an evaluation for use by UI bindings.
type EvalResult struct {
	RunID    string
	State    *sketch.State
	Errors   []EvalError
	Warnings []EvalWarning
	// Fatal is set when evaluation timed out, panicked or was superseded.
	Fatal error
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the evaluation time limit. Non-positive values keep
// EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithSnapRadius sets the snap radius used when replaying clicks.
func WithSnapRadius(r float64) Option {
	return func(e *Engine) {
		e.reducer = sketch.NewReducer(r)
	}
}

// Engine wraps the zygomys interpreter for trazo scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout time.Duration
	reducer sketch.Reducer
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout returns the evaluation time limit.
func (e *Engine) Timeout() time.Duration {
	return e.timeout
}

// Evaluate runs a script against an empty sketch and returns the result.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns state + nil errors + nil error
//   - On parse/eval failure: returns nil state + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*sketch.State, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{state: s, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
}

// Run evaluates source and also validates the resulting sketch. Every run
// gets an id that tags its log lines.
func (e *Engine) Run(source string) EvalResult {
	res := EvalResult{RunID: uuid.NewString()}
	log := sketch.Logger().With("run", res.RunID)
	start := time.Now()

	s, evalErrs, err := e.Evaluate(source)
	switch {
	case err != nil:
		log.Warn("evaluation failed", "err", err)
		res.Fatal = err
		return res
	case len(evalErrs) > 0:
		log.Info("script error", "errors", len(evalErrs), "first", evalErrs[0].Error())
		res.Errors = evalErrs
		return res
	}

	res.State = s
	v := s.Validate()
	for _, ve := range v.Errors {
		res.Warnings = append(res.Warnings, EvalWarning{Message: ve.Error(), Edge: ve.Edge, Point: ve.Point})
	}
	for _, w := range v.Warnings {
		res.Warnings = append(res.Warnings, EvalWarning{Message: w.Message, Edge: w.Edge, Point: w.Point})
	}

	log.Info("evaluated",
		"points", len(s.Points),
		"edges", len(s.Edges),
		"faces", len(s.Faces),
		"warnings", len(res.Warnings),
		"elapsed", time.Since(start),
	)
	return res
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*sketch.State, []EvalError, error) {
	// Empty source is a valid program that produces an empty sketch.
	if strings.TrimSpace(source) == "" {
		s := sketch.New()
		return &s, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	sess := &session{reducer: e.reducer, state: sketch.New()}
	registerBuiltins(env, sess)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return &sess.state, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
