package main

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/chazu/trazo/pkg/canvas"
	"github.com/chazu/trazo/pkg/config"
	"github.com/chazu/trazo/pkg/engine"
	"github.com/chazu/trazo/pkg/geom"
	"github.com/chazu/trazo/pkg/kernel"
	"github.com/chazu/trazo/pkg/kernel/sdfx"
	"github.com/chazu/trazo/pkg/sketch"
	"github.com/chazu/trazo/pkg/tessellate"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
// All methods are safe for concurrent use; state changes are serialised.
type App struct {
	ctx    context.Context
	cfg    config.Config
	engine *engine.Engine
	kernel kernel.Kernel

	mu      sync.Mutex
	reducer sketch.Reducer
	state   sketch.State
	cursor  geom.Coord
}

// FrameData is everything the frontend needs to draw one frame.
type FrameData struct {
	Scene      sketch.Scene `json:"scene"`
	Tool       string       `json:"tool"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Background string       `json:"background"`
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	FaceID   int       `json:"faceId"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	RunID    string          `json:"runId"`
	Frame    FrameData       `json:"frame"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with the default configuration.
func NewApp() *App {
	return NewAppWithConfig(config.DefaultConfig())
}

// NewAppWithConfig creates an App with an engine and the sdfx kernel
// configured from cfg.
func NewAppWithConfig(cfg config.Config) *App {
	return &App{
		cfg: cfg,
		engine: engine.NewEngine(
			engine.WithTimeout(cfg.EvalTimeout),
			engine.WithSnapRadius(cfg.SnapRadius),
		),
		kernel:  sdfx.NewWithCells(cfg.Extrude.Cells),
		reducer: sketch.NewReducer(cfg.SnapRadius),
		state:   sketch.New(),
		cursor:  geom.Coord{X: -1, Y: -1},
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// frame builds the frame for the current state. Callers hold a.mu.
func (a *App) frame() FrameData {
	scene := sketch.BuildScene(a.state, a.cursor, sketch.SceneOptions{
		Snapper: a.reducer.Snapper,
		Palette: a.cfg.Palette,
	})
	return FrameData{
		Scene:      scene,
		Tool:       a.state.Tool.String(),
		Width:      a.cfg.Canvas.Width,
		Height:     a.cfg.Canvas.Height,
		Background: a.cfg.Canvas.Background,
	}
}

// dispatch applies one action and returns the resulting frame. On error the
// state is left unchanged.
func (a *App) dispatch(action sketch.Action) (FrameData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, err := a.reducer.Apply(a.state, action)
	if err != nil {
		sketch.Logger().Warn("action rejected", "action", fmt.Sprintf("%T", action), "err", err)
		return a.frame(), err
	}
	a.state = next
	return a.frame(), nil
}

// Click handles a pointer press at screen coordinates.
func (a *App) Click(x, y float64) (FrameData, error) {
	a.mu.Lock()
	a.cursor = geom.Coord{X: x, Y: y}
	a.mu.Unlock()
	return a.dispatch(sketch.Click{At: geom.Coord{X: x, Y: y}})
}

// MoveCursor records the pointer position so the frame shows snap
// highlights and tool previews.
func (a *App) MoveCursor(x, y float64) FrameData {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cursor = geom.Coord{X: x, Y: y}
	return a.frame()
}

// SetTool switches the active tool by name (rect, line, move).
func (a *App) SetTool(name string) (FrameData, error) {
	tool, err := sketch.ParseTool(name)
	if err != nil {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.frame(), err
	}
	return a.dispatch(sketch.SetTool{Tool: tool})
}

// Pan moves the view by a screen displacement.
func (a *App) Pan(dx, dy float64) (FrameData, error) {
	return a.dispatch(sketch.Pan{By: geom.Coord{X: dx, Y: dy}})
}

// Reset clears the sketch.
func (a *App) Reset() (FrameData, error) {
	return a.dispatch(sketch.Reset{})
}

// Frame returns the current frame without changing anything.
func (a *App) Frame() FrameData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frame()
}

// State returns a copy of the current sketch.
func (a *App) State() sketch.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Clone()
}

// ExportSVG renders the current sketch, without cursor decorations, as an
// SVG document.
func (a *App) ExportSVG() (string, error) {
	a.mu.Lock()
	s := a.state.Clone()
	a.mu.Unlock()

	scene := sketch.BuildScene(s, geom.Coord{}, sketch.SceneOptions{
		Palette: a.cfg.Palette,
		Plain:   true,
	})

	var buf bytes.Buffer
	err := canvas.RenderSVG(&buf, scene, canvas.Options{
		Width:      a.cfg.Canvas.Width,
		Height:     a.cfg.Canvas.Height,
		Background: a.cfg.Canvas.Background,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Evaluate takes Lisp source, replays it into a fresh sketch and returns
// the frame plus one extruded mesh per face. On success the script's
// sketch replaces the interactive one; on any error it is kept.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a sketch.
	run := a.engine.Run(source)
	result.RunID = run.RunID
	if run.Fatal != nil {
		// Fatal error (panic, timeout, etc.)
		result.Errors = append(result.Errors, EvalErrorData{Message: run.Fatal.Error()})
		result.Frame = a.Frame()
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(run.Errors) > 0 {
		for _, e := range run.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		result.Frame = a.Frame()
		return result
	}
	for _, w := range run.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}

	// Step 3: Tessellate the sketch faces into triangle meshes.
	meshes, err := tessellate.Tessellate(*run.State, a.kernel, a.cfg.Extrude.Height)
	if err != nil {
		sketch.Logger().Error("tessellate failed", "run", run.RunID, "err", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		result.Frame = a.Frame()
		return result
	}

	// Step 4: Convert kernel meshes to the frontend MeshData format.
	for _, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			FaceID:   m.FaceID,
			Name:     m.Name,
			Color:    sketch.FaceColor(sketch.FaceID(m.FaceID), a.cfg.Palette),
		})
	}

	a.mu.Lock()
	a.state = *run.State
	result.Frame = a.frame()
	a.mu.Unlock()
	return result
}
