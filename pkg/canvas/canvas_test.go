package canvas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/trazo/pkg/geom"
	"github.com/chazu/trazo/pkg/sketch"
)

func testScene() sketch.Scene {
	return sketch.Scene{
		Faces: []sketch.ScenePolygon{{
			Face:     5,
			Vertices: []geom.Coord{{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 90, Y: 90}, {X: 10, Y: 90}},
			Color:    "#ff0000",
		}},
		Edges: []sketch.SceneEdge{
			{X1: 10, Y1: 10, X2: 90, Y2: 10, Color: sketch.ColorEdge},
		},
		Points: []sketch.ScenePoint{
			{X: 50, Y: 50, Color: sketch.ColorCurrent},
		},
	}
}

func smallOptions() Options {
	return Options{Width: 100, Height: 100, Background: "#000000"}
}

func decode(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}

// near compares colours allowing for antialiasing noise.
func near(t *testing.T, want color.RGBA, got color.Color, msg string) {
	t.Helper()
	r, g, b, _ := got.RGBA()
	diff := func(a uint8, b uint32) int {
		d := int(a) - int(b>>8)
		if d < 0 {
			d = -d
		}
		return d
	}
	if diff(want.R, r) > 8 || diff(want.G, g) > 8 || diff(want.B, b) > 8 {
		t.Errorf("%s: got rgb(%d,%d,%d), want rgb(%d,%d,%d)",
			msg, r>>8, g>>8, b>>8, want.R, want.G, want.B)
	}
}

func TestEncodePNGLayers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, testScene(), smallOptions()))

	img := decode(t, buf.Bytes())
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())

	near(t, color.RGBA{0, 0, 0, 255}, img.At(2, 2), "background")
	near(t, color.RGBA{255, 0, 0, 255}, img.At(30, 70), "face fill")
	// The point marker is drawn over the face.
	near(t, color.RGBA{0, 255, 0, 255}, img.At(50, 50), "point marker")
}

func TestEncodePNGBackground(t *testing.T) {
	opts := smallOptions()
	opts.Background = "#336699"

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, sketch.Scene{}, opts))

	img := decode(t, buf.Bytes())
	near(t, color.RGBA{0x33, 0x66, 0x99, 255}, img.At(50, 50), "background")
}

func TestRenderPNGWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, RenderPNG(path, testScene(), smallOptions()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	img := decode(t, b)
	near(t, color.RGBA{255, 0, 0, 255}, img.At(70, 30), "face fill")
}

func TestOptionsRejected(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero width", Options{Width: 0, Height: 10}},
		{"negative height", Options{Width: 10, Height: -1}},
		{"bad background", Options{Width: 10, Height: 10, Background: "black"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Error(t, EncodePNG(&buf, sketch.Scene{}, tt.opts))
			assert.Error(t, RenderSVG(&buf, sketch.Scene{}, tt.opts))
		})
	}

	var buf bytes.Buffer
	err := EncodePNG(&buf, sketch.Scene{}, Options{Width: 0, Height: 0})
	assert.True(t, errors.Is(err, ErrBadSize))
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)
	assert.Equal(t, "#000000", o.Background)
	assert.NoError(t, o.check())
}

func TestValidColor(t *testing.T) {
	for _, c := range []string{"#fff", "#ffffff", "#ffffff80", "#4A90D9"} {
		assert.True(t, ValidColor(c), c)
	}
	for _, c := range []string{"", "fff", "#ff", "#gggggg", "red"} {
		assert.False(t, ValidColor(c), c)
	}
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, testScene(), smallOptions()))
	out := buf.String()

	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `width="100"`)
	assert.Contains(t, out, `data-face="5"`)
	assert.Contains(t, out, "fill:#ff0000")
	assert.Contains(t, out, "stroke:#ffffff")
	assert.Contains(t, out, "fill:"+sketch.ColorCurrent)
	// Background plus one point marker.
	assert.Equal(t, 2, strings.Count(out, "<rect"))

	// Faces come before edges, edges before points.
	faces := strings.Index(out, `id="faces"`)
	edges := strings.Index(out, `id="edges"`)
	points := strings.Index(out, `id="points"`)
	assert.True(t, faces < edges && edges < points, "layer order faces=%d edges=%d points=%d", faces, edges, points)
}

func TestRenderSVGSkipsDegenerateFace(t *testing.T) {
	scene := sketch.Scene{Faces: []sketch.ScenePolygon{{
		Face:     7,
		Vertices: []geom.Coord{{X: 0, Y: 0}, {X: 10, Y: 10}},
		Color:    "#ff0000",
	}}}
	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, scene, smallOptions()))
	assert.NotContains(t, buf.String(), "<polygon")
}

func TestRenderBuiltScene(t *testing.T) {
	s := sketch.New()
	for _, at := range []geom.Coord{{X: 20, Y: 20}, {X: 80, Y: 60}} {
		var err error
		s, err = sketch.Apply(s, sketch.Click{At: at})
		require.NoError(t, err)
	}
	scene := sketch.BuildScene(s, geom.Coord{X: -100, Y: -100}, sketch.SceneOptions{})

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, scene, smallOptions()))
	img := decode(t, buf.Bytes())
	near(t, hexRGBA(sketch.FaceColor(s.Faces[0].ID, nil)), img.At(50, 40), "face fill")
}

func hexRGBA(h string) color.RGBA {
	var c color.RGBA
	c.A = 255
	for i, dst := range []*uint8{&c.R, &c.G, &c.B} {
		var v uint8
		for _, ch := range h[1+2*i : 3+2*i] {
			v <<= 4
			switch {
			case ch >= '0' && ch <= '9':
				v |= uint8(ch - '0')
			case ch >= 'a' && ch <= 'f':
				v |= uint8(ch-'a') + 10
			case ch >= 'A' && ch <= 'F':
				v |= uint8(ch-'A') + 10
			}
		}
		*dst = v
	}
	return c
}
