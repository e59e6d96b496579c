// Package canvas draws a sketch.Scene to raster (PNG) and vector (SVG)
// images. Layers are painted back to front: faces, then edges, then point
// markers.
package canvas

import (
	"errors"
	"fmt"
	"regexp"
)

// PointSize is the side of a point marker square, in pixels.
const PointSize = 6

// Default canvas settings.
const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultBackground = "#000000"
)

// ErrBadSize is returned for non-positive canvas dimensions.
var ErrBadSize = errors.New("canvas size must be positive")

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Options configures a render.
type Options struct {
	Width      int
	Height     int
	Background string
}

// DefaultOptions returns an 800x600 canvas on black.
func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Height: DefaultHeight, Background: DefaultBackground}
}

func (o Options) check() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, o.Width, o.Height)
	}
	if o.Background != "" && !ValidColor(o.Background) {
		return fmt.Errorf("canvas: invalid background colour %q", o.Background)
	}
	return nil
}

func (o Options) background() string {
	if o.Background == "" {
		return DefaultBackground
	}
	return o.Background
}

// ValidColor reports whether c is a #rgb, #rrggbb or #rrggbbaa colour.
func ValidColor(c string) bool {
	return hexColor.MatchString(c)
}
