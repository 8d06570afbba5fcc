// Package viewport tracks where each capture is scrolled to within the shared
// virtual canvas.
package viewport

import (
	"errors"
	"fmt"

	"detailist/pkg/geometry"
)

// Default canvas and window dimensions.
const (
	DefaultCanvasWidth  = 6880
	DefaultCanvasHeight = 2880
	DefaultWindowWidth  = 400
	DefaultWindowHeight = 400
)

// ErrInvalidBounds is returned for a window that is empty or larger than the canvas.
var ErrInvalidBounds = errors.New("invalid viewport bounds")

// State is the capture state of a slot.
type State int

const (
	Empty State = iota
	Captured
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Captured:
		return "Captured"
	default:
		return "Unknown"
	}
}

// Bounds fixes the canvas a viewport scrolls over and the size of the
// visible window.
type Bounds struct {
	Canvas geometry.SizeInt
	Window geometry.SizeInt
}

// DefaultBounds returns the 6880x2880 canvas with a 400x400 window.
func DefaultBounds() Bounds {
	return Bounds{
		Canvas: geometry.SizeInt{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight},
		Window: geometry.SizeInt{Width: DefaultWindowWidth, Height: DefaultWindowHeight},
	}
}

// Validate checks that the window is non-empty and fits on the canvas.
func (b Bounds) Validate() error {
	if b.Canvas.Empty() {
		return fmt.Errorf("canvas %dx%d: %w", b.Canvas.Width, b.Canvas.Height, ErrInvalidBounds)
	}
	if b.Window.Empty() || !b.Window.Fits(b.Canvas) {
		return fmt.Errorf("window %dx%d on %dx%d canvas: %w",
			b.Window.Width, b.Window.Height, b.Canvas.Width, b.Canvas.Height, ErrInvalidBounds)
	}
	return nil
}

// MaxOffset is the largest offset that keeps the window on the canvas.
func (b Bounds) MaxOffset() geometry.PointInt {
	return geometry.PointInt{
		X: max(0, b.Canvas.Width-b.Window.Width),
		Y: max(0, b.Canvas.Height-b.Window.Height),
	}
}

// Steps are the nudge distances in pixels.
type Steps struct {
	Normal int
	Fast   int
}

// DefaultSteps moves 1 pixel, or 10 with the modifier held.
func DefaultSteps() Steps {
	return Steps{Normal: 1, Fast: 10}
}

// Viewport is the top-left offset of the visible window. The zero value sits
// at the origin with no room to move; use New.
type Viewport struct {
	offset geometry.PointInt
	bounds Bounds
}

// New returns a viewport at the origin.
func New(bounds Bounds) Viewport {
	return Viewport{bounds: bounds}
}

// Offset returns the current top-left corner.
func (v Viewport) Offset() geometry.PointInt {
	return v.offset
}

// Bounds returns the canvas and window the viewport is limited by.
func (v Viewport) Bounds() Bounds {
	return v.bounds
}

// Rect is the visible region on the canvas.
func (v Viewport) Rect() geometry.RectInt {
	return geometry.NewRectInt(v.offset, v.bounds.Window)
}

// At returns the viewport moved to p, clamped so the window stays on the canvas.
func (v Viewport) At(p geometry.PointInt) Viewport {
	limit := v.bounds.MaxOffset()
	v.offset = geometry.PointInt{
		X: geometry.ClampInt(p.X, 0, limit.X),
		Y: geometry.ClampInt(p.Y, 0, limit.Y),
	}
	return v
}

// MoveBy shifts the offset by delta.
func (v Viewport) MoveBy(delta geometry.PointInt) Viewport {
	return v.At(v.offset.Add(delta))
}

// Drag follows a pointer moved by (dx, dy): the content moves with the
// pointer, so the offset moves the other way.
func (v Viewport) Drag(dx, dy int) Viewport {
	return v.MoveBy(geometry.PointInt{X: -dx, Y: -dy})
}

// Nudge moves one step in d, or a fast step when magnified.
func (v Viewport) Nudge(d Direction, magnified bool, steps Steps) Viewport {
	n := steps.Normal
	if magnified {
		n = steps.Fast
	}
	return v.MoveBy(d.Unit().Scale(n))
}

// Reset returns to the origin.
func (v Viewport) Reset() Viewport {
	return v.At(geometry.PointInt{})
}

// CopyFrom takes over other's offset, clamped to v's bounds.
func (v Viewport) CopyFrom(other Viewport) Viewport {
	return v.At(other.offset)
}

// WithBounds changes the canvas or window and re-clamps the offset.
func (v Viewport) WithBounds(b Bounds) Viewport {
	v.bounds = b
	return v.At(v.offset)
}

// CenterAs returns target positioned at source's offset.
func CenterAs(source, target Viewport) Viewport {
	return target.CopyFrom(source)
}
