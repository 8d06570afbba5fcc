// Package canvas provides the fixed-size image panes of the main window.
// Capture panes scroll their viewport by dragging and by the arrow keys.
package canvas

import (
	"image"
	"image/color"

	"detailist/internal/viewport"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Pane shows one image at 1:1 scale with a hint text when empty.
type Pane struct {
	widget.BaseWidget

	image *fynecanvas.Image
	hint  *widget.Label
	frame *fynecanvas.Rectangle

	drag dragAccumulator

	// Interactive panes react to pointer drags and arrow keys.
	interactive bool

	OnDrag  func(dx, dy int)
	OnNudge func(d viewport.Direction, magnified bool)
}

var (
	_ fyne.Draggable    = (*Pane)(nil)
	_ fyne.Focusable    = (*Pane)(nil)
	_ fyne.Tappable     = (*Pane)(nil)
	_ fyne.Shortcutable = (*Pane)(nil)
)

// NewPane creates an empty pane of the given pixel size. Only interactive
// panes take focus and report drags.
func NewPane(width, height int, hint string, interactive bool) *Pane {
	p := &Pane{
		image:       fynecanvas.NewImageFromImage(nil),
		hint:        widget.NewLabel(hint),
		frame:       fynecanvas.NewRectangle(color.Transparent),
		interactive: interactive,
	}
	p.image.FillMode = fynecanvas.ImageFillOriginal
	p.image.ScaleMode = fynecanvas.ImageScalePixels
	p.hint.Wrapping = fyne.TextWrapWord
	p.hint.Alignment = fyne.TextAlignCenter
	p.frame.StrokeWidth = 2
	p.frame.StrokeColor = theme.DisabledColor()
	p.ExtendBaseWidget(p)
	p.SetViewSize(width, height)
	return p
}

func (p *Pane) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(
		p.frame,
		p.image,
		container.NewCenter(p.hint),
	))
}

// SetViewSize changes the pane size in pixels.
func (p *Pane) SetViewSize(width, height int) {
	size := fyne.NewSize(float32(width), float32(height))
	p.image.SetMinSize(size)
	p.frame.SetMinSize(size)
	p.hint.Resize(size)
	p.Refresh()
}

// SetImage displays img and hides the hint.
func (p *Pane) SetImage(img image.Image) {
	p.image.Image = img
	p.hint.Hide()
	p.image.Refresh()
}

// ShowHint clears the image and displays text instead.
func (p *Pane) ShowHint(text string) {
	p.image.Image = nil
	p.hint.SetText(text)
	p.hint.Show()
	p.image.Refresh()
}

// Dragged reports the pointer movement in whole pixels.
func (p *Pane) Dragged(ev *fyne.DragEvent) {
	if !p.interactive || p.OnDrag == nil {
		return
	}
	dx, dy := p.drag.add(ev.Dragged.DX, ev.Dragged.DY)
	if dx != 0 || dy != 0 {
		p.OnDrag(dx, dy)
	}
}

func (p *Pane) DragEnd() {
	p.drag.reset()
}

// Tapped focuses the pane so it receives arrow keys.
func (p *Pane) Tapped(*fyne.PointEvent) {
	if !p.interactive {
		return
	}
	if c := fyne.CurrentApp().Driver().CanvasForObject(p); c != nil {
		c.Focus(p)
	}
}

func (p *Pane) FocusGained() {
	p.frame.StrokeColor = theme.PrimaryColor()
	p.frame.Refresh()
}

func (p *Pane) FocusLost() {
	p.frame.StrokeColor = theme.DisabledColor()
	p.frame.Refresh()
}

func (p *Pane) TypedRune(rune) {}

// TypedKey nudges by one step for a bare arrow key.
func (p *Pane) TypedKey(ev *fyne.KeyEvent) {
	if d, ok := keyDirection(ev.Name); ok && p.interactive && p.OnNudge != nil {
		p.OnNudge(d, false)
	}
}

// TypedShortcut nudges by a fast step for Ctrl or Shift plus an arrow key.
func (p *Pane) TypedShortcut(s fyne.Shortcut) {
	cs, ok := s.(*desktop.CustomShortcut)
	if !ok || !p.interactive || p.OnNudge == nil {
		return
	}
	if cs.Modifier&(fyne.KeyModifierControl|fyne.KeyModifierShift) == 0 {
		return
	}
	if d, ok := keyDirection(cs.KeyName); ok {
		p.OnNudge(d, true)
	}
}

func keyDirection(name fyne.KeyName) (viewport.Direction, bool) {
	switch name {
	case fyne.KeyUp:
		return viewport.Up, true
	case fyne.KeyDown:
		return viewport.Down, true
	case fyne.KeyLeft:
		return viewport.Left, true
	case fyne.KeyRight:
		return viewport.Right, true
	default:
		return 0, false
	}
}

// dragAccumulator turns fractional drag deltas into whole pixels, carrying
// the remainder to the next event.
type dragAccumulator struct {
	fx, fy float32
}

func (a *dragAccumulator) add(dx, dy float32) (int, int) {
	a.fx += dx
	a.fy += dy
	ix, iy := int(a.fx), int(a.fy)
	a.fx -= float32(ix)
	a.fy -= float32(iy)
	return ix, iy
}

func (a *dragAccumulator) reset() {
	a.fx, a.fy = 0, 0
}
