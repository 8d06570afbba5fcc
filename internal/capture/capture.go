// Package capture grabs screen regions as pixel buffers.
package capture

import (
	"errors"
	"fmt"
	"image"

	dimage "detailist/internal/image"

	"github.com/kbinani/screenshot"
	"github.com/rs/zerolog"
)

// ErrNoDisplay is returned when no active display is found.
var ErrNoDisplay = errors.New("no active displays found")

// Provider returns captures of the screen.
type Provider interface {
	// Capture grabs r in virtual-screen coordinates.
	Capture(r image.Rectangle) (*dimage.Buffer, error)
	// CaptureFull grabs the union of all active displays.
	CaptureFull() (*dimage.Buffer, error)
}

// grabber is the subset of the screenshot package the provider uses.
type grabber interface {
	NumActiveDisplays() int
	DisplayBounds(i int) image.Rectangle
	CaptureRect(r image.Rectangle) (*image.RGBA, error)
}

type systemGrabber struct{}

func (systemGrabber) NumActiveDisplays() int { return screenshot.NumActiveDisplays() }

func (systemGrabber) DisplayBounds(i int) image.Rectangle { return screenshot.GetDisplayBounds(i) }

func (systemGrabber) CaptureRect(r image.Rectangle) (*image.RGBA, error) {
	return screenshot.CaptureRect(r)
}

// ScreenProvider captures the local displays.
type ScreenProvider struct {
	grab grabber
	log  zerolog.Logger
}

var _ Provider = (*ScreenProvider)(nil)

// NewScreenProvider returns a provider backed by the operating system's
// screen capture facility.
func NewScreenProvider(log zerolog.Logger) *ScreenProvider {
	return &ScreenProvider{grab: systemGrabber{}, log: log.With().Str("component", "capture").Logger()}
}

// VirtualScreen returns the union of all active display bounds.
func (p *ScreenProvider) VirtualScreen() (image.Rectangle, error) {
	n := p.grab.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	union := p.grab.DisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(p.grab.DisplayBounds(i))
	}
	return union, nil
}

// PrimaryDisplay returns the bounds of display 0.
func (p *ScreenProvider) PrimaryDisplay() (image.Rectangle, error) {
	if p.grab.NumActiveDisplays() == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	return p.grab.DisplayBounds(0), nil
}

// Capture grabs r, which is first clipped to the virtual screen.
func (p *ScreenProvider) Capture(r image.Rectangle) (*dimage.Buffer, error) {
	screen, err := p.VirtualScreen()
	if err != nil {
		return nil, err
	}
	clipped := r.Intersect(screen)
	if clipped.Empty() {
		return nil, fmt.Errorf("capture %v outside screen %v: %w", r, screen, dimage.ErrOutOfBounds)
	}

	img, err := p.grab.CaptureRect(clipped)
	if err != nil {
		return nil, fmt.Errorf("capture %v: %w", clipped, err)
	}
	p.log.Debug().Stringer("rect", clipped).Msg("captured screen region")
	return dimage.FromImage(img), nil
}

// CaptureFull grabs every active display.
func (p *ScreenProvider) CaptureFull() (*dimage.Buffer, error) {
	screen, err := p.VirtualScreen()
	if err != nil {
		return nil, err
	}
	return p.Capture(screen)
}
