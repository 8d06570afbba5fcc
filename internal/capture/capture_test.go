package capture

import (
	"errors"
	"image"
	"image/color"
	"testing"

	dimage "detailist/internal/image"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGrabber struct {
	displays []image.Rectangle
	err      error
	asked    []image.Rectangle
}

func (f *fakeGrabber) NumActiveDisplays() int { return len(f.displays) }

func (f *fakeGrabber) DisplayBounds(i int) image.Rectangle { return f.displays[i] }

func (f *fakeGrabber) CaptureRect(r image.Rectangle) (*image.RGBA, error) {
	f.asked = append(f.asked, r)
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return img, nil
}

func newProvider(g *fakeGrabber) *ScreenProvider {
	return &ScreenProvider{grab: g, log: zerolog.Nop()}
}

func TestVirtualScreenIsUnionOfDisplays(t *testing.T) {
	g := &fakeGrabber{displays: []image.Rectangle{
		image.Rect(0, 0, 1920, 1080),
		image.Rect(-1280, 100, 0, 1124),
	}}
	p := newProvider(g)

	screen, err := p.VirtualScreen()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(-1280, 0, 1920, 1124), screen)

	primary, err := p.PrimaryDisplay()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), primary)
}

func TestNoDisplays(t *testing.T) {
	p := newProvider(&fakeGrabber{})
	_, err := p.CaptureFull()
	assert.ErrorIs(t, err, ErrNoDisplay)
	_, err = p.PrimaryDisplay()
	assert.ErrorIs(t, err, ErrNoDisplay)
}

func TestCaptureClipsToScreen(t *testing.T) {
	g := &fakeGrabber{displays: []image.Rectangle{image.Rect(0, 0, 100, 80)}}
	p := newProvider(g)

	buf, err := p.Capture(image.Rect(90, 70, 130, 100))
	require.NoError(t, err)
	assert.Equal(t, []image.Rectangle{image.Rect(90, 70, 100, 80)}, g.asked)
	assert.Equal(t, 10, buf.Width)
	assert.Equal(t, 10, buf.Height)
	assert.Equal(t, [3]uint8{200, 0, 0}, buf.At(0, 0))

	_, err = p.Capture(image.Rect(200, 200, 300, 300))
	assert.ErrorIs(t, err, dimage.ErrOutOfBounds)
}

func TestCaptureFull(t *testing.T) {
	g := &fakeGrabber{displays: []image.Rectangle{image.Rect(0, 0, 40, 30), image.Rect(40, 0, 60, 30)}}
	buf, err := newProvider(g).CaptureFull()
	require.NoError(t, err)
	assert.Equal(t, 60, buf.Width)
	assert.Equal(t, 30, buf.Height)
}

func TestCaptureError(t *testing.T) {
	boom := errors.New("display server gone")
	g := &fakeGrabber{displays: []image.Rectangle{image.Rect(0, 0, 10, 10)}, err: boom}
	_, err := newProvider(g).CaptureFull()
	assert.ErrorIs(t, err, boom)
}
