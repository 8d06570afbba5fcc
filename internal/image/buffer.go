// Package image provides the pixel buffer used by the comparison engine,
// along with decoding, cropping, color-space conversion and PNG export.
package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"detailist/pkg/colorutil"
	"detailist/pkg/geometry"
)

// Channels is the number of samples stored per pixel.
const Channels = 3

// Channel indices. In HSV space they are hue, saturation and value.
const (
	ChannelHue        = 0
	ChannelSaturation = 1
	ChannelValue      = 2
)

var (
	// ErrOutOfBounds is returned when a requested region is not contained in its source.
	ErrOutOfBounds = errors.New("region out of bounds")

	// ErrChannelRange is returned for a channel index outside [0, Channels).
	ErrChannelRange = errors.New("channel index out of range")
)

// ColorSpace identifies how the samples of a Buffer are encoded.
type ColorSpace int

const (
	SpaceRGB ColorSpace = iota
	SpaceHSV
)

func (c ColorSpace) String() string {
	switch c {
	case SpaceRGB:
		return "RGB"
	case SpaceHSV:
		return "HSV"
	default:
		return "Unknown"
	}
}

// Buffer is a rectangular grid of 3-channel 8-bit samples in row-major order.
// Engine code never mutates a Buffer after it has been returned.
type Buffer struct {
	Width  int
	Height int
	Space  ColorSpace
	Pix    []uint8 // len == Width*Height*Channels
}

// New allocates a zeroed buffer.
func New(width, height int, space ColorSpace) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Space:  space,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// NewUniform creates an RGB buffer filled with a single color.
func NewUniform(width, height int, c color.RGBA) *Buffer {
	b := New(width, height, SpaceRGB)
	for i := 0; i < len(b.Pix); i += Channels {
		b.Pix[i] = c.R
		b.Pix[i+1] = c.G
		b.Pix[i+2] = c.B
	}
	return b
}

// FromImage copies any image.Image into an RGB buffer, dropping alpha.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := New(bounds.Dx(), bounds.Dy(), SpaceRGB)

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < b.Height; y++ {
			src := rgba.Pix[(y+bounds.Min.Y-rgba.Rect.Min.Y)*rgba.Stride+(bounds.Min.X-rgba.Rect.Min.X)*4:]
			dst := b.Pix[y*b.Width*Channels:]
			for x := 0; x < b.Width; x++ {
				dst[x*Channels] = src[x*4]
				dst[x*Channels+1] = src[x*4+1]
				dst[x*Channels+2] = src[x*4+2]
			}
		}
		return b
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			b.Pix[i] = uint8(r >> 8)
			b.Pix[i+1] = uint8(g >> 8)
			b.Pix[i+2] = uint8(bl >> 8)
			i += Channels
		}
	}
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() geometry.SizeInt {
	return geometry.SizeInt{Width: b.Width, Height: b.Height}
}

// SameSize reports whether two buffers have identical dimensions.
func (b *Buffer) SameSize(other *Buffer) bool {
	return b.Width == other.Width && b.Height == other.Height
}

// Valid reports whether the sample slice matches the dimensions.
func (b *Buffer) Valid() bool {
	return b.Width >= 0 && b.Height >= 0 && len(b.Pix) == b.Width*b.Height*Channels
}

// At returns the three samples of the pixel at (x, y).
func (b *Buffer) At(x, y int) [Channels]uint8 {
	i := (y*b.Width + x) * Channels
	return [Channels]uint8{b.Pix[i], b.Pix[i+1], b.Pix[i+2]}
}

// Crop copies the rectangle (x, y, w, h). The rectangle must be non-empty
// and fully contained in the buffer.
func (b *Buffer) Crop(x, y, w, h int) (*Buffer, error) {
	bounds := geometry.RectInt{Width: b.Width, Height: b.Height}
	req := geometry.RectInt{X: x, Y: y, Width: w, Height: h}
	if req.Empty() || !bounds.ContainsRect(req) {
		return nil, fmt.Errorf("crop %dx%d at (%d,%d) from %dx%d: %w", w, h, x, y, b.Width, b.Height, ErrOutOfBounds)
	}

	out := New(w, h, b.Space)
	rowBytes := w * Channels
	for row := 0; row < h; row++ {
		src := ((y+row)*b.Width + x) * Channels
		copy(out.Pix[row*rowBytes:(row+1)*rowBytes], b.Pix[src:src+rowBytes])
	}
	return out, nil
}

// View returns the w×h region at (x, y) of a canvas whose top-left corner
// holds the buffer. The region must lie inside the canvas; canvas pixels the
// buffer does not cover are black.
func (b *Buffer) View(canvas geometry.SizeInt, x, y, w, h int) (*Buffer, error) {
	bounds := geometry.RectInt{Width: canvas.Width, Height: canvas.Height}
	req := geometry.RectInt{X: x, Y: y, Width: w, Height: h}
	if req.Empty() || !bounds.ContainsRect(req) {
		return nil, fmt.Errorf("view %dx%d at (%d,%d) on %dx%d canvas: %w", w, h, x, y, canvas.Width, canvas.Height, ErrOutOfBounds)
	}

	out := New(w, h, b.Space)
	x0 := min(x, b.Width)
	x1 := min(x+w, b.Width)
	if x1 <= x0 {
		return out, nil
	}
	n := (x1 - x0) * Channels
	for row := 0; row < h; row++ {
		srcY := y + row
		if srcY >= b.Height {
			break
		}
		src := (srcY*b.Width + x0) * Channels
		dst := row * w * Channels
		copy(out.Pix[dst:dst+n], b.Pix[src:src+n])
	}
	return out, nil
}

// Channel extracts one channel as a flat row-major slice.
func (b *Buffer) Channel(index int) ([]uint8, error) {
	if index < 0 || index >= Channels {
		return nil, fmt.Errorf("channel %d: %w", index, ErrChannelRange)
	}
	out := make([]uint8, b.Width*b.Height)
	for i := range out {
		out[i] = b.Pix[i*Channels+index]
	}
	return out, nil
}

// ToHSV returns an HSV copy of the buffer. HSV buffers are returned unchanged.
func (b *Buffer) ToHSV() *Buffer {
	if b.Space == SpaceHSV {
		return b
	}
	out := New(b.Width, b.Height, SpaceHSV)
	for i := 0; i < len(b.Pix); i += Channels {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = colorutil.RGBToHSV(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
	}
	return out
}

// ToRGB returns an RGB copy of the buffer. RGB buffers are returned unchanged.
func (b *Buffer) ToRGB() *Buffer {
	if b.Space == SpaceRGB {
		return b
	}
	out := New(b.Width, b.Height, SpaceRGB)
	for i := 0; i < len(b.Pix); i += Channels {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = colorutil.HSVToRGB(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
	}
	return out
}

// ToImage renders the buffer as an opaque RGBA image.
func (b *Buffer) ToImage() *image.RGBA {
	rgb := b.ToRGB()
	img := image.NewRGBA(image.Rect(0, 0, rgb.Width, rgb.Height))
	for i, j := 0, 0; i < len(rgb.Pix); i, j = i+Channels, j+4 {
		img.Pix[j] = rgb.Pix[i]
		img.Pix[j+1] = rgb.Pix[i+1]
		img.Pix[j+2] = rgb.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
