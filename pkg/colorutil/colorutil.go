// Package colorutil provides shared color utilities for the Detailist application.
package colorutil

import (
	"image/color"
	"math"
)

// Common colors used throughout the application.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Blue  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// RGBToHSV converts RGB (0-255) to byte-encoded HSV where hue, saturation and
// value all span 0-255. Hue is a full turn scaled onto 0-255 and truncated.
func RGBToHSV(r, g, b uint8) (h, s, v uint8) {
	maxC := max(r, g, b)
	minC := min(r, g, b)

	v = maxC
	if maxC == minC {
		return 0, 0, v
	}

	diff := float64(maxC) - float64(minC)
	sf := diff / float64(maxC)

	rc := (float64(maxC) - float64(r)) / diff
	gc := (float64(maxC) - float64(g)) / diff
	bc := (float64(maxC) - float64(b)) / diff

	var hf float64
	switch maxC {
	case r:
		hf = bc - gc
	case g:
		hf = 2 + rc - bc
	default:
		hf = 4 + gc - rc
	}
	if hf < 0 {
		hf += 6
	}

	return clip8(int(hf * 255 / 6)), clip8(int(sf * 255)), v
}

// HSVToRGB converts byte-encoded HSV back to RGB (0-255).
func HSVToRGB(h, s, v uint8) (r, g, b uint8) {
	if s == 0 {
		return v, v, v
	}

	hf := float64(h) * 6 / 255
	i := int(math.Floor(hf))
	f := hf - float64(i)
	fs := float64(s) / 255
	vf := float64(v)

	p := clip8(int(math.Round(vf * (1 - fs))))
	q := clip8(int(math.Round(vf * (1 - fs*f))))
	t := clip8(int(math.Round(vf * (1 - fs*(1-f)))))

	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// AbsDiff returns |a-b| for two 8-bit samples.
func AbsDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func clip8(x int) uint8 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}
