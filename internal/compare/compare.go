// Package compare computes visual difference buffers between two captures.
package compare

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"detailist/internal/image"
	"detailist/pkg/colorutil"
)

// Strength bounds for Config.Strength.
const (
	MinStrength = 1
	MaxStrength = 100

	DefaultStrength = 20
)

var (
	// ErrDimensionMismatch is returned when the inputs differ in size.
	ErrDimensionMismatch = errors.New("buffers differ in size")

	// ErrInvalidConfig is returned for an unknown mode or out-of-range strength.
	ErrInvalidConfig = errors.New("invalid comparison config")
)

// Mode selects how two buffers are compared.
type Mode int

const (
	ModeHeatmap Mode = iota
	ModeOpacity
	ModeSimpleDiff
)

// Modes lists every comparison mode in display order.
var Modes = []Mode{ModeHeatmap, ModeOpacity, ModeSimpleDiff}

func (m Mode) String() string {
	switch m {
	case ModeHeatmap:
		return "Heatmap"
	case ModeOpacity:
		return "Opacity"
	case ModeSimpleDiff:
		return "Simple Diff"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeHeatmap, ModeOpacity, ModeSimpleDiff:
		return true
	default:
		return false
	}
}

// ParseMode accepts a mode's display name, case-insensitively and with or
// without the space in "Simple Diff".
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, m := range Modes {
		if strings.ToLower(strings.ReplaceAll(m.String(), " ", "")) == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q: %w", s, ErrInvalidConfig)
}

// Config selects the comparison policy and its sensitivity.
type Config struct {
	Mode     Mode
	Strength int // 1-100
}

// DefaultConfig returns the heatmap at strength 20.
func DefaultConfig() Config {
	return Config{Mode: ModeHeatmap, Strength: DefaultStrength}
}

// Validate checks the mode and the strength range.
func (c Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("mode %d: %w", int(c.Mode), ErrInvalidConfig)
	}
	if c.Strength < MinStrength || c.Strength > MaxStrength {
		return fmt.Errorf("strength %d outside [%d,%d]: %w", c.Strength, MinStrength, MaxStrength, ErrInvalidConfig)
	}
	return nil
}

// translate maps strength from [1,100] linearly onto [lo,hi].
func translate(strength int, lo, hi float64) float64 {
	norm := float64(strength-MinStrength) / float64(MaxStrength-MinStrength)
	return lo + norm*(hi-lo)
}

// BlendFactor is the weight given to the second buffer in opacity mode.
func (c Config) BlendFactor() float64 {
	return translate(c.Strength, 0, 1)
}

// HeatmapThreshold is the HSV value below which heatmap pixels are dropped.
func (c Config) HeatmapThreshold() uint8 {
	return uint8(translate(c.Strength, 0, 255))
}

// Compute produces the comparison of a and b under cfg. Both inputs must
// have the same dimensions. The inputs are not modified.
func Compute(a, b *image.Buffer, cfg Config) (*image.Buffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !a.SameSize(b) {
		return nil, fmt.Errorf("%dx%d vs %dx%d: %w", a.Width, a.Height, b.Width, b.Height, ErrDimensionMismatch)
	}

	a, b = a.ToRGB(), b.ToRGB()

	switch cfg.Mode {
	case ModeSimpleDiff:
		return Difference(a, b), nil
	case ModeOpacity:
		return Blend(a, b, cfg.BlendFactor()), nil
	case ModeHeatmap:
		return Heatmap(a, b, cfg.HeatmapThreshold()), nil
	}
	return nil, fmt.Errorf("mode %d: %w", int(cfg.Mode), ErrInvalidConfig)
}

// Difference returns the per-channel absolute difference of two RGB buffers
// of equal size.
func Difference(a, b *image.Buffer) *image.Buffer {
	out := image.New(a.Width, a.Height, image.SpaceRGB)
	for i := range out.Pix {
		out.Pix[i] = colorutil.AbsDiff(a.Pix[i], b.Pix[i])
	}
	return out
}

// Blend returns a*(1-t) + b*t for two RGB buffers of equal size.
func Blend(a, b *image.Buffer, t float64) *image.Buffer {
	out := image.New(a.Width, a.Height, image.SpaceRGB)
	for i := range out.Pix {
		v := float64(a.Pix[i])*(1-t) + float64(b.Pix[i])*t
		out.Pix[i] = uint8(math.Max(0, math.Min(255, math.Round(v))))
	}
	return out
}

// Heatmap renders the difference of two RGB buffers as a red scale whose
// brightness is the HSV value of the difference. Pixels whose value is below
// threshold are black.
func Heatmap(a, b *image.Buffer, threshold uint8) *image.Buffer {
	diff := Difference(a, b).ToHSV()
	for i := 0; i < len(diff.Pix); i += image.Channels {
		if diff.Pix[i+2] < threshold {
			diff.Pix[i], diff.Pix[i+1], diff.Pix[i+2] = 0, 0, 0
			continue
		}
		diff.Pix[i] = 0
		diff.Pix[i+1] = 255
	}
	return diff.ToRGB()
}
