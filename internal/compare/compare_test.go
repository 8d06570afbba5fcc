package compare

import (
	"image/color"
	"testing"

	"detailist/internal/image"
	"detailist/pkg/colorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradient returns a w×1 buffer whose pixel x is gray level x*255/(w-1).
func gradient(w int) *image.Buffer {
	b := image.New(w, 1, image.SpaceRGB)
	for x := 0; x < w; x++ {
		v := uint8(x * 255 / (w - 1))
		b.Pix[x*3], b.Pix[x*3+1], b.Pix[x*3+2] = v, v, v
	}
	return b
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"Heatmap", ModeHeatmap},
		{"opacity", ModeOpacity},
		{"Simple Diff", ModeSimpleDiff},
		{"simplediff", ModeSimpleDiff},
		{"  HEATMAP ", ModeHeatmap},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseMode("sepia")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestModeStringRoundTrip(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	assert.Equal(t, "Unknown", Mode(42).String())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, Config{Mode: ModeOpacity, Strength: 1}.Validate())
	assert.NoError(t, Config{Mode: ModeOpacity, Strength: 100}.Validate())

	for _, cfg := range []Config{
		{Mode: ModeHeatmap, Strength: 0},
		{Mode: ModeHeatmap, Strength: 101},
		{Mode: Mode(-1), Strength: 50},
	} {
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, "%+v", cfg)
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	a := image.New(4, 4, image.SpaceRGB)
	b := image.New(4, 5, image.SpaceRGB)

	_, err := Compute(a, b, DefaultConfig())
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Compute(a, a, Config{Mode: ModeHeatmap, Strength: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSimpleDiffOfIdenticalIsBlack(t *testing.T) {
	b := gradient(64)
	out, err := Compute(b, b, Config{Mode: ModeSimpleDiff, Strength: 50})
	require.NoError(t, err)
	for _, v := range out.Pix {
		require.Zero(t, v)
	}
}

func TestIdenticalCapturesAreBlackInEveryMode(t *testing.T) {
	a := image.NewUniform(400, 400, color.RGBA{R: 17, G: 99, B: 201, A: 255})
	b := image.NewUniform(400, 400, color.RGBA{R: 17, G: 99, B: 201, A: 255})

	for _, m := range []Mode{ModeHeatmap, ModeSimpleDiff} {
		for _, s := range []int{1, 20, 100} {
			out, err := Compute(a, b, Config{Mode: m, Strength: s})
			require.NoError(t, err)
			assert.Equal(t, 400, out.Width)
			assert.Equal(t, 400, out.Height)
			for _, v := range out.Pix {
				require.Zero(t, v, "mode %s strength %d", m, s)
			}
		}
	}
}

func TestHeatmapIsRedScale(t *testing.T) {
	a := gradient(256)
	black := image.New(256, 1, image.SpaceRGB)

	out, err := Compute(a, black, Config{Mode: ModeHeatmap, Strength: 1})
	require.NoError(t, err)
	assert.Equal(t, image.SpaceRGB, out.Space)
	for x := 0; x < 256; x++ {
		px := out.At(x, 0)
		assert.Equal(t, uint8(x), px[0])
		assert.Zero(t, px[1])
		assert.Zero(t, px[2])
	}
}

func TestHeatmapSuppressionIsMonotonic(t *testing.T) {
	a := gradient(256)
	black := image.New(256, 1, image.SpaceRGB)

	lit := func(strength int) map[int]bool {
		out, err := Compute(a, black, Config{Mode: ModeHeatmap, Strength: strength})
		require.NoError(t, err)
		set := map[int]bool{}
		for x := 0; x < out.Width; x++ {
			if out.At(x, 0)[0] != 0 {
				set[x] = true
			}
		}
		return set
	}

	prev := lit(1)
	for s := 2; s <= 100; s++ {
		cur := lit(s)
		for x := range cur {
			assert.True(t, prev[x], "pixel %d lit at strength %d but not at %d", x, s, s-1)
		}
		prev = cur
	}
	// Only the brightest difference survives the maximum strength.
	assert.Equal(t, map[int]bool{255: true}, prev)
}

func TestHeatmapThreshold(t *testing.T) {
	assert.Equal(t, uint8(0), Config{Strength: 1}.HeatmapThreshold())
	assert.Equal(t, uint8(48), Config{Strength: 20}.HeatmapThreshold())
	assert.Equal(t, uint8(255), Config{Strength: 100}.HeatmapThreshold())
}

func TestOpacityEndpoints(t *testing.T) {
	a := gradient(32)
	b := image.NewUniform(32, 1, colorutil.Blue)

	first, err := Compute(a, b, Config{Mode: ModeOpacity, Strength: 1})
	require.NoError(t, err)
	assert.Equal(t, a.Pix, first.Pix)

	last, err := Compute(a, b, Config{Mode: ModeOpacity, Strength: 100})
	require.NoError(t, err)
	assert.Equal(t, b.Pix, last.Pix)
}

func TestOpacityRedOverBlueAtMidStrength(t *testing.T) {
	red := image.NewUniform(2, 2, colorutil.Red)
	blue := image.NewUniform(2, 2, colorutil.Blue)

	out, err := Compute(red, blue, Config{Mode: ModeOpacity, Strength: 50})
	require.NoError(t, err)

	px := out.At(1, 1)
	assert.InDelta(t, 128, int(px[0]), 2)
	assert.Zero(t, px[1])
	assert.InDelta(t, 127, int(px[2]), 2)
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	a := gradient(16)
	b := image.NewUniform(16, 1, colorutil.Red)
	aPix := append([]uint8(nil), a.Pix...)
	bPix := append([]uint8(nil), b.Pix...)

	for _, m := range Modes {
		_, err := Compute(a, b, Config{Mode: m, Strength: 60})
		require.NoError(t, err)
	}
	assert.Equal(t, aPix, a.Pix)
	assert.Equal(t, bPix, b.Pix)
}

func TestComputeAcceptsHSVInput(t *testing.T) {
	a := gradient(16)
	out, err := Compute(a.ToHSV(), a, Config{Mode: ModeSimpleDiff, Strength: 1})
	require.NoError(t, err)
	// The round trip through HSV may move a sample by one step at most.
	for _, v := range out.Pix {
		assert.LessOrEqual(t, v, uint8(1))
	}
}
