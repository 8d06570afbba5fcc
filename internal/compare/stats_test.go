package compare

import (
	"testing"

	"detailist/internal/image"
	"detailist/pkg/colorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeIdentical(t *testing.T) {
	a := gradient(64)
	s, err := Summarize(a, a)
	require.NoError(t, err)
	assert.True(t, s.Identical())
	assert.Equal(t, 64, s.Pixels)
	assert.Zero(t, s.Mean)
	assert.Zero(t, s.StdDev)
	assert.Zero(t, s.ChangedRatio)
	assert.Zero(t, s.HashDistance)
}

func TestSummarizeHalfChanged(t *testing.T) {
	a := image.New(10, 10, image.SpaceRGB)
	b := image.New(10, 10, image.SpaceRGB)
	for y := 0; y < 10; y++ {
		for x := 0; x < 5; x++ {
			i := (y*10 + x) * image.Channels
			b.Pix[i], b.Pix[i+1], b.Pix[i+2] = 255, 255, 255
		}
	}

	s, err := Summarize(a, b)
	require.NoError(t, err)
	assert.False(t, s.Identical())
	assert.InDelta(t, 0.5, s.ChangedRatio, 1e-9)
	assert.InDelta(t, 127.5, s.Mean, 1e-9)
	assert.InDelta(t, 128.14, s.StdDev, 0.01)
	assert.Equal(t, 255.0, s.Max)
	assert.Contains(t, s.String(), "changed 50.0%")
}

func TestSummarizeUsesLargestChannel(t *testing.T) {
	a := image.NewUniform(1, 1, colorutil.Black)
	b := image.NewUniform(1, 1, colorutil.Blue)
	s, err := Summarize(a, b)
	require.NoError(t, err)
	assert.Equal(t, 255.0, s.Max)
	assert.Zero(t, s.StdDev)
}

func TestSummarizeMismatch(t *testing.T) {
	_, err := Summarize(image.New(2, 2, image.SpaceRGB), image.New(3, 2, image.SpaceRGB))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSummarizeEmpty(t *testing.T) {
	s, err := Summarize(image.New(0, 0, image.SpaceRGB), image.New(0, 0, image.SpaceRGB))
	require.NoError(t, err)
	assert.Equal(t, Summary{}, s)
}
