package canvas

import (
	"testing"

	"detailist/internal/viewport"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
)

func TestDragAccumulatorCarriesRemainder(t *testing.T) {
	var a dragAccumulator

	dx, dy := a.add(0.5, -0.75)
	assert.Equal(t, 0, dx)
	assert.Equal(t, 0, dy)

	dx, dy = a.add(0.75, -0.5)
	assert.Equal(t, 1, dx)
	assert.Equal(t, -1, dy)

	dx, dy = a.add(3, 0)
	assert.Equal(t, 3, dx)
	assert.Equal(t, 0, dy)

	a.reset()
	dx, dy = a.add(0.5, 0.5)
	assert.Equal(t, 0, dx)
	assert.Equal(t, 0, dy)
}

func TestKeyDirection(t *testing.T) {
	tests := []struct {
		key  fyne.KeyName
		want viewport.Direction
	}{
		{fyne.KeyUp, viewport.Up},
		{fyne.KeyDown, viewport.Down},
		{fyne.KeyLeft, viewport.Left},
		{fyne.KeyRight, viewport.Right},
	}
	for _, tt := range tests {
		got, ok := keyDirection(tt.key)
		assert.True(t, ok, string(tt.key))
		assert.Equal(t, tt.want, got)
	}

	_, ok := keyDirection(fyne.KeyA)
	assert.False(t, ok)
}
