package viewport

import (
	"testing"

	"detailist/pkg/geometry"

	"github.com/stretchr/testify/assert"
)

func pt(x, y int) geometry.PointInt { return geometry.PointInt{X: x, Y: y} }

func TestBoundsValidate(t *testing.T) {
	assert.NoError(t, DefaultBounds().Validate())

	bad := []Bounds{
		{Canvas: geometry.SizeInt{Width: 100, Height: 100}, Window: geometry.SizeInt{Width: 0, Height: 10}},
		{Canvas: geometry.SizeInt{Width: 100, Height: 100}, Window: geometry.SizeInt{Width: 10, Height: -1}},
		{Canvas: geometry.SizeInt{Width: 100, Height: 100}, Window: geometry.SizeInt{Width: 101, Height: 10}},
		{Canvas: geometry.SizeInt{}, Window: geometry.SizeInt{Width: 1, Height: 1}},
	}
	for _, b := range bad {
		assert.ErrorIs(t, b.Validate(), ErrInvalidBounds, "%+v", b)
	}
}

func TestMaxOffset(t *testing.T) {
	assert.Equal(t, pt(6480, 2480), DefaultBounds().MaxOffset())
}

func TestAtClamps(t *testing.T) {
	v := New(DefaultBounds())
	tests := []struct {
		in, want geometry.PointInt
	}{
		{pt(10, 20), pt(10, 20)},
		{pt(-5, -1), pt(0, 0)},
		{pt(99999, 99999), pt(6480, 2480)},
		{pt(6480, 0), pt(6480, 0)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.At(tt.in).Offset(), "At(%v)", tt.in)
	}
}

func TestDragMovesAgainstPointer(t *testing.T) {
	v := New(DefaultBounds()).At(pt(100, 100))
	v = v.Drag(30, -10)
	assert.Equal(t, pt(70, 110), v.Offset())

	// Dragging past the origin stops there.
	v = v.Drag(500, 500)
	assert.Equal(t, pt(0, 0), v.Offset())
}

func TestNudge(t *testing.T) {
	steps := DefaultSteps()
	v := New(DefaultBounds()).At(pt(50, 50))

	assert.Equal(t, pt(51, 50), v.Nudge(Right, false, steps).Offset())
	assert.Equal(t, pt(49, 50), v.Nudge(Left, false, steps).Offset())
	assert.Equal(t, pt(50, 60), v.Nudge(Down, true, steps).Offset())
	assert.Equal(t, pt(50, 40), v.Nudge(Up, true, steps).Offset())
	assert.Equal(t, pt(50, 50), v.Nudge(Direction(9), true, steps).Offset())

	origin := New(DefaultBounds())
	assert.Equal(t, pt(0, 0), origin.Nudge(Up, true, steps).Offset())
}

func TestResetAndCopy(t *testing.T) {
	a := New(DefaultBounds()).At(pt(300, 12))
	b := New(DefaultBounds())

	assert.Equal(t, pt(300, 12), b.CopyFrom(a).Offset())
	assert.Equal(t, pt(300, 12), CenterAs(a, b).Offset())
	assert.Equal(t, pt(0, 0), a.Reset().Offset())
	// The source is a value and stays put.
	assert.Equal(t, pt(300, 12), a.Offset())
}

func TestCenterAsEqualsDirectSet(t *testing.T) {
	src := New(DefaultBounds()).At(pt(1234, 567))
	dst := New(DefaultBounds()).At(pt(9, 9))
	assert.Equal(t, dst.At(pt(1234, 567)), CenterAs(src, dst))
}

func TestCopyFromClampsToOwnBounds(t *testing.T) {
	wide := New(DefaultBounds()).At(pt(6000, 0))
	small := New(Bounds{
		Canvas: geometry.SizeInt{Width: 1000, Height: 1000},
		Window: geometry.SizeInt{Width: 400, Height: 400},
	})
	assert.Equal(t, pt(600, 0), small.CopyFrom(wide).Offset())
}

func TestWithBoundsReclamps(t *testing.T) {
	v := New(DefaultBounds()).At(pt(6480, 2480))
	b := DefaultBounds()
	b.Window = geometry.SizeInt{Width: 800, Height: 600}
	v = v.WithBounds(b)
	assert.Equal(t, pt(6080, 2280), v.Offset())
	assert.Equal(t, geometry.RectInt{X: 6080, Y: 2280, Width: 800, Height: 600}, v.Rect())
}

func TestApply(t *testing.T) {
	steps := Steps{Normal: 2, Fast: 20}
	v := New(DefaultBounds()).At(pt(100, 100))

	tests := []struct {
		op   Op
		want geometry.PointInt
	}{
		{DragOp(5, 5), pt(95, 95)},
		{NudgeOp(Right, false), pt(102, 100)},
		{NudgeOp(Down, true), pt(100, 120)},
		{ResetOp(), pt(0, 0)},
		{SetOp(7, 8), pt(7, 8)},
		{Op{Kind: OpKind(99)}, pt(100, 100)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.Apply(tt.op, steps).Offset(), "%s", tt.op.Kind)
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "Captured", Captured.String())
	assert.Equal(t, "Empty", Empty.String())
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "nudge", OpNudge.String())
}
