package viewport

import "detailist/pkg/geometry"

// Direction is a nudge direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Unit is the one-pixel offset change for d. Right and Down increase the offset.
func (d Direction) Unit() geometry.PointInt {
	switch d {
	case Up:
		return geometry.PointInt{Y: -1}
	case Down:
		return geometry.PointInt{Y: 1}
	case Left:
		return geometry.PointInt{X: -1}
	case Right:
		return geometry.PointInt{X: 1}
	default:
		return geometry.PointInt{}
	}
}

// OpKind enumerates the movements a host can request.
type OpKind int

const (
	OpDrag OpKind = iota
	OpNudge
	OpReset
	OpSet
)

func (k OpKind) String() string {
	switch k {
	case OpDrag:
		return "drag"
	case OpNudge:
		return "nudge"
	case OpReset:
		return "reset"
	case OpSet:
		return "set"
	default:
		return "unknown"
	}
}

// Op is a single viewport movement.
type Op struct {
	Kind      OpKind
	Delta     geometry.PointInt // OpDrag: pointer delta; OpSet: absolute offset
	Direction Direction         // OpNudge
	Magnified bool              // OpNudge
}

// DragOp follows a pointer moved by (dx, dy).
func DragOp(dx, dy int) Op {
	return Op{Kind: OpDrag, Delta: geometry.PointInt{X: dx, Y: dy}}
}

// NudgeOp moves one step in d.
func NudgeOp(d Direction, magnified bool) Op {
	return Op{Kind: OpNudge, Direction: d, Magnified: magnified}
}

// ResetOp moves back to the origin.
func ResetOp() Op {
	return Op{Kind: OpReset}
}

// SetOp moves to an absolute offset.
func SetOp(x, y int) Op {
	return Op{Kind: OpSet, Delta: geometry.PointInt{X: x, Y: y}}
}

// Apply performs op on v.
func (v Viewport) Apply(op Op, steps Steps) Viewport {
	switch op.Kind {
	case OpDrag:
		return v.Drag(op.Delta.X, op.Delta.Y)
	case OpNudge:
		return v.Nudge(op.Direction, op.Magnified, steps)
	case OpReset:
		return v.Reset()
	case OpSet:
		return v.At(op.Delta)
	default:
		return v
	}
}
