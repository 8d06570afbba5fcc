package app

import (
	"errors"
	"fmt"

	"detailist/internal/compare"
	"detailist/internal/image"
	"detailist/internal/viewport"
	"detailist/pkg/geometry"
)

// ErrNoDiff is returned when the diff is requested before one was computed.
var ErrNoDiff = errors.New("no diff computed")

// Target names one of the three displayed buffers.
type Target int

const (
	TargetSlot1 Target = iota
	TargetSlot2
	TargetDiff
)

func (t Target) String() string {
	switch t {
	case TargetSlot1:
		return "slot 1"
	case TargetSlot2:
		return "slot 2"
	case TargetDiff:
		return "diff"
	default:
		return "unknown"
	}
}

// TargetOf returns the target showing slot.
func TargetOf(slot Slot) Target {
	if slot == Slot2 {
		return TargetSlot2
	}
	return TargetSlot1
}

// visibleRegion cuts the window at the slot's viewport out of its capture.
func visibleRegion(st slotState, b viewport.Bounds) (*image.Buffer, error) {
	off := st.view.Offset()
	return st.buf.View(b.Canvas, off.X, off.Y, b.Window.Width, b.Window.Height)
}

// Visible returns what the given target currently shows: the window of a
// slot's capture at its viewport, or the last diff.
func (s *State) Visible(target Target) (*image.Buffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch target {
	case TargetSlot1, TargetSlot2:
		st := s.slots[int(target)]
		if st.state != viewport.Captured {
			return nil, fmt.Errorf("%s: %w", target, ErrSlotEmpty)
		}
		return visibleRegion(st, s.bounds)
	case TargetDiff:
		if s.diff == nil {
			return nil, ErrNoDiff
		}
		return s.diff, nil
	default:
		return nil, fmt.Errorf("target %d: %w", int(target), ErrUnknownSlot)
	}
}

// MoveViewport applies op to slot's viewport and schedules a recomputation
// if the offset changed.
func (s *State) MoveViewport(slot Slot, op viewport.Op) error {
	i, err := slot.index()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.slots[i].state != viewport.Captured {
		s.mu.Unlock()
		return fmt.Errorf("move %s: %w", slot, ErrSlotEmpty)
	}
	before := s.slots[i].view
	after := before.Apply(op, s.steps)
	s.slots[i].view = after
	s.mu.Unlock()

	if after.Offset() == before.Offset() {
		return nil
	}
	s.log.Debug().Stringer("slot", slot).Stringer("op", op.Kind).
		Int("x", after.Offset().X).Int("y", after.Offset().Y).Msg("viewport moved")
	s.Emit(EventViewportMoved, slot)
	s.scheduleRecompute()
	return nil
}

// CenterAs moves the viewport of to onto the offset of from.
func (s *State) CenterAs(from, to Slot) error {
	fi, err := from.index()
	if err != nil {
		return err
	}
	ti, err := to.index()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.slots[ti].state != viewport.Captured {
		s.mu.Unlock()
		return fmt.Errorf("center %s as %s: %w", to, from, ErrSlotEmpty)
	}
	before := s.slots[ti].view
	s.slots[ti].view = viewport.CenterAs(s.slots[fi].view, before)
	moved := s.slots[ti].view.Offset() != before.Offset()
	s.mu.Unlock()

	if moved {
		s.Emit(EventViewportMoved, to)
		s.scheduleRecompute()
	}
	return nil
}

// Resize changes the visible window. Both viewports are clamped to the new
// bounds.
func (s *State) Resize(width, height int) error {
	s.mu.Lock()
	b := s.bounds
	b.Window = geometry.SizeInt{Width: width, Height: height}
	if err := b.Validate(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("resize: %w: %w", compare.ErrInvalidConfig, err)
	}
	if b == s.bounds {
		s.mu.Unlock()
		return nil
	}
	s.bounds = b
	for i := range s.slots {
		s.slots[i].view = s.slots[i].view.WithBounds(b)
	}
	s.diff = nil
	s.summary = compare.Summary{}
	s.epoch++
	s.mu.Unlock()

	s.log.Info().Int("width", width).Int("height", height).Msg("window resized")
	s.Emit(EventResized, b.Window)
	s.scheduleRecompute()
	return nil
}

// SetSteps changes the nudge distances.
func (s *State) SetSteps(steps viewport.Steps) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = steps
}
