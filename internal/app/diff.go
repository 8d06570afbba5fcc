package app

import (
	"errors"
	"fmt"

	"detailist/internal/alignment"
	"detailist/internal/compare"
	"detailist/internal/viewport"
	"detailist/pkg/geometry"
)

// scheduleRecompute asks for a recomputation after the debounce interval.
// A run that finds a computation in flight marks it due again, so the last
// trigger is always followed by a fresh diff.
func (s *State) scheduleRecompute() {
	s.debounce.Trigger(func() {
		err := s.recompute(true)
		switch {
		case err == nil, errors.Is(err, ErrInProgress), errors.Is(err, ErrSlotEmpty):
		default:
			s.log.Warn().Err(err).Msg("scheduled recompute failed")
		}
	})
}

// RecomputeDiff compares the visible regions of both slots now. A call made
// while another computation runs returns ErrInProgress and changes nothing.
func (s *State) RecomputeDiff() error {
	return s.recompute(false)
}

func (s *State) recompute(followUp bool) error {
	for {
		release, ok := s.calculating.TryAcquire()
		if !ok {
			if followUp {
				s.recomputeDue.Store(true)
			}
			return ErrInProgress
		}
		s.recomputeDue.Store(false)
		err := func() error {
			defer release()
			return s.computeOnce()
		}()
		if err != nil || !s.recomputeDue.Load() {
			return err
		}
	}
}

func (s *State) computeOnce() error {
	s.mu.RLock()
	if !s.bothCaptured() {
		s.mu.RUnlock()
		return fmt.Errorf("recompute: %w", ErrSlotEmpty)
	}
	a, b := s.slots[0], s.slots[1]
	bounds, cfg, epoch := s.bounds, s.cfg, s.epoch
	s.mu.RUnlock()

	va, err := visibleRegion(a, bounds)
	if err != nil {
		return fmt.Errorf("recompute %s: %w", Slot1, err)
	}
	vb, err := visibleRegion(b, bounds)
	if err != nil {
		return fmt.Errorf("recompute %s: %w", Slot2, err)
	}

	out, err := compare.Compute(va, vb, cfg)
	if err != nil {
		return fmt.Errorf("recompute: %w", err)
	}
	summary, err := compare.Summarize(va, vb)
	if err != nil {
		s.log.Warn().Err(err).Msg("diff summary incomplete")
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.log.Debug().Msg("discarding diff computed from replaced captures")
		return nil
	}
	s.diff = out
	s.summary = summary
	s.mu.Unlock()

	s.log.Debug().Stringer("mode", cfg.Mode).Int("strength", cfg.Strength).
		Float64("changed", summary.ChangedRatio).Msg("diff computed")
	s.Emit(EventDiffComputed, DiffResult{Buffer: out, Summary: summary, Config: cfg})
	return nil
}

// AutoAlign estimates how the visible region of slot 2 is shifted against
// slot 1 and moves slot 2's viewport to cancel the shift. A call made while
// another alignment runs returns ErrInProgress.
func (s *State) AutoAlign() (alignment.Result, error) {
	release, ok := s.aligning.TryAcquire()
	if !ok {
		return alignment.Result{}, ErrInProgress
	}
	defer release()

	s.mu.RLock()
	if !s.bothCaptured() {
		s.mu.RUnlock()
		return alignment.Result{}, ErrAlignmentUnavailable
	}
	a, b := s.slots[0], s.slots[1]
	bounds, epoch := s.bounds, s.epoch
	s.mu.RUnlock()

	va, err := visibleRegion(a, bounds)
	if err != nil {
		return alignment.Result{}, err
	}
	vb, err := visibleRegion(b, bounds)
	if err != nil {
		return alignment.Result{}, err
	}
	res, err := alignment.AutoAlign(va, vb)
	if err != nil {
		return alignment.Result{}, err
	}

	s.mu.Lock()
	if s.epoch != epoch || s.slots[1].state != viewport.Captured {
		s.mu.Unlock()
		return alignment.Result{}, ErrAlignmentUnavailable
	}
	before := s.slots[1].view
	s.slots[1].view = before.MoveBy(geometry.PointInt{X: -res.DX, Y: -res.DY})
	moved := s.slots[1].view.Offset() != before.Offset()
	s.mu.Unlock()

	s.log.Info().Int("dx", res.DX).Int("dy", res.DY).Int("channel", res.Channel).Msg("auto aligned")
	s.Emit(EventAligned, res)
	if moved {
		s.Emit(EventViewportMoved, Slot2)
		s.scheduleRecompute()
	}
	return res, nil
}
