// Package app holds the comparison session: two capture slots with their
// viewports, the comparison settings, the current diff, and the events the
// desktop and command-line hosts listen to.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"detailist/internal/compare"
	"detailist/internal/image"
	"detailist/internal/viewport"

	"github.com/rs/zerolog"
)

var (
	ErrSlotOccupied         = errors.New("slot already holds a capture")
	ErrSlotEmpty            = errors.New("slot is empty")
	ErrAlignmentUnavailable = errors.New("alignment needs two captures")
	ErrInProgress           = errors.New("operation already in progress")
	ErrNoRecognizer         = errors.New("no text recognizer configured")
	ErrUnknownSlot          = errors.New("unknown slot")
)

// Slot identifies one of the two capture positions.
type Slot int

const (
	Slot1 Slot = 1 // left
	Slot2 Slot = 2 // right
)

// Slots lists both slots in fill order.
var Slots = []Slot{Slot1, Slot2}

func (s Slot) String() string {
	switch s {
	case Slot1:
		return "slot 1"
	case Slot2:
		return "slot 2"
	default:
		return fmt.Sprintf("slot %d", int(s))
	}
}

// Other returns the opposite slot.
func (s Slot) Other() Slot {
	if s == Slot1 {
		return Slot2
	}
	return Slot1
}

func (s Slot) index() (int, error) {
	switch s {
	case Slot1, Slot2:
		return int(s) - 1, nil
	default:
		return 0, fmt.Errorf("%d: %w", int(s), ErrUnknownSlot)
	}
}

// EventType identifies session events.
type EventType int

const (
	EventCaptured      EventType = iota // data: Slot
	EventCleared                        // data: Slot
	EventViewportMoved                  // data: Slot
	EventConfigChanged                  // data: compare.Config
	EventDiffComputed                   // data: DiffResult
	EventAligned                        // data: alignment.Result
	EventResized                        // data: geometry.SizeInt
)

func (e EventType) String() string {
	switch e {
	case EventCaptured:
		return "captured"
	case EventCleared:
		return "cleared"
	case EventViewportMoved:
		return "viewport_moved"
	case EventConfigChanged:
		return "config_changed"
	case EventDiffComputed:
		return "diff_computed"
	case EventAligned:
		return "aligned"
	case EventResized:
		return "resized"
	default:
		return "unknown"
	}
}

// EventListener is called when an event occurs. Listeners may run on a
// timer goroutine and must not block.
type EventListener func(data interface{})

// TextRecognizer extracts text from a PNG-encoded image.
type TextRecognizer interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}

// DiffResult is the payload of EventDiffComputed.
type DiffResult struct {
	Buffer  *image.Buffer
	Summary compare.Summary
	Config  compare.Config
}

type slotState struct {
	state viewport.State
	buf   *image.Buffer
	view  viewport.Viewport
}

// State is the comparison session shared by the hosts. All methods are safe
// for concurrent use.
type State struct {
	mu sync.RWMutex

	slots  [2]slotState
	bounds viewport.Bounds
	steps  viewport.Steps
	cfg    compare.Config

	diff    *image.Buffer
	summary compare.Summary
	// epoch changes whenever a slot's content changes, so a computation
	// started before a capture or clear cannot publish its result after it.
	epoch uint64

	listeners map[EventType][]EventListener

	calculating  opGuard
	aligning     opGuard
	recomputeDue atomic.Bool
	debounce     *Debouncer

	recognizer TextRecognizer
	log        zerolog.Logger
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *State) { s.log = l.With().Str("component", "session").Logger() }
}

// WithBounds sets the canvas and window sizes.
func WithBounds(b viewport.Bounds) Option {
	return func(s *State) { s.bounds = b }
}

// WithSteps sets the nudge distances.
func WithSteps(st viewport.Steps) Option {
	return func(s *State) { s.steps = st }
}

// WithCompareConfig sets the initial comparison settings.
func WithCompareConfig(c compare.Config) Option {
	return func(s *State) { s.cfg = c }
}

// WithDebounce sets the recomputation delay. Zero recomputes synchronously.
func WithDebounce(d time.Duration) Option {
	return func(s *State) { s.debounce = NewDebouncer(d) }
}

// WithRecognizer sets the text recognizer used by RecognizeText.
func WithRecognizer(r TextRecognizer) Option {
	return func(s *State) { s.recognizer = r }
}

// NewState creates a session with both slots empty.
func NewState(opts ...Option) (*State, error) {
	s := &State{
		bounds:    viewport.DefaultBounds(),
		steps:     viewport.DefaultSteps(),
		cfg:       compare.DefaultConfig(),
		listeners: make(map[EventType][]EventListener),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.debounce == nil {
		s.debounce = NewDebouncer(DefaultDebounce)
	}
	if err := s.bounds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", compare.ErrInvalidConfig, err)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	for i := range s.slots {
		s.slots[i].view = viewport.New(s.bounds)
	}
	return s, nil
}

// Close cancels any pending recomputation.
func (s *State) Close() {
	s.debounce.Stop()
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SlotState reports whether slot holds a capture.
func (s *State) SlotState(slot Slot) viewport.State {
	i, err := slot.index()
	if err != nil {
		return viewport.Empty
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[i].state
}

// Buffer returns the full capture held by slot, or nil.
func (s *State) Buffer(slot Slot) *image.Buffer {
	i, err := slot.index()
	if err != nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[i].buf
}

// Viewport returns slot's viewport.
func (s *State) Viewport(slot Slot) viewport.Viewport {
	i, err := slot.index()
	if err != nil {
		return viewport.New(s.Bounds())
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[i].view
}

// Bounds returns the canvas and window sizes.
func (s *State) Bounds() viewport.Bounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

// Config returns the current comparison settings.
func (s *State) Config() compare.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Diff returns the most recent comparison result, or nil.
func (s *State) Diff() *image.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diff
}

// Summary returns statistics for the most recent comparison.
func (s *State) Summary() (compare.Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary, s.diff != nil
}

// Ready reports whether both slots hold captures.
func (s *State) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bothCaptured()
}

func (s *State) bothCaptured() bool {
	return s.slots[0].state == viewport.Captured && s.slots[1].state == viewport.Captured
}

// CaptureInto commits buf to slot.
func (s *State) CaptureInto(slot Slot, buf *image.Buffer) error {
	i, err := slot.index()
	if err != nil {
		return err
	}
	if buf == nil || !buf.Valid() {
		return fmt.Errorf("capture into %s: malformed buffer", slot)
	}

	s.mu.Lock()
	if s.bothCaptured() {
		s.mu.Unlock()
		return fmt.Errorf("capture into %s: both slots captured: %w", slot, ErrSlotOccupied)
	}
	if s.slots[i].state == viewport.Captured {
		s.mu.Unlock()
		return fmt.Errorf("capture into %s: %w", slot, ErrSlotOccupied)
	}
	s.slots[i] = slotState{state: viewport.Captured, buf: buf.ToRGB(), view: viewport.New(s.bounds)}
	s.epoch++
	ready := s.bothCaptured()
	s.mu.Unlock()

	s.log.Info().Stringer("slot", slot).Int("width", buf.Width).Int("height", buf.Height).Msg("captured")
	s.Emit(EventCaptured, slot)
	if ready {
		s.scheduleRecompute()
	}
	return nil
}

// Capture commits buf to slot 1 if it is empty, otherwise to slot 2.
func (s *State) Capture(buf *image.Buffer) (Slot, error) {
	s.mu.RLock()
	slot := Slot1
	if s.slots[0].state == viewport.Captured {
		slot = Slot2
	}
	s.mu.RUnlock()

	if err := s.CaptureInto(slot, buf); err != nil {
		return 0, err
	}
	return slot, nil
}

// Clear releases slot's capture, resets its viewport and drops the diff.
func (s *State) Clear(slot Slot) error {
	i, err := slot.index()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.slots[i].state != viewport.Captured {
		s.mu.Unlock()
		return fmt.Errorf("clear %s: %w", slot, ErrSlotEmpty)
	}
	s.slots[i] = slotState{view: viewport.New(s.bounds)}
	s.diff = nil
	s.summary = compare.Summary{}
	s.epoch++
	s.mu.Unlock()

	s.debounce.Cancel()
	s.log.Info().Stringer("slot", slot).Msg("cleared")
	s.Emit(EventCleared, slot)
	return nil
}

// ClearLast clears slot 2 if it holds a capture, otherwise slot 1.
func (s *State) ClearLast() (Slot, error) {
	s.mu.RLock()
	slot := Slot(0)
	switch {
	case s.slots[1].state == viewport.Captured:
		slot = Slot2
	case s.slots[0].state == viewport.Captured:
		slot = Slot1
	}
	s.mu.RUnlock()

	if slot == 0 {
		return 0, fmt.Errorf("clear last: %w", ErrSlotEmpty)
	}
	return slot, s.Clear(slot)
}

// SetConfig replaces the comparison settings.
func (s *State) SetConfig(cfg compare.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	changed := s.cfg != cfg
	s.cfg = cfg
	s.mu.Unlock()

	if !changed {
		return nil
	}
	s.log.Debug().Stringer("mode", cfg.Mode).Int("strength", cfg.Strength).Msg("config changed")
	s.Emit(EventConfigChanged, cfg)
	s.scheduleRecompute()
	return nil
}

// Export encodes the given target as PNG.
func (s *State) Export(target Target) ([]byte, error) {
	buf, err := s.Visible(target)
	if err != nil {
		return nil, err
	}
	return buf.PNG()
}

// ExportTo writes the given target to w as PNG.
func (s *State) ExportTo(w io.Writer, target Target) error {
	buf, err := s.Visible(target)
	if err != nil {
		return err
	}
	return buf.EncodePNG(w)
}

// RecognizeText runs text recognition on the visible region of slot. The
// recognizer's result and error are returned unchanged.
func (s *State) RecognizeText(ctx context.Context, slot Slot) (string, error) {
	s.mu.RLock()
	r := s.recognizer
	s.mu.RUnlock()
	if r == nil {
		return "", ErrNoRecognizer
	}

	data, err := s.Export(TargetOf(slot))
	if err != nil {
		return "", err
	}
	s.log.Debug().Stringer("slot", slot).Int("bytes", len(data)).Msg("recognizing text")
	return r.Recognize(ctx, data)
}
