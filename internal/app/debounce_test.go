package app

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var runs, last atomic.Int64
	for i := 1; i <= 5; i++ {
		i := int64(i)
		d.Trigger(func() {
			runs.Add(1)
			last.Store(i)
		})
	}
	assert.True(t, d.Pending())

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), runs.Load())
	assert.Equal(t, int64(5), last.Load())
	assert.False(t, d.Pending())
}

func TestDebouncerZeroDelayIsSynchronous(t *testing.T) {
	d := NewDebouncer(0)
	ran := false
	d.Trigger(func() { ran = true })
	assert.True(t, ran)
	assert.False(t, d.Pending())
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	var runs atomic.Int64
	d.Trigger(func() { runs.Add(1) })
	d.Cancel()
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, runs.Load())

	d.Trigger(func() { runs.Add(1) })
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var runs atomic.Int64
	d.Trigger(func() { runs.Add(1) })
	d.Stop()
	d.Trigger(func() { runs.Add(1) })
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, runs.Load())
	assert.Equal(t, 10*time.Millisecond, d.Delay())
}

func TestDebouncedSessionRecomputes(t *testing.T) {
	s, err := NewState(WithBounds(testBounds()), WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer s.Close()

	var computed atomic.Int64
	s.On(EventDiffComputed, func(interface{}) { computed.Add(1) })

	require.NoError(t, s.CaptureInto(Slot1, scene(0, 0)))
	require.NoError(t, s.CaptureInto(Slot2, scene(0, 0)))

	require.Eventually(t, func() bool { return computed.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.NotNil(t, s.Diff())
}

func TestOpGuard(t *testing.T) {
	var g opGuard
	release, ok := g.TryAcquire()
	require.True(t, ok)
	assert.True(t, g.Running())

	_, ok = g.TryAcquire()
	assert.False(t, ok)

	release()
	assert.False(t, g.Running())
	release2, ok := g.TryAcquire()
	require.True(t, ok)
	release2()
}
