package app

import "sync/atomic"

// opGuard admits one caller at a time to an operation. Callers that find it
// held are turned away instead of waiting.
type opGuard struct {
	running atomic.Bool
}

// TryAcquire claims the guard. On success the returned func releases it and
// must be called exactly once, normally with defer.
func (g *opGuard) TryAcquire() (release func(), ok bool) {
	if !g.running.CompareAndSwap(false, true) {
		return nil, false
	}
	return func() { g.running.Store(false) }, true
}

// Running reports whether the guard is currently held.
func (g *opGuard) Running() bool {
	return g.running.Load()
}
