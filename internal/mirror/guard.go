package mirror

import "sync/atomic"

// reentrancyGuard is the single-flag non-reentrant lock of the contract:
// while one settlement is in flight, any further entry is rejected
// outright rather than queued. exit must only be called after a
// successful enter.
type reentrancyGuard struct {
	locked atomic.Bool
}

func (g *reentrancyGuard) enter() bool {
	return g.locked.CompareAndSwap(false, true)
}

func (g *reentrancyGuard) exit() {
	g.locked.Store(false)
}
