package locks

import (
	"sync"
	"sync/atomic"
)

// WaitGroup is a condition-variable-based equivalent of sync.WaitGroup,
// used by the script-check pool (§4.2) so a waiter blocked in Wait can
// share the same cond var across repeated dispatch batches without
// reallocating.
type WaitGroup struct {
	counter  int64
	waitCond *sync.Cond
}

// NewWaitGroup returns a ready-to-use WaitGroup.
func NewWaitGroup() *WaitGroup {
	return &WaitGroup{
		waitCond: sync.NewCond(&sync.Mutex{}),
	}
}

// Add increments the outstanding count by one.
func (wg *WaitGroup) Add() {
	atomic.AddInt64(&wg.counter, 1)
}

// Done decrements the outstanding count by one, waking any Wait callers
// once it reaches zero.
func (wg *WaitGroup) Done() {
	counter := atomic.AddInt64(&wg.counter, -1)
	if counter < 0 {
		panic("negative values for wg.counter are not allowed. This was likely caused by calling Done() before Add()")
	}
	if atomic.LoadInt64(&wg.counter) == 0 {
		wg.waitCond.Broadcast()
	}
}

// Wait blocks until the outstanding count returns to zero.
func (wg *WaitGroup) Wait() {
	wg.waitCond.L.Lock()
	defer wg.waitCond.L.Unlock()
	for atomic.LoadInt64(&wg.counter) != 0 {
		wg.waitCond.Wait()
	}
}
