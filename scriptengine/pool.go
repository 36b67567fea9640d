// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptengine

import (
	"sync"
	"sync/atomic"

	"github.com/novacore/novad/util/locks"
)

// Pool is the bounded worker pool of §4.2: a FIFO of ScriptCheck jobs
// consumed by 0..MaxWorkers goroutines. The controller pushes a batch
// while holding the chain lock, then drains; any single failure fails
// the whole batch and discards remaining work. Setting MaxWorkers to 0
// runs every check inline on the calling goroutine.
type Pool struct {
	maxWorkers int
}

// NewPool returns a Pool with the given worker count. A count of 0 means
// "run inline," matching §4.2's "setting the thread count to 0."
func NewPool(maxWorkers int) *Pool {
	if maxWorkers < 0 {
		maxWorkers = 0
	}
	return &Pool{maxWorkers: maxWorkers}
}

// job is the minimal interface Dispatch needs; *ScriptCheck implements
// it. Kept unexported so tests can substitute fakes without pulling in a
// real Verifier.
type job interface {
	Run() error
}

// Dispatch runs every check in the batch, stopping early and discarding
// remaining work on the first failure. Cancellation is cooperative: each
// worker checks a shared atomic abort flag at its loop entry (§5).
func (p *Pool) Dispatch(checks []*ScriptCheck) error {
	jobsIface := make([]job, len(checks))
	for i, c := range checks {
		jobsIface[i] = c
	}
	return p.dispatch(jobsIface)
}

func (p *Pool) dispatch(checks []job) error {
	if p.maxWorkers == 0 || len(checks) <= 1 {
		for _, c := range checks {
			if err := c.Run(); err != nil {
				return err
			}
		}
		return nil
	}

	var abort atomic.Bool
	var firstErr error
	var errMu sync.Mutex

	jobCh := make(chan job)
	wg := locks.NewWaitGroup()

	workers := p.maxWorkers
	if workers > len(checks) {
		workers = len(checks)
	}
	for i := 0; i < workers; i++ {
		wg.Add()
		locks.Spawn(func() {
			defer wg.Done()
			for j := range jobCh {
				if abort.Load() {
					continue
				}
				if err := j.Run(); err != nil {
					abort.Store(true)
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
				}
			}
		})
	}

	for _, c := range checks {
		jobCh <- c
	}
	close(jobCh)
	wg.Wait()

	return firstErr
}
