// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptengine

import (
	"errors"
	"sync/atomic"
	"testing"
)

type fakeJob struct {
	fail bool
	ran  *atomic.Int32
}

func (f *fakeJob) Run() error {
	f.ran.Add(1)
	if f.fail {
		return errors.New("script verification failed")
	}
	return nil
}

func TestDispatchAllSucceed(t *testing.T) {
	var ran atomic.Int32
	p := NewPool(4)
	jobs := make([]job, 8)
	for i := range jobs {
		jobs[i] = &fakeJob{ran: &ran}
	}
	if err := p.dispatch(jobs); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if ran.Load() != 8 {
		t.Fatalf("expected all 8 jobs to run, got %d", ran.Load())
	}
}

func TestDispatchFailurePropagates(t *testing.T) {
	var ran atomic.Int32
	p := NewPool(4)
	jobs := []job{
		&fakeJob{ran: &ran},
		&fakeJob{ran: &ran, fail: true},
		&fakeJob{ran: &ran},
	}
	if err := p.dispatch(jobs); err == nil {
		t.Fatalf("expected dispatch to report the failing job's error")
	}
}

func TestDispatchInline(t *testing.T) {
	var ran atomic.Int32
	p := NewPool(0)
	jobs := []job{&fakeJob{ran: &ran}, &fakeJob{ran: &ran, fail: true}, &fakeJob{ran: &ran}}
	err := p.dispatch(jobs)
	if err == nil {
		t.Fatalf("expected inline dispatch to surface the failure")
	}
	// Inline mode stops at the first failure, so the third job never runs.
	if ran.Load() != 2 {
		t.Fatalf("expected inline dispatch to stop after the failing job, ran=%d", ran.Load())
	}
}
