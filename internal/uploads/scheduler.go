// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package uploads provides the upload lifecycle manager.
package uploads

import (
	"sync"
	"time"
)

// =============================================================================
// COMPLETION SCHEDULER
// =============================================================================

// Scheduler runs one-shot delayed callbacks keyed by record identity. A
// second Schedule for the same key replaces the pending callback. The key
// correlation is what keeps a fired callback correct even after the owning
// collection has been reordered or filtered: the callback looks its record
// up by id and no-ops when the record is gone.
//
// The fixed-delay completion this drives stands in for a real
// status-polling protocol against the backend; a poller can replace the
// timer here without the manager changing.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arranges for fn to run once after delay, keyed by id. Any
// pending callback for the same id is canceled first.
func (s *Scheduler) Schedule(id string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
	}

	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		fn()
	})
}

// Cancel stops the pending callback for id, if any. Returns true if a
// callback was pending.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, id)
	return true
}

// CancelAll stops every pending callback. Used at process teardown.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending returns the number of callbacks not yet fired.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
