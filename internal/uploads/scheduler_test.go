// Copyright (c) 2024-2025 Expansion Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package uploads

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_FiresOnce(t *testing.T) {
	s := NewScheduler()
	var fired int32

	s.Schedule("a", 10*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	time.Sleep(100 * time.Millisecond)

	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Errorf("callback fired %d times, want 1", got)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d after fire, want 0", s.Pending())
	}
}

func TestScheduler_Cancel(t *testing.T) {
	s := NewScheduler()
	var fired int32

	s.Schedule("a", 20*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	if !s.Cancel("a") {
		t.Error("Cancel of pending callback returned false")
	}
	if s.Cancel("a") {
		t.Error("second Cancel returned true")
	}

	time.Sleep(80 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("canceled callback fired")
	}
}

func TestScheduler_RescheduleReplacesPending(t *testing.T) {
	s := NewScheduler()
	var first, second int32

	s.Schedule("a", 20*time.Millisecond, func() { atomic.AddInt32(&first, 1) })
	s.Schedule("a", 20*time.Millisecond, func() { atomic.AddInt32(&second, 1) })

	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&first) != 0 {
		t.Error("replaced callback still fired")
	}
	if atomic.LoadInt32(&second) != 1 {
		t.Error("replacement callback did not fire")
	}
}

func TestScheduler_CancelAll(t *testing.T) {
	s := NewScheduler()
	var fired int32

	for _, id := range []string{"a", "b", "c"} {
		s.Schedule(id, 20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	}
	if s.Pending() != 3 {
		t.Fatalf("Pending = %d, want 3", s.Pending())
	}

	s.CancelAll()

	if s.Pending() != 0 {
		t.Errorf("Pending = %d after CancelAll", s.Pending())
	}
	time.Sleep(80 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Errorf("%d callbacks fired after CancelAll", atomic.LoadInt32(&fired))
	}
}

func TestScheduler_IndependentKeys(t *testing.T) {
	s := NewScheduler()
	var a, b int32

	s.Schedule("a", 10*time.Millisecond, func() { atomic.AddInt32(&a, 1) })
	s.Schedule("b", 10*time.Millisecond, func() { atomic.AddInt32(&b, 1) })
	s.Cancel("a")

	time.Sleep(80 * time.Millisecond)

	if atomic.LoadInt32(&a) != 0 {
		t.Error("canceled key fired")
	}
	if atomic.LoadInt32(&b) != 1 {
		t.Error("sibling key did not fire")
	}
}
