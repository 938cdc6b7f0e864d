package game

import (
	"reflect"
	"testing"
	"time"
)

func TestSchedulerFiresInDueOrder(t *testing.T) {
	s := NewScheduler()
	var order []string

	s.After(30*time.Millisecond, func() { order = append(order, "c") })
	s.After(10*time.Millisecond, func() { order = append(order, "a") })
	s.After(10*time.Millisecond, func() { order = append(order, "b") })

	s.Advance(20 * time.Millisecond)
	if !reflect.DeepEqual(order, []string{"a", "b"}) {
		t.Fatalf("after 20ms: got %v, want [a b]", order)
	}

	s.Advance(10 * time.Millisecond)
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Fatalf("after 30ms: got %v, want [a b c]", order)
	}
	if s.Now() != 30*time.Millisecond {
		t.Errorf("Now: got %v, want 30ms", s.Now())
	}
}

func TestSchedulerChainedDelaysAreExact(t *testing.T) {
	s := NewScheduler()
	var firedAt []time.Duration

	s.After(500*time.Millisecond, func() {
		firedAt = append(firedAt, s.Now())
		s.After(1000*time.Millisecond, func() {
			firedAt = append(firedAt, s.Now())
		})
	})

	// 一个大步长同时覆盖两个阶段
	s.Advance(2 * time.Second)

	want := []time.Duration{500 * time.Millisecond, 1500 * time.Millisecond}
	if !reflect.DeepEqual(firedAt, want) {
		t.Errorf("fired at %v, want %v", firedAt, want)
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	fired := false
	id := s.After(time.Second, func() { fired = true })

	if !s.IsPending(id) {
		t.Fatal("timer should be pending")
	}
	if !s.Cancel(id) {
		t.Fatal("Cancel should report a pending timer")
	}
	if s.Cancel(id) {
		t.Error("second Cancel should report false")
	}

	s.Advance(2 * time.Second)
	if fired {
		t.Error("cancelled timer fired")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending: got %d, want 0", s.Pending())
	}
}

func TestSchedulerCloseRefusesNewTimers(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.After(time.Millisecond, func() { fired++ })
	s.After(time.Millisecond, func() { fired++ })

	s.Close()
	if s.Pending() != 0 {
		t.Errorf("Pending after Close: got %d, want 0", s.Pending())
	}
	if id := s.After(time.Millisecond, func() { fired++ }); id != 0 {
		t.Errorf("After on closed scheduler: got id %d, want 0", id)
	}

	s.Advance(time.Second)
	if fired != 0 {
		t.Errorf("fired %d timers after Close", fired)
	}
}

func TestSchedulerCloseFromCallbackStopsRemaining(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.After(time.Millisecond, func() {
		fired++
		s.Close()
	})
	s.After(2*time.Millisecond, func() { fired++ })

	s.Advance(time.Second)
	if fired != 1 {
		t.Errorf("fired: got %d, want 1", fired)
	}
}
