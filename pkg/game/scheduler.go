package game

import (
	"container/heap"
	"time"
)

// TimerID identifies a scheduled callback. The zero value never refers to a live timer.
type TimerID uint64

// Scheduler is a virtual-clock timer queue driven by the frame loop.
//
// All "waiting" in the experience is expressed as a callback scheduled here;
// nothing blocks and nothing runs on another goroutine. Callbacks only run
// from inside Advance, in due-time order (ties broken by scheduling order).
//
// A callback that schedules another timer measures the new delay from its
// own due time rather than from the end of the frame, so chained delays
// (fade -> text delay -> typewriter ticks) stay exact at any frame rate.
//
// Thread Safety Note:
// Scheduler is NOT safe for concurrent use. It is owned by the single game loop.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	queue  timerQueue
	byID   map[TimerID]*timer
	closed bool
}

type timer struct {
	id    TimerID
	due   time.Duration
	seq   uint64
	fn    func()
	index int
}

// NewScheduler creates an empty scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{
		byID: make(map[TimerID]*timer),
	}
}

// Now returns the virtual time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once, delay after the current virtual time.
// A non-positive delay fires on the next Advance call.
// After returns the zero TimerID and schedules nothing once the scheduler is closed.
func (s *Scheduler) After(delay time.Duration, fn func()) TimerID {
	if s.closed || fn == nil {
		return 0
	}
	if delay < 0 {
		delay = 0
	}

	s.seq++
	t := &timer{
		id:  TimerID(s.seq),
		due: s.now + delay,
		seq: s.seq,
		fn:  fn,
	}
	heap.Push(&s.queue, t)
	s.byID[t.id] = t
	return t.id
}

// Cancel removes a pending timer. It reports whether the timer was still pending.
func (s *Scheduler) Cancel(id TimerID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&s.queue, t.index)
	delete(s.byID, id)
	return true
}

// IsPending reports whether the timer has neither fired nor been cancelled.
func (s *Scheduler) IsPending(id TimerID) bool {
	_, ok := s.byID[id]
	return ok
}

// Pending returns the number of timers waiting to fire.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// CancelAll drops every pending timer.
func (s *Scheduler) CancelAll() {
	s.queue = nil
	s.byID = make(map[TimerID]*timer)
}

// Close cancels all pending timers and refuses new ones.
func (s *Scheduler) Close() {
	s.CancelAll()
	s.closed = true
}

// Advance moves the virtual clock forward by dt, running every timer that
// comes due on the way. Timers scheduled by callbacks that fall inside the
// same window also run before Advance returns.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt

	for len(s.queue) > 0 && !s.closed {
		next := s.queue[0]
		if next.due > target {
			break
		}
		heap.Pop(&s.queue)
		delete(s.byID, next.id)

		s.now = next.due
		next.fn()
	}

	if !s.closed {
		s.now = target
	}
}

// timerQueue implements heap.Interface ordered by (due, seq).
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].seq < q[j].seq
	}
	return q[i].due < q[j].due
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
