package game

import "time"

// Typewriter reveals a target string one rune per tick.
//
// Revealed() is always a prefix of Target(). Setting a new target cancels the
// reveal in progress and restarts from empty, so at most one tick timer is
// ever pending for a Typewriter.
type Typewriter struct {
	scheduler *Scheduler
	tick      time.Duration

	target []rune
	shown  int
	timer  TimerID
	gen    uint64
}

// NewTypewriter creates a typewriter that reveals one rune every tick.
func NewTypewriter(scheduler *Scheduler, tick time.Duration) *Typewriter {
	return &Typewriter{
		scheduler: scheduler,
		tick:      tick,
	}
}

// SetTarget starts revealing text from empty.
// An empty text clears the output immediately and schedules nothing.
func (tw *Typewriter) SetTarget(text string) {
	tw.stop()
	tw.gen++
	tw.target = []rune(text)
	tw.shown = 0

	if len(tw.target) == 0 {
		return
	}
	tw.schedule(tw.gen)
}

func (tw *Typewriter) schedule(gen uint64) {
	tw.timer = tw.scheduler.After(tw.tick, func() {
		// a tick from a replaced target must not touch the new one
		if gen != tw.gen {
			return
		}
		tw.timer = 0
		tw.shown++
		if tw.shown < len(tw.target) {
			tw.schedule(gen)
		}
	})
}

// Cancel stops the reveal, keeping whatever has been revealed so far.
func (tw *Typewriter) Cancel() {
	tw.stop()
	tw.gen++
}

func (tw *Typewriter) stop() {
	if tw.timer != 0 {
		tw.scheduler.Cancel(tw.timer)
		tw.timer = 0
	}
}

// Revealed returns the currently visible prefix of the target.
func (tw *Typewriter) Revealed() string {
	return string(tw.target[:tw.shown])
}

// Target returns the full string being revealed.
func (tw *Typewriter) Target() string {
	return string(tw.target)
}

// Done reports whether the whole target is visible.
func (tw *Typewriter) Done() bool {
	return tw.shown == len(tw.target)
}

// Ticking reports whether a reveal tick is pending.
func (tw *Typewriter) Ticking() bool {
	return tw.timer != 0 && tw.scheduler.IsPending(tw.timer)
}
