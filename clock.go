package rowan

import "time"

// tickTimer measures wall time between resets. The time source is
// injectable so animation and repeat logic stays testable at any frame
// rate.
type tickTimer struct {
	now  func() time.Time
	mark time.Time
}

func newTickTimer(now func() time.Time) *tickTimer {
	if now == nil {
		now = time.Now
	}
	t := &tickTimer{now: now}
	t.Reset()
	return t
}

// Elapsed returns the seconds since the last Reset.
func (t *tickTimer) Elapsed() float64 {
	return t.now().Sub(t.mark).Seconds()
}

// Reset rewinds the timer.
func (t *tickTimer) Reset() {
	t.mark = t.now()
}

// Tick returns the seconds since the last Tick (or Reset) and rewinds.
func (t *tickTimer) Tick() float64 {
	n := t.now()
	dt := n.Sub(t.mark).Seconds()
	t.mark = n
	return dt
}
