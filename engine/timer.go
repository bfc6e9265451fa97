package engine

import "time"

// FrameInterval is the redraw interval of the slowest constrained window.
// Zero framerates are unconstrained; with none constrained the interval is
// zero.
func FrameInterval(framerates ...uint32) time.Duration {
	var slowest uint32
	for _, fps := range framerates {
		if fps > 0 && (slowest == 0 || fps < slowest) {
			slowest = fps
		}
	}
	if slowest == 0 {
		return 0
	}
	return time.Second / time.Duration(slowest)
}

// Timer paces redraws to a fixed interval.
type Timer struct {
	Interval time.Duration

	last  time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

func NewTimer(interval time.Duration) *Timer {
	return &Timer{Interval: interval, now: time.Now, sleep: time.Sleep}
}

// Sync sleeps out whatever remains of the interval since the previous
// Sync.
func (t *Timer) Sync() {
	if t.Interval <= 0 {
		return
	}
	if !t.last.IsZero() {
		if elapsed := t.now().Sub(t.last); elapsed < t.Interval {
			t.sleep(t.Interval - elapsed)
		}
	}
	t.last = t.now()
}
