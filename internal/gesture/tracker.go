package gesture

import "time"

// DefaultVelocityWindow is how much recent history feeds the velocity estimate.
const DefaultVelocityWindow = 100 * time.Millisecond

type point struct {
	y float64
	t time.Time
}

// Tracker turns raw pointer rows into DragSamples. It is not safe for
// concurrent use; the host feeds it from its update loop.
type Tracker struct {
	Window time.Duration

	active bool
	origin float64
	last   point
	recent []point
}

func NewTracker(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultVelocityWindow
	}
	return &Tracker{Window: window}
}

// Start records the pointer-down position as the translation origin.
func (tr *Tracker) Start(y float64, t time.Time) {
	tr.active = true
	tr.origin = y
	tr.last = point{y, t}
	tr.recent = append(tr.recent[:0], tr.last)
}

// Active reports whether a pointer is down.
func (tr *Tracker) Active() bool { return tr.active }

// Last returns the most recent pointer row.
func (tr *Tracker) Last() float64 { return tr.last.y }

// Move records a new pointer row and returns the sample relative to the origin.
func (tr *Tracker) Move(y float64, t time.Time) DragSample {
	if !tr.active {
		return DragSample{}
	}
	tr.last = point{y, t}
	tr.recent = append(tr.recent, tr.last)
	cutoff := t.Add(-tr.Window)
	drop := 0
	for drop < len(tr.recent)-1 && tr.recent[drop].t.Before(cutoff) {
		drop++
	}
	tr.recent = tr.recent[drop:]
	return tr.Sample()
}

// Sample reports the current translation and windowed velocity.
func (tr *Tracker) Sample() DragSample {
	if !tr.active {
		return DragSample{}
	}
	s := DragSample{Translation: tr.last.y - tr.origin}
	if len(tr.recent) < 2 {
		return s
	}
	first := tr.recent[0]
	dt := tr.last.t.Sub(first.t).Seconds()
	if dt > 0 {
		s.Velocity = (tr.last.y - first.y) / dt
	}
	return s
}

// Rebase moves the translation origin to y, keeping velocity history. The
// host calls it when the dismiss gesture takes over a drag that started as
// a scroll, so translation starts from where the takeover happened.
func (tr *Tracker) Rebase(y float64) {
	tr.origin = y
}

// End releases the pointer.
func (tr *Tracker) End() {
	tr.active = false
	tr.recent = tr.recent[:0]
}
