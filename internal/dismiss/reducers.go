package dismiss

// Clamp bounds v to [lo, hi]. A negative range collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Decide blends distance and a dampened velocity into one linear rule:
// commit when t + v is strictly greater than half the container height.
// The velocity term is capped at the half height so a flick alone can only
// reach the threshold, never cross it.
func Decide(translation, velocity, height, dampening float64) Outcome {
	if dampening <= 0 {
		dampening = DefaultTunables().VelocityDampening
	}
	h := height / 2
	t := Clamp(translation, 0, height)
	v := Clamp(velocity/dampening, 0, h)
	if t+v > h {
		return Commit
	}
	return Restore
}

// Begin locks scrolling and starts tracking the drag.
func Begin(s State, translation, height float64) State {
	s.Phase = Dragging
	s.ScrollLocked = true
	s.VerticalOffset = Clamp(translation, 0, height)
	return s
}

// Change follows the drag. A state that no longer owns the interaction
// (scroll lock released, or no longer dragging) is returned untouched.
func Change(s State, translation, height float64) State {
	if !s.ScrollLocked || s.Phase != Dragging {
		return s
	}
	s.VerticalOffset = Clamp(translation, 0, height)
	return s
}

// Release applies the end-of-drag decision. The offset is held in both
// cases; Restoring animates it back afterwards.
func Release(s State, o Outcome) State {
	s.GestureEnabled = false
	if o == Commit {
		s.Phase = Committing
		s.ScrollLocked = false
		return s
	}
	s.Phase = Restoring
	s.ScrollLocked = true
	return s
}

// Reset returns the presentation to Idle with scrolling and gestures enabled.
func Reset(State) State {
	return Initial()
}
