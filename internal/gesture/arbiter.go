package gesture

// DefaultScrollTopThreshold is how far from the top (in rows) the scroll
// surface may sit and still count as "at the top".
const DefaultScrollTopThreshold = 1.0

// Arbiter decides whether the dismiss drag may run alongside the content's
// own scrolling. Both checks are pure and cheap enough to run per sample.
type Arbiter struct {
	ScrollTopThreshold float64
}

func NewArbiter(threshold float64) Arbiter {
	return Arbiter{ScrollTopThreshold: threshold}
}

// ShouldRecognizeSimultaneously is true only for strictly downward drags
// while the scroll surface is at (or within threshold of) its top.
func (a Arbiter) ShouldRecognizeSimultaneously(s DragSample, pos ScrollPosition) bool {
	atTop := pos.OffsetFromTop-pos.InsetAdjustedTop <= a.ScrollTopThreshold
	return atTop && s.Velocity > 0
}

// ShouldBegin refuses to start while a matched/zoom transition is running,
// so the drag never fights another subsystem's shared-element animation.
func (Arbiter) ShouldBegin(active []TransitionTag) bool {
	for _, t := range active {
		if t == TagMatched || t == TagZoom {
			return false
		}
	}
	return true
}
