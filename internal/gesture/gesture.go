package gesture

// Lifecycle is the recognizer state attached to each drag event.
type Lifecycle int

const (
	Began Lifecycle = iota
	Changed
	Ended
	Cancelled
	Failed
	Other
)

func (l Lifecycle) String() string {
	switch l {
	case Began:
		return "began"
	case Changed:
		return "changed"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "other"
	}
}

// Terminal reports whether l ends the gesture.
func (l Lifecycle) Terminal() bool {
	return l == Ended || l == Cancelled || l == Failed
}

// DragSample is one frame's reading of an in-progress vertical drag.
// Translation is measured from the gesture origin in rows; Velocity is in
// rows per second. Positive values point down.
type DragSample struct {
	Translation float64
	Velocity    float64
}

// ScrollPosition is a snapshot of the inner scroll surface. The zero value
// stands for static content and is always at the top.
type ScrollPosition struct {
	OffsetFromTop    float64
	InsetAdjustedTop float64
}

// TransitionTag labels a transition currently running on the host.
type TransitionTag string

const (
	TagSlide   TransitionTag = "slide"
	TagMatched TransitionTag = "matched"
	TagZoom    TransitionTag = "zoom"
)
