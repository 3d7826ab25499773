package dismiss

import (
	"time"

	"github.com/google/uuid"
)

// Phase is where the dismiss interaction currently stands.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Committing
	Restoring
)

func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	case Restoring:
		return "restoring"
	default:
		return "idle"
	}
}

// State is the overlay's interaction state. It belongs to exactly one
// presentation and is only mutated by the Machine.
type State struct {
	ScrollLocked   bool
	VerticalOffset float64
	GestureEnabled bool
	Phase          Phase
}

// Initial is the state every presentation starts from.
func Initial() State {
	return State{GestureEnabled: true}
}

// Command is what the host must do after an event.
type Command int

const (
	None Command = iota
	Dismiss
	SnapBack
)

func (c Command) String() string {
	switch c {
	case Dismiss:
		return "dismiss"
	case SnapBack:
		return "snap-back"
	default:
		return "none"
	}
}

// Outcome is the release decision.
type Outcome int

const (
	Restore Outcome = iota
	Commit
)

func (o Outcome) String() string {
	if o == Commit {
		return "commit"
	}
	return "restore"
}

// Token identifies one presentation. Continuations carrying an old token
// are dropped.
type Token = uuid.UUID

// Kind tells Resume what a continuation is for.
type Kind int

const (
	Settle Kind = iota
	Frame
	ReEnable
)

func (k Kind) String() string {
	switch k {
	case Settle:
		return "settle"
	case Frame:
		return "frame"
	default:
		return "re-enable"
	}
}

// Continuation is a delayed follow-up the host must schedule and hand back
// to Machine.Resume once Delay has elapsed.
type Continuation struct {
	Token Token
	Kind  Kind
	Delay time.Duration
	Seq   int
}

// Result is what the host renders and acts on after each input.
type Result struct {
	Offset        float64
	Command       Command
	Continuations []Continuation
	// Done is set when a committed dismissal has settled.
	Done bool
}

// Tunables holds the knobs of the gesture.
type Tunables struct {
	ScrollTopThreshold float64
	VelocityDampening  float64
	SettleDelay        time.Duration
	RestoreDuration    time.Duration
	FrameInterval      time.Duration
}

// DefaultTunables returns the stock gesture feel.
func DefaultTunables() Tunables {
	return Tunables{
		ScrollTopThreshold: 1,
		VelocityDampening:  5,
		SettleDelay:        300 * time.Millisecond,
		RestoreDuration:    300 * time.Millisecond,
		FrameInterval:      time.Second / 60,
	}
}
