package dismiss

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/google/uuid"

	"pullsheet/internal/gesture"
)

// settleOmega is the spring's angular frequency times the restore duration.
// (1+x)e^-x drops below 1% at x≈6.6, so a critically damped spring with
// omega = settleOmega/duration is visually at rest when the duration ends.
const settleOmega = 6.6

// Machine owns one overlay's dismiss interaction. It is driven from a single
// goroutine (the host's update loop) and never blocks; delays are handed to
// the host as Continuations.
type Machine struct {
	tun    Tunables
	arb    gesture.Arbiter
	tags   func() []gesture.TransitionTag
	log    *slog.Logger
	height float64

	token  Token
	st     State
	scroll gesture.ScrollPosition

	spring harmonica.Spring
	anim   restoreAnim
}

type restoreAnim struct {
	pos, vel float64
	seq      int
	elapsed  time.Duration
}

type Option func(*Machine)

// WithTransitionTags installs the query for transitions running on the host.
func WithTransitionTags(f func() []gesture.TransitionTag) Option {
	return func(m *Machine) { m.tags = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

func NewMachine(t Tunables, height float64, opts ...Option) *Machine {
	m := &Machine{
		log:    slog.New(slog.DiscardHandler),
		height: height,
		st:     Initial(),
	}
	m.SetTunables(t)
	for _, o := range opts {
		o(m)
	}
	return m
}

// SetTunables replaces the gesture knobs. Zero fields fall back to defaults.
func (m *Machine) SetTunables(t Tunables) {
	def := DefaultTunables()
	if t.VelocityDampening <= 0 {
		t.VelocityDampening = def.VelocityDampening
	}
	if t.ScrollTopThreshold < 0 {
		t.ScrollTopThreshold = def.ScrollTopThreshold
	}
	if t.SettleDelay <= 0 {
		t.SettleDelay = def.SettleDelay
	}
	if t.RestoreDuration <= 0 {
		t.RestoreDuration = def.RestoreDuration
	}
	if t.FrameInterval <= 0 {
		t.FrameInterval = def.FrameInterval
	}
	m.tun = t
	m.arb = gesture.NewArbiter(t.ScrollTopThreshold)
}

func (m *Machine) Tunables() Tunables { return m.tun }

// SetContainerHeight updates the clamp range, re-clamping the live offset.
func (m *Machine) SetContainerHeight(h float64) {
	if h < 0 {
		h = 0
	}
	m.height = h
	m.st.VerticalOffset = Clamp(m.st.VerticalOffset, 0, h)
	m.anim.pos = Clamp(m.anim.pos, 0, h)
}

func (m *Machine) ContainerHeight() float64 { return m.height }

// Present starts a new presentation. Any continuation scheduled for an
// earlier presentation becomes stale.
func (m *Machine) Present() State {
	prev := m.token
	m.token = uuid.New()
	m.st = Initial()
	m.scroll = gesture.ScrollPosition{}
	m.anim = restoreAnim{}
	if prev != uuid.Nil {
		m.log.Debug("presentation superseded", "prev", prev, "token", m.token)
	} else {
		m.log.Debug("presentation started", "token", m.token)
	}
	return m.st
}

// Teardown discards the presentation after an external dismissal.
func (m *Machine) Teardown() {
	if m.token == uuid.Nil {
		return
	}
	m.log.Debug("presentation torn down", "token", m.token, "phase", m.st.Phase)
	m.token = uuid.Nil
	m.st = Initial()
	m.anim = restoreAnim{}
}

func (m *Machine) Presented() bool { return m.token != uuid.Nil }

func (m *Machine) Token() Token { return m.token }

func (m *Machine) State() State { return m.st }

// OnScrollPositionChanged feeds the arbiter's continuous eligibility check.
func (m *Machine) OnScrollPositionChanged(pos gesture.ScrollPosition) {
	m.scroll = pos
}

func (m *Machine) ScrollPosition() gesture.ScrollPosition { return m.scroll }

// ShouldRecognizeSimultaneously checks s against the latest scroll position.
func (m *Machine) ShouldRecognizeSimultaneously(s gesture.DragSample) bool {
	return m.arb.ShouldRecognizeSimultaneously(s, m.scroll)
}

// CanBegin reports whether a Began event would be accepted now.
func (m *Machine) CanBegin() bool {
	if !m.Presented() || !m.st.GestureEnabled || m.st.Phase != Idle {
		return false
	}
	var tags []gesture.TransitionTag
	if m.tags != nil {
		tags = m.tags()
	}
	return m.arb.ShouldBegin(tags)
}

// OnGestureEvent advances the machine for one lifecycle event. Events that
// do not apply to the current phase are ignored.
func (m *Machine) OnGestureEvent(lc gesture.Lifecycle, s gesture.DragSample) Result {
	if !m.Presented() {
		return m.result(None)
	}
	switch {
	case lc == gesture.Began:
		if !m.CanBegin() {
			return m.result(None)
		}
		m.st = Begin(m.st, s.Translation, m.height)
		return m.result(None)

	case lc == gesture.Changed:
		m.st = Change(m.st, s.Translation, m.height)
		return m.result(None)

	case lc.Terminal():
		if m.st.Phase != Dragging || !m.st.ScrollLocked {
			return m.result(None)
		}
		return m.release(lc, s)
	}
	return m.result(None)
}

func (m *Machine) release(lc gesture.Lifecycle, s gesture.DragSample) Result {
	o := Decide(s.Translation, s.Velocity, m.height, m.tun.VelocityDampening)
	m.st = Release(m.st, o)
	m.log.Info("drag released",
		"token", m.token, "lifecycle", lc, "outcome", o,
		"translation", s.Translation, "velocity", s.Velocity, "height", m.height)

	if o == Commit {
		r := m.result(Dismiss)
		r.Continuations = []Continuation{{Token: m.token, Kind: Settle, Delay: m.tun.SettleDelay}}
		return r
	}

	m.spring = harmonica.NewSpring(
		m.tun.FrameInterval.Seconds(),
		settleOmega/m.tun.RestoreDuration.Seconds(),
		1.0,
	)
	m.anim = restoreAnim{pos: m.st.VerticalOffset}
	r := m.result(SnapBack)
	r.Continuations = []Continuation{
		m.nextFrame(),
		{Token: m.token, Kind: ReEnable, Delay: m.tun.RestoreDuration},
	}
	return r
}

func (m *Machine) nextFrame() Continuation {
	return Continuation{Token: m.token, Kind: Frame, Delay: m.tun.FrameInterval, Seq: m.anim.seq + 1}
}

// Resume applies a continuation once its delay has elapsed. Continuations
// from a superseded or torn-down presentation, or for a phase that has
// already moved on, are dropped.
func (m *Machine) Resume(c Continuation) Result {
	if !m.Presented() || c.Token != m.token {
		m.log.Debug("stale continuation dropped", "kind", c.Kind, "token", c.Token)
		return m.result(None)
	}
	switch c.Kind {
	case Settle:
		if m.st.Phase != Committing {
			return m.result(None)
		}
		m.st = Reset(m.st)
		r := m.result(None)
		r.Done = true
		return r

	case Frame:
		if m.st.Phase != Restoring || c.Seq != m.anim.seq+1 {
			return m.result(None)
		}
		m.anim.seq = c.Seq
		m.anim.elapsed += m.tun.FrameInterval
		m.anim.pos, m.anim.vel = m.spring.Update(m.anim.pos, m.anim.vel, 0)
		m.st.VerticalOffset = Clamp(m.anim.pos, 0, m.height)
		r := m.result(None)
		if m.anim.elapsed+m.tun.FrameInterval < m.tun.RestoreDuration {
			r.Continuations = []Continuation{m.nextFrame()}
		}
		return r

	case ReEnable:
		if m.st.Phase != Restoring {
			return m.result(None)
		}
		m.st = Reset(m.st)
		m.anim = restoreAnim{}
		return m.result(None)
	}
	return m.result(None)
}

func (m *Machine) result(c Command) Result {
	return Result{Offset: m.st.VerticalOffset, Command: c}
}
