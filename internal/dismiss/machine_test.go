package dismiss

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pullsheet/internal/gesture"
)

func newTestMachine(opts ...Option) *Machine {
	m := NewMachine(DefaultTunables(), 800, opts...)
	m.Present()
	return m
}

func drag(m *Machine, to, velocity float64, end gesture.Lifecycle) Result {
	m.OnGestureEvent(gesture.Began, gesture.DragSample{Translation: 0, Velocity: velocity})
	m.OnGestureEvent(gesture.Changed, gesture.DragSample{Translation: to / 2, Velocity: velocity})
	m.OnGestureEvent(gesture.Changed, gesture.DragSample{Translation: to, Velocity: velocity})
	return m.OnGestureEvent(end, gesture.DragSample{Translation: to, Velocity: velocity})
}

func findKind(cs []Continuation, k Kind) (Continuation, bool) {
	for _, c := range cs {
		if c.Kind == k {
			return c, true
		}
	}
	return Continuation{}, false
}

func TestPresentInitialState(t *testing.T) {
	m := NewMachine(DefaultTunables(), 800)
	assert.False(t, m.Presented())

	s := m.Present()
	assert.True(t, m.Presented())
	assert.Equal(t, State{GestureEnabled: true, Phase: Idle}, s)
}

func TestScenarioRestore(t *testing.T) {
	m := newTestMachine()

	r := drag(m, 350, 0, gesture.Ended)
	assert.Equal(t, SnapBack, r.Command)
	assert.Equal(t, 350.0, r.Offset)
	assert.Equal(t, Restoring, m.State().Phase)
	assert.True(t, m.State().ScrollLocked)
	assert.False(t, m.State().GestureEnabled)

	reEnable, ok := findKind(r.Continuations, ReEnable)
	require.True(t, ok)
	assert.Equal(t, 300*time.Millisecond, reEnable.Delay)

	frame, ok := findKind(r.Continuations, Frame)
	require.True(t, ok)
	prev := r.Offset
	frames := 0
	for ok {
		fr := m.Resume(frame)
		assert.LessOrEqual(t, fr.Offset, prev)
		assert.GreaterOrEqual(t, fr.Offset, 0.0)
		prev = fr.Offset
		frames++
		frame, ok = findKind(fr.Continuations, Frame)
	}
	assert.Greater(t, frames, 10)
	assert.Less(t, prev, 350*0.05)

	done := m.Resume(reEnable)
	assert.Equal(t, 0.0, done.Offset)
	assert.Equal(t, Initial(), m.State())
}

func TestScenarioCommit(t *testing.T) {
	m := newTestMachine()

	r := drag(m, 350, 300, gesture.Ended)
	assert.Equal(t, Dismiss, r.Command)
	assert.Equal(t, 350.0, r.Offset, "commit holds the offset")
	_, hasFrame := findKind(r.Continuations, Frame)
	assert.False(t, hasFrame, "commit must not snap back")
	assert.Equal(t, Committing, m.State().Phase)
	assert.False(t, m.State().GestureEnabled)
	assert.False(t, m.State().ScrollLocked)

	settle, ok := findKind(r.Continuations, Settle)
	require.True(t, ok)
	assert.Equal(t, 300*time.Millisecond, settle.Delay)

	done := m.Resume(settle)
	assert.True(t, done.Done)
	assert.Equal(t, Initial(), m.State())
}

func TestCancelledAndFailedRelease(t *testing.T) {
	for _, lc := range []gesture.Lifecycle{gesture.Cancelled, gesture.Failed} {
		m := newTestMachine()
		r := drag(m, 600, 0, lc)
		assert.Equal(t, Dismiss, r.Command, lc.String())
	}
}

func TestOtherLifecycleIgnored(t *testing.T) {
	m := newTestMachine()
	m.OnGestureEvent(gesture.Began, gesture.DragSample{Translation: 10})
	r := m.OnGestureEvent(gesture.Other, gesture.DragSample{Translation: 700})
	assert.Equal(t, None, r.Command)
	assert.Equal(t, 10.0, r.Offset)
	assert.Equal(t, Dragging, m.State().Phase)
}

func TestChangedIgnoredAfterRestore(t *testing.T) {
	m := newTestMachine()
	r := drag(m, 100, 0, gesture.Ended)
	reEnable, _ := findKind(r.Continuations, ReEnable)
	m.Resume(reEnable)
	require.False(t, m.State().ScrollLocked)

	for i := 0; i < 3; i++ {
		r = m.OnGestureEvent(gesture.Changed, gesture.DragSample{Translation: 500})
		assert.Equal(t, 0.0, r.Offset)
	}
}

func TestBeganIgnoredWhileRestoring(t *testing.T) {
	m := newTestMachine()
	drag(m, 100, 0, gesture.Ended)
	assert.False(t, m.CanBegin())

	m.OnGestureEvent(gesture.Began, gesture.DragSample{Translation: 5})
	assert.Equal(t, Restoring, m.State().Phase)
	assert.Equal(t, 100.0, m.State().VerticalOffset)
}

func TestBeganBlockedByMatchedTransition(t *testing.T) {
	tags := []gesture.TransitionTag{gesture.TagZoom}
	m := newTestMachine(WithTransitionTags(func() []gesture.TransitionTag { return tags }))

	m.OnGestureEvent(gesture.Began, gesture.DragSample{Translation: 5})
	assert.Equal(t, Idle, m.State().Phase)

	tags = nil
	m.OnGestureEvent(gesture.Began, gesture.DragSample{Translation: 5})
	assert.Equal(t, Dragging, m.State().Phase)
}

func TestOffsetClampedToHeight(t *testing.T) {
	m := newTestMachine()
	m.OnGestureEvent(gesture.Began, gesture.DragSample{Translation: -20})
	assert.Equal(t, 0.0, m.State().VerticalOffset)

	r := m.OnGestureEvent(gesture.Changed, gesture.DragSample{Translation: 2000})
	assert.Equal(t, 800.0, r.Offset)

	m.SetContainerHeight(500)
	assert.Equal(t, 500.0, m.State().VerticalOffset)
}

func TestNewPresentationIgnoresStaleContinuations(t *testing.T) {
	m := newTestMachine()
	r := drag(m, 100, 0, gesture.Ended)
	staleReEnable, _ := findKind(r.Continuations, ReEnable)
	staleFrame, _ := findKind(r.Continuations, Frame)

	m.Present()
	m.OnGestureEvent(gesture.Began, gesture.DragSample{Translation: 40})

	m.Resume(staleFrame)
	m.Resume(staleReEnable)
	assert.Equal(t, Dragging, m.State().Phase)
	assert.Equal(t, 40.0, m.State().VerticalOffset)
	assert.True(t, m.State().ScrollLocked)
}

func TestNewPresentationIgnoresStaleSettle(t *testing.T) {
	m := newTestMachine()
	r := drag(m, 700, 0, gesture.Ended)
	settle, _ := findKind(r.Continuations, Settle)

	m.Present()
	done := m.Resume(settle)
	assert.False(t, done.Done)
	assert.Equal(t, Initial(), m.State())
}

func TestTeardownInvalidatesContinuations(t *testing.T) {
	m := newTestMachine()
	r := drag(m, 100, 0, gesture.Ended)
	reEnable, _ := findKind(r.Continuations, ReEnable)

	m.Teardown()
	assert.False(t, m.Presented())
	assert.Equal(t, Initial(), m.State())

	res := m.Resume(reEnable)
	assert.Equal(t, None, res.Command)
	assert.False(t, m.Presented())

	res = m.OnGestureEvent(gesture.Began, gesture.DragSample{Translation: 10})
	assert.Equal(t, 0.0, res.Offset)
	assert.Equal(t, Idle, m.State().Phase)
}

func TestDuplicateFrameIgnored(t *testing.T) {
	m := newTestMachine()
	r := drag(m, 200, 0, gesture.Ended)
	frame, _ := findKind(r.Continuations, Frame)

	first := m.Resume(frame)
	again := m.Resume(frame)
	assert.Equal(t, first.Offset, again.Offset)
	assert.Empty(t, again.Continuations)
}

func TestShouldRecognizeFollowsScroll(t *testing.T) {
	m := newTestMachine()
	s := gesture.DragSample{Velocity: 10}
	assert.True(t, m.ShouldRecognizeSimultaneously(s))

	m.OnScrollPositionChanged(gesture.ScrollPosition{OffsetFromTop: 5})
	assert.False(t, m.ShouldRecognizeSimultaneously(s))

	m.Present()
	assert.True(t, m.ShouldRecognizeSimultaneously(s), "scroll snapshot resets per presentation")
}

func TestSetTunablesDefaults(t *testing.T) {
	m := NewMachine(Tunables{ScrollTopThreshold: 1}, 100)
	assert.Equal(t, DefaultTunables(), m.Tunables())

	m.SetTunables(Tunables{ScrollTopThreshold: -1, VelocityDampening: 2})
	assert.Equal(t, 1.0, m.Tunables().ScrollTopThreshold)
	assert.Equal(t, 2.0, m.Tunables().VelocityDampening)
}
