package dismiss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		translation float64
		velocity    float64
		height      float64
		want        Outcome
	}{
		{"slow short pull restores", 350, 0, 800, Restore},
		{"flick pushes over the threshold", 350, 300, 800, Commit},
		{"exactly at threshold restores", 400, 0, 800, Restore},
		{"just past threshold commits", 400.5, 0, 800, Commit},
		{"velocity alone cannot cross", 0, 1e9, 800, Restore},
		{"upward velocity ignored", 390, -1000, 800, Restore},
		{"negative translation clamps to zero", -50, 0, 800, Restore},
		{"overshoot clamps to height", 5000, 0, 800, Commit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.translation, tt.velocity, tt.height, 5))
		})
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Equal(t, Commit, Decide(350, 300, 800, 5))
		assert.Equal(t, Restore, Decide(350, 0, 800, 5))
	}
}

func TestDecideFallsBackOnBadDampening(t *testing.T) {
	assert.Equal(t, Decide(350, 300, 800, 5), Decide(350, 300, 800, 0))
}

func TestChangeOffsetIsClampedAndMonotonic(t *testing.T) {
	const h = 800.0
	s := Begin(Initial(), 0, h)
	prev := -1.0
	for tr := -100.0; tr <= 1000; tr += 25 {
		s = Change(s, tr, h)
		assert.Equal(t, Clamp(tr, 0, h), s.VerticalOffset)
		assert.GreaterOrEqual(t, s.VerticalOffset, prev)
		prev = s.VerticalOffset
	}
}

func TestChangeIgnoredWithoutScrollLock(t *testing.T) {
	s := Begin(Initial(), 120, 800)
	s.ScrollLocked = false
	for i := 0; i < 5; i++ {
		s = Change(s, float64(200+i*10), 800)
	}
	assert.Equal(t, 120.0, s.VerticalOffset)
}

func TestRelease(t *testing.T) {
	s := Begin(Initial(), 300, 800)

	c := Release(s, Commit)
	assert.Equal(t, Committing, c.Phase)
	assert.False(t, c.GestureEnabled)
	assert.False(t, c.ScrollLocked)
	assert.Equal(t, 300.0, c.VerticalOffset)

	r := Release(s, Restore)
	assert.Equal(t, Restoring, r.Phase)
	assert.False(t, r.GestureEnabled)
	assert.True(t, r.ScrollLocked)
	assert.Equal(t, 300.0, r.VerticalOffset)

	assert.Equal(t, Initial(), Reset(r))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 10))
	assert.Equal(t, 10.0, Clamp(11, 0, 10))
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(5, 0, -3))
}
