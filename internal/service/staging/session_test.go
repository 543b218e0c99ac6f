package staging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerGetOrCreate(t *testing.T) {
	sm := NewSessionManager()
	built := 0
	factory := func() *Engine {
		built++
		return newTestEngine(defaultStock(), &fakeTransfers{})
	}

	first := sm.GetOrCreate("U0", factory)
	second := sm.GetOrCreate("U0", factory)
	assert.Same(t, first, second)
	assert.Equal(t, 1, built)

	got, ok := sm.Get("U0")
	require.True(t, ok)
	assert.Same(t, first, got)

	sm.Clear("U0")
	_, ok = sm.Get("U0")
	assert.False(t, ok)
	assert.Equal(t, 0, sm.Len())
}

func TestSessionManagerSweepIdle(t *testing.T) {
	sm := NewSessionManager()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return now }

	sm.GetOrCreate("old", func() *Engine { return newTestEngine(defaultStock(), &fakeTransfers{}) })
	busy := sm.GetOrCreate("busy", func() *Engine { return newTestEngine(defaultStock(), &fakeTransfers{}) })
	busy.submitting = true

	now = now.Add(90 * time.Minute)
	sm.GetOrCreate("fresh", func() *Engine { return newTestEngine(defaultStock(), &fakeTransfers{}) })

	now = now.Add(time.Minute)
	removed := sm.SweepIdle(time.Hour)
	assert.Equal(t, 1, removed)

	_, ok := sm.Get("old")
	assert.False(t, ok)
	_, ok = sm.Get("busy")
	assert.True(t, ok)
	_, ok = sm.Get("fresh")
	assert.True(t, ok)
}
