package submission

import (
	"testing"
	"time"

	"github.com/BerylCAtieno/carolina-grind/internal/catalog"
	"github.com/BerylCAtieno/carolina-grind/internal/clock"
	"github.com/stretchr/testify/require"
)

func newTestPanel(t *testing.T, opts ...Option) (*Panel, *clock.Manual) {
	t.Helper()
	c := clock.NewManual(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	return NewPanel(c, catalog.Default().Tiers(), opts...), c
}

func states(p *Panel) []State {
	var out []State
	for _, v := range p.Snapshot() {
		out = append(out, v.State)
	}
	return out
}

func TestPanelSubmitLifecycle(t *testing.T) {
	t.Parallel()

	p, c := newTestPanel(t)
	require.Equal(t, []State{Idle, Idle, Idle}, states(p))

	require.True(t, p.Submit(1))
	submitting, submitted := p.Indices()
	require.Equal(t, 1, submitting)
	require.Equal(t, -1, submitted)
	require.Equal(t, []State{Locked, Submitting, Locked}, states(p))

	c.Advance(1999 * time.Millisecond)
	require.Equal(t, Submitting, p.State(1))
	require.True(t, p.Pending())

	c.Advance(time.Millisecond)
	submitting, submitted = p.Indices()
	require.Equal(t, -1, submitting)
	require.Equal(t, 1, submitted)
	require.Equal(t, []State{Locked, Submitted, Locked}, states(p))
	require.False(t, p.Pending())
}

func TestPanelRejectsWhileSubmitting(t *testing.T) {
	t.Parallel()

	p, c := newTestPanel(t)
	require.True(t, p.Submit(1))

	require.False(t, p.Submit(0))
	require.False(t, p.Submit(1))
	require.False(t, p.Submit(2))
	submitting, submitted := p.Indices()
	require.Equal(t, 1, submitting)
	require.Equal(t, -1, submitted)
	require.Equal(t, Locked, p.State(0))
	require.Equal(t, 1, c.Pending(), "rejected submits must not schedule timers")
}

func TestPanelSubmittedLocksForever(t *testing.T) {
	t.Parallel()

	p, c := newTestPanel(t)
	require.True(t, p.Submit(2))
	c.Advance(Delay)

	for i := 0; i < 3; i++ {
		require.False(t, p.Submit(i))
	}
	c.Advance(time.Hour)
	require.Equal(t, []State{Locked, Locked, Submitted}, states(p))
}

func TestPanelRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	p, _ := newTestPanel(t)
	require.False(t, p.Submit(-1))
	require.False(t, p.Submit(3))
	require.Equal(t, []State{Idle, Idle, Idle}, states(p))
}

func TestPanelCompletionHook(t *testing.T) {
	t.Parallel()

	var got []int
	p, c := newTestPanel(t, WithCompletionHook(func(i int) { got = append(got, i) }))
	p.Submit(0)
	c.Advance(Delay)
	require.Equal(t, []int{0}, got)
}

func TestPanelCloseStopsTimer(t *testing.T) {
	t.Parallel()

	p, c := newTestPanel(t)
	p.Submit(0)
	p.Close()
	require.Equal(t, 0, c.Pending())
	c.Advance(Delay)
	require.Equal(t, Submitting, p.State(0))
}

func TestStateLabels(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Select Package", Idle.Label())
	require.Equal(t, "Select Package", Locked.Label())
	require.Equal(t, "Processing...", Submitting.Label())
	require.Equal(t, "Application Sent", Submitted.Label())
	require.True(t, TierView{State: Locked}.Disabled())
	require.False(t, TierView{State: Idle}.Disabled())
}
