package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestManualFiresAtDeadline(t *testing.T) {
	t.Parallel()

	c := NewManual(epoch)
	fired := 0
	c.AfterFunc(2*time.Second, func() { fired++ })

	c.Advance(1999 * time.Millisecond)
	require.Equal(t, 0, fired)
	require.Equal(t, 1, c.Pending())

	c.Advance(time.Millisecond)
	require.Equal(t, 1, fired)
	require.Equal(t, 0, c.Pending())
	require.Equal(t, epoch.Add(2*time.Second), c.Now())

	c.Advance(time.Hour)
	require.Equal(t, 1, fired, "timers fire once")
}

func TestManualStop(t *testing.T) {
	t.Parallel()

	c := NewManual(epoch)
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })
	require.True(t, tm.Stop())
	require.False(t, tm.Stop())

	c.Advance(time.Minute)
	require.False(t, fired)
}

func TestManualOrderAndNowInsideCallback(t *testing.T) {
	t.Parallel()

	c := NewManual(epoch)
	var order []string
	var seen time.Time
	c.AfterFunc(3*time.Second, func() { order = append(order, "b") })
	c.AfterFunc(time.Second, func() {
		order = append(order, "a")
		seen = c.Now()
		c.AfterFunc(time.Second, func() { order = append(order, "nested") })
	})

	c.Advance(5 * time.Second)
	require.Equal(t, []string{"a", "nested", "b"}, order)
	require.Equal(t, epoch.Add(time.Second), seen)
}

func TestRealClockStop(t *testing.T) {
	t.Parallel()

	tm := Real{}.AfterFunc(time.Hour, func() {})
	require.True(t, tm.Stop())
}
