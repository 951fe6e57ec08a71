package profiler

import (
	"bytes"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/frame"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestTickReportsAtInterval(t *testing.T) {
	var out bytes.Buffer
	c := &clock{t: time.Unix(1000, 0)}
	p := NewProfiler(WithLogger(log.New(&out)), WithInterval(2*time.Second), WithClock(c.now))

	for i := 0; i < 9; i++ {
		c.t = c.t.Add(200 * time.Millisecond)
		_, logged := p.Tick(frame.Stats{Submitted: uint64(i + 1)})
		require.False(t, logged, "tick %d", i)
	}
	assert.Empty(t, out.String())

	c.t = c.t.Add(200 * time.Millisecond)
	r, logged := p.Tick(frame.Stats{Submitted: 8, Skipped: 2})
	require.True(t, logged)
	assert.InDelta(t, 5.0, r.FPS, 1e-9)
	assert.Equal(t, frame.Stats{Submitted: 8, Skipped: 2}, r.Frames)
	assert.Positive(t, r.HeapMB)
	assert.Contains(t, out.String(), "frame stats")
	assert.Contains(t, out.String(), "submitted=8")
}

func TestTickReportsDeltas(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	p := NewProfiler(WithLogger(log.New(&bytes.Buffer{})), WithClock(c.now))

	c.t = c.t.Add(time.Second)
	_, logged := p.Tick(frame.Stats{Submitted: 60, Dropped: 1})
	require.True(t, logged)

	c.t = c.t.Add(time.Second)
	r, logged := p.Tick(frame.Stats{Submitted: 100, Skipped: 3, Dropped: 1})
	require.True(t, logged)
	assert.Equal(t, frame.Stats{Submitted: 40, Skipped: 3}, r.Frames)
	assert.InDelta(t, 1.0, r.FPS, 1e-9)
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithInterval(-time.Second))
	assert.Equal(t, time.Second, p.updateInterval)
}
