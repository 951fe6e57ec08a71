package diagnostics

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainOrder(t *testing.T) {
	s := NewSink(4)
	s.DeviceLost("destroyed", "gone")
	s.DeviceError("write", errors.New("boom"))
	s.DeviceError("ignored", nil)

	var got []Event
	n := s.Drain(func(e Event) { got = append(got, e) })
	require.Equal(t, 2, n)
	assert.Equal(t, KindDeviceLost, got[0].Kind)
	assert.Equal(t, "gone", got[0].Message)
	assert.Equal(t, KindDeviceError, got[1].Kind)
	assert.Equal(t, "boom", got[1].Message)
	assert.False(t, got[0].At.IsZero())

	assert.Zero(t, s.Drain(func(Event) { t.Fatal("sink should be empty") }))
}

func TestReportDropsWhenFull(t *testing.T) {
	s := NewSink(0)
	assert.True(t, s.Report(Event{Kind: KindDeviceError}))
	assert.False(t, s.Report(Event{Kind: KindDeviceError}))
	assert.Equal(t, uint64(1), s.Dropped())
	assert.Equal(t, 1, s.Drain(func(Event) {}))
}

func TestConcurrentReport(t *testing.T) {
	s := NewSink(64)
	var wg sync.WaitGroup
	for i := 0; i < 128; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.DeviceLost("unknown", "")
		}()
	}
	wg.Wait()

	drained := s.Drain(func(Event) {})
	assert.Equal(t, 64, drained)
	assert.Equal(t, uint64(64), s.Dropped())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "device-lost", KindDeviceLost.String())
	assert.Equal(t, "device-error", KindDeviceError.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
