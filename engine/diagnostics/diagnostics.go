package diagnostics

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Kind classifies an asynchronous device notification.
type Kind int

const (
	// KindDeviceLost reports that the device is gone. It is not re-created.
	KindDeviceLost Kind = iota

	// KindDeviceError reports an error raised by the device outside of initialization.
	KindDeviceError
)

// String returns the log-friendly name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDeviceLost:
		return "device-lost"
	case KindDeviceError:
		return "device-error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is a single device notification.
type Event struct {
	Kind    Kind
	Reason  string
	Message string
	At      time.Time
}

// Sink is a bounded, non-blocking queue of device notifications.
// Report may be called from any goroutine, including runtime callbacks; it never blocks and
// never touches renderer state. The frame loop drains the sink on its own schedule.
type Sink struct {
	events  chan Event
	dropped atomic.Uint64
}

// NewSink creates a Sink holding at most capacity undrained events.
//
// Parameters:
//   - capacity: the queue size (values below 1 fall back to 1)
//
// Returns:
//   - *Sink: the new sink
func NewSink(capacity int) *Sink {
	if capacity < 1 {
		capacity = 1
	}
	return &Sink{events: make(chan Event, capacity)}
}

// Report enqueues an event, stamping it with the current time if unset.
// When the queue is full the event is dropped and counted.
//
// Parameters:
//   - e: the event to enqueue
//
// Returns:
//   - bool: false if the event was dropped
func (s *Sink) Report(e Event) bool {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	select {
	case s.events <- e:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// DeviceLost reports a KindDeviceLost event.
func (s *Sink) DeviceLost(reason, message string) {
	s.Report(Event{Kind: KindDeviceLost, Reason: reason, Message: message})
}

// DeviceError reports a KindDeviceError event for err. A nil err is ignored.
func (s *Sink) DeviceError(reason string, err error) {
	if err == nil {
		return
	}
	s.Report(Event{Kind: KindDeviceError, Reason: reason, Message: err.Error()})
}

// Drain removes every queued event, calling fn for each in arrival order.
//
// Parameters:
//   - fn: called once per event on the caller's goroutine
//
// Returns:
//   - int: the number of events drained
func (s *Sink) Drain(fn func(Event)) int {
	n := 0
	for {
		select {
		case e := <-s.events:
			fn(e)
			n++
		default:
			return n
		}
	}
}

// Dropped returns the number of events discarded because the queue was full.
func (s *Sink) Dropped() uint64 {
	return s.dropped.Load()
}
