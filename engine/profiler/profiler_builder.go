package profiler

import (
	"time"

	"github.com/charmbracelet/log"
)

// ProfilerBuilderOption is a functional option applied to a Profiler during construction via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger reports are written to.
//
// Parameters:
//   - logger: the logger instance
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the logger option
func WithLogger(logger *log.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithInterval sets how often a report is logged. Non-positive values keep the default.
//
// Parameters:
//   - interval: the report interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
