package device

import (
	"github.com/Carmen-Shannon/oxy-lite/engine/diagnostics"
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// ManagerBuilderOption is a functional option applied to a Manager during construction via NewManager.
type ManagerBuilderOption func(*manager)

// WithLogger sets the logger. Messages are tagged with the "device" prefix.
//
// Parameters:
//   - logger: the logger instance
//
// Returns:
//   - ManagerBuilderOption: a function that applies the logger option
func WithLogger(logger *log.Logger) ManagerBuilderOption {
	return func(m *manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDiagnostics sets the sink device errors on the frame path are reported to.
//
// Parameters:
//   - sink: the diagnostic sink
//
// Returns:
//   - ManagerBuilderOption: a function that applies the sink option
func WithDiagnostics(sink *diagnostics.Sink) ManagerBuilderOption {
	return func(m *manager) {
		m.sink = sink
	}
}

// WithPresentMode overrides the Fifo present mode.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - ManagerBuilderOption: a function that applies the present mode option
func WithPresentMode(mode wgpu.PresentMode) ManagerBuilderOption {
	return func(m *manager) {
		m.presentMode = mode
	}
}
