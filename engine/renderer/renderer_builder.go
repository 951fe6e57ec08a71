package renderer

import (
	"github.com/Carmen-Shannon/oxy-lite/engine/diagnostics"
	"github.com/charmbracelet/log"
)

// BackendBuilderOption is a functional option applied to the wgpu backend during construction via NewWGPUBackend.
type BackendBuilderOption func(*wgpuRendererBackendImpl)

// WithLogger sets the logger used for adapter and device messages.
//
// Parameters:
//   - logger: the logger instance
//
// Returns:
//   - BackendBuilderOption: a function that applies the logger option to a backend
func WithLogger(logger *log.Logger) BackendBuilderOption {
	return func(b *wgpuRendererBackendImpl) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithDiagnostics sets the sink that receives device-lost notifications.
// Without a sink those notifications are discarded.
//
// Parameters:
//   - sink: the diagnostic sink
//
// Returns:
//   - BackendBuilderOption: a function that applies the sink option to a backend
func WithDiagnostics(sink *diagnostics.Sink) BackendBuilderOption {
	return func(b *wgpuRendererBackendImpl) {
		b.sink = sink
	}
}

// WithForceFallbackAdapter requests the software fallback adapter instead of a hardware one.
//
// Parameters:
//   - force: whether to force the fallback adapter
//
// Returns:
//   - BackendBuilderOption: a function that applies the adapter option to a backend
func WithForceFallbackAdapter(force bool) BackendBuilderOption {
	return func(b *wgpuRendererBackendImpl) {
		b.forceFallbackAdapter = force
	}
}
