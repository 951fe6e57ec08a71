package frame

import (
	"github.com/Carmen-Shannon/oxy-lite/engine/diagnostics"
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a Renderer during construction via NewRenderer.
type RendererBuilderOption func(*frameRenderer)

// WithLogger sets the logger. Messages are tagged with the "frame" prefix.
//
// Parameters:
//   - logger: the logger instance
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option
func WithLogger(logger *log.Logger) RendererBuilderOption {
	return func(r *frameRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDiagnostics sets the sink device errors are reported to. Without one they are logged immediately.
//
// Parameters:
//   - sink: the diagnostic sink
//
// Returns:
//   - RendererBuilderOption: a function that applies the sink option
func WithDiagnostics(sink *diagnostics.Sink) RendererBuilderOption {
	return func(r *frameRenderer) {
		r.sink = sink
	}
}

// WithClearColor overrides the mid-gray clear color.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option
func WithClearColor(c wgpu.Color) RendererBuilderOption {
	return func(r *frameRenderer) {
		r.clearColor = c
	}
}
