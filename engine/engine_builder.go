package engine

import (
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
	"github.com/charmbracelet/log"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithLogger sets the root logger. Every component logs through it with its own prefix.
//
// Parameters:
//   - logger: the logger instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *log.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithBackend sets a GPU backend rather than allowing the engine to create a wgpu one from the surface.
//
// Parameters:
//   - b: the backend
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBackend(b renderer.Backend) EngineBuilderOption {
	return func(e *engine) {
		e.backend = b
	}
}

// WithSurfaceProvider sets a custom surface rather than allowing the engine to open a GLFW window.
// The engine closes it on Terminate.
//
// Parameters:
//   - s: the surface provider
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurfaceProvider(s SurfaceProvider) EngineBuilderOption {
	return func(e *engine) {
		e.surface = s
	}
}

// WithClock sets the time source fed to the uniforms, in seconds. Defaults to the surface's timer.
func WithClock(clock func() float64) EngineBuilderOption {
	return func(e *engine) {
		e.clock = clock
	}
}
