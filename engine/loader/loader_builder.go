package loader

import (
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/shader"
	"github.com/charmbracelet/log"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the logger used for load timings.
//
// Parameters:
//   - logger: the logger instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *log.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithWorkers sets the number of worker goroutines used by LoadAssets.
//
// Parameters:
//   - workers: the worker count (values below 1 fall back to 1)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(workers int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = workers
	}
}

// WithShaderOptions sets options applied to every shader the loader produces, such as entry point overrides.
//
// Parameters:
//   - options: shader source options
//
// Returns:
//   - LoaderBuilderOption: a function that applies the shader options to a loader
func WithShaderOptions(options ...shader.SourceBuilderOption) LoaderBuilderOption {
	return func(l *loader) {
		l.shaderOptions = append(l.shaderOptions, options...)
	}
}
