package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/naga"
)

const (
	// DefaultVertexEntryPoint is the vertex stage entry point expected in every shader program.
	DefaultVertexEntryPoint = "vs_main"

	// DefaultFragmentEntryPoint is the fragment stage entry point expected in every shader program.
	DefaultFragmentEntryPoint = "fs_main"
)

// ErrInvalidShader is returned when WGSL source is empty or fails to compile.
var ErrInvalidShader = errors.New("invalid shader")

// DefaultSource is the built-in WGSL program used when no shader file is configured.
// It reads positions, normals and colors at locations 0, 1 and 2 and a single uniform block at group 0, binding 0.
//
//go:embed assets/default.wgsl
var DefaultSource string

// Source is an opaque WGSL program together with the entry points the pipeline binds.
// The renderer never inspects the code beyond optional validation.
type Source struct {
	// Key is a debug label, typically the base name of the file the code was read from.
	Key string

	// Code is the WGSL source text.
	Code string

	// VertexEntryPoint is the vertex stage entry point name.
	VertexEntryPoint string

	// FragmentEntryPoint is the fragment stage entry point name.
	FragmentEntryPoint string
}

// New wraps WGSL code in a Source, applying the default entry points before any options.
//
// Parameters:
//   - key: debug label for the program
//   - code: the WGSL source text
//   - options: functional options overriding entry points
//
// Returns:
//   - Source: the program description
func New(key, code string, options ...SourceBuilderOption) Source {
	s := Source{
		Key:                key,
		Code:               code,
		VertexEntryPoint:   DefaultVertexEntryPoint,
		FragmentEntryPoint: DefaultFragmentEntryPoint,
	}
	for _, opt := range options {
		opt(&s)
	}
	return s
}

// Default returns the built-in program.
func Default(options ...SourceBuilderOption) Source {
	return New("default.wgsl", DefaultSource, options...)
}

// Load reads a WGSL file from disk.
// A missing or unreadable file is an initialization error; nothing is cached.
//
// Parameters:
//   - path: file path to the WGSL source
//   - options: functional options overriding entry points
//
// Returns:
//   - Source: the loaded program
//   - error: error if the file cannot be read or is empty
func Load(path string, options ...SourceBuilderOption) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read shader %q: %w", path, err)
	}
	if len(data) == 0 {
		return Source{}, fmt.Errorf("%w: %q is empty", ErrInvalidShader, path)
	}
	return New(filepath.Base(path), string(data), options...), nil
}

// Validate compiles the program with naga and discards the output.
// The device consumes WGSL directly, so this only surfaces syntax and type errors before
// any GPU resource is created.
//
// Parameters:
//   - s: the program to check
//
// Returns:
//   - error: ErrInvalidShader wrapping the compiler diagnostic, or nil
func Validate(s Source) error {
	if s.Code == "" {
		name := s.Key
		if name == "" {
			name = "shader"
		}
		return fmt.Errorf("%w: %s has no code", ErrInvalidShader, name)
	}
	if _, err := naga.Compile(s.Code); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidShader, s.Key, err)
	}
	return nil
}
