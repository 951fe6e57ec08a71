package shader

// SourceBuilderOption is a functional option for configuring a Source via New, Default or Load.
type SourceBuilderOption func(*Source)

// WithVertexEntryPoint overrides the vertex stage entry point name.
// An empty name keeps the current value.
//
// Parameters:
//   - name: the WGSL function name
//
// Returns:
//   - SourceBuilderOption: option function to apply
func WithVertexEntryPoint(name string) SourceBuilderOption {
	return func(s *Source) {
		if name != "" {
			s.VertexEntryPoint = name
		}
	}
}

// WithFragmentEntryPoint overrides the fragment stage entry point name.
// An empty name keeps the current value.
//
// Parameters:
//   - name: the WGSL function name
//
// Returns:
//   - SourceBuilderOption: option function to apply
func WithFragmentEntryPoint(name string) SourceBuilderOption {
	return func(s *Source) {
		if name != "" {
			s.FragmentEntryPoint = name
		}
	}
}
