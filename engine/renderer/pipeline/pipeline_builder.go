package pipeline

// PipelineBuilderOption is a functional option used to configure a pipeline Config.
type PipelineBuilderOption func(*Config)

// WithLabel sets the debug label of the pipeline.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - PipelineBuilderOption: a function that sets the label
func WithLabel(label string) PipelineBuilderOption {
	return func(c *Config) {
		c.Label = label
	}
}

// WithFrontFace sets the winding treated as front facing.
//
// Parameters:
//   - f: the winding
//
// Returns:
//   - PipelineBuilderOption: a function that sets the front face
func WithFrontFace(f FrontFace) PipelineBuilderOption {
	return func(c *Config) {
		c.FrontFace = f
	}
}

// WithCullMode sets which faces are culled.
//
// Parameters:
//   - m: the cull mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode
func WithCullMode(m CullMode) PipelineBuilderOption {
	return func(c *Config) {
		c.CullMode = m
	}
}
