package bind_group_provider

import "github.com/Carmen-Shannon/oxy-lite/engine/renderer"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroup sets the bind group for this provider.
//
// Parameters:
//   - bg: the bind group to set for this provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group for this provider
func WithBindGroup(bg renderer.Resource) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroup = bg
	}
}

// WithBuffer sets a uniform buffer for a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf renderer.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithVertexBuffers sets the vertex buffers, one per slot starting at SlotPosition.
// Buffers past the last slot are ignored.
//
// Parameters:
//   - buffers: the vertex buffers in slot order
//
// Returns:
//   - BindGroupProviderOption: a function that sets the vertex buffers for this provider
func WithVertexBuffers(buffers ...renderer.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		for i, buf := range buffers {
			if i >= int(VertexSlots) {
				break
			}
			p.vertexBuffers[i] = buf
		}
	}
}

// WithIndexBuffer sets the index buffer and the number of indices drawn from it.
//
// Parameters:
//   - buf: the index buffer
//   - count: the index count
//
// Returns:
//   - BindGroupProviderOption: a function that sets the index buffer for this provider
func WithIndexBuffer(buf renderer.Buffer, count uint32) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.indexBuffer = buf
		p.indexCount = count
	}
}
