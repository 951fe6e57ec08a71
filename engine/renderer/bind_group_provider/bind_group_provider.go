package bind_group_provider

import (
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
)

// Vertex buffer slots. Each attribute stream lives in its own buffer bound at the slot matching its shader location.
const (
	SlotPosition uint32 = iota
	SlotNormal
	SlotColor

	// VertexSlots is the number of vertex buffer slots.
	VertexSlots
)

// UniformBinding is the binding index of the uniform buffer in bind group 0.
const UniformBinding = 0

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed.
	// They are populated by the device manager, not by user-creation.

	// vertexBuffers holds one buffer per attribute stream, indexed by slot.
	vertexBuffers [VertexSlots]renderer.Buffer
	// indexBuffer is the GPU index buffer, or nil if not initialized.
	indexBuffer renderer.Buffer
	// indexCount is the number of indices for draw calls.
	indexCount uint32
	// buffers holds the uniform buffers, keyed by binding index.
	buffers map[int]renderer.Buffer
	// bindGroup is the GPU bind group created for this provider, or nil if not initialized.
	bindGroup renderer.Resource
}

// BindGroupProvider holds the GPU resources one mesh is drawn with: the per-attribute vertex buffers,
// the index buffer, the uniform buffer and the bind group over it.
//
// Usage pattern:
//  1. The device manager creates a provider and sets the buffers as it allocates them
//  2. The device manager creates the bind group from the uniform buffer and sets it
//  3. The uniform updater writes through Buffer(UniformBinding)
//  4. The frame renderer binds everything and draws IndexCount() indices
type BindGroupProvider interface {
	// Release releases every GPU resource held by this provider in reverse order of creation.
	// The bind group goes first, then the uniform buffers, the index buffer and the vertex buffers from the last slot down.
	// Calling it again is a no-op.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - renderer.Resource: the bind group or nil
	BindGroup() renderer.Resource

	// Buffer returns the uniform buffer for the binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - renderer.Buffer: the buffer or nil
	Buffer(binding int) renderer.Buffer

	// VertexBuffer returns the vertex buffer bound at slot, or nil if not initialized or out of range.
	//
	// Parameters:
	//   - slot: the vertex buffer slot
	//
	// Returns:
	//   - renderer.Buffer: the vertex buffer or nil
	VertexBuffer(slot uint32) renderer.Buffer

	// IndexBuffer returns the GPU index buffer, or nil if not initialized.
	//
	// Returns:
	//   - renderer.Buffer: the index buffer or nil
	IndexBuffer() renderer.Buffer

	// IndexCount returns the number of indices for draw calls.
	//
	// Returns:
	//   - uint32: the index count
	IndexCount() uint32

	// SetBindGroup sets the bind group after GPU initialization.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg renderer.Resource)

	// SetBuffer sets the uniform buffer for a binding after GPU initialization.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf renderer.Buffer)

	// SetVertexBuffer stores the vertex buffer for a slot. Out of range slots are ignored.
	//
	// Parameters:
	//   - slot: the vertex buffer slot
	//   - buf: the created vertex buffer
	SetVertexBuffer(slot uint32, buf renderer.Buffer)

	// SetIndexBuffer stores the GPU index buffer.
	//
	// Parameters:
	//   - buf: the created index buffer
	SetIndexBuffer(buf renderer.Buffer)

	// SetIndexCount sets the number of indices for draw calls.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count uint32)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]renderer.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() renderer.Resource {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) renderer.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) VertexBuffer(slot uint32) renderer.Buffer {
	if slot >= VertexSlots {
		return nil
	}
	return p.vertexBuffers[slot]
}

func (p *bindGroupProvider) IndexBuffer() renderer.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() uint32 {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg renderer.Resource) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf renderer.Buffer) {
	if p.buffers == nil {
		p.buffers = make(map[int]renderer.Buffer)
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetVertexBuffer(slot uint32, buf renderer.Buffer) {
	if slot >= VertexSlots {
		return
	}
	p.vertexBuffers[slot] = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf renderer.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count uint32) {
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
	for slot := int(VertexSlots) - 1; slot >= 0; slot-- {
		if p.vertexBuffers[slot] != nil {
			p.vertexBuffers[slot].Release()
			p.vertexBuffers[slot] = nil
		}
	}
}
