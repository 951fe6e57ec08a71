package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrTargetUnavailable is returned by AcquireTarget when the surface has no texture to render into this frame.
// It is a per-frame condition; callers skip the frame and retry on the next one.
var ErrTargetUnavailable = errors.New("surface target unavailable")

// Resource is any GPU handle owned by the caller. Release must be safe to call more than once.
type Resource interface {
	Release()
}

// Buffer is a GPU buffer handle.
type Buffer interface {
	Resource

	// Label returns the debug label the buffer was created with.
	Label() string

	// Size returns the allocated size in bytes.
	Size() uint64
}

// RenderPipeline is a compiled render pipeline together with the bind group layout it was created with.
type RenderPipeline interface {
	Resource

	// Label returns the debug label the pipeline was created with.
	Label() string

	// BindGroupLayout returns the layout of bind group 0.
	BindGroupLayout() Resource
}

// RenderTarget is the acquired surface texture for one frame. It is released by Present.
type RenderTarget interface {
	Resource
}

// RenderPass records draw commands into a single render pass.
// Commands are only valid between BeginRenderPass and End.
type RenderPass interface {
	// SetPipeline binds the render pipeline.
	SetPipeline(p RenderPipeline)

	// SetVertexBuffer binds the whole of buf to the given vertex buffer slot.
	SetVertexBuffer(slot uint32, buf Buffer)

	// SetIndexBuffer binds the whole of buf as the index buffer.
	SetIndexBuffer(buf Buffer, format wgpu.IndexFormat)

	// SetBindGroup binds a bind group with one byte offset per dynamic binding.
	SetBindGroup(group uint32, bindGroup Resource, dynamicOffsets []uint32)

	// DrawIndexed draws indexCount indices starting at index 0.
	DrawIndexed(indexCount, instanceCount uint32)

	// End closes the pass. No further commands may be recorded.
	End() error
}

// DeviceDescriptor describes the device to request.
type DeviceDescriptor struct {
	Label          string
	RequiredLimits wgpu.Limits
}

// SurfaceConfiguration describes the presentable surface.
type SurfaceConfiguration struct {
	Width       uint32
	Height      uint32
	PresentMode wgpu.PresentMode
}

// RenderPipelineDescriptor holds everything needed to compile a render pipeline.
// It is plain data so it can be built and inspected without a device.
type RenderPipelineDescriptor struct {
	Label string

	// Code is the WGSL source for both stages.
	Code               string
	VertexEntryPoint   string
	FragmentEntryPoint string

	VertexBuffers   []wgpu.VertexBufferLayout
	Primitive       wgpu.PrimitiveState
	Targets         []wgpu.ColorTargetState
	DepthStencil    *wgpu.DepthStencilState
	Multisample     wgpu.MultisampleState
	BindGroupLayout wgpu.BindGroupLayoutDescriptor
}

// DepthTargetDescriptor describes a depth texture sized to the surface.
type DepthTargetDescriptor struct {
	Label  string
	Width  uint32
	Height uint32
	Format wgpu.TextureFormat
}

// BindGroupDescriptor describes a bind group with a single buffer binding.
type BindGroupDescriptor struct {
	Label   string
	Layout  Resource
	Binding uint32
	Buffer  Buffer
	Offset  uint64
	Size    uint64
}

// RenderPassDescriptor describes the color and depth attachments of a pass.
// Both attachments are cleared on load and the color attachment is stored.
type RenderPassDescriptor struct {
	Label           string
	Target          RenderTarget
	ClearColor      wgpu.Color
	DepthView       Resource
	DepthClearValue float32
}

// Backend is the GPU surface the device manager, pipeline builder and frame renderer depend on.
// Every handle it returns must be released by the caller; the backend keeps no ownership.
type Backend interface {
	// RequestAdapter creates the instance and the window surface, then requests an adapter compatible with the surface.
	// On failure the handles created so far are still returned, and the caller releases them.
	//
	// Returns:
	//   - Resource: the instance
	//   - Resource: the surface
	//   - Resource: the adapter, nil if none was found
	//   - error: error if no compatible adapter is available
	RequestAdapter() (Resource, Resource, Resource, error)

	// SupportedLimits reports the adapter's limits.
	//
	// Returns:
	//   - wgpu.Limits: the adapter limits
	//   - error: error if no adapter is available
	SupportedLimits() (wgpu.Limits, error)

	// RequestDevice creates the logical device and its queue.
	//
	// Parameters:
	//   - desc: the device label and the limits it must honor
	//
	// Returns:
	//   - Resource: the device
	//   - Resource: the queue
	//   - error: error if the adapter refuses the request
	RequestDevice(desc DeviceDescriptor) (Resource, Resource, error)

	// ConfigureSurface configures the surface returned by RequestAdapter for the device.
	// The configuration lives as long as the surface.
	//
	// Parameters:
	//   - cfg: the surface size and present mode
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface's color format
	//   - error: error if the surface cannot be configured
	ConfigureSurface(cfg SurfaceConfiguration) (wgpu.TextureFormat, error)

	// CreateRenderPipeline compiles the shader and creates the bind group layout, pipeline layout and pipeline.
	//
	// Parameters:
	//   - desc: the pipeline description
	//
	// Returns:
	//   - RenderPipeline: the compiled pipeline
	//   - error: error if any stage fails to compile or validate
	CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateDepthTarget creates a depth texture and a view on it.
	//
	// Parameters:
	//   - desc: the texture label, size and format
	//
	// Returns:
	//   - Resource: the texture
	//   - Resource: the view
	//   - error: error if either cannot be created
	CreateDepthTarget(desc DepthTargetDescriptor) (Resource, Resource, error)

	// CreateBuffer allocates a GPU buffer.
	//
	// Parameters:
	//   - label: the debug label
	//   - size: the size in bytes
	//   - usage: the buffer usage flags
	//
	// Returns:
	//   - Buffer: the new buffer
	//   - error: error if allocation fails
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (Buffer, error)

	// CreateUniformBindGroup creates a bind group with a single buffer binding.
	//
	// Parameters:
	//   - desc: the layout, binding and buffer range
	//
	// Returns:
	//   - Resource: the bind group
	//   - error: error if the bind group does not match its layout
	CreateUniformBindGroup(desc BindGroupDescriptor) (Resource, error)

	// WriteBuffer schedules a queue write of data into buf at offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: the destination byte offset
	//   - data: the bytes to write; the length must be a multiple of 4
	//
	// Returns:
	//   - error: error if the write is rejected
	WriteBuffer(buf Buffer, offset uint64, data []byte) error

	// AcquireTarget gets the surface texture for this frame.
	//
	// Returns:
	//   - RenderTarget: the acquired target
	//   - error: ErrTargetUnavailable (possibly wrapped) if the surface has nothing to give
	AcquireTarget() (RenderTarget, error)

	// BeginRenderPass creates a command encoder and begins a render pass on it.
	//
	// Parameters:
	//   - desc: the attachments
	//
	// Returns:
	//   - RenderPass: the open pass
	//   - error: error if the encoder cannot be created
	BeginRenderPass(desc RenderPassDescriptor) (RenderPass, error)

	// Submit finishes the ended pass's encoder and submits the command buffer to the queue.
	//
	// Parameters:
	//   - pass: a pass on which End has been called
	//
	// Returns:
	//   - error: error if the encoder cannot be finished
	Submit(pass RenderPass) error

	// Present presents the target and releases it.
	Present(target RenderTarget)

	// Poll processes pending device callbacks without blocking.
	Poll()
}
