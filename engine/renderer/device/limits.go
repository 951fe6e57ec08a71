package device

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-lite/common"
	"github.com/Carmen-Shannon/oxy-lite/engine/model"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrUnsupportedLimits is returned when the adapter cannot satisfy a fixed engine requirement.
	ErrUnsupportedLimits = errors.New("adapter does not support the required limits")
	// ErrNotInitialized is returned by Manager operations that need a device before Initialize has succeeded.
	ErrNotInitialized = errors.New("device manager not initialized")
)

// Requirements are the per-session values the negotiated limits depend on.
type Requirements struct {
	// Width and Height are the surface size in pixels.
	Width  uint32
	Height uint32

	// MaxBufferSize is the size of the largest buffer the session allocates.
	MaxBufferSize uint64
}

// NewRequirements derives the requirements for drawing mesh on a surface of the given size.
//
// Parameters:
//   - width: the surface width
//   - height: the surface height
//   - mesh: the mesh that will be uploaded
//
// Returns:
//   - Requirements: the requirements, with MaxBufferSize covering every stream, the index data and the uniform block
func NewRequirements(width, height uint32, mesh *model.Mesh) Requirements {
	largest := uniform.Size
	if mesh != nil {
		for _, n := range []int{
			len(mesh.PositionBytes()),
			len(mesh.NormalBytes()),
			len(mesh.ColorBytes()),
			len(mesh.IndexBytes()),
		} {
			largest = max(largest, uint64(n))
		}
	}
	return Requirements{Width: width, Height: height, MaxBufferSize: largest}
}

// Negotiated is the outcome of limit negotiation.
type Negotiated struct {
	// Limits are the limits to request the device with.
	Limits wgpu.Limits

	// UniformStride is the uniform block size rounded up to the adapter's minimum uniform offset alignment.
	UniformStride uint32
}

// requirement pairs a required maximum with what the adapter reports.
type requirement struct {
	name     string
	required uint64
	reported uint64
}

// NegotiateLimits builds the device limits from the WebGPU defaults and the fixed engine maxima, keeping the adapter's alignments.
//
// Parameters:
//   - reported: the adapter's limits
//   - req: the session requirements
//
// Returns:
//   - Negotiated: the limits to request and the uniform stride
//   - error: an error wrapping ErrUnsupportedLimits naming the first unmet limit
func NegotiateLimits(reported wgpu.Limits, req Requirements) (Negotiated, error) {
	align := reported.MinUniformBufferOffsetAlignment
	switch align {
	case 0:
		return Negotiated{}, fmt.Errorf("%w: adapter reports a zero uniform offset alignment", ErrUnsupportedLimits)
	case wgpu.LimitU32Undefined:
		return Negotiated{}, fmt.Errorf("%w: adapter reports an undefined uniform offset alignment", ErrUnsupportedLimits)
	}
	stride := common.CeilToMultiple(uint32(uniform.Size), align)
	dimension := max(req.Width, req.Height)

	limits := wgpu.DefaultLimits()
	limits.MaxVertexAttributes = uint32(bind_group_provider.VertexSlots)
	limits.MaxVertexBuffers = uint32(bind_group_provider.VertexSlots)
	limits.MaxVertexBufferArrayStride = model.VertexStride
	limits.MaxBufferSize = req.MaxBufferSize
	limits.MaxTextureDimension1D = dimension
	limits.MaxTextureDimension2D = dimension
	limits.MaxTextureArrayLayers = 1
	limits.MaxBindGroups = 1
	limits.MaxUniformBuffersPerShaderStage = 1
	limits.MaxDynamicUniformBuffersPerPipelineLayout = 1
	limits.MaxUniformBufferBindingSize = uint64(stride)
	limits.MinUniformBufferOffsetAlignment = align
	limits.MinStorageBufferOffsetAlignment = reported.MinStorageBufferOffsetAlignment

	checks := []requirement{
		{"max vertex attributes", uint64(limits.MaxVertexAttributes), uint64(reported.MaxVertexAttributes)},
		{"max vertex buffers", uint64(limits.MaxVertexBuffers), uint64(reported.MaxVertexBuffers)},
		{"max vertex buffer array stride", uint64(limits.MaxVertexBufferArrayStride), uint64(reported.MaxVertexBufferArrayStride)},
		{"max buffer size", limits.MaxBufferSize, reported.MaxBufferSize},
		{"max texture dimension 1D", uint64(limits.MaxTextureDimension1D), uint64(reported.MaxTextureDimension1D)},
		{"max texture dimension 2D", uint64(limits.MaxTextureDimension2D), uint64(reported.MaxTextureDimension2D)},
		{"max texture array layers", uint64(limits.MaxTextureArrayLayers), uint64(reported.MaxTextureArrayLayers)},
		{"max bind groups", uint64(limits.MaxBindGroups), uint64(reported.MaxBindGroups)},
		{"max uniform buffers per shader stage", uint64(limits.MaxUniformBuffersPerShaderStage), uint64(reported.MaxUniformBuffersPerShaderStage)},
		{"max dynamic uniform buffers per pipeline layout", uint64(limits.MaxDynamicUniformBuffersPerPipelineLayout), uint64(reported.MaxDynamicUniformBuffersPerPipelineLayout)},
		{"max uniform buffer binding size", limits.MaxUniformBufferBindingSize, reported.MaxUniformBufferBindingSize},
	}
	for _, c := range checks {
		if c.required > c.reported {
			return Negotiated{}, fmt.Errorf("%w: %s needs %d, adapter reports %d", ErrUnsupportedLimits, c.name, c.required, c.reported)
		}
	}

	return Negotiated{Limits: limits, UniformStride: stride}, nil
}
