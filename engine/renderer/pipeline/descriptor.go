package pipeline

import (
	"github.com/Carmen-Shannon/oxy-lite/engine/model"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthFormat is the format of the depth attachment.
const DepthFormat = wgpu.TextureFormatDepth24Plus

// VertexLayouts returns one layout per attribute stream. Each holds a single Float32x3 attribute
// at the shader location matching its slot.
//
// Returns:
//   - []wgpu.VertexBufferLayout: the position, normal and color layouts
func VertexLayouts() []wgpu.VertexBufferLayout {
	layouts := make([]wgpu.VertexBufferLayout, bind_group_provider.VertexSlots)
	for slot := range layouts {
		layouts[slot] = wgpu.VertexBufferLayout{
			ArrayStride: model.VertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         0,
				ShaderLocation: uint32(slot),
			}},
		}
	}
	return layouts
}

// BlendState returns straight alpha blending for color. Alpha keeps the destination value.
//
// Returns:
//   - wgpu.BlendState: the blend state
func BlendState() wgpu.BlendState {
	return wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorZero,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// DepthStencilState returns a Depth24Plus less-than test with writes on and the stencil disabled.
//
// Returns:
//   - wgpu.DepthStencilState: the depth stencil state
func DepthStencilState() wgpu.DepthStencilState {
	face := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}
	return wgpu.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: true,
		DepthCompare:      wgpu.CompareFunctionLess,
		StencilFront:      face,
		StencilBack:       face,
		StencilReadMask:   0,
		StencilWriteMask:  0,
	}
}

// BindGroupLayoutDescriptor returns the layout of bind group 0: one dynamic-offset uniform buffer at binding 0
// visible to both stages.
//
// Parameters:
//   - blockSize: the size of the uniform block, used as the minimum binding size
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
func BindGroupLayoutDescriptor(blockSize uint64) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "uniform bind group layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    bind_group_provider.UniformBinding,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   blockSize,
			},
		}},
	}
}

// Describe builds the full pipeline description without touching the device.
//
// Parameters:
//   - cfg: the fixed-function configuration
//   - format: the surface color format
//   - src: the shader source
//
// Returns:
//   - renderer.RenderPipelineDescriptor: the description passed to the backend
func Describe(cfg Config, format wgpu.TextureFormat, src shader.Source) renderer.RenderPipelineDescriptor {
	blend := BlendState()
	depth := DepthStencilState()
	return renderer.RenderPipelineDescriptor{
		Label:              cfg.Label,
		Code:               src.Code,
		VertexEntryPoint:   src.VertexEntryPoint,
		FragmentEntryPoint: src.FragmentEntryPoint,
		VertexBuffers:      VertexLayouts(),
		Primitive: wgpu.PrimitiveState{
			Topology:         wgpu.PrimitiveTopologyTriangleList,
			StripIndexFormat: wgpu.IndexFormatUndefined,
			FrontFace:        cfg.FrontFace.WGPU(),
			CullMode:         cfg.CullMode.WGPU(),
		},
		Targets: []wgpu.ColorTargetState{{
			Format:    format,
			Blend:     &blend,
			WriteMask: wgpu.ColorWriteMaskAll,
		}},
		DepthStencil: &depth,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
		BindGroupLayout: BindGroupLayoutDescriptor(uniform.Size),
	}
}
