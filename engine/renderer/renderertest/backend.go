// Package renderertest provides an in-memory renderer.Backend that records every call,
// for testing GPU-facing code without a device or window.
package renderertest

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// Write records a single WriteBuffer call.
type Write struct {
	Buffer string
	Offset uint64
	Size   int
}

// Draw records a single DrawIndexed call.
type Draw struct {
	IndexCount    uint32
	InstanceCount uint32
}

// Backend is a recording fake of renderer.Backend. Buffers keep their contents in memory,
// and every call is appended to Calls in order. Fields ending in Err are returned by the
// matching method when set.
type Backend struct {
	// Limits is what SupportedLimits reports. NewBackend fills it with DefaultLimits.
	Limits wgpu.Limits

	// Format is the surface format ConfigureSurface reports.
	Format wgpu.TextureFormat

	AdapterErr       error
	LimitsErr        error
	RequestDeviceErr error
	SurfaceErr       error
	PipelineErr      error
	BufferErr        error
	WriteErr         error
	AcquireErr       error
	SubmitErr        error

	// Calls is the ordered list of backend and render pass calls.
	Calls []string

	// Released is the ordered list of labels of released resources.
	Released []string

	// DoubleReleases counts Release calls on an already released resource.
	DoubleReleases int

	Device    renderer.DeviceDescriptor
	Surface   renderer.SurfaceConfiguration
	Pipeline  renderer.RenderPipelineDescriptor
	Depth     renderer.DepthTargetDescriptor
	BindGroup renderer.BindGroupDescriptor
	Pass      renderer.RenderPassDescriptor

	Buffers        map[string]*Buffer
	Writes         []Write
	Draws          []Draw
	DynamicOffsets [][]uint32
	Submissions    int
	Presents       int

	live int
}

var _ renderer.Backend = &Backend{}

// NewBackend returns a Backend reporting default limits and a BGRA8 surface.
func NewBackend() *Backend {
	return &Backend{
		Limits:  DefaultLimits(),
		Format:  wgpu.TextureFormatBGRA8Unorm,
		Buffers: make(map[string]*Buffer),
	}
}

// DefaultLimits returns the limits the WebGPU specification guarantees on every adapter.
// wgpu.DefaultLimits holds the "undefined" sentinels used in device requests, not values an adapter reports.
func DefaultLimits() wgpu.Limits {
	return wgpu.Limits{
		MaxTextureDimension1D:                     8192,
		MaxTextureDimension2D:                     8192,
		MaxTextureDimension3D:                     2048,
		MaxTextureArrayLayers:                     256,
		MaxBindGroups:                             4,
		MaxBindingsPerBindGroup:                   1000,
		MaxDynamicUniformBuffersPerPipelineLayout: 8,
		MaxDynamicStorageBuffersPerPipelineLayout: 4,
		MaxSampledTexturesPerShaderStage:          16,
		MaxSamplersPerShaderStage:                 16,
		MaxStorageBuffersPerShaderStage:           8,
		MaxStorageTexturesPerShaderStage:          4,
		MaxUniformBuffersPerShaderStage:           12,
		MaxUniformBufferBindingSize:               64 << 10,
		MaxStorageBufferBindingSize:               128 << 20,
		MinUniformBufferOffsetAlignment:           256,
		MinStorageBufferOffsetAlignment:           256,
		MaxVertexBuffers:                          8,
		MaxBufferSize:                             256 << 20,
		MaxVertexAttributes:                       16,
		MaxVertexBufferArrayStride:                2048,
		MaxInterStageShaderComponents:             60,
		MaxInterStageShaderVariables:              16,
		MaxColorAttachments:                       8,
		MaxColorAttachmentBytesPerSample:          32,
		MaxComputeWorkgroupStorageSize:            16384,
		MaxComputeInvocationsPerWorkgroup:         256,
		MaxComputeWorkgroupSizeX:                  256,
		MaxComputeWorkgroupSizeY:                  256,
		MaxComputeWorkgroupSizeZ:                  64,
		MaxComputeWorkgroupsPerDimension:          65535,
	}
}

// Live returns the number of created resources that have not been released.
func (b *Backend) Live() int {
	return b.live
}

// ResetCalls clears the call log, keeping all other state.
func (b *Backend) ResetCalls() {
	b.Calls = nil
}

// Resource is a fake GPU handle.
type Resource struct {
	backend  *Backend
	label    string
	released bool
}

func (b *Backend) newResource(label string) *Resource {
	b.live++
	return &Resource{backend: b, label: label}
}

// Label returns the resource's debug label.
func (r *Resource) Label() string {
	return r.label
}

// Released reports whether Release has been called.
func (r *Resource) Released() bool {
	return r.released
}

func (r *Resource) Release() {
	if r.released {
		r.backend.DoubleReleases++
		return
	}
	r.released = true
	r.backend.live--
	r.backend.Released = append(r.backend.Released, r.label)
}

// Buffer is a fake GPU buffer with in-memory contents.
type Buffer struct {
	*Resource
	Usage wgpu.BufferUsage
	Data  []byte
}

func (b *Buffer) Size() uint64 {
	return uint64(len(b.Data))
}

// Pipeline is a fake render pipeline.
type Pipeline struct {
	*Resource
	layout *Resource
}

func (p *Pipeline) BindGroupLayout() renderer.Resource {
	return p.layout
}

func (p *Pipeline) Release() {
	p.Resource.Release()
	p.layout.Release()
}

// Pass is a fake render pass that logs its commands into the backend.
type Pass struct {
	backend *Backend
	ended   bool
}

func (b *Backend) call(format string, args ...any) {
	b.Calls = append(b.Calls, fmt.Sprintf(format, args...))
}

func (b *Backend) RequestAdapter() (renderer.Resource, renderer.Resource, renderer.Resource, error) {
	b.call("RequestAdapter")
	instance, surface := b.newResource("instance"), b.newResource("surface")
	if b.AdapterErr != nil {
		return instance, surface, nil, b.AdapterErr
	}
	return instance, surface, b.newResource("adapter"), nil
}

func (b *Backend) SupportedLimits() (wgpu.Limits, error) {
	b.call("SupportedLimits")
	if b.LimitsErr != nil {
		return wgpu.Limits{}, b.LimitsErr
	}
	return b.Limits, nil
}

func (b *Backend) RequestDevice(desc renderer.DeviceDescriptor) (renderer.Resource, renderer.Resource, error) {
	b.call("RequestDevice")
	if b.RequestDeviceErr != nil {
		return nil, nil, b.RequestDeviceErr
	}
	b.Device = desc
	return b.newResource("device"), b.newResource("queue"), nil
}

func (b *Backend) ConfigureSurface(cfg renderer.SurfaceConfiguration) (wgpu.TextureFormat, error) {
	b.call("ConfigureSurface")
	if b.SurfaceErr != nil {
		return wgpu.TextureFormatUndefined, b.SurfaceErr
	}
	b.Surface = cfg
	return b.Format, nil
}

func (b *Backend) CreateRenderPipeline(desc renderer.RenderPipelineDescriptor) (renderer.RenderPipeline, error) {
	b.call("CreateRenderPipeline")
	if b.PipelineErr != nil {
		return nil, b.PipelineErr
	}
	b.Pipeline = desc
	return &Pipeline{
		Resource: b.newResource("pipeline"),
		layout:   b.newResource("bind group layout"),
	}, nil
}

func (b *Backend) CreateDepthTarget(desc renderer.DepthTargetDescriptor) (renderer.Resource, renderer.Resource, error) {
	b.call("CreateDepthTarget")
	b.Depth = desc
	return b.newResource("depth texture"), b.newResource("depth view"), nil
}

func (b *Backend) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (renderer.Buffer, error) {
	b.call("CreateBuffer %s", label)
	if b.BufferErr != nil {
		return nil, b.BufferErr
	}
	buf := &Buffer{Resource: b.newResource(label), Usage: usage, Data: make([]byte, size)}
	b.Buffers[label] = buf
	return buf, nil
}

func (b *Backend) CreateUniformBindGroup(desc renderer.BindGroupDescriptor) (renderer.Resource, error) {
	b.call("CreateUniformBindGroup")
	b.BindGroup = desc
	return b.newResource("bind group"), nil
}

func (b *Backend) WriteBuffer(buf renderer.Buffer, offset uint64, data []byte) error {
	b.call("WriteBuffer %s %d %d", buf.Label(), offset, len(data))
	if b.WriteErr != nil {
		return b.WriteErr
	}
	fb, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("unexpected buffer type %T", buf)
	}
	if fb.released {
		return fmt.Errorf("write into released buffer %q", fb.label)
	}
	if len(data)%4 != 0 {
		return fmt.Errorf("write size %d is not a multiple of 4", len(data))
	}
	if offset+uint64(len(data)) > uint64(len(fb.Data)) {
		return fmt.Errorf("write [%d, %d) past end of %q (%d bytes)", offset, offset+uint64(len(data)), fb.label, len(fb.Data))
	}
	copy(fb.Data[offset:], data)
	b.Writes = append(b.Writes, Write{Buffer: fb.label, Offset: offset, Size: len(data)})
	return nil
}

func (b *Backend) AcquireTarget() (renderer.RenderTarget, error) {
	b.call("AcquireTarget")
	if b.AcquireErr != nil {
		return nil, b.AcquireErr
	}
	return b.newResource("target"), nil
}

func (b *Backend) BeginRenderPass(desc renderer.RenderPassDescriptor) (renderer.RenderPass, error) {
	b.call("BeginRenderPass")
	b.Pass = desc
	return &Pass{backend: b}, nil
}

func (b *Backend) Submit(pass renderer.RenderPass) error {
	b.call("Submit")
	p, ok := pass.(*Pass)
	if !ok || !p.ended {
		return errors.New("submit before the pass ended")
	}
	if b.SubmitErr != nil {
		return b.SubmitErr
	}
	b.Submissions++
	return nil
}

func (b *Backend) Present(target renderer.RenderTarget) {
	b.call("Present")
	b.Presents++
	target.Release()
}

func (b *Backend) Poll() {
	b.call("Poll")
}

func (p *Pass) SetPipeline(rp renderer.RenderPipeline) {
	p.backend.call("SetPipeline")
}

func (p *Pass) SetVertexBuffer(slot uint32, buf renderer.Buffer) {
	p.backend.call("SetVertexBuffer %d %s", slot, buf.Label())
}

func (p *Pass) SetIndexBuffer(buf renderer.Buffer, format wgpu.IndexFormat) {
	p.backend.call("SetIndexBuffer %s", buf.Label())
}

func (p *Pass) SetBindGroup(group uint32, bindGroup renderer.Resource, dynamicOffsets []uint32) {
	p.backend.call("SetBindGroup %d", group)
	p.backend.DynamicOffsets = append(p.backend.DynamicOffsets, append([]uint32(nil), dynamicOffsets...))
}

func (p *Pass) DrawIndexed(indexCount, instanceCount uint32) {
	p.backend.call("DrawIndexed %d %d", indexCount, instanceCount)
	p.backend.Draws = append(p.backend.Draws, Draw{IndexCount: indexCount, InstanceCount: instanceCount})
}

func (p *Pass) End() error {
	p.backend.call("End")
	if p.ended {
		return errors.New("pass already ended")
	}
	p.ended = true
	return nil
}
