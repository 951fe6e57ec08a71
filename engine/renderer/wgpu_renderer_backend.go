package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-lite/engine/diagnostics"
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	logger *log.Logger
	sink   *diagnostics.Sink

	surfaceDescriptor *wgpu.SurfaceDescriptor

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	forceFallbackAdapter bool
}

var _ Backend = &wgpuRendererBackendImpl{}

// wgpuResource releases a wgpu handle at most once.
type wgpuResource struct {
	release func()
}

func (r *wgpuResource) Release() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
}

type wgpuBuffer struct {
	wgpuResource
	buffer *wgpu.Buffer
	label  string
	size   uint64
}

func (b *wgpuBuffer) Label() string { return b.label }
func (b *wgpuBuffer) Size() uint64  { return b.size }

type wgpuTextureView struct {
	wgpuResource
	view *wgpu.TextureView
}

type wgpuBindGroupLayout struct {
	wgpuResource
	layout *wgpu.BindGroupLayout
}

type wgpuBindGroup struct {
	wgpuResource
	group *wgpu.BindGroup
}

type wgpuRenderPipeline struct {
	wgpuResource
	pipeline *wgpu.RenderPipeline
	layout   *wgpuBindGroupLayout
	label    string
}

func (p *wgpuRenderPipeline) Label() string             { return p.label }
func (p *wgpuRenderPipeline) BindGroupLayout() Resource { return p.layout }

type wgpuRenderTarget struct {
	wgpuResource
	view *wgpu.TextureView
}

type wgpuRenderPass struct {
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
	ended   bool
}

// NewWGPUBackend creates a backend for the window the surface descriptor was taken from.
// Nothing is created on the GPU until RequestAdapter.
// The calling goroutine is locked to its OS thread, since the surface is bound to the window's thread.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor from the window
//   - options: functional options to configure the backend
//
// Returns:
//   - Backend: the backend
//   - error: error if the surface descriptor is nil
func NewWGPUBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...BackendBuilderOption) (Backend, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("surface descriptor is nil")
	}
	runtime.LockOSThread()

	b := &wgpuRendererBackendImpl{
		mu:                &sync.Mutex{},
		logger:            log.Default(),
		surfaceDescriptor: surfaceDescriptor,
	}
	for _, opt := range options {
		opt(b)
	}
	return b, nil
}

func (b *wgpuRendererBackendImpl) RequestAdapter() (Resource, Resource, Resource, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.instance != nil {
		return nil, nil, nil, errors.New("adapter already requested")
	}

	b.instance = wgpu.CreateInstance(nil)
	instance := &wgpuResource{release: func() {
		b.instance.Release()
		b.instance = nil
	}}

	b.surface = b.instance.CreateSurface(b.surfaceDescriptor)
	surface := &wgpuResource{release: func() {
		b.surface.Release()
		b.surface = nil
	}}

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return instance, surface, nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a
	b.logger.Debug("adapter acquired", "fallback", b.forceFallbackAdapter)

	adapter := &wgpuResource{release: func() {
		b.adapter.Release()
		b.adapter = nil
	}}
	return instance, surface, adapter, nil
}

func (b *wgpuRendererBackendImpl) SupportedLimits() (wgpu.Limits, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.adapter == nil {
		return wgpu.Limits{}, errors.New("no adapter")
	}
	return b.adapter.GetLimits().Limits, nil
}

func (b *wgpuRendererBackendImpl) RequestDevice(desc DeviceDescriptor) (Resource, Resource, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.adapter == nil {
		return nil, nil, errors.New("no adapter")
	}

	limits := desc.RequiredLimits
	d, err := b.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: desc.Label,
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
		DeviceLostCallback: func(reason wgpu.DeviceLostReason, message string) {
			// Runs on the runtime's callback path; only the sink is touched.
			if b.sink != nil {
				b.sink.DeviceLost(fmt.Sprint(reason), message)
			}
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	device := &wgpuResource{release: func() {
		b.device.Release()
		b.device = nil
	}}
	queue := &wgpuResource{release: func() {
		b.queue.Release()
		b.queue = nil
	}}
	return device, queue, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(cfg SurfaceConfiguration) (wgpu.TextureFormat, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil || b.surface == nil || b.adapter == nil {
		return wgpu.TextureFormatUndefined, errors.New("device not requested")
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return wgpu.TextureFormatUndefined, errors.New("surface reports no formats for this adapter")
	}
	format := capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
		PresentMode: cfg.PresentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
	return format, nil
}

func (b *wgpuRendererBackendImpl) CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.Code,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module: %w", err)
	}
	// The module is only referenced while the pipeline is compiled.
	defer module.Release()

	bindGroupLayout, err := b.device.CreateBindGroupLayout(&desc.BindGroupLayout)
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group layout: %w", err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label + " Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		bindGroupLayout.Release()
		return nil, fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: desc.VertexEntryPoint,
			Buffers:    desc.VertexBuffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: desc.FragmentEntryPoint,
			Targets:    desc.Targets,
		},
		Primitive:    desc.Primitive,
		Multisample:  desc.Multisample,
		DepthStencil: desc.DepthStencil,
	})
	if err != nil {
		bindGroupLayout.Release()
		return nil, fmt.Errorf("failed to create render pipeline: %w", err)
	}

	layout := &wgpuBindGroupLayout{layout: bindGroupLayout}
	layout.release = bindGroupLayout.Release

	p := &wgpuRenderPipeline{pipeline: created, layout: layout, label: desc.Label}
	p.release = func() {
		created.Release()
		layout.Release()
	}
	return p, nil
}

func (b *wgpuRendererBackendImpl) CreateDepthTarget(desc DepthTargetDescriptor) (Resource, Resource, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        desc.Format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create depth texture: %w", err)
	}

	view, err := texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           desc.Label + " View",
		Format:          desc.Format,
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspectDepthOnly,
	})
	if err != nil {
		texture.Release()
		return nil, nil, fmt.Errorf("failed to create depth texture view: %w", err)
	}

	textureResource := &wgpuResource{release: texture.Release}
	viewResource := &wgpuTextureView{view: view}
	viewResource.release = view.Release
	return textureResource, viewResource, nil
}

func (b *wgpuRendererBackendImpl) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %q: %w", label, err)
	}

	out := &wgpuBuffer{buffer: buf, label: label, size: size}
	out.release = buf.Release
	return out, nil
}

func (b *wgpuRendererBackendImpl) CreateUniformBindGroup(desc BindGroupDescriptor) (Resource, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	layout, ok := desc.Layout.(*wgpuBindGroupLayout)
	if !ok {
		return nil, fmt.Errorf("bind group layout %T was not created by this backend", desc.Layout)
	}
	buf, ok := desc.Buffer.(*wgpuBuffer)
	if !ok {
		return nil, fmt.Errorf("buffer %T was not created by this backend", desc.Buffer)
	}

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  desc.Label,
		Layout: layout.layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: desc.Binding,
				Buffer:  buf.buffer,
				Offset:  desc.Offset,
				Size:    desc.Size,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group: %w", err)
	}

	out := &wgpuBindGroup{group: group}
	out.release = group.Release
	return out, nil
}

func (b *wgpuRendererBackendImpl) WriteBuffer(buf Buffer, offset uint64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	wb, ok := buf.(*wgpuBuffer)
	if !ok || wb.buffer == nil || wb.release == nil {
		return fmt.Errorf("buffer %v is not a live buffer of this backend", buf)
	}
	if err := b.queue.WriteBuffer(wb.buffer, offset, data); err != nil {
		return fmt.Errorf("failed to write %d bytes at %d into %q: %w", len(data), offset, wb.label, err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) AcquireTarget() (RenderTarget, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTargetUnavailable, err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, fmt.Errorf("%w: %v", ErrTargetUnavailable, err)
	}

	target := &wgpuRenderTarget{view: view}
	target.release = func() {
		view.Release()
		surfaceTexture.Release()
	}
	return target, nil
}

func (b *wgpuRendererBackendImpl) BeginRenderPass(desc RenderPassDescriptor) (RenderPass, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	target, ok := desc.Target.(*wgpuRenderTarget)
	if !ok {
		return nil, fmt.Errorf("render target %T was not acquired from this backend", desc.Target)
	}
	depth, ok := desc.DepthView.(*wgpuTextureView)
	if !ok {
		return nil, fmt.Errorf("depth view %T was not created by this backend", desc.DepthView)
	}

	encoder, err := b.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: desc.Label + " Encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder: %w", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       target.view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: desc.ClearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            depth.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: desc.DepthClearValue,
		},
	})

	return &wgpuRenderPass{encoder: encoder, pass: pass}, nil
}

func (b *wgpuRendererBackendImpl) Submit(pass RenderPass) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := pass.(*wgpuRenderPass)
	if !ok {
		return fmt.Errorf("render pass %T was not begun on this backend", pass)
	}
	defer p.encoder.Release()
	if !p.ended {
		return errors.New("render pass has not ended")
	}

	commandBuffer, err := p.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	return nil
}

func (b *wgpuRendererBackendImpl) Present(target RenderTarget) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if target == nil {
		return
	}
	b.surface.Present()
	target.Release()
}

func (b *wgpuRendererBackendImpl) Poll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device != nil {
		b.device.Poll(false, nil)
	}
}

func (p *wgpuRenderPass) SetPipeline(rp RenderPipeline) {
	if wp, ok := rp.(*wgpuRenderPipeline); ok {
		p.pass.SetPipeline(wp.pipeline)
	}
}

func (p *wgpuRenderPass) SetVertexBuffer(slot uint32, buf Buffer) {
	if wb, ok := buf.(*wgpuBuffer); ok {
		p.pass.SetVertexBuffer(slot, wb.buffer, 0, wgpu.WholeSize)
	}
}

func (p *wgpuRenderPass) SetIndexBuffer(buf Buffer, format wgpu.IndexFormat) {
	if wb, ok := buf.(*wgpuBuffer); ok {
		p.pass.SetIndexBuffer(wb.buffer, format, 0, wgpu.WholeSize)
	}
}

func (p *wgpuRenderPass) SetBindGroup(group uint32, bindGroup Resource, dynamicOffsets []uint32) {
	if bg, ok := bindGroup.(*wgpuBindGroup); ok {
		p.pass.SetBindGroup(group, bg.group, dynamicOffsets)
	}
}

func (p *wgpuRenderPass) DrawIndexed(indexCount, instanceCount uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
}

func (p *wgpuRenderPass) End() error {
	if p.ended {
		return errors.New("render pass already ended")
	}
	p.ended = true
	p.pass.End()
	p.pass.Release()
	return nil
}
