package device

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-lite/engine/diagnostics"
	"github.com/Carmen-Shannon/oxy-lite/engine/model"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/uniform"
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// acquired is one entry on the manager's acquisition stack.
type acquired struct {
	label    string
	resource renderer.Resource
}

// manager is the unexported implementation of Manager.
type manager struct {
	backend     renderer.Backend
	logger      *log.Logger
	sink        *diagnostics.Sink
	presentMode wgpu.PresentMode

	initialized bool
	negotiated  Negotiated
	format      wgpu.TextureFormat
	width       uint32
	height      uint32

	// stack holds every acquired handle in acquisition order. Teardown pops it.
	stack []acquired
}

// Manager owns the device, the queue, the configured surface and every GPU resource created for the session.
// Resources are released strictly in reverse order of acquisition.
type Manager interface {
	// Initialize requests the adapter, negotiates limits with it, requests the device and queue, and configures the surface.
	// Every handle goes on the stack as soon as it is acquired, so on failure Teardown releases what was created.
	//
	// Parameters:
	//   - req: the session requirements
	//
	// Returns:
	//   - error: an error wrapping ErrUnsupportedLimits, or the backend's error
	Initialize(req Requirements) error

	// Backend returns the backend resources are created on.
	//
	// Returns:
	//   - renderer.Backend: the backend
	Backend() renderer.Backend

	// Diagnostics returns the sink device errors are reported to, or nil.
	//
	// Returns:
	//   - *diagnostics.Sink: the sink or nil
	Diagnostics() *diagnostics.Sink

	// SurfaceFormat returns the configured surface color format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// SurfaceSize returns the configured surface size.
	//
	// Returns:
	//   - uint32: the width
	//   - uint32: the height
	SurfaceSize() (uint32, uint32)

	// UniformStride returns the uniform block size rounded up to the device's uniform offset alignment.
	//
	// Returns:
	//   - uint32: the stride, or 0 before Initialize
	UniformStride() uint32

	// Limits returns the limits the device was requested with.
	//
	// Returns:
	//   - wgpu.Limits: the negotiated limits
	Limits() wgpu.Limits

	// Track hands ownership of a resource to the manager. It is released by Teardown in reverse order.
	// A nil resource is ignored.
	//
	// Parameters:
	//   - label: the label used in teardown logs
	//   - resource: the resource
	Track(label string, resource renderer.Resource)

	// CreateBuffers allocates the vertex, index and uniform buffers for mesh and uploads the mesh data.
	// The returned provider is owned by the manager.
	//
	// Parameters:
	//   - mesh: a validated mesh
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider holding the new buffers
	//   - error: error if a buffer cannot be created or written
	CreateBuffers(mesh *model.Mesh) (bind_group_provider.BindGroupProvider, error)

	// CreateBindGroup creates the single bind group over the provider's uniform buffer and stores it on the provider.
	// The entry is binding 0, offset 0, sized to the uniform block.
	//
	// Parameters:
	//   - provider: a provider returned by CreateBuffers
	//   - layout: the pipeline's bind group layout
	//
	// Returns:
	//   - error: error if the provider has no uniform buffer or the backend rejects the bind group
	CreateBindGroup(provider bind_group_provider.BindGroupProvider, layout renderer.Resource) error

	// Teardown releases every tracked resource in reverse order of acquisition. A second call is a no-op.
	Teardown()
}

var _ Manager = &manager{}

// NewManager creates a Manager over the backend. Nothing is acquired until Initialize.
//
// Parameters:
//   - backend: the GPU backend
//   - options: a variadic list of options to configure the manager
//
// Returns:
//   - Manager: a new Manager
func NewManager(backend renderer.Backend, options ...ManagerBuilderOption) Manager {
	m := &manager{
		backend:     backend,
		logger:      log.Default(),
		presentMode: wgpu.PresentModeFifo,
	}
	for _, opt := range options {
		opt(m)
	}
	m.logger = m.logger.WithPrefix("device")
	return m
}

func (m *manager) Initialize(req Requirements) error {
	if m.initialized {
		return errors.New("device manager already initialized")
	}

	instance, surface, adapter, err := m.backend.RequestAdapter()
	m.Track("instance", instance)
	m.Track("surface", surface)
	m.Track("adapter", adapter)
	if err != nil {
		return fmt.Errorf("failed to request adapter: %w", err)
	}

	reported, err := m.backend.SupportedLimits()
	if err != nil {
		return fmt.Errorf("failed to query adapter limits: %w", err)
	}
	negotiated, err := NegotiateLimits(reported, req)
	if err != nil {
		return err
	}

	device, queue, err := m.backend.RequestDevice(renderer.DeviceDescriptor{
		Label:          "oxy-lite device",
		RequiredLimits: negotiated.Limits,
	})
	if err != nil {
		return fmt.Errorf("failed to request device: %w", err)
	}
	m.Track("device", device)
	m.Track("queue", queue)

	format, err := m.backend.ConfigureSurface(renderer.SurfaceConfiguration{
		Width:       req.Width,
		Height:      req.Height,
		PresentMode: m.presentMode,
	})
	if err != nil {
		return fmt.Errorf("failed to configure surface: %w", err)
	}

	m.negotiated = negotiated
	m.format = format
	m.width, m.height = req.Width, req.Height
	m.initialized = true
	m.logger.Info("device ready",
		"width", req.Width,
		"height", req.Height,
		"format", format,
		"alignment", negotiated.Limits.MinUniformBufferOffsetAlignment,
		"stride", negotiated.UniformStride,
	)
	return nil
}

func (m *manager) Backend() renderer.Backend {
	return m.backend
}

func (m *manager) Diagnostics() *diagnostics.Sink {
	return m.sink
}

func (m *manager) SurfaceFormat() wgpu.TextureFormat {
	return m.format
}

func (m *manager) SurfaceSize() (uint32, uint32) {
	return m.width, m.height
}

func (m *manager) UniformStride() uint32 {
	return m.negotiated.UniformStride
}

func (m *manager) Limits() wgpu.Limits {
	return m.negotiated.Limits
}

func (m *manager) Track(label string, resource renderer.Resource) {
	if resource == nil {
		return
	}
	m.stack = append(m.stack, acquired{label: label, resource: resource})
}

func (m *manager) CreateBuffers(mesh *model.Mesh) (bind_group_provider.BindGroupProvider, error) {
	if !m.initialized {
		return nil, ErrNotInitialized
	}

	// Tracked before anything is allocated so a partial failure still tears down what was created.
	provider := bind_group_provider.NewBindGroupProvider("mesh")
	m.Track("mesh resources", provider)

	streams := []struct {
		slot  uint32
		label string
		data  []byte
	}{
		{bind_group_provider.SlotPosition, "position buffer", mesh.PositionBytes()},
		{bind_group_provider.SlotNormal, "normal buffer", mesh.NormalBytes()},
		{bind_group_provider.SlotColor, "color buffer", mesh.ColorBytes()},
	}
	for _, s := range streams {
		buf, err := m.upload(s.label, s.data, wgpu.BufferUsageCopyDst|wgpu.BufferUsageVertex)
		if err != nil {
			return nil, err
		}
		provider.SetVertexBuffer(s.slot, buf)
	}

	index, err := m.upload("index buffer", mesh.IndexBytes(), wgpu.BufferUsageCopyDst|wgpu.BufferUsageIndex)
	if err != nil {
		return nil, err
	}
	provider.SetIndexBuffer(index)
	provider.SetIndexCount(mesh.IndexCount())

	// One block is live, so the buffer holds Size bytes rather than a full stride.
	ub, err := m.backend.CreateBuffer("uniform buffer", uniform.Size, wgpu.BufferUsageCopyDst|wgpu.BufferUsageUniform)
	if err != nil {
		return nil, fmt.Errorf("failed to create uniform buffer: %w", err)
	}
	provider.SetBuffer(bind_group_provider.UniformBinding, ub)

	m.logger.Debug("mesh uploaded",
		"vertices", mesh.VertexCount(),
		"indices", mesh.IndexCount(),
		"index_bytes", index.Size(),
	)
	return provider, nil
}

func (m *manager) upload(label string, data []byte, usage wgpu.BufferUsage) (renderer.Buffer, error) {
	buf, err := m.backend.CreateBuffer(label, uint64(len(data)), usage)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", label, err)
	}
	if err := m.backend.WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, fmt.Errorf("failed to upload %s: %w", label, err)
	}
	return buf, nil
}

func (m *manager) CreateBindGroup(provider bind_group_provider.BindGroupProvider, layout renderer.Resource) error {
	if !m.initialized {
		return ErrNotInitialized
	}
	ub := provider.Buffer(bind_group_provider.UniformBinding)
	if ub == nil {
		return fmt.Errorf("provider %q has no uniform buffer", provider.Label())
	}
	bg, err := m.backend.CreateUniformBindGroup(renderer.BindGroupDescriptor{
		Label:   "uniform bind group",
		Layout:  layout,
		Binding: bind_group_provider.UniformBinding,
		Buffer:  ub,
		Offset:  0,
		Size:    uniform.Size,
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group: %w", err)
	}
	provider.SetBindGroup(bg)
	return nil
}

func (m *manager) Teardown() {
	if len(m.stack) == 0 {
		return
	}
	for i := len(m.stack) - 1; i >= 0; i-- {
		m.logger.Debug("releasing", "resource", m.stack[i].label)
		m.stack[i].resource.Release()
		m.stack[i] = acquired{}
	}
	m.stack = nil
	m.initialized = false
	m.negotiated = Negotiated{}
	m.logger.Info("device released")
}
