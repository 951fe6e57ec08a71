package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoSurface is returned by Build when the owner has no configured surface.
var ErrNoSurface = errors.New("no configured surface")

// Owner is the resource owner a pipeline is built for. device.Manager implements it.
type Owner interface {
	Backend() renderer.Backend
	SurfaceFormat() wgpu.TextureFormat
	SurfaceSize() (uint32, uint32)
	Track(label string, resource renderer.Resource)
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	config Config

	renderPipeline renderer.RenderPipeline
	depthView      renderer.Resource
}

// Pipeline is the immutable render pipeline together with the depth attachment it draws against.
// Its GPU handles are owned by the Owner it was built for.
type Pipeline interface {
	// Config returns the configuration the pipeline was built from.
	//
	// Returns:
	//   - Config: the configuration
	Config() Config

	// RenderPipeline returns the compiled pipeline.
	//
	// Returns:
	//   - renderer.RenderPipeline: the pipeline
	RenderPipeline() renderer.RenderPipeline

	// BindGroupLayout returns the layout of bind group 0.
	//
	// Returns:
	//   - renderer.Resource: the layout
	BindGroupLayout() renderer.Resource

	// DepthView returns the view on the depth texture sized to the surface.
	//
	// Returns:
	//   - renderer.Resource: the depth view
	DepthView() renderer.Resource
}

var _ Pipeline = &pipeline{}

// Build compiles the pipeline and creates its depth target. Ownership of the pipeline, the depth texture and
// the depth view passes to owner in that order.
//
// Parameters:
//   - owner: the resource owner
//   - cfg: the fixed-function configuration
//   - src: the shader source
//
// Returns:
//   - Pipeline: the built pipeline
//   - error: error if the owner has no surface or the backend rejects the pipeline or depth target
func Build(owner Owner, cfg Config, src shader.Source) (Pipeline, error) {
	format := owner.SurfaceFormat()
	width, height := owner.SurfaceSize()
	if format == wgpu.TextureFormatUndefined || width == 0 || height == 0 {
		return nil, ErrNoSurface
	}

	backend := owner.Backend()
	rp, err := backend.CreateRenderPipeline(Describe(cfg, format, src))
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline %q: %w", cfg.Label, err)
	}
	owner.Track("pipeline", rp)

	texture, view, err := backend.CreateDepthTarget(renderer.DepthTargetDescriptor{
		Label:  "depth texture",
		Width:  width,
		Height: height,
		Format: DepthFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create depth target: %w", err)
	}
	owner.Track("depth texture", texture)
	owner.Track("depth view", view)

	return &pipeline{config: cfg, renderPipeline: rp, depthView: view}, nil
}

func (p *pipeline) Config() Config {
	return p.config
}

func (p *pipeline) RenderPipeline() renderer.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout() renderer.Resource {
	return p.renderPipeline.BindGroupLayout()
}

func (p *pipeline) DepthView() renderer.Resource {
	return p.depthView
}
