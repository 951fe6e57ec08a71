package frame

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-lite/engine/diagnostics"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/uniform"
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrFrameInProgress is returned by Render when it is entered while another frame is being recorded.
var ErrFrameInProgress = errors.New("frame already in progress")

// Stats counts frame outcomes since the renderer was created.
type Stats struct {
	// Submitted is the number of frames submitted and presented.
	Submitted uint64
	// Skipped is the number of frames skipped because no surface target was available.
	Skipped uint64
	// Dropped is the number of frames abandoned after a device call failed while recording or submitting.
	Dropped uint64
}

// frameRenderer is the unexported implementation of Renderer.
type frameRenderer struct {
	backend  renderer.Backend
	pipeline pipeline.Pipeline
	provider bind_group_provider.BindGroupProvider
	updater  uniform.Updater

	logger *log.Logger
	sink   *diagnostics.Sink

	clearColor      wgpu.Color
	depthClearValue float32

	busy  atomic.Bool
	stage atomic.Int32
	stats Stats
}

// Renderer records and submits one single-draw render pass per frame.
type Renderer interface {
	// Render runs one pass of the frame state machine. The uniforms are updated first. When no surface target is
	// available the rest of the frame is skipped. Device errors seen while recording or submitting are reported to
	// the diagnostics sink and drop the frame.
	//
	// Parameters:
	//   - seconds: the current time in seconds
	//
	// Returns:
	//   - Outcome: OutcomeSubmitted or OutcomeSkipped
	//   - error: ErrFrameInProgress when called reentrantly, nil otherwise
	Render(seconds float32) (Outcome, error)

	// Stage returns the stage currently executing, StageIdle between frames.
	//
	// Returns:
	//   - Stage: the current stage
	Stage() Stage

	// Stats returns the frame counters.
	//
	// Returns:
	//   - Stats: the counters
	Stats() Stats
}

var _ Renderer = &frameRenderer{}

// NewRenderer creates a Renderer drawing the provider's mesh with the pipeline.
//
// Parameters:
//   - backend: the backend commands are recorded on
//   - p: the built pipeline
//   - provider: the provider holding the buffers and the bind group
//   - updater: the uniform updater run at the start of every frame
//   - options: a variadic list of options to configure the renderer
//
// Returns:
//   - Renderer: a new Renderer
func NewRenderer(backend renderer.Backend, p pipeline.Pipeline, provider bind_group_provider.BindGroupProvider, updater uniform.Updater, options ...RendererBuilderOption) Renderer {
	r := &frameRenderer{
		backend:         backend,
		pipeline:        p,
		provider:        provider,
		updater:         updater,
		logger:          log.Default(),
		clearColor:      wgpu.Color{R: 0.2, G: 0.2, B: 0.2, A: 1},
		depthClearValue: 1,
	}
	for _, opt := range options {
		opt(r)
	}
	r.logger = r.logger.WithPrefix("frame")
	return r
}

func (r *frameRenderer) Render(seconds float32) (Outcome, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return OutcomeSkipped, ErrFrameInProgress
	}
	defer func() {
		r.enter(StageIdle)
		r.busy.Store(false)
	}()

	r.enter(StageUpdateUniforms)
	if err := r.updater.Update(seconds); err != nil {
		r.deviceError("uniform write", err)
	}

	r.enter(StageAcquireTarget)
	target, err := r.backend.AcquireTarget()
	if err != nil {
		r.stats.Skipped++
		r.logger.Debug("frame skipped", "err", err)
		return OutcomeSkipped, nil
	}

	r.enter(StageBeginPass)
	pass, err := r.backend.BeginRenderPass(renderer.RenderPassDescriptor{
		Label:           "frame pass",
		Target:          target,
		ClearColor:      r.clearColor,
		DepthView:       r.pipeline.DepthView(),
		DepthClearValue: r.depthClearValue,
	})
	if err != nil {
		return r.drop(target, "begin pass", err)
	}

	r.enter(StageBindPipeline)
	pass.SetPipeline(r.pipeline.RenderPipeline())

	r.enter(StageBindBuffers)
	for slot := bind_group_provider.SlotPosition; slot < bind_group_provider.VertexSlots; slot++ {
		pass.SetVertexBuffer(slot, r.provider.VertexBuffer(slot))
	}
	pass.SetIndexBuffer(r.provider.IndexBuffer(), wgpu.IndexFormatUint16)

	// A single block is live, so the dynamic offset is always 0.
	r.enter(StageBindGroup)
	pass.SetBindGroup(0, r.provider.BindGroup(), []uint32{0})

	r.enter(StageDrawIndexed)
	pass.DrawIndexed(r.provider.IndexCount(), 1)

	r.enter(StageEndPass)
	if err := pass.End(); err != nil {
		return r.drop(target, "end pass", err)
	}

	r.enter(StageSubmit)
	if err := r.backend.Submit(pass); err != nil {
		return r.drop(target, "submit", err)
	}

	r.enter(StagePresent)
	r.backend.Present(target)

	r.enter(StagePumpDeviceEvents)
	r.backend.Poll()

	r.stats.Submitted++
	return OutcomeSubmitted, nil
}

func (r *frameRenderer) enter(s Stage) {
	r.stage.Store(int32(s))
}

// drop abandons the frame after a device call failed. The target is released without presenting.
func (r *frameRenderer) drop(target renderer.RenderTarget, reason string, err error) (Outcome, error) {
	target.Release()
	r.stats.Dropped++
	r.deviceError(reason, err)
	return OutcomeSkipped, nil
}

func (r *frameRenderer) deviceError(reason string, err error) {
	if r.sink != nil {
		r.sink.DeviceError(reason, err)
		return
	}
	r.logger.Error("device error", "reason", reason, "err", fmt.Errorf("%s: %w", r.Stage(), err))
}

func (r *frameRenderer) Stage() Stage {
	return Stage(r.stage.Load())
}

func (r *frameRenderer) Stats() Stats {
	return r.stats
}
