package frame

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-lite/engine/diagnostics"
	"github.com/Carmen-Shannon/oxy-lite/engine/model"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/uniform"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend  *renderertest.Backend
	pipeline pipeline.Pipeline
	provider bind_group_provider.BindGroupProvider
	updater  uniform.Updater
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := renderertest.NewBackend()
	m := device.NewManager(b)
	mesh := &model.Mesh{
		Positions: []float32{0, 0, 0},
		Normals:   []float32{0, 0, 1},
		Colors:    []float32{1, 1, 1},
		Indices:   []uint16{0, 0, 0},
	}
	require.NoError(t, m.Initialize(device.NewRequirements(640, 480, mesh)))
	p, err := pipeline.Build(m, pipeline.NewConfig(), shader.Default())
	require.NoError(t, err)
	provider, err := m.CreateBuffers(mesh)
	require.NoError(t, err)
	require.NoError(t, m.CreateBindGroup(provider, p.BindGroupLayout()))
	u := uniform.NewUpdater(b, provider, 640.0/480.0)
	require.NoError(t, u.Upload())
	t.Cleanup(m.Teardown)

	b.ResetCalls()
	b.Writes = nil
	return &fixture{backend: b, pipeline: p, provider: provider, updater: u}
}

func (f *fixture) renderer(options ...RendererBuilderOption) Renderer {
	return NewRenderer(f.backend, f.pipeline, f.provider, f.updater, options...)
}

func TestRenderCallOrder(t *testing.T) {
	f := newFixture(t)
	r := f.renderer()

	out, err := r.Render(2)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, out)
	assert.Equal(t, []string{
		"WriteBuffer uniform buffer 208 4",
		"WriteBuffer uniform buffer 128 64",
		"AcquireTarget",
		"BeginRenderPass",
		"SetPipeline",
		"SetVertexBuffer 0 position buffer",
		"SetVertexBuffer 1 normal buffer",
		"SetVertexBuffer 2 color buffer",
		"SetIndexBuffer index buffer",
		"SetBindGroup 0",
		"DrawIndexed 3 1",
		"End",
		"Submit",
		"Present",
		"Poll",
	}, f.backend.Calls)
	assert.Equal(t, StageIdle, r.Stage())
	assert.Equal(t, Stats{Submitted: 1}, r.Stats())
}

func TestRenderPassDescriptor(t *testing.T) {
	f := newFixture(t)
	_, err := f.renderer().Render(1)
	require.NoError(t, err)

	desc := f.backend.Pass
	assert.Equal(t, wgpu.Color{R: 0.2, G: 0.2, B: 0.2, A: 1}, desc.ClearColor)
	assert.Equal(t, float32(1), desc.DepthClearValue)
	assert.Same(t, f.pipeline.DepthView(), desc.DepthView)
	assert.NotNil(t, desc.Target)
}

func TestRenderUsesDynamicOffsetZero(t *testing.T) {
	f := newFixture(t)
	r := f.renderer()
	for i := 0; i < 3; i++ {
		_, err := r.Render(float32(i))
		require.NoError(t, err)
	}
	assert.Equal(t, [][]uint32{{0}, {0}, {0}}, f.backend.DynamicOffsets)
	assert.Equal(t, []renderertest.Draw{{IndexCount: 3, InstanceCount: 1}, {IndexCount: 3, InstanceCount: 1}, {IndexCount: 3, InstanceCount: 1}}, f.backend.Draws)
	assert.Equal(t, 3, f.backend.Submissions)
	assert.Equal(t, 3, f.backend.Presents)
}

func TestRenderSkipsWhenTargetUnavailable(t *testing.T) {
	f := newFixture(t)
	f.backend.AcquireErr = fmt.Errorf("timeout: %w", renderer.ErrTargetUnavailable)
	r := f.renderer()

	out, err := r.Render(1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, out)
	assert.Empty(t, f.backend.Draws)
	assert.Zero(t, f.backend.Submissions)
	assert.Zero(t, f.backend.Presents)
	assert.NotContains(t, f.backend.Calls, "BeginRenderPass")
	assert.Equal(t, "AcquireTarget", f.backend.Calls[len(f.backend.Calls)-1])
	assert.Equal(t, Stats{Skipped: 1}, r.Stats())

	// The uniforms still advance on skipped frames.
	assert.Len(t, f.backend.Writes, 2)

	f.backend.AcquireErr = nil
	out, err = r.Render(2)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, out)
	assert.Equal(t, Stats{Submitted: 1, Skipped: 1}, r.Stats())
}

func TestRenderSubmitFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.backend.SubmitErr = errors.New("encoder invalid")
	sink := diagnostics.NewSink(4)
	r := f.renderer(WithDiagnostics(sink))

	out, err := r.Render(1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, out)
	assert.Zero(t, f.backend.Presents)
	assert.NotContains(t, f.backend.Calls, "Present")
	assert.Equal(t, Stats{Dropped: 1}, r.Stats())

	var events []diagnostics.Event
	sink.Drain(func(e diagnostics.Event) { events = append(events, e) })
	require.Len(t, events, 1)
	assert.Equal(t, diagnostics.KindDeviceError, events[0].Kind)
	assert.Equal(t, "submit", events[0].Reason)
	assert.Equal(t, "encoder invalid", events[0].Message)
}

func TestRenderUniformFailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.backend.WriteErr = errors.New("queue full")
	sink := diagnostics.NewSink(4)
	r := f.renderer(WithDiagnostics(sink))

	out, err := r.Render(1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, out)
	assert.Equal(t, 1, sink.Drain(func(e diagnostics.Event) {
		assert.Equal(t, "uniform write", e.Reason)
	}))
}

// reentrantUpdater calls back into the renderer from inside a frame.
type reentrantUpdater struct {
	uniform.Updater
	r   Renderer
	err error
	at  Stage
}

func (u *reentrantUpdater) Update(float32) error {
	u.at = u.r.Stage()
	_, u.err = u.r.Render(0)
	return nil
}

func TestRenderRejectsReentry(t *testing.T) {
	f := newFixture(t)
	u := &reentrantUpdater{Updater: f.updater}
	r := NewRenderer(f.backend, f.pipeline, f.provider, u)
	u.r = r

	out, err := r.Render(1)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, out)
	assert.ErrorIs(t, u.err, ErrFrameInProgress)
	assert.Equal(t, StageUpdateUniforms, u.at)
	assert.Equal(t, 1, f.backend.Submissions)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "idle", StageIdle.String())
	assert.Equal(t, "bind-group", StageBindGroup.String())
	assert.Equal(t, "pump-device-events", StagePumpDeviceEvents.String())
	assert.Equal(t, "stage(99)", Stage(99).String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
}
