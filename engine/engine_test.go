package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-lite/common"
	"github.com/Carmen-Shannon/oxy-lite/engine/config"
	"github.com/Carmen-Shannon/oxy-lite/engine/loader"
	"github.com/Carmen-Shannon/oxy-lite/engine/model"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/frame"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/uniform"
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangle = `[points]
0 0 0
1 0 0
0 1 0
[normals]
0 0 1
0 0 1
0 0 1
[colors]
1 0 0
0 1 0
0 0 1
[indices]
0 1 2
`

// surface is a SurfaceProvider that stays open for a fixed number of polls.
type surface struct {
	polls    int
	maxPolls int
	closes   int
}

func (s *surface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (s *surface) PollEvents() { s.polls++ }
func (s *surface) IsRunning() bool { return s.closes == 0 && (s.maxPolls == 0 || s.polls < s.maxPolls) }
func (s *surface) Time() float64 { return float64(s.polls) / 60 }
func (s *surface) Width() uint32 { return 640 }
func (s *surface) Height() uint32 { return 480 }
func (s *surface) Close() error {
	s.closes++
	return nil
}

func writeGeometry(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mesh.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func testConfig(t *testing.T, geometry string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Assets.Geometry = writeGeometry(t, geometry)
	cfg.Assets.Shader = ""
	cfg.Shader.Validate = false
	return cfg
}

type harness struct {
	backend *renderertest.Backend
	surface *surface
	logs    *bytes.Buffer
	engine  Engine
}

func newHarness(t *testing.T, cfg config.Config) *harness {
	t.Helper()
	h := &harness{
		backend: renderertest.NewBackend(),
		surface: &surface{},
		logs:    &bytes.Buffer{},
	}
	logger := log.NewWithOptions(h.logs, log.Options{Level: log.DebugLevel})
	h.engine = NewEngine(cfg,
		WithLogger(logger),
		WithBackend(h.backend),
		WithSurfaceProvider(h.surface),
	)
	t.Cleanup(h.engine.Terminate)
	return h
}

func TestEngineLifecycle(t *testing.T) {
	h := newHarness(t, testConfig(t, triangle))
	require.NoError(t, h.engine.Initialize())
	assert.True(t, h.engine.IsRunning())

	for i := 0; i < 3; i++ {
		out, err := h.engine.Frame()
		require.NoError(t, err)
		assert.Equal(t, frame.OutcomeSubmitted, out)
	}
	assert.Equal(t, frame.Stats{Submitted: 3}, h.engine.Stats())
	assert.Equal(t, 3, h.backend.Submissions)
	assert.Equal(t, 3, h.surface.polls)
	assert.Equal(t, wgpu.PresentModeFifo, h.backend.Surface.PresentMode)
	assert.Equal(t, uint32(640), h.backend.Depth.Width)

	h.engine.Terminate()
	assert.Zero(t, h.backend.Live())
	assert.Zero(t, h.backend.DoubleReleases)
	assert.Equal(t, 1, h.surface.closes)
	assert.False(t, h.engine.IsRunning())

	h.engine.Terminate()
	assert.Equal(t, 1, h.surface.closes)
	assert.ErrorIs(t, h.engine.Initialize(), ErrTerminated)
	_, err := h.engine.Frame()
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestEngineUploadsInitialUniforms(t *testing.T) {
	h := newHarness(t, testConfig(t, triangle))
	require.NoError(t, h.engine.Initialize())

	ub := h.backend.Buffers["uniform buffer"]
	require.NotNil(t, ub)
	assert.Len(t, ub.Data, 224)
	assert.NotContains(t, h.backend.Calls, "AcquireTarget")
}

func TestEngineAppliesSceneConfig(t *testing.T) {
	cfg := testConfig(t, triangle)
	cfg.Scene.Scale = 1
	cfg.Scene.Offset = [3]float32{0, 0, 0}
	cfg.Scene.InitialAngle = 0
	cfg.Scene.InitialTime = 5
	cfg.Scene.CameraDistance = 3
	cfg.Scene.CameraPitch = 0
	h := newHarness(t, cfg)
	require.NoError(t, h.engine.Initialize())

	want := uniform.InitialBlock(cfg.Scene.Uniform(), 640.0/480.0)
	assert.Equal(t, common.StructToBytes(&want), h.backend.Buffers["uniform buffer"].Data)

	var identity [16]float32
	common.Identity(identity[:])
	assert.Equal(t, identity, want.Model)
	assert.Equal(t, float32(5), want.Time)
	assert.Equal(t, float32(3), want.View[14])
}

func TestEngineInitializeFailures(t *testing.T) {
	tests := []struct {
		name     string
		geometry string
		mutate   func(*config.Config, *renderertest.Backend)
		is       error
	}{
		{name: "malformed line", geometry: "[points]\n0 0\n", is: loader.ErrMalformedLine},
		{name: "index out of range", geometry: "[points]\n0 0 0\n[normals]\n0 0 1\n[colors]\n1 1 1\n[indices]\n0 1 2\n", is: model.ErrIndexOutOfRange},
		{name: "weak adapter", geometry: triangle, mutate: func(_ *config.Config, b *renderertest.Backend) { b.Limits.MaxVertexBuffers = 2 }, is: device.ErrUnsupportedLimits},
		{name: "missing geometry", geometry: triangle, mutate: func(c *config.Config, _ *renderertest.Backend) { c.Assets.Geometry = filepath.Join(os.TempDir(), "does-not-exist.txt") }, is: os.ErrNotExist},
		{name: "pipeline rejected", geometry: triangle, mutate: func(_ *config.Config, b *renderertest.Backend) { b.PipelineErr = errors.New("bad shader") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, tt.geometry)
			b := renderertest.NewBackend()
			if tt.mutate != nil {
				tt.mutate(&cfg, b)
			}
			s := &surface{}
			e := NewEngine(cfg, WithLogger(log.New(&bytes.Buffer{})), WithBackend(b), WithSurfaceProvider(s))

			err := e.Initialize()
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			assert.Zero(t, b.Live())
			assert.Nil(t, b.Pass.Target)
			assert.Equal(t, 1, s.closes)
			assert.False(t, e.IsRunning())
		})
	}
}

func TestEngineLogsDeviceErrors(t *testing.T) {
	h := newHarness(t, testConfig(t, triangle))
	require.NoError(t, h.engine.Initialize())
	h.backend.SubmitErr = errors.New("encoder invalid")

	out, err := h.engine.Frame()
	require.NoError(t, err)
	assert.Equal(t, frame.OutcomeSkipped, out)
	assert.Equal(t, frame.Stats{Dropped: 1}, h.engine.Stats())
	assert.Contains(t, h.logs.String(), "device notification")
	assert.Contains(t, h.logs.String(), "encoder invalid")

	h.backend.SubmitErr = nil
	out, err = h.engine.Frame()
	require.NoError(t, err)
	assert.Equal(t, frame.OutcomeSubmitted, out)
}

func TestEngineRunUntilWindowCloses(t *testing.T) {
	h := newHarness(t, testConfig(t, triangle))
	h.surface.maxPolls = 5
	require.NoError(t, h.engine.Initialize())

	require.NoError(t, h.engine.Run(context.Background()))
	assert.Equal(t, uint64(5), h.engine.Stats().Submitted)
	assert.False(t, h.engine.IsRunning())
}

func TestEngineRunHonorsContext(t *testing.T) {
	h := newHarness(t, testConfig(t, triangle))
	require.NoError(t, h.engine.Initialize())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.engine.Run(ctx), context.Canceled)
	assert.Zero(t, h.engine.Stats().Submitted)
}

func TestEngineRunRequiresInitialize(t *testing.T) {
	h := newHarness(t, testConfig(t, triangle))
	assert.ErrorIs(t, h.engine.Run(context.Background()), ErrNotInitialized)
}

func TestEngineProfilerEnabled(t *testing.T) {
	cfg := testConfig(t, triangle)
	cfg.Profiler.Enabled = true
	h := newHarness(t, cfg)
	require.NoError(t, h.engine.Initialize())
	_, err := h.engine.Frame()
	require.NoError(t, err)
}
