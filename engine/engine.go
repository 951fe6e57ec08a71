package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-lite/engine/config"
	"github.com/Carmen-Shannon/oxy-lite/engine/diagnostics"
	"github.com/Carmen-Shannon/oxy-lite/engine/loader"
	"github.com/Carmen-Shannon/oxy-lite/engine/profiler"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/frame"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-lite/engine/window"
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

var (
	// ErrNotInitialized is returned by Frame and Run before a successful Initialize.
	ErrNotInitialized = errors.New("engine not initialized")

	// ErrTerminated is returned by Initialize after Terminate.
	ErrTerminated = errors.New("engine terminated")
)

// SurfaceProvider is the window the engine presents to. window.Window satisfies it.
type SurfaceProvider interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	PollEvents()
	IsRunning() bool
	Time() float64
	Width() uint32
	Height() uint32
	Close() error
}

// engine implements the Engine interface.
type engine struct {
	cfg       config.Config
	logger    *log.Logger
	sessionID uuid.UUID
	loader    loader.Loader
	sink      *diagnostics.Sink
	clock     func() float64

	// reportedDrops is the sink's discard count at the last drain.
	reportedDrops uint64

	surface  SurfaceProvider
	backend  renderer.Backend
	device   device.Manager
	pipeline pipeline.Pipeline
	updater  uniform.Updater
	renderer frame.Renderer
	profiler *profiler.Profiler

	initialized bool
	terminated  bool
}

// Engine drives a single-mesh rendering session: it loads the assets, acquires the device, builds the
// pipeline and buffers, then renders one frame per iteration until the window closes.
type Engine interface {
	// Initialize loads and validates the assets, opens the surface and acquires every GPU resource.
	// On failure everything acquired so far is released and the engine cannot be used.
	//
	// Returns:
	//   - error: error if any asset, limit, device or pipeline step fails
	Initialize() error

	// Frame polls window events, renders one frame, drains device diagnostics and ticks the profiler.
	//
	// Returns:
	//   - frame.Outcome: whether the frame was submitted or skipped
	//   - error: ErrNotInitialized, or the renderer's error
	Frame() (frame.Outcome, error)

	// Run renders frames until the window closes or ctx is done.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: nil when the window closed, ctx.Err() when cancelled, or a Frame error
	Run(ctx context.Context) error

	// Stats returns the frame outcome counts so far.
	//
	// Returns:
	//   - frame.Stats: the counts, zero before Initialize
	Stats() frame.Stats

	// IsRunning returns true if the engine is initialized and the window is open.
	IsRunning() bool

	// Terminate releases every GPU resource in reverse order of acquisition and closes the window.
	// Safe to call multiple times; subsequent calls are no-ops.
	Terminate()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine for the configuration. Nothing is loaded or acquired until Initialize.
//
// Parameters:
//   - cfg: the session configuration
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(cfg config.Config, options ...EngineBuilderOption) Engine {
	e := &engine{
		cfg:       cfg,
		logger:    log.Default(),
		sessionID: uuid.New(),
	}
	for _, opt := range options {
		opt(e)
	}
	e.logger = e.logger.With("session", e.sessionID.String())
	e.sink = diagnostics.NewSink(cfg.Diagnostics.Capacity)
	e.loader = loader.NewLoader(
		loader.WithLogger(e.logger),
		loader.WithShaderOptions(
			shader.WithVertexEntryPoint(cfg.Shader.VertexEntry),
			shader.WithFragmentEntryPoint(cfg.Shader.FragmentEntry),
		),
	)
	return e
}

func (e *engine) Initialize() error {
	switch {
	case e.terminated:
		return ErrTerminated
	case e.initialized:
		return errors.New("engine already initialized")
	}
	if err := e.initialize(); err != nil {
		e.Terminate()
		return err
	}
	e.initialized = true
	e.logger.Info("engine initialized")
	return nil
}

func (e *engine) initialize() error {
	assets, err := e.loader.LoadAssets(e.cfg.Assets.Geometry, e.cfg.Assets.Shader)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}
	if err := assets.Mesh.Validate(e.cfg.Geometry.ValidateIndices); err != nil {
		return fmt.Errorf("invalid geometry %q: %w", e.cfg.Assets.Geometry, err)
	}
	if e.cfg.Shader.Validate {
		if err := shader.Validate(assets.Shader); err != nil {
			return err
		}
		if err := shader.CheckInterface(assets.Shader, uniform.Size); err != nil {
			return err
		}
	}

	if e.surface == nil {
		w, err := window.NewWindow(
			window.WithTitle(e.cfg.Window.Title),
			window.WithSize(e.cfg.Window.Width, e.cfg.Window.Height),
		)
		if err != nil {
			return err
		}
		e.surface = w
	}
	if e.clock == nil {
		e.clock = e.surface.Time
	}
	if e.backend == nil {
		b, err := renderer.NewWGPUBackend(e.surface.SurfaceDescriptor(),
			renderer.WithLogger(e.logger),
			renderer.WithDiagnostics(e.sink),
		)
		if err != nil {
			return err
		}
		e.backend = b
	}

	width, height := e.surface.Width(), e.surface.Height()
	e.device = device.NewManager(e.backend, device.WithLogger(e.logger), device.WithDiagnostics(e.sink))
	if err := e.device.Initialize(device.NewRequirements(width, height, assets.Mesh)); err != nil {
		return err
	}

	p, err := pipeline.Build(e.device, pipeline.NewConfig(
		pipeline.WithFrontFace(e.cfg.Pipeline.FrontFace),
		pipeline.WithCullMode(e.cfg.Pipeline.CullMode),
	), assets.Shader)
	if err != nil {
		return err
	}
	e.pipeline = p

	provider, err := e.device.CreateBuffers(assets.Mesh)
	if err != nil {
		return err
	}
	if err := e.device.CreateBindGroup(provider, p.BindGroupLayout()); err != nil {
		return err
	}

	e.updater = uniform.NewUpdater(e.backend, provider, float32(width)/float32(height), uniform.WithScene(e.cfg.Scene.Uniform()))
	if err := e.updater.Upload(); err != nil {
		return err
	}

	e.renderer = frame.NewRenderer(e.backend, p, provider, e.updater,
		frame.WithLogger(e.logger),
		frame.WithDiagnostics(e.sink),
	)
	if e.cfg.Profiler.Enabled {
		e.profiler = profiler.NewProfiler(
			profiler.WithLogger(e.logger),
			profiler.WithInterval(e.cfg.Profiler.Interval.Std()),
		)
	}
	return nil
}

// scene applies the configured scene values over the defaults.

func (e *engine) Frame() (frame.Outcome, error) {
	if !e.initialized {
		return frame.OutcomeSkipped, ErrNotInitialized
	}
	e.surface.PollEvents()

	out, err := e.renderer.Render(float32(e.clock()))
	e.drainDiagnostics()
	if err != nil {
		return out, err
	}
	if e.profiler != nil {
		e.profiler.Tick(e.renderer.Stats())
	}
	return out, nil
}

// drainDiagnostics logs every pending device notification at error level.
func (e *engine) drainDiagnostics() {
	e.sink.Drain(func(ev diagnostics.Event) {
		e.logger.Error("device notification",
			"kind", ev.Kind,
			"reason", ev.Reason,
			"message", ev.Message,
			"at", ev.At,
		)
	})
	if dropped := e.sink.Dropped(); dropped > e.reportedDrops {
		e.logger.Warn("device notifications discarded", "count", dropped-e.reportedDrops)
		e.reportedDrops = dropped
	}
}

func (e *engine) Run(ctx context.Context) error {
	if !e.initialized {
		return ErrNotInitialized
	}
	for e.surface.IsRunning() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := e.Frame(); err != nil {
			return err
		}
	}
	e.logger.Info("window closed", "stats", fmt.Sprintf("%+v", e.renderer.Stats()))
	return nil
}

func (e *engine) Stats() frame.Stats {
	if e.renderer == nil {
		return frame.Stats{}
	}
	return e.renderer.Stats()
}

func (e *engine) IsRunning() bool {
	return e.initialized && e.surface.IsRunning()
}

func (e *engine) Terminate() {
	if e.terminated {
		return
	}
	e.terminated = true
	e.initialized = false

	if e.device != nil {
		e.device.Teardown()
	}
	if e.surface != nil {
		if err := e.surface.Close(); err != nil {
			e.logger.Warn("failed to close window", "err", err)
		}
	}
	e.drainDiagnostics()
	e.logger.Info("engine terminated")
}
