// Package config loads the TOML session configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/uniform"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full session configuration. Every table is optional; missing keys keep their defaults.
type Config struct {
	Window      Window      `toml:"window"`
	Assets      Assets      `toml:"assets"`
	Geometry    Geometry    `toml:"geometry"`
	Shader      Shader      `toml:"shader"`
	Pipeline    Pipeline    `toml:"pipeline"`
	Scene       Scene       `toml:"scene"`
	Log         Log         `toml:"log"`
	Profiler    Profiler    `toml:"profiler"`
	Diagnostics Diagnostics `toml:"diagnostics"`
}

// Window configures the fixed-size window.
type Window struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

// Assets are the paths of the files loaded at startup.
type Assets struct {
	Geometry string `toml:"geometry"`
	// Shader is the WGSL file. Empty selects the built-in shader.
	Shader string `toml:"shader"`
}

// Geometry configures mesh validation.
type Geometry struct {
	// ValidateIndices rejects meshes whose indices reference missing vertices.
	ValidateIndices bool `toml:"validate_indices"`
}

// Shader configures shader checks and entry points.
type Shader struct {
	// Validate compiles the shader on the CPU before it is handed to the device.
	Validate      bool   `toml:"validate"`
	VertexEntry   string `toml:"vertex_entry"`
	FragmentEntry string `toml:"fragment_entry"`
}

// Pipeline configures the fixed-function state.
type Pipeline struct {
	FrontFace pipeline.FrontFace `toml:"front_face"`
	CullMode  pipeline.CullMode  `toml:"cull_mode"`
}

// Scene configures the uniform values. Angles are in radians.
type Scene struct {
	Color          [4]float32 `toml:"color"`
	Scale          float32    `toml:"scale"`
	Offset         [3]float32 `toml:"offset"`
	InitialAngle   float32    `toml:"initial_angle"`
	InitialTime    float32    `toml:"initial_time"`
	CameraDistance float32    `toml:"camera_distance"`
	CameraPitch    float32    `toml:"camera_pitch"`
	AngularSpeed   float32    `toml:"angular_speed"`
	FocalLength    float32    `toml:"focal_length"`
	Near           float32    `toml:"near"`
	Far            float32    `toml:"far"`
}

// Uniform returns the scene as the uniform updater consumes it.
//
// Returns:
//   - uniform.Scene: the same values
func (s Scene) Uniform() uniform.Scene {
	return uniform.Scene{
		Color:          s.Color,
		Scale:          s.Scale,
		Offset:         s.Offset,
		InitialAngle:   s.InitialAngle,
		InitialTime:    s.InitialTime,
		CameraDistance: s.CameraDistance,
		CameraPitch:    s.CameraPitch,
		AngularSpeed:   s.AngularSpeed,
		FocalLength:    s.FocalLength,
		Near:           s.Near,
		Far:            s.Far,
	}
}

func sceneOf(u uniform.Scene) Scene {
	return Scene{
		Color:          u.Color,
		Scale:          u.Scale,
		Offset:         u.Offset,
		InitialAngle:   u.InitialAngle,
		InitialTime:    u.InitialTime,
		CameraDistance: u.CameraDistance,
		CameraPitch:    u.CameraPitch,
		AngularSpeed:   u.AngularSpeed,
		FocalLength:    u.FocalLength,
		Near:           u.Near,
		Far:            u.Far,
	}
}

// Log configures the logger.
type Log struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`
}

// Profiler configures periodic frame statistics.
type Profiler struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// Diagnostics configures the device diagnostic sink.
type Diagnostics struct {
	Capacity int `toml:"capacity"`
}

// Duration is a time.Duration written as a string such as "5s" in TOML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: Window{
			Title:  "oxy-lite",
			Width:  640,
			Height: 480,
		},
		Assets: Assets{
			Geometry: "resources/pyramid.txt",
			Shader:   "resources/shader.wgsl",
		},
		Geometry: Geometry{ValidateIndices: true},
		Shader: Shader{
			Validate:      true,
			VertexEntry:   "vs_main",
			FragmentEntry: "fs_main",
		},
		Pipeline: Pipeline{
			FrontFace: pipeline.FrontFaceCCW,
			CullMode:  pipeline.CullModeNone,
		},
		Scene: sceneOf(uniform.DefaultScene()),
		Log:         Log{Level: "info"},
		Profiler:    Profiler{Enabled: false, Interval: Duration(5 * time.Second)},
		Diagnostics: Diagnostics{Capacity: 64},
	}
}

// Load reads the file at path over the defaults and validates the result. Unknown keys are rejected.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Config: the loaded configuration
//   - error: error if the file cannot be read, does not decode or fails validation
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config %q: %w", path, err)
	}
	defer f.Close()

	cfg := Default()
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("failed to decode config %q: %w: %s", path, ErrInvalidConfig, strict.String())
		}
		return Config{}, fmt.Errorf("failed to decode config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail deep inside initialization.
//
// Returns:
//   - error: an error wrapping ErrInvalidConfig naming the first bad value
func (c Config) Validate() error {
	switch {
	case c.Window.Width == 0 || c.Window.Height == 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Assets.Geometry == "":
		return fmt.Errorf("%w: assets.geometry is empty", ErrInvalidConfig)
	case c.Scene.Near <= 0 || c.Scene.Near >= c.Scene.Far:
		return fmt.Errorf("%w: scene.near %v must be positive and below scene.far %v", ErrInvalidConfig, c.Scene.Near, c.Scene.Far)
	case c.Scene.FocalLength <= 0:
		return fmt.Errorf("%w: scene.focal_length %v", ErrInvalidConfig, c.Scene.FocalLength)
	case c.Scene.Scale <= 0:
		return fmt.Errorf("%w: scene.scale %v", ErrInvalidConfig, c.Scene.Scale)
	case c.Diagnostics.Capacity <= 0:
		return fmt.Errorf("%w: diagnostics.capacity %d", ErrInvalidConfig, c.Diagnostics.Capacity)
	case c.Profiler.Enabled && c.Profiler.Interval <= 0:
		return fmt.Errorf("%w: profiler.interval %v", ErrInvalidConfig, time.Duration(c.Profiler.Interval))
	}
	return nil
}

// Aspect returns the window aspect ratio.
func (c Config) Aspect() float32 {
	return float32(c.Window.Width) / float32(c.Window.Height)
}
