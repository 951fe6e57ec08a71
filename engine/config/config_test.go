package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, uint32(640), cfg.Window.Width)
	assert.Equal(t, uint32(480), cfg.Window.Height)
	assert.True(t, cfg.Geometry.ValidateIndices)
	assert.Equal(t, pipeline.CullModeNone, cfg.Pipeline.CullMode)
	assert.InDelta(t, 640.0/480.0, cfg.Aspect(), 1e-6)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := write(t, `
[window]
title = "test"

[pipeline]
front_face = "cw"
cull_mode = "back"

[scene]
angular_speed = 1.5
color = [1.0, 0.0, 0.0, 1.0]

[geometry]
validate_indices = false

[profiler]
enabled = true
interval = "250ms"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Window.Title)
	assert.Equal(t, uint32(640), cfg.Window.Width)
	assert.Equal(t, pipeline.FrontFaceCW, cfg.Pipeline.FrontFace)
	assert.Equal(t, pipeline.CullModeBack, cfg.Pipeline.CullMode)
	assert.Equal(t, float32(1.5), cfg.Scene.AngularSpeed)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, cfg.Scene.Color)
	assert.Equal(t, float32(100), cfg.Scene.Far)
	assert.False(t, cfg.Geometry.ValidateIndices)
	assert.True(t, cfg.Profiler.Enabled)
	assert.Equal(t, Duration(250*time.Millisecond), cfg.Profiler.Interval)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(write(t, "[window]\nfullscreen = true\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "fullscreen")
}

func TestLoadRejectsBadEnum(t *testing.T) {
	_, err := Load(write(t, "[pipeline]\ncull_mode = \"sideways\"\n"))
	assert.ErrorContains(t, err, "sideways")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"zero width":     "[window]\nwidth = 0\n",
		"near above far": "[scene]\nnear = 200.0\n",
		"no geometry":    "[assets]\ngeometry = \"\"\n",
		"zero capacity":  "[diagnostics]\ncapacity = 0\n",
		"zero focal":     "[scene]\nfocal_length = 0.0\n",
		"zero scale":     "[scene]\nscale = 0.0\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadSceneKeys(t *testing.T) {
	cfg, err := Load(write(t, `
[scene]
scale = 0.5
offset = [0.0, 1.0, 0.0]
initial_angle = 1.0
initial_time = 0.0
camera_distance = 4.0
camera_pitch = -1.5
`))
	require.NoError(t, err)
	scene := cfg.Scene.Uniform()
	assert.Equal(t, float32(0.5), scene.Scale)
	assert.Equal(t, [3]float32{0, 1, 0}, scene.Offset)
	assert.Equal(t, float32(1), scene.InitialAngle)
	assert.Zero(t, scene.InitialTime)
	assert.Equal(t, float32(4), scene.CameraDistance)
	assert.Equal(t, float32(-1.5), scene.CameraPitch)
	assert.Equal(t, Default().Scene.AngularSpeed, scene.AngularSpeed)
}

func TestDefaultSceneMatchesUniformDefaults(t *testing.T) {
	assert.Equal(t, uniform.DefaultScene(), Default().Scene.Uniform())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBundledConfig(t *testing.T) {
	cfg, err := Load("../../resources/config.toml")
	require.NoError(t, err)
	assert.Equal(t, Default().Assets, cfg.Assets)
	defaults := Default().Scene
	assert.Equal(t, defaults.Offset, cfg.Scene.Offset)
	assert.Equal(t, defaults.InitialAngle, cfg.Scene.InitialAngle)
	assert.InDelta(t, defaults.CameraPitch, cfg.Scene.CameraPitch, 1e-6)
}
