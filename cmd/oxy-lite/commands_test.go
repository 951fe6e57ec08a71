package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-lite/engine/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(&options{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[assets]\ngeometry = \"from-file.txt\"\nshader = \"from-file.wgsl\"\n"), 0o644))

	opts := &options{}
	cmd := newRootCommand(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--shader", "", "--log-level", "debug"}))

	cfg, err := resolveConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, "from-file.txt", cfg.Assets.Geometry)
	assert.Empty(t, cfg.Assets.Shader)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestResolveConfigDefaults(t *testing.T) {
	opts := &options{}
	cmd := newRootCommand(opts)
	require.NoError(t, cmd.ParseFlags(nil))
	cfg, err := resolveConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestResolveConfigRejectsEmptyGeometry(t *testing.T) {
	opts := &options{}
	cmd := newRootCommand(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--geometry", ""}))
	_, err := resolveConfig(cmd, opts)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate",
		"--geometry", "../../resources/pyramid.txt",
		"--shader", "../../resources/shader.wgsl",
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "16 vertices, 18 indices")
	assert.Contains(t, out, "shader.wgsl: ok")
}

func TestValidateCommandMalformedGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("[points]\n1 2\n"), 0o644))
	_, err := execute(t, "validate", "--geometry", path, "--log-level", "error")
	assert.Error(t, err)
}
