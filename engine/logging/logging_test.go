package logging

import (
	"bytes"
	"testing"

	"github.com/Carmen-Shannon/oxy-lite/engine/config"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, config.Log{Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, logger.GetLevel())

	logger.Info("hidden")
	logger.Warn("shown", "stride", 256)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "stride=256")
	assert.Contains(t, out, Prefix)
}

func TestDefaultLevel(t *testing.T) {
	logger, err := NewWithWriter(&bytes.Buffer{}, config.Log{})
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(config.Log{Level: "loud"})
	assert.ErrorContains(t, err, "loud")
}
