// Package logging builds the structured logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-lite/engine/config"
	"github.com/charmbracelet/log"
)

// Prefix is the prefix of the root logger. Components add their own with WithPrefix.
const Prefix = "oxy"

// New builds a logger writing to stderr at the configured level.
//
// Parameters:
//   - cfg: the log configuration
//
// Returns:
//   - *log.Logger: the logger
//   - error: error if the level is not recognized
func New(cfg config.Log) (*log.Logger, error) {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter builds a logger writing to w at the configured level.
//
// Parameters:
//   - w: the destination
//   - cfg: the log configuration
//
// Returns:
//   - *log.Logger: the logger
//   - error: error if the level is not recognized
func NewWithWriter(w io.Writer, cfg config.Log) (*log.Logger, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          Prefix,
		Level:           level,
	}), nil
}
