package pipeline

import (
	"bytes"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// FrontFace is the triangle winding treated as front facing.
type FrontFace int

const (
	// FrontFaceCCW treats counter-clockwise triangles as front facing.
	FrontFaceCCW FrontFace = iota
	// FrontFaceCW treats clockwise triangles as front facing.
	FrontFaceCW
)

func (f FrontFace) String() string {
	switch f {
	case FrontFaceCCW:
		return "ccw"
	case FrontFaceCW:
		return "cw"
	default:
		return fmt.Sprintf("front_face(%d)", int(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f FrontFace) MarshalText() ([]byte, error) {
	switch f {
	case FrontFaceCCW, FrontFaceCW:
		return []byte(f.String()), nil
	default:
		return nil, fmt.Errorf("unknown front face %d", int(f))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts "ccw" and "cw" in any case.
func (f *FrontFace) UnmarshalText(text []byte) error {
	switch string(bytes.ToLower(text)) {
	case "ccw":
		*f = FrontFaceCCW
	case "cw":
		*f = FrontFaceCW
	default:
		return fmt.Errorf("unknown front face %q, want ccw or cw", text)
	}
	return nil
}

// WGPU returns the wgpu winding.
func (f FrontFace) WGPU() wgpu.FrontFace {
	if f == FrontFaceCW {
		return wgpu.FrontFaceCW
	}
	return wgpu.FrontFaceCCW
}

// CullMode selects which faces are discarded.
type CullMode int

const (
	// CullModeNone draws both faces.
	CullModeNone CullMode = iota
	// CullModeFront discards front faces.
	CullModeFront
	// CullModeBack discards back faces.
	CullModeBack
)

func (c CullMode) String() string {
	switch c {
	case CullModeNone:
		return "none"
	case CullModeFront:
		return "front"
	case CullModeBack:
		return "back"
	default:
		return fmt.Sprintf("cull_mode(%d)", int(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c CullMode) MarshalText() ([]byte, error) {
	switch c {
	case CullModeNone, CullModeFront, CullModeBack:
		return []byte(c.String()), nil
	default:
		return nil, fmt.Errorf("unknown cull mode %d", int(c))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts "none", "front" and "back" in any case.
func (c *CullMode) UnmarshalText(text []byte) error {
	switch string(bytes.ToLower(text)) {
	case "none":
		*c = CullModeNone
	case "front":
		*c = CullModeFront
	case "back":
		*c = CullModeBack
	default:
		return fmt.Errorf("unknown cull mode %q, want none, front or back", text)
	}
	return nil
}

// WGPU returns the wgpu cull mode.
func (c CullMode) WGPU() wgpu.CullMode {
	switch c {
	case CullModeFront:
		return wgpu.CullModeFront
	case CullModeBack:
		return wgpu.CullModeBack
	default:
		return wgpu.CullModeNone
	}
}

// Config is the fixed-function configuration of the render pipeline.
// The zero value is a counter-clockwise, unculled pipeline.
type Config struct {
	Label     string
	FrontFace FrontFace
	CullMode  CullMode
}

// NewConfig creates a Config with the default label and the provided options applied.
//
// Parameters:
//   - options: a variadic list of options to configure the pipeline
//
// Returns:
//   - Config: the configuration
func NewConfig(options ...PipelineBuilderOption) Config {
	cfg := Config{Label: "oxy-lite pipeline"}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
