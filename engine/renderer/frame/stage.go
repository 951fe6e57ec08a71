package frame

import "fmt"

// Stage is a step of the per-frame state machine. Stages run in declaration order once per frame.
type Stage int

const (
	StageIdle Stage = iota
	StageUpdateUniforms
	StageAcquireTarget
	StageBeginPass
	StageBindPipeline
	StageBindBuffers
	StageBindGroup
	StageDrawIndexed
	StageEndPass
	StageSubmit
	StagePresent
	StagePumpDeviceEvents
)

var stageNames = [...]string{
	StageIdle:             "idle",
	StageUpdateUniforms:   "update-uniforms",
	StageAcquireTarget:    "acquire-target",
	StageBeginPass:        "begin-pass",
	StageBindPipeline:     "bind-pipeline",
	StageBindBuffers:      "bind-buffers",
	StageBindGroup:        "bind-group",
	StageDrawIndexed:      "draw-indexed",
	StageEndPass:          "end-pass",
	StageSubmit:           "submit",
	StagePresent:          "present",
	StagePumpDeviceEvents: "pump-device-events",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Outcome is the result of one Render call.
type Outcome int

const (
	// OutcomeSubmitted means the frame was drawn, submitted and presented.
	OutcomeSubmitted Outcome = iota
	// OutcomeSkipped means no command buffer was submitted for the frame.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}
