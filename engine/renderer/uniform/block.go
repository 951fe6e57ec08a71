package uniform

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-lite/common"
	"github.com/chewxy/math32"
)

// Block is the uniform record bound at group 0, binding 0. Its memory layout matches the WGSL Uniforms struct.
// Matrices are column-major.
type Block struct {
	Projection [16]float32
	View       [16]float32
	Model      [16]float32
	Color      [4]float32
	Time       float32
	_          [3]float32
}

// Byte offsets and sizes of the fields written individually.
const (
	Size = uint64(unsafe.Sizeof(Block{}))

	OffsetProjection = uint64(unsafe.Offsetof(Block{}.Projection))
	OffsetView       = uint64(unsafe.Offsetof(Block{}.View))
	OffsetModel      = uint64(unsafe.Offsetof(Block{}.Model))
	OffsetColor      = uint64(unsafe.Offsetof(Block{}.Color))
	OffsetTime       = uint64(unsafe.Offsetof(Block{}.Time))

	SizeModel = uint64(unsafe.Sizeof(Block{}.Model))
	SizeTime  = uint64(unsafe.Sizeof(Block{}.Time))
)

// Scene holds the values the initial block is built from.
type Scene struct {
	// Color is the flat RGBA tint.
	Color [4]float32

	// Scale is the uniform model scale.
	Scale float32

	// Offset is the model translation applied after scaling.
	Offset [3]float32

	// InitialAngle is the Z rotation of the model before the first frame, in radians. Update does not add it.
	InitialAngle float32

	// InitialTime is the time value before the first frame, in seconds.
	InitialTime float32

	// CameraDistance is how far the view pushes the scene along Z.
	CameraDistance float32

	// CameraPitch is the view rotation about X, in radians.
	CameraPitch float32

	// AngularSpeed is the per-frame Z rotation rate in radians per second.
	AngularSpeed float32

	FocalLength float32
	Near        float32
	Far         float32
}

// DefaultScene returns the pyramid scene: a small green model offset on X, seen from above at a tilt.
//
// Returns:
//   - Scene: the default scene values
func DefaultScene() Scene {
	return Scene{
		Color:          [4]float32{0, 1, 0.4, 1},
		Scale:          0.3,
		Offset:         [3]float32{0.5, 0, 0},
		InitialAngle:   -2,
		InitialTime:    1,
		CameraDistance: 2,
		CameraPitch:    -3 * math32.Pi / 4,
		AngularSpeed:   0.25,
		FocalLength:    2,
		Near:           0.01,
		Far:            100,
	}
}

// Base returns the fixed translate-times-scale matrix the model rotation is applied to.
//
// Returns:
//   - [16]float32: T * S
func (s Scene) Base() [16]float32 {
	var t, sc, out [16]float32
	common.Scaling(sc[:], s.Scale, s.Scale, s.Scale)
	common.Translation(t[:], s.Offset[0], s.Offset[1], s.Offset[2])
	common.Mul4(out[:], t[:], sc[:])
	return out
}

// InitialBlock builds the block uploaded once after the uniform buffer is created.
//
// Parameters:
//   - scene: the scene values
//   - aspect: the surface aspect ratio (width/height)
//
// Returns:
//   - Block: the initial uniform values
func InitialBlock(scene Scene, aspect float32) Block {
	var b Block
	b.Color = scene.Color
	b.Time = scene.InitialTime

	base := scene.Base()
	var r [16]float32
	common.RotationZ(r[:], scene.InitialAngle)
	common.Mul4(b.Model[:], r[:], base[:])

	var t [16]float32
	common.Translation(t[:], 0, 0, scene.CameraDistance)
	common.RotationX(r[:], scene.CameraPitch)
	common.Mul4(b.View[:], t[:], r[:])

	common.FocalPerspective(b.Projection[:], aspect, scene.FocalLength, scene.Near, scene.Far)
	return b
}
