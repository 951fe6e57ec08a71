package uniform

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-lite/common"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/bind_group_provider"
)

// updater is the unexported implementation of Updater.
type updater struct {
	backend  renderer.Backend
	provider bind_group_provider.BindGroupProvider
	binding  int

	block Block

	// base is the translate-times-scale matrix the per-frame rotation is applied to.
	base [16]float32

	// angularSpeed is the Z rotation rate in radians per second.
	angularSpeed float32
}

// Updater keeps the CPU copy of the uniform block and pushes it to the provider's uniform buffer.
// After the initial Upload only the time and model fields are ever written.
type Updater interface {
	// Upload writes the whole block once. Call it after the uniform buffer is created.
	//
	// Returns:
	//   - error: error if the write is rejected
	Upload() error

	// Update sets time to seconds, recomputes the model matrix as RotationZ(seconds * angularSpeed) * base,
	// and writes the two fields. The time write is queued before the model write.
	//
	// Parameters:
	//   - seconds: the current time in seconds
	//
	// Returns:
	//   - error: error if either write is rejected
	Update(seconds float32) error

	// Block returns a copy of the CPU-side block.
	//
	// Returns:
	//   - Block: the current block
	Block() Block
}

var _ Updater = &updater{}

// NewUpdater creates an Updater over the provider's uniform buffer.
//
// Parameters:
//   - backend: the backend the writes are queued on
//   - provider: the provider holding the uniform buffer at bind_group_provider.UniformBinding
//   - aspect: the surface aspect ratio (width/height)
//   - options: a variadic list of options to configure the updater
//
// Returns:
//   - Updater: a new Updater holding the initial block
func NewUpdater(backend renderer.Backend, provider bind_group_provider.BindGroupProvider, aspect float32, options ...UpdaterBuilderOption) Updater {
	u := &updater{
		backend:  backend,
		provider: provider,
		binding:  bind_group_provider.UniformBinding,
	}
	scene := DefaultScene()
	for _, opt := range options {
		opt(&scene)
	}
	u.block = InitialBlock(scene, aspect)
	u.base = scene.Base()
	u.angularSpeed = scene.AngularSpeed
	return u
}

func (u *updater) Upload() error {
	return bind_group_provider.Apply(u.backend, []bind_group_provider.BufferWrite{{
		Provider: u.provider,
		Binding:  u.binding,
		Data:     common.StructToBytes(&u.block),
	}})
}

func (u *updater) Update(seconds float32) error {
	u.block.Time = seconds

	var r [16]float32
	common.RotationZ(r[:], seconds*u.angularSpeed)
	common.Mul4(u.block.Model[:], r[:], u.base[:])

	// Both slices view u.block directly; the backend copies them when the write is queued.
	err := bind_group_provider.Apply(u.backend, []bind_group_provider.BufferWrite{
		{Provider: u.provider, Binding: u.binding, Offset: OffsetTime, Data: common.StructToBytes(&u.block.Time)},
		{Provider: u.provider, Binding: u.binding, Offset: OffsetModel, Data: common.SliceToBytes(u.block.Model[:])},
	})
	if err != nil {
		return fmt.Errorf("failed to update uniforms: %w", err)
	}
	return nil
}

func (u *updater) Block() Block {
	return u.block
}
