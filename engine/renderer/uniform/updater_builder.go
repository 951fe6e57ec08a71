package uniform

// UpdaterBuilderOption is a functional option applied to the scene an Updater is built from.
type UpdaterBuilderOption func(*Scene)

// WithScene replaces the whole scene.
//
// Parameters:
//   - scene: the scene values
//
// Returns:
//   - UpdaterBuilderOption: a function that applies the scene option
func WithScene(scene Scene) UpdaterBuilderOption {
	return func(s *Scene) {
		*s = scene
	}
}

// WithAngularSpeed sets the model rotation rate in radians per second.
//
// Parameters:
//   - speed: the rotation rate
//
// Returns:
//   - UpdaterBuilderOption: a function that applies the speed option
func WithAngularSpeed(speed float32) UpdaterBuilderOption {
	return func(s *Scene) {
		s.AngularSpeed = speed
	}
}

// WithColor sets the flat RGBA tint.
//
// Parameters:
//   - color: the RGBA color
//
// Returns:
//   - UpdaterBuilderOption: a function that applies the color option
func WithColor(color [4]float32) UpdaterBuilderOption {
	return func(s *Scene) {
		s.Color = color
	}
}
