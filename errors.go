package flowstack

import "errors"

var (
	// ErrNoDestination is returned when no destination is registered for a
	// value's type key.
	ErrNoDestination = errors.New("flowstack: no destination registered")
	// ErrDestinationMismatch is returned when a resolver receives a value of
	// a type it was not registered for.
	ErrDestinationMismatch = errors.New("flowstack: destination type mismatch")
	// ErrEmptySnapshot is returned by a Rasterizer asked for an empty image.
	ErrEmptySnapshot = errors.New("flowstack: empty snapshot")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("flowstack: invalid config")
)
