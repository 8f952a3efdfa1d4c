package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfig indicates a configuration that cannot produce a valid run.
	ErrConfig = errors.New("dynamo: invalid configuration")

	// ErrInvalidState indicates a NaN or Inf in particle position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownBackend indicates a force backend name with no registration.
	ErrUnknownBackend = errors.New("dynamo: unknown compute backend")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step     int
	Frame    int
	Particle int
	Wrapped  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d step %d particle %d: %v", e.Frame, e.Step, e.Particle, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// ConfigError returns an error wrapping ErrConfig with a formatted reason.
func ConfigError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
