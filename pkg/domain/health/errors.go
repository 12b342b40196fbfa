// pkg/domain/health/errors.go
package health

import "errors"

var (
	// ErrDuplicateRegistration is returned when a name is registered twice
	// with different probe kinds.
	ErrDuplicateRegistration = errors.New("duplicate health check registration")

	// ErrInvalidRegistration is returned for a registration without a name
	// or probe, or with an invalid failure status.
	ErrInvalidRegistration = errors.New("invalid health check registration")

	// ErrProbeTimeout is reported when a probe does not return before the
	// checker deadline.
	ErrProbeTimeout = errors.New("health check timed out")

	// ErrProbePanic is reported when a probe panics.
	ErrProbePanic = errors.New("health check panicked")
)
