// Package health defines the probe, registration and report types used to
// expose process health, along with the Checker that aggregates them.
//
// A Checker runs every registered Probe on demand, combines the results
// with a worst-of rule (Healthy < Degraded < Unhealthy) and returns a
// Report. Registrations are fixed once the Checker is built; results are
// computed fresh on every call.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/njweb/webapi/pkg/domain/logging"
	"github.com/njweb/webapi/pkg/domain/metrics"
	"github.com/njweb/webapi/pkg/domain/options"
)

//go:generate mockgen -destination=mocks/mock_health.go -package=mocks github.com/njweb/webapi/pkg/domain/health Probe,Checker,Factory

// DefaultTimeout bounds a single evaluation pass when no timeout is set.
const DefaultTimeout = 30 * time.Second

// Checker evaluates registered probes.
type Checker interface {
	// Check runs every registered probe.
	Check(ctx context.Context) Report

	// CheckTagged runs the probes carrying at least one of tags. With no
	// tags it behaves like Check.
	CheckTagged(ctx context.Context, tags ...string) Report

	// Names returns the registered probe names in sorted order.
	Names() []string
}

// CheckerOptions configures a Checker.
type CheckerOptions struct {
	// Registrations lists the probes in registration order.
	Registrations []Registration

	// Timeout bounds a whole evaluation pass. Default is DefaultTimeout.
	Timeout time.Duration

	// Parallel runs probes concurrently. Default is true.
	Parallel bool

	// MaxConcurrency caps the probes running at once in parallel mode.
	// Zero means no cap.
	MaxConcurrency int

	// Logger receives probe outcomes. If not set, logging is disabled.
	Logger logging.Logger

	// Metrics records probe outcomes. If not set, metrics are disabled.
	Metrics metrics.Collector

	// Config supplies per-check overrides read at build time.
	Config ConfigSource
}

// Option is a function that modifies CheckerOptions
type Option = options.Option[CheckerOptions]

// DefaultOptions returns the default checker options
func DefaultOptions() CheckerOptions {
	return CheckerOptions{
		Timeout:  DefaultTimeout,
		Parallel: true,
	}
}

// WithRegistration adds reg to the checker.
//
// An unset FailureStatus defaults to Unhealthy. Registering a name that is
// already present replaces the earlier registration when both share the
// same Kind, and fails with ErrDuplicateRegistration otherwise.
func WithRegistration(reg Registration) Option {
	return options.OptionFunc[CheckerOptions](func(o *CheckerOptions) error {
		if reg.Name == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidRegistration)
		}
		if reg.Probe == nil {
			return fmt.Errorf("%w: %s: probe is required", ErrInvalidRegistration, reg.Name)
		}
		if reg.FailureStatus == 0 {
			reg.FailureStatus = Unhealthy
		}
		if !reg.FailureStatus.IsValid() {
			return fmt.Errorf("%w: %s: failure status %d", ErrInvalidRegistration, reg.Name, reg.FailureStatus)
		}
		if reg.Kind == "" {
			reg.Kind = fmt.Sprintf("%T", reg.Probe)
		}
		if reg.Timeout < 0 {
			return fmt.Errorf("%w: %s: negative timeout", ErrInvalidRegistration, reg.Name)
		}

		for i, existing := range o.Registrations {
			if existing.Name != reg.Name {
				continue
			}
			if existing.Kind != reg.Kind {
				return fmt.Errorf("%w: %s is registered as %s, cannot register as %s",
					ErrDuplicateRegistration, reg.Name, existing.Kind, reg.Kind)
			}
			o.Registrations[i] = reg
			return nil
		}
		o.Registrations = append(o.Registrations, reg)
		return nil
	})
}

// WithProbe registers probe under name. It is shorthand for WithRegistration.
func WithProbe(name string, probe Probe, failureStatus Status, tags ...string) Option {
	return WithRegistration(Registration{
		Name:          name,
		Probe:         probe,
		FailureStatus: failureStatus,
		Tags:          tags,
	})
}

// WithTimeout bounds each evaluation pass.
func WithTimeout(timeout time.Duration) Option {
	return options.OptionFunc[CheckerOptions](func(o *CheckerOptions) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", timeout)
		}
		o.Timeout = timeout
		return nil
	})
}

// WithParallel selects concurrent (true) or sequential (false) evaluation.
func WithParallel(parallel bool) Option {
	return options.OptionFunc[CheckerOptions](func(o *CheckerOptions) error {
		o.Parallel = parallel
		return nil
	})
}

// WithMaxConcurrency caps the number of probes evaluated at once. Zero
// removes the cap.
func WithMaxConcurrency(n int) Option {
	return options.OptionFunc[CheckerOptions](func(o *CheckerOptions) error {
		if n < 0 {
			return fmt.Errorf("max concurrency must not be negative, got %d", n)
		}
		o.MaxConcurrency = n
		return nil
	})
}

// WithLogger sets the logger for probe outcomes.
func WithLogger(logger logging.Logger) Option {
	return options.OptionFunc[CheckerOptions](func(o *CheckerOptions) error {
		o.Logger = logger
		return nil
	})
}

// WithMetrics sets the collector that records probe outcomes.
func WithMetrics(collector metrics.Collector) Option {
	return options.OptionFunc[CheckerOptions](func(o *CheckerOptions) error {
		o.Metrics = collector
		return nil
	})
}

// WithConfig sets the source of per-check overrides.
func WithConfig(source ConfigSource) Option {
	return options.OptionFunc[CheckerOptions](func(o *CheckerOptions) error {
		o.Config = source
		return nil
	})
}

// Factory creates Checker instances
type Factory interface {
	// NewChecker builds a Checker. Registration errors are returned here so
	// misconfiguration halts startup.
	NewChecker(opts ...Option) (Checker, error)
}

// CheckKey returns the configuration key for setting on the check named name,
// e.g. "health.checks.garbage_collector_check.threshold_in_bytes".
func CheckKey(name, setting string) string {
	return "health.checks." + name + "." + setting
}
