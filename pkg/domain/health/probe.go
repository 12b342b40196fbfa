// pkg/domain/health/probe.go
package health

import (
	"context"
	"slices"
	"time"
)

// Probe is an independently evaluable health check.
//
// Check receives the registration it was invoked for, so a single probe
// value can serve several names with distinct configuration. Implementations
// should honor ctx cancellation; a probe that ignores it has its result
// discarded once the checker deadline passes.
type Probe interface {
	Check(ctx context.Context, reg Registration) (Result, error)
}

// ProbeFunc adapts an ordinary function to the Probe interface.
type ProbeFunc func(ctx context.Context, reg Registration) (Result, error)

// Check calls f(ctx, reg).
func (f ProbeFunc) Check(ctx context.Context, reg Registration) (Result, error) {
	return f(ctx, reg)
}

// Configurable is implemented by probes that read per-registration settings
// from a configuration store at startup.
type Configurable interface {
	// Configure returns the probe to use for the registration named name
	// with store settings applied. The receiver is not modified.
	Configure(name string, store ConfigSource) (Probe, error)
}

// ConfigSource is the subset of a configuration store that probes read.
type ConfigSource interface {
	GetString(key string) (string, bool)
	GetInt(key string) (int, bool)
	IsSet(key string) bool
}

// Registration binds a probe to a unique name.
type Registration struct {
	// Name identifies the probe in reports. Unique within a checker.
	Name string

	// Kind identifies the probe type. Re-registering a name with a
	// different kind is a configuration error.
	Kind string

	// Probe performs the check.
	Probe Probe

	// FailureStatus is reported when the probe detects a failure.
	FailureStatus Status

	// Tags allow selective execution. The default selection ignores them.
	Tags []string

	// Timeout narrows the checker deadline for this probe. Zero means the
	// checker deadline applies.
	Timeout time.Duration
}

// HasAnyTag reports whether the registration carries at least one of tags.
// An empty tag list matches every registration.
func (r Registration) HasAnyTag(tags ...string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if slices.Contains(r.Tags, t) {
			return true
		}
	}
	return false
}
