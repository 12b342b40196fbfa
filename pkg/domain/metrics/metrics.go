// pkg/domain/metrics/metrics.go

// Package metrics defines the collector used to record HTTP request and
// health check measurements.
package metrics

import (
	"fmt"
	"regexp"

	"github.com/njweb/webapi/pkg/domain/options"
)

//go:generate mockgen -destination=mocks/mock_metrics.go -package=mocks github.com/njweb/webapi/pkg/domain/metrics Collector,Factory

// Collector handles metrics recording for HTTP requests and health checks
type Collector interface {
	// CollectRequestMetrics records metrics for a completed HTTP request
	CollectRequestMetrics(method, path string, status int, duration float64)

	// CollectCheckMetrics records the outcome of a single health check.
	// status is the check status name, e.g. "Healthy"; duration is in seconds.
	CollectCheckMetrics(check, status string, duration float64)

	// Close unregisters the collector. Later Collect calls are ignored.
	Close() error
}

// DefaultCheckBuckets suit probes that finish well under a second.
var DefaultCheckBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// Options configures the behavior of a metrics collector
type Options struct {
	// ServiceName is added to every metric as the "service" label.
	ServiceName string

	// Buckets are the request latency histogram buckets. Empty means the
	// collector default.
	Buckets []float64

	// CheckBuckets are the health check latency histogram buckets.
	CheckBuckets []float64

	// Labels are additional fixed labels to add to all metrics
	Labels map[string]string

	// Subsystem is placed before every metric name, e.g.
	// <subsystem>_http_requests_total.
	Subsystem string
}

// Option is a function that modifies Options
type Option = options.Option[Options]

// DefaultOptions returns the default metrics options
func DefaultOptions() Options {
	return Options{
		ServiceName:  "unknown",
		CheckBuckets: DefaultCheckBuckets,
	}
}

var namePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithServiceName sets the service label value.
func WithServiceName(name string) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		if name == "" {
			return fmt.Errorf("service name is required")
		}
		o.ServiceName = name
		return nil
	})
}

// WithBuckets sets the request latency buckets.
func WithBuckets(buckets []float64) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		if err := validateBuckets(buckets); err != nil {
			return err
		}
		o.Buckets = append([]float64(nil), buckets...)
		return nil
	})
}

// WithCheckBuckets sets the health check latency buckets.
func WithCheckBuckets(buckets []float64) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		if len(buckets) == 0 {
			return fmt.Errorf("check buckets must not be empty")
		}
		if err := validateBuckets(buckets); err != nil {
			return err
		}
		o.CheckBuckets = append([]float64(nil), buckets...)
		return nil
	})
}

// WithLabels adds fixed labels to every metric. Names must be valid
// Prometheus label names and "service" is reserved.
func WithLabels(labels map[string]string) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		for k := range labels {
			if !namePattern.MatchString(k) {
				return fmt.Errorf("invalid label name %q", k)
			}
			if k == "service" {
				return fmt.Errorf("label %q is reserved", k)
			}
		}
		if o.Labels == nil {
			o.Labels = make(map[string]string, len(labels))
		}
		for k, v := range labels {
			o.Labels[k] = v
		}
		return nil
	})
}

// WithSubsystem sets the metric name prefix.
func WithSubsystem(subsystem string) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		if subsystem != "" && !namePattern.MatchString(subsystem) {
			return fmt.Errorf("invalid subsystem %q", subsystem)
		}
		o.Subsystem = subsystem
		return nil
	})
}

func validateBuckets(buckets []float64) error {
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return fmt.Errorf("buckets must be in increasing order: %v", buckets)
		}
	}
	return nil
}

// Factory creates new metrics collector instances
type Factory interface {
	// NewCollector creates a new metrics collector with the given options
	NewCollector(opts ...Option) (Collector, error)
}
