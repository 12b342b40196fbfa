// pkg/adapter/health/gc.go
package health

import (
	"context"
	"fmt"
	"math"
	"strconv"

	domainhealth "github.com/njweb/webapi/pkg/domain/health"
	"github.com/njweb/webapi/pkg/domain/options"
)

// OneGibibyte is the default GC probe threshold.
const OneGibibyte int64 = 1024 * 1024 * 1024

// GCKind identifies GC memory probe registrations.
const GCKind = "gc_memory"

// ThresholdSetting is the configuration key suffix holding a GC threshold.
const ThresholdSetting = "threshold_in_bytes"

// GCOptions configures one GC probe registration.
type GCOptions struct {
	// ThresholdInBytes is the allocated byte count at which the probe
	// reports its failure status. Default is OneGibibyte.
	ThresholdInBytes int64
}

// GCOption is a function that modifies GCOptions
type GCOption = options.Option[GCOptions]

// DefaultGCOptions returns the default GC probe options
func DefaultGCOptions() GCOptions {
	return GCOptions{
		ThresholdInBytes: OneGibibyte,
	}
}

// WithThresholdInBytes sets the allocated byte threshold.
func WithThresholdInBytes(threshold int64) GCOption {
	return options.OptionFunc[GCOptions](func(o *GCOptions) error {
		if threshold < 0 {
			return fmt.Errorf("threshold must not be negative, got %d", threshold)
		}
		o.ThresholdInBytes = threshold
		return nil
	})
}

// Verify interface implementation
var (
	_ domainhealth.Probe        = (*GCProbe)(nil)
	_ domainhealth.Configurable = (*GCProbe)(nil)
)

// GCProbe reports memory pressure from the garbage collected heap. Its
// options are fixed at construction; every registration owns its probe.
type GCProbe struct {
	sampler MemorySampler
	options GCOptions
}

// NewGCProbe creates a GC probe reading from sampler. A nil sampler reads
// from runtime/metrics.
func NewGCProbe(sampler MemorySampler, opts ...GCOption) (*GCProbe, error) {
	if sampler == nil {
		sampler = NewRuntimeSampler()
	}
	o := DefaultGCOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, err
	}
	return &GCProbe{sampler: sampler, options: o}, nil
}

// RegisterGC returns a checker option registering a GC probe reading from
// sampler under name. An unset failure status defaults to Degraded.
// Registering the same name again replaces its failure status, tags and
// options.
func RegisterGC(sampler MemorySampler, name string, failureStatus domainhealth.Status, tags []string, opts ...GCOption) domainhealth.Option {
	return options.OptionFunc[domainhealth.CheckerOptions](func(o *domainhealth.CheckerOptions) error {
		probe, err := NewGCProbe(sampler, opts...)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domainhealth.ErrInvalidRegistration, name, err)
		}
		if failureStatus == 0 {
			failureStatus = domainhealth.Degraded
		}
		return domainhealth.WithRegistration(domainhealth.Registration{
			Name:          name,
			Kind:          GCKind,
			Probe:         probe,
			FailureStatus: failureStatus,
			Tags:          tags,
		}).ApplyOption(o)
	})
}

// Options returns the probe's options.
func (p *GCProbe) Options() GCOptions {
	return p.options
}

// Configure implements domainhealth.Configurable. A configured threshold
// overrides the one supplied at registration; p itself is left unchanged.
func (p *GCProbe) Configure(name string, store domainhealth.ConfigSource) (domainhealth.Probe, error) {
	key := domainhealth.CheckKey(name, ThresholdSetting)
	raw, ok := store.GetString(key)
	if !ok {
		return p, nil
	}
	threshold, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", key, err)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %d", key, threshold)
	}
	configured := *p
	configured.options.ThresholdInBytes = threshold
	return &configured, nil
}

// Check implements domainhealth.Probe.
func (p *GCProbe) Check(ctx context.Context, reg domainhealth.Registration) (domainhealth.Result, error) {
	sample, err := p.sampler.Sample(ctx)
	if err != nil {
		return domainhealth.Result{}, fmt.Errorf("reading memory counters: %w", err)
	}

	threshold := p.options.ThresholdInBytes
	status := domainhealth.Healthy
	if exceeds(sample.Allocated, threshold) {
		status = reg.FailureStatus
	}

	data := domainhealth.NewData(
		"Allocated", clampInt64(sample.Allocated),
		"Gen0Collections", clampInt64(sample.Gen0Collections),
		"Gen1Collections", clampInt64(sample.Gen1Collections),
		"Gen2Collections", clampInt64(sample.Gen2Collections),
	)

	return domainhealth.NewResult(status, GCDescription(threshold), data), nil
}

// GCDescription is the result description for a given threshold.
func GCDescription(threshold int64) string {
	return fmt.Sprintf("reports degraded status if allocated bytes >= %d bytes", threshold)
}

// exceeds reports allocated >= threshold.
func exceeds(allocated uint64, threshold int64) bool {
	if threshold <= 0 {
		return true
	}
	return allocated >= uint64(threshold)
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
