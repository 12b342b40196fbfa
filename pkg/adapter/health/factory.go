// pkg/adapter/health/factory.go

// Package health implements the health domain: a Checker that aggregates
// probes, and a GC memory probe reading runtime counters.
package health

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	domainhealth "github.com/njweb/webapi/pkg/domain/health"
	"github.com/njweb/webapi/pkg/domain/options"
)

// Configuration key suffixes read per registration, see domainhealth.CheckKey.
const (
	FailureStatusSetting = "failure_status"
	TimeoutSetting       = "timeout"
)

const tracerName = "github.com/njweb/webapi/pkg/adapter/health"

// Verify interface implementation
var _ domainhealth.Factory = (*Factory)(nil)

// Factory builds Checkers. Checkers share nothing but the memory sampler;
// each GC registration carries its own options.
type Factory struct {
	// TracerProvider creates probe spans. Default is the global provider.
	TracerProvider trace.TracerProvider

	sampler MemorySampler
}

// NewFactory creates a health factory whose GC probes read runtime/metrics.
func NewFactory() *Factory {
	return &Factory{sampler: NewRuntimeSampler()}
}

// NewFactoryWithSampler creates a health factory whose GC probes read from
// sampler.
func NewFactoryWithSampler(sampler MemorySampler) *Factory {
	if sampler == nil {
		sampler = NewRuntimeSampler()
	}
	return &Factory{sampler: sampler}
}

// AddCheck returns an option registering probe under name. An unset
// failure status defaults to Unhealthy.
func (f *Factory) AddCheck(name string, probe domainhealth.Probe, failureStatus domainhealth.Status, tags ...string) domainhealth.Option {
	return domainhealth.WithProbe(name, probe, failureStatus, tags...)
}

// AddGCCheck returns an option registering the GC probe under name. An
// unset failure status defaults to Degraded; the threshold defaults to
// OneGibibyte.
func (f *Factory) AddGCCheck(name string, failureStatus domainhealth.Status, tags []string, opts ...GCOption) domainhealth.Option {
	return RegisterGC(f.sampler, name, failureStatus, tags, opts...)
}

// NewChecker implements domainhealth.Factory.
func (f *Factory) NewChecker(opts ...domainhealth.Option) (domainhealth.Checker, error) {
	o := domainhealth.DefaultOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, fmt.Errorf("applying health options: %w", err)
	}
	if o.Timeout <= 0 {
		o.Timeout = domainhealth.DefaultTimeout
	}

	regs := make([]domainhealth.Registration, len(o.Registrations))
	copy(regs, o.Registrations)

	if o.Config != nil {
		for i := range regs {
			if err := applyConfig(&regs[i], o.Config); err != nil {
				return nil, fmt.Errorf("configuring health check %s: %w", regs[i].Name, err)
			}
		}
	}

	tp := f.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Checker{
		registrations: regs,
		timeout:       o.Timeout,
		parallel:      o.Parallel,
		limit:         o.MaxConcurrency,
		logger:        o.Logger,
		metrics:       o.Metrics,
		tracer:        tp.Tracer(tracerName),
	}, nil
}

// applyConfig overlays configured settings onto reg.
func applyConfig(reg *domainhealth.Registration, source domainhealth.ConfigSource) error {
	key := domainhealth.CheckKey(reg.Name, FailureStatusSetting)
	if raw, ok := source.GetString(key); ok {
		status, err := domainhealth.ParseStatus(raw)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		reg.FailureStatus = status
	}

	key = domainhealth.CheckKey(reg.Name, TimeoutSetting)
	if raw, ok := source.GetString(key); ok {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		if timeout < 0 {
			return fmt.Errorf("%s must not be negative, got %s", key, timeout)
		}
		reg.Timeout = timeout
	}

	if c, ok := reg.Probe.(domainhealth.Configurable); ok {
		probe, err := c.Configure(reg.Name, source)
		if err != nil {
			return err
		}
		reg.Probe = probe
	}
	return nil
}
