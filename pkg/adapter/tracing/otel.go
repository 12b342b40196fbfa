// pkg/adapter/tracing/otel.go

// Package tracing implements the tracing domain on the OpenTelemetry SDK.
// A provider created here becomes the global tracer provider, which the
// HTTP router and the health checker pick up.
package tracing

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/njweb/webapi/pkg/domain/options"
	"github.com/njweb/webapi/pkg/domain/tracing"
)

// Verify interface implementation
var (
	_ tracing.Factory  = (*Factory)(nil)
	_ tracing.Provider = (*Provider)(nil)
)

// Provider wraps an SDK tracer provider. A disabled Provider holds none.
type Provider struct {
	provider *sdktrace.TracerProvider
	enabled  bool

	shutdownOnce sync.Once
	shutdownErr  error
}

type Factory struct{}

func NewFactory() tracing.Factory {
	return &Factory{}
}

// NewProvider builds the exporter and installs the provider and
// propagators globally. NoopExporter returns a disabled Provider and
// leaves the globals untouched.
func (f *Factory) NewProvider(opts ...tracing.Option) (tracing.Provider, error) {
	o := tracing.DefaultOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, fmt.Errorf("applying option: %w", err)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.ExporterType == tracing.NoopExporter {
		return &Provider{}, nil
	}

	exporter, err := newExporter(context.Background(), o)
	if err != nil {
		return nil, fmt.Errorf("creating %s exporter: %w", o.ExporterType, err)
	}
	res, err := newResource(o)
	if err != nil {
		_ = exporter.Shutdown(context.Background())
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(o.SamplingRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(newPropagator(o.Propagators()))

	return &Provider{provider: tp, enabled: true}, nil
}

// newResource describes the service on top of the SDK defaults, which
// include OTEL_RESOURCE_ATTRIBUTES.
func newResource(o tracing.Options) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(o.ServiceName),
			semconv.ServiceVersion(o.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	return res, nil
}

// Shutdown flushes and stops the provider. Later calls return the first
// result.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.enabled || p.provider == nil {
		return nil
	}
	p.shutdownOnce.Do(func() {
		if err := p.provider.Shutdown(ctx); err != nil {
			p.shutdownErr = fmt.Errorf("shutting down tracer provider: %w", err)
		}
	})
	return p.shutdownErr
}

// IsEnabled implements Provider.IsEnabled
func (p *Provider) IsEnabled() bool {
	return p.enabled
}

// newSampler samples root spans at rate. Children inherit the parent's
// decision so remote traces stay whole.
func newSampler(rate float64) sdktrace.Sampler {
	var root sdktrace.Sampler
	switch {
	case rate >= 1.0:
		root = sdktrace.AlwaysSample()
	case rate <= 0.0:
		root = sdktrace.NeverSample()
	default:
		root = sdktrace.TraceIDRatioBased(rate)
	}
	return sdktrace.ParentBased(root)
}

func newPropagator(types []string) propagation.TextMapPropagator {
	propagators := make([]propagation.TextMapPropagator, 0, len(types))
	for _, t := range types {
		switch t {
		case tracing.PropagatorTraceContext:
			propagators = append(propagators, propagation.TraceContext{})
		case tracing.PropagatorBaggage:
			propagators = append(propagators, propagation.Baggage{})
		}
	}
	return propagation.NewCompositeTextMapPropagator(propagators...)
}
