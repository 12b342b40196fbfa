// pkg/domain/tracing/tracing.go

// Package tracing defines the tracer provider lifecycle and its
// configuration. HTTP server spans are added by the router; health checks
// create their own spans through the global provider.
package tracing

//go:generate mockgen -destination=mocks/mock_tracing.go -package=mocks github.com/njweb/webapi/pkg/domain/tracing Provider,Factory

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/njweb/webapi/pkg/domain/options"
)

// Provider owns an installed tracer provider.
type Provider interface {
	// Shutdown flushes pending spans and stops export. ctx bounds the wait.
	Shutdown(ctx context.Context) error

	// IsEnabled reports whether spans are exported.
	IsEnabled() bool
}

// ExporterType defines the type of OpenTelemetry exporter to use.
type ExporterType string

const (
	// HTTPExporter sends OTLP over HTTP/protobuf
	HTTPExporter ExporterType = "http"

	// GRPCExporter sends OTLP over gRPC
	GRPCExporter ExporterType = "grpc"

	// StdoutExporter writes spans as JSON to standard output
	StdoutExporter ExporterType = "stdout"

	// NoopExporter disables tracing
	NoopExporter ExporterType = "noop"
)

// ParseExporterType converts a configuration string into an ExporterType.
// Matching ignores case and surrounding space.
func ParseExporterType(s string) (ExporterType, error) {
	switch t := ExporterType(strings.ToLower(strings.TrimSpace(s))); t {
	case HTTPExporter, GRPCExporter, StdoutExporter, NoopExporter:
		return t, nil
	default:
		return "", fmt.Errorf("unsupported exporter type: %s", s)
	}
}

// DefaultEndpoint is the local collector address for OTLP exporters, or ""
// for exporters without one.
func DefaultEndpoint(t ExporterType) string {
	switch t {
	case GRPCExporter:
		return "localhost:4317"
	case HTTPExporter:
		return "localhost:4318"
	default:
		return ""
	}
}

// Propagation formats.
const (
	// PropagatorTraceContext enables W3C Trace Context propagation
	PropagatorTraceContext = "tracecontext"

	// PropagatorBaggage enables W3C Baggage propagation
	PropagatorBaggage = "baggage"
)

// ParsePropagators splits a comma separated list such as
// "tracecontext,baggage".
func ParsePropagators(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return normalizePropagators(out)
}

func normalizePropagators(types []string) ([]string, error) {
	out := make([]string, 0, len(types))
	seen := make(map[string]bool, len(types))
	for _, t := range types {
		p := strings.ToLower(strings.TrimSpace(t))
		if p != PropagatorTraceContext && p != PropagatorBaggage {
			return nil, fmt.Errorf("unsupported propagator: %s", t)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

// Options configures the tracer provider.
type Options struct {
	ServiceName    string
	ServiceVersion string

	// CollectorEndpoint is host:port or a full URL. Empty means
	// DefaultEndpoint(ExporterType).
	CollectorEndpoint string

	ExporterType ExporterType

	// Headers are added to OTLP requests, e.g. for authentication.
	Headers map[string]string

	// Insecure disables TLS for the exporter connection
	Insecure bool

	// PropagatorTypes lists the context propagation formats. Empty means
	// tracecontext and baggage.
	PropagatorTypes []string

	// Writer receives spans when ExporterType is StdoutExporter.
	// Default is os.Stdout
	Writer io.Writer

	// SamplingRate is the probability of sampling a root span (0.0-1.0).
	// Child spans follow their parent's decision.
	SamplingRate float64
}

// Option is a function that modifies Options
type Option = options.Option[Options]

// DefaultOptions exports every span over OTLP/HTTP.
func DefaultOptions() Options {
	return Options{
		ExporterType: HTTPExporter,
		SamplingRate: 1.0,
	}
}

// Validate reports options a provider cannot be built from.
func (o Options) Validate() error {
	if o.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}
	if _, err := ParseExporterType(string(o.ExporterType)); err != nil {
		return err
	}
	return nil
}

// Endpoint returns CollectorEndpoint or the exporter default.
func (o Options) Endpoint() string {
	if o.CollectorEndpoint != "" {
		return o.CollectorEndpoint
	}
	return DefaultEndpoint(o.ExporterType)
}

// Propagators returns PropagatorTypes or the W3C defaults.
func (o Options) Propagators() []string {
	if len(o.PropagatorTypes) == 0 {
		return []string{PropagatorTraceContext, PropagatorBaggage}
	}
	return o.PropagatorTypes
}

// Factory creates configured Provider instances
type Factory interface {
	// NewProvider creates and installs a Provider
	NewProvider(opts ...Option) (Provider, error)
}

// WithServiceName sets the service name for span attribution
func WithServiceName(name string) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		o.ServiceName = name
		return nil
	})
}

// WithServiceVersion sets the service version for span attribution
func WithServiceVersion(version string) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		o.ServiceVersion = version
		return nil
	})
}

// WithCollectorEndpoint sets the OpenTelemetry collector endpoint
func WithCollectorEndpoint(endpoint string) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		o.CollectorEndpoint = strings.TrimSpace(endpoint)
		return nil
	})
}

// WithExporterType sets the type of exporter to use
func WithExporterType(exporterType ExporterType) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		t, err := ParseExporterType(string(exporterType))
		if err != nil {
			return err
		}
		o.ExporterType = t
		return nil
	})
}

// WithHeaders adds headers to OTLP requests.
func WithHeaders(headers map[string]string) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		if len(headers) == 0 {
			return nil
		}
		if o.Headers == nil {
			o.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			o.Headers[k] = v
		}
		return nil
	})
}

// WithInsecure sets whether to disable TLS
func WithInsecure(insecure bool) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		o.Insecure = insecure
		return nil
	})
}

// WithWriter sets the destination for the stdout exporter
func WithWriter(w io.Writer) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		o.Writer = w
		return nil
	})
}

// WithPropagatorTypes sets the propagation formats. Names are matched
// without regard to case and duplicates are dropped.
func WithPropagatorTypes(types []string) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		normalized, err := normalizePropagators(types)
		if err != nil {
			return err
		}
		o.PropagatorTypes = normalized
		return nil
	})
}

// WithSamplingRate sets the trace sampling probability
// rate must be between 0.0 and 1.0
func WithSamplingRate(rate float64) Option {
	return options.OptionFunc[Options](func(o *Options) error {
		if rate < 0.0 || rate > 1.0 {
			return fmt.Errorf("sampling rate must be between 0.0 and 1.0")
		}
		o.SamplingRate = rate
		return nil
	})
}

// WithDefaultPropagators configures standard W3C propagation
func WithDefaultPropagators() Option {
	return WithPropagatorTypes([]string{
		PropagatorTraceContext,
		PropagatorBaggage,
	})
}
