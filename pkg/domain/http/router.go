// Package http provides domain interfaces for HTTP routing and service health probes.
//
// Router is a chi.Router; implementations add the probe endpoints, the
// Prometheus endpoint and request instrumentation on top of it.
package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/njweb/webapi/pkg/domain/health"
	"github.com/njweb/webapi/pkg/domain/logging"
	"github.com/njweb/webapi/pkg/domain/metrics"
	"github.com/njweb/webapi/pkg/domain/options"
	"github.com/njweb/webapi/pkg/domain/tracing"
)

//go:generate mockgen -destination=mocks/mock_router.go -package=mocks github.com/njweb/webapi/pkg/domain/http Factory

// DefaultRequestTimeout bounds request handling when no timeout is set.
const DefaultRequestTimeout = 30 * time.Second

// Router extends chi.Router. Implementations mount the health probe
// endpoints and /metrics and wrap every route in the request middleware.
type Router interface {
	chi.Router
}

// RouterOptions configures the service level behavior of a router.
// Unset collaborators disable the matching feature.
type RouterOptions struct {
	// ServiceName identifies the service in logs, traces and metric labels.
	// Required.
	ServiceName string

	// ServiceVersion identifies the running build, e.g. "1.2.3".
	ServiceVersion string

	// Logger receives one entry per request.
	// If not set, request logging is disabled.
	Logger logging.Logger

	// TracingProvider enables a server span per request.
	// If not set, tracing is disabled.
	TracingProvider tracing.Provider

	// MetricsFactory creates a collector owned and closed by the router.
	MetricsFactory metrics.Factory

	// MetricsCollector takes precedence over MetricsFactory and is not
	// closed by the router.
	MetricsCollector metrics.Collector

	// HealthChecker backs the probe endpoints. Without one they report
	// Healthy with no results.
	HealthChecker health.Checker

	// ProbeEndpoints lists the paths serving health reports.
	// Default is DefaultProbeEndpoints.
	ProbeEndpoints []ProbeEndpoint

	// RequestTimeout cancels the request context of slow handlers.
	// Default is DefaultRequestTimeout.
	RequestTimeout time.Duration

	// HTTPSRedirect redirects plain HTTP requests to HTTPS with a 308.
	HTTPSRedirect bool

	// HTTPSPort is the port used in redirect targets. Zero keeps the
	// request host unchanged, which implies 443.
	HTTPSPort int

	// ExcludeFromLogging lists paths that are neither logged nor counted
	// in request metrics. Patterns match whole segments; a trailing "*"
	// matches any remainder, e.g. "/internal/*".
	ExcludeFromLogging []string

	// ExcludeFromTracing lists paths that get no server span. Patterns
	// follow ExcludeFromLogging.
	ExcludeFromTracing []string
}

// Option is a function that modifies RouterOptions following the
// functional options pattern.
type Option = options.Option[RouterOptions]

// DefaultOptions returns the default router options
func DefaultOptions() RouterOptions {
	return RouterOptions{
		ProbeEndpoints: DefaultProbeEndpoints(),
		RequestTimeout: DefaultRequestTimeout,
	}
}

func optionFunc(fn func(o *RouterOptions) error) Option {
	return options.OptionFunc[RouterOptions](fn)
}

// WithService sets the name and version reported in logs, spans and
// metric labels. The name is required.
func WithService(name, version string) Option {
	return optionFunc(func(o *RouterOptions) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("service name cannot be empty")
		}
		o.ServiceName = name
		o.ServiceVersion = version
		return nil
	})
}

// WithLogger sets the logger for request logging.
// If not set, logging will be disabled.
func WithLogger(logger logging.Logger) Option {
	return optionFunc(func(o *RouterOptions) error {
		o.Logger = logger
		return nil
	})
}

// WithTracingProvider enables a server span per request.
// If not set, tracing will be disabled.
func WithTracingProvider(provider tracing.Provider) Option {
	return optionFunc(func(o *RouterOptions) error {
		o.TracingProvider = provider
		return nil
	})
}

// WithMetricsCollector shares an existing collector with the router, e.g.
// one also recording health check metrics.
func WithMetricsCollector(collector metrics.Collector) Option {
	return optionFunc(func(o *RouterOptions) error {
		o.MetricsCollector = collector
		return nil
	})
}

// WithMetricsFactory sets the factory for a collector owned by the router.
func WithMetricsFactory(factory metrics.Factory) Option {
	return optionFunc(func(o *RouterOptions) error {
		o.MetricsFactory = factory
		return nil
	})
}

// WithHealthChecker sets the checker serving the probe endpoints.
func WithHealthChecker(checker health.Checker) Option {
	return optionFunc(func(o *RouterOptions) error {
		o.HealthChecker = checker
		return nil
	})
}

// WithProbeEndpoints replaces the mounted probe endpoints.
func WithProbeEndpoints(endpoints ...ProbeEndpoint) Option {
	return optionFunc(func(o *RouterOptions) error {
		paths := make([]string, len(endpoints))
		for i, e := range endpoints {
			paths[i] = e.Path
		}
		if err := checkPaths("probe", paths); err != nil {
			return err
		}
		o.ProbeEndpoints = append([]ProbeEndpoint(nil), endpoints...)
		return nil
	})
}

// WithRequestTimeout sets the per-request deadline.
func WithRequestTimeout(d time.Duration) Option {
	return optionFunc(func(o *RouterOptions) error {
		if d <= 0 {
			return fmt.Errorf("request timeout must be positive: %s", d)
		}
		o.RequestTimeout = d
		return nil
	})
}

// WithHTTPSRedirect enables redirection of plain HTTP requests to HTTPS.
// A zero port keeps the request host as is.
func WithHTTPSRedirect(port int) Option {
	return optionFunc(func(o *RouterOptions) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("invalid https port: %d", port)
		}
		o.HTTPSRedirect = true
		o.HTTPSPort = port
		return nil
	})
}

// WithObservabilityExclusions is WithLoggingExclusions and
// WithTracingExclusions in one option.
func WithObservabilityExclusions(loggingPaths, tracingPaths []string) Option {
	return optionFunc(func(o *RouterOptions) error {
		if err := WithLoggingExclusions(loggingPaths).ApplyOption(o); err != nil {
			return err
		}
		return WithTracingExclusions(tracingPaths).ApplyOption(o)
	})
}

// WithLoggingExclusions sets paths that are neither logged nor counted in
// request metrics.
func WithLoggingExclusions(paths []string) Option {
	return optionFunc(func(o *RouterOptions) error {
		if err := checkPaths("logging", paths); err != nil {
			return err
		}
		o.ExcludeFromLogging = append([]string(nil), paths...)
		return nil
	})
}

// WithTracingExclusions sets paths for which no server span is started.
func WithTracingExclusions(paths []string) Option {
	return optionFunc(func(o *RouterOptions) error {
		if err := checkPaths("tracing", paths); err != nil {
			return err
		}
		o.ExcludeFromTracing = append([]string(nil), paths...)
		return nil
	})
}

// checkPaths requires absolute, distinct paths.
func checkPaths(kind string, paths []string) error {
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("path must start with /: %s", p)
		}
		if seen[p] {
			return fmt.Errorf("duplicate %s path: %s", kind, p)
		}
		seen[p] = true
	}
	return nil
}

// Factory creates new Router instances
type Factory interface {
	// NewRouter creates a new Router with the given options.
	// Returns an error if the options are invalid.
	NewRouter(opts ...Option) (Router, error)
}
