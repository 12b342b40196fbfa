// Package http provides a Chi-based implementation of the HTTP routing domain interfaces.
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/njweb/webapi/pkg/domain/health"
	domainhttp "github.com/njweb/webapi/pkg/domain/http"
	"github.com/njweb/webapi/pkg/domain/logging"
	"github.com/njweb/webapi/pkg/domain/metrics"
	"github.com/njweb/webapi/pkg/domain/options"
)

var (
	_ domainhttp.Router  = (*Router)(nil)
	_ domainhttp.Factory = (*Factory)(nil)
)

// Router is a chi.Router carrying the probe endpoints, /metrics and the
// request middleware described by its options.
type Router struct {
	chi.Router

	// opts holds the options the router was built with
	opts domainhttp.RouterOptions

	// metrics records request metrics; nil disables them
	metrics metrics.Collector

	// ownsMetrics is set when metrics came from the factory and is
	// released by Close
	ownsMetrics bool

	// noLogging matches paths skipped by request logging and metrics
	noLogging pathSet

	// noTracing matches paths that get no server span
	noTracing pathSet
}

// Factory creates Chi-based Router instances.
type Factory struct{}

// NewFactory creates a new router factory.
func NewFactory() *Factory {
	return &Factory{}
}

// NewRouter builds a Router. A collector created from the metrics factory is
// released again if construction fails.
func (f *Factory) NewRouter(opts ...domainhttp.Option) (domainhttp.Router, error) {
	o := domainhttp.DefaultOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, fmt.Errorf("applying router option: %w", err)
	}
	if o.ServiceName == "" {
		return nil, fmt.Errorf("service name is required")
	}

	collector, owned, err := resolveCollector(o)
	if err != nil {
		return nil, err
	}

	r := &Router{
		Router:      chi.NewRouter(),
		opts:        o,
		metrics:     collector,
		ownsMetrics: owned,
		noLogging:   newPathSet(o.ExcludeFromLogging),
		noTracing:   newPathSet(o.ExcludeFromTracing),
	}
	r.Use(r.middlewares()...)
	r.mountRoutes()

	return r, nil
}

// resolveCollector prefers a shared collector over creating one.
func resolveCollector(o domainhttp.RouterOptions) (metrics.Collector, bool, error) {
	if o.MetricsCollector != nil {
		return o.MetricsCollector, false, nil
	}
	if o.MetricsFactory == nil {
		return nil, false, nil
	}
	collector, err := o.MetricsFactory.NewCollector(
		metrics.WithServiceName(o.ServiceName),
		metrics.WithLabels(map[string]string{"version": o.ServiceVersion}),
	)
	if err != nil {
		return nil, false, fmt.Errorf("creating metrics collector: %w", err)
	}
	return collector, true, nil
}

// mountRoutes registers the probe endpoints, GET only so chi answers other
// methods with 405, and /metrics when a collector is configured.
func (r *Router) mountRoutes() {
	for _, endpoint := range r.opts.ProbeEndpoints {
		r.Get(endpoint.Path, r.probeHandler(endpoint))
	}
	if r.metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}
}

func (r *Router) probeHandler(endpoint domainhttp.ProbeEndpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		report := health.NewReport(nil, 0)
		if r.opts.HealthChecker != nil {
			report = r.opts.HealthChecker.CheckTagged(req.Context(), endpoint.Tags...)
		}

		if err := WriteReport(w, report); err != nil && r.opts.Logger != nil {
			r.opts.Logger.WithContext(req.Context()).ErrorWith("Failed to write health report", logging.Fields{
				"path":  endpoint.Path,
				"error": err.Error(),
			})
		}
	}
}

// Close releases the metrics collector if the router created it.
func (r *Router) Close(_ context.Context) error {
	if r.metrics == nil || !r.ownsMetrics {
		return nil
	}
	if err := r.metrics.Close(); err != nil {
		return fmt.Errorf("closing metrics collector: %w", err)
	}
	return nil
}
