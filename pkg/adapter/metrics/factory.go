// Package metrics implements the metrics domain collector on Prometheus.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/njweb/webapi/pkg/domain/metrics"
	"github.com/njweb/webapi/pkg/domain/options"
)

var _ metrics.Factory = (*PrometheusFactory)(nil)

var requestLabels = []string{"method", "path", "status"}

func NewMetricsFactory() metrics.Factory {
	return &PrometheusFactory{}
}

// PrometheusFactory registers collectors with prometheus.DefaultRegisterer
// unless Registerer is set.
type PrometheusFactory struct {
	Registerer prometheus.Registerer
}

// NewCollector registers the request and health check metrics. Either every
// metric is registered or none is.
func (f *PrometheusFactory) NewCollector(opts ...metrics.Option) (metrics.Collector, error) {
	o := metrics.DefaultOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, fmt.Errorf("applying option: %w", err)
	}

	reg := f.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	def := definer{subsystem: o.Subsystem, labels: constLabels(o)}
	c := &prometheusCollector{
		reg:             reg,
		requestDuration: def.histogram("http_request_duration_seconds", "HTTP request duration in seconds", orDefault(o.Buckets, prometheus.DefBuckets), requestLabels...),
		requestsTotal:   def.counter("http_requests_total", "Total number of HTTP requests", requestLabels...),
		errorsTotal:     def.counter("http_errors_total", "Total number of HTTP errors", requestLabels...),
		checkStatus:     def.gauge("health_check_status", "Last health check status (0 healthy, 1 degraded, 2 unhealthy)", "check"),
		checkDuration:   def.histogram("health_check_duration_seconds", "Health check duration in seconds", orDefault(o.CheckBuckets, metrics.DefaultCheckBuckets), "check"),
		checksTotal:     def.counter("health_checks_total", "Total number of health check evaluations", "check", "status"),
	}

	registered := make([]prometheus.Collector, 0, 6)
	for _, col := range c.collectors() {
		if err := reg.Register(col); err != nil {
			for _, done := range registered {
				reg.Unregister(done)
			}
			return nil, fmt.Errorf("registering collector: %w", err)
		}
		registered = append(registered, col)
	}

	return c, nil
}

func constLabels(o metrics.Options) prometheus.Labels {
	labels := prometheus.Labels{"service": o.ServiceName}
	for k, v := range o.Labels {
		labels[k] = v
	}
	return labels
}

func orDefault(buckets, def []float64) []float64 {
	if len(buckets) == 0 {
		return def
	}
	return buckets
}

// definer builds metric vectors sharing a subsystem and constant labels.
type definer struct {
	subsystem string
	labels    prometheus.Labels
}

func (d definer) histogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem:   d.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: d.labels,
	}, labels)
}

func (d definer) counter(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem:   d.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: d.labels,
	}, labels)
}

func (d definer) gauge(name, help string, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Subsystem:   d.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: d.labels,
	}, labels)
}
