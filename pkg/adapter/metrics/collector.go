package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/njweb/webapi/pkg/domain/health"
	"github.com/njweb/webapi/pkg/domain/metrics"
)

var _ metrics.Collector = (*prometheusCollector)(nil)

type prometheusCollector struct {
	reg prometheus.Registerer

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec

	checkStatus   *prometheus.GaugeVec
	checkDuration *prometheus.HistogramVec
	checksTotal   *prometheus.CounterVec

	mu     sync.RWMutex
	closed bool
}

func (c *prometheusCollector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.requestDuration,
		c.requestsTotal,
		c.errorsTotal,
		c.checkStatus,
		c.checkDuration,
		c.checksTotal,
	}
}

// CollectRequestMetrics counts statuses of 400 and above as errors.
func (c *prometheusCollector) CollectRequestMetrics(method, path string, status int, duration float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}

	code := strconv.Itoa(status)
	c.requestDuration.WithLabelValues(method, path, code).Observe(duration)
	c.requestsTotal.WithLabelValues(method, path, code).Inc()
	if status >= http.StatusBadRequest {
		c.errorsTotal.WithLabelValues(method, path, code).Inc()
	}
}

func (c *prometheusCollector) CollectCheckMetrics(check, status string, duration float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}

	c.checkStatus.WithLabelValues(check).Set(gaugeValue(status))
	c.checkDuration.WithLabelValues(check).Observe(duration)
	c.checksTotal.WithLabelValues(check, status).Inc()
}

// gaugeValue places a status name on the 0..2 gauge scale. Unknown names
// count as unhealthy.
func gaugeValue(status string) float64 {
	switch s, _ := health.ParseStatus(status); s {
	case health.Healthy:
		return 0
	case health.Degraded:
		return 1
	default:
		return 2
	}
}

// Close unregisters every metric. It is safe to call more than once.
func (c *prometheusCollector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	for _, col := range c.collectors() {
		c.reg.Unregister(col)
	}
	return nil
}
