package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njweb/webapi/pkg/domain/metrics"
)

func newCollector(t *testing.T, opts ...metrics.Option) (*prometheusCollector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	c, err := (&PrometheusFactory{Registerer: reg}).NewCollector(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c.(*prometheusCollector), reg
}

func TestCollector_RequestMetrics(t *testing.T) {
	c, reg := newCollector(t,
		metrics.WithServiceName("webapi"),
		metrics.WithLabels(map[string]string{"version": "1.0.0"}),
		metrics.WithBuckets([]float64{0.1, 1}),
	)

	c.CollectRequestMetrics("GET", "/api/values/{id}", 200, 0.05)
	c.CollectRequestMetrics("GET", "/api/values/{id}", 404, 0.02)
	c.CollectRequestMetrics("GET", "/api/values/{id}", 404, 2)
	c.CollectRequestMetrics("POST", "/api/values", 503, 0.3)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/api/values/{id}", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/api/values/{id}", "404")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.errorsTotal.WithLabelValues("GET", "/api/values/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.errorsTotal.WithLabelValues("POST", "/api/values", "503")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.errorsTotal))

	expected := `
# HELP http_requests_total Total number of HTTP requests
# TYPE http_requests_total counter
http_requests_total{method="GET",path="/api/values/{id}",service="webapi",status="200",version="1.0.0"} 1
http_requests_total{method="GET",path="/api/values/{id}",service="webapi",status="404",version="1.0.0"} 2
http_requests_total{method="POST",path="/api/values",service="webapi",status="503",version="1.0.0"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_requests_total"))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "http_request_duration_seconds" {
			continue
		}
		buckets := mf.GetMetric()[0].GetHistogram().GetBucket()
		require.Len(t, buckets, 2)
		assert.Equal(t, 0.1, buckets[0].GetUpperBound())
	}
}

func TestCollector_CheckMetrics(t *testing.T) {
	c, reg := newCollector(t, metrics.WithServiceName("webapi"))

	c.CollectCheckMetrics("garbage_collector_check", "Healthy", 0.001)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.checkStatus.WithLabelValues("garbage_collector_check")))

	c.CollectCheckMetrics("garbage_collector_check", "Degraded", 0.001)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.checkStatus.WithLabelValues("garbage_collector_check")))

	c.CollectCheckMetrics("database", "Unhealthy", 0.2)
	c.CollectCheckMetrics("cache", "sideways", 0.2)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.checkStatus.WithLabelValues("database")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.checkStatus.WithLabelValues("cache")))

	expected := `
# HELP health_checks_total Total number of health check evaluations
# TYPE health_checks_total counter
health_checks_total{check="cache",service="webapi",status="sideways"} 1
health_checks_total{check="database",service="webapi",status="Unhealthy"} 1
health_checks_total{check="garbage_collector_check",service="webapi",status="Degraded"} 1
health_checks_total{check="garbage_collector_check",service="webapi",status="Healthy"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "health_checks_total"))
	assert.Equal(t, 3, testutil.CollectAndCount(c.checkDuration))
}

func TestCollector_Subsystem(t *testing.T) {
	c, reg := newCollector(t, metrics.WithServiceName("webapi"), metrics.WithSubsystem("edge"))
	c.CollectCheckMetrics("uptime", "Healthy", 0.001)

	count, err := testutil.GatherAndCount(reg, "edge_health_check_status")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewCollector_Errors(t *testing.T) {
	t.Run("invalid option", func(t *testing.T) {
		_, err := (&PrometheusFactory{Registerer: prometheus.NewRegistry()}).NewCollector(
			metrics.WithBuckets([]float64{2, 1}),
		)
		assert.ErrorContains(t, err, "applying option: buckets must be in increasing order")
	})

	t.Run("conflicting registration rolls back", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		// health_check_status is registered fourth, after the request metrics.
		reg.MustRegister(prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "health_check_status",
			Help: "conflicting",
		}, []string{"check"}))

		_, err := (&PrometheusFactory{Registerer: reg}).NewCollector(metrics.WithServiceName("webapi"))
		require.ErrorContains(t, err, "registering collector")

		// The request metrics registered before the conflict were removed.
		ok := reg.Unregister(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: prometheus.Labels{"service": "webapi"},
		}, requestLabels))
		assert.False(t, ok)
	})
}

func TestCollector_Close(t *testing.T) {
	reg := prometheus.NewRegistry()
	factory := &PrometheusFactory{Registerer: reg}

	c, err := factory.NewCollector(metrics.WithServiceName("webapi"))
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	c.CollectRequestMetrics("GET", "/health", 200, 0.01)
	c.CollectCheckMetrics("uptime", "Healthy", 0.01)
	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Zero(t, count)

	again, err := factory.NewCollector(metrics.WithServiceName("webapi"))
	require.NoError(t, err)
	assert.NoError(t, again.Close())
}

func TestCollector_Concurrent(t *testing.T) {
	c, _ := newCollector(t, metrics.WithServiceName("webapi"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.CollectRequestMetrics("GET", "/health", 200, 0.001)
				c.CollectCheckMetrics("garbage_collector_check", "Degraded", 0.001)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800.0, testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "/health", "200")))
}

func TestNewMetricsFactory_DefaultRegisterer(t *testing.T) {
	previous := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = prometheus.NewRegistry()
	t.Cleanup(func() { prometheus.DefaultRegisterer = previous })

	c, err := NewMetricsFactory().NewCollector(metrics.WithServiceName("webapi"))
	require.NoError(t, err)
	assert.Same(t, prometheus.DefaultRegisterer, c.(*prometheusCollector).reg)
	assert.NoError(t, c.Close())
}
