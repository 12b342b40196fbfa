// pkg/usecase/bootstrap/types.go

package bootstrap

import (
	"crypto/tls"
	"net/http"
	"time"

	domainconfig "github.com/njweb/webapi/pkg/domain/config"
	domainhealth "github.com/njweb/webapi/pkg/domain/health"
	domainhttp "github.com/njweb/webapi/pkg/domain/http"
	domainlog "github.com/njweb/webapi/pkg/domain/logging"
	domainmetrics "github.com/njweb/webapi/pkg/domain/metrics"
	domaintracing "github.com/njweb/webapi/pkg/domain/tracing"
)

// Configuration keys read by the service.
const (
	KeyHTTPPort          = "server.http.port"
	KeyReadTimeout       = "server.http.read_timeout"
	KeyWriteTimeout      = "server.http.write_timeout"
	KeyRequestTimeout    = "server.http.request_timeout"
	KeyHTTPSRedirect     = "server.https_redirect"
	KeyHTTPSPort         = "server.https_port"
	KeyLogLevel          = "logging.level"
	KeyHealthTimeout     = "health.timeout"
	KeyHealthConcurrency = "health.max_concurrency"
	KeyTracingExporter   = "tracing.exporter"
	KeyTracingEndpoint   = "tracing.endpoint"
	KeyTracingSampleRate = "tracing.sample_rate"
	KeyTracingPropagate  = "tracing.propagators"
)

// Dependencies contains all external dependencies required by the service.
// MetricsFactory, TracerFactory and HealthFactory are optional.
type Dependencies struct {
	ConfigFactory  domainconfig.Factory
	LoggerFactory  domainlog.Factory
	RouterFactory  domainhttp.Factory
	TracerFactory  domaintracing.Factory
	MetricsFactory domainmetrics.Factory
	HealthFactory  domainhealth.Factory
}

type ServerOptions struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// TLS is enabled when both TLSCertFile and TLSKeyFile are set
	TLSConfig     *tls.Config
	TLSCertFile   string
	TLSKeyFile    string
	MaxHeaderSize int
	IdleTimeout   time.Duration

	// Server customization
	PreStart func(*http.Server) error
}

// Options configures the bootstrap service.
type Options struct {
	// Service Identity
	ServiceName string
	Version     string

	// Configuration
	ConfigFile         string
	ConfigOptional     bool // Start without ConfigFile when it does not exist
	EnvPrefix          string
	ConfigDefaults     map[string]interface{}
	EnableConfigViewer bool // Whether to mount the masked config endpoint

	// Logging
	LogLevel        domainlog.Level
	LogFields       domainlog.Fields
	EnableLogConfig bool // Whether to mount runtime log config endpoint

	// HTTP Server
	Server ServerOptions

	// HTTPS redirection of plain-HTTP requests. Also enabled by
	// server.https_redirect in configuration.
	HTTPSRedirect bool
	HTTPSPort     int

	// Router/Observability
	RequestTimeout     time.Duration // Per-request deadline, 30s when zero
	ExcludeFromLogging []string
	ExcludeFromTracing []string
	ProbeEndpoints     []domainhttp.ProbeEndpoint

	// Health checks registered at startup, e.g. from HealthFactory.AddGCCheck
	HealthChecks         []domainhealth.Option
	HealthTimeout        time.Duration
	HealthMaxConcurrency int // Probes evaluated at once, unbounded when zero

	// Tracing is enabled when an exporter or endpoint is set
	TracingExporter    domaintracing.ExporterType
	TracingEndpoint    string
	TracingInsecure    bool
	TracingSampleRate  float64
	TracingPropagators []string
}
