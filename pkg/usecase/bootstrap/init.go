// pkg/usecase/bootstrap/init.go

package bootstrap

import (
	"fmt"

	domainconfig "github.com/njweb/webapi/pkg/domain/config"
	domainhealth "github.com/njweb/webapi/pkg/domain/health"
	domainhttp "github.com/njweb/webapi/pkg/domain/http"
	domainlog "github.com/njweb/webapi/pkg/domain/logging"
	domainmetrics "github.com/njweb/webapi/pkg/domain/metrics"
	domaintracing "github.com/njweb/webapi/pkg/domain/tracing"
)

const (
	logConfigPath  = "/internal/logging"
	configViewPath = "/internal/config"
)

func (s *Service) initConfig(opts Options) error {
	defaults := map[string]interface{}{
		KeyHTTPPort:      opts.Server.Port,
		KeyReadTimeout:   opts.Server.ReadTimeout,
		KeyWriteTimeout:  opts.Server.WriteTimeout,
		KeyHTTPSRedirect: opts.HTTPSRedirect,
		KeyHTTPSPort:     opts.HTTPSPort,
		KeyLogLevel:      string(opts.LogLevel),
		KeyHealthTimeout: opts.HealthTimeout,
	}
	for k, v := range opts.ConfigDefaults {
		defaults[k] = v
	}

	cfgOpts := []domainconfig.Option{
		domainconfig.WithEnvPrefix(opts.EnvPrefix),
		domainconfig.WithDefaults(defaults),
	}
	switch {
	case opts.ConfigFile != "" && opts.ConfigOptional:
		cfgOpts = append(cfgOpts, domainconfig.WithOptionalConfigFile(opts.ConfigFile))
	case opts.ConfigFile != "":
		cfgOpts = append(cfgOpts, domainconfig.WithConfigFile(opts.ConfigFile))
	}

	store, err := s.deps.ConfigFactory.NewStore(cfgOpts...)
	if err != nil {
		return fmt.Errorf("creating config store: %w", err)
	}
	s.config = store
	return nil
}

func (s *Service) initLogger(opts Options) error {
	level := opts.LogLevel
	if raw, ok := s.config.GetString(KeyLogLevel); ok && raw != "" {
		parsed, err := domainlog.ParseLevel(raw)
		if err != nil {
			return fmt.Errorf("reading %s: %w", KeyLogLevel, err)
		}
		level = parsed
	}

	logger, err := s.deps.LoggerFactory.NewLogger(
		domainlog.WithLevel(level),
		domainlog.WithServiceName(opts.ServiceName),
		domainlog.WithFields(domainlog.Fields{"version": opts.Version}),
		domainlog.WithFields(opts.LogFields),
	)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	s.logger = logger
	return nil
}

func (s *Service) initTracing(opts Options) error {
	exporter := opts.TracingExporter
	if raw, ok := s.config.GetString(KeyTracingExporter); ok && raw != "" {
		parsed, err := domaintracing.ParseExporterType(raw)
		if err != nil {
			return fmt.Errorf("reading %s: %w", KeyTracingExporter, err)
		}
		exporter = parsed
	}
	endpoint := opts.TracingEndpoint
	if raw, ok := s.config.GetString(KeyTracingEndpoint); ok && raw != "" {
		endpoint = raw
	}
	rate := opts.TracingSampleRate
	if v, ok := s.config.GetFloat64(KeyTracingSampleRate); ok {
		rate = v
	}

	if exporter == "" && endpoint == "" {
		return nil
	}
	if exporter == "" {
		exporter = domaintracing.GRPCExporter
	}
	if s.deps.TracerFactory == nil {
		return fmt.Errorf("tracing is configured but no tracer factory was provided")
	}

	tracingOpts := []domaintracing.Option{
		domaintracing.WithServiceName(opts.ServiceName),
		domaintracing.WithServiceVersion(opts.Version),
		domaintracing.WithExporterType(exporter),
		domaintracing.WithSamplingRate(rate),
	}
	if endpoint != "" {
		tracingOpts = append(tracingOpts,
			domaintracing.WithCollectorEndpoint(endpoint),
			domaintracing.WithInsecure(opts.TracingInsecure),
		)
	}
	propagators := opts.TracingPropagators
	if raw, ok := s.config.GetString(KeyTracingPropagate); ok && raw != "" {
		parsed, err := domaintracing.ParsePropagators(raw)
		if err != nil {
			return fmt.Errorf("reading %s: %w", KeyTracingPropagate, err)
		}
		propagators = parsed
	}
	if len(propagators) > 0 {
		tracingOpts = append(tracingOpts, domaintracing.WithPropagatorTypes(propagators))
	} else {
		tracingOpts = append(tracingOpts, domaintracing.WithDefaultPropagators())
	}

	provider, err := s.deps.TracerFactory.NewProvider(tracingOpts...)
	if err != nil {
		return fmt.Errorf("creating tracer: %w", err)
	}
	s.tracer = provider
	return nil
}

func (s *Service) initMetrics(opts Options) error {
	if s.deps.MetricsFactory == nil {
		return nil
	}

	collector, err := s.deps.MetricsFactory.NewCollector(
		domainmetrics.WithServiceName(opts.ServiceName),
		domainmetrics.WithLabels(map[string]string{
			"version": opts.Version,
		}),
	)
	if err != nil {
		return fmt.Errorf("creating metrics collector: %w", err)
	}
	s.metrics = collector
	return nil
}

func (s *Service) initHealth(opts Options) error {
	if s.deps.HealthFactory == nil {
		if len(opts.HealthChecks) > 0 {
			return fmt.Errorf("health checks registered but no health factory was provided")
		}
		return nil
	}

	timeout := opts.HealthTimeout
	if v, ok := s.config.GetDuration(KeyHealthTimeout); ok && v > 0 {
		timeout = v
	}

	healthOpts := make([]domainhealth.Option, 0, len(opts.HealthChecks)+4)
	healthOpts = append(healthOpts, opts.HealthChecks...)
	healthOpts = append(healthOpts,
		domainhealth.WithLogger(s.logger.With(domainlog.Fields{"component": "health"})),
		domainhealth.WithConfig(s.config),
	)
	if timeout > 0 {
		healthOpts = append(healthOpts, domainhealth.WithTimeout(timeout))
	}
	limit := opts.HealthMaxConcurrency
	if v, ok := s.config.GetInt(KeyHealthConcurrency); ok && v > 0 {
		limit = v
	}
	if limit > 0 {
		healthOpts = append(healthOpts, domainhealth.WithMaxConcurrency(limit))
	}
	if s.metrics != nil {
		healthOpts = append(healthOpts, domainhealth.WithMetrics(s.metrics))
	}

	checker, err := s.deps.HealthFactory.NewChecker(healthOpts...)
	if err != nil {
		return fmt.Errorf("creating health checker: %w", err)
	}
	s.health = checker

	s.logger.InfoWith("Registered health checks", domainlog.Fields{
		"checks": checker.Names(),
	})
	return nil
}

func (s *Service) initRouter(opts Options) error {
	routerOpts := []domainhttp.Option{
		domainhttp.WithService(opts.ServiceName, opts.Version),
		domainhttp.WithLogger(s.logger),
		domainhttp.WithObservabilityExclusions(
			append([]string{"/internal/*", "/metrics"}, opts.ExcludeFromLogging...),
			append([]string{"/internal/*", "/metrics"}, opts.ExcludeFromTracing...),
		),
	}

	timeout := opts.RequestTimeout
	if v, ok := s.config.GetDuration(KeyRequestTimeout); ok && v > 0 {
		timeout = v
	}
	if timeout > 0 {
		routerOpts = append(routerOpts, domainhttp.WithRequestTimeout(timeout))
	}

	if s.health != nil {
		routerOpts = append(routerOpts, domainhttp.WithHealthChecker(s.health))
	}
	if len(opts.ProbeEndpoints) > 0 {
		routerOpts = append(routerOpts, domainhttp.WithProbeEndpoints(opts.ProbeEndpoints...))
	}

	// Share the service collector so request and health metrics land together
	if s.metrics != nil {
		routerOpts = append(routerOpts, domainhttp.WithMetricsCollector(s.metrics))
	}

	if s.tracer != nil {
		routerOpts = append(routerOpts, domainhttp.WithTracingProvider(s.tracer))
	}

	if redirect, ok := s.config.GetBool(KeyHTTPSRedirect); (ok && redirect) || opts.HTTPSRedirect {
		port := opts.HTTPSPort
		if v, ok := s.config.GetInt(KeyHTTPSPort); ok {
			port = v
		}
		routerOpts = append(routerOpts, domainhttp.WithHTTPSRedirect(port))
	}

	router, err := s.deps.RouterFactory.NewRouter(routerOpts...)
	if err != nil {
		return fmt.Errorf("creating router: %w", err)
	}
	s.router = router

	// Add logger config endpoint if supported
	if configurable, ok := s.logger.(domainlog.RuntimeConfigurable); ok && opts.EnableLogConfig {
		router.Mount(logConfigPath, configurable.GetConfigHandler())
		s.logger.InfoWith("Registered logger config endpoint", domainlog.Fields{
			"path": logConfigPath,
		})
	}

	// Add masked config viewer if supported
	if masked, ok := s.config.(domainconfig.MaskedStore); ok && opts.EnableConfigViewer {
		router.Mount(configViewPath, masked.GetConfigHandler(nil))
		s.logger.InfoWith("Registered config viewer endpoint", domainlog.Fields{
			"path": configViewPath,
		})
	}

	return nil
}
