// pkg/usecase/bootstrap/service.go

// Package bootstrap wires configuration, logging, tracing, metrics, health
// checks and routing into a runnable HTTP service.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	domainconfig "github.com/njweb/webapi/pkg/domain/config"
	domainhealth "github.com/njweb/webapi/pkg/domain/health"
	domainhttp "github.com/njweb/webapi/pkg/domain/http"
	domainlog "github.com/njweb/webapi/pkg/domain/logging"
	domainmetrics "github.com/njweb/webapi/pkg/domain/metrics"
	domaintracing "github.com/njweb/webapi/pkg/domain/tracing"
)

// Service is a configured HTTP service. The logger, tracer and metrics
// collector it creates are owned by it and released by Shutdown.
type Service struct {
	opts  Options
	deps  Dependencies
	hooks *ServerHooks

	config  domainconfig.Store
	logger  domainlog.LeveledLogger
	tracer  domaintracing.Provider
	metrics domainmetrics.Collector
	health  domainhealth.Checker
	router  domainhttp.Router

	server    *http.Server
	startTime time.Time
}

// NewService initializes every component in dependency order.
// Misconfiguration, such as a duplicate health check name, fails here and
// releases whatever was already created.
func NewService(opts Options, deps Dependencies, hooks *ServerHooks) (*Service, error) {
	if err := validateOptions(&opts, deps); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	svc := &Service{
		opts:      opts,
		deps:      deps,
		hooks:     hooks,
		startTime: time.Now(),
	}

	if err := svc.initConfig(opts); err != nil {
		return nil, err
	}
	if err := svc.initLogger(opts); err != nil {
		return nil, err
	}

	for _, step := range []func(Options) error{
		svc.initTracing,
		svc.initMetrics,
		svc.initHealth,
		svc.initRouter,
	} {
		if err := step(opts); err != nil {
			_ = svc.release(context.Background())
			return nil, err
		}
	}
	return svc, nil
}

func (s *Service) Router() domainhttp.Router { return s.router }

func (s *Service) Config() domainconfig.Store { return s.config }

func (s *Service) Logger() domainlog.Logger { return s.logger }

// Health returns the service's health checker, or nil when no health
// factory was provided.
func (s *Service) Health() domainhealth.Checker {
	return s.health
}

// Uptime reports how long ago the service was created.
func (s *Service) Uptime() time.Duration {
	return time.Since(s.startTime)
}

// validateOptions rejects unusable options and fills in defaults.
func validateOptions(opts *Options, deps Dependencies) error {
	if opts.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}
	if deps.ConfigFactory == nil || deps.LoggerFactory == nil || deps.RouterFactory == nil {
		return fmt.Errorf("config, logger and router factories must be provided")
	}

	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.EnvPrefix == "" {
		opts.EnvPrefix = opts.ServiceName
	}
	if opts.LogLevel == "" {
		opts.LogLevel = domainlog.InfoLevel
	}
	for _, d := range []*time.Duration{&opts.Server.ShutdownTimeout, &opts.Server.ReadTimeout, &opts.Server.WriteTimeout} {
		if *d == 0 {
			*d = defaultServerTimeout
		}
	}
	if opts.Server.Port == 0 {
		opts.Server.Port = 8080
	}
	if opts.HealthTimeout == 0 {
		opts.HealthTimeout = domainhealth.DefaultTimeout
	}
	if opts.TracingSampleRate == 0 {
		opts.TracingSampleRate = 1.0
	}

	return nil
}
