package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	domainlog "github.com/njweb/webapi/pkg/domain/logging"
)

const defaultServerTimeout = 15 * time.Second

// ServerConfig is the listener configuration resolved at Start.
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ServerHooks replace the http.Server calls, for tests.
type ServerHooks struct {
	ListenAndServe func() error
	Shutdown       func(context.Context) error
}

// closer is implemented by routers holding resources.
type closer interface {
	Close(ctx context.Context) error
}

// LoadServerConfig reads the listener settings. The port must be present in
// configuration; timeouts fall back to Options.Server.
func (s *Service) LoadServerConfig() (ServerConfig, error) {
	port, ok := s.config.GetInt(KeyHTTPPort)
	if !ok {
		return ServerConfig{}, fmt.Errorf("server port not configured")
	}

	cfg := ServerConfig{
		Port:         port,
		ReadTimeout:  s.opts.Server.ReadTimeout,
		WriteTimeout: s.opts.Server.WriteTimeout,
	}
	if v, ok := s.config.GetDuration(KeyReadTimeout); ok {
		cfg.ReadTimeout = v
	}
	if v, ok := s.config.GetDuration(KeyWriteTimeout); ok {
		cfg.WriteTimeout = v
	}
	return cfg, nil
}

func (s *Service) newServer(cfg ServerConfig) *http.Server {
	return &http.Server{
		Addr:           ":" + strconv.Itoa(cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    s.opts.Server.IdleTimeout,
		MaxHeaderBytes: s.opts.Server.MaxHeaderSize,
		TLSConfig:      s.opts.Server.TLSConfig,
	}
}

func (s *Service) tlsEnabled() bool {
	return s.opts.Server.TLSCertFile != "" && s.opts.Server.TLSKeyFile != ""
}

func (s *Service) serveFunc() func() error {
	switch {
	case s.hooks != nil && s.hooks.ListenAndServe != nil:
		return s.hooks.ListenAndServe
	case s.tlsEnabled():
		return func() error {
			return s.server.ListenAndServeTLS(s.opts.Server.TLSCertFile, s.opts.Server.TLSKeyFile)
		}
	default:
		return s.server.ListenAndServe
	}
}

// Start serves HTTP, or HTTPS when a certificate and key are configured.
// It blocks until the server stops and returns nil after Shutdown.
func (s *Service) Start() error {
	cfg, err := s.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("loading server config: %w", err)
	}

	s.server = s.newServer(cfg)
	if hook := s.opts.Server.PreStart; hook != nil {
		if err := hook(s.server); err != nil {
			return fmt.Errorf("pre-start hook: %w", err)
		}
	}

	s.logger.InfoWith("Starting server", domainlog.Fields{
		"address": s.server.Addr,
		"tls":     s.tlsEnabled(),
	})

	if err := s.serveFunc()(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains the server within Options.Server.ShutdownTimeout, then
// releases the router, metrics and tracer and flushes the logger. Every
// step runs even when an earlier one fails.
func (s *Service) Shutdown(ctx context.Context) error {
	s.logger.Info("Starting graceful shutdown")

	ctx, cancel := context.WithTimeout(ctx, s.opts.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if shutdown := s.shutdownFunc(); shutdown != nil {
		if err := shutdown(ctx); err != nil {
			s.logger.ErrorWith("Shutdown error", domainlog.Fields{"error": err.Error()})
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
	}
	s.logger.Info("Server stopped")

	if err := s.release(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Service) shutdownFunc() func(context.Context) error {
	if s.hooks != nil && s.hooks.Shutdown != nil {
		return s.hooks.Shutdown
	}
	if s.server != nil {
		return s.server.Shutdown
	}
	return nil
}

// release frees the router, metrics collector and tracer, then flushes the
// logger last so every entry above reaches the sink.
func (s *Service) release(ctx context.Context) error {
	var errs []error

	if c, ok := s.router.(closer); ok {
		if err := c.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("router close: %w", err))
		}
	}
	if s.metrics != nil {
		if err := s.metrics.Close(); err != nil {
			errs = append(errs, fmt.Errorf("metrics close: %w", err))
		}
	}
	if s.tracer != nil {
		if err := s.tracer.Shutdown(ctx); err != nil {
			s.logger.ErrorWith("Tracer shutdown error", domainlog.Fields{"error": err.Error()})
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if s.logger != nil {
		if err := s.logger.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("logger sync: %w", err))
		}
	}
	return errors.Join(errs...)
}
