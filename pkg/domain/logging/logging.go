// pkg/domain/logging/logging.go

// Package logging defines the core logging interfaces and options
// for structured logging support across the application.
//
// A logger is created once at startup and owned by the service; it must be
// flushed with Sync during shutdown since sinks may buffer entries.
package logging

import (
	"context"
	"net/http"
)

//go:generate mockgen -destination=mocks/mock_logger.go -package=mocks github.com/njweb/webapi/pkg/domain/logging Logger,LeveledLogger,RuntimeConfigurable,Factory

// Logger is the structured logger handed to components.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	DebugWith(msg string, fields Fields)
	InfoWith(msg string, fields Fields)
	WarnWith(msg string, fields Fields)
	ErrorWith(msg string, fields Fields)

	// With returns a derived Logger that adds fields to every entry.
	With(fields Fields) Logger

	// WithContext returns a derived Logger carrying the trace and span of
	// the active span in ctx, or the receiver when there is none.
	WithContext(ctx context.Context) Logger
}

// LeveledLogger extends Logger with level management capabilities.
type LeveledLogger interface {
	Logger

	// Sync flushes any buffered log entries
	Sync() error

	// SetLevel changes the minimum logging level
	SetLevel(level Level)

	// GetLevel returns the current minimum logging level
	GetLevel() Level
}

// RuntimeConfigurable is a logger whose level can be read and changed
// over HTTP.
type RuntimeConfigurable interface {
	GetConfigHandler() http.Handler
}

// Factory creates new logger instances
type Factory interface {
	// NewLogger creates a new LeveledLogger with the given options
	NewLogger(opts ...Option) (LeveledLogger, error)
}
