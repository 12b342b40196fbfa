package logging

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"syscall"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	domainlog "github.com/njweb/webapi/pkg/domain/logging"
)

var (
	_ domainlog.LeveledLogger       = (*ZapLogger)(nil)
	_ domainlog.RuntimeConfigurable = (*ZapLogger)(nil)
)

// ZapLogger implements the domain LeveledLogger on top of zap. Derived
// loggers share the atomic level of their parent.
type ZapLogger struct {
	logger *zap.Logger
	level  *zap.AtomicLevel
}

func (l *ZapLogger) Debug(msg string) { l.logger.Debug(msg) }
func (l *ZapLogger) Info(msg string)  { l.logger.Info(msg) }
func (l *ZapLogger) Warn(msg string)  { l.logger.Warn(msg) }
func (l *ZapLogger) Error(msg string) { l.logger.Error(msg) }

func (l *ZapLogger) DebugWith(msg string, fields domainlog.Fields) {
	l.logger.Debug(msg, toZapFields(fields)...)
}

func (l *ZapLogger) InfoWith(msg string, fields domainlog.Fields) {
	l.logger.Info(msg, toZapFields(fields)...)
}

func (l *ZapLogger) WarnWith(msg string, fields domainlog.Fields) {
	l.logger.Warn(msg, toZapFields(fields)...)
}

func (l *ZapLogger) ErrorWith(msg string, fields domainlog.Fields) {
	l.logger.Error(msg, toZapFields(fields)...)
}

func (l *ZapLogger) With(fields domainlog.Fields) domainlog.Logger {
	if len(fields) == 0 {
		return l
	}
	return l.derive(toZapFields(fields)...)
}

// WithContext tags entries with the trace_id and span_id of the span in
// ctx. Sampled spans also get sampled=true.
func (l *ZapLogger) WithContext(ctx context.Context) domainlog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return l
	}

	fields := []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
	if sc.IsSampled() {
		fields = append(fields, zap.Bool("sampled", true))
	}
	return l.derive(fields...)
}

func (l *ZapLogger) derive(fields ...zap.Field) *ZapLogger {
	return &ZapLogger{logger: l.logger.With(fields...), level: l.level}
}

func (l *ZapLogger) SetLevel(level domainlog.Level) {
	l.level.SetLevel(toZapLevel(level))
}

func (l *ZapLogger) GetLevel() domainlog.Level {
	return fromZapLevel(l.level.Level())
}

// GetConfigHandler exposes the atomic level over HTTP: GET reports the
// current level, PUT {"level":"debug"} changes it.
func (l *ZapLogger) GetConfigHandler() http.Handler {
	return l.level
}

// Sync flushes buffered entries. Sinks that cannot be synced, such as a
// terminal or pipe on stdout, are not treated as failures.
func (l *ZapLogger) Sync() error {
	err := l.logger.Sync()
	if err == nil || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return fmt.Errorf("syncing logger: %w", err)
}

func toZapLevel(level domainlog.Level) zapcore.Level {
	switch level {
	case domainlog.DebugLevel:
		return zapcore.DebugLevel
	case domainlog.WarnLevel:
		return zapcore.WarnLevel
	case domainlog.ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func fromZapLevel(level zapcore.Level) domainlog.Level {
	switch {
	case level <= zapcore.DebugLevel:
		return domainlog.DebugLevel
	case level == zapcore.InfoLevel:
		return domainlog.InfoLevel
	case level == zapcore.WarnLevel:
		return domainlog.WarnLevel
	default:
		return domainlog.ErrorLevel
	}
}

// toZapFields converts fields in key order. Error values are encoded with
// zap.NamedError so they render as their message.
func toZapFields(fields domainlog.Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		if err, ok := fields[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
