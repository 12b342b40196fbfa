// Package logging provides a zap-backed implementation of the logging domain interfaces.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	domainlog "github.com/njweb/webapi/pkg/domain/logging"
	"github.com/njweb/webapi/pkg/domain/options"
)

var _ domainlog.Factory = (*Factory)(nil)

// ZapOptions are the zap specific settings layered over the domain options.
type ZapOptions struct {
	domainlog.LoggerOptions
	// Development switches to the console encoder with stack traces on
	// warnings and above.
	Development bool
	// OutputPaths overrides the default "stdout" sink.
	OutputPaths []string
}

type ZapOption = options.Option[ZapOptions]

// WithOutputPaths sets the zap sinks, e.g. "stderr" or a file path.
func WithOutputPaths(paths ...string) ZapOption {
	return options.OptionFunc[ZapOptions](func(o *ZapOptions) error {
		if len(paths) == 0 {
			return fmt.Errorf("at least one output path is required")
		}
		o.OutputPaths = append([]string(nil), paths...)
		return nil
	})
}

// WithDevelopment enables development mode
func WithDevelopment(enabled bool) ZapOption {
	return options.OptionFunc[ZapOptions](func(o *ZapOptions) error {
		o.Development = enabled
		return nil
	})
}

// Factory builds ZapLoggers. Zap options given to NewFactory apply to every
// logger it creates.
type Factory struct {
	zopts []ZapOption
}

func NewFactory(opts ...ZapOption) *Factory {
	return &Factory{zopts: opts}
}

func (f *Factory) NewLogger(opts ...domainlog.Option) (domainlog.LeveledLogger, error) {
	logger, err := f.NewLoggerWithOptions(opts, nil)
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// NewLoggerWithOptions creates a logger from domain options plus zap options
// applied after the factory's own.
func (f *Factory) NewLoggerWithOptions(dopts []domainlog.Option, zopts []ZapOption) (*ZapLogger, error) {
	cfg := ZapOptions{LoggerOptions: domainlog.DefaultOptions()}

	if err := options.Apply(&cfg.LoggerOptions, dopts...); err != nil {
		return nil, fmt.Errorf("applying domain options: %w", err)
	}
	if err := options.Apply(&cfg, append(append([]ZapOption(nil), f.zopts...), zopts...)...); err != nil {
		return nil, fmt.Errorf("applying zap options: %w", err)
	}

	return build(cfg)
}

func build(cfg ZapOptions) (*ZapLogger, error) {
	level := zap.NewAtomicLevelAt(toZapLevel(cfg.Level))

	zcfg := zap.Config{
		Level:             level,
		Development:       cfg.Development,
		DisableStacktrace: !cfg.Development,
		Encoding:          "json",
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	if cfg.Development {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if len(cfg.OutputPaths) > 0 {
		zcfg.OutputPaths = cfg.OutputPaths
	}

	base, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("building zap logger: %w", err)
	}

	initial := cfg.Fields
	if cfg.ServiceName != "" {
		initial = initial.Merge(domainlog.Fields{"service": cfg.ServiceName})
	}
	if len(initial) > 0 {
		base = base.With(toZapFields(initial)...)
	}

	return &ZapLogger{logger: base, level: &level}, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
