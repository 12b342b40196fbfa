// pkg/domain/logging/options.go

package logging

import (
	"github.com/njweb/webapi/pkg/domain/options"
)

// LoggerOptions holds configuration for logger implementations.
type LoggerOptions struct {
	Level       Level
	ServiceName string
	// Fields are added to every entry.
	Fields Fields
}

// Option is a function that modifies LoggerOptions
type Option = options.Option[LoggerOptions]

// DefaultOptions returns the default logger options
func DefaultOptions() LoggerOptions {
	return LoggerOptions{
		Level: InfoLevel,
	}
}

// WithLevel sets the minimum logging level. Unknown levels are rejected.
func WithLevel(level Level) Option {
	return options.OptionFunc[LoggerOptions](func(o *LoggerOptions) error {
		parsed, err := ParseLevel(string(level))
		if err != nil {
			return err
		}
		o.Level = parsed
		return nil
	})
}

// WithServiceName adds a "service" field to every entry.
func WithServiceName(name string) Option {
	return options.OptionFunc[LoggerOptions](func(o *LoggerOptions) error {
		o.ServiceName = name
		return nil
	})
}

// WithFields adds default fields. Repeated use merges, later values win.
func WithFields(fields Fields) Option {
	return options.OptionFunc[LoggerOptions](func(o *LoggerOptions) error {
		if len(fields) > 0 {
			o.Fields = o.Fields.Merge(fields)
		}
		return nil
	})
}
