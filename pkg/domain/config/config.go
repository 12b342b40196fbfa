// pkg/domain/config/config.go

// Package config defines the configuration store used by the service and
// the options for building one.
//
// Keys are dot separated paths such as "server.http.port". Values resolve
// in order: explicit Set, environment, config file, defaults.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/njweb/webapi/pkg/domain/options"
)

//go:generate mockgen -destination=mocks/mock_config.go -package=mocks github.com/njweb/webapi/pkg/domain/config Store,Factory

// Reader is the read side of a store. Getters return the zero value and
// false when the key is not set.
type Reader interface {
	GetString(key string) (string, bool)
	GetInt(key string) (int, bool)
	GetBool(key string) (bool, bool)
	GetDuration(key string) (time.Duration, bool)
	GetFloat64(key string) (float64, bool)
	GetStringSlice(key string) ([]string, bool)
	IsSet(key string) bool
}

// Store is a Reader that can also be written, reloaded and decoded into
// structs.
type Store interface {
	Reader

	Set(key string, value interface{}) error

	// ReadConfig reloads the config file.
	ReadConfig() error

	UnmarshalKey(key string, target interface{}) error
	Unmarshal(target interface{}) error
}

// Supported config file formats.
const (
	TypeYAML = "yaml"
	TypeJSON = "json"
	TypeTOML = "toml"
)

// StoreOptions holds configuration for stores
type StoreOptions struct {
	ConfigFile string
	// ConfigType overrides the format inferred from the file extension.
	ConfigType string
	// Optional tolerates a missing ConfigFile.
	Optional  bool
	EnvPrefix string
	Defaults  map[string]interface{}
}

// Option is a store option
type Option = options.Option[StoreOptions]

// WithConfigFile sets a config file that must exist.
func WithConfigFile(path string) Option {
	return options.OptionFunc[StoreOptions](func(o *StoreOptions) error {
		o.ConfigFile = path
		o.Optional = false
		return nil
	})
}

// WithOptionalConfigFile sets a config file that is read when present.
func WithOptionalConfigFile(path string) Option {
	return options.OptionFunc[StoreOptions](func(o *StoreOptions) error {
		o.ConfigFile = path
		o.Optional = true
		return nil
	})
}

// WithConfigType forces the config file format.
func WithConfigType(configType string) Option {
	return options.OptionFunc[StoreOptions](func(o *StoreOptions) error {
		t := strings.ToLower(configType)
		if t == "yml" {
			t = TypeYAML
		}
		switch t {
		case TypeYAML, TypeJSON, TypeTOML:
			o.ConfigType = t
			return nil
		default:
			return fmt.Errorf("unsupported config type %q", configType)
		}
	})
}

// WithEnvPrefix sets the environment variable prefix
func WithEnvPrefix(prefix string) Option {
	return options.OptionFunc[StoreOptions](func(o *StoreOptions) error {
		o.EnvPrefix = prefix
		return nil
	})
}

// WithDefaults adds default values. Repeated use merges, later values win.
func WithDefaults(defaults map[string]interface{}) Option {
	return options.OptionFunc[StoreOptions](func(o *StoreOptions) error {
		if len(defaults) == 0 {
			return nil
		}
		if o.Defaults == nil {
			o.Defaults = make(map[string]interface{}, len(defaults))
		}
		for k, v := range defaults {
			o.Defaults[k] = v
		}
		return nil
	})
}

// ResolvedType returns ConfigType, falling back to the file extension and
// then YAML.
func (o StoreOptions) ResolvedType() string {
	if o.ConfigType != "" {
		return o.ConfigType
	}
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(o.ConfigFile)), "."); ext {
	case TypeJSON, TypeTOML:
		return ext
	default:
		return TypeYAML
	}
}

// EnvKey returns the environment variable consulted for key, e.g.
// EnvKey("WEBAPI", "health.timeout") is "WEBAPI_HEALTH_TIMEOUT".
func EnvKey(prefix, key string) string {
	name := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if prefix == "" {
		return name
	}
	return strings.ToUpper(prefix) + "_" + name
}

// Factory creates new store instances
type Factory interface {
	NewStore(opts ...Option) (Store, error)
}
