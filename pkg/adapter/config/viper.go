// pkg/adapter/config/viper.go

// Package config implements the configuration store on spf13/viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	domainconfig "github.com/njweb/webapi/pkg/domain/config"
	"github.com/njweb/webapi/pkg/domain/health"
)

// Verify interface implementation
var (
	_ domainconfig.MaskedStore = (*ViperStore)(nil)
	_ domainconfig.Factory     = (*Factory)(nil)
	_ health.ConfigSource      = (*ViperStore)(nil)
)

// ViperStore is a domainconfig.Store backed by a private viper instance.
// It is safe for concurrent use.
type ViperStore struct {
	v        *viper.Viper
	mu       sync.RWMutex
	file     string
	optional bool
}

// Factory creates Viper-backed stores
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// NewStore implements domainconfig.Factory. The returned store also
// implements domainconfig.MaskedStore.
func (f *Factory) NewStore(opts ...domainconfig.Option) (domainconfig.Store, error) {
	return f.NewViperStore(opts...)
}

// NewViperStore builds a store from opts. Environment variables are named
// by domainconfig.EnvKey, e.g. WEBAPI_HEALTH_TIMEOUT for health.timeout.
func (f *Factory) NewViperStore(opts ...domainconfig.Option) (*ViperStore, error) {
	var o domainconfig.StoreOptions
	for _, opt := range opts {
		if err := opt.ApplyOption(&o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType(o.ResolvedType())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if o.EnvPrefix != "" {
		v.SetEnvPrefix(o.EnvPrefix)
		v.AutomaticEnv()
	}
	for key, value := range o.Defaults {
		v.SetDefault(key, value)
	}

	store := &ViperStore{v: v, file: o.ConfigFile, optional: o.Optional}
	if o.ConfigFile != "" {
		v.SetConfigFile(o.ConfigFile)
		if err := store.ReadConfig(); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// ReadConfig loads the config file. A missing optional file is not an
// error.
func (s *ViperStore) ReadConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == "" {
		return nil
	}
	err := s.v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if s.optional && (errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)) {
		return nil
	}
	return fmt.Errorf("reading config %s: %w", s.file, err)
}

// lookup reads key with get under the read lock.
func lookup[T any](s *ViperStore, key string, get func(string) T) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.v.IsSet(key) {
		var zero T
		return zero, false
	}
	return get(key), true
}

func (s *ViperStore) GetString(key string) (string, bool) {
	return lookup(s, key, s.v.GetString)
}

func (s *ViperStore) GetInt(key string) (int, bool) {
	return lookup(s, key, s.v.GetInt)
}

func (s *ViperStore) GetBool(key string) (bool, bool) {
	return lookup(s, key, s.v.GetBool)
}

func (s *ViperStore) GetDuration(key string) (time.Duration, bool) {
	return lookup(s, key, s.v.GetDuration)
}

func (s *ViperStore) GetFloat64(key string) (float64, bool) {
	return lookup(s, key, s.v.GetFloat64)
}

func (s *ViperStore) GetStringSlice(key string) ([]string, bool) {
	return lookup(s, key, s.v.GetStringSlice)
}

func (s *ViperStore) IsSet(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.v.IsSet(key)
}

func (s *ViperStore) Set(key string, value interface{}) error {
	if key == "" {
		return errors.New("config key must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(key, value)
	return nil
}

func (s *ViperStore) UnmarshalKey(key string, target interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.v.UnmarshalKey(key, target); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (s *ViperStore) Unmarshal(target interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.v.Unmarshal(target); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}
