// pkg/adapter/config/viper_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainconfig "github.com/njweb/webapi/pkg/domain/config"
	"github.com/njweb/webapi/pkg/domain/health"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestViperStore_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		opts    []domainconfig.Option
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `
server:
  http:
    port: 9090
    read_timeout: 2s
  https_redirect: true
tracing:
  sample_rate: 0.25
  propagators: [tracecontext, baggage]
`,
		},
		{
			name: "json",
			file: "config.json",
			content: `{
  "server": {"http": {"port": 9090, "read_timeout": "2s"}, "https_redirect": true},
  "tracing": {"sample_rate": 0.25, "propagators": ["tracecontext", "baggage"]}
}`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `
[server]
https_redirect = true
[server.http]
port = 9090
read_timeout = "2s"
[tracing]
sample_rate = 0.25
propagators = ["tracecontext", "baggage"]
`,
		},
		{
			name:    "type forced over extension",
			file:    "settings.conf",
			content: `{"server": {"http": {"port": 9090, "read_timeout": "2s"}, "https_redirect": true}, "tracing": {"sample_rate": 0.25, "propagators": ["tracecontext", "baggage"]}}`,
			opts:    []domainconfig.Option{domainconfig.WithConfigType(domainconfig.TypeJSON)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			opts := append([]domainconfig.Option{domainconfig.WithConfigFile(path)}, tt.opts...)

			store, err := NewFactory().NewStore(opts...)
			require.NoError(t, err)

			port, ok := store.GetInt("server.http.port")
			assert.True(t, ok)
			assert.Equal(t, 9090, port)

			timeout, ok := store.GetDuration("server.http.read_timeout")
			assert.True(t, ok)
			assert.Equal(t, 2*time.Second, timeout)

			redirect, ok := store.GetBool("server.https_redirect")
			assert.True(t, ok)
			assert.True(t, redirect)

			rate, ok := store.GetFloat64("tracing.sample_rate")
			assert.True(t, ok)
			assert.InDelta(t, 0.25, rate, 1e-9)

			propagators, ok := store.GetStringSlice("tracing.propagators")
			assert.True(t, ok)
			assert.Equal(t, []string{"tracecontext", "baggage"}, propagators)

			_, ok = store.GetString("server.http.write_timeout")
			assert.False(t, ok)
		})
	}
}

func TestViperStore_Precedence(t *testing.T) {
	path := writeFile(t, "config.yaml", "logging:\n  level: warn\nserver:\n  http:\n    port: 9090\n")
	t.Setenv(domainconfig.EnvKey("WEBAPI", "server.http.port"), "7070")

	store, err := NewFactory().NewViperStore(
		domainconfig.WithConfigFile(path),
		domainconfig.WithEnvPrefix("WEBAPI"),
		domainconfig.WithDefaults(map[string]interface{}{
			"logging.level":    "info",
			"server.http.port": 8080,
			"health.timeout":   30 * time.Second,
		}),
	)
	require.NoError(t, err)

	level, _ := store.GetString("logging.level")
	assert.Equal(t, "warn", level, "file overrides default")

	port, _ := store.GetInt("server.http.port")
	assert.Equal(t, 7070, port, "env overrides file")

	timeout, ok := store.GetDuration("health.timeout")
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, timeout, "default used when unset elsewhere")

	require.NoError(t, store.Set("server.http.port", 6060))
	port, _ = store.GetInt("server.http.port")
	assert.Equal(t, 6060, port, "set overrides env")

	assert.Error(t, store.Set("", "x"))
}

func TestViperStore_ConfigFileErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	t.Run("required file missing", func(t *testing.T) {
		_, err := NewFactory().NewStore(domainconfig.WithConfigFile(missing))
		assert.ErrorContains(t, err, "missing.yaml")
	})

	t.Run("optional file missing", func(t *testing.T) {
		store, err := NewFactory().NewStore(
			domainconfig.WithOptionalConfigFile(missing),
			domainconfig.WithDefaults(map[string]interface{}{"server.http.port": 8080}),
		)
		require.NoError(t, err)
		port, ok := store.GetInt("server.http.port")
		assert.True(t, ok)
		assert.Equal(t, 8080, port)
	})

	t.Run("optional file malformed", func(t *testing.T) {
		path := writeFile(t, "config.yaml", "server: [unterminated\n")
		_, err := NewFactory().NewStore(domainconfig.WithOptionalConfigFile(path))
		assert.Error(t, err)
	})

	t.Run("invalid option", func(t *testing.T) {
		_, err := NewFactory().NewStore(domainconfig.WithConfigType("ini"))
		assert.ErrorContains(t, err, "applying option")
	})
}

func TestViperStore_Reload(t *testing.T) {
	path := writeFile(t, "config.yaml", "logging:\n  level: info\n")
	store, err := NewFactory().NewViperStore(domainconfig.WithConfigFile(path))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))
	require.NoError(t, store.ReadConfig())

	level, _ := store.GetString("logging.level")
	assert.Equal(t, "debug", level)
}

func TestStore_Unmarshal(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  http:
    port: 8080
    read_timeout: 15s
health:
  checks:
    garbage_collector_check:
      threshold_in_bytes: 1024
      failure_status: Degraded
`)
	store, err := NewFactory().NewStore(domainconfig.WithConfigFile(path))
	require.NoError(t, err)

	type checkConfig struct {
		ThresholdInBytes int64  `mapstructure:"threshold_in_bytes"`
		FailureStatus    string `mapstructure:"failure_status"`
	}
	var checks map[string]checkConfig
	require.NoError(t, store.UnmarshalKey("health.checks", &checks))
	assert.Equal(t, checkConfig{ThresholdInBytes: 1024, FailureStatus: "Degraded"}, checks["garbage_collector_check"])

	var all struct {
		Server struct {
			HTTP struct {
				Port        int           `mapstructure:"port"`
				ReadTimeout time.Duration `mapstructure:"read_timeout"`
			} `mapstructure:"http"`
		} `mapstructure:"server"`
	}
	require.NoError(t, store.Unmarshal(&all))
	assert.Equal(t, 8080, all.Server.HTTP.Port)
	assert.Equal(t, 15*time.Second, all.Server.HTTP.ReadTimeout)
}

func TestStore_HealthCheckOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", `
health:
  timeout: 5s
  checks:
    garbage_collector_check:
      threshold_in_bytes: 2048
`)
	t.Setenv("WEBAPI_HEALTH_CHECKS_GARBAGE_COLLECTOR_CHECK_FAILURE_STATUS", "Unhealthy")

	store, err := NewFactory().NewViperStore(
		domainconfig.WithConfigFile(path),
		domainconfig.WithEnvPrefix("WEBAPI"),
	)
	require.NoError(t, err)

	var source health.ConfigSource = store

	threshold, ok := source.GetInt(health.CheckKey("garbage_collector_check", "threshold_in_bytes"))
	assert.True(t, ok)
	assert.Equal(t, 2048, threshold)

	status, ok := source.GetString(health.CheckKey("garbage_collector_check", "failure_status"))
	assert.True(t, ok)
	assert.Equal(t, "Unhealthy", status)

	assert.False(t, source.IsSet(health.CheckKey("other_check", "threshold_in_bytes")))

	timeout, ok := store.GetDuration("health.timeout")
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, timeout)
}
