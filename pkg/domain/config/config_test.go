// pkg/domain/config/config_test.go
package config

import (
	"reflect"
	"testing"
)

func apply(t *testing.T, opts ...Option) (StoreOptions, error) {
	t.Helper()
	var o StoreOptions
	for _, opt := range opts {
		if err := opt.ApplyOption(&o); err != nil {
			return o, err
		}
	}
	return o, nil
}

func TestConfigFileOptions(t *testing.T) {
	tests := []struct {
		name         string
		opts         []Option
		wantFile     string
		wantOptional bool
	}{
		{
			name:     "required file",
			opts:     []Option{WithConfigFile("/etc/webapi/config.yaml")},
			wantFile: "/etc/webapi/config.yaml",
		},
		{
			name:         "optional file",
			opts:         []Option{WithOptionalConfigFile("config.yaml")},
			wantFile:     "config.yaml",
			wantOptional: true,
		},
		{
			name:     "last file option wins",
			opts:     []Option{WithOptionalConfigFile("a.yaml"), WithConfigFile("b.yaml")},
			wantFile: "b.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := apply(t, tt.opts...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ConfigFile != tt.wantFile {
				t.Errorf("ConfigFile = %q, want %q", got.ConfigFile, tt.wantFile)
			}
			if got.Optional != tt.wantOptional {
				t.Errorf("Optional = %v, want %v", got.Optional, tt.wantOptional)
			}
		})
	}
}

func TestResolvedType(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want string
		err  bool
	}{
		{name: "no file", want: TypeYAML},
		{name: "yaml extension", opts: []Option{WithConfigFile("c.yml")}, want: TypeYAML},
		{name: "json extension", opts: []Option{WithConfigFile("c.JSON")}, want: TypeJSON},
		{name: "toml extension", opts: []Option{WithConfigFile("c.toml")}, want: TypeTOML},
		{name: "unknown extension", opts: []Option{WithConfigFile("c.conf")}, want: TypeYAML},
		{name: "explicit type wins", opts: []Option{WithConfigFile("c.conf"), WithConfigType("JSON")}, want: TypeJSON},
		{name: "yml alias", opts: []Option{WithConfigType("yml")}, want: TypeYAML},
		{name: "unsupported type", opts: []Option{WithConfigType("ini")}, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := apply(t, tt.opts...)
			if tt.err {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ResolvedType() != tt.want {
				t.Errorf("ResolvedType() = %q, want %q", got.ResolvedType(), tt.want)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	got, err := apply(t,
		WithDefaults(map[string]interface{}{"server.http.port": 8080, "logging.level": "info"}),
		WithDefaults(nil),
		WithDefaults(map[string]interface{}{"logging.level": "debug"}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]interface{}{"server.http.port": 8080, "logging.level": "debug"}
	if !reflect.DeepEqual(got.Defaults, want) {
		t.Errorf("Defaults = %v, want %v", got.Defaults, want)
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		prefix, key, want string
	}{
		{"WEBAPI", "health.timeout", "WEBAPI_HEALTH_TIMEOUT"},
		{"webapi", "health.checks.garbage_collector_check.failure_status", "WEBAPI_HEALTH_CHECKS_GARBAGE_COLLECTOR_CHECK_FAILURE_STATUS"},
		{"", "server.http.port", "SERVER_HTTP_PORT"},
	}

	for _, tt := range tests {
		if got := EnvKey(tt.prefix, tt.key); got != tt.want {
			t.Errorf("EnvKey(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
		}
	}
}

func TestKeyMaskStrategy(t *testing.T) {
	tests := []struct {
		name     string
		strategy MaskStrategy
		key      string
		value    interface{}
		want     interface{}
	}{
		{"default keys mask password", NewKeyMaskStrategy(), "database.password", "hunter2", DefaultMask},
		{"fragment match in leaf", NewKeyMaskStrategy(), "tracing.headers.api_key", "abc", DefaultMask},
		{"case insensitive", NewKeyMaskStrategy("token"), "auth.AccessToken", "abc", DefaultMask},
		{"parent segment ignored", NewKeyMaskStrategy(), "secrets.path", "/run/secrets", "/run/secrets"},
		{"non-sensitive value kept", NewKeyMaskStrategy(), "server.http.port", 8080, 8080},
		{"custom mask", &KeyMaskStrategy{Keys: []string{"password"}, Mask: "[redacted]"}, "db.password", "x", "[redacted]"},
		{"empty mask uses default", &KeyMaskStrategy{Keys: []string{"password"}}, "db.password", "x", DefaultMask},
		{
			name: "mask func",
			strategy: MaskFunc(func(key string, value interface{}) interface{} {
				return key
			}),
			key:   "anything",
			value: 1,
			want:  "anything",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.strategy.MaskValue(tt.key, tt.value); got != tt.want {
				t.Errorf("MaskValue(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestNewKeyMaskStrategy_CopiesFragments(t *testing.T) {
	fragments := []string{"password"}
	s := NewKeyMaskStrategy(fragments...)
	fragments[0] = "other"

	if !s.Sensitive("db.password") {
		t.Error("strategy changed after caller mutated its slice")
	}
}
