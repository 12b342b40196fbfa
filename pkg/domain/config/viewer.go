// pkg/domain/config/viewer.go

package config

import (
	"net/http"
	"strings"
)

// DefaultMask replaces masked values.
const DefaultMask = "******"

// DefaultSensitiveKeys are the key fragments masked when no strategy is
// given.
var DefaultSensitiveKeys = []string{"password", "secret", "key", "token", "credential"}

// MaskStrategy decides what a config viewer shows for a leaf value. key is
// the full dotted path, e.g. "database.password".
type MaskStrategy interface {
	MaskValue(key string, value interface{}) interface{}
}

// MaskFunc adapts a function to MaskStrategy.
type MaskFunc func(key string, value interface{}) interface{}

// MaskValue implements MaskStrategy.
func (f MaskFunc) MaskValue(key string, value interface{}) interface{} {
	return f(key, value)
}

// KeyMaskStrategy masks values whose last path segment contains one of
// Keys, ignoring case.
type KeyMaskStrategy struct {
	Keys []string
	// Mask defaults to DefaultMask.
	Mask string
}

// NewKeyMaskStrategy masks keys containing any of fragments. No fragments
// means DefaultSensitiveKeys.
func NewKeyMaskStrategy(fragments ...string) *KeyMaskStrategy {
	if len(fragments) == 0 {
		fragments = DefaultSensitiveKeys
	}
	keys := make([]string, len(fragments))
	copy(keys, fragments)
	return &KeyMaskStrategy{Keys: keys, Mask: DefaultMask}
}

// MaskValue implements MaskStrategy.
func (s *KeyMaskStrategy) MaskValue(key string, value interface{}) interface{} {
	if s.Sensitive(key) {
		if s.Mask == "" {
			return DefaultMask
		}
		return s.Mask
	}
	return value
}

// Sensitive reports whether key would be masked.
func (s *KeyMaskStrategy) Sensitive(key string) bool {
	leaf := strings.ToLower(key)
	if i := strings.LastIndexByte(leaf, '.'); i >= 0 {
		leaf = leaf[i+1:]
	}
	for _, fragment := range s.Keys {
		if fragment != "" && strings.Contains(leaf, strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}

// MaskedStore is a store that can expose its settings with sensitive values
// masked. A nil strategy uses NewKeyMaskStrategy().
type MaskedStore interface {
	Store
	GetConfigHandler(strategy MaskStrategy) http.Handler
	GetMaskedConfig(strategy MaskStrategy) (map[string]interface{}, error)
}
