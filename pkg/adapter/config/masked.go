// pkg/adapter/config/masked.go

package config

import (
	"encoding/json"
	"net/http"

	domainconfig "github.com/njweb/webapi/pkg/domain/config"
)

// GetConfigHandler serves the masked settings as indented JSON on GET.
func (s *ViperStore) GetConfigHandler(strategy domainconfig.MaskStrategy) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		settings, err := s.GetMaskedConfig(strategy)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		body, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(append(body, '\n'))
	})
}

// GetMaskedConfig returns every setting with strategy applied to the
// leaves. A nil strategy masks domainconfig.DefaultSensitiveKeys.
func (s *ViperStore) GetMaskedConfig(strategy domainconfig.MaskStrategy) (map[string]interface{}, error) {
	if strategy == nil {
		strategy = domainconfig.NewKeyMaskStrategy()
	}

	s.mu.RLock()
	settings := s.v.AllSettings()
	s.mu.RUnlock()

	return maskTree("", settings, strategy), nil
}

func maskTree(prefix string, tree map[string]interface{}, strategy domainconfig.MaskStrategy) map[string]interface{} {
	out := make(map[string]interface{}, len(tree))
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		if nested, ok := v.(map[string]interface{}); ok {
			out[k] = maskTree(key, nested, strategy)
			continue
		}
		out[k] = strategy.MaskValue(key, v)
	}
	return out
}
