package middleware

import (
	"net/http"
)

// AuthConfig holds API key authentication configuration.
type AuthConfig struct {
	apiKeys map[string]struct{}
	enabled bool
}

// NewAuthConfig creates an AuthConfig from a set of API keys. Empty keys are
// dropped; with no keys left, authentication is disabled.
func NewAuthConfig(apiKeys []string) AuthConfig {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return AuthConfig{enabled: false}
	}
	return AuthConfig{
		apiKeys: keys,
		enabled: true,
	}
}

// Enabled returns true if authentication is enabled.
func (c AuthConfig) Enabled() bool { return c.enabled }

// valid reports whether the key is one of the configured API keys.
func (c AuthConfig) valid(key string) bool {
	_, ok := c.apiKeys[key]
	return ok
}

// WriteProtectAuth returns a middleware that requires a valid X-API-KEY
// header on mutating methods (POST, PUT, PATCH, DELETE). Read-only methods
// pass through. With no keys configured, all requests pass through.
func WriteProtectAuth(apiKeys []string) func(http.Handler) http.Handler {
	config := NewAuthConfig(apiKeys)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.enabled {
				next.ServeHTTP(w, r)
				return
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-KEY")
			if apiKey == "" {
				WriteError(w, r, NewAuthenticationError("X-API-KEY header is required"), nil)
				return
			}
			if !config.valid(apiKey) {
				WriteError(w, r, NewAuthenticationError("invalid API key"), nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
