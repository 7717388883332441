package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
)

// APIKeyAuth guards endpoints behind a static service API key supplied
// in the X-API-Key header.
type APIKeyAuth struct {
	key string
}

// NewAPIKeyAuth creates API-key auth middleware for the given key.
func NewAPIKeyAuth(key string) *APIKeyAuth {
	return &APIKeyAuth{key: key}
}

// RequireKey rejects requests without a matching X-API-Key header.
func (a *APIKeyAuth) RequireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get("X-API-Key")

		// Constant-time compare; an unset service key denies everything
		// rather than waving everyone through.
		if a.key == "" || provided == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(a.key)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			if err := json.NewEncoder(w).Encode(map[string]string{
				"error":   "AuthRequired",
				"message": "A valid X-API-Key header is required",
			}); err != nil {
				log.Printf("Failed to encode auth error response: %v", err)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}
