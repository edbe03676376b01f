package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/speakspace/speakspace-api/internal/api/shared"
)

// APIKeyHeader is the request header carrying the client's API key.
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware guards intake routes with a static API key. Requests
// whose X-API-Key header does not match the configured key get 401.
type APIKeyMiddleware struct {
	apiKey string
}

// NewAPIKeyMiddleware creates an APIKeyMiddleware checking against the given
// key.
func NewAPIKeyMiddleware(apiKey string) *APIKeyMiddleware {
	return &APIKeyMiddleware{apiKey: apiKey}
}

// Authenticate validates the X-API-Key header before passing the request on.
func (m *APIKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get(APIKeyHeader)
		if provided == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "API key required")
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(m.apiKey)) != 1 {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
