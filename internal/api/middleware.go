package api

import (
	"net/http"
	"strings"

	"github.com/vaultindex/vaultindex/internal/auth"
	"github.com/vaultindex/vaultindex/internal/httputil"
)

// rateLimited wraps a handler with the server's per-client token bucket,
// applied to the index/scan-trigger endpoints (SPEC_FULL.md §11).
func (s *Server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.limiter.Middleware(next).ServeHTTP(w, r)
	}
}

// authMiddleware requires a valid bearer token issued by handleIssueToken.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		if _, err := auth.ValidateJWT(s.config.JWTSecret, token); err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
