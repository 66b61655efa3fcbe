package api

import (
	"net/http"
	"time"

	"github.com/vaultindex/vaultindex/internal/auth"
	"github.com/vaultindex/vaultindex/internal/httputil"
)

const tokenTTL = 24 * time.Hour

type tokenRequest struct {
	Secret string `json:"secret"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIssueToken is the minimal "authentication and token issuance"
// contract spec.md §6 names: exchange the configured admin secret for a
// JWT, without resurrecting the teacher's full user/session subsystem
// (SPEC_FULL.md §12).
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if s.config.AdminSecretHash == "" || !auth.CheckPassword(s.config.AdminSecretHash, req.Secret) {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid admin secret")
		return
	}
	token, err := auth.IssueJWT(s.config.JWTSecret, tokenTTL)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresIn: int(tokenTTL.Seconds())})
}
