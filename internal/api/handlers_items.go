package api

import (
	"net/http"

	"github.com/vaultindex/vaultindex/internal/httputil"
)

func (s *Server) handleListChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	list, err := s.items.ListChildren(id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to list children")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	list, err := s.versions.ListByItem(id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to list versions")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleListParts(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	list, err := s.parts.ListByVersion(id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to list parts")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}
