package api

import (
	"io"
	"net/http"

	"github.com/vaultindex/vaultindex/internal/httputil"
	"github.com/vaultindex/vaultindex/internal/icons"
)

const maxIconBytes = 5 << 20 // 5 MiB

func (s *Server) handleUploadIcon(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	idx, err := s.indexes.Get(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "index not found")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxIconBytes+1))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "failed to read icon body")
		return
	}
	if len(data) > maxIconBytes {
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, "icon_too_large", "icon exceeds 5MiB")
		return
	}

	ext, err := s.icons.Save(id, data)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to save icon")
		return
	}
	idx.IconExt = &ext
	if err := s.indexes.Update(idx); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to persist icon extension")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"icon_ext": ext})
}

func (s *Server) handleServeIcon(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	idx, err := s.indexes.Get(id)
	if err != nil || idx.IconExt == nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "no icon set for this index")
		return
	}
	data, err := s.icons.Load(id, *idx.IconExt)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "icon file missing")
		return
	}
	w.Header().Set("Content-Type", icons.ContentType(*idx.IconExt))
	w.Header().Set("Cache-Control", "public, max-age=31536000")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
