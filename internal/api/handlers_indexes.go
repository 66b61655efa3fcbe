package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/vaultindex/vaultindex/internal/httputil"
	"github.com/vaultindex/vaultindex/internal/models"
)

type createIndexRequest struct {
	Name  string          `json:"name"`
	Kind  models.IndexKind `json:"kind"`
	Roots []string        `json:"roots"`
}

func (s *Server) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	var req createIndexRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}
	exists, err := s.indexes.NameExists(req.Name, nil)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to check name")
		return
	}
	if exists {
		httputil.WriteError(w, http.StatusConflict, "name_conflict", "an index with that name already exists")
		return
	}

	idx := &models.Index{
		Name:       req.Name,
		Kind:       req.Kind,
		Roots:      req.Roots,
		ScanStatus: models.ScanStatusIdle,
		Metadata:   json.RawMessage(`{}`),
	}
	if err := s.indexes.Add(idx); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to create index")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, idx)
}

func (s *Server) handleListIndexes(w http.ResponseWriter, r *http.Request) {
	if kind := r.URL.Query().Get("kind"); kind != "" {
		list, err := s.indexes.ListByKind(models.IndexKind(kind))
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to list indexes")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, list)
		return
	}
	list, err := s.indexes.List()
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to list indexes")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetIndex(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	idx, err := s.indexes.Get(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "index not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, idx)
}

// updateIndexRequest's ScanIntervalSeconds is applied via UpdateScanInterval
// only when non-nil: send a number to set the interval, omit the field to
// leave it untouched. A plain struct decode can't tell "omitted" from
// "explicit null", so there's no way to clear an interval back to unset
// through this endpoint; sending 0 stores a zero-second interval.
type updateIndexRequest struct {
	Name                *string          `json:"name"`
	Metadata            *json.RawMessage `json:"metadata"`
	ScanIntervalSeconds *int             `json:"scan_interval_seconds"`
}

func (s *Server) handleUpdateIndex(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	idx, err := s.indexes.Get(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "index not found")
		return
	}

	var req updateIndexRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.Name != nil {
		exists, err := s.indexes.NameExists(*req.Name, &id)
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to check name")
			return
		}
		if exists {
			httputil.WriteError(w, http.StatusConflict, "name_conflict", "an index with that name already exists")
			return
		}
		idx.Name = *req.Name
	}
	if req.Metadata != nil {
		idx.Metadata = *req.Metadata
	}
	if err := s.indexes.Update(idx); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to update index")
		return
	}
	if req.ScanIntervalSeconds != nil {
		if err := s.indexes.UpdateScanInterval(id, req.ScanIntervalSeconds); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to update scan interval")
			return
		}
	}
	idx, _ = s.indexes.Get(id)
	httputil.WriteJSON(w, http.StatusOK, idx)
}

func (s *Server) handleDeleteIndex(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.indexes.Delete(id); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to delete index")
		return
	}
	s.icons.Remove(id)
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// handleEnqueueScan is the enqueue_scan operation (spec.md §4): flip the
// index to queued unless it's already scanning, then enqueue a scan:wake
// task on the job queue. The scanner picks the index up on its next poll.
func (s *Server) handleEnqueueScan(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.indexes.EnqueueScan(id); err != nil {
		httputil.WriteError(w, http.StatusConflict, "scan_conflict", err.Error())
		return
	}
	if s.jobQueue != nil {
		if err := s.jobQueue.EnqueueScanWake(id.String()); err != nil {
			// The scan is already durably queued in Postgres, so a Redis
			// hiccup here is logged and not fatal to the request.
			log.Printf("api: scan wake for index %s: %v", id, err)
		}
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"scan_status": string(models.ScanStatusQueued)})
}

func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	idx, err := s.indexes.Get(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "index not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"scan_status":     idx.ScanStatus,
		"last_scanned_at": idx.LastScannedAt,
	})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	list, err := s.items.ListByIndex(id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", "failed to list items")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// pathID parses the {id} path value as a uuid, writing a 400 response and
// returning ok=false if it's missing or malformed.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
