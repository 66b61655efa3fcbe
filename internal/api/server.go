// Package api exposes the HTTP surface of SPEC_FULL.md §13 over the
// repository, scanner, jobs, and icons packages.
package api

import (
	"net/http"

	"github.com/vaultindex/vaultindex/internal/config"
	"github.com/vaultindex/vaultindex/internal/httputil"
	"github.com/vaultindex/vaultindex/internal/icons"
	"github.com/vaultindex/vaultindex/internal/jobs"
	"github.com/vaultindex/vaultindex/internal/models"
	"github.com/vaultindex/vaultindex/internal/repository"
	"github.com/vaultindex/vaultindex/internal/scanner"
	"github.com/google/uuid"
)

// Server wires every repository and background subsystem to its HTTP
// handlers, matching the teacher's single-struct Server shape.
type Server struct {
	config   *config.Config
	indexes  *repository.IndexRepository
	items    *repository.VideoItemRepository
	versions *repository.VideoVersionRepository
	parts    *repository.VideoPartRepository
	scanner  *scanner.Scanner
	jobQueue *jobs.Queue
	icons    *icons.Store
	wsHub    *WSHub
	limiter  *httputil.RateLimiter
	router   *http.ServeMux
}

func NewServer(cfg *config.Config, indexes *repository.IndexRepository, items *repository.VideoItemRepository,
	versions *repository.VideoVersionRepository, parts *repository.VideoPartRepository,
	sc *scanner.Scanner, jq *jobs.Queue) *Server {

	s := &Server{
		config:   cfg,
		indexes:  indexes,
		items:    items,
		versions: versions,
		parts:    parts,
		scanner:  sc,
		jobQueue: jq,
		icons:    icons.NewStore(cfg.IconsDir),
		wsHub:    NewWSHub(),
		limiter:  httputil.NewRateLimiter(cfg.RateLimitPerSec),
		router:   http.NewServeMux(),
	}
	if sc != nil {
		sc.OnStatusChange(func(id uuid.UUID, status models.ScanStatus) {
			s.wsHub.Broadcast(StatusEvent{IndexID: id.String(), ScanStatus: string(status)})
		})
	}
	s.setupRoutes()
	return s
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) WSHub() *WSHub {
	return s.wsHub
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /health", s.handleHealth)

	s.router.HandleFunc("POST /api/auth/token", s.rateLimited(s.handleIssueToken))

	s.router.HandleFunc("POST /api/indexes", s.authMiddleware(s.rateLimited(s.handleCreateIndex)))
	s.router.HandleFunc("GET /api/indexes", s.authMiddleware(s.handleListIndexes))
	s.router.HandleFunc("GET /api/indexes/{id}", s.authMiddleware(s.handleGetIndex))
	s.router.HandleFunc("PATCH /api/indexes/{id}", s.authMiddleware(s.handleUpdateIndex))
	s.router.HandleFunc("DELETE /api/indexes/{id}", s.authMiddleware(s.handleDeleteIndex))
	s.router.HandleFunc("POST /api/indexes/{id}/scan", s.authMiddleware(s.rateLimited(s.handleEnqueueScan)))
	s.router.HandleFunc("GET /api/indexes/{id}/status", s.authMiddleware(s.handleScanStatus))
	s.router.HandleFunc("GET /api/indexes/{id}/items", s.authMiddleware(s.handleListItems))
	s.router.HandleFunc("POST /api/indexes/{id}/icon", s.authMiddleware(s.handleUploadIcon))
	s.router.HandleFunc("GET /api/indexes/{id}/icon", s.handleServeIcon)

	s.router.HandleFunc("GET /api/items/{id}/children", s.authMiddleware(s.handleListChildren))
	s.router.HandleFunc("GET /api/items/{id}/versions", s.authMiddleware(s.handleListVersions))
	s.router.HandleFunc("GET /api/versions/{id}/parts", s.authMiddleware(s.handleListParts))

	s.router.HandleFunc("GET /ws/indexes", s.handleWebSocket)
}
