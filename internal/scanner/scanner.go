// Package scanner walks an index's configured root folders, classifies each
// video file, and maintains the relational store as a running single-pass,
// single-worker reconciliation: new files are added, moved files are
// migrated by content identity, and files gone from disk are reaped.
package scanner

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vaultindex/vaultindex/internal/models"
	"github.com/vaultindex/vaultindex/internal/repository"
)

// Scanner is the single long-lived scan worker (spec.md §4.4: "a single
// long-lived worker, not one per index, to bound I/O parallelism").
type Scanner struct {
	db           *sql.DB
	indexes      *repository.IndexRepository
	items        *repository.VideoItemRepository
	versions     *repository.VideoVersionRepository
	parts        *repository.VideoPartRepository
	pollInterval time.Duration
	onStatus     func(id uuid.UUID, status models.ScanStatus)
}

func New(db *sql.DB, indexes *repository.IndexRepository, pollInterval time.Duration) *Scanner {
	return &Scanner{
		db:           db,
		indexes:      indexes,
		items:        repository.NewVideoItemRepository(db),
		versions:     repository.NewVideoVersionRepository(db),
		parts:        repository.NewVideoPartRepository(db),
		pollInterval: pollInterval,
	}
}

// OnStatusChange registers a callback fired whenever the scanner itself
// transitions an index's scan_status (scanning/done/failed) — the API
// server uses this to push the status-flag websocket stream.
func (s *Scanner) OnStatusChange(fn func(id uuid.UUID, status models.ScanStatus)) {
	s.onStatus = fn
}

func (s *Scanner) notify(id uuid.UUID, status models.ScanStatus) {
	if s.onStatus != nil {
		s.onStatus(id, status)
	}
}

// scanIndex runs the per-index scan procedure (spec.md §4.4 steps 1-6). It
// sets the index's terminal status (done) on success; the caller is
// responsible for marking it failed when scanIndex returns an error.
func (s *Scanner) scanIndex(ctx context.Context, idx *models.Index) error {
	preScanTs := time.Now().UTC()
	buf := NewTempBuffer()
	tracker := NewSourcePathTracker()

	for _, root := range idx.Roots {
		if err := s.walkRoot(ctx, idx, root, buf, tracker); err != nil {
			if abortsScan(err) {
				return err
			}
			log.Printf("scanner: skipping root %s for index %s: %v", root, idx.Name, err)
		}
		tracker.Clear()
	}

	if err := s.commit(idx.ID, buf, nil); err != nil {
		return err
	}
	buf.Clear()

	if err := s.reap(idx.ID, preScanTs); err != nil {
		return err
	}

	if err := s.indexes.UpdateScanStatusWithTimestamp(idx.ID, models.ScanStatusDone); err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}
	s.notify(idx.ID, models.ScanStatusDone)
	return nil
}

func (s *Scanner) markFailed(id uuid.UUID) {
	if err := s.indexes.UpdateScanStatus(id, models.ScanStatusFailed); err != nil {
		log.Printf("scanner: failed to mark index %s failed: %v", id, err)
		return
	}
	s.notify(id, models.ScanStatusFailed)
}
