// Package repository is the typed persistence layer over Postgres: indexes,
// items, versions, and parts, each with the operations and uniqueness
// probes spec.md §4.3 names. Every method is a single atomic operation;
// multi-statement commits (per source_path, the reap phase) are composed by
// the scanner using WithTx.
package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vaultindex/vaultindex/internal/models"
)

type IndexRepository struct {
	db *sql.DB
}

func NewIndexRepository(db *sql.DB) *IndexRepository {
	return &IndexRepository{db: db}
}

const indexColumns = `id, name, kind, roots, scan_status, last_scanned_at,
	scan_interval_seconds, next_scan_at, metadata, icon_ext, created_at, updated_at`

func scanIndex(row interface{ Scan(dest ...interface{}) error }) (*models.Index, error) {
	idx := &models.Index{}
	err := row.Scan(
		&idx.ID, &idx.Name, &idx.Kind, pq.Array(&idx.Roots),
		&idx.ScanStatus, &idx.LastScannedAt, &idx.ScanIntervalSeconds, &idx.NextScanAt,
		&idx.Metadata, &idx.IconExt, &idx.CreatedAt, &idx.UpdatedAt,
	)
	return idx, err
}

func (r *IndexRepository) Add(idx *models.Index) error {
	if idx.ID == uuid.Nil {
		idx.ID = uuid.New()
	}
	return r.db.QueryRow(`
		INSERT INTO indexes (id, name, kind, roots, scan_status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		idx.ID, idx.Name, idx.Kind, pq.Array(idx.Roots), idx.ScanStatus, idx.Metadata,
	).Scan(&idx.CreatedAt, &idx.UpdatedAt)
}

func (r *IndexRepository) Get(id uuid.UUID) (*models.Index, error) {
	query := `SELECT ` + indexColumns + ` FROM indexes WHERE id = $1`
	idx, err := scanIndex(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("index not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func (r *IndexRepository) List() ([]*models.Index, error) {
	return r.queryList(`SELECT `+indexColumns+` FROM indexes ORDER BY created_at DESC`)
}

func (r *IndexRepository) ListByKind(kind models.IndexKind) ([]*models.Index, error) {
	return r.queryList(`SELECT `+indexColumns+` FROM indexes WHERE kind = $1 ORDER BY created_at DESC`, kind)
}

func (r *IndexRepository) ListByScanStatus(status models.ScanStatus) ([]*models.Index, error) {
	return r.queryList(`SELECT `+indexColumns+` FROM indexes WHERE scan_status = $1 ORDER BY created_at DESC`, status)
}

// ListOldestQueued returns the queued index with the smallest last_scanned_at,
// the ordering the top-level scan loop uses to pick the next index.
func (r *IndexRepository) ListOldestQueued() (*models.Index, error) {
	query := `SELECT ` + indexColumns + ` FROM indexes WHERE scan_status = $1
		ORDER BY last_scanned_at ASC NULLS FIRST LIMIT 1`
	idx, err := scanIndex(r.db.QueryRow(query, models.ScanStatusQueued))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func (r *IndexRepository) queryList(query string, args ...interface{}) ([]*models.Index, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Index{}
	for rows.Next() {
		idx, err := scanIndex(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, rows.Err()
}

func (r *IndexRepository) Update(idx *models.Index) error {
	_, err := r.db.Exec(`
		UPDATE indexes SET name=$2, kind=$3, roots=$4, metadata=$5, icon_ext=$6, updated_at=NOW()
		WHERE id=$1`,
		idx.ID, idx.Name, idx.Kind, pq.Array(idx.Roots), idx.Metadata, idx.IconExt)
	return err
}

// UpdateScanInterval sets (or clears, with nil) the index's rescan period
// and seeds next_scan_at so the scheduler picks it up after that period.
func (r *IndexRepository) UpdateScanInterval(id uuid.UUID, seconds *int) error {
	_, err := r.db.Exec(`
		UPDATE indexes SET scan_interval_seconds=$2,
			next_scan_at = CASE WHEN $2::int IS NULL THEN NULL ELSE NOW() + make_interval(secs => $2) END,
			updated_at=NOW()
		WHERE id=$1`, id, seconds)
	return err
}

// ListDueForScan returns every index whose scan interval has elapsed.
func (r *IndexRepository) ListDueForScan() ([]*models.Index, error) {
	return r.queryList(`SELECT ` + indexColumns + ` FROM indexes
		WHERE scan_interval_seconds IS NOT NULL AND next_scan_at IS NOT NULL AND next_scan_at <= NOW()
		ORDER BY next_scan_at ASC`)
}

// AdvanceNextScan pushes next_scan_at forward by the index's own interval,
// called immediately before enqueuing so a slow scan cannot re-trigger itself.
func (r *IndexRepository) AdvanceNextScan(id uuid.UUID) error {
	_, err := r.db.Exec(`
		UPDATE indexes SET next_scan_at = NOW() + make_interval(secs => scan_interval_seconds), updated_at=NOW()
		WHERE id=$1 AND scan_interval_seconds IS NOT NULL`, id)
	return err
}

// UpdateScanStatus sets scan_status unconditionally (the scanner's
// scanning / done / failed transitions). The guarded `*→queued` transition
// is EnqueueScan.
func (r *IndexRepository) UpdateScanStatus(id uuid.UUID, status models.ScanStatus) error {
	_, err := r.db.Exec(`UPDATE indexes SET scan_status=$2, updated_at=NOW() WHERE id=$1`, id, status)
	return err
}

func (r *IndexRepository) UpdateScanStatusWithTimestamp(id uuid.UUID, status models.ScanStatus) error {
	_, err := r.db.Exec(`UPDATE indexes SET scan_status=$2, last_scanned_at=NOW(), updated_at=NOW() WHERE id=$1`, id, status)
	return err
}

// EnqueueScan is the `*→queued unless scanning` transition spec.md §6 names:
// a scan already in progress is left alone rather than restarted.
func (r *IndexRepository) EnqueueScan(id uuid.UUID) error {
	res, err := r.db.Exec(`UPDATE indexes SET scan_status=$2, updated_at=NOW()
		WHERE id=$1 AND scan_status <> $3`, id, models.ScanStatusQueued, models.ScanStatusScanning)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("index %s is already scanning or does not exist", id)
	}
	return nil
}

func (r *IndexRepository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM indexes WHERE id=$1`, id)
	return err
}

// NameExists checks index name uniqueness, optionally excluding one id (the
// "rename to the name I already have" case).
func (r *IndexRepository) NameExists(name string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if excludeID != nil {
		err = r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM indexes WHERE name=$1 AND id<>$2)`, name, *excludeID).Scan(&exists)
	} else {
		err = r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM indexes WHERE name=$1)`, name).Scan(&exists)
	}
	return exists, err
}
