package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vaultindex/vaultindex/internal/models"
)

type VideoPartRepository struct {
	db Queryer
}

func NewVideoPartRepository(db Queryer) *VideoPartRepository {
	return &VideoPartRepository{db: db}
}

const videoPartColumns = `id, version_id, path, size, mtime, part_index, duration_ms, fast_hash, created_at, updated_at`

func scanVideoPart(row interface{ Scan(dest ...interface{}) error }) (*models.VideoPart, error) {
	p := &models.VideoPart{}
	err := row.Scan(
		&p.ID, &p.VersionID, &p.Path, &p.Size, &p.Mtime, &p.PartIndex,
		&p.DurationMs, &p.FastHash, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *VideoPartRepository) Add(p *models.VideoPart) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.QueryRow(`
		INSERT INTO video_parts (id, version_id, path, size, mtime, part_index, duration_ms, fast_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		p.ID, p.VersionID, p.Path, p.Size, p.Mtime, p.PartIndex, p.DurationMs, p.FastHash,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *VideoPartRepository) ListByVersion(versionID uuid.UUID) ([]*models.VideoPart, error) {
	rows, err := r.db.Query(`SELECT `+videoPartColumns+` FROM video_parts WHERE version_id=$1 ORDER BY part_index`, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.VideoPart{}
	for rows.Next() {
		p, err := scanVideoPart(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *VideoPartRepository) Get(id uuid.UUID) (*models.VideoPart, error) {
	p, err := scanVideoPart(r.db.QueryRow(`SELECT `+videoPartColumns+` FROM video_parts WHERE id=$1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("video part not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *VideoPartRepository) GetByPath(path string) (*models.VideoPart, error) {
	p, err := scanVideoPart(r.db.QueryRow(`SELECT `+videoPartColumns+` FROM video_parts WHERE path=$1`, path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetBySizeAndHash is the content-identity probe (invariant 3): at most one
// part exists globally for a given (size, fast_hash) pair.
func (r *VideoPartRepository) GetBySizeAndHash(size int64, fastHash string) (*models.VideoPart, error) {
	p, err := scanVideoPart(r.db.QueryRow(
		`SELECT `+videoPartColumns+` FROM video_parts WHERE size=$1 AND fast_hash=$2`, size, fastHash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *VideoPartRepository) UpdatePathAndMtime(id uuid.UUID, path string, mtime time.Time) error {
	_, err := r.db.Exec(`UPDATE video_parts SET path=$2, mtime=$3, updated_at=NOW() WHERE id=$1`, id, path, mtime)
	return err
}

func (r *VideoPartRepository) TouchUpdatedAt(id uuid.UUID) error {
	_, err := r.db.Exec(`UPDATE video_parts SET updated_at=NOW() WHERE id=$1`, id)
	return err
}

// UpdateVersionID reparents a part during item migration when its sibling
// parts remain on the old version (spec.md §4.4's "clone version, repoint
// part" branch).
func (r *VideoPartRepository) UpdateVersionID(id, versionID uuid.UUID) error {
	_, err := r.db.Exec(`UPDATE video_parts SET version_id=$2, updated_at=NOW() WHERE id=$1`, id, versionID)
	return err
}

func (r *VideoPartRepository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM video_parts WHERE id=$1`, id)
	return err
}

// ListStaleBefore finds parts whose updated_at predates the scan's
// pre_scan_ts — candidates for the reap phase (spec.md §4.4 step 5).
func (r *VideoPartRepository) ListStaleBefore(indexID uuid.UUID, before time.Time) ([]*models.VideoPart, error) {
	rows, err := r.db.Query(`
		SELECT vp.id, vp.version_id, vp.path, vp.size, vp.mtime, vp.part_index,
		       vp.duration_ms, vp.fast_hash, vp.created_at, vp.updated_at
		FROM video_parts vp
		JOIN video_versions vv ON vv.id = vp.version_id
		JOIN video_items vi ON vi.id = vv.item_id
		WHERE vi.index_id = $1 AND vp.updated_at < $2`, indexID, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.VideoPart{}
	for rows.Next() {
		p, err := scanVideoPart(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
