package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vaultindex/vaultindex/internal/models"
)

type VideoVersionRepository struct {
	db Queryer
}

func NewVideoVersionRepository(db Queryer) *VideoVersionRepository {
	return &VideoVersionRepository{db: db}
}

const videoVersionColumns = `id, item_id, edition, source, container, resolution, hdr,
	audio_channels, bitrate, runtime_ms, probe_version, created_at, updated_at`

func scanVideoVersion(row interface{ Scan(dest ...interface{}) error }) (*models.VideoVersion, error) {
	v := &models.VideoVersion{}
	err := row.Scan(
		&v.ID, &v.ItemID, &v.Edition, &v.Source, &v.Container, &v.Resolution, &v.HDR,
		&v.AudioChannels, &v.Bitrate, &v.RuntimeMs, &v.ProbeVersion, &v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

func (r *VideoVersionRepository) Add(v *models.VideoVersion) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return r.db.QueryRow(`
		INSERT INTO video_versions (id, item_id, edition, source, container, resolution, hdr,
			audio_channels, bitrate, runtime_ms, probe_version)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		v.ID, v.ItemID, v.Edition, v.Source, v.Container, v.Resolution, v.HDR,
		v.AudioChannels, v.Bitrate, v.RuntimeMs, v.ProbeVersion,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (r *VideoVersionRepository) ListByItem(itemID uuid.UUID) ([]*models.VideoVersion, error) {
	rows, err := r.db.Query(`SELECT `+videoVersionColumns+` FROM video_versions WHERE item_id=$1 ORDER BY created_at`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.VideoVersion{}
	for rows.Next() {
		v, err := scanVideoVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VideoVersionRepository) Get(id uuid.UUID) (*models.VideoVersion, error) {
	v, err := scanVideoVersion(r.db.QueryRow(`SELECT `+videoVersionColumns+` FROM video_versions WHERE id=$1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("video version not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateItemID reparents a version during item migration (spec.md §4.4).
func (r *VideoVersionRepository) UpdateItemID(id, itemID uuid.UUID) error {
	_, err := r.db.Exec(`UPDATE video_versions SET item_id=$2, updated_at=NOW() WHERE id=$1`, id, itemID)
	return err
}

func (r *VideoVersionRepository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM video_versions WHERE id=$1`, id)
	return err
}

func (r *VideoVersionRepository) CountParts(id uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM video_parts WHERE version_id=$1`, id).Scan(&n)
	return n, err
}
