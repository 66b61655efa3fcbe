package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vaultindex/vaultindex/internal/models"
)

// VideoItemRepository exposes the VideoItem operations spec.md §4.3 lists,
// usable against either a *sql.DB or a *sql.Tx (see Queryer) so the scanner
// can compose several calls into one per-source_path transaction.
type VideoItemRepository struct {
	db Queryer
}

func NewVideoItemRepository(db Queryer) *VideoItemRepository {
	return &VideoItemRepository{db: db}
}

const videoItemColumns = `id, index_id, kind, title, sort_title, year, number, parent_id,
	source_path, metadata, added_at, latest_added_at, created_at, updated_at`

func scanVideoItem(row interface{ Scan(dest ...interface{}) error }) (*models.VideoItem, error) {
	it := &models.VideoItem{}
	err := row.Scan(
		&it.ID, &it.IndexID, &it.Kind, &it.Title, &it.SortTitle, &it.Year, &it.Number,
		&it.ParentID, &it.SourcePath, &it.Metadata, &it.AddedAt, &it.LatestAddedAt,
		&it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

func (r *VideoItemRepository) Add(it *models.VideoItem) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return r.db.QueryRow(`
		INSERT INTO video_items (id, index_id, kind, title, sort_title, year, number, parent_id, source_path, metadata)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING added_at, latest_added_at, created_at, updated_at`,
		it.ID, it.IndexID, it.Kind, it.Title, it.SortTitle, it.Year, it.Number,
		it.ParentID, it.SourcePath, it.Metadata,
	).Scan(&it.AddedAt, &it.LatestAddedAt, &it.CreatedAt, &it.UpdatedAt)
}

func (r *VideoItemRepository) Get(id uuid.UUID) (*models.VideoItem, error) {
	it, err := scanVideoItem(r.db.QueryRow(`SELECT `+videoItemColumns+` FROM video_items WHERE id=$1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("video item not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *VideoItemRepository) ListByIndex(indexID uuid.UUID) ([]*models.VideoItem, error) {
	return r.queryList(`SELECT `+videoItemColumns+` FROM video_items WHERE index_id=$1 ORDER BY title`, indexID)
}

func (r *VideoItemRepository) ListByTypeWithinIndex(indexID uuid.UUID, kind models.ItemKind) ([]*models.VideoItem, error) {
	return r.queryList(`SELECT `+videoItemColumns+` FROM video_items WHERE index_id=$1 AND kind=$2 ORDER BY title`, indexID, kind)
}

// GetBySourcePath is the upsert probe §4.4 commits use: at most one item per
// (index, source_path) (invariant 2).
func (r *VideoItemRepository) GetBySourcePath(indexID uuid.UUID, sourcePath string) (*models.VideoItem, error) {
	it, err := scanVideoItem(r.db.QueryRow(
		`SELECT `+videoItemColumns+` FROM video_items WHERE index_id=$1 AND source_path=$2`, indexID, sourcePath))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *VideoItemRepository) ListChildren(parentID uuid.UUID) ([]*models.VideoItem, error) {
	return r.queryList(`SELECT `+videoItemColumns+` FROM video_items WHERE parent_id=$1 ORDER BY number NULLS LAST, title`, parentID)
}

// GetByParentAndNumber is the season/episode upsert probe (invariant 4:
// (parent_id, number) unique among siblings).
func (r *VideoItemRepository) GetByParentAndNumber(parentID uuid.UUID, number int) (*models.VideoItem, error) {
	it, err := scanVideoItem(r.db.QueryRow(
		`SELECT `+videoItemColumns+` FROM video_items WHERE parent_id=$1 AND number=$2`, parentID, number))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *VideoItemRepository) ListByTitle(indexID uuid.UUID, title string) ([]*models.VideoItem, error) {
	return r.queryList(`SELECT `+videoItemColumns+` FROM video_items WHERE index_id=$1 AND title=$2 ORDER BY created_at`, indexID, title)
}

func (r *VideoItemRepository) UpdateSourcePath(id uuid.UUID, sourcePath *string) error {
	_, err := r.db.Exec(`UPDATE video_items SET source_path=$2, updated_at=NOW() WHERE id=$1`, id, sourcePath)
	return err
}

// TouchLatestAddedAt raises one item's latest_added_at to at when at is
// later. It does not update the item's ancestors, and the scanner does not
// call it.
func (r *VideoItemRepository) TouchLatestAddedAt(id uuid.UUID, at interface{}) error {
	_, err := r.db.Exec(`UPDATE video_items SET latest_added_at=$2 WHERE id=$1 AND latest_added_at<$2`, id, at)
	return err
}

func (r *VideoItemRepository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM video_items WHERE id=$1`, id)
	return err
}

// CountChildren and CountVersions back the reap phase's "zero remaining
// versions and zero remaining children" deletion predicate (invariant 5).
func (r *VideoItemRepository) CountChildren(id uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM video_items WHERE parent_id=$1`, id).Scan(&n)
	return n, err
}

func (r *VideoItemRepository) CountVersions(id uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM video_versions WHERE item_id=$1`, id).Scan(&n)
	return n, err
}

func (r *VideoItemRepository) queryList(query string, args ...interface{}) ([]*models.VideoItem, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.VideoItem{}
	for rows.Next() {
		it, err := scanVideoItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
