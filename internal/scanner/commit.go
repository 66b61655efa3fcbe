package scanner

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vaultindex/vaultindex/internal/classifier"
	"github.com/vaultindex/vaultindex/internal/models"
	"github.com/vaultindex/vaultindex/internal/repository"
)

// commit flushes a TempBuffer for one completed source_path subtree (or, when
// sourcePath is nil, the leftover items gathered after all roots finished).
// New content and extras are written in a single transaction so a show or
// movie item is always visible together with its children (spec.md §7: "each
// source_path commit is one transaction").
func (s *Scanner) commit(indexID uuid.UUID, buf *TempBuffer, sourcePath *string) error {
	if len(buf.NewContent) == 0 && len(buf.Extras) == 0 {
		return nil
	}
	return repository.WithTx(s.db, func(tx *sql.Tx) error {
		items := repository.NewVideoItemRepository(tx)
		versions := repository.NewVideoVersionRepository(tx)
		parts := repository.NewVideoPartRepository(tx)

		for _, nc := range buf.NewContent {
			if err := commitNewContentItem(items, versions, parts, indexID, nc); err != nil {
				return err
			}
		}
		for _, ex := range buf.Extras {
			if err := commitExtraItem(items, versions, parts, indexID, ex, sourcePath); err != nil {
				return err
			}
		}
		return nil
	})
}

// commitBareMovie commits a movie file with no source_path (not inside any
// active subtree) as its own single-item, single-part transaction, deduping
// by title since there is no source_path to upsert against.
func (s *Scanner) commitBareMovie(indexID uuid.UUID, filePath string, m *classifier.MovieInfo, size int64, mtime time.Time, hash string) error {
	return repository.WithTx(s.db, func(tx *sql.Tx) error {
		items := repository.NewVideoItemRepository(tx)
		versions := repository.NewVideoVersionRepository(tx)
		parts := repository.NewVideoPartRepository(tx)

		existing, err := items.ListByTitle(indexID, m.Title)
		if err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}

		var item *models.VideoItem
		if len(existing) > 0 {
			item = existing[0]
		} else {
			item = &models.VideoItem{IndexID: indexID, Kind: models.ItemKindMovie, Title: m.Title, Year: m.Year}
			if err := items.Add(item); err != nil {
				return &ScanError{Kind: ErrStoreError, Err: err}
			}
		}

		version, err := upsertVersion(versions, item.ID, m.Version)
		if err != nil {
			return err
		}
		nc := NewContentItem{FilePath: filePath, FileSize: size, Mtime: mtime, FastHash: hash}
		return addPart(parts, version.ID, nc, m.Part)
	})
}

func commitNewContentItem(items *repository.VideoItemRepository, versions *repository.VideoVersionRepository, parts *repository.VideoPartRepository, indexID uuid.UUID, nc NewContentItem) error {
	switch nc.Result.Kind {
	case classifier.KindMovie:
		return commitMovie(items, versions, parts, indexID, nc)
	case classifier.KindTvEpisode:
		return commitTvEpisode(items, versions, parts, indexID, nc)
	case classifier.KindGeneric:
		return commitGeneric(items, versions, parts, indexID, nc)
	}
	return nil
}

func commitMovie(items *repository.VideoItemRepository, versions *repository.VideoVersionRepository, parts *repository.VideoPartRepository, indexID uuid.UUID, nc NewContentItem) error {
	m := nc.Result.Movie

	var item *models.VideoItem
	if m.SourcePath != nil {
		existing, err := items.GetBySourcePath(indexID, *m.SourcePath)
		if err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
		item = existing
	}
	if item == nil {
		item = &models.VideoItem{IndexID: indexID, Kind: models.ItemKindMovie, Title: m.Title, SourcePath: m.SourcePath, Year: m.Year}
		if err := items.Add(item); err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
	}

	version, err := upsertVersion(versions, item.ID, m.Version)
	if err != nil {
		return err
	}
	return addPart(parts, version.ID, nc, m.Part)
}

func commitTvEpisode(items *repository.VideoItemRepository, versions *repository.VideoVersionRepository, parts *repository.VideoPartRepository, indexID uuid.UUID, nc NewContentItem) error {
	tv := nc.Result.TvEpisode

	show, err := items.GetBySourcePath(indexID, tv.SourcePath)
	if err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}
	if show == nil {
		sp := tv.SourcePath
		show = &models.VideoItem{IndexID: indexID, Kind: models.ItemKindShow, Title: tv.ShowName, SourcePath: &sp}
		if err := items.Add(show); err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
	}

	seasonTitle := fmt.Sprintf("Season %d", tv.Season)
	if tv.Season == 0 {
		seasonTitle = "Specials"
	}
	season, err := items.GetByParentAndNumber(show.ID, tv.Season)
	if err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}
	if season == nil {
		num := tv.Season
		season = &models.VideoItem{IndexID: indexID, Kind: models.ItemKindSeason, Title: seasonTitle, ParentID: &show.ID, Number: &num}
		if err := items.Add(season); err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
	}

	episode, err := items.GetByParentAndNumber(season.ID, tv.Episode)
	if err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}
	if episode == nil {
		num := tv.Episode
		episode = &models.VideoItem{
			IndexID:  indexID,
			Kind:     models.ItemKindEpisode,
			Title:    episodeTitle(tv),
			ParentID: &season.ID,
			Number:   &num,
			Metadata: episodeMetadata(tv),
		}
		if err := items.Add(episode); err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
	}

	version, err := upsertVersion(versions, episode.ID, tv.Version)
	if err != nil {
		return err
	}
	return addPart(parts, version.ID, nc, tv.Part)
}

func episodeTitle(tv *classifier.TvEpisodeInfo) string {
	if tv.Title != nil {
		return *tv.Title
	}
	if tv.AirDate != nil {
		return *tv.AirDate
	}
	return fmt.Sprintf("Episode %d", tv.Episode)
}

func episodeMetadata(tv *classifier.TvEpisodeInfo) json.RawMessage {
	if tv.AirDate == nil {
		return json.RawMessage(`{}`)
	}
	b, err := json.Marshal(map[string]string{"air_date": *tv.AirDate})
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return b
}

func commitGeneric(items *repository.VideoItemRepository, versions *repository.VideoVersionRepository, parts *repository.VideoPartRepository, indexID uuid.UUID, nc NewContentItem) error {
	g := nc.Result.Generic
	item, err := upsertGenericItem(items, indexID, g.Title)
	if err != nil {
		return err
	}
	version, err := upsertVersion(versions, item.ID, nil)
	if err != nil {
		return err
	}
	return addPart(parts, version.ID, nc, nil)
}

func upsertGenericItem(items *repository.VideoItemRepository, indexID uuid.UUID, title string) (*models.VideoItem, error) {
	existing, err := items.ListByTitle(indexID, title)
	if err != nil {
		return nil, &ScanError{Kind: ErrStoreError, Err: err}
	}
	if len(existing) > 0 {
		return existing[0], nil
	}
	item := &models.VideoItem{IndexID: indexID, Kind: models.ItemKindVideo, Title: title}
	if err := items.Add(item); err != nil {
		return nil, &ScanError{Kind: ErrStoreError, Err: err}
	}
	return item, nil
}

// upsertVersion finds an existing version on item with a matching edition
// label, or creates one. This keeps a multi-part movie or episode (several
// files, same edition) as one version with several parts, rather than a
// fresh version per file.
func upsertVersion(versions *repository.VideoVersionRepository, itemID uuid.UUID, edition *string) (*models.VideoVersion, error) {
	existing, err := versions.ListByItem(itemID)
	if err != nil {
		return nil, &ScanError{Kind: ErrStoreError, Err: err}
	}
	for _, v := range existing {
		if editionEqual(v.Edition, edition) {
			return v, nil
		}
	}
	v := &models.VideoVersion{ItemID: itemID, Edition: edition}
	if err := versions.Add(v); err != nil {
		return nil, &ScanError{Kind: ErrStoreError, Err: err}
	}
	return v, nil
}

func editionEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func addPart(parts *repository.VideoPartRepository, versionID uuid.UUID, nc NewContentItem, partNumber *int) error {
	idx := 1
	if partNumber != nil {
		idx = *partNumber
	}
	part := &models.VideoPart{
		VersionID: versionID,
		Path:      nc.FilePath,
		Size:      nc.FileSize,
		Mtime:     nc.Mtime,
		PartIndex: idx,
		FastHash:  nc.FastHash,
	}
	if err := parts.Add(part); err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}
	return nil
}

// commitExtraItem attaches an extra to its parent movie or show, falling
// back to a generic video whenever the extra's path doesn't belong to the
// just-committed source_path or no matching parent item exists.
func commitExtraItem(items *repository.VideoItemRepository, versions *repository.VideoVersionRepository, parts *repository.VideoPartRepository, indexID uuid.UUID, ex ExtraItem, sourcePath *string) error {
	if sourcePath == nil || !strings.Contains(ex.FilePath, *sourcePath) {
		return commitGenericFromExtra(items, versions, parts, indexID, ex)
	}

	parent, err := items.GetBySourcePath(indexID, *sourcePath)
	if err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}
	if parent == nil {
		return commitGenericFromExtra(items, versions, parts, indexID, ex)
	}

	var parentID uuid.UUID
	switch parent.Kind {
	case models.ItemKindMovie:
		parentID = parent.ID
	case models.ItemKindShow:
		pid, err := attachShowExtra(items, parent, ex.FilePath)
		if err != nil {
			return err
		}
		parentID = pid
	default:
		return commitGenericFromExtra(items, versions, parts, indexID, ex)
	}

	meta, err := json.Marshal(map[string]string{"extra_type": string(ex.Extra.ExtraType)})
	if err != nil {
		meta = json.RawMessage(`{}`)
	}
	title := titleFromFilename(ex.FilePath)
	item := &models.VideoItem{IndexID: indexID, Kind: models.ItemKindExtra, Title: title, ParentID: &parentID, Metadata: meta}
	if err := items.Add(item); err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}

	version, err := upsertVersion(versions, item.ID, nil)
	if err != nil {
		return err
	}
	return addPart(parts, version.ID, NewContentItem{FilePath: ex.FilePath, FileSize: ex.FileSize, Mtime: ex.Mtime, FastHash: ex.FastHash}, nil)
}

func commitGenericFromExtra(items *repository.VideoItemRepository, versions *repository.VideoVersionRepository, parts *repository.VideoPartRepository, indexID uuid.UUID, ex ExtraItem) error {
	title := titleFromFilename(ex.FilePath)
	item, err := upsertGenericItem(items, indexID, title)
	if err != nil {
		return err
	}
	version, err := upsertVersion(versions, item.ID, nil)
	if err != nil {
		return err
	}
	return addPart(parts, version.ID, NewContentItem{FilePath: ex.FilePath, FileSize: ex.FileSize, Mtime: ex.Mtime, FastHash: ex.FastHash}, nil)
}

func titleFromFilename(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		return base[:idx]
	}
	return base
}
