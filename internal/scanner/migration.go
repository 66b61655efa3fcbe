package scanner

import (
	"os"

	"github.com/google/uuid"

	"github.com/vaultindex/vaultindex/internal/classifier"
	"github.com/vaultindex/vaultindex/internal/models"
)

// migrateIfNeeded re-derives source_path from a reclassified, moved file and
// runs item migration if the owning item's source_path has changed. Generic
// and Extra files carry no source_path, so a plain rename among them never
// triggers migration — only the part's path is rewritten by the caller.
func (s *Scanner) migrateIfNeeded(idx *models.Index, part *models.VideoPart, result classifier.Result) error {
	var newSourcePath *string
	switch result.Kind {
	case classifier.KindMovie:
		newSourcePath = result.Movie.SourcePath
	case classifier.KindTvEpisode:
		sp := result.TvEpisode.SourcePath
		newSourcePath = &sp
	}
	if newSourcePath == nil {
		return nil
	}

	version, err := s.versions.Get(part.VersionID)
	if err != nil {
		return &ScanError{Kind: ErrMigrationInconsistency, Err: err}
	}
	item, err := s.items.Get(version.ItemID)
	if err != nil {
		return &ScanError{Kind: ErrMigrationInconsistency, Err: err}
	}
	// Episodes and seasons carry no source_path of their own; the owning
	// item is the nearest ancestor that does (the show).
	for item.SourcePath == nil && item.ParentID != nil {
		item, err = s.items.Get(*item.ParentID)
		if err != nil {
			return &ScanError{Kind: ErrMigrationInconsistency, Err: err}
		}
	}

	if item.SourcePath != nil && *item.SourcePath == *newSourcePath {
		return nil
	}
	return s.migrateItem(idx, part, version, item, *newSourcePath)
}

// migrateItem implements spec.md §4.4's 4-branch item migration matrix,
// keyed on whether the old source_path still exists on disk and whether the
// new source_path already has an item.
func (s *Scanner) migrateItem(idx *models.Index, part *models.VideoPart, version *models.VideoVersion, item *models.VideoItem, newSourcePath string) error {
	oldPathExists := false
	if item.SourcePath != nil {
		if _, err := os.Stat(*item.SourcePath); err == nil {
			oldPathExists = true
		}
	}

	newItem, err := s.items.GetBySourcePath(idx.ID, newSourcePath)
	if err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}
	newPathHasItem := newItem != nil

	switch {
	case !oldPathExists && !newPathHasItem:
		// Old path gone, nothing claims the new path: this item simply moved.
		if err := s.items.UpdateSourcePath(item.ID, &newSourcePath); err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
		return nil

	case !oldPathExists && newPathHasItem:
		return s.movePartToItem(part, version, item, newItem)

	case oldPathExists && !newPathHasItem:
		// Old item is still valid on disk; the moved part belongs to a
		// freshly created item at the new source_path.
		created := *item
		created.ID = uuid.Nil
		created.SourcePath = &newSourcePath
		if err := s.items.Add(&created); err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
		return s.movePartToItem(part, version, item, &created)

	default: // oldPathExists && newPathHasItem
		return s.movePartToItem(part, version, item, newItem)
	}
}

// movePartToItem moves part (and its version, if the version has no other
// parts; otherwise a cloned version) from oldItem to newItem, then deletes
// oldItem if it is left with zero versions and zero children.
func (s *Scanner) movePartToItem(part *models.VideoPart, version *models.VideoVersion, oldItem, newItem *models.VideoItem) error {
	n, err := s.versions.CountParts(version.ID)
	if err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}

	if n <= 1 {
		if err := s.versions.UpdateItemID(version.ID, newItem.ID); err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
	} else {
		clone := &models.VideoVersion{
			ItemID:        newItem.ID,
			Edition:       version.Edition,
			Source:        version.Source,
			Container:     version.Container,
			Resolution:    version.Resolution,
			HDR:           version.HDR,
			AudioChannels: version.AudioChannels,
			Bitrate:       version.Bitrate,
			RuntimeMs:     version.RuntimeMs,
			ProbeVersion:  version.ProbeVersion,
		}
		if err := s.versions.Add(clone); err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
		if err := s.parts.UpdateVersionID(part.ID, clone.ID); err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
	}

	nv, err := s.items.CountVersions(oldItem.ID)
	if err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}
	nc, err := s.items.CountChildren(oldItem.ID)
	if err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}
	if nv == 0 && nc == 0 {
		if err := s.items.Delete(oldItem.ID); err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
	}
	return nil
}
