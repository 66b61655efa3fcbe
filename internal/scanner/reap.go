package scanner

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/vaultindex/vaultindex/internal/repository"
)

// reap implements spec.md §4.4 step 5: delete every part untouched since
// preScanTs, then every version left with zero parts, then every item left
// with zero versions and zero children — applied bottom-up so a cascade
// (episode gone empties its season, season gone empties its show) fully
// propagates in one reap, not just one level.
func (s *Scanner) reap(indexID uuid.UUID, preScanTs time.Time) error {
	return repository.WithTx(s.db, func(tx *sql.Tx) error {
		items := repository.NewVideoItemRepository(tx)
		versions := repository.NewVideoVersionRepository(tx)
		parts := repository.NewVideoPartRepository(tx)

		stale, err := parts.ListStaleBefore(indexID, preScanTs)
		if err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}

		touchedVersions := map[uuid.UUID]bool{}
		for _, p := range stale {
			touchedVersions[p.VersionID] = true
			if err := parts.Delete(p.ID); err != nil {
				return &ScanError{Kind: ErrStoreError, Err: err}
			}
		}

		touchedItems := map[uuid.UUID]bool{}
		for versionID := range touchedVersions {
			n, err := versions.CountParts(versionID)
			if err != nil {
				return &ScanError{Kind: ErrStoreError, Err: err}
			}
			if n > 0 {
				continue
			}
			v, err := versions.Get(versionID)
			if err != nil {
				return &ScanError{Kind: ErrStoreError, Err: err}
			}
			touchedItems[v.ItemID] = true
			if err := versions.Delete(versionID); err != nil {
				return &ScanError{Kind: ErrStoreError, Err: err}
			}
		}

		queue := make([]uuid.UUID, 0, len(touchedItems))
		for id := range touchedItems {
			queue = append(queue, id)
		}
		seen := map[uuid.UUID]bool{}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			if seen[id] {
				continue
			}
			seen[id] = true

			item, err := items.Get(id)
			if err != nil {
				continue // already deleted by an earlier branch of the cascade
			}
			nv, err := items.CountVersions(id)
			if err != nil {
				return &ScanError{Kind: ErrStoreError, Err: err}
			}
			nc, err := items.CountChildren(id)
			if err != nil {
				return &ScanError{Kind: ErrStoreError, Err: err}
			}
			if nv != 0 || nc != 0 {
				continue
			}
			if err := items.Delete(id); err != nil {
				return &ScanError{Kind: ErrStoreError, Err: err}
			}
			if item.ParentID != nil {
				queue = append(queue, *item.ParentID)
			}
		}
		return nil
	})
}
