package scanner

import (
	"fmt"
	"os"
	"time"

	"github.com/vaultindex/vaultindex/internal/classifier"
	"github.com/vaultindex/vaultindex/internal/fingerprint"
	"github.com/vaultindex/vaultindex/internal/models"
)

// processFile implements spec.md §4.4's per-file processing: stat, hash,
// probe for an existing part by content identity, and either touch it,
// migrate it, or classify and buffer it.
func (s *Scanner) processFile(idx *models.Index, filePath string, buf *TempBuffer, tracker *SourcePathTracker) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return &ScanError{Kind: ErrTransientIO, Err: err}
	}
	size := info.Size()
	mtime := info.ModTime()

	hash, err := fingerprint.FastHash(filePath)
	if err != nil {
		return &ScanError{Kind: ErrTransientIO, Err: err}
	}

	existing, err := s.parts.GetBySizeAndHash(size, hash)
	if err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}

	if existing != nil {
		return s.processExistingPart(idx, existing, filePath, mtime)
	}
	return s.processNewPart(idx, filePath, size, mtime, hash, buf, tracker)
}

// processExistingPart handles the "hit" branches: same path bumps
// updated_at; a different path is a rename/move that may require item
// migration before the part's path and mtime are rewritten.
func (s *Scanner) processExistingPart(idx *models.Index, part *models.VideoPart, filePath string, mtime time.Time) error {
	if part.Path == filePath {
		if err := s.parts.TouchUpdatedAt(part.ID); err != nil {
			return &ScanError{Kind: ErrStoreError, Err: err}
		}
		return nil
	}

	result := classifier.Classify(filePath)
	if err := s.migrateIfNeeded(idx, part, result); err != nil {
		return err
	}
	if err := s.parts.UpdatePathAndMtime(part.ID, filePath, mtime); err != nil {
		return &ScanError{Kind: ErrStoreError, Err: err}
	}
	return nil
}

// processNewPart handles the "miss" branch: classify the path and either
// buffer it (extra, movie-with-source_path, TV episode, generic) or commit a
// bare movie immediately when no source_path subtree is active.
func (s *Scanner) processNewPart(idx *models.Index, filePath string, size int64, mtime time.Time, hash string, buf *TempBuffer, tracker *SourcePathTracker) error {
	result := classifier.Classify(filePath)

	if result.Kind == classifier.KindExtra {
		buf.AddExtra(ExtraItem{FilePath: filePath, Extra: result.Extra, FileSize: size, Mtime: mtime, FastHash: hash})
		return nil
	}

	var sourcePath *string
	switch result.Kind {
	case classifier.KindMovie:
		sourcePath = result.Movie.SourcePath
	case classifier.KindTvEpisode:
		sp := result.TvEpisode.SourcePath
		sourcePath = &sp
	}

	if sourcePath != nil {
		if err := tracker.Track(*sourcePath, filePath); err != nil {
			return err
		}
	}

	if result.Kind == classifier.KindMovie && sourcePath == nil {
		if tracker.Active() != nil {
			return &ScanError{Kind: ErrLayoutConflict, Err: fmt.Errorf(
				"movie without source_path found within active source_path %q: %s", *tracker.Active(), filePath)}
		}
		return s.commitBareMovie(idx.ID, filePath, result.Movie, size, mtime, hash)
	}

	buf.AddNewContent(NewContentItem{FilePath: filePath, Result: result, FileSize: size, Mtime: mtime, FastHash: hash})
	return nil
}
