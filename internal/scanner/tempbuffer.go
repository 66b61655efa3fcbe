package scanner

import (
	"fmt"
	"time"

	"github.com/vaultindex/vaultindex/internal/classifier"
)

// NewContentItem is a classified video file awaiting its source_path commit.
type NewContentItem struct {
	FilePath string
	Result   classifier.Result
	FileSize int64
	Mtime    time.Time
	FastHash string
}

// ExtraItem is a classified extra awaiting its source_path commit.
type ExtraItem struct {
	FilePath string
	Extra    *classifier.ExtraInfo
	FileSize int64
	Mtime    time.Time
	FastHash string
}

// TempBuffer holds the two lists the per-scan buffer accumulates between
// commit markers: new content (movies, episodes, generic) and extras.
// Owned exclusively by the scan worker; never shared across goroutines.
type TempBuffer struct {
	NewContent []NewContentItem
	Extras     []ExtraItem
}

func NewTempBuffer() *TempBuffer {
	return &TempBuffer{}
}

func (b *TempBuffer) AddNewContent(item NewContentItem) {
	b.NewContent = append(b.NewContent, item)
}

func (b *TempBuffer) AddExtra(item ExtraItem) {
	b.Extras = append(b.Extras, item)
}

func (b *TempBuffer) Clear() {
	b.NewContent = nil
	b.Extras = nil
}

// SourcePathTracker holds the single currently-active source_path for a
// directory subtree being walked. Tracking a second, different source_path
// while one is already active indicates an inconsistent on-disk layout.
type SourcePathTracker struct {
	active *string
}

func NewSourcePathTracker() *SourcePathTracker {
	return &SourcePathTracker{}
}

func (t *SourcePathTracker) Active() *string {
	return t.active
}

func (t *SourcePathTracker) Clear() {
	t.active = nil
}

// Track records sourcePath as active, or errors if a different source_path
// is already active for this subtree (spec.md §4.4 step 5's layout error).
func (t *SourcePathTracker) Track(sourcePath, filePath string) error {
	if t.active != nil && *t.active != sourcePath {
		return &ScanError{Kind: ErrLayoutConflict, Err: fmt.Errorf(
			"conflicting source_path: %q already active, %q wants %q", *t.active, filePath, sourcePath)}
	}
	sp := sourcePath
	t.active = &sp
	return nil
}
