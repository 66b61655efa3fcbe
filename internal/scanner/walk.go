package scanner

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vaultindex/vaultindex/internal/models"
)

var videoExtensions = map[string]bool{
	"mp4": true, "mkv": true, "avi": true, "mov": true, "wmv": true,
	"flv": true, "ts": true, "m2ts": true, "webm": true, "mpeg": true, "mpg": true,
}

func isVideoFile(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return videoExtensions[ext]
}

// stackEntry is one frame of the explicit depth-first walk stack. A
// commitMarker entry means "this directory and its subtree are fully
// processed" — see spec.md §9's note on commit markers replacing recursion.
type stackEntry struct {
	path         string
	commitMarker bool
}

// walkRoot performs the files-before-subdirectories depth-first walk of one
// configured root folder, buffering classified content and flushing it via
// commit markers as source_path subtrees complete.
func (s *Scanner) walkRoot(ctx context.Context, idx *models.Index, root string, buf *TempBuffer, tracker *SourcePathTracker) error {
	info, err := os.Stat(root)
	if err != nil {
		return &ScanError{Kind: ErrTransientIO, Err: fmt.Errorf("root %s: %w", root, err)}
	}
	if !info.IsDir() {
		return &ScanError{Kind: ErrTransientIO, Err: fmt.Errorf("root %s is not a directory", root)}
	}

	stack := []stackEntry{{path: filepath.Clean(root)}}
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if entry.commitMarker {
			if active := tracker.Active(); active != nil && *active == entry.path {
				tracker.Clear()
				if err := s.commit(idx.ID, buf, &entry.path); err != nil {
					return err
				}
				buf.Clear()
			}
			continue
		}

		dirEntries, err := os.ReadDir(entry.path)
		if err != nil {
			log.Printf("scanner: skipping directory %s: %v", entry.path, err)
			continue
		}

		var files, dirs []string
		for _, de := range dirEntries {
			full := filepath.Join(entry.path, de.Name())
			if de.IsDir() {
				dirs = append(dirs, full)
			} else {
				files = append(files, full)
			}
		}
		sort.Strings(files)
		sort.Strings(dirs)

		for _, f := range files {
			if !isVideoFile(f) {
				continue
			}
			if err := s.processFile(idx, f, buf, tracker); err != nil {
				if abortsScan(err) {
					return err
				}
				log.Printf("scanner: skipping file %s: %v", f, err)
			}
		}

		// Push the commit marker before subdirectories so it pops last,
		// after the whole subtree underneath has been walked.
		stack = append(stack, stackEntry{path: entry.path, commitMarker: true})
		for i := len(dirs) - 1; i >= 0; i-- {
			stack = append(stack, stackEntry{path: dirs[i]})
		}
	}
	return nil
}
