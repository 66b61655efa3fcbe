// Package icons stores and serves the custom icon uploaded for an Index:
// sniff the image format from its magic bytes, save it as <id>.<ext> under
// the configured icons directory, and serve it back with the right
// Content-Type. Grounded on the original's detect_image_extension and the
// icons_dir layout (utils/image.rs, api/controllers/icon.rs).
package icons

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store manages the on-disk icon files for indexes.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DetectExtension sniffs an image's format from its magic bytes, falling
// back to "png" for anything unrecognized, matching the original's
// guess-then-fall-back-to-PNG behavior.
func DetectExtension(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47}):
		return "png"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "jpg"
	case bytes.HasPrefix(data, []byte("GIF8")):
		return "gif"
	case len(data) >= 2 && data[0] == 0x42 && data[1] == 0x4D:
		return "bmp"
	case bytes.HasPrefix(data, []byte("RIFF")) && len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp"
	default:
		return "png"
	}
}

// Save writes data as the icon for indexID, removing any previously saved
// icon under a different extension first so an index never accumulates
// stale icon files across format changes.
func (s *Store) Save(indexID uuid.UUID, data []byte) (ext string, err error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create icons dir: %w", err)
	}
	s.Remove(indexID)

	ext = DetectExtension(data)
	path := s.path(indexID, ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write icon: %w", err)
	}
	return ext, nil
}

// Load reads back the icon for indexID given its stored extension.
func (s *Store) Load(indexID uuid.UUID, ext string) ([]byte, error) {
	return os.ReadFile(s.path(indexID, ext))
}

// Remove deletes any icon file saved for indexID under any recognized
// extension, ignoring files that don't exist.
func (s *Store) Remove(indexID uuid.UUID) {
	for _, ext := range []string{"png", "jpg", "gif", "bmp", "webp"} {
		_ = os.Remove(s.path(indexID, ext))
	}
}

func (s *Store) path(indexID uuid.UUID, ext string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.%s", indexID, ext))
}

// ContentType maps a stored extension to the HTTP Content-Type
// handlers_icon.go's handler serves it with.
func ContentType(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
