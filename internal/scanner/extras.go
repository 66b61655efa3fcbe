package scanner

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vaultindex/vaultindex/internal/models"
	"github.com/vaultindex/vaultindex/internal/repository"
)

var (
	reExtraSxxExx = regexp.MustCompile(`(?i)S(\d{1,3})E(\d{1,4})`)
	reExtraSeason = regexp.MustCompile(`(?i)^season\s+(\d+)$`)
)

func isSpecialsFolder(name string) bool {
	l := strings.ToLower(name)
	return l == "special" || l == "specials"
}

// attachShowExtra inspects up to the 4 deepest folder segments of an extra's
// path for an S<d>E<d> token (most specific), a "Season N" folder, or a
// special(s) folder, attaching under the matching episode, season, or the
// show itself if none match (spec.md §4.4 and §9's open question on extras).
func attachShowExtra(items *repository.VideoItemRepository, show *models.VideoItem, extraPath string) (uuid.UUID, error) {
	dir := filepath.ToSlash(filepath.Dir(extraPath))
	var segments []string
	for _, s := range strings.Split(dir, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	start := 0
	if n := len(segments); n > 4 {
		start = n - 4
	}
	considered := segments[start:]

	for i := len(considered) - 1; i >= 0; i-- {
		if m := reExtraSxxExx.FindStringSubmatch(considered[i]); m != nil {
			season, _ := strconv.Atoi(m[1])
			episode, _ := strconv.Atoi(m[2])
			seasonItem, err := items.GetByParentAndNumber(show.ID, season)
			if err != nil {
				return uuid.Nil, &ScanError{Kind: ErrStoreError, Err: err}
			}
			if seasonItem == nil {
				return show.ID, nil
			}
			epItem, err := items.GetByParentAndNumber(seasonItem.ID, episode)
			if err != nil {
				return uuid.Nil, &ScanError{Kind: ErrStoreError, Err: err}
			}
			if epItem != nil {
				return epItem.ID, nil
			}
			return seasonItem.ID, nil
		}
	}

	for i := len(considered) - 1; i >= 0; i-- {
		if sm := reExtraSeason.FindStringSubmatch(considered[i]); sm != nil {
			season, _ := strconv.Atoi(sm[1])
			seasonItem, err := items.GetByParentAndNumber(show.ID, season)
			if err != nil {
				return uuid.Nil, &ScanError{Kind: ErrStoreError, Err: err}
			}
			if seasonItem != nil {
				return seasonItem.ID, nil
			}
			return show.ID, nil
		}
		if isSpecialsFolder(considered[i]) {
			seasonItem, err := items.GetByParentAndNumber(show.ID, 0)
			if err != nil {
				return uuid.Nil, &ScanError{Kind: ErrStoreError, Err: err}
			}
			if seasonItem != nil {
				return seasonItem.ID, nil
			}
			return show.ID, nil
		}
	}

	return show.ID, nil
}
