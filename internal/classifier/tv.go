package classifier

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	reSxxExx       = regexp.MustCompile(`(?i)S(\d{1,3})E(\d{1,4})(?:-E?(\d{1,4}))?`)
	reSeasonFolder = regexp.MustCompile(`(?i)^season\s+(\d+)$`)
	reEpNum        = regexp.MustCompile(`(?i)Ep(\d{1,4})(?:-(\d{1,4}))?`)
	reENum         = regexp.MustCompile(`(?i)E(\d{1,4})(?:-(\d{1,4}))?`)
	reDateISO      = regexp.MustCompile(`(\d{4})[-.](\d{1,2})[-.](\d{1,2})`)
	reDateDMY      = regexp.MustCompile(`(\d{1,2})[-.](\d{1,2})[-.](\d{4})`)
)

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// matchEpisodeToken looks for a bare "E<n>" or "Ep<n>" episode token, tried
// in that order — "Ep05" never matches the E-pattern because the character
// after its leading E is "p", not a digit, so the two patterns never race.
func matchEpisodeToken(stem string) (episode int, epEnd *int, matchEnd int, ok bool) {
	if m := reENum.FindStringSubmatchIndex(stem); m != nil {
		episode = atoi(stem[m[2]:m[3]])
		if m[4] != -1 {
			v := atoi(stem[m[4]:m[5]])
			epEnd = &v
		}
		return episode, epEnd, m[1], true
	}
	if m := reEpNum.FindStringSubmatchIndex(stem); m != nil {
		episode = atoi(stem[m[2]:m[3]])
		if m[4] != -1 {
			v := atoi(stem[m[4]:m[5]])
			epEnd = &v
		}
		return episode, epEnd, m[1], true
	}
	return 0, nil, 0, false
}

// deriveShowName is the deepest ancestor folder that is neither a season
// folder nor special(s); failing that, the stem with TV tokens stripped.
func deriveShowName(folders []string, fallbackStem string) string {
	for i := len(folders) - 1; i >= 0; i-- {
		name := folders[i]
		if reSeasonFolder.MatchString(name) || isSpecialsFolder(name) {
			continue
		}
		return name
	}
	cleaned := reSxxExx.ReplaceAllString(fallbackStem, "")
	cleaned = reENum.ReplaceAllString(cleaned, "")
	cleaned = reEpNum.ReplaceAllString(cleaned, "")
	return trimTVPunctuation(cleaned)
}

// deriveTVSourcePath is the path up to, but not including, the season or
// specials folder; with no season folder it is the immediate parent.
func deriveTVSourcePath(folders []string, absolute bool) string {
	if len(folders) == 0 {
		return joinSegments(folders, absolute)
	}
	last := folders[len(folders)-1]
	if reSeasonFolder.MatchString(last) || isSpecialsFolder(last) {
		return joinSegments(folders[:len(folders)-1], absolute)
	}
	return joinSegments(folders, absolute)
}

func buildTVInfo(folders []string, fullStem, suffix string, absolute bool, season, episode int, epEnd *int, airDate *string, year *int) *TvEpisodeInfo {
	info := &TvEpisodeInfo{
		ShowName:   deriveShowName(folders, fullStem),
		SourcePath: deriveTVSourcePath(folders, absolute),
		Season:     season,
		Episode:    episode,
		EpEnd:      epEnd,
		AirDate:    airDate,
		Year:       year,
	}
	aff := parseAffixes(fullStem, suffix, true)
	info.Version = aff.Version
	info.Title = aff.Title
	info.Part = aff.Part
	info.ExternalIDs = aff.ExternalIDs
	return info
}

// detectNumberedTV covers classifier stage 2: SxxEyy in the filename, a
// "Season N" parent folder with a bare episode token, or a special(s) parent
// folder with a bare episode token (season 0).
func detectNumberedTV(folders []string, stem string, absolute bool) (*TvEpisodeInfo, bool) {
	if m := reSxxExx.FindStringSubmatchIndex(stem); m != nil {
		season := atoi(stem[m[2]:m[3]])
		episode := atoi(stem[m[4]:m[5]])
		var epEnd *int
		if m[6] != -1 {
			v := atoi(stem[m[6]:m[7]])
			epEnd = &v
		}
		return buildTVInfo(folders, stem, stem[m[1]:], absolute, season, episode, epEnd, nil, nil), true
	}

	if len(folders) == 0 {
		return nil, false
	}
	last := folders[len(folders)-1]

	if sm := reSeasonFolder.FindStringSubmatch(last); sm != nil {
		if episode, epEnd, endIdx, ok := matchEpisodeToken(stem); ok {
			season := atoi(sm[1])
			return buildTVInfo(folders, stem, stem[endIdx:], absolute, season, episode, epEnd, nil, nil), true
		}
		return nil, false
	}

	if isSpecialsFolder(last) {
		if episode, epEnd, endIdx, ok := matchEpisodeToken(stem); ok {
			return buildTVInfo(folders, stem, stem[endIdx:], absolute, 0, episode, epEnd, nil, nil), true
		}
	}

	return nil, false
}

// detectDateTV covers classifier stage 3: an ISO or DMY date embedded in the
// stem, synthesized into an air_date and an epoch-day episode number.
func detectDateTV(folders []string, stem string, absolute bool) (*TvEpisodeInfo, bool) {
	var y, mo, d, endIdx int
	matched := false
	if m := reDateISO.FindStringSubmatchIndex(stem); m != nil {
		y, mo, d = atoi(stem[m[2]:m[3]]), atoi(stem[m[4]:m[5]]), atoi(stem[m[6]:m[7]])
		endIdx = m[1]
		matched = true
	} else if m := reDateDMY.FindStringSubmatchIndex(stem); m != nil {
		d, mo, y = atoi(stem[m[2]:m[3]]), atoi(stem[m[4]:m[5]]), atoi(stem[m[6]:m[7]])
		endIdx = m[1]
		matched = true
	}
	if !matched || mo < 1 || mo > 12 || d < 1 || d > 31 {
		return nil, false
	}

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	episode := int(t.Unix() / 86400)
	airDate := fmt.Sprintf("%04d-%02d-%02d", y, mo, d)
	yr := y

	season := y
	if len(folders) > 0 {
		if sm := reSeasonFolder.FindStringSubmatch(folders[len(folders)-1]); sm != nil {
			season = atoi(sm[1])
		}
	}

	return buildTVInfo(folders, stem, stem[endIdx:], absolute, season, episode, nil, &airDate, &yr), true
}

func trimTVPunctuation(s string) string {
	start, end := 0, len(s)
	for start < end && isTVPunct(s[start]) {
		start++
	}
	for end > start && isTVPunct(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isTVPunct(b byte) bool {
	switch b {
	case ' ', '.', '-', '_':
		return true
	default:
		return false
	}
}
