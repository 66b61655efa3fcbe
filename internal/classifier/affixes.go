package classifier

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reExternalID     = regexp.MustCompile(`(?i)[\[{](imdb|tmdb|tvdb)(?:id)?[:\- ]?([A-Za-z0-9]+)[\]}]`)
	rePart           = regexp.MustCompile(`(?i)-\s*\{?(cd|dvd|part|pt|disc|disk)\s*(\d+)\}?`)
	reEditionBraces  = regexp.MustCompile(`(?i)\{edition-([^}]+)\}`)
	reVersionBracket = regexp.MustCompile(`-\s*\[([^\]]+)\]`)
	reDashSegment    = regexp.MustCompile(`-\s*([^-]+)`)
)

// affixResult holds the optional fields parsed out of a classified path's
// suffix (the portion of the stem after the year or episode token).
type affixResult struct {
	Version     *string
	Title       *string // TV only: an episode title distinct from the edition label
	Part        *int
	ExternalIDs map[string]string
}

// parseAffixes extracts version/part/external-id affixes from suffix, the
// tail of the stem following the matched episode or year token. fullStem is
// searched separately for external IDs, since they may sit earlier in the
// name (e.g. right after the show name) rather than after the episode token.
//
// Version resolution is ambiguous by the letter of the spec when two
// dash-delimited labels follow the episode token (e.g. "- Pilot - Director's
// Cut"): read literally as "the first label becomes the version and the
// second becomes the title" it contradicts the worked example, which needs
// the opposite. This implementation follows the worked example: for TV, the
// first label is the episode title and the last is the version; for movies,
// only the first label is ever the version.
func parseAffixes(fullStem, suffix string, isTV bool) affixResult {
	result := affixResult{ExternalIDs: map[string]string{}}

	for _, m := range reExternalID.FindAllStringSubmatch(fullStem, -1) {
		result.ExternalIDs[strings.ToLower(m[1])] = m[2]
	}
	work := reExternalID.ReplaceAllString(suffix, "")

	if m := rePart.FindStringSubmatchIndex(work); m != nil {
		p, _ := strconv.Atoi(work[m[4]:m[5]])
		result.Part = &p
		work = work[:m[0]] + work[m[1]:]
	}

	if m := reEditionBraces.FindStringSubmatchIndex(work); m != nil {
		v := strings.TrimSpace(work[m[2]:m[3]])
		result.Version = &v
		work = work[:m[0]] + work[m[1]:]
		if isTV {
			attachRemainingTitle(work, &result)
		}
		return result
	}

	if m := reVersionBracket.FindStringSubmatchIndex(work); m != nil {
		v := strings.TrimSpace(work[m[2]:m[3]])
		result.Version = &v
		work = work[:m[0]] + work[m[1]:]
		if isTV {
			attachRemainingTitle(work, &result)
		}
		return result
	}

	segments := dashSegments(work)
	if len(segments) == 0 {
		return result
	}
	if !isTV {
		v := segments[0]
		result.Version = &v
		return result
	}
	if len(segments) == 1 {
		v := segments[0]
		result.Version = &v
		return result
	}
	title := segments[0]
	version := segments[len(segments)-1]
	result.Title = &title
	result.Version = &version
	return result
}

func attachRemainingTitle(work string, result *affixResult) {
	segs := dashSegments(work)
	if len(segs) == 0 {
		return
	}
	t := segs[0]
	result.Title = &t
}

func dashSegments(s string) []string {
	var out []string
	for _, m := range reDashSegment.FindAllStringSubmatch(s, -1) {
		t := strings.TrimSpace(m[1])
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
