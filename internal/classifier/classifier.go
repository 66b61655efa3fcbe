package classifier

// Classify runs the staged, first-match-wins decision procedure over path:
// extra detection, numbered TV, date-based TV, movie, generic fallback. It
// never touches the filesystem — path need not exist.
func Classify(path string) Result {
	segments, absolute := normalizePath(path)
	if len(segments) == 0 {
		return Result{Kind: KindGeneric, Generic: &GenericInfo{Title: path}}
	}

	filename := segments[len(segments)-1]
	folders := segments[:len(segments)-1]
	stem := stemOf(filename)

	if et, ok := detectExtra(folders, stem); ok {
		return Result{Kind: KindExtra, Extra: &ExtraInfo{Path: path, ExtraType: et}}
	}
	if tv, ok := detectNumberedTV(folders, stem, absolute); ok {
		return Result{Kind: KindTvEpisode, TvEpisode: tv}
	}
	if tv, ok := detectDateTV(folders, stem, absolute); ok {
		return Result{Kind: KindTvEpisode, TvEpisode: tv}
	}
	if mv, ok := detectMovie(folders, stem, absolute); ok {
		return Result{Kind: KindMovie, Movie: mv}
	}
	return Result{Kind: KindGeneric, Generic: &GenericInfo{Title: filename}}
}
