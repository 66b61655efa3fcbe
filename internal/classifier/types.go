// Package classifier turns a filesystem path into a typed classification of
// what the file represents — a TV episode, a movie, an extra, or a generic
// fallback — by convention alone. Classify never touches the filesystem: it
// is a pure function of the path string, so it is deterministic and safe to
// call from tests without fixtures on disk.
package classifier

// Kind is the discriminant of a Result. Exactly one of the pointer fields on
// Result is non-nil for the matching Kind, following the closed-sum shape
// ItemKind mirrors in the store.
type Kind string

const (
	KindExtra     Kind = "extra"
	KindTvEpisode Kind = "tv_episode"
	KindMovie     Kind = "movie"
	KindGeneric   Kind = "generic"
)

// ExtraType categorizes a supplementary video attached to its parent item.
type ExtraType string

const (
	ExtraBehindTheScenes ExtraType = "behindthescenes"
	ExtraDeleted         ExtraType = "deleted"
	ExtraFeaturette      ExtraType = "featurette"
	ExtraInterview       ExtraType = "interview"
	ExtraScene           ExtraType = "scene"
	ExtraShort           ExtraType = "short"
	ExtraTrailer         ExtraType = "trailer"
	ExtraOther           ExtraType = "other"
	ExtraSample          ExtraType = "sample"
	ExtraClip            ExtraType = "clip"
	ExtraGeneric         ExtraType = "extra"
)

// ExtraInfo is the payload of a Kind == KindExtra Result.
type ExtraInfo struct {
	Path      string
	ExtraType ExtraType
}

// TvEpisodeInfo is the payload of a Kind == KindTvEpisode Result.
type TvEpisodeInfo struct {
	ShowName    string
	SourcePath  string
	Season      int
	Episode     int
	Title       *string
	EpEnd       *int
	AirDate     *string
	Year        *int
	Part        *int
	Version     *string
	ExternalIDs map[string]string
}

// MovieInfo is the payload of a Kind == KindMovie Result.
type MovieInfo struct {
	Title       string
	SourcePath  *string
	Year        *int
	Part        *int
	Version     *string
	ExternalIDs map[string]string
}

// GenericInfo is the payload of a Kind == KindGeneric Result.
type GenericInfo struct {
	Title string
}

// Result is the tagged union Classify returns. Callers switch on Kind rather
// than checking which pointer is set. Go does not check such switches for
// exhaustiveness, so a new variant is not caught at compile time.
type Result struct {
	Kind      Kind
	Extra     *ExtraInfo
	TvEpisode *TvEpisodeInfo
	Movie     *MovieInfo
	Generic   *GenericInfo
}
