package classifier

import "strings"

var extraFolderNames = map[string]ExtraType{
	"behind the scenes": ExtraBehindTheScenes,
	"deleted scenes":    ExtraDeleted,
	"interviews":        ExtraInterview,
	"scenes":            ExtraScene,
	"samples":           ExtraSample,
	"shorts":            ExtraShort,
	"featurettes":       ExtraFeaturette,
	"clips":             ExtraClip,
	"others":            ExtraOther,
	"extras":            ExtraGeneric,
	"trailers":          ExtraTrailer,
}

var extraSuffixes = []struct {
	suffix string
	kind   ExtraType
}{
	{"-behindthescenes", ExtraBehindTheScenes},
	{"-deleted", ExtraDeleted},
	{"-featurette", ExtraFeaturette},
	{"-interview", ExtraInterview},
	{"-scene", ExtraScene},
	{"-short", ExtraShort},
	{"-trailer", ExtraTrailer},
	{"-other", ExtraOther},
}

// detectExtra checks every ancestor folder for an exact (lowercased) match
// against the known extra-folder names, then falls back to a filename-stem
// suffix check.
func detectExtra(folders []string, stem string) (ExtraType, bool) {
	for _, f := range folders {
		if et, ok := extraFolderNames[strings.ToLower(f)]; ok {
			return et, true
		}
	}
	lower := strings.ToLower(stem)
	for _, s := range extraSuffixes {
		if strings.Contains(lower, s.suffix) {
			return s.kind, true
		}
	}
	return "", false
}
