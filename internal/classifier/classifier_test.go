package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_SeasonFolderWithBareEpisode(t *testing.T) {
	r := Classify("/media/TV/Some Show/Season 2/E05.mkv")
	require.Equal(t, KindTvEpisode, r.Kind)
	tv := r.TvEpisode
	assert.Equal(t, "/media/TV/Some Show", tv.SourcePath)
	assert.Equal(t, "Some Show", tv.ShowName)
	assert.Equal(t, 2, tv.Season)
	assert.Equal(t, 5, tv.Episode)
}

func TestClassify_SxxEyyWithEpisodeTitleAndEdition(t *testing.T) {
	r := Classify("/media/TV/Example/Season 1/Example.S01E03 - Pilot - Directors Cut.mkv")
	require.Equal(t, KindTvEpisode, r.Kind)
	tv := r.TvEpisode
	assert.Equal(t, 1, tv.Season)
	assert.Equal(t, 3, tv.Episode)
	require.NotNil(t, tv.Title)
	assert.Equal(t, "Pilot", *tv.Title)
	require.NotNil(t, tv.Version)
	assert.Equal(t, "Directors Cut", *tv.Version)
	assert.Equal(t, "/media/TV/Example", tv.SourcePath)
}

func TestClassify_MovieWithSourcePath(t *testing.T) {
	r := Classify("/Movies/Avatar (2009)/Avatar (2009).mkv")
	require.Equal(t, KindMovie, r.Kind)
	mv := r.Movie
	assert.Equal(t, "Avatar", mv.Title)
	require.NotNil(t, mv.Year)
	assert.Equal(t, 2009, *mv.Year)
	require.NotNil(t, mv.SourcePath)
	assert.Equal(t, "/Movies/Avatar (2009)", *mv.SourcePath)
}

func TestClassify_MovieFolderMismatchHasNoSourcePath(t *testing.T) {
	r := Classify("/Movies/Downloads/Avatar (2009).mkv")
	require.Equal(t, KindMovie, r.Kind)
	assert.Nil(t, r.Movie.SourcePath)
}

func TestClassify_MultiPartMovie(t *testing.T) {
	r1 := Classify("/Movies/Avatar (2009)/Avatar (2009) - part1.mkv")
	r2 := Classify("/Movies/Avatar (2009)/Avatar (2009) - part2.mkv")
	require.Equal(t, KindMovie, r1.Kind)
	require.Equal(t, KindMovie, r2.Kind)
	require.NotNil(t, r1.Movie.Part)
	require.NotNil(t, r2.Movie.Part)
	assert.Equal(t, 1, *r1.Movie.Part)
	assert.Equal(t, 2, *r2.Movie.Part)
}

func TestClassify_ExtraByAncestorFolder(t *testing.T) {
	r := Classify("/Movies/Avatar (2009)/Behind The Scenes/Making Of.mkv")
	require.Equal(t, KindExtra, r.Kind)
	assert.Equal(t, ExtraBehindTheScenes, r.Extra.ExtraType)
}

func TestClassify_ExtraByFilenameSuffix(t *testing.T) {
	r := Classify("/Movies/Avatar (2009)/Avatar-trailer.mkv")
	require.Equal(t, KindExtra, r.Kind)
	assert.Equal(t, ExtraTrailer, r.Extra.ExtraType)
}

func TestClassify_SpecialsFolderIsSeasonZero(t *testing.T) {
	r := Classify("/media/TV/Some Show/Specials/E01.mkv")
	require.Equal(t, KindTvEpisode, r.Kind)
	assert.Equal(t, 0, r.TvEpisode.Season)
	assert.Equal(t, 1, r.TvEpisode.Episode)
}

func TestClassify_EpisodeRange(t *testing.T) {
	r := Classify("/media/TV/Show/Season 1/Show.S01E01-E02.mkv")
	require.Equal(t, KindTvEpisode, r.Kind)
	require.NotNil(t, r.TvEpisode.EpEnd)
	assert.Equal(t, 2, *r.TvEpisode.EpEnd)
}

func TestClassify_InvalidDateFallsThroughToMovie(t *testing.T) {
	r := Classify("/media/Movies/Something.2024-13-40 (2024).mkv")
	require.Equal(t, KindMovie, r.Kind)
}

func TestClassify_InvalidDateWithNoYearFallsThroughToGeneric(t *testing.T) {
	r := Classify("/media/Unsorted/Something.2024-13-40.mkv")
	require.Equal(t, KindGeneric, r.Kind)
}

func TestClassify_DateBasedEpisode(t *testing.T) {
	r := Classify("/media/TV/Nightly Show/Nightly Show 2021-03-15.mkv")
	require.Equal(t, KindTvEpisode, r.Kind)
	tv := r.TvEpisode
	require.NotNil(t, tv.AirDate)
	assert.Equal(t, "2021-03-15", *tv.AirDate)
	require.NotNil(t, tv.Year)
	assert.Equal(t, 2021, *tv.Year)
}

func TestClassify_PreEpochDateYieldsNegativeEpisode(t *testing.T) {
	r := Classify("/media/TV/Old Show/Old Show 1969-01-01.mkv")
	require.Equal(t, KindTvEpisode, r.Kind)
	assert.Less(t, r.TvEpisode.Episode, 0)
}

func TestClassify_ExternalIDs(t *testing.T) {
	r := Classify("/Movies/Avatar (2009) [tmdb-19995]/Avatar (2009) [tmdb-19995].mkv")
	require.Equal(t, KindMovie, r.Kind)
	assert.Equal(t, "19995", r.Movie.ExternalIDs["tmdb"])
}

func TestClassify_GenericFallback(t *testing.T) {
	r := Classify("/media/Unsorted/randomfile.mkv")
	require.Equal(t, KindGeneric, r.Kind)
	assert.Equal(t, "randomfile.mkv", r.Generic.Title)
}

func TestClassify_RelativePathPreserved(t *testing.T) {
	r := Classify("Movies/Avatar (2009)/Avatar (2009).mkv")
	require.Equal(t, KindMovie, r.Kind)
	require.NotNil(t, r.Movie.SourcePath)
	assert.False(t, (*r.Movie.SourcePath)[0] == '/')
}

func TestClassify_Deterministic(t *testing.T) {
	path := "/media/TV/Example/Season 1/Example.S01E03 - Pilot - Directors Cut.mkv"
	a := Classify(path)
	b := Classify(path)
	assert.Equal(t, a, b)
}
