package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcePathTracker_TracksFirstAndAcceptsRepeats(t *testing.T) {
	tr := NewSourcePathTracker()
	require.Nil(t, tr.Active())

	require.NoError(t, tr.Track("/Movies/Avatar (2009)", "/Movies/Avatar (2009)/Avatar (2009).mkv"))
	require.NotNil(t, tr.Active())
	assert.Equal(t, "/Movies/Avatar (2009)", *tr.Active())

	require.NoError(t, tr.Track("/Movies/Avatar (2009)", "/Movies/Avatar (2009)/Avatar (2009) - part2.mkv"))
	assert.Equal(t, "/Movies/Avatar (2009)", *tr.Active())
}

func TestSourcePathTracker_ConflictingSourcePathErrors(t *testing.T) {
	tr := NewSourcePathTracker()
	require.NoError(t, tr.Track("/Movies/Avatar (2009)", "/Movies/Avatar (2009)/Avatar (2009).mkv"))

	err := tr.Track("/Movies/Other (2010)", "/Movies/Avatar (2009)/Other (2010).mkv")
	require.Error(t, err)
	var se *ScanError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ErrLayoutConflict, se.Kind)
}

func TestSourcePathTracker_ClearResetsActive(t *testing.T) {
	tr := NewSourcePathTracker()
	require.NoError(t, tr.Track("/Movies/Avatar (2009)", "/Movies/Avatar (2009)/Avatar (2009).mkv"))
	tr.Clear()
	assert.Nil(t, tr.Active())
	require.NoError(t, tr.Track("/Movies/Other (2010)", "/Movies/Other (2010)/Other (2010).mkv"))
}

func TestTempBuffer_AccumulatesAndClears(t *testing.T) {
	buf := NewTempBuffer()
	assert.Empty(t, buf.NewContent)
	assert.Empty(t, buf.Extras)

	buf.AddNewContent(NewContentItem{FilePath: "/Movies/Avatar (2009)/Avatar (2009).mkv"})
	buf.AddExtra(ExtraItem{FilePath: "/Movies/Avatar (2009)/Extras/Trailer.mkv"})
	assert.Len(t, buf.NewContent, 1)
	assert.Len(t, buf.Extras, 1)

	buf.Clear()
	assert.Empty(t, buf.NewContent)
	assert.Empty(t, buf.Extras)
}

func TestAbortsScan(t *testing.T) {
	assert.False(t, abortsScan(&ScanError{Kind: ErrTransientIO}))
	assert.False(t, abortsScan(&ScanError{Kind: ErrLayoutConflict}))
	assert.True(t, abortsScan(&ScanError{Kind: ErrStoreError}))
	assert.True(t, abortsScan(&ScanError{Kind: ErrMigrationInconsistency}))
	assert.True(t, abortsScan(assertPlainError{}))
}

type assertPlainError struct{}

func (assertPlainError) Error() string { return "plain" }

func TestIsVideoFile(t *testing.T) {
	assert.True(t, isVideoFile("/media/movie.mkv"))
	assert.True(t, isVideoFile("/media/movie.MP4"))
	assert.True(t, isVideoFile("/media/movie.m2ts"))
	assert.False(t, isVideoFile("/media/movie.nfo"))
	assert.False(t, isVideoFile("/media/poster.jpg"))
	assert.False(t, isVideoFile("/media/readme"))
}

func TestEditionEqual(t *testing.T) {
	a := "Directors Cut"
	b := "Directors Cut"
	c := "Extended"
	assert.True(t, editionEqual(nil, nil))
	assert.False(t, editionEqual(&a, nil))
	assert.False(t, editionEqual(nil, &b))
	assert.True(t, editionEqual(&a, &b))
	assert.False(t, editionEqual(&a, &c))
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "Trailer", titleFromFilename("/Movies/Avatar (2009)/Extras/Trailer.mkv"))
	assert.Equal(t, "behind.the.scenes", titleFromFilename("/Movies/Avatar (2009)/Extras/behind.the.scenes.mkv"))
	assert.Equal(t, "noext", titleFromFilename("/Movies/Avatar (2009)/Extras/noext"))
}

func TestIsSpecialsFolder(t *testing.T) {
	assert.True(t, isSpecialsFolder("Specials"))
	assert.True(t, isSpecialsFolder("special"))
	assert.False(t, isSpecialsFolder("Season 1"))
	assert.False(t, isSpecialsFolder("Extras"))
}

func TestReExtraSeason(t *testing.T) {
	m := reExtraSeason.FindStringSubmatch("Season 2")
	require.NotNil(t, m)
	assert.Equal(t, "2", m[1])
	assert.Nil(t, reExtraSeason.FindStringSubmatch("Season 2 Extras"))
}

func TestReExtraSxxExx(t *testing.T) {
	m := reExtraSxxExx.FindStringSubmatch("Some.Show.S01E05.mkv")
	require.NotNil(t, m)
	assert.Equal(t, "01", m[1])
	assert.Equal(t, "05", m[2])
}

func TestScanErrorUnwrap(t *testing.T) {
	inner := assertPlainError{}
	se := &ScanError{Kind: ErrStoreError, Err: inner}
	assert.Equal(t, inner, se.Unwrap())
	assert.Contains(t, se.Error(), "store_error")
}
