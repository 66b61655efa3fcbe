package icons

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectExtension_RecognizesEachFormat(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpg"},
		{"gif", []byte("GIF89a"), "gif"},
		{"bmp", []byte{0x42, 0x4D, 0x00, 0x00}, "bmp"},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00"), []byte("WEBP")...), "webp"},
		{"unknown falls back to png", []byte{0x00, 0x01, 0x02}, "png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectExtension(tc.data))
		})
	}
}

func TestContentType_MapsKnownExtensions(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("png"))
	assert.Equal(t, "image/jpeg", ContentType("jpg"))
	assert.Equal(t, "image/jpeg", ContentType("jpeg"))
	assert.Equal(t, "image/gif", ContentType("gif"))
	assert.Equal(t, "image/bmp", ContentType("bmp"))
	assert.Equal(t, "image/webp", ContentType("webp"))
	assert.Equal(t, "application/octet-stream", ContentType("tiff"))
}

func TestStore_SaveLoadRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	id := uuid.New()

	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0xFF}
	ext, err := store.Save(id, png)
	require.NoError(t, err)
	assert.Equal(t, "png", ext)

	loaded, err := store.Load(id, ext)
	require.NoError(t, err)
	assert.Equal(t, png, loaded)

	store.Remove(id)
	_, err = store.Load(id, ext)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_SaveReplacesPreviousExtension(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	id := uuid.New()

	_, err := store.Save(id, []byte("GIF89a"))
	require.NoError(t, err)

	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	ext, err := store.Save(id, jpeg)
	require.NoError(t, err)
	assert.Equal(t, "jpg", ext)

	_, err = store.Load(id, "gif")
	assert.True(t, os.IsNotExist(err))
}
