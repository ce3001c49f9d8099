package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestDiscoverSplitsAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.mp4"))
	touch(t, filepath.Join(dir, "a.mov"))
	touch(t, filepath.Join(dir, "sub", "c.mkv"))
	touch(t, filepath.Join(dir, "a_vo.wav"))
	touch(t, filepath.Join(dir, "sub", "bgm.mp3"))
	touch(t, filepath.Join(dir, "notes.txt"))

	videos, audios, err := Discover([]string{dir})
	require.NoError(t, err)

	require.Len(t, videos, 3)
	assert.Equal(t, filepath.Join(dir, "a.mov"), videos[0])
	assert.Equal(t, filepath.Join(dir, "b.mp4"), videos[1])
	assert.Equal(t, filepath.Join(dir, "sub", "c.mkv"), videos[2])

	require.Len(t, audios, 2)
	assert.Equal(t, filepath.Join(dir, "a_vo.wav"), audios[0])
	assert.Equal(t, filepath.Join(dir, "sub", "bgm.mp3"), audios[1])
}

func TestDiscoverSkipsOwnOutputs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "intro.mp4"))
	touch(t, filepath.Join(dir, "intro_mixed.mp4"))
	touch(t, filepath.Join(dir, "intro_mixed_2.mp4"))

	videos, _, err := Discover([]string{dir})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, filepath.Join(dir, "intro.mp4"), videos[0])
}

func TestDiscoverAcceptsPlainFiles(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "intro.mp4")
	audio := filepath.Join(dir, "intro.wav")
	touch(t, video)
	touch(t, audio)

	videos, audios, err := Discover([]string{video, audio})
	require.NoError(t, err)
	assert.Equal(t, []string{video}, videos)
	assert.Equal(t, []string{audio}, audios)
}

func TestDiscoverDeduplicates(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "intro.mp4")
	touch(t, video)

	videos, _, err := Discover([]string{dir, video})
	require.NoError(t, err)
	assert.Equal(t, []string{video}, videos)
}

func TestDiscoverMissingInput(t *testing.T) {
	_, _, err := Discover([]string{"/nonexistent/path"})
	assert.Error(t, err)
}

func TestPathClassifiers(t *testing.T) {
	assert.True(t, IsVideoPath("/in/a.MP4"))
	assert.True(t, IsAudioPath("/in/a.FLAC"))
	assert.False(t, IsVideoPath("/in/a.wav"))
	assert.False(t, IsAudioPath("/in/a.txt"))
}
