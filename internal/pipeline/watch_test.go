package pipeline

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/dubmix/internal/media"
	"github.com/clipforge/dubmix/internal/pairing"
)

func newTestWatchState() *watchState {
	return &watchState{
		log:      hclog.NewNullLogger(),
		catalog:  media.NewCatalog(),
		mixed:    make(map[string]bool),
		resolver: pairing.NewOutputResolver(),
	}
}

func watchVideo(path string) media.VideoAsset {
	return media.NewVideoAsset(path, media.Rational{Num: 30, Den: 1}, 10, 1920, 1080, true)
}

func watchAudio(path string, category media.Category) media.AudioAsset {
	return media.NewAudioAsset(path, "", category, 4, 48000)
}

func TestWatchAdmitAudioDedupesByPath(t *testing.T) {
	w := newTestWatchState()
	v := watchVideo("/in/intro.mp4")
	w.admitVideo(v)

	// A re-save fires a second event for the same path; the clip must not
	// be attached twice.
	w.admitAudio(watchAudio("/in/a1_intro.wav", media.CategoryVoice))
	w.admitAudio(watchAudio("/in/a1_intro.wav", media.CategoryVoice))

	assert.Len(t, w.catalog.Audio(v.ID), 1)
}

func TestWatchAdmitVideoDedupesByPath(t *testing.T) {
	w := newTestWatchState()
	w.admitVideo(watchVideo("/in/intro.mp4"))
	w.admitVideo(watchVideo("/in/intro.mp4"))

	assert.Equal(t, 1, w.catalog.Len())
}

func TestWatchAdmitUnpairedAudioDeduped(t *testing.T) {
	w := newTestWatchState()
	w.admitAudio(watchAudio("/in/a1_stray.wav", media.CategoryVoice))
	w.admitAudio(watchAudio("/in/a1_stray.wav", media.CategoryVoice))

	assert.Len(t, w.unpaired, 1)
}

func TestWatchLateVideoClaimsUnpairedPool(t *testing.T) {
	// Audio arrives before its video; the pool holds it until the video
	// is admitted.
	w := newTestWatchState()
	w.admitAudio(watchAudio("/in/a1_intro.wav", media.CategoryVoice))
	require.Len(t, w.unpaired, 1)

	v := watchVideo("/in/intro.mp4")
	w.admitVideo(v)

	assert.Empty(t, w.unpaired)
	assert.Len(t, w.catalog.Audio(v.ID), 1)
}
