package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/dubmix/internal/config"
	"github.com/clipforge/dubmix/internal/media"
	"github.com/clipforge/dubmix/internal/session"
)

// writeRunner simulates the preview encode by creating the output file.
type writeRunner struct {
	err  error
	last string
}

func (r *writeRunner) Run(ctx context.Context, args []string) error {
	if r.err != nil {
		return r.err
	}
	r.last = args[len(args)-1]
	return os.WriteFile(r.last, []byte("x"), 0644)
}

// recordPlayer records what it was asked to play.
type recordPlayer struct {
	err    error
	played string
}

func (p *recordPlayer) Play(ctx context.Context, path, title string) error {
	p.played = path
	return p.err
}

func previewSession(t *testing.T) session.MixSession {
	t.Helper()
	video := media.NewVideoAsset("/in/intro.mp4", media.Rational{Num: 30, Den: 1}, 10, 1920, 1080, true)
	clip := media.NewAudioAsset("/in/intro_vo.wav", "intro_vo", media.CategoryVoice, 4, 48000)
	return session.New(video, []media.AudioAsset{clip}, session.DefaultTrackConfig(), "")
}

func previewCfg() *config.Config {
	cfg := config.DefaultConfig()
	return &cfg
}

func TestRunPlaysAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	runner := &writeRunner{}
	player := &recordPlayer{}
	ctl := NewController(runner, player, hclog.NewNullLogger(), dir)

	err := ctl.Run(context.Background(), previewCfg(), previewSession(t))
	require.NoError(t, err)

	require.NotEmpty(t, player.played)
	assert.Equal(t, dir, filepath.Dir(player.played))

	_, statErr := os.Stat(player.played)
	assert.True(t, os.IsNotExist(statErr), "preview artifact must be deleted after playback")
}

func TestRunCleansUpOnEncodeFailure(t *testing.T) {
	dir := t.TempDir()
	runner := &writeRunner{err: errors.New("encode failed")}
	player := &recordPlayer{}
	ctl := NewController(runner, player, hclog.NewNullLogger(), dir)

	err := ctl.Run(context.Background(), previewCfg(), previewSession(t))
	require.Error(t, err)
	assert.Empty(t, player.played, "player must not run after a failed encode")

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRunCleansUpOnPlaybackFailure(t *testing.T) {
	dir := t.TempDir()
	runner := &writeRunner{}
	player := &recordPlayer{err: errors.New("ffplay crashed")}
	ctl := NewController(runner, player, hclog.NewNullLogger(), dir)

	err := ctl.Run(context.Background(), previewCfg(), previewSession(t))
	require.Error(t, err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "preview artifact must be deleted after a playback failure")
}

func TestCancelIsIdempotent(t *testing.T) {
	ctl := NewController(&writeRunner{}, &recordPlayer{}, hclog.NewNullLogger(), t.TempDir())
	ctl.Cancel()
	ctl.Cancel()
}

func TestRunRejectsConcurrentPreview(t *testing.T) {
	dir := t.TempDir()
	started := make(chan struct{})
	release := make(chan struct{})
	runner := &blockRunner{started: started, release: release}
	ctl := NewController(runner, &recordPlayer{}, hclog.NewNullLogger(), dir)

	go func() {
		ctl.Run(context.Background(), previewCfg(), previewSession(t))
	}()
	<-started

	err := ctl.Run(context.Background(), previewCfg(), previewSession(t))
	assert.Error(t, err)
	close(release)
}

type blockRunner struct {
	started chan struct{}
	release chan struct{}
}

func (r *blockRunner) Run(ctx context.Context, args []string) error {
	close(r.started)
	select {
	case <-r.release:
	case <-ctx.Done():
	}
	return ctx.Err()
}
