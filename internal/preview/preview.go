// Package preview renders and plays a short window of a session's mix
// without touching the batch output. Preview runs on its own execution
// path, never through the scheduler pool, so a busy batch cannot delay
// playback.
package preview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/clipforge/dubmix/internal/config"
	"github.com/clipforge/dubmix/internal/engine"
	"github.com/clipforge/dubmix/internal/planner"
	"github.com/clipforge/dubmix/internal/session"
)

// Controller builds preview clips and hands them to the player. A
// controller previews one session at a time; starting a new preview while
// one is playing requires cancelling the first.
type Controller struct {
	runner engine.Runner
	player engine.Player
	log    hclog.Logger
	tmpDir string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewController wires a preview controller. tmpDir receives the transient
// preview artifact; empty means the OS temp directory.
func NewController(runner engine.Runner, player engine.Player, log hclog.Logger, tmpDir string) *Controller {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &Controller{
		runner: runner,
		player: player,
		log:    log.Named("preview"),
		tmpDir: tmpDir,
	}
}

// Run renders the configured window of the session's mix into a temp file
// and plays it. The temp artifact is deleted on every exit path: success,
// encode failure, playback failure, and cancellation. The mix is previewed
// against the original video; gap-fill extension is skipped, so a window
// past the video's end is clipped.
func (c *Controller) Run(ctx context.Context, cfg *config.Config, sess session.MixSession) error {
	plan, err := planner.Build(cfg, sess)
	if err != nil {
		return fmt.Errorf("preview plan: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		cancel()
		return fmt.Errorf("preview already running")
	}
	c.cancel = cancel
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.cancel = nil
		c.mu.Unlock()
	}()

	token := sess.ID
	if len(token) > 8 {
		token = token[:8]
	}
	tmp := filepath.Join(c.tmpDir, fmt.Sprintf("dubmix_preview_%s.mp4", token))
	defer os.Remove(tmp)

	c.log.Debug("rendering preview",
		"video", sess.Video.DisplayName,
		"start", cfg.PreviewStart, "duration", cfg.PreviewDuration)

	args := engine.PreviewArgs(plan, "", cfg.PreviewStart, cfg.PreviewDuration, tmp)
	if err := c.runner.Run(ctx, args); err != nil {
		return fmt.Errorf("preview encode: %w", err)
	}

	if err := c.player.Play(ctx, tmp, sess.Video.DisplayName); err != nil {
		return fmt.Errorf("preview playback: %w", err)
	}
	return nil
}

// Cancel stops the in-flight preview, killing the encode or the player.
// It is a no-op when nothing is running.
func (c *Controller) Cancel() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
}
