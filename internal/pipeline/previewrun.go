package pipeline

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/clipforge/dubmix/internal/check"
	"github.com/clipforge/dubmix/internal/config"
	"github.com/clipforge/dubmix/internal/engine"
	"github.com/clipforge/dubmix/internal/pairing"
	"github.com/clipforge/dubmix/internal/preview"
	"github.com/clipforge/dubmix/internal/session"
)

// Preview discovers and pairs media like a batch run, then renders and
// plays the preview window of the first paired video. No mix output is
// written.
func Preview(ctx context.Context, cfg *config.Config, log hclog.Logger) error {
	if !check.HaveFfplay() {
		return fmt.Errorf("ffplay not found on PATH; preview playback needs it")
	}

	videoPaths, audioPaths, err := Discover(cfg.InputDirs)
	if err != nil {
		return err
	}

	catalog, audios := buildCatalog(ctx, log, videoPaths, audioPaths)

	res := pairing.Resolve(audios, catalog.Videos())
	for videoID, clips := range res.Paired {
		catalog.AttachAudio(videoID, clips...)
	}

	for _, video := range catalog.Videos() {
		clips := catalog.Audio(video.ID)
		if len(clips) == 0 {
			continue
		}
		sess := session.New(video, clips, trackConfig(cfg), "")
		log.Info("previewing", "video", video.DisplayName,
			"start", cfg.PreviewStart, "duration", cfg.PreviewDuration)

		runner := engine.NewFFmpeg(cfg.Verbose, log)
		ctl := preview.NewController(runner, engine.NewFFplay(), log, "")
		return ctl.Run(ctx, cfg, sess)
	}
	return fmt.Errorf("no paired video to preview")
}
