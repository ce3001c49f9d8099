package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/clipforge/dubmix/internal/config"
	"github.com/clipforge/dubmix/internal/display"
	"github.com/clipforge/dubmix/internal/engine"
	"github.com/clipforge/dubmix/internal/media"
	"github.com/clipforge/dubmix/internal/pairing"
	"github.com/clipforge/dubmix/internal/planner"
	"github.com/clipforge/dubmix/internal/scheduler"
	"github.com/clipforge/dubmix/internal/session"
	"github.com/clipforge/dubmix/internal/term"
)

// Run is the top-level batch entry point. It discovers media under the
// input paths, probes everything into a catalog, pairs audio to videos by
// name, builds one plan per paired video, and executes the plans on the
// scheduler pool. Returns aggregate stats; the process exit code is
// derived from them.
func Run(ctx context.Context, cfg *config.Config, log hclog.Logger) RunStats {
	var stats RunStats

	videoPaths, audioPaths, err := Discover(cfg.InputDirs)
	if err != nil {
		log.Error("file discovery failed", "error", err)
		stats.Failed++
		return stats
	}
	stats.VideosFound = len(videoPaths)
	stats.AudiosFound = len(audioPaths)
	log.Info("discovered media", "videos", len(videoPaths), "audios", len(audioPaths))

	catalog, audios := buildCatalog(ctx, log, videoPaths, audioPaths)

	res := pairing.Resolve(audios, catalog.Videos())
	for videoID, clips := range res.Paired {
		catalog.AttachAudio(videoID, clips...)
	}
	for _, clip := range res.Unpaired {
		log.Warn("audio matched no video", "clip", clip.DisplayName, "path", clip.Path)
	}
	stats.UnpairedAudio = len(res.Unpaired)

	plans := buildPlans(cfg, log, catalog, &stats)
	if len(plans) == 0 {
		logSummary(log, &stats)
		return stats
	}

	if cfg.DryRun {
		for _, plan := range plans {
			printPlan(plan)
		}
		stats.Mixed = len(plans)
		logSummary(log, &stats)
		return stats
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Error("cannot create output directory", "error", err)
			stats.Failed = len(plans)
			return stats
		}
	}

	runner := engine.NewFFmpeg(cfg.Verbose, log)
	sched := scheduler.New(ctx, cfg.EffectiveWorkers(), runner, log)
	executePlans(sched, log, plans, &stats)
	sched.Close()

	logSummary(log, &stats)
	return stats
}

// buildCatalog probes every discovered file. Probe failures are warnings;
// the file is skipped and the batch continues.
func buildCatalog(
	ctx context.Context,
	log hclog.Logger,
	videoPaths, audioPaths []string,
) (*media.Catalog, []media.AudioAsset) {
	catalog := media.NewCatalog()

	for _, path := range videoPaths {
		if ctx.Err() != nil {
			break
		}
		v, err := AnalyzeVideo(ctx, path)
		if err != nil {
			log.Warn("cannot probe video, skipping", "path", path, "error", err)
			continue
		}
		catalog.AddVideo(v)
	}

	var audios []media.AudioAsset
	for _, path := range audioPaths {
		if ctx.Err() != nil {
			break
		}
		a, err := AnalyzeAudio(ctx, path)
		if err != nil {
			log.Warn("cannot probe audio, skipping", "path", path, "error", err)
			continue
		}
		audios = append(audios, a)
	}
	return catalog, audios
}

// buildPlans creates one session and plan per video that received audio.
// Videos with no paired clips are skipped, not failed.
func buildPlans(cfg *config.Config, log hclog.Logger, catalog *media.Catalog, stats *RunStats) []*planner.MixPlan {
	resolver := pairing.NewOutputResolver()
	var plans []*planner.MixPlan

	for _, video := range catalog.Videos() {
		clips := catalog.Audio(video.ID)
		if len(clips) == 0 {
			log.Debug("no paired audio, skipping", "video", video.DisplayName)
			stats.Skipped++
			continue
		}

		outputPath := resolver.Resolve(video.ID, pairing.MixOutputPath(video.Path, cfg.OutputDir))
		sess := session.New(video, clips, trackConfig(cfg), outputPath)
		stats.Sessions++

		plan, err := planner.Build(cfg, sess)
		if err != nil {
			log.Error("plan build failed", "video", video.DisplayName, "error", err)
			stats.Failed++
			continue
		}
		for _, w := range plan.Warnings {
			log.Warn(w.Message, "video", video.DisplayName)
		}
		if plan.HasWarning(planner.WarnPlacementFallback) {
			stats.Fallbacks++
		}
		plans = append(plans, plan)
	}
	return plans
}

// executePlans submits every plan and waits for all results. Progress is
// drained per handle so stage transitions show up in debug logs.
func executePlans(sched *scheduler.Scheduler, log hclog.Logger, plans []*planner.MixPlan, stats *RunStats) {
	handles := make([]*scheduler.Handle, 0, len(plans))
	var wg sync.WaitGroup

	for _, plan := range plans {
		h, err := sched.Submit(plan)
		if err != nil {
			log.Error("submit failed", "output", plan.OutputPath, "error", err)
			stats.Failed++
			continue
		}
		handles = append(handles, h)

		wg.Add(1)
		go func(h *scheduler.Handle, name string) {
			defer wg.Done()
			for st := range h.Progress() {
				log.Debug("stage", "output", name, "stage", string(st))
			}
		}(h, filepath.Base(plan.OutputPath))
	}

	for _, h := range handles {
		res := <-h.Done()
		switch {
		case errors.Is(res.Err, scheduler.ErrCanceled):
			stats.Canceled++
			log.Warn("mix canceled", "output", filepath.Base(res.OutputPath))
		case res.Err != nil:
			stats.Failed++
			log.Error("mix failed", "output", filepath.Base(res.OutputPath), "error", res.Err)
			if diag := engine.Diagnostic(res.Err); diag != "" {
				log.Debug("ffmpeg stderr", "detail", diag)
			}
		default:
			stats.Mixed++
			var size int64
			if fi, err := os.Stat(res.OutputPath); err == nil {
				size = fi.Size()
				stats.TotalOutputBytes += size
			}
			log.Info("mixed "+filepath.Base(res.OutputPath),
				"elapsed", display.FormatElapsed(res.Elapsed),
				"size", display.FormatBytes(size))
		}
	}
	wg.Wait()
}

// trackConfig derives per-session track settings from the runtime config.
func trackConfig(cfg *config.Config) session.TrackConfig {
	tc := session.DefaultTrackConfig()
	tc.OverrideOriginalAudio = cfg.OverrideOriginalAudio
	tc.EnableLimiter = cfg.EnableLimiter
	if cfg.LimiterFilter != "" {
		tc.LimiterFilter = cfg.LimiterFilter
	}
	tc.MusicRetryLimit = cfg.MusicRetryLimit
	tc.MusicRandomSeed = cfg.MusicSeed
	return tc
}

// printPlan writes a dry-run rendition of one plan to stdout.
func printPlan(plan *planner.MixPlan) {
	fmt.Printf("%s%s%s\n", term.Cyan, plan.OutputPath, term.NC)
	fmt.Printf("  video: %s\n", plan.VideoInput.Path)
	for _, in := range plan.AudioInputs {
		fmt.Printf("  audio: %s\n", in.Path)
	}
	if len(plan.AudioInputs) > 0 || plan.IncludeOriginalAudio {
		fmt.Printf("  music offset: %s\n", display.FormatOffset(plan.MusicOffsetSeconds))
	}
	if plan.NeedsGapFill {
		fmt.Printf("  gap fill: %s of black\n", display.FormatOffset(plan.GapFillSeconds))
	}
	for _, entry := range plan.FilterGraph {
		fmt.Printf("  %sfilter:%s %s\n", term.Dim, term.NC, entry)
	}
	for _, w := range plan.Warnings {
		fmt.Printf("  %swarning:%s %s\n", term.Yellow, term.NC, w.Message)
	}
	fmt.Println()
}

// logSummary reports the batch outcome.
func logSummary(log hclog.Logger, stats *RunStats) {
	log.Info("batch complete",
		"mixed", stats.Mixed,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"canceled", stats.Canceled,
		"unpaired_audio", stats.UnpairedAudio,
		"output_total", display.FormatBytes(stats.TotalOutputBytes))
}
