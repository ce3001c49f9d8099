package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/clipforge/dubmix/internal/config"
	"github.com/clipforge/dubmix/internal/engine"
	"github.com/clipforge/dubmix/internal/media"
	"github.com/clipforge/dubmix/internal/pairing"
	"github.com/clipforge/dubmix/internal/planner"
	"github.com/clipforge/dubmix/internal/scheduler"
	"github.com/clipforge/dubmix/internal/session"
)

// settleDelay is how long a file must sit unchanged before we probe it.
// Copies and downloads fire many write events; probing too early reads a
// truncated file.
const settleDelay = 2 * time.Second

// Watch performs an initial batch pass and then keeps running, mixing new
// video/audio pairs as files appear under the input directories. It
// returns when the context ends.
func Watch(ctx context.Context, cfg *config.Config, log hclog.Logger) error {
	w := &watchState{
		cfg:      cfg,
		log:      log.Named("watch"),
		catalog:  media.NewCatalog(),
		mixed:    make(map[string]bool),
		resolver: pairing.NewOutputResolver(),
	}

	runner := engine.NewFFmpeg(cfg.Verbose, log)
	w.sched = scheduler.New(ctx, cfg.EffectiveWorkers(), runner, log)
	defer func() {
		w.sched.Close()
		w.wg.Wait()
	}()

	// Initial pass over what already exists.
	videoPaths, audioPaths, err := Discover(cfg.InputDirs)
	if err != nil {
		return err
	}
	for _, p := range videoPaths {
		w.ingestVideo(ctx, p)
	}
	for _, p := range audioPaths {
		w.ingestAudio(ctx, p)
	}
	w.sweep(cfg)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range cfg.InputDirs {
		if err := addRecursive(watcher, dir); err != nil {
			return err
		}
	}
	w.log.Info("watching for new media", "paths", cfg.InputDirs)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settleDelay / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
				addRecursive(watcher, ev.Name)
				continue
			}
			if (IsVideoPath(ev.Name) && !isMixedOutput(ev.Name)) || IsAudioPath(ev.Name) {
				pending[ev.Name] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)

		case <-ticker.C:
			settledAny := false
			for path, seen := range pending {
				if time.Since(seen) < settleDelay {
					continue
				}
				delete(pending, path)
				settledAny = true
				if IsVideoPath(path) {
					w.ingestVideo(ctx, path)
				} else {
					w.ingestAudio(ctx, path)
				}
			}
			if settledAny {
				w.sweep(cfg)
			}
		}
	}
}

// watchState carries the long-lived catalog and job tracking of a watch run.
type watchState struct {
	cfg      *config.Config
	log      hclog.Logger
	catalog  *media.Catalog
	unpaired []media.AudioAsset
	mixed    map[string]bool // video ID → mix submitted
	byPath   sync.Map        // media path → asset ID, to dedupe re-events
	resolver *pairing.OutputResolver
	sched    *scheduler.Scheduler
	wg       sync.WaitGroup
}

// ingestVideo probes a video unless its path is already known and admits it.
func (w *watchState) ingestVideo(ctx context.Context, path string) {
	if _, known := w.byPath.Load(path); known {
		return
	}
	v, err := AnalyzeVideo(ctx, path)
	if err != nil {
		w.log.Warn("cannot probe video, skipping", "path", path, "error", err)
		return
	}
	w.admitVideo(v)
}

// ingestAudio probes an audio file unless its path is already known and
// admits it.
func (w *watchState) ingestAudio(ctx context.Context, path string) {
	if _, known := w.byPath.Load(path); known {
		return
	}
	a, err := AnalyzeAudio(ctx, path)
	if err != nil {
		w.log.Warn("cannot probe audio, skipping", "path", path, "error", err)
		return
	}
	w.admitAudio(a)
}

// admitVideo registers a probed video and claims any already-known
// unpaired audio that matches it. Admitting a path twice is a no-op:
// assets are immutable once probed, so a rewritten file keeps its
// original probe.
func (w *watchState) admitVideo(v media.VideoAsset) {
	if _, seen := w.byPath.LoadOrStore(v.Path, v.ID); seen {
		return
	}
	w.catalog.AddVideo(v)

	if len(w.unpaired) > 0 {
		res := pairing.Resolve(w.unpaired, []media.VideoAsset{v})
		w.catalog.AttachAudio(v.ID, res.Paired[v.ID]...)
		w.unpaired = res.Unpaired
	}
}

// admitAudio pairs a probed audio clip against the known videos, keeping
// it in the unpaired pool otherwise. Same path dedupe as admitVideo.
func (w *watchState) admitAudio(a media.AudioAsset) {
	if _, seen := w.byPath.LoadOrStore(a.Path, a.ID); seen {
		return
	}
	res := pairing.Resolve([]media.AudioAsset{a}, w.catalog.Videos())
	for videoID, clips := range res.Paired {
		w.catalog.AttachAudio(videoID, clips...)
	}
	w.unpaired = append(w.unpaired, res.Unpaired...)
}

// sweep submits a mix for every paired video that has not been mixed yet.
func (w *watchState) sweep(cfg *config.Config) {
	for _, video := range w.catalog.Videos() {
		if w.mixed[video.ID] {
			continue
		}
		clips := w.catalog.Audio(video.ID)
		if len(clips) == 0 {
			continue
		}

		outputPath := w.resolver.Resolve(video.ID, pairing.MixOutputPath(video.Path, cfg.OutputDir))
		sess := session.New(video, clips, trackConfig(cfg), outputPath)

		plan, err := planner.Build(cfg, sess)
		if err != nil {
			w.log.Error("plan build failed", "video", video.DisplayName, "error", err)
			w.mixed[video.ID] = true
			continue
		}
		for _, warn := range plan.Warnings {
			w.log.Warn(warn.Message, "video", video.DisplayName)
		}

		h, err := w.sched.Submit(plan)
		if err != nil {
			w.log.Error("submit failed", "video", video.DisplayName, "error", err)
			continue
		}
		w.mixed[video.ID] = true

		w.wg.Add(1)
		go func(name string) {
			defer w.wg.Done()
			res := <-h.Done()
			if res.Err != nil {
				w.log.Error("mix failed", "video", name, "error", res.Err)
			} else {
				w.log.Info("mixed", "video", name, "output", filepath.Base(res.OutputPath))
			}
		}(video.DisplayName)
	}
}

// addRecursive watches dir and every subdirectory beneath it. A plain
// file input is watched through its parent directory.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	fi, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
