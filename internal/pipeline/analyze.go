package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/clipforge/dubmix/internal/media"
	"github.com/clipforge/dubmix/internal/probe"
)

// minFileSize guards against truncated or still-copying files.
const minFileSize = 1000

var errTooSmall = errors.New("file too small (possibly corrupt)")

// AnalyzeVideo probes a video file and builds its catalog asset.
func AnalyzeVideo(ctx context.Context, path string) (media.VideoAsset, error) {
	if err := checkSize(path); err != nil {
		return media.VideoAsset{}, err
	}
	info, err := probe.ProbeVideo(ctx, path)
	if err != nil {
		return media.VideoAsset{}, err
	}
	return media.NewVideoAsset(path, info.FrameRate, info.DurationSeconds,
		info.Width, info.Height, info.HasAudio), nil
}

// AnalyzeAudio probes an audio file and builds its catalog asset. The
// display name prefers the file's embedded title tag over the bare
// filename; the category falls out of the name heuristics.
func AnalyzeAudio(ctx context.Context, path string) (media.AudioAsset, error) {
	if err := checkSize(path); err != nil {
		return media.AudioAsset{}, err
	}
	info, err := probe.ProbeAudio(ctx, path)
	if err != nil {
		return media.AudioAsset{}, err
	}

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	displayName := stem
	if title := readTitleTag(path); title != "" {
		displayName = title
	}

	category := media.CategorizeName(stem)
	return media.NewAudioAsset(path, displayName, category, info.DurationSeconds, info.SampleRate), nil
}

// readTitleTag extracts the embedded title metadata, if any. Failures are
// silent; the filename stem is a fine fallback.
func readTitleTag(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(m.Title())
}

// checkSize rejects files too small to be real media.
func checkSize(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return &probe.Error{Path: path, Err: err}
	}
	if fi.Size() < minFileSize {
		return &probe.Error{Path: path, Err: errTooSmall}
	}
	return nil
}
