package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/clipforge/dubmix/internal/config"
	"github.com/clipforge/dubmix/internal/media"
	"github.com/clipforge/dubmix/internal/session"
)

// Build produces a complete MixPlan from a session snapshot. This is the
// central decision matrix the scheduler and preview controller both consume.
//
// Flow:
//  1. Register the video as the primary input; keep its own audio stream
//     as a mix input unless the config overrides it
//  2. Build per-clip filter chains: ambient/voice clips become delayed
//     inputs at startFrame/frameRate seconds, playing to their natural end
//  3. Resolve the music track: seeded randomized placement against the
//     occupied ambient/voice intervals, or a fixed-length trim
//  4. Sum everything with amix; append the limiter when enabled
//  5. Compute gap fill from the latest ambient/voice end vs video duration
//  6. Emit output directives (video stream copy, fixed-bitrate AAC audio)
//
// Build never fails for timing overlap — placement degrades to a fallback
// warning. It fails only for structurally invalid configuration.
func Build(cfg *config.Config, sess session.MixSession) (*MixPlan, error) {
	if err := validate(sess); err != nil {
		return nil, err
	}

	video := sess.Video
	plan := &MixPlan{
		SessionID:       sess.ID,
		VideoInput:      InputSource{Path: video.Path},
		Width:           video.Width,
		Height:          video.Height,
		FrameRate:       video.FrameRate,
		VideoStreamCopy: true,
		AudioCodec:      "aac",
		AudioBitrate:    cfg.AudioBitrate,
		OutputPath:      sess.OutputPath,
	}

	// --- 1. Original audio ---
	plan.IncludeOriginalAudio = !sess.Config.OverrideOriginalAudio && video.HasAudio

	// --- 2+3. Per-clip filter chains ---
	occupied := occupiedIntervals(sess)
	var mixLabels []string

	// At most one music clip per session. When the pairing heuristics hand
	// us several, the first wins and the rest are dropped with a warning.
	music, _ := sess.Music()

	for _, clip := range sess.AudioClips {
		if clip.Category == media.CategoryMusic && clip.ID != music.ID {
			plan.Warnings = append(plan.Warnings, Warning{
				Kind: WarnExtraMusic,
				Message: fmt.Sprintf("music %q dropped: %q already holds the session's music slot",
					clip.DisplayName, music.DisplayName),
			})
			continue
		}

		idx := len(plan.AudioInputs)
		plan.AudioInputs = append(plan.AudioInputs, InputSource{Path: clip.Path})

		label, chains, err := buildClipChain(idx, clip, sess, occupied, plan)
		if err != nil {
			return nil, err
		}
		plan.FilterGraph = append(plan.FilterGraph, chains...)
		mixLabels = append(mixLabels, label)
	}

	if plan.IncludeOriginalAudio {
		plan.FilterGraph = append(plan.FilterGraph, "[0:a]anull[orig]")
		mixLabels = append(mixLabels, "orig")
	}

	// --- 4. Mix and limiter ---
	if len(mixLabels) > 0 {
		normalize := 0
		if sess.Config.EnableLimiter {
			normalize = 1
		}
		var refs strings.Builder
		for _, label := range mixLabels {
			refs.WriteString("[" + label + "]")
		}
		plan.FilterGraph = append(plan.FilterGraph, fmt.Sprintf(
			"%samix=inputs=%d:normalize=%d[aout]", refs.String(), len(mixLabels), normalize))
		plan.OutputLabel = "aout"

		if sess.Config.EnableLimiter && sess.Config.LimiterFilter != "" {
			plan.FilterGraph = append(plan.FilterGraph,
				fmt.Sprintf("[aout]%s[amaster]", sess.Config.LimiterFilter))
			plan.OutputLabel = "amaster"
		}
	}

	// --- 5. Gap fill ---
	videoDuration := video.DurationSeconds()
	latestEnd := videoDuration
	for _, clip := range sess.AudioClips {
		switch clip.Category {
		case media.CategoryAmbient, media.CategoryVoice:
			if end := clip.EndSeconds(video.FrameRate); end > latestEnd {
				latestEnd = end
			}
		}
	}
	if latestEnd > videoDuration {
		plan.NeedsGapFill = true
		plan.GapFillSeconds = latestEnd - videoDuration
		assignGapFillPaths(plan, sess)
	}

	return plan, nil
}

// buildClipChain builds the filter chain for one audio clip (ffmpeg input
// index idx+1) and returns its final label. Chains follow the
// atrim → adelay → anull shape so every clip resolves to a plain label.
func buildClipChain(
	idx int,
	clip media.AudioAsset,
	sess session.MixSession,
	occupied []Interval,
	plan *MixPlan,
) (string, []string, error) {
	label := fmt.Sprintf("a%d", idx)
	chain := newChain(fmt.Sprintf("[%d:a]", idx+1), label)

	// Source-material offset applies to every category.
	if clip.SourceStartSeconds > 0 {
		chain.apply(fmt.Sprintf("atrim=start=%s,asetpts=PTS-STARTPTS", formatSeconds(clip.SourceStartSeconds)))
	}

	var delaySeconds float64
	switch clip.Category {
	case media.CategoryAmbient, media.CategoryVoice:
		// Delayed input at its configured start frame; no trimming — these
		// play to their natural end.
		delaySeconds = clip.StartSeconds(sess.Video.FrameRate)

	case media.CategoryMusic:
		if sess.Config.MusicLengthMode == session.LengthMatchVideo {
			offset, fallback := PlaceMusic(PlacementRequest{
				VideoDuration: sess.Video.DurationSeconds(),
				MusicDuration: clip.PlayLengthSeconds(),
				Seed:          sess.Seed(),
				RetryLimit:    sess.Config.MusicRetryLimit,
				Occupied:      occupied,
			})
			delaySeconds = offset
			plan.MusicOffsetSeconds = offset
			if fallback {
				plan.Warnings = append(plan.Warnings, Warning{
					Kind: WarnPlacementFallback,
					Message: fmt.Sprintf("music %q: no non-overlapping offset within %d retries, placed at 0",
						clip.DisplayName, sess.Config.MusicRetryLimit),
				})
			}
		} else {
			// A pinned length skips offset resolution: trim from frame 0.
			trim, err := musicTrimSeconds(sess)
			if err != nil {
				return "", nil, err
			}
			chain.apply(fmt.Sprintf("atrim=0:%s,asetpts=PTS-STARTPTS", formatSeconds(trim)))
		}

	default:
		return "", nil, &ConfigurationError{
			Field:  "category",
			Reason: fmt.Sprintf("audio clip %q has unknown category %q", clip.DisplayName, clip.Category),
		}
	}

	if delaySeconds > 0 {
		ms := int64(delaySeconds * 1000)
		chain.apply(fmt.Sprintf("adelay=%d|%d", ms, ms))
	}

	return label, chain.finish(), nil
}

// musicTrimSeconds resolves the configured music length into seconds,
// converting a frame count at the video's own rate.
func musicTrimSeconds(sess session.MixSession) (float64, error) {
	value := sess.Config.MusicLengthValue
	if value == nil {
		return 0, &ConfigurationError{
			Field:  "musicLengthValue",
			Reason: fmt.Sprintf("required by length mode %q", sess.Config.MusicLengthMode),
		}
	}

	switch sess.Config.MusicLengthMode {
	case session.LengthFixedSeconds:
		return *value, nil
	case session.LengthFixedFrames:
		return sess.Video.FrameRate.Seconds(int64(*value)), nil
	default:
		return 0, &ConfigurationError{
			Field:  "musicLengthMode",
			Reason: fmt.Sprintf("unknown mode %q", sess.Config.MusicLengthMode),
		}
	}
}

// occupiedIntervals collects the timeline spans claimed by ambient/voice
// clips, in session order.
func occupiedIntervals(sess session.MixSession) []Interval {
	var out []Interval
	for _, clip := range sess.AudioClips {
		switch clip.Category {
		case media.CategoryAmbient, media.CategoryVoice:
			start := clip.StartSeconds(sess.Video.FrameRate)
			out = append(out, Interval{Start: start, End: start + clip.PlayLengthSeconds()})
		}
	}
	return out
}

// assignGapFillPaths derives the gap-fill temp artifact paths from the
// session identity, so two builds of the same snapshot agree byte-for-byte.
func assignGapFillPaths(plan *MixPlan, sess session.MixSession) {
	dir := filepath.Dir(sess.Video.Path)
	base := filepath.Base(sess.Video.Path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	token := sess.ID
	if len(token) > 8 {
		token = token[:8]
	}

	plan.BlackClipPath = filepath.Join(dir, fmt.Sprintf("%s_black_%s.mp4", stem, token))
	plan.ConcatListPath = filepath.Join(dir, fmt.Sprintf("%s_concat_%s.txt", stem, token))
	plan.ExtendedVideoPath = filepath.Join(dir, fmt.Sprintf("%s_extended_%s.mp4", stem, token))
}

// validate checks the session's structural preconditions.
func validate(sess session.MixSession) error {
	if sess.Video.FrameRate.IsZero() {
		return &ConfigurationError{Field: "frameRate", Reason: "video has no frame rate"}
	}
	for _, clip := range sess.AudioClips {
		if clip.ID == "" || clip.Path == "" {
			return &ConfigurationError{
				Field:  "audioClips",
				Reason: fmt.Sprintf("clip %q is not part of the session's paired set", clip.DisplayName),
			}
		}
		if clip.StartFrame < 0 {
			return &ConfigurationError{
				Field:  "startFrame",
				Reason: fmt.Sprintf("clip %q has negative start frame", clip.DisplayName),
			}
		}
		if clip.DurationSeconds < 0 {
			return &ConfigurationError{
				Field:  "duration",
				Reason: fmt.Sprintf("clip %q has negative duration", clip.DisplayName),
			}
		}
	}
	return nil
}

// --- filter chain helper ---

// chain threads a stream reference through successive filter expressions,
// generating intermediate labels, and terminates on a fixed output label.
type chain struct {
	ref     string
	label   string
	counter int
	entries []string
}

func newChain(inputRef, outputLabel string) *chain {
	return &chain{ref: inputRef, label: outputLabel}
}

func (c *chain) apply(expr string) {
	c.counter++
	next := fmt.Sprintf("%s_flt_%d", c.label, c.counter)
	c.entries = append(c.entries, fmt.Sprintf("%s%s[%s]", c.ref, expr, next))
	c.ref = "[" + next + "]"
}

// finish closes the chain onto its output label. A chain with no filters
// still emits an anull so the label exists in the graph.
func (c *chain) finish() []string {
	c.entries = append(c.entries, fmt.Sprintf("%sanull[%s]", c.ref, c.label))
	return c.entries
}

// formatSeconds renders a seconds value for a filter expression with
// millisecond precision, trimming trailing zeros.
func formatSeconds(s float64) string {
	out := fmt.Sprintf("%.3f", s)
	out = strings.TrimRight(out, "0")
	return strings.TrimRight(out, ".")
}
