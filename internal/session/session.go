// Package session defines the per-video mixing configuration and the
// MixSession snapshot consumed by the planner. Sessions are rebuilt, not
// mutated: any configuration edit produces a new session so that every
// plan build works from a single consistent snapshot.
package session

import (
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/clipforge/dubmix/internal/media"
)

// LengthMode selects how the music track's length is resolved.
type LengthMode string

const (
	LengthMatchVideo   LengthMode = "match_video"   // music plays against the whole video (default)
	LengthFixedSeconds LengthMode = "fixed_seconds" // trim to a fixed number of seconds
	LengthFixedFrames  LengthMode = "fixed_frames"  // trim to a fixed frame count at the video's rate
)

// TrackConfig holds the per-video mixing settings. It is owned by the
// session and replaced wholesale on edit.
type TrackConfig struct {
	OverrideOriginalAudio bool
	EnableLimiter         bool

	MusicRandomSeed  *int64 // nil → session-derived seed
	MusicRetryLimit  int
	MusicLengthMode  LengthMode
	MusicLengthValue *float64 // required for the fixed modes

	// LimiterFilter is the ffmpeg filter expression appended after the mix
	// when EnableLimiter is set. Kept configurable; there is no single
	// canonical parameterization.
	LimiterFilter string
}

// DefaultTrackConfig returns the settings applied to a freshly paired video.
func DefaultTrackConfig() TrackConfig {
	return TrackConfig{
		EnableLimiter:   true,
		MusicRetryLimit: 3,
		MusicLengthMode: LengthMatchVideo,
		LimiterFilter:   "alimiter=limit=0.9",
	}
}

// MixSession aggregates one video, its paired audio clips, and a config
// snapshot. It is the unit of planning.
type MixSession struct {
	ID         string
	Video      media.VideoAsset
	AudioClips []media.AudioAsset
	Config     TrackConfig
	OutputPath string
}

// New builds a session from a catalog snapshot. The clip slice is copied so
// later catalog edits cannot reach into an existing session.
func New(video media.VideoAsset, clips []media.AudioAsset, cfg TrackConfig, outputPath string) MixSession {
	return MixSession{
		ID:         uuid.NewString(),
		Video:      video,
		AudioClips: append([]media.AudioAsset(nil), clips...),
		Config:     cfg,
		OutputPath: outputPath,
	}
}

// Music returns the session's music clip, if any. At most one music track
// participates in a plan; when several are paired the first wins.
func (s MixSession) Music() (media.AudioAsset, bool) {
	for _, clip := range s.AudioClips {
		if clip.Category == media.CategoryMusic {
			return clip, true
		}
	}
	return media.AudioAsset{}, false
}

// DerivedSeed produces the default music-placement seed when the config
// does not pin one. It hashes the video and ordered audio identities, so
// repeated plan builds of the same session stay reproducible while distinct
// sessions get distinct placements.
func (s MixSession) DerivedSeed() int64 {
	h := fnv.New64a()
	h.Write([]byte(s.Video.ID))
	for _, clip := range s.AudioClips {
		h.Write([]byte(clip.ID))
	}
	return int64(h.Sum64())
}

// Seed resolves the effective placement seed: the configured one when set,
// otherwise the session-derived default.
func (s MixSession) Seed() int64 {
	if s.Config.MusicRandomSeed != nil {
		return *s.Config.MusicRandomSeed
	}
	return s.DerivedSeed()
}
