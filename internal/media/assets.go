package media

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Category classifies an audio asset's role in the mix. The Plan Builder
// switches exhaustively on this type; adding a category means touching
// exactly that switch.
type Category string

const (
	CategoryAmbient Category = "ambient" // sound effects, play at their natural length
	CategoryVoice   Category = "voice"   // dubbed dialogue, play at their natural length
	CategoryMusic   Category = "music"   // background track, at most one per session
)

// CategorizeName infers the category of an audio file from its name.
// "vo" marks voice, "music"/"bgm" mark music, everything else is treated
// as an ambient effect.
func CategorizeName(name string) Category {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "vo"):
		return CategoryVoice
	case strings.Contains(lower, "music"), strings.Contains(lower, "bgm"):
		return CategoryMusic
	default:
		return CategoryAmbient
	}
}

// VideoAsset is the probed identity of one video file. Immutable after
// construction; eviction from the catalog is the only way it goes away.
type VideoAsset struct {
	ID          string
	Path        string
	DisplayName string

	FrameRate      Rational
	DurationFrames int64
	Width          int
	Height         int
	HasAudio       bool
}

// NewVideoAsset builds a VideoAsset with a fresh identity. The duration is
// converted to frames at the asset's own rate, never a foreign one.
func NewVideoAsset(path string, rate Rational, durationSeconds float64, width, height int, hasAudio bool) VideoAsset {
	return VideoAsset{
		ID:             uuid.NewString(),
		Path:           path,
		DisplayName:    filepath.Base(path),
		FrameRate:      rate,
		DurationFrames: rate.Frames(durationSeconds),
		Width:          width,
		Height:         height,
		HasAudio:       hasAudio,
	}
}

// DurationSeconds returns the video length in seconds, derived from its
// frame count at its own rational rate.
func (v VideoAsset) DurationSeconds() float64 {
	return v.FrameRate.Seconds(v.DurationFrames)
}

// AudioAsset is the probed identity of one audio file. ffprobe reports
// audio duration in seconds; frame-domain values are derived at plan time
// against the paired video's own rate.
type AudioAsset struct {
	ID          string
	Path        string
	DisplayName string

	Category        Category
	DurationSeconds float64
	SampleRate      int

	// StartFrame is the clip's placement on the video timeline, in frames
	// of the paired video's rate. Zero means the start of the video.
	StartFrame int64

	// SourceStartSeconds skips into the clip's own material before mixing.
	SourceStartSeconds float64
}

// NewAudioAsset builds an AudioAsset with a fresh identity. displayName may
// differ from the file name when metadata provides a title.
func NewAudioAsset(path, displayName string, category Category, durationSeconds float64, sampleRate int) AudioAsset {
	if displayName == "" {
		displayName = filepath.Base(path)
	}
	return AudioAsset{
		ID:              uuid.NewString(),
		Path:            path,
		DisplayName:     displayName,
		Category:        category,
		DurationSeconds: durationSeconds,
		SampleRate:      sampleRate,
	}
}

// StartSeconds converts the clip's start frame to seconds at the given
// video rate.
func (a AudioAsset) StartSeconds(rate Rational) float64 {
	if a.StartFrame <= 0 || rate.IsZero() {
		return 0
	}
	return rate.Seconds(a.StartFrame)
}

// PlayLengthSeconds is the clip's effective play length: its probed
// duration minus the source head trim.
func (a AudioAsset) PlayLengthSeconds() float64 {
	if a.SourceStartSeconds >= a.DurationSeconds {
		return 0
	}
	return a.DurationSeconds - a.SourceStartSeconds
}

// EndSeconds is the clip's end on the video timeline: start plus its
// effective play length. Used for gap-fill and music-placement interval
// math.
func (a AudioAsset) EndSeconds(rate Rational) float64 {
	return a.StartSeconds(rate) + a.PlayLengthSeconds()
}
