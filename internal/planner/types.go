package planner

import "github.com/clipforge/dubmix/internal/media"

// InputSource is one media input of a plan: a path plus an optional seek
// offset into the source material.
type InputSource struct {
	Path        string
	SeekSeconds float64
}

// WarningKind labels the non-fatal conditions a build can attach to a plan.
type WarningKind string

const (
	// WarnPlacementFallback means randomized music placement exhausted its
	// retries without finding a non-overlapping offset and fell back to 0.
	WarnPlacementFallback WarningKind = "placement_fallback"

	// WarnExtraMusic means the session paired more than one music clip.
	// Only the first participates in the mix; the rest are dropped.
	WarnExtraMusic WarningKind = "extra_music"
)

// Warning is a non-fatal note attached to a successfully built plan.
type Warning struct {
	Kind    WarningKind
	Message string
}

// MixPlan is the side-effect-free output of planning. It carries no
// back-reference to the session that produced it; once built it is never
// mutated, so it is freely shareable across workers.
type MixPlan struct {
	// SessionID names the session this plan was built from, for job
	// tracking and log correlation only.
	SessionID string

	// Inputs. VideoInput is always index 0 in the filter graph; AudioInputs
	// follow in order as inputs 1..N.
	VideoInput  InputSource
	AudioInputs []InputSource

	// FilterGraph holds the -filter_complex entries, in order. OutputLabel
	// names the final mixed audio stream; empty when the plan has no audio.
	FilterGraph []string
	OutputLabel string

	// IncludeOriginalAudio records that the video's own audio stream
	// participates in the mix as input [0:a].
	IncludeOriginalAudio bool

	// MusicOffsetSeconds is the resolved timeline placement of the music
	// track (0 when the session has no music).
	MusicOffsetSeconds float64

	// Gap fill: set when an ambient/voice clip outruns the video. The video
	// is extended by GapFillSeconds of black frames before mixing; the
	// three paths below are the temp artifacts of that extension, derived
	// deterministically from the session so repeated builds agree.
	NeedsGapFill      bool
	GapFillSeconds    float64
	BlackClipPath     string
	ConcatListPath    string
	ExtendedVideoPath string

	// Video geometry for gap-fill black clip generation.
	Width     int
	Height    int
	FrameRate media.Rational

	// Terminal output directives.
	VideoStreamCopy bool
	AudioCodec      string
	AudioBitrate    string
	OutputPath      string

	Warnings []Warning
}

// HasWarning reports whether the plan carries a warning of the given kind.
func (p *MixPlan) HasWarning(kind WarningKind) bool {
	for _, w := range p.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
