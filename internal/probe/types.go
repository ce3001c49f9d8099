package probe

import (
	"errors"
	"fmt"

	"github.com/clipforge/dubmix/internal/media"
)

// Error marks a probe failure: the external tool could not read metadata
// from Path. It wraps the underlying exec/parse error.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsProbeError reports whether err is (or wraps) a probe failure.
func IsProbeError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}

// VideoInfo is the probed metadata of a video file.
type VideoInfo struct {
	Path            string
	FrameRate       media.Rational
	DurationSeconds float64
	Width           int
	Height          int
	HasAudio        bool
}

// AudioInfo is the probed metadata of an audio file.
type AudioInfo struct {
	Path            string
	DurationSeconds float64
	SampleRate      int
}
