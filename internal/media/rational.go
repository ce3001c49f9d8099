package media

import (
	"fmt"
	"strconv"
	"strings"
)

// Rational is an exact frame rate expressed as Num/Den frames per second.
// ffprobe reports r_frame_rate in this form (e.g. "30000/1001"), and keeping
// the fraction intact avoids the drift that a float fps would introduce when
// converting frame indices to seconds.
type Rational struct {
	Num int64
	Den int64
}

// ParseRational parses an ffprobe-style rational string ("30000/1001" or
// a bare "25") into a Rational. A zero or missing denominator is an error;
// frame rates are strictly positive.
func ParseRational(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rational{}, fmt.Errorf("empty frame rate")
	}

	num, den := s, "1"
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		num, den = s[:idx], s[idx+1:]
	}

	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("parse frame rate %q: %w", s, err)
	}
	d, err := strconv.ParseInt(den, 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("parse frame rate %q: %w", s, err)
	}
	if n <= 0 || d <= 0 {
		return Rational{}, fmt.Errorf("non-positive frame rate %q", s)
	}
	return Rational{Num: n, Den: d}, nil
}

// IsZero reports whether the rational is unset.
func (r Rational) IsZero() bool { return r.Num == 0 || r.Den == 0 }

// Float returns the frame rate as frames per second.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Seconds converts a frame index at this rate into seconds:
// frames / (Num/Den) = frames * Den / Num. The multiplication happens in
// the integer domain first so the only rounding is the final division.
func (r Rational) Seconds(frames int64) float64 {
	if r.Num == 0 {
		return 0
	}
	return float64(frames*r.Den) / float64(r.Num)
}

// Frames converts a duration in seconds into a frame count at this rate,
// truncated toward zero.
func (r Rational) Frames(seconds float64) int64 {
	if r.Den == 0 {
		return 0
	}
	return int64(seconds * float64(r.Num) / float64(r.Den))
}

// String renders the rational in ffprobe's "num/den" form.
func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
