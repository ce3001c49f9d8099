package planner

import "math/rand"

// Interval is a half-open [Start, End) span of seconds on the video
// timeline.
type Interval struct {
	Start float64
	End   float64
}

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// PlacementRequest carries the inputs of the randomized music placement.
// Identical requests always resolve to the identical offset: the generator
// is seeded, and the occupied set is consulted in the order given.
type PlacementRequest struct {
	VideoDuration float64
	MusicDuration float64
	Seed          int64
	RetryLimit    int
	Occupied      []Interval
}

// PlaceMusic resolves the music track's start offset on the video timeline.
//
// When the music is at least as long as the video there is no room to
// randomize: the offset is 0 with no draws attempted, and that is not a
// fallback. Otherwise candidates are drawn uniformly from [0, maxOffset]
// and rejected while they overlap an occupied interval, for at most
// 1+RetryLimit draws. Exhausting the draws falls back to offset 0; the
// second return value reports that fallback so the caller can attach a
// plan warning — placement never fails.
func PlaceMusic(req PlacementRequest) (offset float64, fallback bool) {
	if req.MusicDuration >= req.VideoDuration {
		return 0, false
	}

	maxOffset := req.VideoDuration - req.MusicDuration
	rng := rand.New(rand.NewSource(req.Seed))

	attempts := req.RetryLimit + 1
	for i := 0; i < attempts; i++ {
		candidate := rng.Float64() * maxOffset
		if !overlapsAny(candidate, req.MusicDuration, req.Occupied) {
			return candidate, false
		}
	}
	return 0, true
}

func overlapsAny(offset, duration float64, occupied []Interval) bool {
	span := Interval{Start: offset, End: offset + duration}
	for _, iv := range occupied {
		if span.Overlaps(iv) {
			return true
		}
	}
	return false
}
