package pipeline

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	VideosFound   int
	AudiosFound   int
	Sessions      int
	Mixed         int
	Failed        int
	Canceled      int
	Skipped       int // videos with no paired audio
	UnpairedAudio int
	Fallbacks     int // plans that placed music at offset 0 after retries

	TotalOutputBytes int64
}

// Ok reports whether the whole batch completed without failures.
func (s *RunStats) Ok() bool {
	return s.Failed == 0
}
