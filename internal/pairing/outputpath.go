package pairing

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// MixOutputPath builds the output file path for a mixed video: the source
// stem with a "_mixed" marker, in outputDir (or next to the source when
// outputDir is empty), keeping the source container extension.
func MixOutputPath(videoPath, outputDir string) string {
	base := filepath.Base(videoPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(videoPath)
	}
	return filepath.Join(dir, stem+"_mixed"+ext)
}

// OutputResolver tracks output paths claimed within a run and resolves
// duplicates (two sources normalizing to the same stem) by appending a
// numeric suffix. All methods are goroutine-safe.
type OutputResolver struct {
	mu     sync.Mutex
	owners map[string]string // output path → video ID that claimed it
}

// NewOutputResolver creates a ready-to-use resolver.
func NewOutputResolver() *OutputResolver {
	return &OutputResolver{owners: make(map[string]string)}
}

// Resolve returns the final output path for videoID. If requested is
// unclaimed (or already owned by the same video), it is returned as-is;
// otherwise a "_2", "_3", … variant is generated.
func (r *OutputResolver) Resolve(videoID, requested string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner, taken := r.owners[requested]
	if !taken || owner == videoID {
		r.owners[requested] = videoID
		return requested
	}

	ext := filepath.Ext(requested)
	stem := strings.TrimSuffix(requested, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if owner, taken := r.owners[candidate]; !taken || owner == videoID {
			r.owners[candidate] = videoID
			return candidate
		}
	}
}
