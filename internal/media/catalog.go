package media

import (
	"sort"
	"sync"
)

// Catalog owns the probed assets for one run. Reads are concurrent;
// registration and eviction take the write lock. Components receive the
// catalog by reference — there is no process-wide instance.
type Catalog struct {
	mu     sync.RWMutex
	videos map[string]VideoAsset
	audios map[string][]AudioAsset // video ID → paired audio clips, in pair order
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		videos: make(map[string]VideoAsset),
		audios: make(map[string][]AudioAsset),
	}
}

// AddVideo registers a video asset.
func (c *Catalog) AddVideo(v VideoAsset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videos[v.ID] = v
}

// AttachAudio appends audio clips to a video's paired set. Unknown video
// IDs are ignored; pairing against an evicted video is not an error.
func (c *Catalog) AttachAudio(videoID string, clips ...AudioAsset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.videos[videoID]; !ok {
		return
	}
	c.audios[videoID] = append(c.audios[videoID], clips...)
}

// ReplaceAudio swaps a video's entire paired set. Used when the caller
// re-resolves pairing or edits clip timing; partial in-place mutation is
// deliberately not offered.
func (c *Catalog) ReplaceAudio(videoID string, clips []AudioAsset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.videos[videoID]; !ok {
		return
	}
	c.audios[videoID] = append([]AudioAsset(nil), clips...)
}

// Video returns the asset for id.
func (c *Catalog) Video(id string) (VideoAsset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.videos[id]
	return v, ok
}

// Videos returns all registered videos, ordered by path for deterministic
// batch processing.
func (c *Catalog) Videos() []VideoAsset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]VideoAsset, 0, len(c.videos))
	for _, v := range c.videos {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Audio returns a copy of the paired clips for a video.
func (c *Catalog) Audio(videoID string) []AudioAsset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]AudioAsset(nil), c.audios[videoID]...)
}

// EvictVideo removes a video and its paired audio.
func (c *Catalog) EvictVideo(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.videos, id)
	delete(c.audios, id)
}

// Len returns the number of registered videos.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.videos)
}
