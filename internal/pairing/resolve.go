package pairing

import "github.com/clipforge/dubmix/internal/media"

// Result holds the outcome of one resolution pass. Paired maps video IDs to
// the audio clips matched to them, in input order. Unpaired lists audio that
// matched no video — left to the caller for manual assignment, never an
// error.
type Result struct {
	Paired   map[string][]media.AudioAsset
	Unpaired []media.AudioAsset
}

// Resolve matches each audio asset to at most one video by comparing name
// variants. Matching is many-to-one: a video may receive multiple clips of
// different categories, while an audio clip pairs with the first video whose
// variant set intersects its own (videos are scanned in the given order).
func Resolve(audios []media.AudioAsset, videos []media.VideoAsset) Result {
	res := Result{Paired: make(map[string][]media.AudioAsset)}

	videoVariants := make([]map[string]bool, len(videos))
	for i, v := range videos {
		videoVariants[i] = Variants(v.Path)
	}

	for _, clip := range audios {
		clipVariants := Variants(clip.Path)
		matched := false
		for i, v := range videos {
			if intersects(videoVariants[i], clipVariants) {
				res.Paired[v.ID] = append(res.Paired[v.ID], clip)
				matched = true
				break
			}
		}
		if !matched {
			res.Unpaired = append(res.Unpaired, clip)
		}
	}
	return res
}
