package pipeline

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// mixedCollisionRe matches collision-suffixed outputs like name_mixed_2.
var mixedCollisionRe = regexp.MustCompile(`_mixed_\d+$`)

// Supported media extensions (lowercase, with leading dot).
var (
	videoExtensions = map[string]bool{
		".mp4": true,
		".mov": true,
		".mkv": true,
		".avi": true,
	}
	audioExtensions = map[string]bool{
		".wav":  true,
		".mp3":  true,
		".flac": true,
		".ogg":  true,
		".aac":  true,
	}
)

// Discover walks the given input paths (files or directories), splits
// matches into video and audio lists, and returns both sorted
// lexicographically for deterministic processing order. Mixed outputs
// from earlier runs (the _mixed suffix) are skipped so re-running over
// the same tree never mixes its own output.
func Discover(inputs []string) (videos, audios []string, err error) {
	seen := make(map[string]bool)
	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case videoExtensions[ext]:
			if !isMixedOutput(path) {
				videos = append(videos, path)
			}
		case audioExtensions[ext]:
			audios = append(audios, path)
		}
	}

	for _, input := range inputs {
		walkErr := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			add(path)
			return nil
		})
		if walkErr != nil {
			return nil, nil, walkErr
		}
	}

	sort.Strings(videos)
	sort.Strings(audios)
	return videos, audios, nil
}

// IsVideoPath reports whether the path carries a supported video extension.
func IsVideoPath(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsAudioPath reports whether the path carries a supported audio extension.
func IsAudioPath(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// isMixedOutput recognizes this tool's own output naming.
func isMixedOutput(path string) bool {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.HasSuffix(stem, "_mixed") || mixedCollisionRe.MatchString(stem)
}
