package pairing

import (
	"path/filepath"
	"strings"
)

// Reserved name affixes stripped during normalization. The prefixes mark
// export batches from the upstream authoring workflow; the suffixes mark
// mix/audio variants of the same take.
var (
	reservedPrefixes = []string{"a1_", "a2_", "a3_", "a4_"}
	reservedSuffixes = []string{"-mix", "_mix", "-audio", "_audio"}
)

// Normalize reduces a file name to its matching stem: lower-cased, with the
// extension, at most one reserved prefix, and at most one reserved suffix
// removed.
func Normalize(name string) string {
	stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))

	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(stem, prefix) {
			stem = stem[len(prefix):]
			break
		}
	}
	for _, suffix := range reservedSuffixes {
		if strings.HasSuffix(stem, suffix) {
			stem = stem[:len(stem)-len(suffix)]
			break
		}
	}
	return stem
}

// Variants returns the set of stems under which a path can match: the raw
// lower-cased stem, the normalized stem, and de-suffixed forms of both.
// Matching on the full variant set lets "a2_intro_mix.wav" pair with
// "intro.mp4" as well as with "intro-mix.mp4".
func Variants(path string) map[string]bool {
	base := filepath.Base(path)
	raw := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	variants := map[string]bool{}
	add := func(stem string) {
		if stem != "" {
			variants[stem] = true
		}
	}

	add(raw)
	add(Normalize(base))
	for _, suffix := range reservedSuffixes {
		if strings.HasSuffix(raw, suffix) {
			add(raw[:len(raw)-len(suffix)])
		}
	}
	return variants
}

func intersects(a, b map[string]bool) bool {
	for stem := range a {
		if b[stem] {
			return true
		}
	}
	return false
}
