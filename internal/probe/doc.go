// Package probe wraps ffprobe: a single JSON call per media file, parsed
// into typed video/audio metadata. Probe failures are a distinct error kind
// ([Error]) so callers can tell "could not read this asset" apart from a
// plan-construction error; a failed probe is fatal for that asset only.
package probe
