// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe, ffplay, and the
// AAC encoder and lavfi sources the mixer relies on.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrAACEncodeFailed = errors.New("AAC test encode failed")
	ErrLavfiFailed     = errors.New("lavfi color source test failed")
)

// RunCheck runs the interactive --check flow: prints availability of ffmpeg,
// ffprobe, ffplay, the AAC encoder, and the lavfi sources used for gap fill.
// This is informational only; it does not stop on failure.
func RunCheck(log hclog.Logger) {
	log.Info("running system check")

	checkTool(log, "ffmpeg")
	checkTool(log, "ffprobe")
	checkFfplay(log)
	checkAAC(log)
	checkLavfi(log)
}

// CheckDeps is the pre-pipeline validation: ffmpeg and ffprobe must be on
// PATH, the AAC encoder must work, and the lavfi color source used for gap
// fill must be usable. Returns a sentinel error on failure. ffplay is only
// needed for preview playback, so its absence is not fatal here.
func CheckDeps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	if !runSilent("ffmpeg", aacTestArgs()...) {
		return ErrAACEncodeFailed
	}
	if !runSilent("ffmpeg", lavfiTestArgs()...) {
		return ErrLavfiFailed
	}
	return nil
}

// HaveFfplay reports whether ffplay is available for preview playback.
func HaveFfplay() bool {
	_, err := exec.LookPath("ffplay")
	return err == nil
}

// checkTool verifies a binary is on PATH and logs its version string.
func checkTool(log hclog.Logger, name string) {
	if _, err := exec.LookPath(name); err != nil {
		log.Error(name + " not found on PATH")
		return
	}
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		log.Warn(name+" found but -version failed", "error", err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Info(name+" ok", "version", firstLine)
}

// checkFfplay reports ffplay availability; missing ffplay only disables preview.
func checkFfplay(log hclog.Logger) {
	if HaveFfplay() {
		log.Info("ffplay ok")
	} else {
		log.Warn("ffplay not found; preview playback unavailable")
	}
}

// checkAAC runs a minimal AAC encode to verify the audio encoder works.
func checkAAC(log hclog.Logger) {
	if runSilent("ffmpeg", aacTestArgs()...) {
		log.Info("AAC encoder ok")
	} else {
		log.Error("AAC encoder test failed")
	}
}

// checkLavfi verifies the color source used for gap-fill black clips.
func checkLavfi(log hclog.Logger) {
	if runSilent("ffmpeg", lavfiTestArgs()...) {
		log.Info("lavfi color source ok")
	} else {
		log.Error("lavfi color source test failed")
	}
}

// aacTestArgs returns ffmpeg arguments for a minimal AAC test encode.
// Shared by checkAAC and CheckDeps to avoid duplicating the argument list.
func aacTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	}
}

// lavfiTestArgs returns ffmpeg arguments for a minimal black-frame encode.
func lavfiTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=c=black:s=256x256:d=0.1",
		"-pix_fmt", "yuv420p", "-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
