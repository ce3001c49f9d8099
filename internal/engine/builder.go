package engine

import (
	"fmt"
	"strings"

	"github.com/clipforge/dubmix/internal/planner"
)

// MixArgs builds the final-mix ffmpeg argument list for a plan.
// videoInput overrides the plan's primary video path when gap fill has
// produced an extended video; pass "" to use the plan's own input.
//
// The generated command follows the fixed skeleton: inputs in plan order,
// one -filter_complex with the plan's graph, explicit stream maps, then
// the output directives.
func MixArgs(plan *planner.MixPlan, videoInput, outputPath string) []string {
	if videoInput == "" {
		videoInput = plan.VideoInput.Path
	}

	args := make([]string, 0, 32)

	// --- Inputs ---
	if plan.VideoInput.SeekSeconds > 0 {
		args = append(args, "-ss", formatSeconds(plan.VideoInput.SeekSeconds))
	}
	args = append(args, "-i", videoInput)
	for _, in := range plan.AudioInputs {
		if in.SeekSeconds > 0 {
			args = append(args, "-ss", formatSeconds(in.SeekSeconds))
		}
		args = append(args, "-i", in.Path)
	}

	// --- Filter graph and stream maps ---
	args = appendAudioGraph(args, plan)

	// --- Output directives ---
	if plan.VideoStreamCopy {
		args = append(args, "-c:v", "copy")
	}
	if plan.OutputLabel != "" || len(plan.AudioInputs) > 0 {
		args = append(args, "-c:a", plan.AudioCodec, "-b:a", plan.AudioBitrate)
	}

	return append(args, outputPath)
}

// PreviewArgs builds the short-window preview command: the mix restricted
// to [start, start+duration), re-encoded cheaply for immediate playback.
func PreviewArgs(plan *planner.MixPlan, videoInput string, startSeconds, durationSeconds float64, outputPath string) []string {
	if videoInput == "" {
		videoInput = plan.VideoInput.Path
	}

	args := make([]string, 0, 32)
	args = append(args,
		"-ss", formatSeconds(max(startSeconds, 0)),
		"-t", formatSeconds(max(durationSeconds, 1)),
		"-i", videoInput,
	)
	for _, in := range plan.AudioInputs {
		args = append(args, "-i", in.Path)
	}

	args = appendAudioGraph(args, plan)

	args = append(args,
		"-c:v", "libx264", "-preset", "veryfast", "-crf", "30",
		"-c:a", "aac", "-b:a", "128k",
	)
	return append(args, outputPath)
}

// BlackClipArgs builds the lavfi command generating the gap-fill black
// segment at the video's own geometry and rate.
func BlackClipArgs(plan *planner.MixPlan) []string {
	return []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=black:s=%dx%d:d=%s", plan.Width, plan.Height, formatSeconds(plan.GapFillSeconds)),
		"-r", fmt.Sprintf("%.3f", plan.FrameRate.Float()),
		"-pix_fmt", "yuv420p",
		plan.BlackClipPath,
	}
}

// ConcatArgs builds the concat-demuxer command joining the primary video
// with the black segment, stream-copied.
func ConcatArgs(listPath, outputPath string) []string {
	return []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outputPath,
	}
}

// ConcatListContent renders the concat-demuxer list file for the primary
// video followed by the black segment.
func ConcatListContent(videoPath, blackPath string) string {
	return fmt.Sprintf("file '%s'\nfile '%s'\n",
		strings.ReplaceAll(videoPath, "'", `'\''`),
		strings.ReplaceAll(blackPath, "'", `'\''`))
}

// appendAudioGraph adds the -filter_complex and -map arguments shared by
// the mix and preview commands.
func appendAudioGraph(args []string, plan *planner.MixPlan) []string {
	switch {
	case len(plan.FilterGraph) > 0:
		args = append(args, "-filter_complex", strings.Join(plan.FilterGraph, ";"))
		args = append(args, "-map", "0:v:0", "-map", "["+plan.OutputLabel+"]")
	case len(plan.AudioInputs) > 0:
		args = append(args, "-map", "0:v:0", "-map", "1:a:0")
	default:
		args = append(args, "-map", "0:v:0")
	}
	return args
}

func formatSeconds(s float64) string {
	out := fmt.Sprintf("%.3f", s)
	out = strings.TrimRight(out, "0")
	return strings.TrimRight(out, ".")
}
