package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clipforge/dubmix/internal/media"
)

// ProbeVideo runs one ffprobe JSON call against a video file.
func ProbeVideo(ctx context.Context, path string) (*VideoInfo, error) {
	out, err := run(ctx, path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	info, err := ParseVideoJSON(path, out)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return info, nil
}

// ProbeAudio runs one ffprobe JSON call against an audio file.
func ProbeAudio(ctx context.Context, path string) (*AudioInfo, error) {
	out, err := run(ctx, path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	info, err := ParseAudioJSON(path, out)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return info, nil
}

func run(ctx context.Context, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}
	return out, nil
}

// ParseVideoJSON converts raw ffprobe JSON into a VideoInfo.
// Exported for testing without a real ffprobe binary.
func ParseVideoJSON(path string, data []byte) (*VideoInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	var video *ffprobeStream
	hasAudio := false
	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if video == nil && s.Disposition["attached_pic"] != 1 {
				video = s
			}
		case "audio":
			hasAudio = true
		}
	}
	if video == nil {
		return nil, fmt.Errorf("no video stream")
	}

	rate, err := media.ParseRational(video.RFrameRate)
	if err != nil {
		return nil, fmt.Errorf("frame rate: %w", err)
	}

	return &VideoInfo{
		Path:            path,
		FrameRate:       rate,
		DurationSeconds: parseFloat(raw.Format.Duration),
		Width:           video.Width,
		Height:          video.Height,
		HasAudio:        hasAudio,
	}, nil
}

// ParseAudioJSON converts raw ffprobe JSON into an AudioInfo.
func ParseAudioJSON(path string, data []byte) (*AudioInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	var audio *ffprobeStream
	for i := range raw.Streams {
		if raw.Streams[i].CodecType == "audio" {
			audio = &raw.Streams[i]
			break
		}
	}
	if audio == nil {
		return nil, fmt.Errorf("no audio stream")
	}

	duration := parseFloat(raw.Format.Duration)
	if duration <= 0 {
		duration = parseFloat(audio.Duration)
	}

	return &AudioInfo{
		Path:            path,
		DurationSeconds: duration,
		SampleRate:      parseInt(audio.SampleRate),
	}, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	Index       int            `json:"index"`
	CodecName   string         `json:"codec_name"`
	CodecType   string         `json:"codec_type"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	RFrameRate  string         `json:"r_frame_rate"`
	SampleRate  string         `json:"sample_rate"`
	Duration    string         `json:"duration"`
	Disposition map[string]int `json:"disposition"`
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
