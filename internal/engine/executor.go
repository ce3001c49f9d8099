package engine

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/hashicorp/go-hclog"
)

// Runner executes one external engine invocation. Implementations block
// until the process exits; cancelling the context terminates the process.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// FFmpeg is the exec-backed Runner. Every invocation shares the same
// preamble (-hide_banner, -nostdin, -y, quiet loglevel); stderr is captured
// for diagnostics and, in verbose mode, tee'd through in real time.
type FFmpeg struct {
	Binary  string
	Verbose bool
	Log     hclog.Logger
}

// NewFFmpeg builds a Runner invoking the ffmpeg binary on PATH.
func NewFFmpeg(verbose bool, log hclog.Logger) *FFmpeg {
	return &FFmpeg{Binary: "ffmpeg", Verbose: verbose, Log: log}
}

// Run executes ffmpeg with the given arguments. On a non-zero exit it
// returns an [*Error] carrying the captured stderr verbatim.
func (f *FFmpeg) Run(ctx context.Context, args []string) error {
	full := append(f.baseArgs(), args...)
	if f.Log != nil {
		f.Log.Debug("exec", "binary", f.Binary, "args", full)
	}

	cmd := exec.CommandContext(ctx, f.Binary, full...)

	var stderr bytes.Buffer
	if f.Verbose {
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		return &Error{Binary: f.Binary, Stderr: stderr.String(), Err: err}
	}
	return nil
}

func (f *FFmpeg) baseArgs() []string {
	level := "error"
	if f.Verbose {
		level = "info"
	}
	return []string{"-hide_banner", "-nostdin", "-loglevel", level, "-y"}
}
