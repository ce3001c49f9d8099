package engine

import (
	"context"
	"os/exec"
)

// Player launches an external playback process against a rendered file and
// blocks until playback ends or the context is cancelled.
type Player interface {
	Play(ctx context.Context, path, title string) error
}

// FFplay plays a file with ffplay. Output is discarded; the process is
// terminated when the context is cancelled, which is how preview
// cancellation reaches the player.
type FFplay struct {
	Binary string
}

// NewFFplay builds a Player invoking the ffplay binary on PATH.
func NewFFplay() *FFplay {
	return &FFplay{Binary: "ffplay"}
}

// Play runs ffplay -autoexit against path.
func (p *FFplay) Play(ctx context.Context, path, title string) error {
	args := []string{"-autoexit", "-loglevel", "error"}
	if title != "" {
		args = append(args, "-window_title", title)
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, p.Binary, args...)
	if err := cmd.Run(); err != nil {
		return &Error{Binary: p.Binary, Err: err}
	}
	return nil
}
