// Package logging constructs the process-wide hclog logger from the
// runtime configuration. Packages receive the logger (or a Named child)
// through their constructors; nothing reads a global.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/clipforge/dubmix/internal/config"
)

// New builds the root logger. When cfg.LogFile is set, output is teed to
// the file (ANSI-free) in addition to stderr. The returned closer releases
// the log file; it is a no-op when no file is open.
func New(cfg *config.Config) (hclog.Logger, io.Closer, error) {
	level := hclog.LevelFromString(cfg.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	if cfg.Verbose && level > hclog.Debug {
		level = hclog.Debug
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
		closer = f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "dubmix",
		Level:  level,
		Output: out,
		Color:  colorOption(cfg.ColorMode, cfg.LogFile != ""),
	})
	return logger, closer, nil
}

// colorOption maps the config color mode onto hclog's color setting.
// A log file forces colors off so the file stays ANSI-free.
func colorOption(mode config.ColorMode, hasFile bool) hclog.ColorOption {
	if hasFile {
		return hclog.ColorOff
	}
	switch mode {
	case config.ColorAlways:
		return hclog.ForceColor
	case config.ColorNever:
		return hclog.ColorOff
	default:
		return hclog.AutoColor
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
