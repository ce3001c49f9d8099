// Package config holds runtime configuration: defaults, the YAML config
// file, CLI flag parsing, and validation. Settings flow one way — a Config
// is built at startup and passed by pointer to the packages that need it.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally merged with a YAML config file, and then mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args; InputDirs may name files or dirs).
	InputDirs []string `yaml:"-"`
	OutputDir string   `yaml:"output_dir"`

	// Scheduler settings.
	Workers int `yaml:"workers"` // 0 = one per CPU

	// Mix output settings.
	AudioBitrate string `yaml:"audio_bitrate"` // e.g. "192k"

	// Track defaults applied to freshly paired videos.
	OverrideOriginalAudio bool   `yaml:"override_original_audio"`
	EnableLimiter         bool   `yaml:"enable_limiter"`
	LimiterFilter         string `yaml:"limiter_filter"`
	MusicRetryLimit       int    `yaml:"music_retry_limit"`
	MusicSeed             *int64 `yaml:"music_seed"` // nil = session-derived

	// Preview window defaults.
	PreviewStart    float64 `yaml:"preview_start"`
	PreviewDuration float64 `yaml:"preview_duration"`

	// Behavior.
	Watch     bool `yaml:"-"` // keep running, import files as they appear
	Preview   bool `yaml:"-"` // play the preview window instead of mixing
	DryRun    bool `yaml:"-"`
	CheckOnly bool `yaml:"-"`

	// Display and logging.
	Verbose   bool      `yaml:"verbose"`
	ColorMode ColorMode `yaml:"color"`
	LogLevel  string    `yaml:"log_level"`
	LogFile   string    `yaml:"log_file"`

	// ConfigFile is the explicit --config path; empty means search the
	// standard locations.
	ConfigFile string `yaml:"-"`
}

// DefaultConfig returns the built-in defaults, matching the legacy
// config.ini values where one existed.
func DefaultConfig() Config {
	return Config{
		Workers:         runtime.NumCPU(),
		AudioBitrate:    "192k",
		EnableLimiter:   true,
		LimiterFilter:   "alimiter=limit=0.9",
		MusicRetryLimit: 3,
		PreviewStart:    0,
		PreviewDuration: 10,
		ColorMode:       ColorAuto,
		LogLevel:        "info",
	}
}

// Validate checks the configuration for structural errors. It is called
// once after flags are applied, before anything else starts.
func (c *Config) Validate() error {
	if !c.CheckOnly && len(c.InputDirs) == 0 {
		return errors.New("no input path given")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.MusicRetryLimit < 0 {
		return fmt.Errorf("music retry limit must be >= 0, got %d", c.MusicRetryLimit)
	}
	if c.PreviewDuration <= 0 {
		return fmt.Errorf("preview duration must be > 0, got %g", c.PreviewDuration)
	}
	if !validBitrate(c.AudioBitrate) {
		return fmt.Errorf("invalid audio bitrate %q", c.AudioBitrate)
	}
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q", c.ColorMode)
	}
	return nil
}

// ValidatePaths rejects an output directory nested inside an input
// directory, which would feed mixed outputs back into discovery.
func (c *Config) ValidatePaths(inputAbs []string, outputAbs string) error {
	for _, in := range inputAbs {
		rel, err := filepath.Rel(in, outputAbs)
		if err != nil {
			continue
		}
		if rel == "." || !strings.HasPrefix(rel, "..") {
			return fmt.Errorf("output directory %s is inside input %s", outputAbs, in)
		}
	}
	return nil
}

// EffectiveWorkers resolves the worker count, substituting the CPU count
// for 0.
func (c *Config) EffectiveWorkers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// validBitrate accepts ffmpeg-style bitrates: digits with an optional k/M
// suffix.
func validBitrate(s string) bool {
	if s == "" {
		return false
	}
	body := strings.TrimRight(s, "kKmM")
	if body == "" || len(s)-len(body) > 1 {
		return false
	}
	for _, r := range body {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
