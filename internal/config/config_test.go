package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCfg() Config {
	cfg := DefaultConfig()
	cfg.InputDirs = []string{"/in"}
	cfg.OutputDir = "/out"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "192k", cfg.AudioBitrate)
	assert.True(t, cfg.EnableLimiter)
	assert.Equal(t, "alimiter=limit=0.9", cfg.LimiterFilter)
	assert.Equal(t, 3, cfg.MusicRetryLimit)
	assert.Nil(t, cfg.MusicSeed)
	assert.Equal(t, 10.0, cfg.PreviewDuration)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
	assert.Positive(t, cfg.Workers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid defaults", func(c *Config) {}, true},
		{"no inputs", func(c *Config) { c.InputDirs = nil }, false},
		{"check only needs no inputs", func(c *Config) { c.InputDirs = nil; c.CheckOnly = true }, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, false},
		{"zero workers means auto", func(c *Config) { c.Workers = 0 }, true},
		{"negative retries", func(c *Config) { c.MusicRetryLimit = -1 }, false},
		{"zero preview duration", func(c *Config) { c.PreviewDuration = 0 }, false},
		{"bad bitrate", func(c *Config) { c.AudioBitrate = "fast" }, false},
		{"empty bitrate", func(c *Config) { c.AudioBitrate = "" }, false},
		{"mega bitrate", func(c *Config) { c.AudioBitrate = "1M" }, true},
		{"bad color mode", func(c *Config) { c.ColorMode = "sometimes" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validCfg()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidatePathsRejectsNestedOutput(t *testing.T) {
	cfg := validCfg()
	assert.Error(t, cfg.ValidatePaths([]string{"/media/in"}, "/media/in/out"))
	assert.Error(t, cfg.ValidatePaths([]string{"/media/in"}, "/media/in"))
	assert.NoError(t, cfg.ValidatePaths([]string{"/media/in"}, "/media/out"))
	assert.NoError(t, cfg.ValidatePaths([]string{"/media/in"}, "/media/input2"))
}

func TestEffectiveWorkers(t *testing.T) {
	cfg := validCfg()
	cfg.Workers = 3
	assert.Equal(t, 3, cfg.EffectiveWorkers())
	cfg.Workers = 0
	assert.Positive(t, cfg.EffectiveWorkers())
}

func TestNormalizePathArg(t *testing.T) {
	assert.Equal(t, "/in/media", NormalizePathArg(" /in/media/ "))
	assert.Equal(t, "rel/path", NormalizePathArg("rel/path"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "media"), NormalizePathArg("~/media"))
}

func TestApplyOverrideFlagsSeed(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, applyOverrideFlags(&cfg, &overrideFlags{seed: " 41 "}))
	require.NotNil(t, cfg.MusicSeed)
	assert.Equal(t, int64(41), *cfg.MusicSeed)

	cfg = DefaultConfig()
	err := applyOverrideFlags(&cfg, &overrideFlags{seed: "not-a-number"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-number")
	assert.Nil(t, cfg.MusicSeed)
}

func TestLoadConfigFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dubmix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"audio_bitrate: 256k\nworkers: 2\nmusic_seed: 41\nenable_limiter: false\n"), 0644))

	cfg := DefaultConfig()
	require.NoError(t, LoadConfigFile(&cfg, path))

	assert.Equal(t, "256k", cfg.AudioBitrate)
	assert.Equal(t, 2, cfg.Workers)
	require.NotNil(t, cfg.MusicSeed)
	assert.Equal(t, int64(41), *cfg.MusicSeed)
	assert.False(t, cfg.EnableLimiter)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, "alimiter=limit=0.9", cfg.LimiterFilter)
	assert.Equal(t, 3, cfg.MusicRetryLimit)
}

func TestLoadConfigFileErrors(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, LoadConfigFile(&cfg, "/nonexistent/dubmix.yaml"))

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workers: [not an int"), 0644))
	assert.Error(t, LoadConfigFile(&cfg, bad))
}

func TestSaveConfigFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dubmix.yaml")

	cfg := DefaultConfig()
	cfg.AudioBitrate = "320k"
	require.NoError(t, SaveConfigFile(&cfg, path))

	loaded := DefaultConfig()
	require.NoError(t, LoadConfigFile(&loaded, path))
	assert.Equal(t, "320k", loaded.AudioBitrate)
}

func TestValidBitrate(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"192k", true},
		{"192", true},
		{"1M", true},
		{"", false},
		{"kb", false},
		{"192kk", false},
		{"fast", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, validBitrate(tt.in), "input %q", tt.in)
	}
}
