// Command dubmix is the CLI entrypoint for the dubmix batch audio mixer.
//
// It parses flags, merges the YAML config file, validates paths, and
// either runs system diagnostics (--check), a one-shot batch, or watch
// mode.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/clipforge/dubmix/internal/check"
	"github.com/clipforge/dubmix/internal/config"
	"github.com/clipforge/dubmix/internal/display"
	"github.com/clipforge/dubmix/internal/logging"
	"github.com/clipforge/dubmix/internal/pipeline"
	"github.com/clipforge/dubmix/internal/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once logging.New succeeds, all output
	// goes through the logger.
	cfg := config.DefaultConfig()

	// Flags are parsed twice around the config file so that --config is
	// honored and explicit flags still win over file values.
	if err := config.ParseFlags(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "dubmix: %v\n", err)
		return 1
	}
	path := cfg.ConfigFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path != "" {
		if err := config.LoadConfigFile(&cfg, path); err != nil {
			fmt.Fprintf(os.Stderr, "dubmix: %v\n", err)
			return 1
		}
		cfg.InputDirs = nil
		if err := config.ParseFlags(&cfg); err != nil {
			fmt.Fprintf(os.Stderr, "dubmix: %v\n", err)
			return 1
		}
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "dubmix: %v\n", err)
		return 1
	}

	term.Configure(cfg.ColorMode)

	log, logCloser, err := logging.New(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dubmix: %v\n", err)
		return 1
	}
	defer logCloser.Close()

	// Phase 2: Logger available.
	display.PrintBanner()

	if cfg.CheckOnly {
		check.RunCheck(log)
		return 0
	}

	// Resolve and validate paths: inputs must exist, output is created if
	// needed, and output must not be inside an input directory.
	var inputAbs []string
	for _, in := range cfg.InputDirs {
		abs, err := absPath(in)
		if err != nil {
			log.Error("input not found", "path", in)
			return 1
		}
		inputAbs = append(inputAbs, abs)
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Error("cannot create output directory", "path", cfg.OutputDir, "error", err)
			return 1
		}
		outputAbs, err := absPath(cfg.OutputDir)
		if err != nil {
			log.Error("cannot resolve output path", "path", cfg.OutputDir)
			return 1
		}
		if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
			log.Error(err.Error())
			return 1
		}
	}

	log.Info("starting", "inputs", cfg.InputDirs, "output", cfg.OutputDir,
		"workers", cfg.EffectiveWorkers())
	if cfg.DryRun {
		log.Warn("dry run, no files will be written")
	}

	// Fail fast if ffmpeg/ffprobe or the encoders they need are missing.
	if !cfg.DryRun {
		if err := check.CheckDeps(); err != nil {
			log.Error(err.Error())
			return 1
		}
	}

	// Phase 3: Signals — cancel the context on SIGINT/SIGTERM so running
	// ffmpeg processes are killed and queued jobs drain as canceled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("interrupt received, stopping")
		cancel()
	}()

	// Phase 4: Run.
	if cfg.Preview {
		if err := pipeline.Preview(ctx, &cfg, log); err != nil && !errors.Is(err, context.Canceled) {
			log.Error(err.Error())
			return 1
		}
		return 0
	}
	if cfg.Watch {
		if err := pipeline.Watch(ctx, &cfg, log); err != nil && !errors.Is(err, context.Canceled) {
			log.Error(err.Error())
			return 1
		}
		return 0
	}

	stats := pipeline.Run(ctx, &cfg, log)
	if !stats.Ok() {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
