package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into mixing, placement, preview, behavior, and display.
// Override flags (e.g. --no-limiter) are applied after Parse so Config
// defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// version is shown in --version and help; override at build time with -ldflags "-X main.version=...".
var version = "1.0.0-dev"

// ParseFlags parses os.Args into cfg. On --help or --version it prints and exits.
// On error it returns non-nil (e.g. unknown flag, missing positional args).
func ParseFlags(cfg *Config) error {
	fs := flag.NewFlagSet("dubmix", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	// Override flags: we capture values then apply to cfg after Parse,
	// so that defaults (and config-file values) hold unless the user
	// passes the flag.
	var o overrideFlags

	defineMixFlags(fs, cfg, &o)
	definePreviewFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &o)
	defineUtilityFlags(fs, &o)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if err := applyOverrideFlags(cfg, &o); err != nil {
		return err
	}

	if o.showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if o.showVersion {
		fmt.Fprintln(os.Stdout, "dubmix v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// overrideFlags holds flags that are applied after Parse.
// These either invert a default (e.g. noLimiter -> EnableLimiter=false)
// or trigger exit (showHelp, showVersion).
type overrideFlags struct {
	seed        string
	noLimiter   bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineMixFlags registers -w/--workers, --bitrate, --override-audio,
// --no-limiter, --limiter, --seed, --retries.
func defineMixFlags(fs *flag.FlagSet, cfg *Config, o *overrideFlags) {
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent mix jobs (0 = one per CPU)")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "Same as --workers")
	fs.StringVar(&cfg.AudioBitrate, "bitrate", cfg.AudioBitrate, "Output audio bitrate (e.g. 192k)")
	fs.BoolVar(&cfg.OverrideOriginalAudio, "override-audio", cfg.OverrideOriginalAudio, "Drop the video's original audio from the mix")
	fs.BoolVar(&o.noLimiter, "no-limiter", false, "Disable the master limiter")
	fs.StringVar(&cfg.LimiterFilter, "limiter", cfg.LimiterFilter, "Master limiter filter expression")
	fs.StringVar(&o.seed, "seed", "", "Fixed seed for music placement (default: session-derived)")
	fs.IntVar(&cfg.MusicRetryLimit, "retries", cfg.MusicRetryLimit, "Retries when a random music offset collides")
}

// definePreviewFlags registers --preview, --preview-start, --preview-duration.
func definePreviewFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.Preview, "preview", false, "Play a preview of the first paired video instead of mixing")
	fs.Float64Var(&cfg.PreviewStart, "preview-start", cfg.PreviewStart, "Preview window start (seconds)")
	fs.Float64Var(&cfg.PreviewDuration, "preview-duration", cfg.PreviewDuration, "Preview window length (seconds)")
}

// defineBehaviorFlags registers dry-run, watch, check, config.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Build and print plans; do not run ffmpeg")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&cfg.Watch, "watch", false, "Keep running and mix files as they appear")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Path to YAML config file")
}

// defineDisplayFlags registers --color, --no-color, verbose, --log, --log-level.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, o *overrideFlags) {
	fs.BoolVar(&o.forceColor, "color", false, "Force colored output")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (full ffmpeg logs)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace | debug | info | warn | error")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, o *overrideFlags) {
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&o.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&o.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&o.showHelp, "h", false, "Same as --help")
}

// applyOverrideFlags copies override flag values into cfg
// (e.g. noLimiter -> EnableLimiter=false).
func applyOverrideFlags(cfg *Config, o *overrideFlags) error {
	if o.noLimiter {
		cfg.EnableLimiter = false
	}
	if o.noColor {
		cfg.ColorMode = ColorNever
	} else if o.forceColor {
		cfg.ColorMode = ColorAlways
	}
	if o.seed != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(o.seed), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid --seed value %q: must be an integer", o.seed)
		}
		cfg.MusicSeed = &n
	}
	return nil
}

// parsePositionalArgs sets InputDirs and OutputDir from the positional args
// when not in CheckOnly mode. The last arg is the output directory; the rest
// are input files or directories.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if cfg.Preview {
		// Preview writes no final output; all positionals are inputs.
		if len(args) < 1 {
			return fmt.Errorf("need at least one input path")
		}
		for _, a := range args {
			cfg.InputDirs = append(cfg.InputDirs, NormalizePathArg(a))
		}
		return nil
	}
	if len(args) < 2 {
		return fmt.Errorf("need at least one input path and an output_dir")
	}
	for _, a := range args[:len(args)-1] {
		cfg.InputDirs = append(cfg.InputDirs, NormalizePathArg(a))
	}
	cfg.OutputDir = NormalizePathArg(args[len(args)-1])
	return nil
}

// NormalizePathArg cleans a user-supplied path and expands a leading ~.
func NormalizePathArg(p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return filepath.Clean(p)
}

// printUsage writes the grouped help text.
func printUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "dubmix v%s - batch audio mixing for video files\n\n", version)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dubmix [flags] <input>... <output_dir>")
	fmt.Fprintln(w, "  dubmix --check")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Mixing:")
	fmt.Fprintln(w, "  -w, --workers N         Concurrent mix jobs (0 = one per CPU)")
	fmt.Fprintln(w, "      --bitrate RATE      Output audio bitrate (default 192k)")
	fmt.Fprintln(w, "      --override-audio    Drop the video's original audio")
	fmt.Fprintln(w, "      --no-limiter        Disable the master limiter")
	fmt.Fprintln(w, "      --limiter EXPR      Master limiter filter expression")
	fmt.Fprintln(w, "      --seed N            Fixed seed for music placement")
	fmt.Fprintln(w, "      --retries N         Music placement retries (default 3)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Preview:")
	fmt.Fprintln(w, "      --preview           Play a preview of the first paired video")
	fmt.Fprintln(w, "      --preview-start S   Preview window start in seconds")
	fmt.Fprintln(w, "      --preview-duration S  Preview window length in seconds")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Behavior:")
	fmt.Fprintln(w, "  -d, --dry-run           Build and print plans without running ffmpeg")
	fmt.Fprintln(w, "      --watch             Keep running and mix files as they appear")
	fmt.Fprintln(w, "  -c, --check             Run system diagnostics and exit")
	fmt.Fprintln(w, "      --config FILE       YAML config file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Display:")
	fmt.Fprintln(w, "      --color / --no-color  Force or disable colored output")
	fmt.Fprintln(w, "  -v, --verbose           Verbose output")
	fmt.Fprintln(w, "  -l, --log FILE          Append logs to file")
	fmt.Fprintln(w, "      --log-level LEVEL   trace | debug | info | warn | error")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  -V, --version           Print version and exit")
	fmt.Fprintln(w, "  -h, --help              Show this help")
}
