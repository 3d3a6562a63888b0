package config

// This file binds CLI flags. Flags are registered into a Flags holder and
// only the ones the user actually set are copied onto Config, so values
// from the TOML file and environment hold unless overridden on the command line.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds raw flag values until [Flags.Apply] copies the changed ones
// onto a Config.
type Flags struct {
	ConfigFile string

	ffmpeg   string
	ffprobe  string
	timeout  int
	workers  int
	dryRun   bool
	verbose  bool
	color    string
	noColor  bool
	logFile  string
	planFile string
	check    bool
}

// RegisterFlags defines every clipstack flag on fs, grouped into tools,
// behavior, display and utility.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}
	def := DefaultConfig()

	fs.StringVarP(&f.ConfigFile, "config", "C", "", "TOML configuration file (default ./clipstack.toml when present)")

	fs.StringVar(&f.ffmpeg, "ffmpeg", def.Tools.FFmpeg, "ffmpeg binary")
	fs.StringVar(&f.ffprobe, "ffprobe", def.Tools.FFprobe, "ffprobe binary")
	fs.IntVar(&f.timeout, "timeout", def.Tools.TimeoutSeconds, "Per-invocation tool timeout in seconds (0 = none)")

	fs.IntVarP(&f.workers, "workers", "j", def.Run.Workers, "Scene folders processed in parallel")
	fs.BoolVarP(&f.dryRun, "dry-run", "d", false, "Classify, sort and print the plan; do not transcode")
	fs.StringVar(&f.planFile, "plans", "", "Preprocessing plan registry (TOML) replacing the built-in one")

	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose output")
	fs.StringVar(&f.color, "color", string(def.Log.Color), "Color mode: auto | always | never")
	fs.BoolVar(&f.noColor, "no-color", false, "Same as --color=never")
	fs.StringVarP(&f.logFile, "log", "l", "", "Append logs to file")

	fs.BoolVarP(&f.check, "check", "c", false, "Run system diagnostics and exit")
	return f
}

// Apply copies the flags set on the command line onto cfg and assigns the
// positional directories. With a single positional argument the output
// directory defaults to the input directory.
func (f *Flags) Apply(fs *pflag.FlagSet, cfg *Config, args []string) error {
	if fs.Changed("ffmpeg") {
		cfg.Tools.FFmpeg = f.ffmpeg
	}
	if fs.Changed("ffprobe") {
		cfg.Tools.FFprobe = f.ffprobe
	}
	if fs.Changed("timeout") {
		cfg.Tools.TimeoutSeconds = f.timeout
	}
	if fs.Changed("workers") {
		cfg.Run.Workers = f.workers
	}
	if fs.Changed("dry-run") {
		cfg.Run.DryRun = f.dryRun
	}
	if fs.Changed("plans") {
		cfg.Preprocess.PlanFile = f.planFile
	}
	if fs.Changed("verbose") {
		cfg.Log.Verbose = f.verbose
	}
	if fs.Changed("color") {
		cfg.Log.Color = ColorMode(strings.ToLower(f.color))
	}
	if f.noColor {
		cfg.Log.Color = ColorNever
	}
	if fs.Changed("log") {
		cfg.Log.File = f.logFile
	}
	cfg.CheckOnly = f.check

	if cfg.CheckOnly {
		return nil
	}
	switch len(args) {
	case 1:
		cfg.InputDir = NormalizeDirArg(args[0])
		cfg.OutputDir = cfg.InputDir
	case 2:
		cfg.InputDir = NormalizeDirArg(args[0])
		cfg.OutputDir = NormalizeDirArg(args[1])
	default:
		return fmt.Errorf("need input_dir and optional output_dir (got %d arguments)", len(args))
	}
	return nil
}
