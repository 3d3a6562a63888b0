package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/backmassage/clipstack/internal/check"
	"github.com/backmassage/clipstack/internal/config"
	"github.com/backmassage/clipstack/internal/display"
	"github.com/backmassage/clipstack/internal/logging"
	"github.com/backmassage/clipstack/internal/pipeline"
)

// errReported is returned once the failure has already gone through the
// logger, so main only sets the exit status.
var errReported = errors.New("reported")

func newRootCommand() *cobra.Command {
	var flags *config.Flags
	cmd := &cobra.Command{
		Use:   "clipstack [flags] input_dir [output_dir]",
		Short: "Stack each scene folder's method clips into one comparison video",
		Long: `clipstack walks the scene folders under input_dir. For each folder it
runs any matching preprocessing plan, picks and orders one clip per method,
and writes <folder>.mp4 with the clips side by side to output_dir
(default: input_dir).`,
		Version:       version + " (" + commit + ")",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := loadConfig(cmd.Context(), cmd.Flags(), flags, args)
			if err != nil {
				return err
			}
			return execute(cmd.Context(), &cfg, cfgPath)
		},
	}
	flags = config.RegisterFlags(cmd.Flags())
	return cmd
}

// loadConfig layers defaults, the TOML file, CLIPSTACK_* variables and the
// changed flags, then validates the result.
func loadConfig(ctx context.Context, fs *pflag.FlagSet, flags *config.Flags, args []string) (config.Config, string, error) {
	cfg := config.DefaultConfig()
	path, _, err := config.Load(&cfg, flags.ConfigFile)
	if err != nil {
		return cfg, "", err
	}
	if err := config.ApplyEnv(ctx, &cfg); err != nil {
		return cfg, "", err
	}
	if err := flags.Apply(fs, &cfg, args); err != nil {
		return cfg, "", err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	return cfg, path, nil
}

func execute(ctx context.Context, cfg *config.Config, cfgPath string) error {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	// From here on all output goes through log.
	display.PrintBanner(os.Stdout)
	if cfgPath != "" {
		log.Info("Config: %s", cfgPath)
	}

	checker := check.New(cfg)
	if cfg.CheckOnly {
		if !check.RunCheck(ctx, checker, log) {
			return errReported
		}
		return nil
	}

	// Input must exist; output is created if needed and must not be nested
	// inside input, or it would be discovered as a scene folder.
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		return errReported
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return errReported
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return errReported
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.InputDir)
		return errReported
	}

	log.Info("=== clipstack v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	log.Info("")

	if err := check.CheckDeps(ctx, checker); err != nil {
		log.Error("%v", err)
		log.Error("Run with --check for details")
		return errReported
	}

	deps, err := pipeline.NewDeps(cfg, log)
	if err != nil {
		log.Error("%v", err)
		return errReported
	}

	// Folder failures are reported in the summary; they do not change the
	// exit status.
	if _, err := pipeline.Run(ctx, cfg, log, deps); err != nil {
		log.Error("%v", err)
		return errReported
	}
	return nil
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return resolved, nil
}
