// Package config holds runtime configuration: defaults, TOML file loading,
// environment overrides, CLI flag overlay, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Tools locates the external media-inspection and transcoding binaries.
type Tools struct {
	FFmpeg         string `toml:"ffmpeg" env:"FFMPEG, overwrite" validate:"required"`
	FFprobe        string `toml:"ffprobe" env:"FFPROBE, overwrite" validate:"required"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"TOOL_TIMEOUT, overwrite" validate:"gte=0"` // 0 disables the per-invocation timeout.
}

// Encode holds the video encoder settings shared by every re-encoding step.
type Encode struct {
	Extension         string  `toml:"extension" validate:"required,alphanum"`
	Codec             string  `toml:"codec" validate:"required"`
	Preset            string  `toml:"preset" validate:"required"`
	CRF               int     `toml:"crf" validate:"gte=0,lte=51"`
	PixFmt            string  `toml:"pix_fmt" validate:"required"`
	PlaceholderPreset string  `toml:"placeholder_preset" validate:"required"`
	PlaceholderFPS    float64 `toml:"placeholder_fps" validate:"gt=0"` // Used when the reference clip reports no frame rate.
}

// Autocrop holds the black-border detection parameters.
type Autocrop struct {
	WindowSeconds float64 `toml:"window_seconds" validate:"gt=0"`
	Limit         int     `toml:"limit" validate:"gte=0,lte=255"`
	Round         int     `toml:"round" validate:"gte=0"`
	Reset         int     `toml:"reset" validate:"gte=0"`
}

// Run holds batch behavior settings.
type Run struct {
	Workers int  `toml:"workers" env:"WORKERS, overwrite" validate:"gte=1,lte=64"`
	DryRun  bool `toml:"dry_run"`
}

// Log holds display and logging settings.
type Log struct {
	Verbose bool      `toml:"verbose"`
	Color   ColorMode `toml:"color" env:"COLOR, overwrite" validate:"oneof=auto always never"`
	File    string    `toml:"file" env:"LOG_FILE, overwrite"`
}

// Preprocess points at an optional user plan registry that replaces the
// built-in one.
type Preprocess struct {
	PlanFile string `toml:"plan_file" env:"PLAN_FILE, overwrite"`
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then overlaid by [Load] (TOML file), [ApplyEnv] and [Flags.Apply] before
// being passed by pointer to the packages that need it.
type Config struct {
	// Paths (set from positional args).
	InputDir  string `toml:"-" validate:"required_without=CheckOnly"`
	OutputDir string `toml:"-" validate:"required_without=CheckOnly"`

	Tools      Tools      `toml:"tools"`
	Encode     Encode     `toml:"encode"`
	Autocrop   Autocrop   `toml:"autocrop"`
	Run        Run        `toml:"run"`
	Log        Log        `toml:"log"`
	Preprocess Preprocess `toml:"preprocess"`

	CheckOnly bool `toml:"-"` // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with the built-in defaults. Encoder values
// match the settings the comparison pages were originally rendered with.
func DefaultConfig() Config {
	return Config{
		Tools: Tools{
			FFmpeg:         "ffmpeg",
			FFprobe:        "ffprobe",
			TimeoutSeconds: 1800,
		},
		Encode: Encode{
			Extension:         "mp4",
			Codec:             "libx264",
			Preset:            "medium",
			CRF:               23,
			PixFmt:            "yuv420p",
			PlaceholderPreset: "ultrafast",
			PlaceholderFPS:    12,
		},
		Autocrop: Autocrop{
			WindowSeconds: 3,
			Limit:         20,
			Round:         2,
			Reset:         0,
		},
		Run: Run{
			Workers: 1,
		},
		Log: Log{
			Color: ColorAuto,
		},
	}
}

// ToolTimeout returns the bound applied to every external tool invocation,
// or zero when invocations are unbounded.
func (c *Config) ToolTimeout() time.Duration {
	return time.Duration(c.Tools.TimeoutSeconds) * time.Second
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

var validate = validator.New()

// Validate checks field ranges and enum values. Outside CheckOnly mode it
// also requires both directory paths.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is either the input
// directory itself or lies outside it. A nested output directory would be
// discovered as a scene folder on the next run. Both arguments must be
// absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	if outputAbs == inputAbs {
		return nil
	}
	sep := string(filepath.Separator)
	if strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must be the input directory or lie outside it")
	}
	return nil
}
