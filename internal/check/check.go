// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe, the configured
// encoder, and the lavfi and cropdetect filters preprocessing relies on.
package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/clipstack/internal/config"
	"github.com/backmassage/clipstack/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps when a required tool or capability is missing.
var (
	ErrFFmpegNotFound     = errors.New("ffmpeg not found")
	ErrFFprobeNotFound    = errors.New("ffprobe not found")
	ErrEncoderUnavailable = errors.New("video encoder unavailable")
	ErrFilterUnavailable  = errors.New("required ffmpeg filter unavailable")
)

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// CommandFunc runs name with args and returns its captured output streams.
type CommandFunc func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

// Checker probes the configured tools. LookPath and Command default to the
// os/exec implementations.
type Checker struct {
	FFmpeg   string
	FFprobe  string
	Codec    string
	Autocrop config.Autocrop

	LookPath func(string) (string, error)
	Command  CommandFunc
}

// New returns a Checker for the tools and encoder named in cfg.
func New(cfg *config.Config) *Checker {
	return &Checker{
		FFmpeg:   cfg.Tools.FFmpeg,
		FFprobe:  cfg.Tools.FFprobe,
		Codec:    cfg.Encode.Codec,
		Autocrop: cfg.Autocrop,
		LookPath: exec.LookPath,
		Command:  runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// testSource is a tiny lavfi clip large enough for cropdetect and x264.
const testSource = "color=c=black:s=256x256:d=0.1"

func (c *Checker) version(ctx context.Context, bin string) (string, error) {
	if _, err := c.LookPath(bin); err != nil {
		return "", err
	}
	out, _, err := c.Command(ctx, bin, "-version")
	if err != nil {
		return "", err
	}
	first, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return first, nil
}

func (c *Checker) lavfi(ctx context.Context) (string, error) {
	_, stderr, err := c.Command(ctx, c.FFmpeg,
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", testSource,
		"-f", "null", "-",
	)
	return stderr, err
}

func (c *Checker) encoder(ctx context.Context) (string, error) {
	_, stderr, err := c.Command(ctx, c.FFmpeg,
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", testSource,
		"-c:v", c.Codec,
		"-f", "null", "-",
	)
	return stderr, err
}

func (c *Checker) cropdetect(ctx context.Context) (string, error) {
	_, stderr, err := c.Command(ctx, c.FFmpeg,
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", testSource,
		"-vf", fmt.Sprintf("cropdetect=%d:%d:%d", c.Autocrop.Limit, c.Autocrop.Round, c.Autocrop.Reset),
		"-f", "null", "-",
	)
	return stderr, err
}

// RunCheck runs the interactive --check flow and reports whether every
// check passed. It does not stop at the first failure.
func RunCheck(ctx context.Context, c *Checker, log Logger) bool {
	log.Info("=== System Check ===")
	ok := true

	v, err := c.version(ctx, c.FFmpeg)
	if err != nil {
		log.Error("%s not usable: %v", c.FFmpeg, err)
		return false
	}
	log.Success("ffmpeg: %s", v)
	if v, err := c.version(ctx, c.FFprobe); err != nil {
		log.Error("%s not usable: %v", c.FFprobe, err)
		ok = false
	} else {
		log.Success("ffprobe: %s", v)
	}

	if stderr, err := c.lavfi(ctx); err != nil {
		log.Error("lavfi color source failed: %s", describe(stderr, err))
		log.Warn("Placeholders and the checks below need it")
		return false
	}
	log.Success("lavfi color source works")

	if stderr, err := c.encoder(ctx); err != nil {
		if ffmpeg.MatchUnknownEncoder(stderr) {
			log.Error("Encoder %s is not compiled into this ffmpeg", c.Codec)
		} else {
			log.Error("Encoder %s test failed: %s", c.Codec, describe(stderr, err))
		}
		ok = false
	} else {
		log.Success("Encoder %s works", c.Codec)
	}

	if stderr, err := c.cropdetect(ctx); err != nil {
		if ffmpeg.MatchNoSuchFilter(stderr) {
			log.Error("cropdetect filter is missing; autocrop will fall back to copies")
		} else {
			log.Error("cropdetect test failed: %s", describe(stderr, err))
		}
		ok = false
	} else {
		log.Success("cropdetect filter works")
	}
	return ok
}

// CheckDeps is the pre-pipeline gate: ffmpeg and ffprobe must resolve and
// the configured encoder must complete a short test encode. A missing
// cropdetect filter is not fatal because autocrop degrades to copying.
func CheckDeps(ctx context.Context, c *Checker) error {
	if _, err := c.LookPath(c.FFmpeg); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, c.FFmpeg)
	}
	if _, err := c.LookPath(c.FFprobe); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, c.FFprobe)
	}
	if stderr, err := c.lavfi(ctx); err != nil {
		return fmt.Errorf("%w: lavfi color: %s", ErrFilterUnavailable, describe(stderr, err))
	}
	if stderr, err := c.encoder(ctx); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrEncoderUnavailable, c.Codec, describe(stderr, err))
	}
	return nil
}

func describe(stderr string, err error) string {
	if line := ffmpeg.LastLine(stderr); line != "" {
		return line
	}
	return err.Error()
}
