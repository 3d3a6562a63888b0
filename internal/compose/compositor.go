package compose

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/backmassage/clipstack/internal/config"
	"github.com/backmassage/clipstack/internal/ffmpeg"
	"github.com/backmassage/clipstack/internal/fileutil"
	"github.com/backmassage/clipstack/internal/logging"
	"github.com/backmassage/clipstack/internal/probe"
)

// Result describes a written output.
type Result struct {
	Output  string
	Size    int64
	Width   int
	Height  int
	Elapsed time.Duration
}

// Compositor runs compositions through ffmpeg.
type Compositor struct {
	Runner   ffmpeg.Runner
	FFmpeg   string
	Encoding ffmpeg.Encoding
}

// NewCompositor builds a Compositor from cfg around runner.
func NewCompositor(cfg *config.Config, runner ffmpeg.Runner) *Compositor {
	return &Compositor{Runner: runner, FFmpeg: cfg.Tools.FFmpeg, Encoding: ffmpeg.EncodingFrom(cfg)}
}

// Compose writes the stacked video for s to output. Any previous output is
// removed first, so success means this run wrote the file. A non-zero exit
// that still leaves an output file is logged and counted as success; a
// timeout never is.
func (c *Compositor) Compose(ctx context.Context, log *logging.Logger, s *Spec, output string) (Result, error) {
	start := time.Now()
	if err := fileutil.RemoveIfExists(output); err != nil {
		return Result{}, fmt.Errorf("remove stale output: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}

	graph, label := BuildFilterGraph(s)
	args := ffmpeg.StackArgs(s.Paths(), graph, label, output, c.Encoding)
	if log.Verbose() {
		log.Render("%s", ffmpeg.CommandLine(c.FFmpeg, args))
	}

	res, runErr := c.Runner.Run(ctx, ffmpeg.Invocation{Op: "compose", Args: args, Output: output})

	var te *ffmpeg.TranscodeError
	if errors.As(runErr, &te) && te.TimedOut {
		_ = fileutil.RemoveIfExists(output)
		logStderr(log, res.Stderr)
		return Result{}, runErr
	}

	info, statErr := os.Stat(output)
	if statErr != nil {
		logStderr(log, res.Stderr)
		if runErr != nil {
			return Result{}, runErr
		}
		return Result{}, &ffmpeg.TranscodeError{Op: "compose", Output: output, Stderr: res.Stderr}
	}
	if runErr != nil {
		log.Warn("ffmpeg reported an error but wrote %s: %v", filepath.Base(output), runErr)
	}

	return Result{
		Output:  output,
		Size:    info.Size(),
		Width:   s.FrameWidth(),
		Height:  s.Height,
		Elapsed: time.Since(start),
	}, nil
}

// ProbeAll probes paths in order. Assets are always probed fresh because
// preprocessing may have rewritten the files.
func ProbeAll(ctx context.Context, p probe.Prober, paths []string) ([]probe.Asset, error) {
	assets := make([]probe.Asset, 0, len(paths))
	for _, path := range paths {
		a, err := p.Probe(ctx, path)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// LogPlan prints the target frame and how each clip will be placed.
func LogPlan(log *logging.Logger, s *Spec) {
	log.Info("Target size: %dx%d", s.Width, s.Height)
	for i, p := range s.Placements() {
		note := "scale"
		switch {
		case p.Cropped:
			note = fmt.Sprintf("scale, crop to %d", s.Width)
		case s.CropToWidth && p.ScaledWidth < s.Width:
			note = fmt.Sprintf("scale only (%d < %d)", p.ScaledWidth, s.Width)
		}
		log.Info("  %d. %s %s -> %dx%d (%s)", i+1, filepath.Base(p.Asset.Path), p.Asset.Resolution(),
			p.ScaledWidth, s.Height, note)
	}
}

// LogResult prints the success line for r.
func LogResult(log *logging.Logger, r Result) {
	log.Success("Wrote %s (%dx%d, %s) in %s", r.Output, r.Width, r.Height,
		humanize.Bytes(uint64(r.Size)), r.Elapsed.Round(time.Second))
}

func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}
