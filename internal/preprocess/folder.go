package preprocess

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/backmassage/clipstack/internal/config"
	"github.com/backmassage/clipstack/internal/ffmpeg"
	"github.com/backmassage/clipstack/internal/fileutil"
	"github.com/backmassage/clipstack/internal/logging"
	"github.com/backmassage/clipstack/internal/probe"
	"github.com/backmassage/clipstack/internal/scene"
)

// ErrMissingInput marks a step whose source or reference clip is absent.
// The step is skipped; it is not a failure.
var ErrMissingInput = errors.New("missing input")

// ErrNoDuration marks a trim reference whose video stream reports no length.
var ErrNoDuration = errors.New("reference reports no duration")

// Tools bundles the external tooling and encoder settings shared by every
// folder of a run.
type Tools struct {
	Prober         probe.Prober
	Runner         ffmpeg.Runner
	FFmpeg         string // Binary name, for logged command lines.
	Encoding       ffmpeg.Encoding
	Autocrop       config.Autocrop
	PlaceholderFPS float64
}

// NewTools builds Tools from cfg around the given prober and runner.
func NewTools(cfg *config.Config, prober probe.Prober, runner ffmpeg.Runner) *Tools {
	return &Tools{
		Prober:         prober,
		Runner:         runner,
		FFmpeg:         cfg.Tools.FFmpeg,
		Encoding:       ffmpeg.EncodingFrom(cfg),
		Autocrop:       cfg.Autocrop,
		PlaceholderFPS: cfg.Encode.PlaceholderFPS,
	}
}

// Folder is the context every step receives for one scene folder. It is
// never shared between folders.
type Folder struct {
	Name  string
	Dir   string
	Log   *logging.Logger
	Tools *Tools

	invocations int
	problems    []error
}

// NewFolder returns the context for the scene folder at dir.
func NewFolder(dir string, log *logging.Logger, tools *Tools) *Folder {
	return &Folder{Name: filepath.Base(dir), Dir: dir, Log: log, Tools: tools}
}

// run executes one ffmpeg invocation. A call that exits cleanly but leaves
// no output file is a failure too.
func (f *Folder) run(ctx context.Context, op string, args []string, output string) (ffmpeg.Result, error) {
	f.invocations++
	if f.Log.Verbose() {
		f.Log.Render("%s", ffmpeg.CommandLine(f.Tools.FFmpeg, args))
	}
	res, err := f.Tools.Runner.Run(ctx, ffmpeg.Invocation{Op: op, Args: args, Output: output})
	if err != nil {
		return res, err
	}
	if output != "" && !fileutil.Exists(output) {
		return res, &ffmpeg.TranscodeError{Op: op, Output: output, Stderr: res.Stderr}
	}
	return res, nil
}

// probe always asks the prober; assets are never reused across steps.
func (f *Folder) probe(ctx context.Context, path string) (probe.Asset, error) {
	return f.Tools.Prober.Probe(ctx, path)
}

// copyClip stands in for a transcode whose result would equal its input.
func (f *Folder) copyClip(src, dst string) error {
	if err := fileutil.CopyFile(src, dst); err != nil {
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	return nil
}

// report records a non-fatal step problem.
func (f *Folder) report(err error) {
	f.Log.Warn("%v", err)
	f.problems = append(f.problems, err)
}

// sources lists the folder's source clips, sorted, leaving out everything
// preprocessing derived on this or an earlier run.
func (f *Folder) sources() ([]string, error) {
	snap, err := scene.TakeSnapshot(f.Dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range snap.Names() {
		if !scene.IsDerived(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// methodClip is a source clip tagged with its comparison method.
type methodClip struct {
	Method string
	Path   string
}

// methodSources returns the first source clip of each required method,
// in presentation order.
func (f *Folder) methodSources() ([]methodClip, error) {
	names, err := f.sources()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	byMethod := map[string]string{}
	for _, n := range names {
		m := scene.MethodOf(n)
		if seen[m] || !slices.Contains(scene.RequiredMethods, m) {
			continue
		}
		seen[m] = true
		byMethod[m] = filepath.Join(f.Dir, n)
	}
	var out []methodClip
	for _, m := range scene.RequiredMethods {
		if p, ok := byMethod[m]; ok {
			out = append(out, methodClip{Method: m, Path: p})
		}
	}
	return out, nil
}

func findMethod(clips []methodClip, method string) (methodClip, bool) {
	for _, c := range clips {
		if c.Method == method {
			return c, true
		}
	}
	return methodClip{}, false
}

// matchFirst returns the first name matching the glob pattern.
func matchFirst(names []string, pattern string) (string, bool) {
	for _, n := range names {
		if ok, _ := filepath.Match(pattern, n); ok {
			return n, true
		}
	}
	return "", false
}
